package cookies

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/cookieharvest/browser"
	"github.com/use-agent/cookieharvest/browser/browsertest"
	"github.com/use-agent/cookieharvest/models"
)

func TestExtract_NormalizesDomains(t *testing.T) {
	page := &browsertest.Page{CookieJar: []browser.Cookie{
		{Name: "sid", Value: "abc", Domain: ".example.com", Path: "/"},
		{Name: "pref", Value: "dark", Domain: "www.example.com"},
		{Name: "host", Value: "1", Domain: ""},
	}}

	res := Extract(context.Background(), page, "https://www.example.com/")

	assert.Empty(t, res.Warnings)
	assert.Equal(t, []models.CookieRecord{
		{Domain: "example.com", CookieDomain: ".example.com", Name: "sid", Value: "abc"},
		{Domain: "www.example.com", CookieDomain: ".www.example.com", Name: "pref", Value: "dark"},
		{Domain: "", CookieDomain: "", Name: "host", Value: "1"},
	}, res.Records)
}

func TestExtract_EmptyJar(t *testing.T) {
	res := Extract(context.Background(), &browsertest.Page{}, "https://www.example.com/")

	assert.Empty(t, res.Records)
	assert.Empty(t, res.Warnings)
}

func TestExtract_ReadFailure(t *testing.T) {
	cause := errors.New("target closed")
	page := &browsertest.Page{CookiesErr: cause}

	res := Extract(context.Background(), page, "https://www.example.com/")

	assert.Empty(t, res.Records)
	require.Len(t, res.Warnings, 1)
	w := res.Warnings[0]
	assert.Equal(t, models.StageCookies, w.Stage)
	assert.ErrorIs(t, w.Err, cause)

	var he *models.HarvestError
	require.ErrorAs(t, w.Err, &he)
	assert.Equal(t, models.ErrCodeCookieRead, he.Code)
}
