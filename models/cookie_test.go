package models

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCookieRecord(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		wantDomain   string
		wantCookieDm string
	}{
		{"leading dot", ".example.com", "example.com", ".example.com"},
		{"no dot", "example.com", "example.com", ".example.com"},
		{"several dots", "...example.com", "example.com", ".example.com"},
		{"empty", "", "", ""},
		{"only dots", "..", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := NewCookieRecord(tt.raw, "sid", "abc")
			assert.Equal(t, tt.wantDomain, rec.Domain)
			assert.Equal(t, tt.wantCookieDm, rec.CookieDomain)
			assert.Equal(t, "sid", rec.Name)
			assert.Equal(t, "abc", rec.Value)

			assert.False(t, strings.HasPrefix(rec.Domain, "."))
			if rec.CookieDomain != "" {
				assert.Equal(t, "."+rec.Domain, rec.CookieDomain)
				assert.False(t, strings.HasPrefix(rec.CookieDomain, ".."))
			}
		})
	}
}

func TestCookieRecordRow(t *testing.T) {
	rec := NewCookieRecord(".a.com", "n", "v")
	assert.Equal(t, []string{"a.com", ".a.com", "n", "v"}, rec.Row())
	assert.Len(t, rec.Row(), len(CookieColumns))
}

func TestCookieBatchAppendKeepsOrder(t *testing.T) {
	var b CookieBatch
	b = b.Append(NewCookieRecord("a.com", "1", ""))
	b = b.Append(NewCookieRecord("b.com", "2", ""), NewCookieRecord("c.com", "3", ""))

	var names []string
	for _, r := range b {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"1", "2", "3"}, names)
}

func TestHarvestError(t *testing.T) {
	inner := errors.New("boom")
	err := NewHarvestError(ErrCodeBrowserLaunch, "failed to launch browser", inner)

	assert.Equal(t, "BROWSER_LAUNCH_FAILED: failed to launch browser: boom", err.Error())
	assert.ErrorIs(t, err, inner)
	assert.True(t, err.Fatal())
	assert.False(t, NewHarvestError(ErrCodeNavigation, "x", nil).Fatal())
	assert.Equal(t, "NAVIGATION_FAILED: x", NewHarvestError(ErrCodeNavigation, "x", nil).Error())
}
