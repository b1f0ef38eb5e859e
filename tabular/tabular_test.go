package tabular

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/cookieharvest/models"
	"github.com/xuri/excelize/v2"
)

func sampleBatch() models.CookieBatch {
	return models.CookieBatch{
		models.NewCookieRecord(".example.com", "sid", "abc"),
		models.NewCookieRecord("www.example.com", "pref", "a,b \"quoted\""),
		models.NewCookieRecord("", "host", ""),
	}
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatXLSX, FormatFromPath("out/cookies.XLSX"))
	assert.Equal(t, FormatCSV, FormatFromPath("cookies.csv"))
	assert.Equal(t, FormatCSV, FormatFromPath("domains"))
}

func TestParseFormat(t *testing.T) {
	for _, in := range []string{"csv", "XLSX", " both "} {
		_, err := ParseFormat(in)
		assert.NoError(t, err, in)
	}

	_, err := ParseFormat("json")
	var he *models.HarvestError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, models.ErrCodeInvalidInput, he.Code)
}

func TestPaths(t *testing.T) {
	assert.Equal(t, []string{"out/c.csv"}, Paths("out/c.csv", FormatCSV))
	assert.Equal(t, []string{"out/c.xlsx"}, Paths("out/c.csv", FormatXLSX))
	assert.Equal(t, []string{"c.csv", "c.xlsx"}, Paths("c", FormatBoth))
	assert.Nil(t, Paths("c.csv", Format("json")))
}

func TestSaveCSV_HeaderAndOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.csv")

	require.NoError(t, Save(path, FormatCSV, sampleBatch()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"Domain,cookie_domain,name,value\n"+
			"example.com,.example.com,sid,abc\n"+
			"www.example.com,.www.example.com,pref,\"a,b \"\"quoted\"\"\"\n"+
			",,host,\n",
		string(raw))
}

func TestSaveAndLoadExisting_CSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.csv")
	require.NoError(t, Save(path, FormatCSV, sampleBatch()))

	got, err := LoadExisting(path)
	require.NoError(t, err)
	assert.Equal(t, sampleBatch(), got)
}

func TestSaveAndLoadExisting_XLSXRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.xlsx")
	require.NoError(t, Save(path, FormatXLSX, sampleBatch()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	header, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Equal(t, models.CookieColumns, header[0])
	require.NoError(t, f.Close())

	got, err := LoadExisting(path)
	require.NoError(t, err)
	assert.Equal(t, sampleBatch(), got)
}

func TestSave_EmptyBatchWritesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.csv")
	require.NoError(t, Save(path, FormatCSV, nil))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Domain,cookie_domain,name,value\n", string(raw))
}

func TestSave_RejectsBothAndUnknown(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []Format{FormatBoth, Format("json")} {
		err := Save(filepath.Join(dir, "x"), f, sampleBatch())
		var he *models.HarvestError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, models.ErrCodeInvalidInput, he.Code)
	}
}

func TestSave_UnwritablePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "cookies.csv")

	err := Save(path, FormatCSV, sampleBatch())

	var he *models.HarvestError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, models.ErrCodeOutput, he.Code)
}

func TestLoadExisting_MissingFile(t *testing.T) {
	got, err := LoadExisting(filepath.Join(t.TempDir(), "nope.csv"))
	assert.NoError(t, err)
	assert.Empty(t, got)

	got, err = LoadExisting(filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoadExisting_ReorderedColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.csv")
	require.NoError(t, os.WriteFile(path, []byte("\ufeffname,value,Domain\nsid,1,example.com\n"), 0o644))

	got, err := LoadExisting(path)
	require.NoError(t, err)
	assert.Equal(t, models.CookieBatch{{Domain: "example.com", Name: "sid", Value: "1"}}, got)
}

func TestLoadDomains_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "domains.csv")
	content := "example.com,ignored\n\n  shop.example.org  \nhttps://www.test.io/\n,\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got, err := LoadDomains(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"example.com", "shop.example.org", "https://www.test.io/"}, got)
}

func TestLoadDomains_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "domains.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "example.com"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", "note"))
	require.NoError(t, f.SetCellValue("Sheet1", "A3", "other.org"))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	got, err := LoadDomains(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"example.com", "other.org"}, got)
}

func TestLoadDomains_MissingFile(t *testing.T) {
	_, err := LoadDomains(filepath.Join(t.TempDir(), "nope.csv"))

	var he *models.HarvestError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, models.ErrCodeInvalidInput, he.Code)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
