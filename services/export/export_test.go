package export

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"sjsage522/classifiedcrawler/internal/crawler"
	crawlerrors "sjsage522/classifiedcrawler/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var testRecords = []crawler.ListingRecord{
	{Page: 1, Title: "iPhone 13 128GB", Price: 350, Link: "https://www.insomnia.gr/classifieds/item/1-iphone-13/"},
	{Page: 2, Title: "iPhone 13 mini", Price: 1234.56, Link: "https://www.insomnia.gr/classifieds/item/2-iphone-13-mini/"},
}

func TestExportXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")

	err := NewFileExporter(nil).Export(path, testRecords)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Listings"}, f.GetSheetList())

	rows, err := f.GetRows("Listings", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Page", "Title", "Price", "Link"}, rows[0])
	assert.Equal(t, []string{"1", "iPhone 13 128GB", "350", testRecords[0].Link}, rows[1])
	assert.Equal(t, []string{"2", "iPhone 13 mini", "1234.56", testRecords[1].Link}, rows[2])
}

func TestExportXLSXOverwritesAndAllowsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	require.NoError(t, NewFileExporter(nil).Export(path, nil))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Listings")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Page", "Title", "Price", "Link"}}, rows)
}

func TestExportCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	require.NoError(t, NewFileExporter(nil).Export(path, testRecords))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Page", "Title", "Price", "Link"},
		{"1", "iPhone 13 128GB", "350", testRecords[0].Link},
		{"2", "iPhone 13 mini", "1234.56", testRecords[1].Link},
	}, rows)
}

func TestExportErrors(t *testing.T) {
	dir := t.TempDir()
	exporter := NewFileExporter(nil)

	paths := map[string]string{
		"missing directory": filepath.Join(dir, "nope", "out.xlsx"),
		"missing csv dir":   filepath.Join(dir, "nope", "out.csv"),
		"unsupported":       filepath.Join(dir, "out.json"),
	}
	for name, path := range paths {
		t.Run(name, func(t *testing.T) {
			err := exporter.Export(path, testRecords)
			assert.True(t, errors.Is(err, crawlerrors.ErrExport), "got %v", err)
		})
	}
}
