package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"sjsage522/classifiedcrawler/internal/crawler"
	"sjsage522/classifiedcrawler/logger"
	"sjsage522/classifiedcrawler/pkg/errors"
)

// Header is the column order of every export
var Header = []string{"Page", "Title", "Price", "Link"}

// FileExporter writes records to a spreadsheet file, picking the format
// from the file extension. Existing files are overwritten; missing
// directories are not created.
type FileExporter struct {
	log *logger.Logger
}

var _ crawler.Exporter = (*FileExporter)(nil)

// NewFileExporter creates a file exporter
func NewFileExporter(log *logger.Logger) *FileExporter {
	if log == nil {
		log = logger.Nop()
	}
	return &FileExporter{log: log.ForComponent("export")}
}

// Export implements crawler.Exporter
func (e *FileExporter) Export(path string, records []crawler.ListingRecord) error {
	var err error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx":
		err = writeXLSX(path, records)
	case ".csv":
		err = writeCSV(path, records)
	default:
		return errors.NewExport(ext, fmt.Sprintf("unsupported output format for %s", path), nil)
	}
	if err != nil {
		return errors.NewExport(filepath.Ext(path), fmt.Sprintf("cannot write %s", path), err)
	}

	e.log.Info().Str("path", path).Int("rows", len(records)).Msg("Spreadsheet written")
	return nil
}
