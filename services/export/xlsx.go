package export

import (
	"github.com/xuri/excelize/v2"

	"sjsage522/classifiedcrawler/internal/crawler"
)

const sheetName = "Listings"

func writeXLSX(path string, records []crawler.ListingRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return err
	}

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return err
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{r.Page, r.Title, r.Price, r.Link}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(sheetName, "B", "B", 60); err != nil {
		return err
	}
	if err := f.SetColWidth(sheetName, "D", "D", 80); err != nil {
		return err
	}

	return f.SaveAs(path)
}
