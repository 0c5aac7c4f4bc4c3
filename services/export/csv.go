package export

import (
	"encoding/csv"
	"os"
	"strconv"

	"sjsage522/classifiedcrawler/internal/crawler"
)

func writeCSV(path string, records []crawler.ListingRecord) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(Header); err != nil {
		return err
	}

	for _, r := range records {
		if err := writer.Write([]string{
			strconv.Itoa(r.Page),
			r.Title,
			strconv.FormatFloat(r.Price, 'f', -1, 64),
			r.Link,
		}); err != nil {
			return err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	return file.Close()
}
