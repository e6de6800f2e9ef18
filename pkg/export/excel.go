package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/pricescan/pricescan/pkg/models"
	"github.com/pricescan/pricescan/pkg/schema"
)

const historySheet = "Scan History"

var historyHeader = []string{"Barcode", "Title", "Brand", "Category", "Best Price", "Currency", "Stores", "Scanned At"}

// HistoryWorkbook renders scan history rows into an XLSX workbook, one row
// per scan, newest first (the order the repository returns).
func HistoryWorkbook(entries []models.ScanHistory) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(historySheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for col, title := range historyHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(historySheet, cell, title); err != nil {
			return nil, err
		}
	}

	for i, entry := range entries {
		var product schema.ProductResponse
		if err := json.Unmarshal(entry.ProductData, &product); err != nil {
			return nil, fmt.Errorf("history entry %d: %w", entry.ID, err)
		}
		row := []interface{}{
			entry.Barcode,
			product.Title,
			product.Brand,
			product.Category,
			bestPrice(&product),
			currency(&product),
			len(product.Stores),
			entry.ScannedAt.UTC().Format(time.RFC3339),
		}
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(historySheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	return f.WriteToBuffer()
}

func bestPrice(p *schema.ProductResponse) string {
	for _, offer := range p.Stores {
		if offer.IsBestPrice {
			return offer.Price
		}
	}
	return ""
}

func currency(p *schema.ProductResponse) string {
	for _, offer := range p.Stores {
		if offer.IsBestPrice {
			return offer.Currency
		}
	}
	return ""
}
