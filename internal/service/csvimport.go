package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"savoria/internal/dto"

	"github.com/shopspring/decimal"
)

// ParseSalesCSV turns raw tabular sales input into structured sale records.
// Expected columns: product_name, quantity, optional sale_price. A first row
// whose first cell is the "product_name" caption is a header and is skipped;
// any other malformed first row is a reject like every other row, never
// silently dropped.
//
// Bad rows never abort the import: each one is returned as a human-readable
// reject so the caller can show "N parsed / M rejected" in one pass. Product
// names are whitespace-trimmed here; the engine itself matches names exactly
// and case-sensitively.
func ParseSalesCSV(r io.Reader) ([]dto.SaleRecord, []string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows are handled per-row below
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv: %w", err)
	}

	records := make([]dto.SaleRecord, 0, len(rows))
	var rejected []string

	for i, row := range rows {
		lineNo := i + 1

		if len(row) < 2 {
			rejected = append(rejected, fmt.Sprintf("row %d: expected at least 2 columns, got %d", lineNo, len(row)))
			continue
		}

		name := strings.TrimSpace(row[0])
		qtyRaw := strings.TrimSpace(row[1])

		if i == 0 && strings.EqualFold(name, "product_name") {
			// Header row.
			continue
		}

		qty, qtyErr := decimal.NewFromString(qtyRaw)
		if name == "" {
			rejected = append(rejected, fmt.Sprintf("row %d: product name is empty", lineNo))
			continue
		}
		if qtyErr != nil {
			rejected = append(rejected, fmt.Sprintf("row %d: quantity %q is not a number", lineNo, qtyRaw))
			continue
		}
		if !qty.IsPositive() {
			rejected = append(rejected, fmt.Sprintf("row %d: quantity must be positive, got %s", lineNo, qty))
			continue
		}

		rec := dto.SaleRecord{ProductName: name, Quantity: qty}
		if len(row) >= 3 {
			if priceRaw := strings.TrimSpace(row[2]); priceRaw != "" {
				price, priceErr := decimal.NewFromString(priceRaw)
				if priceErr != nil {
					rejected = append(rejected, fmt.Sprintf("row %d: sale price %q is not a number", lineNo, priceRaw))
					continue
				}
				if price.IsNegative() {
					rejected = append(rejected, fmt.Sprintf("row %d: sale price must not be negative, got %s", lineNo, price))
					continue
				}
				rec.SalePrice = &price
			}
		}
		records = append(records, rec)
	}

	return records, rejected, nil
}
