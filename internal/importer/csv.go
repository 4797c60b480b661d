package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Columns the bank export must carry. Category is optional.
var requiredColumns = []string{
	"Account Number",
	"Post Date",
	"Description",
	"Debit",
	"Credit",
	"Balance",
}

// ReadCSV parses a bank CSV export into raw records. It validates column
// presence only; per-row problems surface later as exceptions during
// Convert.
func ReadCSV(r io.Reader) ([]RawRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.TrimSpace(col)] = i
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	field := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var records []RawRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		records = append(records, RawRecord{
			AccountNumber: field(row, "Account Number"),
			PostDate:      field(row, "Post Date"),
			CheckNumber:   field(row, "Check"),
			Description:   field(row, "Description"),
			Debit:         field(row, "Debit"),
			Credit:        field(row, "Credit"),
			Status:        field(row, "Status"),
			Balance:       field(row, "Balance"),
			Category:      field(row, "Category"),
		})
	}

	return records, nil
}
