// Package importer converts raw bank feed records into transactions ready
// for classification. Malformed records are collected into an exceptions
// list and never abort the batch.
package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/duesflow/duesflow/internal/model"
)

// RawRecord is one row as supplied by the import source. Field validation
// beyond presence is the source's job; the importer only rejects rows it
// cannot turn into a transaction.
type RawRecord struct {
	AccountNumber string
	PostDate      string
	CheckNumber   string
	Description   string
	Debit         string
	Credit        string
	Status        string
	Balance       string
	Category      string // optional pre-categorization from the source
}

// Exception records a row that was excluded from the batch.
type Exception struct {
	Reason string
	Row    int
}

// Result is the outcome of converting a raw batch.
type Result struct {
	Transactions []model.Transaction
	Exceptions   []Exception
	Warnings     []string
}

// Convert turns raw records into transactions. accountNames maps masked
// account numbers to display names; unknown accounts are a warning, not an
// error. Row numbers in exceptions are 1-based data rows (the header is
// row 1).
func Convert(records []RawRecord, accountNames map[string]string) Result {
	var result Result
	seen := make(map[string]int)

	for i, record := range records {
		row := i + 2

		txn, err := convertRecord(record)
		if err != nil {
			result.Exceptions = append(result.Exceptions, Exception{
				Row:    row,
				Reason: err.Error(),
			})
			continue
		}

		name, ok := accountNames[txn.AccountNumber]
		if !ok {
			result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: unknown account %q", row, txn.AccountNumber))
			name = "Unknown"
		}
		txn.AccountName = name

		// Deterministic IDs even when the feed repeats an identical row.
		id := txn.GenerateHash()
		if n := seen[id]; n > 0 {
			txn.ID = fmt.Sprintf("%s-%d", id, n)
		} else {
			txn.ID = id
		}
		seen[id]++

		result.Transactions = append(result.Transactions, txn)
	}

	return result
}

func convertRecord(record RawRecord) (model.Transaction, error) {
	var txn model.Transaction

	if strings.TrimSpace(record.AccountNumber) == "" {
		return txn, fmt.Errorf("missing account number")
	}
	if strings.TrimSpace(record.Description) == "" {
		return txn, fmt.Errorf("missing description")
	}

	date, err := parseDate(record.PostDate)
	if err != nil {
		return txn, err
	}

	debit, err := parseAmount(record.Debit)
	if err != nil {
		return txn, fmt.Errorf("invalid debit amount %q", record.Debit)
	}
	credit, err := parseAmount(record.Credit)
	if err != nil {
		return txn, fmt.Errorf("invalid credit amount %q", record.Credit)
	}
	balance, err := parseAmount(record.Balance)
	if err != nil {
		return txn, fmt.Errorf("invalid balance %q", record.Balance)
	}

	status := strings.TrimSpace(record.Status)
	if status == "" {
		status = "Posted"
	}

	return model.Transaction{
		Date:          date,
		AccountNumber: strings.TrimSpace(record.AccountNumber),
		CheckNumber:   strings.TrimSpace(record.CheckNumber),
		Description:   strings.TrimSpace(record.Description),
		Debit:         debit,
		Credit:        credit,
		Balance:       balance,
		Status:        status,
		Category:      strings.TrimSpace(record.Category),
	}, nil
}

var dateFormats = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("missing post date")
	}
	for _, format := range dateFormats {
		if date, err := time.Parse(format, value); err == nil {
			return date, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid post date %q", value)
}

func parseAmount(value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	value = strings.ReplaceAll(value, "$", "")
	value = strings.ReplaceAll(value, ",", "")
	if value == "" {
		return decimal.Zero, nil
	}

	// Accounting exports sometimes parenthesize negatives.
	if strings.HasPrefix(value, "(") && strings.HasSuffix(value, ")") {
		value = "-" + value[1:len(value)-1]
	}

	return decimal.NewFromString(value)
}
