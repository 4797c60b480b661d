package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAccounts = map[string]string{
	"XX1234": "Operating",
	"XX5678": "Reserve",
}

func TestConvert(t *testing.T) {
	records := []RawRecord{
		{
			AccountNumber: "XX1234",
			PostDate:      "2025-03-10",
			Description:   "ACME WATER CO",
			Debit:         "95.50",
			Balance:       "10,450.25",
		},
		{
			AccountNumber: "XX5678",
			PostDate:      "03/12/2025",
			Description:   "INTEREST PAYMENT",
			Credit:        "$12.03",
			Balance:       "52,001.10",
			Category:      "Interest Income",
		},
	}

	result := Convert(records, testAccounts)
	require.Empty(t, result.Exceptions)
	require.Empty(t, result.Warnings)
	require.Len(t, result.Transactions, 2)

	first := result.Transactions[0]
	assert.Equal(t, "Operating", first.AccountName)
	assert.Equal(t, "ACME WATER CO", first.Description)
	assert.Equal(t, "95.5", first.Debit.String())
	assert.Equal(t, "10450.25", first.Balance.String())
	assert.Equal(t, "Posted", first.Status)
	assert.Empty(t, first.Category)
	assert.NotEmpty(t, first.ID)

	second := result.Transactions[1]
	assert.Equal(t, "Reserve", second.AccountName)
	assert.Equal(t, "12.03", second.Credit.String())
	assert.Equal(t, "Interest Income", second.Category, "source categorization is preserved")
}

func TestConvertExceptions(t *testing.T) {
	tests := []struct {
		name       string
		record     RawRecord
		wantReason string
	}{
		{
			name: "missing account number",
			record: RawRecord{
				PostDate:    "2025-03-10",
				Description: "SOMETHING",
			},
			wantReason: "missing account number",
		},
		{
			name: "missing description",
			record: RawRecord{
				AccountNumber: "XX1234",
				PostDate:      "2025-03-10",
			},
			wantReason: "missing description",
		},
		{
			name: "unparseable date",
			record: RawRecord{
				AccountNumber: "XX1234",
				PostDate:      "March 10th",
				Description:   "SOMETHING",
			},
			wantReason: "invalid post date",
		},
		{
			name: "bad debit amount",
			record: RawRecord{
				AccountNumber: "XX1234",
				PostDate:      "2025-03-10",
				Description:   "SOMETHING",
				Debit:         "ninety five",
			},
			wantReason: "invalid debit amount",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			good := RawRecord{
				AccountNumber: "XX1234",
				PostDate:      "2025-03-11",
				Description:   "GOOD ROW",
				Debit:         "1.00",
			}

			result := Convert([]RawRecord{tt.record, good}, testAccounts)

			// The bad row is excluded; the batch continues.
			require.Len(t, result.Exceptions, 1)
			assert.Equal(t, 2, result.Exceptions[0].Row, "exceptions carry 1-based data row numbers")
			assert.Contains(t, result.Exceptions[0].Reason, tt.wantReason)
			require.Len(t, result.Transactions, 1)
			assert.Equal(t, "GOOD ROW", result.Transactions[0].Description)
		})
	}
}

func TestConvertUnknownAccount(t *testing.T) {
	records := []RawRecord{{
		AccountNumber: "XX9999",
		PostDate:      "2025-03-10",
		Description:   "SOMETHING",
		Debit:         "5",
	}}

	result := Convert(records, testAccounts)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "Unknown", result.Transactions[0].AccountName)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "XX9999")
}

// Identical feed rows must still get distinct, deterministic IDs so a
// full-replacement import keeps both.
func TestConvertDuplicateRows(t *testing.T) {
	row := RawRecord{
		AccountNumber: "XX1234",
		PostDate:      "2025-03-10",
		Description:   "ACME WATER CO",
		Debit:         "95.50",
	}

	first := Convert([]RawRecord{row, row, row}, testAccounts)
	require.Len(t, first.Transactions, 3)

	ids := map[string]bool{}
	for _, txn := range first.Transactions {
		ids[txn.ID] = true
	}
	assert.Len(t, ids, 3)

	second := Convert([]RawRecord{row, row, row}, testAccounts)
	for i := range first.Transactions {
		assert.Equal(t, first.Transactions[i].ID, second.Transactions[i].ID,
			"IDs are deterministic across conversions")
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "", want: "0"},
		{input: "95.50", want: "95.5"},
		{input: "$1,234.56", want: "1234.56"},
		{input: "(45.00)", want: "-45"},
		{input: " 12.03 ", want: "12.03"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseAmount(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}

	_, err := parseAmount("not a number")
	assert.Error(t, err)
}

func TestReadCSV(t *testing.T) {
	input := strings.Join([]string{
		"Account Number,Post Date,Check,Description,Debit,Credit,Status,Balance,Category",
		`XX1234,2025-03-10,,ACME WATER CO,95.50,,Posted,"10,450.25",`,
		"XX1234,2025-03-12,1042,UNIT 1 DUES,,400.00,Posted,10850.25,Dues Unit 1",
	}, "\n")

	records, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "XX1234", records[0].AccountNumber)
	assert.Equal(t, "10,450.25", records[0].Balance)
	assert.Equal(t, "1042", records[1].CheckNumber)
	assert.Equal(t, "Dues Unit 1", records[1].Category)
}

func TestReadCSVMissingColumns(t *testing.T) {
	input := "Account Number,Post Date,Description\nXX1234,2025-03-10,SOMETHING"

	_, err := ReadCSV(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Debit")
	assert.Contains(t, err.Error(), "Balance")
}

func TestReadCSVShortRows(t *testing.T) {
	input := strings.Join([]string{
		"Account Number,Post Date,Check,Description,Debit,Credit,Status,Balance",
		"XX1234,2025-03-10,,TRUNCATED ROW",
	}, "\n")

	records, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err, "short rows are tolerated at read time")
	require.Len(t, records, 1)
	assert.Empty(t, records[0].Balance)
}
