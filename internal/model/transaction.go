package model

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a single bank feed transaction.
//
// Date, Description, Debit/Credit, AccountNumber and Balance are immutable
// facts from the import source. Category, Confidence and NeedsReview are
// owned by the classification pipeline and may later be corrected by a
// human reviewer.
type Transaction struct {
	Date          time.Time
	ID            string
	Description   string
	AccountNumber string
	AccountName   string
	CheckNumber   string
	Status        string
	Category      string // empty until classified
	AutoCategory  string // pipeline suggestion; never authoritative
	Debit         decimal.Decimal
	Credit        decimal.Decimal
	Balance       decimal.Decimal
	Confidence    int // 0-100, meaningful only when auto-assigned
	NeedsReview   bool
}

// GenerateHash creates a stable identifier for a transaction.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%s:%s:%s:%s",
		t.Date.Format("2006-01-02"),
		t.Debit.StringFixed(2),
		t.Credit.StringFixed(2),
		t.Description,
		t.AccountNumber)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// Amount returns the signed amount of the transaction: credits positive,
// debits negative.
func (t *Transaction) Amount() decimal.Decimal {
	return t.Credit.Sub(t.Debit)
}
