// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/duesflow/duesflow/internal/model"
)

// TransactionFilter defines filtering options for transaction queries.
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Category  string
	Account   string
	Limit     int
	Offset    int
}

// AccountBalance is the latest running balance reported for one account.
type AccountBalance struct {
	AsOf    time.Time
	Account string
	Balance decimal.Decimal
}

// Storage defines the contract for the persistence layer.
type Storage interface {
	// Transaction operations. ReplaceTransactions supersedes all prior
	// transaction records in a single database transaction.
	ReplaceTransactions(ctx context.Context, transactions []model.Transaction) error
	GetTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error)
	GetReviewQueue(ctx context.Context) ([]model.Transaction, error)
	UpdateTransactionCategory(ctx context.Context, id, category string) error
	SumCreditsByCategory(ctx context.Context, category string, year int) (decimal.Decimal, error)
	GetActualsByCategory(ctx context.Context, year int) (map[string]decimal.Decimal, error)
	GetAccountBalances(ctx context.Context) ([]AccountBalance, error)

	// Rule operations. Rules are never deleted, only deactivated.
	// GetRuleByPattern returns (nil, nil) when no such rule exists.
	GetRules(ctx context.Context) ([]model.Rule, error)
	GetActiveRules(ctx context.Context) ([]model.Rule, error)
	GetRuleByPattern(ctx context.Context, pattern, category string) (*model.Rule, error)
	SaveRule(ctx context.Context, rule *model.Rule) error
	DeactivateRule(ctx context.Context, id int) error

	// Category operations
	GetCategories(ctx context.Context) ([]model.Category, error)
	GetCategoryByName(ctx context.Context, name string) (*model.Category, error)
	CreateCategory(ctx context.Context, category *model.Category) error

	// Budget operations
	GetBudgets(ctx context.Context, year int) ([]model.BudgetEntry, error)
	SaveBudget(ctx context.Context, entry *model.BudgetEntry) error

	// Unit operations
	GetUnits(ctx context.Context) ([]model.UnitAccount, error)
	GetUnit(ctx context.Context, number string) (*model.UnitAccount, error)
	SaveUnit(ctx context.Context, unit *model.UnitAccount) error

	// Historical debt operations
	GetHistoricalDebt(ctx context.Context, unit string, year int) (decimal.Decimal, error)
	SaveHistoricalDebt(ctx context.Context, entry *model.HistoricalDebtEntry) error

	// Account operations. GetAccounts maps masked account numbers to
	// display names.
	GetAccounts(ctx context.Context) (map[string]string, error)
	SaveAccount(ctx context.Context, maskedNumber, name string) error

	// Database management
	Migrate(ctx context.Context) error
	BeginTx(ctx context.Context) (Transaction, error)
	Close() error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit() error
	Rollback() error
}

// Suggestion is one classification result from the external classifier.
// A zero Suggestion means the classifier had nothing usable for the item.
type Suggestion struct {
	Category   string
	Confidence int // 0-100
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
