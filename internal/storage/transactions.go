package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/duesflow/duesflow/internal/model"
	"github.com/duesflow/duesflow/internal/service"
)

const transactionColumns = `id, date, description, account_number, account_name,
	check_number, status, debit, credit, balance, category, auto_category,
	confidence, needs_review`

// ReplaceTransactions atomically supersedes all stored transactions with
// the given batch. Either the whole batch commits or nothing changes.
func (s *SQLiteStorage) ReplaceTransactions(ctx context.Context, transactions []model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("failed to clear transactions: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO transactions
		(id, date, description, account_number, account_name, check_number,
		 status, debit, credit, balance, category, auto_category, confidence, needs_review)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, txn := range transactions {
		if txn.ID == "" {
			return fmt.Errorf("transaction without ID: %s", txn.Description)
		}
		_, err := stmt.ExecContext(ctx,
			txn.ID,
			txn.Date,
			txn.Description,
			txn.AccountNumber,
			txn.AccountName,
			txn.CheckNumber,
			txn.Status,
			txn.Debit.String(),
			txn.Credit.String(),
			txn.Balance.String(),
			nullable(txn.Category),
			nullable(txn.AutoCategory),
			txn.Confidence,
			txn.NeedsReview,
		)
		if err != nil {
			return fmt.Errorf("failed to insert transaction %s: %w", txn.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction replacement: %w", err)
	}

	return nil
}

// GetTransactions returns transactions matching the filter, newest first.
func (s *SQLiteStorage) GetTransactions(ctx context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions`
	var conditions []string
	var args []any

	if filter.StartDate != nil {
		conditions = append(conditions, "date >= ?")
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		conditions = append(conditions, "date <= ?")
		args = append(args, *filter.EndDate)
	}
	if filter.Category != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.Account != "" {
		conditions = append(conditions, "account_number = ?")
		args = append(args, filter.Account)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date DESC, id"

	if filter.Limit > 0 {
		query += " LIMIT " + strconv.Itoa(filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET " + strconv.Itoa(filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanTransactions(rows)
}

// GetTransactionByID returns a single transaction, or nil when absent.
func (s *SQLiteStorage) GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)

	txn, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// GetReviewQueue returns transactions flagged for review, newest first.
func (s *SQLiteStorage) GetReviewQueue(ctx context.Context) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT `+transactionColumns+`
		FROM transactions WHERE needs_review = 1 ORDER BY date DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query review queue: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanTransactions(rows)
}

// UpdateTransactionCategory sets a transaction's category and clears its
// review flag.
func (s *SQLiteStorage) UpdateTransactionCategory(ctx context.Context, id, category string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	if err := validateString(category, "category"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE transactions SET category = ?, needs_review = 0 WHERE id = ?`,
		category, id)
	if err != nil {
		return fmt.Errorf("failed to update transaction category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("transaction %s not found", id)
	}
	return nil
}

// SumCreditsByCategory totals the credit amounts of transactions in a
// category within one calendar year.
func (s *SQLiteStorage) SumCreditsByCategory(ctx context.Context, category string, year int) (decimal.Decimal, error) {
	if err := validateContext(ctx); err != nil {
		return decimal.Zero, err
	}
	if err := validateString(category, "category"); err != nil {
		return decimal.Zero, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT credit FROM transactions WHERE category = ? AND strftime('%Y', date) = ?`,
		category, strconv.Itoa(year))
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to query credits: %w", err)
	}
	defer func() { _ = rows.Close() }()

	total := decimal.Zero
	for rows.Next() {
		var credit string
		if err := rows.Scan(&credit); err != nil {
			return decimal.Zero, fmt.Errorf("failed to scan credit: %w", err)
		}
		d, err := scanDecimal(credit)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(d)
	}
	return total, rows.Err()
}

// GetActualsByCategory returns the year's actual amount per category:
// credits for income categories, debits for expenses. Transfer and
// internal categories are excluded; they only move money between accounts.
func (s *SQLiteStorage) GetActualsByCategory(ctx context.Context, year int) (map[string]decimal.Decimal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT t.category, c.kind, t.debit, t.credit
		FROM transactions t
		JOIN categories c ON t.category = c.name
		WHERE t.category IS NOT NULL
		AND strftime('%Y', t.date) = ?
		AND c.kind IN ('income', 'expense')`,
		strconv.Itoa(year))
	if err != nil {
		return nil, fmt.Errorf("failed to query actuals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	actuals := make(map[string]decimal.Decimal)
	for rows.Next() {
		var category, kind, debit, credit string
		if err := rows.Scan(&category, &kind, &debit, &credit); err != nil {
			return nil, fmt.Errorf("failed to scan actual: %w", err)
		}

		var amount decimal.Decimal
		if model.CategoryKind(kind) == model.KindIncome {
			amount, err = scanDecimal(credit)
		} else {
			amount, err = scanDecimal(debit)
		}
		if err != nil {
			return nil, err
		}

		actuals[category] = actuals[category].Add(amount)
	}
	return actuals, rows.Err()
}

// GetAccountBalances returns the most recent running balance per account.
// All transactions count here, transfers included; the bank's balance
// column already reflects them.
func (s *SQLiteStorage) GetAccountBalances(ctx context.Context) ([]service.AccountBalance, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT t.account_name, t.date, t.balance
		FROM transactions t
		INNER JOIN (
			SELECT account_name, MAX(date) AS max_date
			FROM transactions
			GROUP BY account_name
		) latest ON t.account_name = latest.account_name AND t.date = latest.max_date
		WHERE t.rowid = (
			SELECT MAX(t2.rowid) FROM transactions t2
			WHERE t2.account_name = t.account_name AND t2.date = latest.max_date
		)
		ORDER BY t.account_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query account balances: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var balances []service.AccountBalance
	for rows.Next() {
		var account, balance string
		var asOf time.Time
		if err := rows.Scan(&account, &asOf, &balance); err != nil {
			return nil, fmt.Errorf("failed to scan balance: %w", err)
		}
		d, err := scanDecimal(balance)
		if err != nil {
			return nil, err
		}
		balances = append(balances, service.AccountBalance{
			Account: account,
			AsOf:    asOf,
			Balance: d,
		})
	}
	return balances, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*model.Transaction, error) {
	var txn model.Transaction
	var checkNumber, status, category, autoCategory sql.NullString
	var accountName sql.NullString
	var debit, credit, balance string

	err := row.Scan(
		&txn.ID,
		&txn.Date,
		&txn.Description,
		&txn.AccountNumber,
		&accountName,
		&checkNumber,
		&status,
		&debit,
		&credit,
		&balance,
		&category,
		&autoCategory,
		&txn.Confidence,
		&txn.NeedsReview,
	)
	if err != nil {
		return nil, err
	}

	txn.AccountName = accountName.String
	txn.CheckNumber = checkNumber.String
	txn.Status = status.String
	txn.Category = category.String
	txn.AutoCategory = autoCategory.String

	if txn.Debit, err = scanDecimal(debit); err != nil {
		return nil, err
	}
	if txn.Credit, err = scanDecimal(credit); err != nil {
		return nil, err
	}
	if txn.Balance, err = scanDecimal(balance); err != nil {
		return nil, err
	}

	return &txn, nil
}

func scanTransactions(rows *sql.Rows) ([]model.Transaction, error) {
	var transactions []model.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, *txn)
	}
	return transactions, rows.Err()
}

func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}
