package budget

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/duesflow/duesflow/internal/common"
	"github.com/duesflow/duesflow/internal/model"
	"github.com/duesflow/duesflow/internal/service"
)

// CategoryLine is one category's budget position for a year.
type CategoryLine struct {
	Category     string
	Kind         model.CategoryKind
	Timing       model.Timing
	AnnualAmount decimal.Decimal
	YTDBudget    decimal.Decimal
	YTDActual    decimal.Decimal
	Remaining    decimal.Decimal
}

// Section aggregates the lines of one category kind.
type Section struct {
	Categories []CategoryLine
	YTDBudget  decimal.Decimal
	YTDActual  decimal.Decimal
	Remaining  decimal.Decimal
}

// Summary is the per-category budget rollup for a year as of a date.
// Transfer and internal categories never appear here.
type Summary struct {
	AsOf    time.Time
	Income  Section
	Expense Section
	Year    int
}

// Calculator computes budget summaries from persisted budgets and
// categorized transactions. All methods are pure reads; recomputing always
// reproduces the same result from the same stored inputs.
type Calculator struct {
	storage service.Storage
}

// NewCalculator creates a budget calculator backed by the given storage.
func NewCalculator(storage service.Storage) *Calculator {
	return &Calculator{storage: storage}
}

// Summary builds the income and expense budget rollup for a year.
func (c *Calculator) Summary(ctx context.Context, year int, asOf time.Time) (*Summary, error) {
	entries, err := c.storage.GetBudgets(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to load budgets: %w", err)
	}

	catsByName, err := c.categoriesByName(ctx)
	if err != nil {
		return nil, err
	}

	actuals, err := c.storage.GetActualsByCategory(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to load actuals: %w", err)
	}

	summary := &Summary{Year: year, AsOf: asOf}

	for _, entry := range entries {
		cat, ok := catsByName[entry.Category]
		if !ok {
			return nil, fmt.Errorf("%w: budget entry for year %d references category %q", common.ErrUnknownCategory, year, entry.Category)
		}
		if !cat.Kind.InBudget() {
			continue
		}

		ytdBudget := YTDBudget(entry.AnnualAmount, entry.EffectiveTiming(cat), asOf)
		ytdActual := actuals[entry.Category].Round(2)

		line := CategoryLine{
			Category:     entry.Category,
			Kind:         cat.Kind,
			Timing:       entry.EffectiveTiming(cat),
			AnnualAmount: entry.AnnualAmount.Round(2),
			YTDBudget:    ytdBudget,
			YTDActual:    ytdActual,
			Remaining:    ytdBudget.Sub(ytdActual),
		}

		switch cat.Kind {
		case model.KindIncome:
			appendLine(&summary.Income, line)
		case model.KindExpense:
			appendLine(&summary.Expense, line)
		}
	}

	summary.Income.Remaining = summary.Income.YTDBudget.Sub(summary.Income.YTDActual)
	summary.Expense.Remaining = summary.Expense.YTDBudget.Sub(summary.Expense.YTDActual)

	return summary, nil
}

// OperatingBudget returns the total annual operating expense budget for a
// year: every expense category's annual amount, excluding reserve-fund
// lines. Transfer and internal categories never carry budgets into this
// figure.
func (c *Calculator) OperatingBudget(ctx context.Context, year int) (decimal.Decimal, error) {
	entries, err := c.storage.GetBudgets(ctx, year)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load budgets: %w", err)
	}

	catsByName, err := c.categoriesByName(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, entry := range entries {
		cat, ok := catsByName[entry.Category]
		if !ok {
			return decimal.Zero, fmt.Errorf("%w: budget entry for year %d references category %q", common.ErrUnknownCategory, year, entry.Category)
		}
		if cat.Kind != model.KindExpense || cat.IsReserve {
			continue
		}
		total = total.Add(entry.AnnualAmount)
	}

	return total, nil
}

func (c *Calculator) categoriesByName(ctx context.Context) (map[string]model.Category, error) {
	categories, err := c.storage.GetCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	byName := make(map[string]model.Category, len(categories))
	for _, cat := range categories {
		byName[cat.Name] = cat
	}
	return byName, nil
}

func appendLine(section *Section, line CategoryLine) {
	section.Categories = append(section.Categories, line)
	section.YTDBudget = section.YTDBudget.Add(line.YTDBudget)
	section.YTDActual = section.YTDActual.Add(line.YTDActual)
}
