package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/duesflow/duesflow/internal/cli"
	"github.com/duesflow/duesflow/internal/model"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage classification rules",
		Long:  `List, add, and deactivate the rules that match transaction descriptions to categories.`,
	}

	cmd.AddCommand(listRulesCmd())
	cmd.AddCommand(addRuleCmd())
	cmd.AddCommand(deactivateRuleCmd())

	return cmd
}

func listRulesCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List rules in match order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			var rules []model.Rule
			if all {
				rules, err = store.GetRules(ctx)
			} else {
				rules, err = store.GetActiveRules(ctx)
			}
			if err != nil {
				return fmt.Errorf("failed to load rules: %w", err)
			}

			if len(rules) == 0 {
				fmt.Println(cli.FormatInfo("No rules configured. Use 'duesflow rules add' or correct a transaction to learn one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("ID"),
				cli.HeaderStyle.Render("Pattern"),
				cli.HeaderStyle.Render("Category"),
				cli.HeaderStyle.Render("Conf"),
				cli.HeaderStyle.Render("Prio"),
				cli.HeaderStyle.Render("Source"),
				cli.HeaderStyle.Render("Active"))

			for _, rule := range rules {
				active := "yes"
				if !rule.IsActive {
					active = cli.SubtleStyle.Render("no")
				}
				pattern := rule.Pattern
				if rule.IsRegex {
					pattern = "/" + pattern + "/"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%s\t%s\n",
					rule.ID, pattern, rule.Category, rule.Confidence,
					rule.Priority, rule.Source, active)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include deactivated rules")

	return cmd
}

func addRuleCmd() *cobra.Command {
	var (
		confidence int
		priority   int
		isRegex    bool
	)

	cmd := &cobra.Command{
		Use:   "add <pattern> <category>",
		Short: "Add a classification rule",
		Long: `Add a rule matching transaction descriptions to a category. Plain
patterns match case-insensitive substrings; --regex patterns are
case-insensitive regular expressions.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pattern, category := args[0], args[1]

			if confidence < 0 || confidence > 100 {
				return fmt.Errorf("confidence must be between 0 and 100")
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			cat, err := store.GetCategoryByName(ctx, category)
			if err != nil {
				return fmt.Errorf("failed to look up category: %w", err)
			}
			if cat == nil {
				return fmt.Errorf("category %q does not exist", category)
			}

			existing, err := store.GetRuleByPattern(ctx, pattern, category)
			if err != nil {
				return fmt.Errorf("failed to check existing rule: %w", err)
			}
			if existing != nil {
				return fmt.Errorf("rule %d already maps %q to %q", existing.ID, pattern, category)
			}

			rule := &model.Rule{
				Pattern:    pattern,
				Category:   category,
				Confidence: confidence,
				Priority:   priority,
				IsRegex:    isRegex,
				IsActive:   true,
				Source:     model.RuleSourceManual,
			}
			if err := store.SaveRule(ctx, rule); err != nil {
				return fmt.Errorf("failed to save rule: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created rule %d: %q → %q", rule.ID, pattern, category)))
			return nil
		},
	}

	cmd.Flags().IntVar(&confidence, "confidence", 95, "Rule confidence (0-100)")
	cmd.Flags().IntVar(&priority, "priority", 100, "Rule priority; higher wins")
	cmd.Flags().BoolVar(&isRegex, "regex", false, "Treat pattern as a regular expression")

	return cmd
}

func deactivateRuleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate <id>",
		Short: "Deactivate a rule",
		Long:  `Disable a rule without deleting it. Deactivated rules are kept for audit but never match.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid rule ID: %w", err)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeactivateRule(ctx, id); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deactivated rule %d", id)))
			return nil
		},
	}
}
