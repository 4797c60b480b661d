package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/duesflow/duesflow/internal/cli"
	"github.com/duesflow/duesflow/internal/engine"
)

func reviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "review",
		Short: "List transactions flagged for review",
		Long: `Display transactions the classification pipeline could not confidently
categorize, together with any retained suggestion from the external
classifier. Use 'duesflow correct' to resolve them.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			queue, err := store.GetReviewQueue(ctx)
			if err != nil {
				return fmt.Errorf("failed to load review queue: %w", err)
			}

			if len(queue) == 0 {
				fmt.Println(cli.FormatSuccess("Nothing to review"))
				return nil
			}

			fmt.Println(cli.FormatTitle(fmt.Sprintf("%d transactions need review", len(queue))))

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("ID"),
				cli.HeaderStyle.Render("Date"),
				cli.HeaderStyle.Render("Description"),
				cli.HeaderStyle.Render("Amount"),
				cli.HeaderStyle.Render("Suggestion"),
				cli.HeaderStyle.Render("Conf"))

			for _, txn := range queue {
				suggestion := txn.AutoCategory
				if suggestion == "" {
					suggestion = cli.SubtleStyle.Render("(none)")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\n",
					txn.ID,
					txn.Date.Format("2006-01-02"),
					txn.Description,
					cli.FormatUSD(txn.Amount()),
					suggestion,
					txn.Confidence)
			}

			return nil
		},
	}
}

func correctCmd() *cobra.Command {
	var noLearn bool

	cmd := &cobra.Command{
		Use:   "correct <transaction-id> <category>",
		Short: "Assign a category to a transaction",
		Long: `Record the correct category for a transaction and clear its review
flag. Unless --no-learn is given, the correction also creates or
strengthens a classification rule so similar descriptions match
automatically on future imports.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			eng := engine.New(store, nil)
			if err := eng.ApplyCorrection(ctx, args[0], args[1], !noLearn); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Categorized %s as %q", args[0], args[1])))
			return nil
		},
	}

	cmd.Flags().BoolVar(&noLearn, "no-learn", false, "Do not create a rule from this correction")

	return cmd
}
