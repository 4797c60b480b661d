package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/duesflow/duesflow/internal/cli"
	"github.com/duesflow/duesflow/internal/engine"
	"github.com/duesflow/duesflow/internal/importer"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import a bank CSV export",
		Long: `Import a bank CSV export, classify every transaction, and replace the
stored transaction set with the result.

Each import supersedes all previously imported transactions. Rows the
importer cannot parse are reported as exceptions and skipped; they never
abort the batch.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().Int("batch-size", 25, "External classifier batch size")
	cmd.Flags().Bool("no-classify", false, "Skip the external classifier; unmatched transactions go to review")

	_ = viper.BindPFlag("import.batch_size", cmd.Flags().Lookup("batch-size"))
	_ = viper.BindPFlag("import.no_classify", cmd.Flags().Lookup("no-classify"))

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer func() { _ = file.Close() }()

	records, err := importer.ReadCSV(file)
	if err != nil {
		return fmt.Errorf("failed to read CSV: %w", err)
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	accountNames, err := store.GetAccounts(ctx)
	if err != nil {
		return fmt.Errorf("failed to load account names: %w", err)
	}

	result := importer.Convert(records, accountNames)
	for _, warning := range result.Warnings {
		slog.Warn(warning)
	}
	for _, exc := range result.Exceptions {
		fmt.Println(cli.FormatWarning(fmt.Sprintf("row %d skipped: %s", exc.Row, exc.Reason)))
	}
	if len(result.Transactions) == 0 {
		fmt.Println(cli.FormatWarning("No importable transactions found"))
		return nil
	}

	var classifier engine.Classifier
	if !viper.GetBool("import.no_classify") {
		if c := createClassifier(); c != nil {
			defer c.Close()
			classifier = c
		}
	}

	bar := progressbar.NewOptions(len(result.Transactions),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Classifying transactions...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
	)

	eng := engine.NewWithConfig(store, classifier, engine.Config{
		BatchSize: viper.GetInt("import.batch_size"),
		OnProgress: func(done, _ int) {
			_ = bar.Set(done)
		},
	})

	stats, err := eng.Import(ctx, result.Transactions)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Imported %d transactions", stats.Total)))
	fmt.Printf("  Pre-categorized:        %d\n", stats.SourceProvided)
	fmt.Printf("  Matched by rule:        %d\n", stats.RuleMatched)
	fmt.Printf("  Externally classified:  %d\n", stats.ExternallyClassified)
	fmt.Printf("  Flagged for review:     %d\n", stats.FlaggedForReview)
	if len(result.Exceptions) > 0 {
		fmt.Printf("  Rows skipped:           %d\n", len(result.Exceptions))
	}

	return nil
}
