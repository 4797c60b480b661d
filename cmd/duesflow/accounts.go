package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/duesflow/duesflow/internal/cli"
)

func accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage account name mappings",
		Long: `Map the masked account numbers in bank exports to display names.
Imports flag transactions from unmapped accounts with a warning.`,
	}

	cmd.AddCommand(listAccountsCmd())
	cmd.AddCommand(setAccountCmd())

	return cmd
}

func listAccountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List account name mappings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			accounts, err := store.GetAccounts(ctx)
			if err != nil {
				return fmt.Errorf("failed to load accounts: %w", err)
			}

			if len(accounts) == 0 {
				fmt.Println(cli.FormatInfo("No accounts mapped. Use 'duesflow accounts set' to add one."))
				return nil
			}

			masked := make([]string, 0, len(accounts))
			for number := range accounts {
				masked = append(masked, number)
			}
			sort.Strings(masked)

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\n",
				cli.HeaderStyle.Render("Account number"),
				cli.HeaderStyle.Render("Name"))
			for _, number := range masked {
				fmt.Fprintf(w, "%s\t%s\n", number, accounts[number])
			}

			return nil
		},
	}
}

func setAccountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <masked-number> <name>",
		Short: "Map an account number to a display name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.SaveAccount(ctx, args[0], args[1]); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Mapped account %s to %q", args[0], args[1])))
			return nil
		},
	}
}
