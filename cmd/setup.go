package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ridoystarlord/bakery/runner"
)

var (
	dryRunSetup bool
	dropSetup   bool
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create the bakery and chef tables",
	Long: `Create the bakery and chef tables if they do not exist.

With --drop both tables are dropped first, together with every row in them.

Examples:
  bakery setup
  bakery setup --dry-run
  bakery setup --drop
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()
		log := newLogger(cfg.Debug)
		defer log.Sync()

		ctx := context.Background()
		db, store := mustOpenStore(ctx, cfg, log, nil)
		defer db.Close()

		r := runner.New(store, os.Stdout)
		if dropSetup {
			if err := r.Drop(ctx, dryRunSetup); err != nil {
				fmt.Println("❌ Drop failed:", err)
				os.Exit(1)
			}
		}
		if err := r.Setup(ctx, dryRunSetup); err != nil {
			fmt.Println("❌ Setup failed:", err)
			os.Exit(1)
		}
	},
}

func init() {
	setupCmd.Flags().BoolVar(&dryRunSetup, "dry-run", false, "Preview the SQL that would be executed without creating tables")
	setupCmd.Flags().BoolVar(&dropSetup, "drop", false, "Drop the bakery and chef tables before creating them")
}
