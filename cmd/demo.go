package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ridoystarlord/bakery/runner"
)

var resetDemo bool

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the bakery CRUD and relationship walkthroughs",
	Long: `Run the scripted walkthroughs against the configured database.

The walkthroughs expect empty tables. Pass --reset to clear the chef and
bakery tables first.

Examples:
  bakery demo
  bakery demo --reset
  bakery --dialect sqlite demo
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()
		log := newLogger(cfg.Debug)
		defer log.Sync()

		ctx := context.Background()
		db, store := mustOpenStore(ctx, cfg, log, nil)
		defer db.Close()

		r := runner.New(store, os.Stdout)
		if err := r.Setup(ctx, false); err != nil {
			fmt.Println("❌ Setup failed:", err)
			os.Exit(1)
		}
		if resetDemo {
			if err := r.Reset(ctx); err != nil {
				fmt.Println("❌ Reset failed:", err)
				os.Exit(1)
			}
		}
		if err := r.Run(ctx); err != nil {
			fmt.Println("❌ Demo failed:", err)
			os.Exit(1)
		}
	},
}

func init() {
	demoCmd.Flags().BoolVar(&resetDemo, "reset", false, "Delete all chefs and bakeries before running")
}
