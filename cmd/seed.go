package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ridoystarlord/bakery/loader"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert bakeries and chefs from a YAML file",
	Long: `Insert the bakeries listed in a YAML file, each with its chefs.

Example file:

  bakeries:
    - name: La Boulangerie
      profit_margin: 4.5
      chefs:
        - name: Jolie
          contact_details: jolie@example.com

Examples:
  bakery seed                    # Read seed.yaml
  bakery seed -f fixtures.yaml   # Read a custom file
`,
	Run: func(cmd *cobra.Command, args []string) {
		sf, err := loader.LoadSeedFile(seedFile)
		if err != nil {
			fmt.Println("❌ Failed to load seed file:", err)
			os.Exit(1)
		}

		cfg := mustLoadConfig()
		log := newLogger(cfg.Debug)
		defer log.Sync()

		ctx := context.Background()
		db, store := mustOpenStore(ctx, cfg, log, nil)
		defer db.Close()

		res, err := loader.Apply(ctx, store, sf)
		if err != nil {
			fmt.Println("❌ Seeding failed:", err)
			os.Exit(1)
		}
		color.Green("✅ Seeded %d bakery(ies) and %d chef(s)", res.Bakeries, res.Chefs)
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "seed.yaml", "Seed file to load")
}
