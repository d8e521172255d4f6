package cmd

import (
	"fmt"
	"os"

	"github.com/ridoystarlord/bakery/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "bakery",
	Short: "Bakery and chef records over SQL and GraphQL",
	Long: `bakery manages bakeries and their chefs on Postgres or SQLite.

Configuration is read from .env and the environment:
  POSTGRES_URL        server URL, without the database name
  POSTGRES_DATABASE   database name, or the file path for sqlite
  DATABASE_DIALECT    postgres (default) or sqlite
  PORT                GraphQL server port (default 8000)

Examples:

  bakery setup
  bakery demo --reset
  bakery seed -f seed.yaml
  bakery serve --port 8000
  bakery --dialect sqlite health
`,
}

// Execute runs the CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("❌", err)
		os.Exit(1)
	}
}

// Register subcommands
func init() {
	cobra.OnInitialize(utils.LoadEnv)

	rootCmd.PersistentFlags().String("dialect", utils.DialectPostgres, "Database dialect (postgres, sqlite)")
	rootCmd.PersistentFlags().Bool("debug", false, "Log every SQL statement")
	viper.BindPFlag("dialect", rootCmd.PersistentFlags().Lookup("dialect"))
	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(validateCmd)
}
