package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ridoystarlord/bakery/database"
	"github.com/ridoystarlord/bakery/entities"
	"github.com/ridoystarlord/bakery/introspect"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check database connectivity",
	Long: `Check if the database is accessible and the bakery tables match the models.

Examples:
  bakery health                    # Check default database connection
  bakery health --timeout 10s      # Set custom timeout
`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := checkDatabaseHealth(); err != nil {
			fmt.Printf("❌ Database health check failed: %v\n", err)
			os.Exit(1)
		}
	},
}

var healthTimeout time.Duration

func init() {
	healthCmd.Flags().DurationVarP(&healthTimeout, "timeout", "t", 5*time.Second, "Timeout for health check")
}

func checkDatabaseHealth() error {
	cfg := mustLoadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), healthTimeout)
	defer cancel()

	db, err := database.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	mismatches, err := introspect.Verify(ctx, db, entities.Tables())
	if err != nil {
		return fmt.Errorf("failed to inspect tables: %w", err)
	}
	if len(mismatches) > 0 {
		fmt.Println("⚠️  Database is accessible but the tables differ from the models:")
		for _, m := range mismatches {
			fmt.Printf("   • %s\n", m)
		}
		fmt.Println("   Run 'bakery setup' to create missing tables")
		return nil
	}

	fmt.Println("✅ Database is healthy and accessible")
	return nil
}
