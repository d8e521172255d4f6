package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ridoystarlord/bakery/entities"
	"github.com/ridoystarlord/bakery/validator"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the bakery table descriptors",
	Long: `Validate the compiled-in table descriptors without touching the database.

This command checks:
- Table and column naming (identifier rules, reserved keywords)
- Data types and default values
- Primary keys
- Foreign key targets and ON DELETE actions
- Declared relations

Examples:
  bakery validate                  # Human-readable report
  bakery validate --format json    # Output validation results as JSON
`,
	Run: func(cmd *cobra.Command, args []string) {
		result := validator.ValidateModels(entities.Tables())

		var err error
		if validateFormat == "json" {
			err = outputJSON(result)
		} else {
			err = outputText(result)
		}
		if err != nil {
			fmt.Printf("❌ Failed to write report: %v\n", err)
			os.Exit(1)
		}
		if !result.Valid {
			os.Exit(1)
		}
	},
}

var validateFormat string

func init() {
	validateCmd.Flags().StringVarP(&validateFormat, "format", "f", "text", "Output format (text, json)")
}

func outputJSON(result *validator.ValidationResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func outputText(result *validator.ValidationResult) error {
	if result.Valid {
		color.Green("✅ Table validation passed!")
	} else {
		color.Red("❌ Table validation failed!")
	}

	printIssues("🔴 Errors", result.Errors)
	printIssues("🟡 Warnings", result.Warnings)

	fmt.Printf("\n📊 Summary:\n")
	fmt.Printf("  • Errors: %d\n", len(result.Errors))
	fmt.Printf("  • Warnings: %d\n", len(result.Warnings))
	return nil
}

func printIssues(title string, issues []validator.ValidationError) {
	if len(issues) == 0 {
		return
	}
	fmt.Printf("\n%s (%d):\n", title, len(issues))
	for i, issue := range issues {
		fmt.Printf("  %d. ", i+1)
		if issue.Table != "" {
			fmt.Printf("[%s]", issue.Table)
		}
		if issue.Column != "" {
			fmt.Printf(".%s", issue.Column)
		}
		fmt.Printf(": %s\n", issue.Message)
	}
}
