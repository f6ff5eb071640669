package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ocpizza/ocpizza/internal/services"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run a read-only reporting query",
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runReport(fetch func(services.ReportService) (any, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		db, _, err := openDatabase()
		if err != nil {
			return err
		}
		rows, err := fetch(services.NewReportService(db))
		if err != nil {
			return fmt.Errorf("report failed: %w", err)
		}
		return printJSON(rows)
	}
}

var salesCmd = &cobra.Command{
	Use:   "sales",
	Short: "Units sold per catalog item per outlet, best sellers first",
	RunE: runReport(func(r services.ReportService) (any, error) {
		return r.SalesRanking()
	}),
}

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "Count of unfulfilled orders per outlet",
	RunE: runReport(func(r services.ReportService) (any, error) {
		return r.PendingByPizzeria()
	}),
}

var managersCmd = &cobra.Command{
	Use:   "managers",
	Short: "Directory of members holding the manager role",
	RunE: runReport(func(r services.ReportService) (any, error) {
		return r.ManagerDirectory()
	}),
}

var feasibleCmd = &cobra.Command{
	Use:   "feasible",
	Short: "Recipes each outlet can prepare from current stock",
	RunE: runReport(func(r services.ReportService) (any, error) {
		return r.FeasibleRecipes()
	}),
}

func init() {
	reportCmd.AddCommand(salesCmd, pendingCmd, managersCmd, feasibleCmd)
	rootCmd.AddCommand(reportCmd)
}
