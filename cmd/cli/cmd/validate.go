package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"teamrate/core/engine"
	"teamrate/core/model"
	"teamrate/internal/logging"
)

var validateScenario string

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the snapshot for configuration problems",
	Long: `Check the effective dataset for missing settings, overhead allocations
that do not sum to 1.0, and employees left out of an allocation.

Problems are advisory: pricing still runs with them present, but the numbers
silently exclude the missing shares.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateScenario, "scenario", "s", "", "scenario id to validate")
	validateCmd.Flags().StringVarP(&inputFile, "input", "i", "", "JSON snapshot file instead of the database")
}

func runValidate(cmd *cobra.Command, args []string) error {
	snap, err := loadSnapshot(cmd.Context())
	if err != nil {
		return err
	}

	var scenarioID *model.ScenarioID
	if validateScenario != "" {
		id := model.ScenarioID(validateScenario)
		scenarioID = &id
	}

	ev, err := engine.New(logging.Logger).Evaluate(snap, scenarioID)
	if err != nil {
		return err
	}

	rep := ev.Report
	if rep.Clean() {
		fmt.Println("OK: no problems found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, key := range rep.MissingSettings {
		fmt.Fprintf(w, "missing setting\t%s\n", key)
	}
	for _, issue := range rep.InvalidAllocations {
		fmt.Fprintf(w, "allocation imbalance\t%s\tsum=%.4f\n", issue.TypeID, issue.Sum)
	}
	for _, pair := range rep.MissingPairs {
		fmt.Fprintf(w, "missing allocation\t%s\t%s\n", pair.TypeID, pair.EmployeeID)
	}
	w.Flush()

	return fmt.Errorf("%d problem(s) found", len(rep.MissingSettings)+len(rep.InvalidAllocations)+len(rep.MissingPairs))
}
