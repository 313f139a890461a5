// Package cmd - price command
package cmd

import (
	"context"
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"teamrate/core/engine"
	"teamrate/core/model"
	"teamrate/core/output"
	"teamrate/internal/config"
	"teamrate/internal/logging"
	"teamrate/internal/store"
)

var (
	outputFormat string
	scenarioName string
	inputFile    string
)

// priceCmd represents the price command
var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Compute per-stack hourly prices",
	Long: `Compute the fully-loaded hourly price for every technology stack.

The snapshot comes from the configured database, or from a JSON file when
--input is given. A scenario id overlays that scenario's overrides.

Examples:
  teamrate price
  teamrate price --scenario hiring-freeze
  teamrate price --input snapshot.json --format json`,
	RunE: runPrice,
}

func init() {
	priceCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format (cli, json)")
	priceCmd.Flags().StringVarP(&scenarioName, "scenario", "s", "", "scenario id to evaluate")
	priceCmd.Flags().StringVarP(&inputFile, "input", "i", "", "JSON snapshot file instead of the database")
}

func runPrice(cmd *cobra.Command, args []string) error {
	snap, err := loadSnapshot(cmd.Context())
	if err != nil {
		return err
	}

	var scenarioID *model.ScenarioID
	if scenarioName != "" {
		id := model.ScenarioID(scenarioName)
		scenarioID = &id
	}

	ev, err := engine.New(logging.Logger).Evaluate(snap, scenarioID)
	if err != nil {
		return err
	}

	format := output.Format(outputFormat)
	if outputFormat == "" {
		format = output.Format(config.Get().Output.DefaultFormat)
	}
	return output.ForFormat(format).Render(os.Stdout, &output.Result{
		Pricing: ev.Pricing,
		Report:  ev.Report,
	})
}

func loadSnapshot(ctx context.Context) (*model.Snapshot, error) {
	if inputFile != "" {
		data, err := os.ReadFile(inputFile)
		if err != nil {
			return nil, fmt.Errorf("read snapshot file: %w", err)
		}
		var snap model.Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return nil, fmt.Errorf("parse snapshot file: %w", err)
		}
		return &snap, nil
	}

	cfg := config.Get()
	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	return st.LoadSnapshot(ctx)
}
