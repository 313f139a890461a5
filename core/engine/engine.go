// Package engine orchestrates one pricing evaluation: override resolution,
// settings parsing, aggregation, the pricing formula and validation. The
// engine is pure and synchronous over an in-memory snapshot; evaluating the
// same snapshot twice yields identical output, and concurrent evaluations of
// different scenarios are safe because every call builds its own dataset.
package engine

import (
	"go.uber.org/zap"

	"teamrate/core/aggregate"
	"teamrate/core/breakdown"
	"teamrate/core/model"
	"teamrate/core/pricing"
	"teamrate/core/resolve"
	"teamrate/core/settings"
	"teamrate/core/validate"
)

// Engine evaluates snapshots. The zero value is not usable; use New.
type Engine struct {
	log *zap.Logger
}

// New creates an engine. A nil logger disables logging.
func New(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{log: log}
}

// Evaluation is the complete output of one engine run.
type Evaluation struct {
	Dataset    *resolve.Dataset
	Settings   settings.Values
	Aggregates *aggregate.Aggregates
	Pricing    *pricing.Result
	Report     *validate.Report

	builder *breakdown.Builder
}

// Evaluate prices one snapshot under an optional scenario. A nil scenario id
// evaluates the base data. Only precondition violations (nil snapshot,
// unknown scenario) return an error; data-quality problems land in the
// validation report while numbers are still produced.
func (e *Engine) Evaluate(snap *model.Snapshot, scenarioID *model.ScenarioID) (*Evaluation, error) {
	ds, err := resolve.Build(snap, scenarioID)
	if err != nil {
		return nil, err
	}

	vals := settings.FromSettings(ds.Settings)
	agg := aggregate.Build(ds, vals)
	result := pricing.Compute(agg, vals, ds.Scenario)
	report := validate.Check(ds, vals)

	scenario := "base"
	if ds.Scenario != nil {
		scenario = string(ds.Scenario.ID)
	}
	e.log.Debug("evaluation complete",
		zap.String("scenario", scenario),
		zap.Int("employees", len(ds.ActiveEmployees())),
		zap.Int("stacks", len(result.Stacks)),
		zap.Int("overheadTypes", len(agg.OverheadTypes)),
	)
	if !report.Clean() {
		e.log.Warn("evaluation produced data-quality warnings",
			zap.String("scenario", scenario),
			zap.Int("missingSettings", len(report.MissingSettings)),
			zap.Int("invalidAllocations", len(report.InvalidAllocations)),
			zap.Int("employeesMissingAllocation", len(report.EmployeesMissingAllocation)),
		)
	}

	return &Evaluation{
		Dataset:    ds,
		Settings:   vals,
		Aggregates: agg,
		Pricing:    result,
		Report:     report,
		builder:    breakdown.NewBuilder(agg, vals),
	}, nil
}

// Breakdown builds the audit subtree for one metric key on one stack.
func (ev *Evaluation) Breakdown(stackID model.StackID, key string) (*breakdown.Node, error) {
	return ev.builder.Build(stackID, key)
}
