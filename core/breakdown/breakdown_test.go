package breakdown_test

import (
	"testing"

	"teamrate/core/aggregate"
	"teamrate/core/breakdown"
	"teamrate/core/model"
	"teamrate/core/pricing"
	"teamrate/core/resolve"
	"teamrate/core/settings"
	"teamrate/internal/errors"
)

func floatSetting(key model.SettingKey, value string) model.Setting {
	return model.Setting{Key: key, Value: value, Type: model.ValueFloat}
}

// fixture covers every moving part at once: two dev members with uneven FTE,
// an agentic member, both pools populated, and two overhead types.
func fixture() *model.Snapshot {
	return &model.Snapshot{
		Employees: []model.Employee{
			{ID: "alice", Name: "Alice", Category: model.CategoryDev, StackID: "java", Active: true, GrossMonthly: 10000, OncostRate: 0.2, AnnualBenefits: 1200, FTE: 1},
			{ID: "dave", Name: "Dave", Category: model.CategoryDev, StackID: "java", Active: true, GrossMonthly: 8000, FTE: 0.5},
			{ID: "agent", Name: "Agent", Category: model.CategoryAgenticAI, StackID: "java", Active: true, GrossMonthly: 2000, FTE: 1},
			{ID: "qa", Name: "QA", Category: model.CategoryQA, Active: true, GrossMonthly: 6000, FTE: 1},
			{ID: "ba", Name: "BA", Category: model.CategoryBA, Active: true, GrossMonthly: 7000, FTE: 1},
		},
		Stacks: []model.TechStack{{ID: "java", Name: "Java"}},
		OverheadTypes: []model.OverheadType{
			{ID: "rent", Name: "Office rent", Active: true, Amount: 24000, Period: model.PeriodAnnual},
			{ID: "tools", Name: "Tooling", Active: true, Amount: 600, Period: model.PeriodQuarterly},
		},
		Allocations: []model.Allocation{
			{EmployeeID: "alice", TypeID: "rent", Share: 0.3},
			{EmployeeID: "dave", TypeID: "rent", Share: 0.2},
			{EmployeeID: "qa", TypeID: "rent", Share: 0.25},
			{EmployeeID: "ba", TypeID: "rent", Share: 0.25},
			{EmployeeID: "alice", TypeID: "tools", Share: 0.6},
			{EmployeeID: "qa", TypeID: "tools", Share: 0.4},
		},
		Settings: []model.Setting{
			floatSetting(settings.KeyDevReleasableHours, "100"),
			floatSetting(settings.KeyStandardHours, "160"),
			floatSetting(settings.KeyQARatio, "0.3"),
			floatSetting(settings.KeyBARatio, "0.2"),
			floatSetting(settings.KeyMargin, "0.2"),
			floatSetting(settings.KeyRisk, "0.1"),
		},
	}
}

type evaluated struct {
	builder *breakdown.Builder
	result  *pricing.Result
}

func evaluate(t *testing.T) evaluated {
	t.Helper()
	ds, err := resolve.Build(fixture(), nil)
	if err != nil {
		t.Fatalf("Build dataset: %v", err)
	}
	vals := settings.FromSettings(ds.Settings)
	agg := aggregate.Build(ds, vals)
	return evaluated{
		builder: breakdown.NewBuilder(agg, vals),
		result:  pricing.Compute(agg, vals, nil),
	}
}

// checkInvariant walks the tree asserting that every non-leaf's result equals
// the reduction of its children, bit for bit.
func checkInvariant(t *testing.T, n *breakdown.Node) {
	t.Helper()
	if n.Op != breakdown.OpLeaf {
		got := n.Reduce()
		switch {
		case got == nil && n.Result != nil:
			t.Errorf("node %s: result %v, reduce nil", n.Key, *n.Result)
		case got != nil && n.Result == nil:
			t.Errorf("node %s: result nil, reduce %v", n.Key, *got)
		case got != nil && *got != *n.Result:
			t.Errorf("node %s: result %v, reduce %v", n.Key, *n.Result, *got)
		}
	}
	for _, in := range n.Inputs {
		checkInvariant(t, in)
	}
}

func equalNullable(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// TestTreesMatchPricing builds every key and asserts that the tree's root
// reproduces the engine's number exactly and that every node satisfies the
// reduction invariant.
func TestTreesMatchPricing(t *testing.T) {
	ev := evaluate(t)
	java, ok := ev.result.StackByID("java")
	if !ok {
		t.Fatal("java stack missing")
	}

	tests := []struct {
		key  string
		want *float64
	}{
		{breakdown.KeyDevRawHr, java.Dev.RawPerRelHour},
		{breakdown.KeyDevHr, java.Dev.CostPerRelHour},
		{breakdown.KeyAgenticRawHr, java.Agentic.RawPerRelHour},
		{breakdown.KeyAgenticHr, java.Agentic.CostPerRelHour},
		{breakdown.KeyQAHr, ev.result.QA.PerDevRelHour},
		{breakdown.KeyQARawHr, ev.result.QA.RawPerDevRelHour},
		{breakdown.KeyBAHr, ev.result.BA.PerDevRelHour},
		{breakdown.KeyBARawHr, ev.result.BA.RawPerDevRelHour},
		{breakdown.KeyTotalOverheadsHr, java.Dev.TotalOverheadsPerRelHour},
		{breakdown.KeyAgenticTotalOverheadsHr, java.Agentic.TotalOverheadsPerRelHour},
		{breakdown.KeyReleasableCostHr, java.Dev.ReleasableCost},
		{breakdown.KeyAgenticReleasableCostHr, java.Agentic.ReleasableCost},
		{breakdown.KeyFinalPriceHr, java.Dev.FinalPrice},
		{breakdown.KeyAgenticFinalPriceHr, java.Agentic.FinalPrice},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			node, err := ev.builder.Build("java", tt.key)
			if err != nil {
				t.Fatalf("Build(%s): %v", tt.key, err)
			}
			if !equalNullable(node.Result, tt.want) {
				t.Errorf("root result = %v, pricing = %v", fmtNullable(node.Result), fmtNullable(tt.want))
			}
			checkInvariant(t, node)
		})
	}
}

// TestOverheadLineTrees checks the per-type keys against the pricing lines.
func TestOverheadLineTrees(t *testing.T) {
	ev := evaluate(t)
	java, _ := ev.result.StackByID("java")

	for _, line := range java.Dev.Overheads {
		node, err := ev.builder.Build("java", breakdown.KeyOverheadHr+":"+string(line.TypeID))
		if err != nil {
			t.Fatalf("Build overhead %s: %v", line.TypeID, err)
		}
		if !equalNullable(node.Result, line.PerRelHour) {
			t.Errorf("overhead %s: root %v, pricing %v", line.TypeID, fmtNullable(node.Result), fmtNullable(line.PerRelHour))
		}
		checkInvariant(t, node)

		devNode, err := ev.builder.Build("java", breakdown.KeyDevOverheadHr+":"+string(line.TypeID))
		if err != nil {
			t.Fatalf("Build dev overhead %s: %v", line.TypeID, err)
		}
		if !equalNullable(devNode.Result, line.Dev) {
			t.Errorf("dev overhead %s: root %v, pricing %v", line.TypeID, fmtNullable(devNode.Result), fmtNullable(line.Dev))
		}
		checkInvariant(t, devNode)
	}
}

func TestUnknownKeyAndStack(t *testing.T) {
	ev := evaluate(t)

	_, err := ev.builder.Build("java", "no_such_key")
	if errors.TypeOf(err) != errors.TypeNotFound {
		t.Errorf("unknown key error = %v, want not-found", err)
	}

	_, err = ev.builder.Build("cobol", breakdown.KeyDevRawHr)
	if errors.TypeOf(err) != errors.TypeNotFound {
		t.Errorf("unknown stack error = %v, want not-found", err)
	}

	_, err = ev.builder.Build("java", breakdown.KeyOverheadHr+":nope")
	if errors.TypeOf(err) != errors.TypeNotFound {
		t.Errorf("unknown overhead type error = %v, want not-found", err)
	}
}

// TestLazyConstruction asserts that the builder hands back only the requested
// subtree, not the whole forest.
func TestLazyConstruction(t *testing.T) {
	ev := evaluate(t)
	node, err := ev.builder.Build("java", breakdown.KeyQAHr)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if node.Key != breakdown.KeyQAHr {
		t.Errorf("root key = %s, want %s", node.Key, breakdown.KeyQAHr)
	}
	for _, in := range node.Inputs {
		if in.Key == breakdown.KeyFinalPriceHr {
			t.Error("unrelated subtree present")
		}
	}
}

func fmtNullable(v *float64) any {
	if v == nil {
		return "nil"
	}
	return *v
}
