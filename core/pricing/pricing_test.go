package pricing_test

import (
	"math"
	"testing"

	"teamrate/core/aggregate"
	"teamrate/core/model"
	"teamrate/core/pricing"
	"teamrate/core/resolve"
	"teamrate/core/settings"
)

func nearlyEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func compute(t *testing.T, snap *model.Snapshot) *pricing.Result {
	t.Helper()
	ds, err := resolve.Build(snap, nil)
	if err != nil {
		t.Fatalf("Build dataset: %v", err)
	}
	vals := settings.FromSettings(ds.Settings)
	return pricing.Compute(aggregate.Build(ds, vals), vals, ds.Scenario)
}

func floatSetting(key model.SettingKey, value string) model.Setting {
	return model.Setting{Key: key, Value: value, Type: model.ValueFloat}
}

// TestEndToEnd walks the canonical single-dev scenario through the whole
// formula: 30000/month over 100 releasable hours is 300/hr, and margin 0.2
// with risk 0.1 lands at 396/hr.
func TestEndToEnd(t *testing.T) {
	snap := &model.Snapshot{
		Employees: []model.Employee{
			{ID: "dev", Name: "Dev", Category: model.CategoryDev, StackID: "java", Active: true, GrossMonthly: 30000, FTE: 1},
		},
		Stacks: []model.TechStack{{ID: "java", Name: "Java"}},
		Settings: []model.Setting{
			floatSetting(settings.KeyDevReleasableHours, "100"),
			floatSetting(settings.KeyStandardHours, "160"),
			floatSetting(settings.KeyQARatio, "0"),
			floatSetting(settings.KeyBARatio, "0"),
			floatSetting(settings.KeyMargin, "0.2"),
			floatSetting(settings.KeyRisk, "0.1"),
		},
	}

	result := compute(t, snap)
	java, ok := result.StackByID("java")
	if !ok {
		t.Fatal("java stack missing")
	}

	dev := java.Dev
	if dev.Empty {
		t.Fatal("dev track should not be empty")
	}
	if !nearlyEqual(dev.HoursCapacity, 100) {
		t.Errorf("capacity = %v, want 100", dev.HoursCapacity)
	}
	if dev.CostPerRelHour == nil || !nearlyEqual(*dev.CostPerRelHour, 300) {
		t.Errorf("cost per releasable hour = %v, want 300", dev.CostPerRelHour)
	}
	if dev.COGS == nil || !nearlyEqual(*dev.COGS, 300) {
		t.Errorf("COGS = %v, want 300", dev.COGS)
	}
	if dev.TotalOverheadsPerRelHour == nil || *dev.TotalOverheadsPerRelHour != 0 {
		t.Errorf("total overheads = %v, want 0", dev.TotalOverheadsPerRelHour)
	}
	if dev.ReleasableCost == nil || !nearlyEqual(*dev.ReleasableCost, 300) {
		t.Errorf("releasable cost = %v, want 300", dev.ReleasableCost)
	}
	if dev.FinalPrice == nil || !nearlyEqual(*dev.FinalPrice, 396) {
		t.Errorf("final price = %v, want 396", dev.FinalPrice)
	}

	// Disabled add-ons from empty pools contribute a plain zero, not null.
	if result.QA.PerDevRelHour == nil || *result.QA.PerDevRelHour != 0 {
		t.Errorf("QA add-on = %v, want 0", result.QA.PerDevRelHour)
	}
	if result.BA.RawPerDevRelHour == nil || *result.BA.RawPerDevRelHour != 0 {
		t.Errorf("BA raw add-on = %v, want 0", result.BA.RawPerDevRelHour)
	}
}

// TestEmptyStackIsNull verifies that a stack without DEV employees prices to
// null, never to zero, while other stacks are unaffected.
func TestEmptyStackIsNull(t *testing.T) {
	snap := &model.Snapshot{
		Employees: []model.Employee{
			{ID: "dev", Name: "Dev", Category: model.CategoryDev, StackID: "java", Active: true, GrossMonthly: 10000, FTE: 1},
		},
		Stacks: []model.TechStack{
			{ID: "java", Name: "Java"},
			{ID: "python", Name: "Python"},
		},
		Settings: []model.Setting{
			floatSetting(settings.KeyDevReleasableHours, "100"),
			floatSetting(settings.KeyStandardHours, "160"),
			floatSetting(settings.KeyQARatio, "0"),
			floatSetting(settings.KeyBARatio, "0"),
			floatSetting(settings.KeyMargin, "0.2"),
			floatSetting(settings.KeyRisk, "0.1"),
		},
	}

	result := compute(t, snap)

	python, _ := result.StackByID("python")
	if !python.Dev.Empty {
		t.Error("python dev track should be empty")
	}
	if python.Dev.CostPerRelHour != nil {
		t.Errorf("empty stack cost = %v, want nil", *python.Dev.CostPerRelHour)
	}
	if python.Dev.FinalPrice != nil {
		t.Errorf("empty stack final price = %v, want nil", *python.Dev.FinalPrice)
	}

	java, _ := result.StackByID("java")
	if java.Dev.FinalPrice == nil {
		t.Error("java final price should still compute")
	}
}

// TestPoolAddOns verifies the QA/BA per-dev-releasable-hour math.
func TestPoolAddOns(t *testing.T) {
	snap := &model.Snapshot{
		Employees: []model.Employee{
			{ID: "dev", Name: "Dev", Category: model.CategoryDev, StackID: "java", Active: true, GrossMonthly: 16000, FTE: 1},
			{ID: "qa", Name: "QA", Category: model.CategoryQA, Active: true, GrossMonthly: 8000, FTE: 1},
		},
		Stacks: []model.TechStack{{ID: "java", Name: "Java"}},
		Settings: []model.Setting{
			floatSetting(settings.KeyDevReleasableHours, "100"),
			floatSetting(settings.KeyStandardHours, "160"),
			floatSetting(settings.KeyQARatio, "0.3"),
			floatSetting(settings.KeyBARatio, "0"),
			floatSetting(settings.KeyMargin, "0"),
			floatSetting(settings.KeyRisk, "0"),
		},
	}

	result := compute(t, snap)

	// 8000/month over 160 standard hours is 50/hr, scaled by the 0.3 ratio.
	if result.QA.CostPerHour == nil || !nearlyEqual(*result.QA.CostPerHour, 50) {
		t.Errorf("QA cost per hour = %v, want 50", result.QA.CostPerHour)
	}
	if result.QA.PerDevRelHour == nil || !nearlyEqual(*result.QA.PerDevRelHour, 15) {
		t.Errorf("QA add-on = %v, want 15", result.QA.PerDevRelHour)
	}

	// Dev COGS = 160 raw + 15 QA raw + 0 BA.
	java, _ := result.StackByID("java")
	if java.Dev.COGS == nil || !nearlyEqual(*java.Dev.COGS, 175) {
		t.Errorf("dev COGS = %v, want 175", java.Dev.COGS)
	}

	// The agentic track never carries pooled add-ons.
	if !java.Agentic.Empty {
		t.Error("agentic track should be empty")
	}
}

// TestNonEmptyPoolWithoutHours verifies that a priced pool without a standard
// hour budget is unpriceable, not zero, but a zero ratio still disarms it.
func TestNonEmptyPoolWithoutHours(t *testing.T) {
	snap := &model.Snapshot{
		Employees: []model.Employee{
			{ID: "dev", Name: "Dev", Category: model.CategoryDev, StackID: "java", Active: true, GrossMonthly: 16000, FTE: 1},
			{ID: "qa", Name: "QA", Category: model.CategoryQA, Active: true, GrossMonthly: 8000, FTE: 1},
		},
		Stacks: []model.TechStack{{ID: "java", Name: "Java"}},
		Settings: []model.Setting{
			floatSetting(settings.KeyDevReleasableHours, "100"),
			floatSetting(settings.KeyQARatio, "0.3"),
			floatSetting(settings.KeyBARatio, "0"),
			floatSetting(settings.KeyMargin, "0"),
			floatSetting(settings.KeyRisk, "0"),
		},
	}

	result := compute(t, snap)
	if result.QA.CostPerHour != nil {
		t.Errorf("QA cost per hour = %v, want nil", *result.QA.CostPerHour)
	}
	if result.QA.PerDevRelHour != nil {
		t.Errorf("QA add-on = %v, want nil", *result.QA.PerDevRelHour)
	}

	// Null poisons downstream: the dev COGS picks up the unpriceable add-on.
	java, _ := result.StackByID("java")
	if java.Dev.COGS != nil {
		t.Errorf("dev COGS = %v, want nil", *java.Dev.COGS)
	}
	if java.Dev.FinalPrice != nil {
		t.Errorf("dev final price = %v, want nil", *java.Dev.FinalPrice)
	}
}

func TestNullableHelpers(t *testing.T) {
	if pricing.Div(10, 0) != nil {
		t.Error("Div by zero should be nil")
	}
	if pricing.Div(10, -5) != nil {
		t.Error("Div by negative should be nil")
	}
	if got := pricing.Div(10, 4); got == nil || *got != 2.5 {
		t.Errorf("Div(10, 4) = %v, want 2.5", got)
	}

	if pricing.Add(pricing.Ptr(1), nil) != nil {
		t.Error("Add with nil should be nil")
	}
	if got := pricing.Add(pricing.Ptr(1), pricing.Ptr(2)); got == nil || *got != 3 {
		t.Errorf("Add(1, 2) = %v, want 3", got)
	}

	if pricing.Mul(nil, 2) != nil {
		t.Error("Mul of nil should be nil")
	}
	if got := pricing.Mul(pricing.Ptr(3), 2); got == nil || *got != 6 {
		t.Errorf("Mul(3, 2) = %v, want 6", got)
	}

	// A zero ratio yields a plain zero even over an unpriceable value.
	if got := pricing.Scale(0, nil); got == nil || *got != 0 {
		t.Errorf("Scale(0, nil) = %v, want 0", got)
	}
	if pricing.Scale(0.5, nil) != nil {
		t.Error("Scale(0.5, nil) should be nil")
	}
	if got := pricing.Scale(0.5, pricing.Ptr(10)); got == nil || *got != 5 {
		t.Errorf("Scale(0.5, 10) = %v, want 5", got)
	}

	if pricing.Pct(pricing.Ptr(1), pricing.Ptr(0)) != nil {
		t.Error("Pct with zero total should be nil")
	}
	if got := pricing.Pct(pricing.Ptr(1), pricing.Ptr(4)); got == nil || *got != 0.25 {
		t.Errorf("Pct(1, 4) = %v, want 0.25", got)
	}
}

func TestInCurrency(t *testing.T) {
	snap := &model.Snapshot{
		Employees: []model.Employee{
			{ID: "dev", Name: "Dev", Category: model.CategoryDev, StackID: "java", Active: true, GrossMonthly: 30000, FTE: 1},
		},
		Stacks: []model.TechStack{{ID: "java", Name: "Java"}},
		Settings: []model.Setting{
			floatSetting(settings.KeyDevReleasableHours, "100"),
			floatSetting(settings.KeyStandardHours, "160"),
			floatSetting(settings.KeyQARatio, "0"),
			floatSetting(settings.KeyBARatio, "0"),
			floatSetting(settings.KeyMargin, "0.2"),
			floatSetting(settings.KeyRisk, "0.1"),
			floatSetting(settings.KeyExchangeRatio, "4"),
		},
	}

	result := compute(t, snap)
	if result.ExchangeRatio != 4 {
		t.Fatalf("exchange ratio = %v, want 4", result.ExchangeRatio)
	}

	converted := result.InCurrency(result.ExchangeRatio)
	java, _ := converted.StackByID("java")
	if java.Dev.FinalPrice == nil || !nearlyEqual(*java.Dev.FinalPrice, 99) {
		t.Errorf("converted final price = %v, want 99", java.Dev.FinalPrice)
	}

	// The margin and the original result stay untouched.
	if converted.Margin != 0.2 {
		t.Errorf("converted margin = %v, want 0.2", converted.Margin)
	}
	original, _ := result.StackByID("java")
	if original.Dev.FinalPrice == nil || !nearlyEqual(*original.Dev.FinalPrice, 396) {
		t.Errorf("original final price = %v, want 396", original.Dev.FinalPrice)
	}
}
