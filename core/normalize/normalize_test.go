package normalize_test

import (
	"math"
	"testing"

	"teamrate/core/model"
	"teamrate/core/normalize"
)

func nearlyEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAnnualBase(t *testing.T) {
	tests := []struct {
		name string
		e    model.Employee
		want float64
	}{
		{"gross only", model.Employee{GrossMonthly: 30000}, 360000},
		{"with oncost", model.Employee{GrossMonthly: 10000, OncostRate: 0.25}, 150000},
		{"with benefits and bonus", model.Employee{GrossMonthly: 10000, AnnualBenefits: 6000, AnnualBonus: 12000}, 138000},
		{"everything", model.Employee{GrossMonthly: 10000, OncostRate: 0.1, AnnualBenefits: 1200, AnnualBonus: 2400}, 135600},
		{"zero", model.Employee{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalize.AnnualBase(tt.e); !nearlyEqual(got, tt.want) {
				t.Errorf("AnnualBase() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRawMonthly(t *testing.T) {
	e := model.Employee{GrossMonthly: 10000, OncostRate: 0.1, AnnualBenefits: 1200, AnnualBonus: 2400}
	if got := normalize.RawMonthly(e); !nearlyEqual(got, 11300) {
		t.Errorf("RawMonthly() = %v, want 11300", got)
	}

	// Annual base spread over twelve months equals the raw monthly figure.
	if got := normalize.AnnualBase(e) / 12; !nearlyEqual(got, normalize.RawMonthly(e)) {
		t.Errorf("AnnualBase/12 = %v, RawMonthly = %v", got, normalize.RawMonthly(e))
	}
}

// TestMonthlyEquivalentPeriodInvariance verifies that equal money amounts
// expressed in different periods normalize to the same monthly figure.
func TestMonthlyEquivalentPeriodInvariance(t *testing.T) {
	annual := normalize.MonthlyEquivalent(model.OverheadType{Amount: 1200, Period: model.PeriodAnnual})
	quarterly := normalize.MonthlyEquivalent(model.OverheadType{Amount: 300, Period: model.PeriodQuarterly})
	monthly := normalize.MonthlyEquivalent(model.OverheadType{Amount: 100, Period: model.PeriodMonthly})

	if !nearlyEqual(annual, 100) || !nearlyEqual(quarterly, 100) || !nearlyEqual(monthly, 100) {
		t.Errorf("monthly equivalents = %v, %v, %v, want all 100", annual, quarterly, monthly)
	}
}
