// Package normalize converts raw compensation and overhead-pool figures into
// comparable monthly and annual cost numbers. All functions are pure float64
// arithmetic with no rounding; rounding happens at display only.
package normalize

import "teamrate/core/model"

// MonthsPerYear is the annualisation factor used throughout the engine.
const MonthsPerYear = 12.0

// AnnualBase is an employee's direct annual compensation cost:
// gross*12*(1+oncost) + benefits + bonus. Missing oncost, benefits and bonus
// are zero-valued on the model and need no special casing here.
func AnnualBase(e model.Employee) float64 {
	return e.GrossMonthly*MonthsPerYear*(1+e.OncostRate) + e.AnnualBenefits + e.AnnualBonus
}

// RawMonthly is the overhead-exclusive monthly cost used for COGS:
// gross*(1+oncost) + benefits/12 + bonus/12.
func RawMonthly(e model.Employee) float64 {
	return e.GrossMonthly*(1+e.OncostRate) + e.AnnualBenefits/MonthsPerYear + e.AnnualBonus/MonthsPerYear
}

// MonthlyEquivalent converts an overhead pool's amount and period into a
// monthly figure: annual/12, quarterly/4, monthly as-is.
func MonthlyEquivalent(o model.OverheadType) float64 {
	switch o.Period {
	case model.PeriodAnnual:
		return o.Amount / 12
	case model.PeriodQuarterly:
		return o.Amount / 4
	default: // model.PeriodMonthly
		return o.Amount
	}
}
