// Package allocate distributes overhead-pool costs onto employees via their
// effective allocation shares and derives fully-loaded cost figures. Only
// effectively active overhead types participate; rows pointing at inactive
// types are excluded from the cost math entirely.
package allocate

import (
	"teamrate/core/model"
	"teamrate/core/normalize"
	"teamrate/core/resolve"
)

// OverheadByType returns the monthly overhead attributed to one employee,
// split per active overhead type: monthlyEquivalent(type) * effectiveShare.
// Types with a zero contribution are still present in the map so breakdowns
// can show them explicitly.
func OverheadByType(ds *resolve.Dataset, employee model.EmployeeID) map[model.OverheadTypeID]float64 {
	byType := make(map[model.OverheadTypeID]float64)
	for _, o := range ds.ActiveOverheadTypes() {
		byType[o.ID] = normalize.MonthlyEquivalent(o.OverheadType) * ds.Share(employee, o.ID)
	}
	return byType
}

// OverheadMonthly is the employee's total allocated monthly overhead.
func OverheadMonthly(ds *resolve.Dataset, employee model.EmployeeID) float64 {
	var total float64
	for _, o := range ds.ActiveOverheadTypes() {
		total += normalize.MonthlyEquivalent(o.OverheadType) * ds.Share(employee, o.ID)
	}
	return total
}

// FullyLoadedAnnual is direct annual compensation plus twelve months of
// allocated overhead.
func FullyLoadedAnnual(ds *resolve.Dataset, e model.Employee) float64 {
	return normalize.AnnualBase(e) + OverheadMonthly(ds, e.ID)*normalize.MonthsPerYear
}

// FullyLoadedMonthly is FullyLoadedAnnual spread back over twelve months.
func FullyLoadedMonthly(ds *resolve.Dataset, e model.Employee) float64 {
	return FullyLoadedAnnual(ds, e) / normalize.MonthsPerYear
}

// ShareSums returns, per active overhead type, the sum of effective shares
// across active employees. A well-formed pool sums to roughly 1.0; the
// validator judges the tolerance.
func ShareSums(ds *resolve.Dataset) map[model.OverheadTypeID]float64 {
	sums := make(map[model.OverheadTypeID]float64)
	active := ds.ActiveEmployees()
	for _, o := range ds.ActiveOverheadTypes() {
		var sum float64
		for _, e := range active {
			sum += ds.Share(e.ID, o.ID)
		}
		sums[o.ID] = sum
	}
	return sums
}

// MissingByType returns, per active overhead type, the active employees with
// no allocation row or a zero effective share for that type. A missing row is
// a silent zero in the cost math; this is where the silence becomes visible.
func MissingByType(ds *resolve.Dataset) map[model.OverheadTypeID][]model.EmployeeID {
	missing := make(map[model.OverheadTypeID][]model.EmployeeID)
	active := ds.ActiveEmployees()
	for _, o := range ds.ActiveOverheadTypes() {
		for _, e := range active {
			if !ds.HasAllocation(e.ID, o.ID) || ds.Share(e.ID, o.ID) == 0 {
				missing[o.ID] = append(missing[o.ID], e.ID)
			}
		}
	}
	return missing
}
