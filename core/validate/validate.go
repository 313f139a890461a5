// Package validate checks the effective dataset for data-quality problems.
// Every finding is a warning: the engine still computes numbers (potentially
// skewed) and the caller decides what to surface. Nothing here ever blocks a
// pricing run.
package validate

import (
	"math"
	"sort"

	"teamrate/core/allocate"
	"teamrate/core/model"
	"teamrate/core/resolve"
	"teamrate/core/settings"
)

// Tolerance is the accepted deviation of an overhead type's allocation-share
// sum from 1.0.
const Tolerance = 0.01

// AllocationBalanced reports whether a share sum is close enough to 100%.
func AllocationBalanced(sum float64) bool {
	return math.Abs(sum-1.0) <= Tolerance
}

// AllocationIssue is one overhead type whose active-employee shares do not
// sum to roughly 1.0.
type AllocationIssue struct {
	TypeID model.OverheadTypeID `json:"typeId"`
	Name   string               `json:"name"`
	Sum    float64              `json:"sum"`
}

// MissingPair is one (active employee, active overhead type) pair with no
// allocation row or a zero effective share. The cost math treats the pair as
// a silent zero contribution; this report is what makes that visible.
type MissingPair struct {
	EmployeeID model.EmployeeID     `json:"employeeId"`
	TypeID     model.OverheadTypeID `json:"overheadTypeId"`
}

// Report is the complete validation outcome for one effective dataset.
type Report struct {
	MissingSettings            []model.SettingKey `json:"missingSettings,omitempty"`
	InvalidAllocations         []AllocationIssue  `json:"invalidOverheadAllocations,omitempty"`
	EmployeesMissingAllocation []model.EmployeeID `json:"employeesMissingAllocation,omitempty"`
	MissingPairs               []MissingPair      `json:"missingAllocationPairs,omitempty"`
}

// Clean reports whether the dataset produced no warnings at all.
func (r *Report) Clean() bool {
	return len(r.MissingSettings) == 0 &&
		len(r.InvalidAllocations) == 0 &&
		len(r.EmployeesMissingAllocation) == 0
}

// Check runs every validation over the effective dataset.
func Check(ds *resolve.Dataset, vals settings.Values) *Report {
	report := &Report{
		MissingSettings: vals.Missing(settings.Required()...),
	}

	sums := allocate.ShareSums(ds)
	for _, o := range ds.ActiveOverheadTypes() {
		if !AllocationBalanced(sums[o.ID]) {
			report.InvalidAllocations = append(report.InvalidAllocations, AllocationIssue{
				TypeID: o.ID,
				Name:   o.Name,
				Sum:    sums[o.ID],
			})
		}
	}

	seen := make(map[model.EmployeeID]bool)
	missing := allocate.MissingByType(ds)
	for _, o := range ds.ActiveOverheadTypes() {
		for _, id := range missing[o.ID] {
			report.MissingPairs = append(report.MissingPairs, MissingPair{EmployeeID: id, TypeID: o.ID})
			if !seen[id] {
				seen[id] = true
				report.EmployeesMissingAllocation = append(report.EmployeesMissingAllocation, id)
			}
		}
	}
	sort.Slice(report.EmployeesMissingAllocation, func(i, j int) bool {
		return report.EmployeesMissingAllocation[i] < report.EmployeesMissingAllocation[j]
	})

	return report
}
