// Package aggregate groups the effective workforce into cost buckets: DEV and
// AGENTIC_AI per technology stack, QA and BA pooled globally. Buckets carry
// pooled monthly costs (fully loaded and raw), FTE sums and per-overhead-type
// contributions; the per-hour arithmetic on top lives in core/pricing.
package aggregate

import (
	"sort"

	"teamrate/core/allocate"
	"teamrate/core/model"
	"teamrate/core/normalize"
	"teamrate/core/resolve"
	"teamrate/core/settings"
)

// Member is one employee's contribution to a bucket.
type Member struct {
	ID      model.EmployeeID
	Name    string
	Monthly float64 // fully loaded monthly cost
	Raw     float64 // overhead-exclusive monthly cost
	FTE     float64
}

// Bucket accumulates one category's pooled costs.
type Bucket struct {
	Members         []Member
	MonthlyCost     float64 // Σ fully loaded monthly
	RawMonthly      float64 // Σ raw monthly
	FTE             float64
	OverheadMonthly map[model.OverheadTypeID]float64
}

func newBucket() Bucket {
	return Bucket{OverheadMonthly: make(map[model.OverheadTypeID]float64)}
}

func (b *Bucket) add(m Member, overhead map[model.OverheadTypeID]float64) {
	b.Members = append(b.Members, m)
	b.MonthlyCost += m.Monthly
	b.RawMonthly += m.Raw
	b.FTE += m.FTE
	for typeID, amount := range overhead {
		b.OverheadMonthly[typeID] += amount
	}
}

// Empty reports whether the bucket has no members.
func (b Bucket) Empty() bool {
	return len(b.Members) == 0
}

// HoursCapacity is the bucket's FTE-weighted monthly hour capacity.
func (b Bucket) HoursCapacity(hoursPerMonth float64) float64 {
	return hoursPerMonth * b.FTE
}

// StackBuckets holds the two stack-scoped category buckets for one stack.
type StackBuckets struct {
	Stack   model.TechStack
	Dev     Bucket
	Agentic Bucket
}

// Aggregates is the bucketed view of one effective dataset.
type Aggregates struct {
	Stacks []StackBuckets // sorted by stack id; every known stack appears
	QA     Bucket
	BA     Bucket

	DevReleasableHours float64
	StandardHours      float64
	OverheadTypes      []resolve.OverheadType // active, sorted by id
}

// Build partitions the effectively active employees into buckets. DEV and
// AGENTIC_AI employees without a known stack reference cannot be priced and
// are left out of every bucket.
func Build(ds *resolve.Dataset, vals settings.Values) *Aggregates {
	agg := &Aggregates{
		QA:                 newBucket(),
		BA:                 newBucket(),
		DevReleasableHours: vals.Get(settings.KeyDevReleasableHours),
		StandardHours:      vals.Get(settings.KeyStandardHours),
		OverheadTypes:      ds.ActiveOverheadTypes(),
	}

	byStack := make(map[model.StackID]*StackBuckets, len(ds.Stacks))
	for _, s := range ds.Stacks {
		byStack[s.ID] = &StackBuckets{Stack: s, Dev: newBucket(), Agentic: newBucket()}
	}

	for _, e := range ds.ActiveEmployees() {
		member := Member{
			ID:      e.ID,
			Name:    e.Name,
			Monthly: allocate.FullyLoadedMonthly(ds, e.Employee),
			Raw:     normalize.RawMonthly(e.Employee),
			FTE:     e.FTE,
		}
		overhead := allocate.OverheadByType(ds, e.ID)

		switch e.Category {
		case model.CategoryQA:
			agg.QA.add(member, overhead)
		case model.CategoryBA:
			agg.BA.add(member, overhead)
		case model.CategoryDev:
			if sb, ok := byStack[e.StackID]; ok {
				sb.Dev.add(member, overhead)
			}
		case model.CategoryAgenticAI:
			if sb, ok := byStack[e.StackID]; ok {
				sb.Agentic.add(member, overhead)
			}
		}
	}

	agg.Stacks = make([]StackBuckets, 0, len(byStack))
	for _, sb := range byStack {
		agg.Stacks = append(agg.Stacks, *sb)
	}
	sort.Slice(agg.Stacks, func(i, j int) bool {
		return agg.Stacks[i].Stack.ID < agg.Stacks[j].Stack.ID
	})

	return agg
}

// StackByID returns the bucket pair for one stack.
func (a *Aggregates) StackByID(id model.StackID) (StackBuckets, bool) {
	for _, sb := range a.Stacks {
		if sb.Stack.ID == id {
			return sb, true
		}
	}
	return StackBuckets{}, false
}
