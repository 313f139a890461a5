// Package pricing combines the aggregated cost buckets into per-stack hourly
// prices. Money values that cannot be computed (zero hour capacity, empty
// bucket) are nil pointers, never NaN and never a silent 0; nil propagates
// through every downstream combination.
package pricing

import (
	"teamrate/core/aggregate"
	"teamrate/core/model"
	"teamrate/core/settings"
)

// OverheadLine is one overhead type's per-releasable-hour contribution to a
// stack price, with the three source components kept apart for drill-down.
type OverheadLine struct {
	TypeID model.OverheadTypeID `json:"typeId"`
	Name   string               `json:"name"`

	Dev        *float64 `json:"dev"`        // stack bucket's own share
	QA         *float64 `json:"qa"`         // ratio-scaled QA pool share
	BA         *float64 `json:"ba"`         // ratio-scaled BA pool share
	PerRelHour *float64 `json:"perRelHour"` // Dev + QA + BA
}

// Track is one category's price computation for a stack (DEV or AGENTIC_AI).
type Track struct {
	Empty bool `json:"empty"` // no employees assigned

	HoursCapacity  float64  `json:"hoursCapacity"`
	CostPerRelHour *float64 `json:"costPerRelHour"` // fully loaded
	RawPerRelHour  *float64 `json:"rawPerRelHour"`

	COGS                     *float64       `json:"cogs"`
	Overheads                []OverheadLine `json:"overheads"`
	TotalOverheadsPerRelHour *float64       `json:"totalOverheadsPerRelHour"`
	ReleasableCost           *float64       `json:"releasableCost"`
	FinalPrice               *float64       `json:"finalPrice"`
}

// StackPrice is the full pricing output for one technology stack.
type StackPrice struct {
	StackID   model.StackID `json:"stackId"`
	StackName string        `json:"stackName"`

	Dev     Track `json:"dev"`
	Agentic Track `json:"agentic"`
}

// PoolAddOn is the shared QA or BA contribution applied to every DEV stack.
type PoolAddOn struct {
	Ratio       float64 `json:"ratio"`
	MonthlyCost float64 `json:"monthlyCost"`
	RawMonthly  float64 `json:"rawMonthly"`

	CostPerHour *float64 `json:"costPerHour"` // per pool standard hour
	RawPerHour  *float64 `json:"rawPerHour"`

	PerDevRelHour    *float64 `json:"perDevRelHour"` // ratio * CostPerHour
	RawPerDevRelHour *float64 `json:"rawPerDevRelHour"`

	// ratio-scaled per-type overhead contribution per dev releasable hour
	OverheadPerDevRelHour map[model.OverheadTypeID]*float64 `json:"overheadPerDevRelHour,omitempty"`
}

// Result is the complete pricing output for one scenario evaluation.
type Result struct {
	Scenario *model.Scenario `json:"scenario,omitempty"`

	Stacks []StackPrice `json:"stacks"`
	QA     PoolAddOn    `json:"qa"`
	BA     PoolAddOn    `json:"ba"`

	Margin float64 `json:"margin"`
	Risk   float64 `json:"risk"`

	// ExchangeRatio is 0 when no secondary currency is configured.
	ExchangeRatio float64 `json:"exchangeRatio,omitempty"`
}

// Compute runs the pricing formula over the aggregated buckets.
func Compute(agg *aggregate.Aggregates, vals settings.Values, scenario *model.Scenario) *Result {
	result := &Result{
		Scenario: scenario,
		Margin:   vals.Get(settings.KeyMargin),
		Risk:     vals.Get(settings.KeyRisk),
		QA:       poolAddOn(agg.QA, vals.Get(settings.KeyQARatio), agg.StandardHours, agg),
		BA:       poolAddOn(agg.BA, vals.Get(settings.KeyBARatio), agg.StandardHours, agg),
	}
	if ratio, ok := vals.ExchangeRatio(); ok {
		result.ExchangeRatio = ratio
	}

	for _, sb := range agg.Stacks {
		result.Stacks = append(result.Stacks, StackPrice{
			StackID:   sb.Stack.ID,
			StackName: sb.Stack.Name,
			Dev:       track(sb.Dev, agg, &result.QA, &result.BA, result.Margin, result.Risk),
			Agentic:   track(sb.Agentic, agg, nil, nil, result.Margin, result.Risk),
		})
	}
	return result
}

// track prices one stack bucket. qa/ba are nil for the AGENTIC_AI track,
// which carries no pooled add-ons.
func track(b aggregate.Bucket, agg *aggregate.Aggregates, qa, ba *PoolAddOn, margin, risk float64) Track {
	t := Track{
		Empty:         b.Empty(),
		HoursCapacity: b.HoursCapacity(agg.DevReleasableHours),
	}
	t.CostPerRelHour = Div(b.MonthlyCost, t.HoursCapacity)
	t.RawPerRelHour = Div(b.RawMonthly, t.HoursCapacity)

	t.COGS = t.RawPerRelHour
	if qa != nil {
		t.COGS = Add(t.COGS, qa.RawPerDevRelHour)
	}
	if ba != nil {
		t.COGS = Add(t.COGS, ba.RawPerDevRelHour)
	}

	total := Ptr(0.0)
	for _, o := range agg.OverheadTypes {
		line := OverheadLine{
			TypeID: o.ID,
			Name:   o.Name,
			Dev:    Div(b.OverheadMonthly[o.ID], t.HoursCapacity),
		}
		line.PerRelHour = line.Dev
		if qa != nil {
			line.QA = qa.OverheadPerDevRelHour[o.ID]
			line.PerRelHour = Add(line.PerRelHour, line.QA)
		}
		if ba != nil {
			line.BA = ba.OverheadPerDevRelHour[o.ID]
			line.PerRelHour = Add(line.PerRelHour, line.BA)
		}
		t.Overheads = append(t.Overheads, line)
		total = Add(total, line.PerRelHour)
	}
	t.TotalOverheadsPerRelHour = total

	t.ReleasableCost = Add(t.COGS, t.TotalOverheadsPerRelHour)
	// Margin and risk apply sequentially so the breakdown tree's product
	// reduction reproduces the exact same float.
	t.FinalPrice = Mul(Mul(t.ReleasableCost, 1+margin), 1+risk)
	return t
}

func poolAddOn(b aggregate.Bucket, ratio, standardHours float64, agg *aggregate.Aggregates) PoolAddOn {
	p := PoolAddOn{
		Ratio:                 ratio,
		MonthlyCost:           b.MonthlyCost,
		RawMonthly:            b.RawMonthly,
		CostPerHour:           poolPerHour(b.MonthlyCost, standardHours, b.Empty()),
		RawPerHour:            poolPerHour(b.RawMonthly, standardHours, b.Empty()),
		OverheadPerDevRelHour: make(map[model.OverheadTypeID]*float64),
	}
	p.PerDevRelHour = Scale(ratio, p.CostPerHour)
	p.RawPerDevRelHour = Scale(ratio, p.RawPerHour)
	for _, o := range agg.OverheadTypes {
		perHour := poolPerHour(b.OverheadMonthly[o.ID], standardHours, b.Empty())
		p.OverheadPerDevRelHour[o.ID] = Scale(ratio, perHour)
	}
	return p
}

// poolPerHour divides a pool's monthly figure by the standard hour budget.
// An empty pool contributes a plain zero even when the hour budget is
// missing; a non-empty pool with no hour budget is unpriceable.
func poolPerHour(monthly, standardHours float64, empty bool) *float64 {
	if empty {
		return Ptr(0.0)
	}
	return Div(monthly, standardHours)
}

// Ptr returns a pointer to v.
func Ptr(v float64) *float64 {
	return &v
}

// Div returns num/den, or nil when den is not positive.
func Div(num, den float64) *float64 {
	if den <= 0 {
		return nil
	}
	return Ptr(num / den)
}

// Add adds two nullable values; nil poisons the sum.
func Add(a, b *float64) *float64 {
	if a == nil || b == nil {
		return nil
	}
	return Ptr(*a + *b)
}

// Mul multiplies a nullable value by a plain factor.
func Mul(a *float64, factor float64) *float64 {
	if a == nil {
		return nil
	}
	return Ptr(*a * factor)
}

// Scale multiplies a nullable value by a ratio. A zero ratio yields a plain
// zero even when the value itself is unpriceable, so switched-off add-ons
// never poison a stack price.
func Scale(ratio float64, v *float64) *float64 {
	if ratio == 0 {
		return Ptr(0.0)
	}
	if v == nil {
		return nil
	}
	return Ptr(ratio * *v)
}

// Pct returns component/total for relative-contribution display, nil when the
// total is nil or zero.
func Pct(component, total *float64) *float64 {
	if component == nil || total == nil || *total == 0 {
		return nil
	}
	return Ptr(*component / *total)
}

// InCurrency returns a copy of the result with every money value divided by
// the exchange ratio. Ratios, margin and risk are dimensionless and stay
// untouched. A non-positive ratio returns the result unchanged.
func (r *Result) InCurrency(ratio float64) *Result {
	if ratio <= 0 {
		return r
	}
	out := *r
	out.QA = r.QA.inCurrency(ratio)
	out.BA = r.BA.inCurrency(ratio)
	out.Stacks = make([]StackPrice, len(r.Stacks))
	for i, sp := range r.Stacks {
		sp.Dev = sp.Dev.inCurrency(ratio)
		sp.Agentic = sp.Agentic.inCurrency(ratio)
		out.Stacks[i] = sp
	}
	return &out
}

func (t Track) inCurrency(ratio float64) Track {
	t.CostPerRelHour = Mul(t.CostPerRelHour, 1/ratio)
	t.RawPerRelHour = Mul(t.RawPerRelHour, 1/ratio)
	t.COGS = Mul(t.COGS, 1/ratio)
	t.TotalOverheadsPerRelHour = Mul(t.TotalOverheadsPerRelHour, 1/ratio)
	t.ReleasableCost = Mul(t.ReleasableCost, 1/ratio)
	t.FinalPrice = Mul(t.FinalPrice, 1/ratio)
	lines := make([]OverheadLine, len(t.Overheads))
	for i, line := range t.Overheads {
		line.Dev = Mul(line.Dev, 1/ratio)
		line.QA = Mul(line.QA, 1/ratio)
		line.BA = Mul(line.BA, 1/ratio)
		line.PerRelHour = Mul(line.PerRelHour, 1/ratio)
		lines[i] = line
	}
	t.Overheads = lines
	return t
}

func (p PoolAddOn) inCurrency(ratio float64) PoolAddOn {
	p.MonthlyCost /= ratio
	p.RawMonthly /= ratio
	p.CostPerHour = Mul(p.CostPerHour, 1/ratio)
	p.RawPerHour = Mul(p.RawPerHour, 1/ratio)
	p.PerDevRelHour = Mul(p.PerDevRelHour, 1/ratio)
	p.RawPerDevRelHour = Mul(p.RawPerDevRelHour, 1/ratio)
	scaled := make(map[model.OverheadTypeID]*float64, len(p.OverheadPerDevRelHour))
	for id, v := range p.OverheadPerDevRelHour {
		scaled[id] = Mul(v, 1/ratio)
	}
	p.OverheadPerDevRelHour = scaled
	return p
}

// StackByID returns the price for one stack.
func (r *Result) StackByID(id model.StackID) (StackPrice, bool) {
	for _, sp := range r.Stacks {
		if sp.StackID == id {
			return sp, true
		}
	}
	return StackPrice{}, false
}
