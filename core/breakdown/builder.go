package breakdown

import (
	"fmt"
	"strings"

	"teamrate/core/aggregate"
	"teamrate/core/model"
	"teamrate/core/pricing"
	"teamrate/core/settings"
	"teamrate/internal/errors"
)

// Stable breakdown keys. Keys carrying an overhead type are written
// "<key>:<overheadTypeId>".
const (
	KeyDevRawHr                = "dev_raw_hr"
	KeyDevHr                   = "dev_hr"
	KeyAgenticRawHr            = "agentic_raw_hr"
	KeyAgenticHr               = "agentic_hr"
	KeyQAHr                    = "qa_hr"
	KeyQARawHr                 = "qa_raw_hr"
	KeyBAHr                    = "ba_hr"
	KeyBARawHr                 = "ba_raw_hr"
	KeyDevOverheadHr           = "dev_overhead_hr"
	KeyAgenticOverheadHr       = "agentic_overhead_hr"
	KeyOverheadHr              = "overhead_hr"
	KeyTotalOverheadsHr        = "total_overheads_hr"
	KeyAgenticTotalOverheadsHr = "agentic_total_overheads_hr"
	KeyReleasableCostHr        = "total_releaseable_cost_hr"
	KeyAgenticReleasableCostHr = "agentic_releaseable_cost_hr"
	KeyFinalPriceHr            = "final_price_hr"
	KeyAgenticFinalPriceHr     = "agentic_final_price_hr"
)

// Builder constructs breakdown trees over one evaluated dataset. It holds
// only read-only aggregates, so one builder serves concurrent callers.
type Builder struct {
	agg  *aggregate.Aggregates
	vals settings.Values
}

// NewBuilder creates a builder over the aggregated buckets of one evaluation.
func NewBuilder(agg *aggregate.Aggregates, vals settings.Values) *Builder {
	return &Builder{agg: agg, vals: vals}
}

// Build returns the breakdown subtree for one key on one stack. Only the
// requested subtree is constructed.
func (b *Builder) Build(stackID model.StackID, key string) (*Node, error) {
	sb, ok := b.agg.StackByID(stackID)
	if !ok {
		return nil, errors.Newf(errors.TypeNotFound, "unknown stack %q", string(stackID))
	}

	base, typeID := splitKey(key)
	switch base {
	case KeyDevRawHr:
		return b.rawPerHour(sb.Dev, "dev"), nil
	case KeyAgenticRawHr:
		return b.rawPerHour(sb.Agentic, "agentic"), nil
	case KeyDevHr:
		return b.loadedPerHour(sb.Dev, "dev"), nil
	case KeyAgenticHr:
		return b.loadedPerHour(sb.Agentic, "agentic"), nil
	case KeyQAHr:
		return b.poolAddOn(b.agg.QA, b.vals.Get(settings.KeyQARatio), "qa", false), nil
	case KeyQARawHr:
		return b.poolAddOn(b.agg.QA, b.vals.Get(settings.KeyQARatio), "qa", true), nil
	case KeyBAHr:
		return b.poolAddOn(b.agg.BA, b.vals.Get(settings.KeyBARatio), "ba", false), nil
	case KeyBARawHr:
		return b.poolAddOn(b.agg.BA, b.vals.Get(settings.KeyBARatio), "ba", true), nil
	case KeyDevOverheadHr:
		o, err := b.overheadType(typeID)
		if err != nil {
			return nil, err
		}
		return b.bucketOverhead(sb.Dev, o, "dev"), nil
	case KeyAgenticOverheadHr:
		o, err := b.overheadType(typeID)
		if err != nil {
			return nil, err
		}
		return b.bucketOverhead(sb.Agentic, o, "agentic"), nil
	case KeyOverheadHr:
		o, err := b.overheadType(typeID)
		if err != nil {
			return nil, err
		}
		return b.overheadLine(sb, o), nil
	case KeyTotalOverheadsHr:
		return b.totalOverheads(sb), nil
	case KeyAgenticTotalOverheadsHr:
		return b.agenticTotalOverheads(sb), nil
	case KeyReleasableCostHr:
		return b.releasableCost(sb), nil
	case KeyAgenticReleasableCostHr:
		return b.agenticReleasableCost(sb), nil
	case KeyFinalPriceHr:
		return b.finalPrice(sb), nil
	case KeyAgenticFinalPriceHr:
		return b.agenticFinalPrice(sb), nil
	default:
		return nil, errors.Newf(errors.TypeNotFound, "unknown breakdown key %q", key)
	}
}

func splitKey(key string) (base, typeID string) {
	if i := strings.IndexByte(key, ':'); i >= 0 {
		return key[:i], key[i+1:]
	}
	return key, ""
}

func (b *Builder) overheadType(id string) (model.OverheadType, error) {
	for _, o := range b.agg.OverheadTypes {
		if string(o.ID) == id {
			return o.OverheadType, nil
		}
	}
	return model.OverheadType{}, errors.Newf(errors.TypeNotFound, "unknown active overhead type %q", id)
}

// members renders a bucket's per-employee leaves; raw selects the
// overhead-exclusive figure.
func members(bucket aggregate.Bucket, raw bool) []*Node {
	nodes := make([]*Node, 0, len(bucket.Members))
	for _, m := range bucket.Members {
		value := m.Monthly
		formula := "fullyLoadedMonthly"
		if raw {
			value = m.Raw
			formula = "rawMonthly"
		}
		nodes = append(nodes, leaf("employee:"+string(m.ID), m.Name, formula, pricing.Ptr(value)))
	}
	return nodes
}

func (b *Builder) capacity(bucket aggregate.Bucket, prefix string) *Node {
	fteLeaves := make([]*Node, 0, len(bucket.Members))
	for _, m := range bucket.Members {
		fteLeaves = append(fteLeaves, leaf("employee_fte:"+string(m.ID), m.Name, "fte", pricing.Ptr(m.FTE)))
	}
	fte := node(prefix+"_fte", "FTE total", OpSum, "sum(fte)", fteLeaves...)
	hours := leaf(string(settings.KeyDevReleasableHours), "releasable hours per month", "setting",
		pricing.Ptr(b.agg.DevReleasableHours))
	return node(prefix+"_hours_capacity", "hour capacity", OpProduct,
		"devReleasableHoursPerMonth * fteTotal", hours, fte)
}

func (b *Builder) rawPerHour(bucket aggregate.Bucket, prefix string) *Node {
	monthly := node(prefix+"_raw_monthly", "raw monthly cost", OpSum, "sum(rawMonthly)", members(bucket, true)...)
	return node(prefix+"_raw_hr", "raw cost per releasable hour", OpRatio,
		fmt.Sprintf("%sRawMonthly / %sHoursCapacity", prefix, prefix),
		monthly, b.capacity(bucket, prefix))
}

func (b *Builder) loadedPerHour(bucket aggregate.Bucket, prefix string) *Node {
	monthly := node(prefix+"_monthly", "fully loaded monthly cost", OpSum,
		"sum(fullyLoadedMonthly)", members(bucket, false)...)
	return node(prefix+"_hr", "fully loaded cost per releasable hour", OpRatio,
		fmt.Sprintf("%sMonthlyCost / %sHoursCapacity", prefix, prefix),
		monthly, b.capacity(bucket, prefix))
}

// poolPerHour mirrors pricing.poolPerHour: an empty pool is a plain zero.
func (b *Builder) poolPerHour(bucket aggregate.Bucket, prefix string, raw bool) *Node {
	suffix := "_cost_hr"
	if raw {
		suffix = "_raw_cost_hr"
	}
	if bucket.Empty() {
		return leaf(prefix+suffix, "no employees in pool", "0", pricing.Ptr(0.0))
	}
	monthly := node(prefix+"_monthly", "pool monthly cost", OpSum,
		"sum(monthly)", members(bucket, raw)...)
	hours := leaf(string(settings.KeyStandardHours), "standard hours per month", "setting",
		pricing.Ptr(b.agg.StandardHours))
	return node(prefix+suffix, "pool cost per standard hour", OpRatio,
		prefix+"MonthlyCost / standardHoursPerMonth", monthly, hours)
}

// poolAddOn is the ratio-scaled pool contribution per dev releasable hour.
// A zero ratio short-circuits to a zero leaf so a disabled add-on cannot be
// poisoned by an unpriceable pool.
func (b *Builder) poolAddOn(bucket aggregate.Bucket, ratio float64, prefix string, raw bool) *Node {
	key := prefix + "_hr"
	if raw {
		key = prefix + "_raw_hr"
	}
	if ratio == 0 {
		return leaf(key, "add-on disabled", "0", pricing.Ptr(0.0))
	}
	ratioLeaf := leaf(prefix+"_ratio", prefix+" ratio", "setting", pricing.Ptr(ratio))
	return node(key, prefix+" add-on per releasable hour", OpProduct,
		prefix+"Ratio * "+prefix+"CostPerHour", ratioLeaf, b.poolPerHour(bucket, prefix, raw))
}

func (b *Builder) bucketOverhead(bucket aggregate.Bucket, o model.OverheadType, prefix string) *Node {
	monthly := leaf(prefix+"_overhead_monthly:"+string(o.ID), o.Name+" allocated monthly",
		"sum(monthlyEquivalent * share)", pricing.Ptr(bucket.OverheadMonthly[o.ID]))
	return node(prefix+"_overhead_hr:"+string(o.ID), o.Name+" per releasable hour", OpRatio,
		"allocatedOverheadMonthly / "+prefix+"HoursCapacity",
		monthly, b.capacity(bucket, prefix))
}

// poolOverhead is one pool's ratio-scaled per-type contribution.
func (b *Builder) poolOverhead(bucket aggregate.Bucket, ratio float64, o model.OverheadType, prefix string) *Node {
	key := prefix + "_overhead_hr:" + string(o.ID)
	if ratio == 0 {
		return leaf(key, "add-on disabled", "0", pricing.Ptr(0.0))
	}
	var perHour *Node
	if bucket.Empty() {
		perHour = leaf(prefix+"_overhead_cost_hr:"+string(o.ID), "no employees in pool", "0", pricing.Ptr(0.0))
	} else {
		monthly := leaf(prefix+"_overhead_monthly:"+string(o.ID), o.Name+" allocated monthly",
			"sum(monthlyEquivalent * share)", pricing.Ptr(bucket.OverheadMonthly[o.ID]))
		hours := leaf(string(settings.KeyStandardHours), "standard hours per month", "setting",
			pricing.Ptr(b.agg.StandardHours))
		perHour = node(prefix+"_overhead_cost_hr:"+string(o.ID), o.Name+" per standard hour", OpRatio,
			"allocatedOverheadMonthly / standardHoursPerMonth", monthly, hours)
	}
	ratioLeaf := leaf(prefix+"_ratio", prefix+" ratio", "setting", pricing.Ptr(ratio))
	return node(key, o.Name+" via "+prefix+" pool", OpProduct,
		prefix+"Ratio * overheadPerStandardHour", ratioLeaf, perHour)
}

func (b *Builder) overheadLine(sb aggregate.StackBuckets, o model.OverheadType) *Node {
	return node("overhead_hr:"+string(o.ID), o.Name+" per releasable hour", OpSum,
		"devShare + qaShare + baShare",
		b.bucketOverhead(sb.Dev, o, "dev"),
		b.poolOverhead(b.agg.QA, b.vals.Get(settings.KeyQARatio), o, "qa"),
		b.poolOverhead(b.agg.BA, b.vals.Get(settings.KeyBARatio), o, "ba"))
}

func (b *Builder) totalOverheads(sb aggregate.StackBuckets) *Node {
	lines := make([]*Node, 0, len(b.agg.OverheadTypes))
	for _, o := range b.agg.OverheadTypes {
		lines = append(lines, b.overheadLine(sb, o.OverheadType))
	}
	return node(KeyTotalOverheadsHr, "total overheads per releasable hour", OpSum,
		"sum(overheadPerRelHour)", lines...)
}

func (b *Builder) agenticTotalOverheads(sb aggregate.StackBuckets) *Node {
	lines := make([]*Node, 0, len(b.agg.OverheadTypes))
	for _, o := range b.agg.OverheadTypes {
		lines = append(lines, b.bucketOverhead(sb.Agentic, o.OverheadType, "agentic"))
	}
	return node(KeyAgenticTotalOverheadsHr, "total overheads per releasable hour", OpSum,
		"sum(overheadPerRelHour)", lines...)
}

func (b *Builder) releasableCost(sb aggregate.StackBuckets) *Node {
	return node(KeyReleasableCostHr, "releasable cost per hour", OpSum,
		"devRawPerRelHour + qaAddOn + baAddOn + totalOverheadsPerRelHour",
		b.rawPerHour(sb.Dev, "dev"),
		b.poolAddOn(b.agg.QA, b.vals.Get(settings.KeyQARatio), "qa", true),
		b.poolAddOn(b.agg.BA, b.vals.Get(settings.KeyBARatio), "ba", true),
		b.totalOverheads(sb))
}

func (b *Builder) agenticReleasableCost(sb aggregate.StackBuckets) *Node {
	return node(KeyAgenticReleasableCostHr, "releasable cost per hour", OpSum,
		"agenticRawPerRelHour + totalOverheadsPerRelHour",
		b.rawPerHour(sb.Agentic, "agentic"),
		b.agenticTotalOverheads(sb))
}

func (b *Builder) finalPrice(sb aggregate.StackBuckets) *Node {
	margin := leaf(string(settings.KeyMargin), "1 + margin", "setting",
		pricing.Ptr(1+b.vals.Get(settings.KeyMargin)))
	risk := leaf(string(settings.KeyRisk), "1 + risk", "setting",
		pricing.Ptr(1+b.vals.Get(settings.KeyRisk)))
	return node(KeyFinalPriceHr, "final price per hour", OpProduct,
		"releasableCost * (1 + margin) * (1 + risk)",
		b.releasableCost(sb), margin, risk)
}

func (b *Builder) agenticFinalPrice(sb aggregate.StackBuckets) *Node {
	margin := leaf(string(settings.KeyMargin), "1 + margin", "setting",
		pricing.Ptr(1+b.vals.Get(settings.KeyMargin)))
	risk := leaf(string(settings.KeyRisk), "1 + risk", "setting",
		pricing.Ptr(1+b.vals.Get(settings.KeyRisk)))
	return node(KeyAgenticFinalPriceHr, "final price per hour", OpProduct,
		"releasableCost * (1 + margin) * (1 + risk)",
		b.agenticReleasableCost(sb), margin, risk)
}
