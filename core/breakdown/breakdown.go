// Package breakdown constructs audit trees explaining every pricing output in
// terms of its inputs. Nodes carry a closed set of operation kinds so the
// invariant "a parent's result equals the reduction of its children" is
// mechanically checkable rather than asserted by a formula string.
//
// Construction is lazy: a caller asks for one key on one stack and only that
// subtree is built, which keeps UI drill-down cheap.
package breakdown

import (
	"teamrate/core/pricing"
)

// Op is the operation kind of a node.
type Op int

const (
	// OpLeaf is a plain input value with no children.
	OpLeaf Op = iota

	// OpSum adds all children. An empty sum is zero.
	OpSum

	// OpProduct multiplies all children.
	OpProduct

	// OpRatio divides the first child by the second.
	OpRatio
)

// String returns the operation name.
func (o Op) String() string {
	switch o {
	case OpLeaf:
		return "leaf"
	case OpSum:
		return "sum"
	case OpProduct:
		return "product"
	case OpRatio:
		return "ratio"
	default:
		return "unknown"
	}
}

// MarshalJSON renders the op as its name.
func (o Op) MarshalJSON() ([]byte, error) {
	return []byte(`"` + o.String() + `"`), nil
}

// Node is one step of a pricing computation. Result is nil when the value is
// not computable (zero capacity upstream); nil propagates through Reduce the
// same way it propagates through the pricing engine.
type Node struct {
	Key     string   `json:"key"`
	Label   string   `json:"label"`
	Op      Op       `json:"op"`
	Formula string   `json:"formula"`
	Result  *float64 `json:"result"`
	Inputs  []*Node  `json:"inputs,omitempty"`
}

// Reduce recomputes the node's value from its children according to its
// operation kind. For every node the builder produces, Reduce equals Result.
func (n *Node) Reduce() *float64 {
	switch n.Op {
	case OpLeaf:
		return n.Result
	case OpSum:
		total := pricing.Ptr(0.0)
		for _, in := range n.Inputs {
			total = pricing.Add(total, in.Reduce())
		}
		return total
	case OpProduct:
		product := pricing.Ptr(1.0)
		for _, in := range n.Inputs {
			child := in.Reduce()
			if child == nil {
				return nil
			}
			product = pricing.Ptr(*product * *child)
		}
		return product
	case OpRatio:
		if len(n.Inputs) != 2 {
			return nil
		}
		num := n.Inputs[0].Reduce()
		den := n.Inputs[1].Reduce()
		if num == nil || den == nil {
			return nil
		}
		return pricing.Div(*num, *den)
	default:
		return nil
	}
}

func leaf(key, label, formula string, result *float64) *Node {
	return &Node{Key: key, Label: label, Op: OpLeaf, Formula: formula, Result: result}
}

// node builds a non-leaf and fixes its result to its own reduction, which is
// what makes the invariant hold by construction.
func node(key, label string, op Op, formula string, inputs ...*Node) *Node {
	n := &Node{Key: key, Label: label, Op: op, Formula: formula, Inputs: inputs}
	n.Result = n.Reduce()
	return n
}
