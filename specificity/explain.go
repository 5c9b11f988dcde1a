package specificity

import (
	"fmt"
)

// Component identifies a position in the specificity tuple.
type Component int

const (
	ComponentInline Component = iota
	ComponentID
	ComponentClass
	ComponentElement
)

func (c Component) String() string {
	switch c {
	case ComponentInline:
		return "inline"
	case ComponentID:
		return "id"
	case ComponentClass:
		return "class"
	case ComponentElement:
		return "element"
	default:
		return fmt.Sprintf("Component(%d)", int(c))
	}
}

// Contribution is a single token that added weight to a component. For
// functional pseudo-classes Arguments holds explanation of every argument
// selector considered.
type Contribution struct {
	Component Component
	Token     string
	Weight    int
	Arguments []*Explanation
}

// Explanation breaks computed specificity down to contributing tokens.
type Explanation struct {
	Selector      string
	Specificity   Specificity
	Contributions []Contribution
	// Truncated is set when recursion limit stopped the computation.
	Truncated bool
}

func (ex *Explanation) add(c Component, token string, weight int, args ...*Explanation) {
	if ex == nil {
		return
	}
	ex.Contributions = append(ex.Contributions, Contribution{
		Component: c,
		Token:     token,
		Weight:    weight,
		Arguments: args,
	})
}

// Explain computes specificity exactly as Compute does and records which
// tokens produced it.
func (c *Calculator) Explain(selector string) *Explanation {
	ex := &Explanation{}
	c.compute(selector, 0, ex)
	return ex
}

// Of returns contributions to a single component in discovery order.
func (ex *Explanation) Of(c Component) []Contribution {
	var out []Contribution
	for _, contrib := range ex.Contributions {
		if contrib.Component == c {
			out = append(out, contrib)
		}
	}
	return out
}
