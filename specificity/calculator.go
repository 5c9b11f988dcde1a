package specificity

import (
	"strings"
)

// DefaultMaxDepth bounds recursion into functional pseudo-class arguments.
// Real selectors rarely nest deeper than two or three levels.
const DefaultMaxDepth = 32

// Calculator computes specificity of selectors and compares it against a
// threshold fixed at construction time. It holds no mutable state and is
// safe for concurrent use.
type Calculator struct {
	threshold Specificity
	split     SplitMode
	maxDepth  int
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithSplitMode selects how functional pseudo-class arguments are split.
func WithSplitMode(mode SplitMode) Option {
	return func(c *Calculator) {
		if mode.IsValid() {
			c.split = mode
		}
	}
}

// WithMaxDepth changes recursion limit, non-positive values are ignored.
func WithMaxDepth(depth int) Option {
	return func(c *Calculator) {
		if depth > 0 {
			c.maxDepth = depth
		}
	}
}

// NewCalculator returns calculator flagging selectors above threshold.
func NewCalculator(threshold Specificity, opts ...Option) *Calculator {
	c := &Calculator{
		threshold: threshold,
		split:     SplitModeNaive,
		maxDepth:  DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Threshold returns configured threshold.
func (c *Calculator) Threshold() Specificity {
	return c.threshold
}

// SplitMode returns configured argument splitting mode.
func (c *Calculator) SplitMode() SplitMode {
	return c.split
}

// IsHigh reports whether spec exceeds calculator threshold.
func (c *Calculator) IsHigh(spec Specificity) bool {
	return Exceeds(spec, c.threshold)
}

// Compute returns specificity of a single selector. It never fails: malformed
// input yields a best-effort, possibly all zero, result.
func (c *Calculator) Compute(selector string) Specificity {
	return c.compute(selector, 0, nil)
}

func (c *Calculator) compute(selector string, depth int, ex *Explanation) Specificity {
	if ex != nil {
		ex.Selector = selector
	}
	if strings.Contains(strings.ToLower(selector), inlineStyleToken) {
		if ex != nil {
			ex.add(ComponentInline, inlineStyleToken, 1)
			ex.Specificity = Inline
		}
		return Inline
	}
	if depth > c.maxDepth {
		if ex != nil {
			ex.Truncated = true
		}
		return Specificity{}
	}

	cleaned := stripStrings(selector)
	spans := functionalSpans(cleaned, c.split)

	// Functional arguments contribute only through the rules below, except
	// ids which count everywhere outside :where().
	outer := maskFunctional(cleaned, spans)
	masked := attributeRE.ReplaceAllLiteralString(outer, "")

	var spec Specificity
	for _, id := range idRE.FindAllString(attributeRE.ReplaceAllLiteralString(stripWhere(cleaned, c.split), ""), -1) {
		spec.ID++
		ex.add(ComponentID, id, 1)
	}

	for _, attr := range attributeRE.FindAllString(outer, -1) {
		spec.Class++
		ex.add(ComponentClass, attr, 1)
	}
	for _, class := range classRE.FindAllString(masked, -1) {
		spec.Class++
		ex.add(ComponentClass, class, 1)
	}
	for _, m := range pseudoRE.FindAllStringSubmatchIndex(masked, -1) {
		name := strings.ToLower(masked[m[2]:m[3]])
		doubleColon := m[0] > 0 && masked[m[0]-1] == ':'
		switch {
		case pseudoElements[name]:
			spec.Element++
			ex.add(ComponentElement, masked[m[0]:m[1]], 1)
		case functional[name], doubleColon:
			// counted through arguments or not a pseudo-class at all
		default:
			spec.Class++
			ex.add(ComponentClass, masked[m[0]:m[1]], 1)
		}
	}
	spec.Class += c.functionalWeight(cleaned, spans, depth, ex)

	for _, el := range typeSelectors(argumentRE.ReplaceAllLiteralString(masked, "")) {
		spec.Element++
		ex.add(ComponentElement, el, 1)
	}

	if ex != nil {
		ex.Specificity = spec
	}
	return spec
}

// functionalWeight applies recursive rules: :not adds class weight of its
// argument, :is and :has add the largest class weight among arguments and
// :where adds nothing.
func (c *Calculator) functionalWeight(s string, spans []span, depth int, ex *Explanation) int {
	total := 0
	for _, sp := range spans {
		token := s[sp.start:sp.end]
		switch sp.name {
		case "not":
			var sub *Explanation
			if ex != nil {
				sub = &Explanation{}
			}
			w := c.compute(strings.TrimSpace(sp.arg(s)), depth+1, sub).Class
			total += w
			ex.add(ComponentClass, token, w, sub)
		case "is", "has":
			var subs []*Explanation
			best := 0
			for _, arg := range c.splitArgs(sp.arg(s)) {
				var sub *Explanation
				if ex != nil {
					sub = &Explanation{}
					subs = append(subs, sub)
				}
				best = max(best, c.compute(arg, depth+1, sub).Class)
			}
			total += best
			ex.add(ComponentClass, token, best, subs...)
		case "where":
			ex.add(ComponentClass, token, 0)
		}
	}
	return total
}

// splitArgs keeps empty candidates out, an empty argument list has no
// candidates and weighs zero.
func (c *Calculator) splitArgs(args string) []string {
	return SplitList(args, c.split)
}

// typeSelectors returns bare element names of every combinator delimited
// segment once ids, classes, attributes and pseudo-classes are stripped.
func typeSelectors(s string) []string {
	var out []string
	for _, part := range combinatorRE.Split(s, -1) {
		el := idRE.ReplaceAllLiteralString(part, "")
		el = classRE.ReplaceAllLiteralString(el, "")
		el = attributeRE.ReplaceAllLiteralString(el, "")
		el = pseudoStripRE.ReplaceAllLiteralString(el, "")
		el = strings.TrimSpace(el)
		if el == "" || !elementStartRE.MatchString(el) {
			continue
		}
		out = append(out, el)
	}
	return out
}
