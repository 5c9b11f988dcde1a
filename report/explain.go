package report

import (
	"cssspec/specificity"
	"cssspec/utils/debug"
)

// Explain renders explanation as indented tree listing every contributing
// token, arguments of functional pseudo-classes are nested below them.
func Explain(ex *specificity.Explanation) string {
	tw := debug.NewTreeWriter()
	explain(tw, 0, ex)
	return tw.String()
}

func explain(tw *debug.TreeWriter, depth int, ex *specificity.Explanation) {
	tw.Field(depth, "selector", ex.Selector)
	tw.Line(depth+1, "specificity %s", ex.Specificity)
	if ex.Truncated {
		tw.Line(depth+1, "nesting too deep, not counted")
		return
	}
	for _, c := range ex.Contributions {
		tw.Line(depth+1, "%-7s +%d %s", c.Component, c.Weight, c.Token)
		for _, arg := range c.Arguments {
			explain(tw, depth+2, arg)
		}
	}
}
