package specificity_test

import (
	"testing"

	"cssspec/specificity"
)

func tokens(cs []specificity.Contribution) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Token)
	}
	return out
}

func TestCalculator_Explain(t *testing.T) {
	calc := specificity.NewCalculator(specificity.DefaultThreshold)

	t.Run("matches compute", func(t *testing.T) {
		for _, sel := range []string{"#nav .menu li a", ":is(.a, #b)", "a:not(:hover)::after", `style="x"`} {
			ex := calc.Explain(sel)
			if ex.Specificity != calc.Compute(sel) {
				t.Errorf("Explain(%q).Specificity = %v, Compute = %v", sel, ex.Specificity, calc.Compute(sel))
			}
			if ex.Selector != sel {
				t.Errorf("Explain(%q).Selector = %q", sel, ex.Selector)
			}
		}
	})

	t.Run("tokens", func(t *testing.T) {
		ex := calc.Explain("#nav .menu li a")

		if got := tokens(ex.Of(specificity.ComponentID)); len(got) != 1 || got[0] != "#nav" {
			t.Errorf("id tokens = %q, want [#nav]", got)
		}
		if got := tokens(ex.Of(specificity.ComponentClass)); len(got) != 1 || got[0] != ".menu" {
			t.Errorf("class tokens = %q, want [.menu]", got)
		}
		if got := tokens(ex.Of(specificity.ComponentElement)); len(got) != 2 || got[0] != "li" || got[1] != "a" {
			t.Errorf("element tokens = %q, want [li a]", got)
		}
	})

	t.Run("functional arguments", func(t *testing.T) {
		ex := calc.Explain(":is(.a, #b)")

		var is *specificity.Contribution
		for i, c := range ex.Contributions {
			if c.Token == ":is(.a, #b)" {
				is = &ex.Contributions[i]
			}
		}
		if is == nil {
			t.Fatalf("no contribution for :is(), got %q", tokens(ex.Contributions))
		}
		if is.Weight != 1 {
			t.Errorf(":is() weight = %d, want 1", is.Weight)
		}
		if len(is.Arguments) != 2 {
			t.Fatalf(":is() has %d explained arguments, want 2", len(is.Arguments))
		}
		if is.Arguments[0].Specificity != spec(0, 0, 1, 0) || is.Arguments[1].Specificity != spec(0, 1, 0, 0) {
			t.Errorf(":is() arguments = %v, %v", is.Arguments[0].Specificity, is.Arguments[1].Specificity)
		}
	})

	t.Run("truncated", func(t *testing.T) {
		shallow := specificity.NewCalculator(specificity.DefaultThreshold,
			specificity.WithSplitMode(specificity.SplitModeNested), specificity.WithMaxDepth(1))
		ex := shallow.Explain(":not(:not(:not(.a)))")

		inner := ex.Contributions[0].Arguments[0].Contributions[0].Arguments[0]
		if !inner.Truncated {
			t.Error("expected innermost explanation to be truncated")
		}
	})

	t.Run("component names", func(t *testing.T) {
		if specificity.ComponentElement.String() != "element" || specificity.Component(9).String() != "Component(9)" {
			t.Error("unexpected component names")
		}
	})
}
