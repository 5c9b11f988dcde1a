package report_test

import (
	"errors"
	"testing"

	"cssspec/css"
	"cssspec/report"
	"cssspec/specificity"
)

func TestAnalyzeStylesheet_EndToEnd(t *testing.T) {
	text := "#id .a .b .c { color: red; }\ndiv { margin: 0; }"
	ext := css.NewTextualExtractor(specificity.SplitModeNaive, nil)

	tests := []struct {
		name      string
		threshold specificity.Specificity
		wantHigh  int
	}{
		{"default threshold tie broken by elements", specificity.DefaultThreshold, 0},
		{"lower threshold", specificity.Specificity{ID: 1, Class: 2}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := specificity.NewCalculator(tt.threshold)
			r := report.AnalyzeStylesheet(text, "styles.css", calc, ext)

			if r.Total != 2 {
				t.Errorf("Total = %d, want 2", r.Total)
			}
			if r.HighCount != tt.wantHigh {
				t.Errorf("HighCount = %d, want %d", r.HighCount, tt.wantHigh)
			}
			if len(r.High()) != tt.wantHigh {
				t.Errorf("len(High()) = %d, want %d", len(r.High()), tt.wantHigh)
			}
			if r.Source != "styles.css" {
				t.Errorf("Source = %q", r.Source)
			}
			if r.Threshold != specificity.Format(tt.threshold) {
				t.Errorf("Threshold = %q, want %q", r.Threshold, specificity.Format(tt.threshold))
			}
			if r.Selectors[0].Specificity != "0,1,3,0" {
				t.Errorf("first selector specificity = %q, want 0,1,3,0", r.Selectors[0].Specificity)
			}
			if r.Selectors[1].Selector != "div" {
				t.Errorf("second selector = %q, want div", r.Selectors[1].Selector)
			}
		})
	}
}

func TestAnalyzeSelector(t *testing.T) {
	calc := specificity.NewCalculator(specificity.DefaultThreshold)

	rec := report.AnalyzeSelector("#a #b", calc)
	if rec.Specificity != "0,2,0,0" {
		t.Errorf("Specificity = %q, want 0,2,0,0", rec.Specificity)
	}
	if rec.Tuple != [4]int{0, 2, 0, 0} {
		t.Errorf("Tuple = %v", rec.Tuple)
	}
	if !rec.IsHigh {
		t.Error("IsHigh = false, want true")
	}
	if rec.Threshold != "0,1,3,3" {
		t.Errorf("Threshold = %q", rec.Threshold)
	}
	if rec.Value() != (specificity.Specificity{ID: 2}) {
		t.Errorf("Value() = %v", rec.Value())
	}
}

func TestAnalyzeInline(t *testing.T) {
	calc := specificity.NewCalculator(specificity.DefaultThreshold)

	r := report.AnalyzeInline([]string{"color:red", "margin: 0"}, "index.html", calc)
	if r.Total != 2 || r.HighCount != 2 {
		t.Fatalf("Total = %d, HighCount = %d, want 2 and 2", r.Total, r.HighCount)
	}
	for _, rec := range r.Selectors {
		if rec.Specificity != "1,0,0,0" {
			t.Errorf("%q specificity = %q, want 1,0,0,0", rec.Selector, rec.Specificity)
		}
	}
}

func TestFailed(t *testing.T) {
	r := report.Failed("missing.css", errors.New("no such file"))
	if !r.Failed() {
		t.Fatal("Failed() = false")
	}
	if r.Error != "no such file" || r.Total != 0 || r.Selectors == nil {
		t.Errorf("unexpected failed report %+v", r)
	}
}

func TestBuilder(t *testing.T) {
	calc := specificity.NewCalculator(specificity.DefaultThreshold)
	b := report.NewBuilder("page.html", calc)

	b.AddStylesheet(".a { } #x #y { }", css.NewTextualExtractor(specificity.SplitModeNaive, nil))
	b.AddInline("color: red")
	first := b.Build()

	if first.Total != 3 || first.HighCount != 2 {
		t.Fatalf("Total = %d, HighCount = %d, want 3 and 2", first.Total, first.HighCount)
	}

	b.Add("p")
	second := b.Build()
	if first.Total != 3 {
		t.Error("Build() result changed after further Add")
	}
	if second.Total != 4 {
		t.Errorf("second Total = %d, want 4", second.Total)
	}

	empty := report.NewBuilder("empty.css", calc).Build()
	if empty.Selectors == nil || empty.Total != 0 {
		t.Errorf("empty report = %+v", empty)
	}
}

func TestWithRegressions(t *testing.T) {
	calc := specificity.NewCalculator(specificity.DefaultThreshold)
	r := report.AnalyzeInline([]string{"color:red"}, "a.html", calc)

	withReg := r.WithRegressions(r.Selectors)
	if len(r.Regressions) != 0 {
		t.Error("original report modified")
	}
	if len(withReg.Regressions) != 1 {
		t.Errorf("len(Regressions) = %d, want 1", len(withReg.Regressions))
	}
}

func TestSummarize(t *testing.T) {
	calc := specificity.NewCalculator(specificity.DefaultThreshold)
	ok := report.AnalyzeStylesheet(".a { }", "a.css", calc, css.NewTextualExtractor(specificity.SplitModeNaive, nil))
	high := report.AnalyzeInline([]string{"color:red"}, "b.html", calc)
	failed := report.Failed("c.css", errors.New("boom"))

	s := report.Summarize(ok, high, failed)
	want := report.Summary{Sources: 3, Failed: 1, Selectors: 2, High: 1}
	if s != want {
		t.Errorf("Summarize() = %+v, want %+v", s, want)
	}
	if s.Clean() {
		t.Error("Clean() = true, want false")
	}
	if !report.Summarize(ok).Clean() {
		t.Error("Clean() = false for report without findings")
	}
}

func TestHighOnly(t *testing.T) {
	calc := specificity.NewCalculator(specificity.Specificity{ID: 1, Class: 2})
	r := report.AnalyzeStylesheet("#id .a .b .c, div { }", "a.css", calc, css.NewTextualExtractor(specificity.SplitModeNaive, nil))

	high := r.HighOnly()
	if len(high.Selectors) != 1 || high.Selectors[0].Selector != "#id .a .b .c" {
		t.Errorf("HighOnly().Selectors = %+v", high.Selectors)
	}
	if high.Total != 2 || high.HighCount != 1 {
		t.Errorf("HighOnly() counters = %d/%d, want 2/1", high.Total, high.HighCount)
	}
	if len(r.Selectors) != 2 {
		t.Error("original report modified")
	}

	none := report.AnalyzeStylesheet(".a { }", "b.css", calc, css.NewTextualExtractor(specificity.SplitModeNaive, nil)).HighOnly()
	if none.Selectors == nil || len(none.Selectors) != 0 {
		t.Errorf("HighOnly() without high selectors = %#v, want empty list", none.Selectors)
	}
}
