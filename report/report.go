// Package report turns extracted selectors into analysis reports and renders
// them for people and machines.
package report

import (
	"slices"

	"cssspec/css"
	"cssspec/specificity"
)

// Record is analysis of a single selector.
type Record struct {
	Selector    string `json:"selector" yaml:"selector"`
	Specificity string `json:"specificity" yaml:"specificity"`
	Tuple       [4]int `json:"specificity_tuple" yaml:"specificity_tuple,flow"`
	IsHigh      bool   `json:"is_high" yaml:"is_high"`
	Threshold   string `json:"threshold" yaml:"threshold"`
}

// Value returns computed specificity.
func (r Record) Value() specificity.Specificity {
	return specificity.Specificity{Inline: r.Tuple[0], ID: r.Tuple[1], Class: r.Tuple[2], Element: r.Tuple[3]}
}

// Report is analysis of a single source. It is never modified once returned
// by one of the Analyze functions or a Builder.
type Report struct {
	Source      string   `json:"file" yaml:"file"`
	Total       int      `json:"total_selectors" yaml:"total_selectors"`
	HighCount   int      `json:"high_specificity_count" yaml:"high_specificity_count"`
	Threshold   string   `json:"threshold" yaml:"threshold"`
	Selectors   []Record `json:"selectors" yaml:"selectors"`
	Regressions []Record `json:"regressions,omitempty" yaml:"regressions,omitempty"`
	Error       string   `json:"error,omitempty" yaml:"error,omitempty"`
}

// AnalyzeSelector computes specificity of selector and compares it with
// calculator threshold.
func AnalyzeSelector(selector string, calc *specificity.Calculator) Record {
	spec := calc.Compute(selector)
	return Record{
		Selector:    selector,
		Specificity: specificity.Format(spec),
		Tuple:       spec.Tuple(),
		IsHigh:      calc.IsHigh(spec),
		Threshold:   specificity.Format(calc.Threshold()),
	}
}

// AnalyzeStylesheet extracts selectors from text and analyzes every one of
// them in source order.
func AnalyzeStylesheet(text, source string, calc *specificity.Calculator, ext css.Extractor) *Report {
	b := NewBuilder(source, calc)
	b.AddStylesheet(text, ext)
	return b.Build()
}

// AnalyzeInline analyzes style attribute declarations, every one of them has
// inline specificity.
func AnalyzeInline(declarations []string, source string, calc *specificity.Calculator) *Report {
	b := NewBuilder(source, calc)
	for _, decl := range declarations {
		b.AddInline(decl)
	}
	return b.Build()
}

// Failed is report for source which could not be analyzed.
func Failed(source string, err error) *Report {
	r := &Report{Source: source, Selectors: []Record{}}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}

// Failed reports whether analysis could not be performed.
func (r *Report) Failed() bool {
	return r.Error != ""
}

// High returns records exceeding threshold in source order.
func (r *Report) High() []Record {
	var out []Record
	for _, rec := range r.Selectors {
		if rec.IsHigh {
			out = append(out, rec)
		}
	}
	return out
}

// HighOnly returns copy of report listing only records exceeding threshold.
// Counters still describe the whole source.
func (r *Report) HighOnly() *Report {
	cp := *r
	cp.Selectors = r.High()
	if cp.Selectors == nil {
		cp.Selectors = []Record{}
	}
	cp.Regressions = slices.Clone(r.Regressions)
	return &cp
}

// WithRegressions returns copy of report carrying regressions.
func (r *Report) WithRegressions(regressions []Record) *Report {
	cp := *r
	cp.Selectors = slices.Clone(r.Selectors)
	cp.Regressions = slices.Clone(regressions)
	return &cp
}

// Builder accumulates records of a single source.
type Builder struct {
	source  string
	calc    *specificity.Calculator
	records []Record
	high    int
}

// NewBuilder starts report for source.
func NewBuilder(source string, calc *specificity.Calculator) *Builder {
	return &Builder{source: source, calc: calc}
}

// Add analyzes selector and appends the record.
func (b *Builder) Add(selector string) {
	rec := AnalyzeSelector(selector, b.calc)
	if rec.IsHigh {
		b.high++
	}
	b.records = append(b.records, rec)
}

// AddStylesheet adds every selector extracted from text.
func (b *Builder) AddStylesheet(text string, ext css.Extractor) {
	for _, sel := range ext.Extract(text) {
		b.Add(sel)
	}
}

// AddInline adds declarations of a style attribute.
func (b *Builder) AddInline(declarations string) {
	b.Add(`style="` + declarations + `"`)
}

// Build returns finished report, builder may be reused afterwards.
func (b *Builder) Build() *Report {
	records := slices.Clone(b.records)
	if records == nil {
		records = []Record{}
	}
	return &Report{
		Source:    b.source,
		Total:     len(records),
		HighCount: b.high,
		Threshold: specificity.Format(b.calc.Threshold()),
		Selectors: records,
	}
}

// Summary aggregates a batch of reports.
type Summary struct {
	Sources   int `json:"sources" yaml:"sources"`
	Failed    int `json:"failed" yaml:"failed"`
	Selectors int `json:"total_selectors" yaml:"total_selectors"`
	High      int `json:"high_specificity_count" yaml:"high_specificity_count"`
	Regressed int `json:"regressions" yaml:"regressions"`
}

// Summarize counts reports.
func Summarize(reports ...*Report) Summary {
	var s Summary
	for _, r := range reports {
		s.Sources++
		if r.Failed() {
			s.Failed++
		}
		s.Selectors += r.Total
		s.High += r.HighCount
		s.Regressed += len(r.Regressions)
	}
	return s
}

// Clean reports whether nothing in the batch requires attention.
func (s Summary) Clean() bool {
	return s.Failed == 0 && s.High == 0 && s.Regressed == 0
}
