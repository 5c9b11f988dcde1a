package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"cssspec/common"
	"cssspec/specificity"
)

const ruleWidth = 70

// Write renders reports in format. A single report is written as an object,
// several as a list.
func Write(w io.Writer, format common.OutputFormat, reports ...*Report) error {
	switch format {
	case common.OutputFormatText:
		return WriteText(w, reports...)
	case common.OutputFormatJson:
		return encodeJSON(w, single(reports))
	case common.OutputFormatYaml:
		return encodeYAML(w, single(reports))
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// WriteRecord renders analysis of a single selector with optional
// explanation tree (text format only).
func WriteRecord(w io.Writer, format common.OutputFormat, rec Record, ex *specificity.Explanation) error {
	switch format {
	case common.OutputFormatText:
		p := &printer{w: w}
		p.printf("\nSelector: %s\n", rec.Selector)
		p.printf("Specificity: %s\n", rec.Specificity)
		p.printf("Threshold: %s\n", rec.Threshold)
		if rec.IsHigh {
			p.printf("Status: ⚠️  HIGH\n")
		} else {
			p.printf("Status: ✓ OK\n")
		}
		if ex != nil {
			p.printf("\n%s", Explain(ex))
		}
		return p.err
	case common.OutputFormatJson:
		return encodeJSON(w, rec)
	case common.OutputFormatYaml:
		return encodeYAML(w, rec)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// WriteRecords renders analysis of several selectors. Explanations are
// matched to records by index and may be absent.
func WriteRecords(w io.Writer, format common.OutputFormat, recs []Record, exs []*specificity.Explanation) error {
	switch format {
	case common.OutputFormatText:
		for i, rec := range recs {
			var ex *specificity.Explanation
			if i < len(exs) {
				ex = exs[i]
			}
			if err := WriteRecord(w, format, rec, ex); err != nil {
				return err
			}
		}
		return nil
	case common.OutputFormatJson:
		return encodeJSON(w, single(recs))
	case common.OutputFormatYaml:
		return encodeYAML(w, single(recs))
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// WriteText renders reports in human readable layout.
func WriteText(w io.Writer, reports ...*Report) error {
	p := &printer{w: w}
	for _, r := range reports {
		p.report(r)
	}
	if len(reports) > 1 {
		s := Summarize(reports...)
		p.printf("\n%s\n", strings.Repeat("=", ruleWidth))
		p.printf("Sources: %d, failed: %d, selectors: %d, high specificity: %d",
			s.Sources, s.Failed, s.Selectors, s.High)
		if s.Regressed > 0 {
			p.printf(", regressions: %d", s.Regressed)
		}
		p.printf("\n")
	}
	return p.err
}

// printer remembers first write error so rendering code stays linear.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) report(r *Report) {
	if r.Failed() {
		p.printf("\nError: %s: %s\n", r.Source, r.Error)
		return
	}

	p.printf("\nCSS Specificity Analysis: %s\n", r.Source)
	p.printf("%s\n", strings.Repeat("=", ruleWidth))
	p.printf("Total selectors: %d\n", r.Total)
	p.printf("High specificity: %d\n", r.HighCount)
	p.printf("Threshold: %s\n\n", r.Threshold)

	if high := r.High(); len(high) > 0 {
		p.printf("⚠️  High Specificity Selectors:\n")
		p.printf("%s\n", strings.Repeat("-", ruleWidth))
		for _, rec := range high {
			p.printf("  %-12s | %s\n", rec.Specificity, rec.Selector)
		}
		p.printf("\n")
	}

	if len(r.Regressions) > 0 {
		p.printf("Regressions since baseline:\n")
		p.printf("%s\n", strings.Repeat("-", ruleWidth))
		for _, rec := range r.Regressions {
			p.printf("  %-12s | %s\n", rec.Specificity, rec.Selector)
		}
		p.printf("\n")
	}

	p.printf("All Selectors:\n")
	p.printf("%s\n", strings.Repeat("-", ruleWidth))
	for _, rec := range r.Selectors {
		marker := "✓ "
		if rec.IsHigh {
			marker = "⚠️ "
		}
		p.printf("%s %-12s | %s\n", marker, rec.Specificity, rec.Selector)
	}
}

func single[T any](items []T) any {
	if len(items) == 1 {
		return items[0]
	}
	if items == nil {
		return []T{}
	}
	return items
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("unable to encode json: %w", err)
	}
	return nil
}

func encodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("unable to encode yaml: %w", err)
	}
	return enc.Close()
}
