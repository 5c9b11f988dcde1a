// Package check implements analysis commands: resolving inputs, computing
// specificity of every selector found and producing reports.
package check

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"cssspec/config"
	"cssspec/css"
	"cssspec/report"
	"cssspec/source"
	"cssspec/specificity"
)

// Analyzer turns inputs into reports. It is safe for concurrent use.
type Analyzer struct {
	calc *specificity.Calculator
	ext  css.Extractor
	opts source.Options
	log  *zap.Logger
}

// NewCalculator builds calculator from analysis configuration.
func NewCalculator(cfg *config.AnalysisConfig) (*specificity.Calculator, error) {
	threshold, err := cfg.ThresholdValue()
	if err != nil {
		return nil, fmt.Errorf("unable to use threshold: %w", err)
	}
	return specificity.NewCalculator(threshold,
		specificity.WithSplitMode(cfg.Splitting),
		specificity.WithMaxDepth(cfg.MaxDepth),
	), nil
}

// NewAnalyzer prepares analyzer for configuration.
func NewAnalyzer(cfg *config.AnalysisConfig, log *zap.Logger) (*Analyzer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	calc, err := NewCalculator(cfg)
	if err != nil {
		return nil, err
	}
	return &Analyzer{
		calc: calc,
		ext:  css.NewExtractor(cfg.Extraction, cfg.Splitting, log),
		opts: source.Options{Extensions: cfg.Extensions, MaxSize: cfg.MaxFileSize},
		log:  log,
	}, nil
}

// Calculator returns calculator used by analyzer.
func (a *Analyzer) Calculator() *specificity.Calculator {
	return a.calc
}

// Analyze produces report for a single item. Problems reading or decoding
// the item are reported in the result.
func (a *Analyzer) Analyze(it source.Item) *report.Report {
	doc, err := source.Load(it, a.log)
	if err != nil {
		a.log.Error("Unable to analyze file", zap.String("file", it.Name), zap.Error(err))
		return report.Failed(it.Name, err)
	}

	b := report.NewBuilder(it.Name, a.calc)
	for _, text := range doc.Stylesheets {
		b.AddStylesheet(text, a.ext)
	}
	for _, decl := range doc.Inline {
		b.AddInline(decl)
	}
	r := b.Build()

	a.log.Debug("File analyzed",
		zap.String("file", it.Name),
		zap.String("charset", doc.Charset),
		zap.Int("stylesheets", len(doc.Stylesheets)),
		zap.Int("inline", len(doc.Inline)),
		zap.Int("selectors", r.Total),
		zap.Int("high", r.HighCount))
	return r
}

// job is either an item to analyze or a source which failed to resolve.
type job struct {
	item   source.Item
	failed *report.Report
}

// Process resolves every source and analyzes discovered items using up to
// workers goroutines. Reports follow source order, items of a source are in
// natural order. Sources which cannot be resolved produce failed reports, the
// only error returned is cancellation.
func (a *Analyzer) Process(ctx context.Context, sources []string, workers int) ([]*report.Report, error) {
	var jobs []job
	for _, src := range sources {
		items, err := source.Collect(ctx, src, a.opts, a.log)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			a.log.Error("Unable to resolve source", zap.String("source", src), zap.Error(err))
			jobs = append(jobs, job{failed: report.Failed(src, err)})
			continue
		}
		if len(items) == 0 {
			a.log.Warn("No files to analyze", zap.String("source", src))
		}
		for _, it := range items {
			jobs = append(jobs, job{item: it})
		}
	}

	reports := make([]*report.Report, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, j := range jobs {
		if j.failed != nil {
			reports[i] = j.failed
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			reports[i] = a.Analyze(j.item)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}
