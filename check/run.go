package check

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"cssspec/baseline"
	"cssspec/common"
	"cssspec/config"
	"cssspec/report"
	"cssspec/specificity"
	"cssspec/state"
)

var (
	// ErrHighSpecificity is returned when any analyzed selector exceeds
	// threshold.
	ErrHighSpecificity = errors.New("selectors exceeding specificity threshold found")
	// ErrRegressions is returned when specificity grew since baseline.
	ErrRegressions = errors.New("specificity regressions found")
)

// applyOverrides copies command line values on top of configuration and
// validates the result.
func applyOverrides(cmd *cli.Command, cfg *config.Config) (err error) {
	if cmd.IsSet("threshold") {
		cfg.Analysis.Threshold = cmd.String("threshold")
	}
	if cmd.IsSet("format") {
		if cfg.Output.Format, err = common.ParseOutputFormat(cmd.String("format")); err != nil {
			return fmt.Errorf("unable to use output format: %w", err)
		}
	}
	if cmd.IsSet("extraction") {
		if cfg.Analysis.Extraction, err = common.ParseExtractionMode(cmd.String("extraction")); err != nil {
			return fmt.Errorf("unable to use extraction mode: %w", err)
		}
	}
	if cmd.IsSet("split") {
		if cfg.Analysis.Splitting, err = specificity.ParseSplitMode(cmd.String("split")); err != nil {
			return fmt.Errorf("unable to use split mode: %w", err)
		}
	}
	if cmd.IsSet("only-high") {
		cfg.Output.OnlyHigh = cmd.Bool("only-high")
	}
	if cmd.IsSet("baseline") {
		cfg.Baseline.Path = cmd.String("baseline")
	}
	if cmd.IsSet("workers") {
		cfg.Analysis.Workers = int(cmd.Int("workers"))
	}
	return cfg.Validate()
}

// Run is action of "check" command.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("check")

	sources := cmd.Args().Slice()
	if len(sources) == 0 {
		return errors.New("no input source has been specified")
	}
	if err := applyOverrides(cmd, env.Cfg); err != nil {
		return err
	}

	an, err := NewAnalyzer(&env.Cfg.Analysis, log)
	if err != nil {
		return err
	}

	workers := env.Cfg.Analysis.WorkerCount()
	log.Debug("Analysis starting",
		zap.Strings("sources", sources),
		zap.Stringer("threshold", an.Calculator().Threshold()),
		zap.Stringer("extraction", env.Cfg.Analysis.Extraction),
		zap.Stringer("splitting", env.Cfg.Analysis.Splitting),
		zap.Int("workers", workers))
	defer func(start time.Time) {
		log.Debug("Analysis completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	reports, err := an.Process(ctx, sources, workers)
	if err != nil {
		return err
	}

	if reports, err = compareBaseline(&env.Cfg.Baseline, cmd.Bool("update-baseline"), an.Calculator().Threshold(), reports, env.Rpt, log); err != nil {
		return err
	}

	summary := report.Summarize(reports...)
	log.Info("Analysis summary",
		zap.Int("sources", summary.Sources),
		zap.Int("failed", summary.Failed),
		zap.Int("selectors", summary.Selectors),
		zap.Int("high", summary.High),
		zap.Int("regressions", summary.Regressed))

	if env.Cfg.Output.OnlyHigh {
		for i, r := range reports {
			reports[i] = r.HighOnly()
		}
	}

	if err := emit(env, cmd.String("out"), reports, log); err != nil {
		return err
	}
	return verdict(reports, summary)
}

// compareBaseline attaches regressions to reports when baseline is
// configured and optionally replaces baseline with the current results. Debug
// report gets database states before and after the update.
func compareBaseline(cfg *config.BaselineConfig, update bool, threshold specificity.Specificity, reports []*report.Report, rpt *config.Report, log *zap.Logger) (_ []*report.Report, err error) {
	if len(cfg.Path) == 0 {
		if update {
			log.Warn("Baseline update requested, but no baseline has been configured")
		}
		return reports, nil
	}

	store, err := baseline.Open(cfg.Path, log)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = multierr.Append(err, store.Close())
	}()

	out := make([]*report.Report, len(reports))
	for i, r := range reports {
		regressions, err := store.Regressions(r)
		if err != nil {
			return nil, err
		}
		out[i] = r
		if len(regressions) > 0 {
			log.Warn("Specificity regressions found", zap.String("file", r.Source), zap.Int("count", len(regressions)))
			out[i] = r.WithRegressions(regressions)
		}
	}

	if !update {
		return out, nil
	}
	if err := rpt.StoreCopy("baseline/before.db", cfg.Path); err != nil {
		log.Warn("Unable to save baseline in debug report", zap.Error(err))
	}
	rpt.Store("baseline/after.db", cfg.Path)

	runID, err := store.StartRun(threshold)
	if err != nil {
		return nil, err
	}
	for _, r := range reports {
		if err := store.Record(runID, r); err != nil {
			return nil, err
		}
	}
	log.Info("Baseline updated", zap.String("path", cfg.Path), zap.Stringer("run", runID))
	return out, nil
}

// emit renders reports to output or, when destination directory is given,
// to a file per report. Rendered results are saved in debug report.
func emit(env *state.LocalEnv, dst string, reports []*report.Report, log *zap.Logger) error {
	format := env.Cfg.Output.Format

	if len(dst) == 0 {
		var buf bytes.Buffer
		if err := report.Write(&buf, format, reports...); err != nil {
			return err
		}
		env.Rpt.StoreData("results/analysis"+extension(format), buf.Bytes())
		if _, err := env.Out.Write(buf.Bytes()); err != nil {
			return fmt.Errorf("unable to write results: %w", err)
		}
		return nil
	}

	names := newNamer(dst, format)
	for _, r := range reports {
		var buf bytes.Buffer
		if err := report.Write(&buf, format, r); err != nil {
			return err
		}
		path, err := names.write(r.Source, buf.Bytes())
		if err != nil {
			return err
		}
		env.Rpt.StoreData("results/"+names.rel(path), buf.Bytes())
		log.Debug("Results written", zap.String("file", r.Source), zap.String("to", path))
	}
	log.Info("Results written", zap.String("destination", dst), zap.Int("files", len(reports)))
	return nil
}

// verdict turns findings into program exit status: failures of individual
// inputs are combined with high specificity and regression sentinels.
func verdict(reports []*report.Report, summary report.Summary) (err error) {
	for _, r := range reports {
		if r.Failed() {
			err = multierr.Append(err, fmt.Errorf("%s: %s", r.Source, r.Error))
		}
	}
	if summary.High > 0 {
		err = multierr.Append(err, ErrHighSpecificity)
	}
	if summary.Regressed > 0 {
		err = multierr.Append(err, ErrRegressions)
	}
	return err
}
