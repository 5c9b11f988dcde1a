package check

import (
	"context"
	"errors"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"cssspec/report"
	"cssspec/specificity"
	"cssspec/state"
)

// Selector is action of "selector" command. It analyzes selectors given on
// command line and, unlike "check", does not turn high specificity into
// error.
func Selector(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("selector")

	selectors := cmd.Args().Slice()
	if len(selectors) == 0 {
		return errors.New("no selector has been specified")
	}
	if err := applyOverrides(cmd, env.Cfg); err != nil {
		return err
	}

	calc, err := NewCalculator(&env.Cfg.Analysis)
	if err != nil {
		return err
	}

	explain := cmd.Bool("explain")
	recs := make([]report.Record, 0, len(selectors))
	var exs []*specificity.Explanation
	for _, sel := range selectors {
		rec := report.AnalyzeSelector(sel, calc)
		recs = append(recs, rec)
		if explain {
			exs = append(exs, calc.Explain(sel))
		}
		log.Debug("Selector analyzed", zap.String("selector", sel), zap.String("specificity", rec.Specificity), zap.Bool("high", rec.IsHigh))
	}
	return report.WriteRecords(env.Out, env.Cfg.Output.Format, recs, exs)
}
