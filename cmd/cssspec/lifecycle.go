package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"cssspec/check"
	"cssspec/config"
	"cssspec/misc"
	"cssspec/state"
)

// setup loads configuration and starts logging once command line is parsed
// and before any command runs.
func setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.NArg() == 0 {
		// help only
		return ctx, nil
	}

	env := state.EnvFromContext(ctx)
	configFile := cmd.String("config")

	var err error
	if env.Cfg, err = config.LoadConfiguration(configFile); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}

	if cmd.Bool("debug") {
		if env.Rpt, err = env.Cfg.Reporting.Prepare(); err != nil {
			return ctx, fmt.Errorf("unable to prepare debug reporter: %w", err)
		}
		if len(configFile) > 0 {
			env.Rpt.Store("config/"+filepath.Base(configFile), configFile)
		}
	}

	if env.Log, err = env.Cfg.Logging.Prepare(env.Rpt); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.RedirectStdLog()

	env.Log.Debug("Program started",
		zap.Strings("args", os.Args),
		zap.String("ver", misc.GetVersion()),
		zap.String("runtime", runtime.Version()),
		zap.String("hash", misc.GetGitHash()),
		zap.Bool("defaults", len(configFile) == 0))
	if env.Rpt != nil {
		env.Log.Info("Creating debug report", zap.String("location", env.Rpt.Name()))
	}
	return ctx, nil
}

// teardown flushes logs and closes debug report. Log is unusable afterwards
// so problems are returned to be printed on stderr.
func teardown(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Debug("Program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	}
	env.RestoreStdLog()

	if env.Cfg != nil {
		// active configuration after command line overrides
		if data, er := config.Dump(env.Cfg); er == nil {
			env.Rpt.StoreData("config/active.yaml", data)
		}
	}
	if er := env.Rpt.Close(); er != nil {
		err = multierr.Append(err, fmt.Errorf("unable to close debug report: %w", er))
	}

	if env.Cfg == nil || len(env.Cfg.Logging.FileLogger.Destination) == 0 {
		return err
	}
	// nothing crashed, empty panic log is not needed
	debug.SetCrashOutput(nil, debug.CrashOptions{})
	panicLog := filepath.Join(filepath.Dir(env.Cfg.Logging.FileLogger.Destination), misc.GetAppName()+"-panic.log")
	if fi, er := os.Stat(panicLog); er == nil && fi.Size() == 0 {
		if er := os.Remove(panicLog); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to remove empty panic log file '%s': %w", panicLog, er))
		}
	}
	return err
}

// errLogged is set when command error has been logged and does not need to be
// printed again.
var errLogged bool

// logExitError is called before teardown so the log is still available.
func logExitError(ctx context.Context, _ *cli.Command, err error) {
	env := state.EnvFromContext(ctx)
	if env.Log == nil {
		return
	}
	if errs := multierr.Errors(err); len(errs) > 0 && onlyFindings(errs) {
		env.Log.Warn("Program ended with findings", zap.Errors("findings", errs))
	} else {
		env.Log.Error("Program ended with error", zap.Error(err))
	}
	errLogged = true
}

// onlyFindings reports whether errs describe analysis outcome rather than
// failures.
func onlyFindings(errs []error) bool {
	for _, err := range errs {
		if !errors.Is(err, check.ErrHighSpecificity) && !errors.Is(err, check.ErrRegressions) {
			return false
		}
	}
	return true
}

func onUsageError(_ context.Context, _ *cli.Command, err error, _ bool) error {
	// reported by logExitError or printed on exit
	return err
}

func onUnknownCommand(ctx context.Context, _ *cli.Command, name string) {
	state.EnvFromContext(ctx).Log.Warn("Unknown command, nothing to do", zap.String("command", name))
}
