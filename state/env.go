// Package state defines per invocation program state shared by commands.
package state

import (
	"context"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"cssspec/config"
)

type envKey struct{}

// LocalEnv keeps everything commands need in a single place. It lives in
// context from program start to exit.
type LocalEnv struct {
	Cfg *config.Config
	// Rpt is nil unless debug report was requested.
	Rpt *config.Report
	Log *zap.Logger
	// Out receives rendered results, log never goes there.
	Out io.Writer

	start   time.Time
	restore func()
}

// ContextWithEnv returns ctx carrying fresh environment: no configuration,
// no-op logger and results going to stdout.
func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, &LocalEnv{
		Log:   zap.NewNop(),
		Out:   os.Stdout,
		start: time.Now(),
	})
}

// EnvFromContext returns environment stored by ContextWithEnv and panics when
// there is none, which is a programming error.
func EnvFromContext(ctx context.Context) *LocalEnv {
	env, ok := ctx.Value(envKey{}).(*LocalEnv)
	if !ok {
		panic("localenv not found in context")
	}
	return env
}

// Uptime is time since environment was created.
func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

// RedirectStdLog sends output of standard library logger to Log until
// RestoreStdLog is called.
func (e *LocalEnv) RedirectStdLog() {
	if e.Log != nil {
		e.restore = zap.RedirectStdLog(e.Log)
	}
}

// RestoreStdLog flushes Log and undoes RedirectStdLog.
func (e *LocalEnv) RestoreStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if e.restore != nil {
		e.restore()
		e.restore = nil
	}
}
