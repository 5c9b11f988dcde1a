package baseline_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap/zaptest"

	"cssspec/baseline"
	"cssspec/css"
	"cssspec/report"
	"cssspec/specificity"
)

func analyze(t *testing.T, text string) *report.Report {
	t.Helper()
	calc := specificity.NewCalculator(specificity.DefaultThreshold)
	return report.AnalyzeStylesheet(text, "site/main.css", calc, css.NewTextualExtractor(specificity.SplitModeNaive, nil))
}

func openStore(t *testing.T) *baseline.Store {
	t.Helper()
	store, err := baseline.Open(filepath.Join(t.TempDir(), "baseline.db"), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return store
}

func TestStore_Regressions(t *testing.T) {
	store := openStore(t)

	runID, err := store.StartRun(specificity.DefaultThreshold)
	if err != nil {
		t.Fatalf("StartRun() error = %v", err)
	}
	if runID == uuid.Nil {
		t.Fatal("StartRun() returned nil uuid")
	}

	first := analyze(t, ".a { } #nav li { } .b { }")

	// nothing recorded yet
	regs, err := store.Regressions(first)
	if err != nil {
		t.Fatalf("Regressions() error = %v", err)
	}
	if len(regs) != 0 {
		t.Errorf("Regressions() before Record = %d records, want 0", len(regs))
	}

	if err := store.Record(runID, first); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	unchanged, err := store.Regressions(first)
	if err != nil {
		t.Fatalf("Regressions() error = %v", err)
	}
	if len(unchanged) != 0 {
		t.Errorf("Regressions() for same report = %v, want none", unchanged)
	}

	second := analyze(t, ".a { } #nav li { } .b { } .c.d { }")
	regs, err = store.Regressions(second)
	if err != nil {
		t.Fatalf("Regressions() error = %v", err)
	}
	if len(regs) != 1 || regs[0].Selector != ".c.d" {
		t.Errorf("Regressions() = %v, want only .c.d", regs)
	}
}

func TestStore_RecordReplacesSource(t *testing.T) {
	store := openStore(t)
	runID, err := store.StartRun(specificity.DefaultThreshold)
	if err != nil {
		t.Fatalf("StartRun() error = %v", err)
	}

	if err := store.Record(runID, analyze(t, ".a { } .gone { }")); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := store.Record(runID, analyze(t, ".a { } .a { }")); err != nil {
		t.Fatalf("Record() with duplicates error = %v", err)
	}

	regs, err := store.Regressions(analyze(t, ".gone { }"))
	if err != nil {
		t.Fatalf("Regressions() error = %v", err)
	}
	if len(regs) != 1 {
		t.Errorf("Regressions() = %v, want .gone reported as new", regs)
	}
}

func TestStore_FailedReportIgnored(t *testing.T) {
	store := openStore(t)
	failed := report.Failed("site/main.css", errors.New("unreadable"))

	if err := store.Record(uuid.New(), failed); err != nil {
		t.Errorf("Record() error = %v", err)
	}
	regs, err := store.Regressions(failed)
	if err != nil || regs != nil {
		t.Errorf("Regressions() = %v, %v, want nil", regs, err)
	}
}

func TestOpen_InvalidPath(t *testing.T) {
	if _, err := baseline.Open(filepath.Join(t.TempDir(), "missing", "dir", "db"), nil); err == nil {
		t.Error("Open() expected error for path in missing directory")
	}
}
