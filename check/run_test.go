package check

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap/zaptest"

	"cssspec/config"
	"cssspec/report"
	"cssspec/state"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()

	ctx := state.ContextWithEnv(context.Background())
	env := state.EnvFromContext(ctx)
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	var out bytes.Buffer
	env.Cfg = cfg
	env.Log = zaptest.NewLogger(t)
	env.Out = &out

	app := &cli.Command{
		Name:      "cssspec",
		Writer:    io.Discard,
		ErrWriter: io.Discard,
		Commands: []*cli.Command{
			{Name: "check", Flags: Flags(), Action: Run},
			{Name: "selector", Flags: SelectorFlags(), Action: Selector},
		},
	}
	err = app.Run(ctx, append([]string{"cssspec"}, args...))
	return out.String(), err
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeZip(t *testing.T, path string, files map[string]string) string {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	w := zip.NewWriter(f)
	for name, content := range files {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func decodeReports(t *testing.T, out string) []report.Report {
	t.Helper()
	var reports []report.Report
	if err := json.Unmarshal([]byte(out), &reports); err != nil {
		t.Fatalf("output is not a list of reports: %v\n%s", err, out)
	}
	return reports
}

func TestRun_Threshold(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "styles.css"), "#id .a .b .c { color: red; }\ndiv { margin: 0; }\n")

	out, err := runApp(t, "check", path)
	if err != nil {
		t.Fatalf("check with default threshold error = %v", err)
	}
	for _, want := range []string{"Total selectors: 2", "High specificity: 0", "Threshold: 0,1,3,3"} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}

	out, err = runApp(t, "check", "--threshold", "0,1,2,0", "--format", "json", path)
	if !errors.Is(err, ErrHighSpecificity) {
		t.Fatalf("check with low threshold error = %v, want ErrHighSpecificity", err)
	}
	var r report.Report
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("single report must be an object: %v\n%s", err, out)
	}
	if r.Total != 2 || r.HighCount != 1 || r.Threshold != "0,1,2,0" {
		t.Errorf("report = %+v", r)
	}
	if !r.Selectors[0].IsHigh || r.Selectors[1].IsHigh {
		t.Errorf("selectors = %+v", r.Selectors)
	}
}

func TestRun_Directory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "site")
	writeFile(t, filepath.Join(dir, "a.css"), ".a { }")
	writeFile(t, filepath.Join(dir, "b.html"), `<html><head><style>.b, .c { }</style></head><body><p style="color:red">x</p></body></html>`)
	writeFile(t, filepath.Join(dir, "notes.txt"), ".ignored { }")
	writeZip(t, filepath.Join(dir, "c.zip"), map[string]string{"theme/d.css": "#d { }", "readme.md": "# not css"})

	out, err := runApp(t, "check", "--format", "json", "--workers", "2", dir)
	if !errors.Is(err, ErrHighSpecificity) {
		t.Fatalf("error = %v, want ErrHighSpecificity for inline style", err)
	}

	reports := decodeReports(t, out)
	want := []string{
		filepath.Join(dir, "a.css"),
		filepath.Join(dir, "b.html"),
		filepath.Join(dir, "c.zip", "theme", "d.css"),
	}
	if len(reports) != len(want) {
		t.Fatalf("got %d reports, want %d:\n%s", len(reports), len(want), out)
	}
	for i, r := range reports {
		if r.Source != want[i] {
			t.Errorf("report %d source = %q, want %q", i, r.Source, want[i])
		}
	}
	html := reports[1]
	if html.Total != 3 || html.HighCount != 1 {
		t.Errorf("html report = %+v", html)
	}
	if html.Selectors[2].Specificity != "1,0,0,0" {
		t.Errorf("inline record = %+v", html.Selectors[2])
	}
}

func TestRun_PathInArchive(t *testing.T) {
	arc := writeZip(t, filepath.Join(t.TempDir(), "bundle.zip"), map[string]string{
		"css/main.css":       ".main { }",
		"css/extra.css":      ".extra { }",
		"other/x.css":        ".x { }",
		"css-legacy/old.css": ".old { }",
		"cssx.css":           ".cssx { }",
	})

	out, err := runApp(t, "check", "--format", "json", filepath.Join(arc, "css"))
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	reports := decodeReports(t, out)
	if len(reports) != 2 {
		t.Fatalf("got %d reports, want 2:\n%s", len(reports), out)
	}
	if !strings.HasSuffix(reports[0].Source, "extra.css") || !strings.HasSuffix(reports[1].Source, "main.css") {
		t.Errorf("unexpected order: %s, %s", reports[0].Source, reports[1].Source)
	}
	for _, r := range reports {
		if strings.Contains(r.Source, "css-legacy") || strings.HasSuffix(r.Source, "cssx.css") {
			t.Errorf("sibling entry %s must not be collected", r.Source)
		}
	}
}

func TestRun_MissingSource(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, filepath.Join(dir, "good.css"), ".a { }")
	missing := filepath.Join(dir, "missing.css")

	out, err := runApp(t, "check", good, missing)
	if err == nil {
		t.Fatal("expected error for missing source")
	}
	if errors.Is(err, ErrHighSpecificity) {
		t.Errorf("error = %v, missing file is not high specificity", err)
	}
	if !strings.Contains(err.Error(), missing) {
		t.Errorf("error %q does not name missing source", err)
	}
	if !strings.Contains(out, "Error: "+missing) || !strings.Contains(out, "Sources: 2, failed: 1") {
		t.Errorf("output:\n%s", out)
	}
}

func TestRun_OnlyHigh(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "a.css"), "#a #b { } .c { }")

	out, err := runApp(t, "check", "--only-high", "--format", "yaml", path)
	if !errors.Is(err, ErrHighSpecificity) {
		t.Fatalf("error = %v, want ErrHighSpecificity", err)
	}
	if strings.Contains(out, "selector: .c") || !strings.Contains(out, "selector: '#a #b'") {
		t.Errorf("only high selectors expected:\n%s", out)
	}
	if !strings.Contains(out, "total_selectors: 2") {
		t.Errorf("counters must describe whole source:\n%s", out)
	}
}

func TestRun_Out(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	writeFile(t, filepath.Join(src, "Main Menu.css"), ".a { }")
	writeFile(t, filepath.Join(src, "nested", "Main Menu.css"), ".b { }")
	dst := filepath.Join(dir, "out")

	out, err := runApp(t, "check", "--format", "json", "--out", dst, src)
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if out != "" {
		t.Errorf("nothing must be written to output, got:\n%s", out)
	}
	for _, name := range []string{"main-menu.css.json", "main-menu.css-2.json"} {
		data, err := os.ReadFile(filepath.Join(dst, name))
		if err != nil {
			t.Errorf("result file %s: %v", name, err)
			continue
		}
		var r report.Report
		if err := json.Unmarshal(data, &r); err != nil || r.Total != 1 {
			t.Errorf("result file %s = %s (%v)", name, data, err)
		}
	}
}

func TestRun_Baseline(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "a.css"), ".a { } .b { }")
	db := filepath.Join(dir, "baseline.db")

	if _, err := runApp(t, "check", "--baseline", db, "--update-baseline", path); err != nil {
		t.Fatalf("first run error = %v", err)
	}

	writeFile(t, path, ".a { } .b.c { } .d { }")
	out, err := runApp(t, "check", "--baseline", db, "--format", "json", path)
	if !errors.Is(err, ErrRegressions) {
		t.Fatalf("second run error = %v, want ErrRegressions", err)
	}
	var r report.Report
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatal(err)
	}
	if len(r.Regressions) != 2 || r.Regressions[0].Selector != ".b.c" || r.Regressions[1].Selector != ".d" {
		t.Errorf("regressions = %+v", r.Regressions)
	}

	// without update the baseline is unchanged
	if _, err := runApp(t, "check", "--baseline", db, path); !errors.Is(err, ErrRegressions) {
		t.Errorf("third run error = %v, want ErrRegressions", err)
	}
}

func TestRun_BadArguments(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "a.css"), ".a { }")

	tests := []struct {
		name string
		args []string
	}{
		{"no sources", []string{"check"}},
		{"bad threshold", []string{"check", "--threshold", "1,2", path}},
		{"bad format", []string{"check", "--format", "xml", path}},
		{"bad extraction", []string{"check", "--extraction", "magic", path}},
		{"bad split", []string{"check", "--split", "deep", path}},
		{"no selectors", []string{"selector"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runApp(t, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRun_GrammarExtraction(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "a.css"), ".a { } @media screen { .b { } }")

	out, err := runApp(t, "check", "--extraction", "grammar", "--format", "json", path)
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	var r report.Report
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatal(err)
	}
	if r.Total != 2 {
		t.Errorf("grammar extraction must descend into @media, got %+v", r.Selectors)
	}
}

func TestSelector(t *testing.T) {
	out, err := runApp(t, "selector", "--explain", "#nav .menu li a")
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	for _, want := range []string{"Specificity: 0,1,1,2", "Status: ✓ OK", "#nav", ".menu"} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}

	out, err = runApp(t, "selector", "--format", "json", "--threshold", "0,0,0,0", ".a", "div")
	if err != nil {
		t.Fatalf("high selector must not fail selector command, error = %v", err)
	}
	var recs []report.Record
	if err := json.Unmarshal([]byte(out), &recs); err != nil {
		t.Fatalf("output is not a list: %v\n%s", err, out)
	}
	if len(recs) != 2 || !recs[0].IsHigh || recs[1].Tuple != [4]int{0, 0, 0, 1} {
		t.Errorf("records = %+v", recs)
	}
}

func TestProcess_Cancelled(t *testing.T) {
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatal(err)
	}
	an, err := NewAnalyzer(&cfg.Analysis, zaptest.NewLogger(t))
	if err != nil {
		t.Fatal(err)
	}
	path := writeFile(t, filepath.Join(t.TempDir(), "a.css"), ".a { }")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := an.Process(ctx, []string{path}, 1); !errors.Is(err, context.Canceled) {
		t.Errorf("Process() error = %v, want context.Canceled", err)
	}
}

func TestVerdict(t *testing.T) {
	clean := &report.Report{Source: "a.css", Total: 1}
	high := &report.Report{Source: "b.css", Total: 1, HighCount: 1}
	failed := report.Failed("c.css", errors.New("boom"))

	if err := verdict([]*report.Report{clean}, report.Summarize(clean)); err != nil {
		t.Errorf("verdict() for clean run = %v", err)
	}

	reports := []*report.Report{clean, high, failed}
	err := verdict(reports, report.Summarize(reports...))
	if !errors.Is(err, ErrHighSpecificity) {
		t.Errorf("verdict() = %v, want ErrHighSpecificity", err)
	}
	if !strings.Contains(err.Error(), "c.css: boom") {
		t.Errorf("verdict() = %v, want failed input mentioned", err)
	}
}

func TestNamer(t *testing.T) {
	n := newNamer(t.TempDir(), 0)
	tests := []struct {
		src  string
		want string
	}{
		{"site/Main Menu.css", "main-menu.css.txt"},
		{"other/main menu.CSS", "main-menu.css-2.txt"},
		{"page.html", "page.html.txt"},
		{".css", "stylesheet.css.txt"},
	}
	for _, tt := range tests {
		if got := n.name(tt.src); got != tt.want {
			t.Errorf("name(%q) = %q, want %q", tt.src, got, tt.want)
		}
	}
}
