// Package baseline keeps specificity of previously analyzed selectors in
// SQLite database so that later runs can report regressions.
package baseline

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"cssspec/report"
	"cssspec/specificity"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	started_at TEXT NOT NULL,
	threshold  TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS selectors (
	source        TEXT NOT NULL,
	selector      TEXT NOT NULL,
	inline_count  INTEGER NOT NULL,
	id_count      INTEGER NOT NULL,
	class_count   INTEGER NOT NULL,
	element_count INTEGER NOT NULL,
	run_id        TEXT NOT NULL REFERENCES runs(id),
	PRIMARY KEY (source, selector)
);
`

// Store is SQLite backed baseline. Methods may be called concurrently.
type Store struct {
	mu   sync.Mutex
	conn *sqlite.Conn
	log  *zap.Logger
}

// Open opens or creates database at path.
func Open(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	conn, err := sqlite.OpenConn(path, sqlite.OpenReadWrite, sqlite.OpenCreate, sqlite.OpenWAL)
	if err != nil {
		return nil, fmt.Errorf("unable to open baseline %q: %w", path, err)
	}
	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		return nil, multierr.Append(fmt.Errorf("unable to prepare baseline %q: %w", path, err), conn.Close())
	}
	log = log.Named("baseline")
	log.Debug("Baseline opened", zap.String("path", path))
	return &Store{conn: conn, log: log}, nil
}

// Close releases database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.Close()
}

// StartRun registers new run and returns its identifier.
func (s *Store) StartRun(threshold specificity.Specificity) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New()
	err := sqlitex.Execute(s.conn, `INSERT INTO runs (id, started_at, threshold) VALUES (?, ?, ?)`,
		&sqlitex.ExecOptions{Args: []any{id.String(), time.Now().UTC().Format(time.RFC3339), specificity.Format(threshold)}})
	if err != nil {
		return uuid.Nil, fmt.Errorf("unable to register run: %w", err)
	}
	return id, nil
}

// Record replaces stored selectors of report source with report content.
// When selector occurs several times the highest specificity is kept.
func (s *Store) Record(runID uuid.UUID, r *report.Report) (err error) {
	if r.Failed() {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	defer sqlitex.Save(s.conn)(&err)

	err = sqlitex.Execute(s.conn, `DELETE FROM selectors WHERE source = ?`,
		&sqlitex.ExecOptions{Args: []any{r.Source}})
	if err != nil {
		return fmt.Errorf("unable to clear baseline for %s: %w", r.Source, err)
	}

	for selector, spec := range highest(r.Selectors) {
		err = sqlitex.Execute(s.conn, `INSERT INTO selectors
			(source, selector, inline_count, id_count, class_count, element_count, run_id)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			&sqlitex.ExecOptions{Args: []any{
				r.Source, selector, spec.Inline, spec.ID, spec.Class, spec.Element, runID.String(),
			}})
		if err != nil {
			return fmt.Errorf("unable to store %q for %s: %w", selector, r.Source, err)
		}
	}
	s.log.Debug("Baseline updated", zap.String("source", r.Source), zap.Int("selectors", len(r.Selectors)))
	return nil
}

// Regressions returns records of report which are not in the baseline or
// whose specificity grew. Sources never recorded have no regressions.
func (s *Store) Regressions(r *report.Report) ([]report.Record, error) {
	if r.Failed() {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make(map[string]specificity.Specificity)
	err := sqlitex.Execute(s.conn, `SELECT selector, inline_count, id_count, class_count, element_count
		FROM selectors WHERE source = ?`,
		&sqlitex.ExecOptions{
			Args: []any{r.Source},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				stored[stmt.ColumnText(0)] = specificity.Specificity{
					Inline:  stmt.ColumnInt(1),
					ID:      stmt.ColumnInt(2),
					Class:   stmt.ColumnInt(3),
					Element: stmt.ColumnInt(4),
				}
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("unable to read baseline for %s: %w", r.Source, err)
	}
	if len(stored) == 0 {
		s.log.Debug("Source is not in baseline", zap.String("source", r.Source))
		return nil, nil
	}

	var out []report.Record
	for _, rec := range r.Selectors {
		prev, ok := stored[rec.Selector]
		if !ok || specificity.Compare(rec.Value(), prev) > 0 {
			out = append(out, rec)
		}
	}
	return out, nil
}

func highest(records []report.Record) map[string]specificity.Specificity {
	out := make(map[string]specificity.Specificity, len(records))
	for _, rec := range records {
		if prev, ok := out[rec.Selector]; !ok || specificity.Compare(rec.Value(), prev) > 0 {
			out[rec.Selector] = rec.Value()
		}
	}
	return out
}
