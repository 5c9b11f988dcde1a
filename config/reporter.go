package config

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/maruel/natural"
	"go.uber.org/multierr"

	"cssspec/misc"
)

type ReporterConfig struct {
	Destination string `yaml:"destination" sanitize:"path_clean,assure_dir_exists_for_file" validate:"required,filepath"`
}

// Prepare creates empty debug report. When destination cannot be created
// report goes to a temporary file, see Report.Name.
func (conf *ReporterConfig) Prepare() (*Report, error) {
	f, err := os.Create(conf.Destination)
	if err != nil {
		if f, err = os.CreateTemp("", misc.GetAppName()+"-report.*.zip"); err != nil {
			return nil, fmt.Errorf("unable to create report: %w", err)
		}
	}
	return &Report{file: f, items: make(map[string]item)}, nil
}

// item is a single archive member: either a file on disk read when report is
// closed or data captured at the time of a call.
type item struct {
	origin string
	path   string
	data   []byte
	stamp  time.Time
}

// Report gathers files and data for the debug archive. A nil *Report means no
// report was requested, all methods are no-ops then. Methods may be called
// concurrently.
type Report struct {
	mu    sync.Mutex
	file  *os.File
	items map[string]item
	// temporary directories holding snapshots, removed on Close
	temp []string
}

// Name returns absolute path of the archive.
func (r *Report) Name() string {
	if r == nil || r.file == nil {
		return ""
	}
	if n, err := filepath.Abs(r.file.Name()); err == nil {
		return n
	}
	return r.file.Name()
}

// add registers it under name, repeated names get a numeric suffix. Must be
// called under lock.
func (r *Report) add(name string, it item) {
	key := name
	for n := 2; ; n++ {
		if _, taken := r.items[key]; !taken {
			break
		}
		key = name + "-" + strconv.Itoa(n)
	}
	r.items[key] = it
}

// Store schedules file at path to be archived under name. File is read when
// report is closed, so it may still be written to until then.
func (r *Report) Store(name, path string) {
	if r == nil {
		return
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.add(name, item{origin: path, path: abs})
}

// StoreData archives data under name.
func (r *Report) StoreData(name string, data []byte) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.add(name, item{data: slices.Clone(data), stamp: time.Now()})
}

// StoreCopy snapshots regular file at path right away and archives the
// snapshot under name. Use it for files which will change before report is
// closed.
func (r *Report) StoreCopy(name, path string) error {
	if r == nil {
		return nil
	}
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !fi.Mode().IsRegular() {
		return fmt.Errorf("unable to copy '%s' into report: not a regular file", path)
	}

	dir, err := os.MkdirTemp("", misc.GetAppName()+"-r-")
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.temp = append(r.temp, dir)
	snapshot := filepath.Join(dir, filepath.Base(path))
	if err := copyFile(snapshot, path, fi.ModTime()); err != nil {
		return fmt.Errorf("unable to copy '%s' into report: %w", path, err)
	}
	r.add(name, item{origin: path, path: snapshot, stamp: time.Now()})
	return nil
}

// Close writes the archive and removes snapshots.
func (r *Report) Close() (err error) {
	if r == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	defer func() {
		for _, dir := range r.temp {
			err = multierr.Append(err, os.RemoveAll(dir))
		}
		r.temp = nil
	}()

	if r.file == nil {
		return nil
	}
	defer func() {
		err = multierr.Append(err, r.file.Close())
	}()
	return r.write(r.file)
}

func copyFile(dst, src string, modTime time.Time) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		return multierr.Append(err, out.Close())
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dst, modTime, modTime)
}

// write produces zip archive: MANIFEST listing every item followed by items
// in natural name order. Files which disappeared are listed but skipped.
func (r *Report) write(w io.Writer) (err error) {
	arc := zip.NewWriter(w)
	defer func() {
		err = multierr.Append(err, arc.Close())
	}()

	names := make([]string, 0, len(r.items))
	for name := range r.items {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		switch {
		case natural.Less(a, b):
			return -1
		case natural.Less(b, a):
			return 1
		}
		return 0
	})

	now := time.Now()
	var manifest strings.Builder
	for _, name := range names {
		it := r.items[name]
		stamp := it.stamp
		if stamp.IsZero() {
			stamp = now
		}
		origin := it.origin
		if origin == "" {
			origin = "(data)"
		}
		fmt.Fprintf(&manifest, "%s\t%s\t%s : %s\n", stamp.UTC().Format(time.UnixDate), name, origin, it.path)
	}
	if err := addMember(arc, "MANIFEST", now, strings.NewReader(manifest.String())); err != nil {
		return err
	}

	for _, name := range names {
		it := r.items[name]
		if it.path == "" {
			if err := addMember(arc, name, it.stamp, bytes.NewReader(it.data)); err != nil {
				return err
			}
			continue
		}
		if err := addFile(arc, name, it.path); err != nil {
			return err
		}
	}
	return nil
}

func addFile(arc *zip.Writer, name, path string) error {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return err
	}
	if !fi.Mode().IsRegular() {
		return nil
	}
	return addMember(arc, name, fi.ModTime(), f)
}

func addMember(arc *zip.Writer, name string, modified time.Time, src io.Reader) error {
	w, err := arc.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: modified})
	if err != nil {
		return fmt.Errorf("unable to add '%s' to report: %w", name, err)
	}
	if _, err := io.Copy(w, src); err != nil {
		return fmt.Errorf("unable to add '%s' to report: %w", name, err)
	}
	return nil
}
