// Package source resolves command line inputs into analyzable items: plain
// files, directory trees, zip archives and paths inside zip archives.
package source

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/maruel/natural"
	"go.uber.org/zap"

	"cssspec/archive"
)

// DefaultMaxSize limits size of a single input.
const DefaultMaxSize = 32 << 20

// DefaultExtensions are visited when Options.Extensions is empty.
var DefaultExtensions = []string{".css", ".html", ".htm"}

// ErrNotFound is returned when source path does not exist.
var ErrNotFound = errors.New("input source was not found")

// Options control which files are picked up.
type Options struct {
	// Extensions of files to analyze, compared case insensitively.
	Extensions []string
	// MaxSize of a single input in bytes, non-positive means DefaultMaxSize.
	MaxSize int64
}

func (o Options) matches(name string) bool {
	exts := o.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	ext := strings.ToLower(filepath.Ext(name))
	return slices.ContainsFunc(exts, func(e string) bool {
		return strings.EqualFold(e, ext)
	})
}

func (o Options) maxSize() int64 {
	if o.MaxSize <= 0 {
		return DefaultMaxSize
	}
	return o.MaxSize
}

// Item is a single input. Name identifies it in reports: file path or
// "archive/path-in-archive". Rel is the part of the name relative to what
// was requested and is used to derive output names.
type Item struct {
	Name string
	Rel  string

	load func() ([]byte, error)
}

// Read returns raw content of item.
func (it Item) Read() ([]byte, error) {
	if it.load == nil {
		return nil, fmt.Errorf("%s: nothing to read", it.Name)
	}
	return it.load()
}

// IsHTML reports whether item should be treated as HTML document.
func (it Item) IsHTML() bool {
	switch strings.ToLower(filepath.Ext(it.Name)) {
	case ".html", ".htm", ".xhtml":
		return true
	}
	return false
}

// Collect resolves src into items sorted in natural order. Unreadable entries
// inside directories are logged and skipped, errors are returned only when
// src itself cannot be resolved.
func Collect(ctx context.Context, src string, opts Options, log *zap.Logger) ([]Item, error) {
	if log == nil {
		log = zap.NewNop()
	}
	c := &collector{opts: opts, log: log.Named("source")}
	if err := c.resolve(ctx, src); err != nil {
		return nil, err
	}
	slices.SortStableFunc(c.items, func(a, b Item) int {
		switch {
		case natural.Less(a.Name, b.Name):
			return -1
		case natural.Less(b.Name, a.Name):
			return 1
		}
		return 0
	})
	return c.items, nil
}

type collector struct {
	opts  Options
	log   *zap.Logger
	items []Item
}

// resolve walks src from the full path toward the root looking for the first
// existing component: it may be a directory, a file or an archive with the
// rest of the path pointing inside it.
func (c *collector) resolve(ctx context.Context, src string) error {
	src = filepath.Clean(src)

	var head, tail string
	for head = src; len(head) != 0; head, tail = filepath.Split(head) {
		if err := ctx.Err(); err != nil {
			return err
		}
		head = strings.TrimSuffix(head, string(filepath.Separator))
		if head == "" {
			break
		}

		fi, err := os.Stat(head)
		if err != nil {
			// does not exist - probably path in archive
			continue
		}

		if fi.Mode().IsDir() {
			if len(tail) != 0 {
				return fmt.Errorf("%w (%s) => (%s)", ErrNotFound, head, strings.TrimPrefix(src, head))
			}
			return c.dir(ctx, head)
		}

		if !fi.Mode().IsRegular() {
			return fmt.Errorf("unexpected path mode for (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}

		isArchive, err := archive.IsArchive(head)
		if err != nil {
			return fmt.Errorf("unable to check archive type: %w", err)
		}
		if isArchive {
			inner := strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator))
			return c.archive(ctx, head, filepath.ToSlash(inner), "")
		}

		if src != head {
			return fmt.Errorf("%w (%s) => (%s)", ErrNotFound, head, strings.TrimPrefix(src, head))
		}
		// explicitly named file is analyzed whatever its extension
		c.file(head, filepath.Base(head))
		return nil
	}
	return fmt.Errorf("%w (%s)", ErrNotFound, src)
}

func (c *collector) dir(ctx context.Context, dir string) error {
	before := len(c.items)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			c.log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel := strings.TrimPrefix(strings.TrimPrefix(path, dir), string(filepath.Separator))
		if c.opts.matches(path) {
			c.file(path, rel)
			return nil
		}

		isArchive, err := archive.IsArchive(path)
		if err != nil {
			c.log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			return nil
		}
		if !isArchive {
			c.log.Debug("Skipping file, not recognized as stylesheet or archive", zap.String("file", path))
			return nil
		}
		if err := c.archive(ctx, path, "", rel); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.log.Error("Unable to process archive", zap.String("file", path), zap.Error(err))
		}
		return nil
	})
	if err == nil && len(c.items) == before {
		c.log.Debug("Nothing to process", zap.String("dir", dir))
	}
	return err
}

func (c *collector) file(path, rel string) {
	limit := c.opts.maxSize()
	c.items = append(c.items, Item{
		Name: path,
		Rel:  rel,
		load: func() ([]byte, error) {
			fi, err := os.Stat(path)
			if err != nil {
				return nil, err
			}
			if fi.Size() > limit {
				return nil, fmt.Errorf("%s: file is too large (%d bytes)", path, fi.Size())
			}
			return os.ReadFile(path)
		},
	})
}

// archive collects entries under pathIn. Archive content is read right away
// since the archive is closed when the walk is over.
func (c *collector) archive(ctx context.Context, path, pathIn, relOut string) error {
	before := len(c.items)
	limit := c.opts.maxSize()
	err := archive.Walk(ctx, path, pathIn, func(arc string, f *zip.File) error {
		if !c.opts.matches(f.Name) && f.Name != pathIn {
			c.log.Debug("Skipping file in archive", zap.String("archive", arc), zap.String("file", f.Name))
			return nil
		}
		data, err := archive.ReadFile(f, limit)
		name := filepath.Join(arc, filepath.FromSlash(f.Name))
		c.items = append(c.items, Item{
			Name: name,
			Rel:  filepath.Join(relOut, filepath.FromSlash(f.Name)),
			load: func() ([]byte, error) { return data, err },
		})
		return nil
	})
	if err == nil && len(c.items) == before {
		if pathIn != "" {
			return fmt.Errorf("%w (%s) => (%s)", ErrNotFound, path, pathIn)
		}
		c.log.Debug("Nothing to process", zap.String("archive", path))
	}
	return err
}
