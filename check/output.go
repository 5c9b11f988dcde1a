package check

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gosimple/slug"

	"cssspec/common"
	"cssspec/config"
)

func extension(format common.OutputFormat) string {
	switch format {
	case common.OutputFormatJson:
		return ".json"
	case common.OutputFormatYaml:
		return ".yaml"
	default:
		return ".txt"
	}
}

// namer assigns unique file names in destination directory to analyzed
// sources.
type namer struct {
	dir  string
	ext  string
	used map[string]int
}

func newNamer(dir string, format common.OutputFormat) *namer {
	return &namer{dir: dir, ext: extension(format), used: make(map[string]int)}
}

// name derives file name from source path: transliterated stem, original
// extension and format extension, "site/Main Menu.css" becomes
// "main-menu.css.json".
func (n *namer) name(src string) string {
	base := filepath.Base(src)
	srcExt := strings.ToLower(filepath.Ext(base))
	stem := slug.Make(strings.TrimSuffix(base, filepath.Ext(base)))
	if len(stem) == 0 {
		stem = "stylesheet"
	}
	name := config.CleanFileName(stem + srcExt)

	n.used[name]++
	if count := n.used[name]; count > 1 {
		name += "-" + strconv.Itoa(count)
	}
	return name + n.ext
}

// write stores data under name derived from src and returns full path.
func (n *namer) write(src string, data []byte) (string, error) {
	if err := os.MkdirAll(n.dir, 0755); err != nil {
		return "", fmt.Errorf("unable to create destination directory '%s': %w", n.dir, err)
	}
	path := filepath.Join(n.dir, n.name(src))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("unable to write results to '%s': %w", path, err)
	}
	return path, nil
}

func (n *namer) rel(path string) string {
	if rel, err := filepath.Rel(n.dir, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return filepath.Base(path)
}
