package config

import (
	"os"
	"strings"
)

// CleanFileName makes name usable as a single file name in a destination
// directory: separators and characters reserved by the platform are dropped,
// as are leading dots.
func CleanFileName(name string) string {
	out := strings.TrimLeft(strings.Map(func(sym rune) rune {
		if sym == 0 || strings.ContainsRune(reservedFileChars, sym) {
			return -1
		}
		return sym
	}, name), ".")
	if len(out) == 0 {
		out = "_bad_file_name_"
	}
	return out
}

// EnableColorOutput reports whether colored log output may be written to
// stream. NO_COLOR environment variable always disables it.
func EnableColorOutput(stream *os.File) bool {
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	return enableTerminalColors(stream)
}
