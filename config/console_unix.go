//go:build !windows

package config

import (
	"os"

	"golang.org/x/term"
)

const reservedFileChars = string(os.PathSeparator) + string(os.PathListSeparator)

func enableTerminalColors(stream *os.File) bool {
	return term.IsTerminal(int(stream.Fd()))
}
