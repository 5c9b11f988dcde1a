// Package misc keeps program identity: name, version and source revision.
package misc

import (
	"runtime/debug"
)

// Set with -ldflags "-X cssspec/misc.version=... -X cssspec/misc.gitHash=...".
var (
	appName = "cssspec"
	version = "dev"
	gitHash = ""
)

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

// GetGitHash returns revision program was built from, falling back to VCS
// information recorded by the toolchain.
func GetGitHash() string {
	if len(gitHash) > 0 {
		return gitHash
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
