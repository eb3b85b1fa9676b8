// Package version reports the reval build version.
package version

import (
	"runtime"
	"runtime/debug"
	"slices"
)

var version = "dev"

const grammarModule = "github.com/tree-sitter/tree-sitter-typescript"

// Version returns the version string with the linked TypeScript grammar
// version as a suffix when known.
func Version() string {
	if g := GrammarVersion(); g != "" {
		return version + " (tree-sitter-typescript " + g + ")"
	}
	return version
}

// RawVersion returns the semantic version string without any suffix.
func RawVersion() string {
	return version
}

// GrammarVersion returns the linked tree-sitter TypeScript grammar version.
func GrammarVersion() string {
	g, _ := readBuildInfo()
	return g
}

// Commit returns the short VCS revision, or "" when not stamped.
func Commit() string {
	_, c := readBuildInfo()
	return c
}

// GoVersion returns the Go toolchain version used for the build.
func GoVersion() string {
	return runtime.Version()
}

func readBuildInfo() (string, string) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", ""
	}
	var grammar, commit string
	if idx := slices.IndexFunc(info.Deps, func(dep *debug.Module) bool {
		return dep.Path == grammarModule
	}); idx >= 0 {
		grammar = info.Deps[idx].Version
	}
	if idx := slices.IndexFunc(info.Settings, func(s debug.BuildSetting) bool {
		return s.Key == "vcs.revision"
	}); idx >= 0 {
		commit = info.Settings[idx].Value
		if len(commit) > 12 {
			commit = commit[:12]
		}
	}
	return grammar, commit
}

// Info is the machine-readable build description.
type Info struct {
	Version   string `json:"version"`
	Grammar   string `json:"treeSitterTypeScript,omitempty"`
	Commit    string `json:"commit,omitempty"`
	GoVersion string `json:"goVersion"`
}

// GetInfo collects the build description.
func GetInfo() Info {
	grammar, commit := readBuildInfo()
	return Info{
		Version:   version,
		Grammar:   grammar,
		Commit:    commit,
		GoVersion: GoVersion(),
	}
}
