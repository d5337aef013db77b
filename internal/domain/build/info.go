// Package build describes the running binary.
package build

import "fmt"

const (
	// Repository is the project home page.
	Repository = "https://github.com/bnema/spaced"
	// Author is shown by the about screen.
	Author = "bnema"
)

// Info is filled from ldflags at link time.
type Info struct {
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
}

// String formats the version line printed by `spaced version`.
func (i Info) String() string {
	if i.Commit == "" || i.Commit == "unknown" {
		return i.Version
	}
	commit := i.Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return fmt.Sprintf("%s (%s)", i.Version, commit)
}
