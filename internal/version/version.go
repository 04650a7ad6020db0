// Package version holds build-time version and commit (set via ldflags).
package version

import "fmt"

// Version is the semantic version (e.g. "1.0.0"). Set at build: -ldflags "-X github.com/menezmethod/handlerchain/internal/version.Version=..."
var Version = "dev"

// Commit is the git commit hash. Set at build: -ldflags "-X github.com/menezmethod/handlerchain/internal/version.Commit=..."
var Commit = ""

// String returns "<program> <version>" with the commit appended when known.
func String(program string) string {
	if Commit == "" {
		return fmt.Sprintf("%s %s", program, Version)
	}
	return fmt.Sprintf("%s %s (%s)", program, Version, Commit)
}
