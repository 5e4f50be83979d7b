package smartnotes

import (
	_ "embed"
)

// Version is the release of the library, read from the VERSION file at build time.
//
//go:embed VERSION
var Version string
