package folio

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the release of the library.
var Version = strings.TrimSpace(version)
