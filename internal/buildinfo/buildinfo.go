// Package buildinfo exposes link-time build metadata and the project footer.
//
// Values are injected with -ldflags, e.g.:
//
//	go build -ldflags "-X github.com/dmitrijs2005/vaultacks/internal/buildinfo.buildVersion=v1.0.0"
package buildinfo

import (
	"fmt"
	"io"
)

// RepositoryURL is where the source code lives; shown in the CLI footer.
const RepositoryURL = "https://github.com/dmitrijs2005/vaultacks"

var (
	buildVersion = "N/A"
	buildDate    = "N/A"
	buildCommit  = "N/A"
)

// PrintBuildData writes version, date and commit, one per line.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", buildVersion)
	fmt.Fprintf(w, "Build date: %s\n", buildDate)
	fmt.Fprintf(w, "Build commit: %s\n", buildCommit)
}

// PrintFooter writes the footer shown below the file listing.
func PrintFooter(w io.Writer) {
	fmt.Fprintf(w, "The code for this is available on GitHub, %s (%s)\n", RepositoryURL, buildVersion)
}
