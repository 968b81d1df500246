// Package buildinfo carries version metadata stamped at link time with
// -ldflags "-X github.com/awaken-dev/awaken/internal/buildinfo.Version=...".
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func String() string {
	return fmt.Sprintf("awaken-api %s (commit=%s, date=%s)", Version, Commit, Date)
}
