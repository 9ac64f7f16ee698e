package version

import "fmt"

// set via ldflags at build time
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

var FullVersion = func() string {
	if Commit != "" {
		return fmt.Sprintf("%s (%s, built %s)", Version, Commit, Date)
	}
	return Version
}()
