package version

// Version is the current version of chartsync.
// This value is set at build time using ldflags:
// -ldflags "-X github.com/rxtech-lab/argo-charts/internal/version.Version=1.2.3"
// The value "main" indicates a development build.
var Version = "v0.3.0"

// CacheFormat is the layout version of the parquet cache directory written by this build.
// Bump the minor version when columns are added, the major version when the file naming changes.
const CacheFormat = "1.0.0"

// GetVersion returns the current version of the binary.
func GetVersion() string {
	return Version
}
