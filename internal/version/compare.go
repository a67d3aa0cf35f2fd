package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CheckCacheCompatibility checks if a cache directory written with storedFormat can be
// read by a build that writes currentFormat. Returns nil if compatible.
//
// Compatibility Rules:
//   - If either version is "main" (development build), the check is skipped
//   - Major versions must match exactly
//   - The stored minor version must not be newer than the current one
//   - Patch versions can differ
//
// Examples:
//   - Current 1.2.0, stored 1.2.0 -> OK
//   - Current 1.2.0, stored 1.1.4 -> OK (older columns are a subset)
//   - Current 1.2.0, stored 1.3.0 -> ERROR (written by a newer build)
//   - Current 2.0.0, stored 1.2.0 -> ERROR (file layout changed)
func CheckCacheCompatibility(currentFormat, storedFormat string) error {
	currentFormat = strings.TrimPrefix(strings.TrimSpace(currentFormat), "v")
	storedFormat = strings.TrimPrefix(strings.TrimSpace(storedFormat), "v")

	if currentFormat == "main" || storedFormat == "main" {
		return nil
	}

	current, err := semver.NewVersion(currentFormat)
	if err != nil {
		return fmt.Errorf("invalid cache format version '%s': %w", currentFormat, err)
	}

	stored, err := semver.NewVersion(storedFormat)
	if err != nil {
		return fmt.Errorf("invalid stored cache format version '%s': %w", storedFormat, err)
	}

	if current.Major() != stored.Major() {
		return fmt.Errorf("major version mismatch: cache was written as %d.x.x but this build reads %d.x.x",
			stored.Major(), current.Major())
	}

	if stored.Minor() > current.Minor() {
		return fmt.Errorf("cache was written by a newer build: %d.%d.x is newer than %d.%d.x",
			stored.Major(), stored.Minor(), current.Major(), current.Minor())
	}

	return nil
}
