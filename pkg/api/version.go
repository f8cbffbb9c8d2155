package api

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

const versionLogPrefix = "api:version"

// Version is the Build API version reported by ApiService/GetVersion.
const Version = "1.4.0"

// CurrentVersion returns Version parsed as a semantic version.
func CurrentVersion() *semver.Version {
	return semver.MustParse(Version)
}

// CheckVersion reports an error unless the current version satisfies the
// given constraint (e.g. ">= 1.2"). An empty constraint always passes.
func CheckVersion(constraint string) error {
	if constraint == "" {
		return nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("%s - invalid version constraint %q: %w", versionLogPrefix, constraint, err)
	}
	if !c.Check(CurrentVersion()) {
		return fmt.Errorf("%s - build api version %s does not satisfy %q", versionLogPrefix, Version, constraint)
	}
	return nil
}
