package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CheckConstraint reports whether engineVersion satisfies the semver
// constraint declared by a strategy file (e.g. "^1.0", ">= 1.0, < 2").
//
// An empty constraint accepts any engine. A "main" engine version is a
// development build and skips the check.
func CheckConstraint(engineVersion, constraint string) error {
	constraint = strings.TrimSpace(constraint)
	if constraint == "" {
		return nil
	}

	engineVersion = strings.TrimPrefix(engineVersion, "v")
	if engineVersion == "main" {
		return nil
	}

	engineSemver, err := semver.NewVersion(engineVersion)
	if err != nil {
		return fmt.Errorf("invalid engine version '%s': %w", engineVersion, err)
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("invalid version constraint '%s': %w", constraint, err)
	}

	if ok, errs := c.Validate(engineSemver); !ok {
		reasons := make([]string, 0, len(errs))
		for _, e := range errs {
			reasons = append(reasons, e.Error())
		}

		return fmt.Errorf("engine %s does not satisfy '%s': %s", engineSemver, constraint, strings.Join(reasons, "; "))
	}

	return nil
}
