package changelog

import (
	"errors"
	"fmt"
	"time"
)

// SelectionError is returned when no release satisfies the requested operation.
type SelectionError struct {
	Requested string
}

func (e *SelectionError) Error() string {
	if e.Requested != "" {
		return fmt.Sprintf("no unreleased version available for %q", e.Requested)
	}
	return "no unreleased version available"
}

// IsSelectionError returns true if the error is a SelectionError.
func IsSelectionError(err error) bool {
	var se *SelectionError
	return errors.As(err, &se)
}

// VersionRequest selects the version constraint for PromoteUnreleased:
// either a specific version string or any version already set.
type VersionRequest struct {
	version  string
	specific bool
}

// AnyVersion matches unreleased entries that already carry a version.
func AnyVersion() VersionRequest {
	return VersionRequest{}
}

// SpecificVersion matches unreleased entries without a version or with the
// given version, and assigns it on promotion.
func SpecificVersion(version string) VersionRequest {
	return VersionRequest{version: version, specific: true}
}

// Version returns the requested version and whether one was given.
func (v VersionRequest) Version() (string, bool) {
	return v.version, v.specific
}

func (v VersionRequest) String() string {
	if v.specific {
		return v.version
	}
	return "any"
}

// LatestReleased returns the most recent entry that has both a version and
// a date. Returns nil if there is none.
func (c *Changelog) LatestReleased() *Release {
	for _, r := range c.Releases {
		if r.IsReleased() {
			return r
		}
	}
	return nil
}

// PromoteUnreleased dates the most recent unreleased entry matching req.
//
// For a specific version the entry must have no version or the same one; the
// requested version is assigned. For any version the first undated entry
// with a version wins; failing that, the first undated entry without a
// version is released as is.
func (c *Changelog) PromoteUnreleased(req VersionRequest, now time.Time) (*Release, error) {
	target := c.findUnreleased(req)
	if target == nil {
		return nil, &SelectionError{Requested: req.version}
	}

	target.Date = now
	if version, ok := req.Version(); ok {
		target.SetVersion(version)
	}
	return target, nil
}

func (c *Changelog) findUnreleased(req VersionRequest) *Release {
	requested, specific := req.Version()
	requested = NormalizeVersion(requested)

	var unversioned *Release
	for _, r := range c.Releases {
		if r.HasDate() {
			continue
		}

		if specific {
			if !r.HasVersion() || r.Version == requested {
				return r
			}
			continue
		}

		if r.HasVersion() {
			return r
		}
		if unversioned == nil {
			unversioned = r
		}
	}
	return unversioned
}

// CreateRelease inserts a new unreleased entry at the front of the changelog.
// An empty version leaves the entry unversioned.
func (c *Changelog) CreateRelease(version string) *Release {
	r := NewRelease(NormalizeVersion(version))
	c.Releases = append([]*Release{r}, c.Releases...)
	return r
}

// Release returns the entry with the given version ("v" prefix tolerant),
// or nil if none matches.
func (c *Changelog) Release(version string) *Release {
	normalized := NormalizeVersion(version)
	if normalized == "" {
		return nil
	}
	for _, r := range c.Releases {
		if r.Version == normalized {
			return r
		}
	}
	return nil
}

// Unreleased returns the first entry without a version, or nil.
func (c *Changelog) Unreleased() *Release {
	for _, r := range c.Releases {
		if !r.HasVersion() {
			return r
		}
	}
	return nil
}

// ListVersions returns the version identifiers in document order,
// skipping unversioned entries.
func (c *Changelog) ListVersions() []string {
	versions := make([]string, 0, len(c.Releases))
	for _, r := range c.Releases {
		if r.HasVersion() {
			versions = append(versions, r.Version)
		}
	}
	return versions
}
