package changelog

import (
	"sort"
	"strings"
	"time"
)

// Format selects the markdown flavor used when rendering.
type Format string

const (
	// FormatCompact renders headings and lists without blank lines after headings.
	FormatCompact Format = "compact"
	// FormatMarkdownLint surrounds every heading with blank lines so the
	// output passes markdownlint's default rule set.
	FormatMarkdownLint Format = "markdownlint"
)

// ParseFormat converts a user supplied format name into a Format.
func ParseFormat(s string) (Format, bool) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCompact:
		return FormatCompact, true
	case FormatMarkdownLint:
		return FormatMarkdownLint, true
	default:
		return "", false
	}
}

// DefaultHead is the head ref used in comparison links when nothing else is known.
const DefaultHead = "HEAD"

// Changelog is the parsed form of a CHANGELOG.md file.
// Releases are ordered newest first; the order is preserved as parsed and
// new releases are inserted at the front.
type Changelog struct {
	Title       string
	Description string
	Releases    []*Release

	// Links holds footer link definitions that do not belong to a release.
	Links []Link

	Format    Format
	URL       string
	Head      string
	TagNamer  TagNamer
	TagLinker TagLinker
}

// Release is a single version section of the changelog.
// An empty Version means the release is not versioned yet and a zero Date
// means it has not been released.
type Release struct {
	Version     string
	Date        time.Time
	Yanked      bool
	Description string
	Changes     Changes
}

// Link is a markdown reference-style link definition.
type Link struct {
	Label string
	URL   string
}

// Change types defined by Keep a Changelog, in rendering order.
const (
	Added      = "added"
	Changed    = "changed"
	Deprecated = "deprecated"
	Removed    = "removed"
	Fixed      = "fixed"
	Security   = "security"
)

// ValidCategories returns the Keep a Changelog change types in their
// standard rendering order.
func ValidCategories() []string {
	return []string{Added, Changed, Deprecated, Removed, Fixed, Security}
}

// Changes groups change entries by lowercase change type.
type Changes map[string][]string

// Add appends an entry under the given change type.
func (c Changes) Add(changeType, text string) {
	key := strings.ToLower(strings.TrimSpace(changeType))
	c[key] = append(c[key], text)
}

// Count returns the total number of entries across all change types.
func (c Changes) Count() int {
	n := 0
	for _, entries := range c {
		n += len(entries)
	}
	return n
}

// IsEmpty returns true if there are no entries.
func (c Changes) IsEmpty() bool {
	return c.Count() == 0
}

// Types returns the non-empty change types: the standard ones first in
// Keep a Changelog order, followed by any other types sorted by name.
func (c Changes) Types() []string {
	var types []string
	standard := make(map[string]bool)
	for _, t := range ValidCategories() {
		standard[t] = true
		if len(c[t]) > 0 {
			types = append(types, t)
		}
	}

	var extra []string
	for t, entries := range c {
		if !standard[t] && len(entries) > 0 {
			extra = append(extra, t)
		}
	}
	sort.Strings(extra)

	return append(types, extra...)
}

// New returns an empty changelog with the default rendering settings.
func New(title string) *Changelog {
	return &Changelog{
		Title:     title,
		Format:    FormatCompact,
		Head:      DefaultHead,
		TagNamer:  DefaultTagNamer,
		TagLinker: DefaultTagLinker,
	}
}

// NewRelease returns an unreleased entry with the given version ("" for none).
func NewRelease(version string) *Release {
	return &Release{
		Version: version,
		Changes: Changes{},
	}
}

// HasVersion reports whether a version identifier is set.
func (r *Release) HasVersion() bool {
	return r.Version != ""
}

// HasDate reports whether the release has been dated.
func (r *Release) HasDate() bool {
	return !r.Date.IsZero()
}

// IsReleased reports whether the release carries both a version and a date.
func (r *Release) IsReleased() bool {
	return r.HasVersion() && r.HasDate()
}

// SetVersion assigns a version, dropping a leading "v" so that tag naming
// stays under the control of the changelog's TagNamer.
func (r *Release) SetVersion(version string) {
	r.Version = NormalizeVersion(version)
}

// NormalizeVersion trims whitespace and a single "v"/"V" prefix when it is
// followed by a digit. This allows accepting both "v0.6.0" and "0.6.0".
func NormalizeVersion(version string) string {
	v := strings.TrimSpace(version)
	if len(v) > 1 && (v[0] == 'v' || v[0] == 'V') && v[1] >= '0' && v[1] <= '9' {
		return v[1:]
	}
	return v
}

// FormatDate renders a release date the way it appears in headers.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

const dateLayout = "2006-01-02"
