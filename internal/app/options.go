package app

import (
	"fmt"

	"github.com/kac-dev/kac/internal/changelog"
)

// Presence is the tag of an Optional.
type Presence int

const (
	// Absent means the flag was not given.
	Absent Presence = iota
	// Flag means the flag was given without a value.
	Flag
	// Value means the flag was given with a value.
	Value
)

func (p Presence) String() string {
	switch p {
	case Flag:
		return "flag"
	case Value:
		return "value"
	default:
		return "absent"
	}
}

// Optional is a flag that may be absent, given bare, or given a value.
// Only a Value carries a non-empty Text.
type Optional struct {
	Presence Presence
	Text     string
}

// NewFlag returns an Optional given without a value.
func NewFlag() Optional {
	return Optional{Presence: Flag}
}

// NewValue returns an Optional holding text.
func NewValue(text string) Optional {
	return Optional{Presence: Value, Text: text}
}

// IsSet reports whether the flag was given at all.
func (o Optional) IsSet() bool {
	return o.Presence != Absent
}

func (o Optional) String() string {
	if o.Presence == Value {
		return fmt.Sprintf("%s(%s)", o.Presence, o.Text)
	}
	return o.Presence.String()
}

// versionRequest converts a set Optional into the promote constraint.
func (o Optional) versionRequest() changelog.VersionRequest {
	if o.Presence == Value {
		return changelog.SpecificVersion(o.Text)
	}
	return changelog.AnyVersion()
}

// Options are the resolved settings of one invocation.
type Options struct {
	// File is the changelog path, relative to Env.Dir unless absolute.
	File   string
	Format changelog.Format

	Init          bool
	LatestRelease bool
	Release       Optional
	Create        Optional

	// URL overrides the repository URL stored in the file and the git remote.
	URL string
	// HTTPS selects https over http when rewriting ssh remotes.
	HTTPS bool
	// Head overrides the head ref after provider settings are applied.
	Head      string
	NoVPrefix bool
}

// DefaultOptions returns the options of a bare "kac" invocation.
func DefaultOptions() Options {
	return Options{
		File:   "CHANGELOG.md",
		Format: changelog.FormatCompact,
		HTTPS:  true,
	}
}
