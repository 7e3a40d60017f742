package errors

import (
	"fmt"
	"strings"
)

// Common error messages for the kac CLI.

// ChangelogNotFound creates an error for a missing changelog file.
func ChangelogNotFound(path string, err error) *CLIError {
	return WrapWithMessage(err, IO, fmt.Sprintf("cannot read %s", path),
		"Check the --file flag or the 'file' config key",
		"Run 'kac --init' to generate a new changelog",
	)
}

// ChangelogInvalid creates an error for a changelog that could not be parsed.
func ChangelogInvalid(path string, err error) *CLIError {
	return WrapWithMessage(err, Parse, fmt.Sprintf("cannot parse %s", path),
		"The file must start with a '# Title' heading",
		"Release headings look like '## [1.2.0] - 2024-05-01'",
		"See https://keepachangelog.com/en/1.1.0/ for the format",
	)
}

// ChangelogNotWritable creates an error for a failed write.
func ChangelogNotWritable(path string, err error) *CLIError {
	return WrapWithMessage(err, IO, fmt.Sprintf("cannot write %s", path),
		"Check that the directory exists and is writable",
	)
}

// NoUnreleasedVersion creates an error when --release finds nothing to promote.
func NoUnreleasedVersion(err error) *CLIError {
	return WrapWithMessage(err, Selection, "not found any valid unreleased version",
		"Add an '## [Unreleased]' section, or create one with 'kac --create'",
		"Pass the version explicitly: kac --release=1.2.0",
	)
}

// InvalidFormat creates an error for an unknown --format value.
func InvalidFormat(provided string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("invalid format: %q", provided),
		"kac --format=<compact|markdownlint>",
		"Use 'compact' (default) or 'markdownlint'",
	)
}

// TooManyArguments creates an error for positional arguments that cannot be bound.
func TooManyArguments(args []string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("unexpected arguments: %v", args),
		"kac [--release[=<version>] | --create[=<version>]] [flags]",
		"A single version may follow --release or --create given without a value",
	)
}

// ConfigInvalid wraps a configuration load failure.
func ConfigInvalid(err error) *CLIError {
	return Wrap(err, Configuration,
		"Check .kac.yml and ~/.config/kac/config.yml for typos",
		"Environment variables use the KAC_ prefix, e.g. KAC_FORMAT=markdownlint",
	)
}

// MissingRepositoryURL is the warning printed when no repository URL is known.
func MissingRepositoryURL() string {
	return `Please, set the repository url with --url="https://github.com/username/repository"`
}

// ReleaseNotFound creates an error for a version missing from the changelog.
func ReleaseNotFound(version string, available []string) *CLIError {
	remediation := []string{"Use 'unreleased' for the pending entry"}
	if len(available) > 0 {
		remediation = append(remediation, "Available versions: "+strings.Join(available, ", "))
	}
	return NewSelectionError(fmt.Sprintf("version %q not found", version), remediation...)
}

// ChangelogNotFormatted creates an error for a file that differs from its
// rendered form.
func ChangelogNotFormatted(path string) *CLIError {
	return NewParseError(fmt.Sprintf("%s is not up to date", path),
		"Run 'kac' to rewrite it",
	)
}
