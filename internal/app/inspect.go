package app

import (
	"context"
	"strings"

	"github.com/kac-dev/kac/internal/changelog"
	kacerrors "github.com/kac-dev/kac/internal/errors"
	"github.com/kac-dev/kac/internal/output"
	"github.com/spf13/afero"
)

// UnreleasedKeyword selects the pending entry in Notes.
const UnreleasedKeyword = "unreleased"

// Notes prints the release notes of one version to env.Stdout.
// The version is "v" prefix tolerant; UnreleasedKeyword selects the first
// unversioned entry.
func Notes(env Env, opts Options, version string) (*changelog.Release, error) {
	env = env.withDefaults()

	c, err := load(env, opts.File, env.path(opts.File))
	if err != nil {
		return nil, err
	}

	var rel *changelog.Release
	if strings.EqualFold(strings.TrimSpace(version), UnreleasedKeyword) {
		rel = c.Unreleased()
	} else {
		rel = c.Release(version)
	}
	if rel == nil {
		return nil, kacerrors.ReleaseNotFound(version, c.ListVersions())
	}

	if err := changelog.RenderNotes(rel, env.Stdout); err != nil {
		return nil, kacerrors.WrapWithMessage(err, kacerrors.IO, "writing release notes")
	}
	return rel, nil
}

// Check reports whether the changelog file already matches what a plain
// run would write. Nothing is written.
func Check(ctx context.Context, env Env, opts Options) (*Result, error) {
	env = env.withDefaults()
	out := output.New(env.Stdout, env.Stderr)
	res := &Result{Action: ActionChecked, Path: env.path(opts.File)}

	current, err := afero.ReadFile(env.Fs, res.Path)
	if err != nil {
		return nil, kacerrors.ChangelogNotFound(opts.File, err)
	}
	c, err := changelog.Parse(string(current))
	if err != nil {
		return nil, kacerrors.ChangelogInvalid(opts.File, err)
	}

	configure(c, opts)
	res.Changelog = c
	bind(env, out, opts, res)

	if err := ctx.Err(); err != nil {
		return nil, kacerrors.WrapWithMessage(err, kacerrors.IO, "aborted checking "+opts.File)
	}
	want, err := changelog.RenderString(c)
	if err != nil {
		return nil, kacerrors.WrapWithMessage(err, kacerrors.IO, "rendering "+opts.File)
	}
	if want != string(current) {
		env.Debugf("%s: %d bytes on disk, %d rendered", res.Path, len(current), len(want))
		return nil, kacerrors.ChangelogNotFormatted(opts.File)
	}

	out.Success("%s is up to date", opts.File)
	return res, nil
}
