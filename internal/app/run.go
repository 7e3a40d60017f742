// Package app runs one kac invocation: load or create the changelog,
// apply the requested release operations and write the result back.
//
// Everything process specific (working directory, filesystem, clock,
// output streams, git remote lookup) comes in through Env.
package app

import (
	"context"
	"strings"
	"time"

	"github.com/kac-dev/kac/internal/changelog"
	kacerrors "github.com/kac-dev/kac/internal/errors"
	"github.com/kac-dev/kac/internal/git"
	"github.com/kac-dev/kac/internal/output"
	"github.com/kac-dev/kac/internal/provider"
)

// PlaceholderURL is written when no repository URL is known.
const PlaceholderURL = "https://example.com"

// Action is the outcome of a successful Run.
type Action int

const (
	// ActionUpdated means an existing changelog was rewritten.
	ActionUpdated Action = iota
	// ActionGenerated means a new changelog was written.
	ActionGenerated
	// ActionPrinted means the latest release was printed and nothing written.
	ActionPrinted
	// ActionChecked means the file was compared with its rendered form.
	ActionChecked
)

// Result describes what Run did.
type Result struct {
	Action    Action
	Path      string
	Changelog *changelog.Changelog

	// Latest is the release printed for --latest-release, nil if none.
	Latest   *changelog.Release
	Promoted *changelog.Release
	Created  *changelog.Release

	URL string
	// Provider is the matched hosting provider, "" when unknown.
	Provider string
}

// Run executes one invocation. Errors are *errors.CLIError values.
func Run(ctx context.Context, env Env, opts Options) (*Result, error) {
	env = env.withDefaults()
	out := output.New(env.Stdout, env.Stderr)
	res := &Result{Path: env.path(opts.File)}

	if opts.Init {
		res.Action = ActionGenerated
		res.Changelog = initial(env.Now())
		configure(res.Changelog, opts)
		if err := save(ctx, env, out, opts, res); err != nil {
			return nil, err
		}
		return res, nil
	}

	c, err := load(env, opts.File, res.Path)
	if err != nil {
		return nil, err
	}

	configure(c, opts)
	res.Changelog = c

	if opts.LatestRelease {
		res.Action = ActionPrinted
		if latest := c.LatestReleased(); latest != nil {
			res.Latest = latest
			out.Result(latest.Version)
		}
		return res, nil
	}

	if opts.Release.IsSet() {
		promoted, err := c.PromoteUnreleased(opts.Release.versionRequest(), env.Now())
		if err != nil {
			return nil, kacerrors.NoUnreleasedVersion(err)
		}
		env.Debugf("promoted %q to %s", promoted.Version, changelog.FormatDate(promoted.Date))
		res.Promoted = promoted
	}

	if opts.Create.IsSet() {
		res.Created = c.CreateRelease(opts.Create.Text)
		env.Debugf("created unreleased entry %q", res.Created.Version)
	}

	res.Action = ActionUpdated
	if err := save(ctx, env, out, opts, res); err != nil {
		return nil, err
	}
	return res, nil
}

func load(env Env, file, path string) (*changelog.Changelog, error) {
	c, err := changelog.Load(env.Fs, path)
	if err != nil {
		if changelog.IsParseError(err) {
			return nil, kacerrors.ChangelogInvalid(file, err)
		}
		return nil, kacerrors.ChangelogNotFound(file, err)
	}
	env.Debugf("loaded %s: %d releases", path, len(c.Releases))
	return c, nil
}

// initial is the content of a freshly generated changelog.
func initial(now time.Time) *changelog.Changelog {
	c := changelog.New("Changelog")
	first := changelog.NewRelease("0.1.0")
	first.Date = now
	first.Description = "First version"
	c.Releases = []*changelog.Release{first}
	return c
}

// configure applies the output options that do not depend on the URL.
func configure(c *changelog.Changelog, opts Options) {
	c.Format = opts.Format
	if c.Format == "" {
		c.Format = changelog.FormatCompact
	}
	if opts.NoVPrefix {
		c.TagNamer = changelog.BareTagNamer
	}
}

// bind resolves the repository URL and attaches the provider settings.
func bind(env Env, out *output.Printer, opts Options, res *Result) {
	res.URL = resolveURL(env, out, opts, res.Changelog)
	settings, ok := provider.Bind(res.Changelog, res.URL, opts.Head)
	if ok {
		res.Provider = settings.Name
		env.Debugf("provider %s for %s", settings.Name, res.URL)
	} else {
		env.Debugf("no provider for %s (known: %s)", res.URL, strings.Join(provider.Names(), ", "))
	}
}

// save binds the provider settings and writes the changelog.
func save(ctx context.Context, env Env, out *output.Printer, opts Options, res *Result) error {
	c := res.Changelog
	bind(env, out, opts, res)

	if err := ctx.Err(); err != nil {
		return kacerrors.WrapWithMessage(err, kacerrors.IO, "aborted before writing "+opts.File)
	}
	if err := changelog.Save(env.Fs, res.Path, c); err != nil {
		return kacerrors.ChangelogNotWritable(opts.File, err)
	}

	if res.Action == ActionGenerated {
		out.Success("Generated new file %s", res.Path)
	} else {
		out.Success("Updated file %s", res.Path)
	}
	return nil
}

// resolveURL picks the first of: the --url option, the URL recorded in the
// file, the git remote. Invalid or missing URLs fall back to PlaceholderURL
// with a warning.
func resolveURL(env Env, out *output.Printer, opts Options, c *changelog.Changelog) string {
	url := opts.URL
	if url == "" {
		url = c.URL
	}
	if url == "" {
		remote, err := env.Remote.ResolveRemoteURL(env.Dir, opts.HTTPS)
		if err != nil {
			out.Warning("%v", err)
		}
		url = remote
	}

	if url != "" {
		if err := git.ValidateURL(url); err != nil {
			out.Warning("%v", err)
			url = ""
		}
	}

	if url == "" {
		out.Warning("%s", kacerrors.MissingRepositoryURL())
		return PlaceholderURL
	}
	return url
}
