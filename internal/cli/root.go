// Package cli implements the kac command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/kac-dev/kac/internal/app"
	"github.com/kac-dev/kac/internal/changelog"
	"github.com/kac-dev/kac/internal/config"
	kacerrors "github.com/kac-dev/kac/internal/errors"
	"github.com/kac-dev/kac/internal/git"
	"github.com/kac-dev/kac/internal/output"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// deps are the process resources the root command runs against.
type deps struct {
	getwd  func() (string, error)
	fs     afero.Fs
	now    func() time.Time
	remote app.RemoteResolver
	stdout io.Writer
	stderr io.Writer
}

func defaultDeps() deps {
	return deps{
		getwd:  os.Getwd,
		fs:     afero.NewOsFs(),
		now:    time.Now,
		remote: git.Resolver{},
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// rootFlags holds the parsed command line.
type rootFlags struct {
	file       string
	format     string
	url        string
	head       string
	configPath string

	https         bool
	quiet         bool
	init          bool
	latestRelease bool
	noVPrefix     bool
	debug         bool

	release app.Optional
	create  app.Optional

	// rawArgs is the unparsed command line, used to tell which flag a
	// positional version belongs to.
	rawArgs []string
}

func newRootCmd(d deps, f *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kac",
		Short: "Maintain a Keep a Changelog file",
		Long: `kac reads CHANGELOG.md, applies release operations and writes it back.

Version headings are linked to the repository host. The repository URL is
taken from --url, then from the links already in the file, then from the
git remote "origin". GitHub, GitLab, Bitbucket and Gitea style links are
supported.

Configuration precedence (highest to lowest):
  1. Command line flags
  2. Environment variables (KAC_*)
  3. Project config (.kac.yml, .kac.toml)
  4. User config (~/.config/kac/config.yml)
  5. Built-in defaults`,
		Example: `  # Reformat CHANGELOG.md and refresh its links
  kac

  # Release the pending entry as 1.2.0
  kac --release=1.2.0
  kac --release 1.2.0

  # Release the pending entry with the version it already has
  kac --release

  # Start a new unreleased entry
  kac --create

  # Print the latest released version
  kac --latest-release

  # Generate a new changelog
  kac --init`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, d, f, args)
		},
	}

	fs := cmd.Flags()
	addOptionalFlag(fs, &f.release, "release", "Release the pending entry, optionally as the given version")
	addOptionalFlag(fs, &f.create, "create", "Add a new unreleased entry, optionally with a version")
	fs.BoolVar(&f.init, "init", false, "Generate a new changelog file")
	fs.BoolVar(&f.latestRelease, "latest-release", false, "Print the latest released version")

	pfs := cmd.PersistentFlags()
	pfs.StringVar(&f.file, "file", "CHANGELOG.md", "Changelog file, relative to the working directory")
	pfs.StringVar(&f.format, "format", string(changelog.FormatCompact), "Output format: compact | markdownlint")
	pfs.StringVar(&f.url, "url", "", "Repository URL used in version links")
	pfs.BoolVar(&f.https, "https", true, "Use https when converting an ssh remote to a URL")
	pfs.BoolVar(&f.quiet, "quiet", false, "Report errors without a failing exit code")
	pfs.StringVar(&f.head, "head", "", "Head ref of the unreleased comparison link")
	pfs.BoolVar(&f.noVPrefix, "no-v-prefix", false, "Tags are the bare version (1.2.0 instead of v1.2.0)")
	pfs.StringVar(&f.configPath, "config", "", "Project config file (default: .kac.yml)")
	pfs.BoolVar(&f.debug, "debug", false, "Print debug lines to stderr")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newConfigCmd(d, f))
	cmd.AddCommand(newNotesCmd(d, f))
	cmd.AddCommand(newCheckCmd(d, f))
	return cmd
}

func runRoot(cmd *cobra.Command, d deps, f *rootFlags, args []string) error {
	after := flagBeforePositional(cmd.Flags(), f.rawArgs)
	if !bindPositional(args, after, &f.release, &f.create) {
		return kacerrors.TooManyArguments(args)
	}

	env, opts, done, err := prepare(cmd, d, f)
	if err != nil {
		return err
	}
	defer done()

	opts.Init = f.init
	opts.LatestRelease = f.latestRelease
	opts.Release = f.release
	opts.Create = f.create
	env.Debugf("options: release=%s create=%s", opts.Release, opts.Create)

	_, err = app.Run(cmd.Context(), env, opts)
	return err
}

// prepare loads the configuration, merges the flags into it and builds the
// environment and options shared by every changelog command. done restores
// the debug logger.
func prepare(cmd *cobra.Command, d deps, f *rootFlags) (app.Env, app.Options, func(), error) {
	done := func() {}
	fail := func(err error) (app.Env, app.Options, func(), error) {
		done()
		return app.Env{}, app.Options{}, func() {}, err
	}

	dir, err := d.getwd()
	if err != nil {
		return fail(kacerrors.WrapWithMessage(err, kacerrors.IO, "cannot determine working directory"))
	}

	printer := output.New(d.stdout, d.stderr)
	debugf := func(string, ...any) {}
	if f.debug {
		debugf = printer.Debugf
		git.SetDebugLogger(printer.Debugf)
		done = func() { git.SetDebugLogger(nil) }
	}

	cfg, err := loadConfig(dir, f, d.stderr)
	if err != nil {
		return fail(err)
	}
	applyFlags(cmd.Flags(), f, cfg)
	f.quiet = cfg.Quiet
	debugf("config: %+v", *cfg)

	format, ok := cfg.ChangelogFormat()
	if !ok {
		return fail(kacerrors.InvalidFormat(cfg.Format))
	}

	opts := app.Options{
		File:      cfg.File,
		Format:    format,
		URL:       cfg.URL,
		HTTPS:     cfg.HTTPS,
		Head:      cfg.Head,
		NoVPrefix: cfg.NoVPrefix,
	}
	env := app.Env{
		Dir:    dir,
		Fs:     d.fs,
		Now:    d.now,
		Stdout: d.stdout,
		Stderr: d.stderr,
		Remote: d.remote,
		Debugf: debugf,
	}
	return env, opts, done, nil
}

func loadConfig(dir string, f *rootFlags, warnings io.Writer) (*config.Configuration, error) {
	cfg, err := config.LoadWithOptions(config.LoadOptions{
		Dir:               dir,
		ProjectConfigPath: f.configPath,
		WarningWriter:     warnings,
	})
	if err != nil {
		return nil, kacerrors.ConfigInvalid(err)
	}
	return cfg, nil
}

// applyFlags lets explicitly given flags override configured values.
func applyFlags(fs *pflag.FlagSet, f *rootFlags, cfg *config.Configuration) {
	if fs.Changed("file") {
		cfg.File = f.file
	}
	if fs.Changed("format") {
		cfg.Format = f.format
	}
	if fs.Changed("url") {
		cfg.URL = f.url
	}
	if fs.Changed("https") {
		cfg.HTTPS = f.https
	}
	if fs.Changed("head") {
		cfg.Head = f.head
	}
	if fs.Changed("quiet") {
		cfg.Quiet = f.quiet
	}
	if fs.Changed("no-v-prefix") {
		cfg.NoVPrefix = f.noVPrefix
	}
}

// Execute runs the kac command line and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return execute(ctx, os.Args[1:], defaultDeps())
}

func execute(ctx context.Context, args []string, d deps) int {
	f := &rootFlags{rawArgs: args}
	cmd := newRootCmd(d, f)
	cmd.SetArgs(args)
	cmd.SetOut(d.stdout)
	cmd.SetErr(d.stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	cliErr := kacerrors.AsCLIError(err)
	if cliErr == nil {
		// cobra flag parsing and unknown subcommands
		cliErr = kacerrors.Wrap(err, kacerrors.Argument, fmt.Sprintf("Run '%s --help' for usage", cmd.Name()))
	}
	kacerrors.FprintError(d.stderr, cliErr, output.New(d.stdout, d.stderr).ColorsEnabled())

	if f.quiet {
		return ExitSuccess
	}
	return ExitFailure
}
