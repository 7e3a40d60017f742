// Package git resolves the hosting repository URL for kac.
// It uses the go-git library to locate the repository and read remote
// "origin" from its INI-style .git/config, then normalizes the remote into
// a browsable http(s) URL that release links can be built on.
package git

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
)

// DefaultRemote is the remote whose URL is used for links.
const DefaultRemote = "origin"

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging. The logger function should format
// and output the message (similar to log.Printf signature).
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

// logDebug logs a debug message if the debug logger is set.
func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// Resolver resolves repository URLs relative to a working directory.
// The zero value is ready to use.
type Resolver struct{}

// ResolveRemoteURL implements the resolver contract used by the release pipeline.
func (Resolver) ResolveRemoteURL(dir string, preferSecure bool) (string, error) {
	return ResolveRemoteURL(dir, preferSecure)
}

// ResolveRemoteURL returns the normalized URL of remote "origin" for the
// repository containing dir.
//
// A missing repository, unreadable configuration or missing origin remote
// is not an error: the result is simply empty. A remote URL that cannot be
// normalized into an absolute URL is returned as a *URLFormatError.
func ResolveRemoteURL(dir string, preferSecure bool) (string, error) {
	raw, err := originURL(dir)
	if err != nil {
		logDebug("[git] no remote url: %v", err)
		return "", nil
	}
	if raw == "" {
		logDebug("[git] remote %q has no url", DefaultRemote)
		return "", nil
	}

	logDebug("[git] remote %q url: %s", DefaultRemote, raw)
	return NormalizeURL(raw, preferSecure)
}

// originURL reads the first URL of the origin remote. It prefers opening the
// repository through go-git, which walks up from dir to find .git, and falls
// back to parsing dir/.git/config directly for repositories go-git refuses
// to open (for example a freshly initialized one without HEAD).
func originURL(dir string) (string, error) {
	cfg, err := repoConfig(dir)
	if err != nil {
		logDebug("[git] opening repository failed (%v), reading config file", err)
		cfg, err = readConfigFile(filepath.Join(dir, ".git", "config"))
		if err != nil {
			return "", err
		}
	}

	remote, ok := cfg.Remotes[DefaultRemote]
	if !ok || remote == nil {
		return "", fmt.Errorf("remote %q not configured", DefaultRemote)
	}
	if len(remote.URLs) == 0 {
		return "", nil
	}
	return remote.URLs[0], nil
}

// openRepo opens a git repository at the specified path or current working directory.
// It uses go-git's PlainOpenWithOptions with DetectDotGit enabled to traverse
// up the directory tree to find the repository root.
// If path is empty, the current working directory is used.
func openRepo(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	logDebug("[git] repository opened successfully")
	return repo, nil
}

func repoConfig(dir string) (*config.Config, error) {
	repo, err := openRepo(dir)
	if err != nil {
		return nil, err
	}

	cfg, err := repo.Config()
	if err != nil {
		return nil, fmt.Errorf("reading repository config: %w", err)
	}
	return cfg, nil
}

func readConfigFile(path string) (*config.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening git config: %w", err)
	}
	defer f.Close()

	cfg, err := config.ReadConfig(f)
	if err != nil {
		return nil, fmt.Errorf("parsing git config %s: %w", path, err)
	}
	return cfg, nil
}
