package git

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// URLFormatError is returned when a repository URL cannot be turned into an
// absolute web URL.
type URLFormatError struct {
	URL string
	Err error
}

func (e *URLFormatError) Error() string {
	return fmt.Sprintf("invalid repository url %q: %v", e.URL, e.Err)
}

func (e *URLFormatError) Unwrap() error {
	return e.Err
}

// IsURLFormatError returns true if the error is a URLFormatError.
func IsURLFormatError(err error) bool {
	var ue *URLFormatError
	return errors.As(err, &ue)
}

var errNotAbsolute = errors.New("not an absolute url")

var (
	// scpLikeRe matches the short-hand remote syntax user@host:path.
	scpLikeRe = regexp.MustCompile(`^([^@/:\s]+)@([^:/\s]+):/*(.*)$`)
	// sshURLRe matches ssh:// and git:// remotes with optional user and port.
	sshURLRe = regexp.MustCompile(`^(?:ssh|git\+ssh|git)://(?:[^@/]+@)?([^:/]+)(?::\d+)?/+(.*)$`)
)

// NormalizeURL converts a raw git remote into a browsable base URL:
//
//  1. a trailing ".git" is removed;
//  2. SSH remotes (user@host:path, ssh://, git://) become scheme://host/path
//     with scheme https when preferSecure is set, http otherwise;
//  3. trailing slashes (and any ".git" they were hiding) are removed;
//  4. the result must parse as an absolute URL; userinfo is dropped.
//
// NormalizeURL is idempotent.
func NormalizeURL(raw string, preferSecure bool) (string, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, ".git")

	scheme := "http"
	if preferSecure {
		scheme = "https"
	}

	if isSSHURL(s) {
		if m := scpLikeRe.FindStringSubmatch(s); m != nil {
			s = scheme + "://" + m[2] + "/" + m[3]
		} else if m := sshURLRe.FindStringSubmatch(s); m != nil {
			s = scheme + "://" + m[1] + "/" + m[2]
		}
	}

	s = trimTrailing(s)

	u, err := url.Parse(s)
	if err != nil {
		return "", &URLFormatError{URL: raw, Err: err}
	}
	if !u.IsAbs() || u.Host == "" {
		return "", &URLFormatError{URL: raw, Err: errNotAbsolute}
	}

	// Credentials embedded in https remotes must never end up in links.
	u.User = nil
	return u.String(), nil
}

// ValidateURL checks that a configured base URL is an absolute URL.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return &URLFormatError{URL: raw, Err: err}
	}
	if !u.IsAbs() || u.Host == "" {
		return &URLFormatError{URL: raw, Err: errNotAbsolute}
	}
	return nil
}

// trimTrailing removes trailing slashes and ".git" suffixes until neither is left.
func trimTrailing(s string) string {
	for {
		t := strings.TrimSuffix(strings.TrimRight(s, "/"), ".git")
		if t == s {
			return t
		}
		s = t
	}
}

// isSSHURL checks if a URL is an SSH URL.
// Detects SCP-style (user@host:path), ssh://, git+ssh:// and git:// schemes.
func isSSHURL(u string) bool {
	return scpLikeRe.MatchString(u) ||
		strings.HasPrefix(u, "ssh://") ||
		strings.HasPrefix(u, "git+ssh://") ||
		strings.HasPrefix(u, "git://")
}
