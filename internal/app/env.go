package app

import (
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// RemoteResolver finds the repository URL of a working directory.
// An empty URL with a nil error means there is none.
type RemoteResolver interface {
	ResolveRemoteURL(dir string, preferSecure bool) (string, error)
}

// RemoteResolverFunc adapts an ordinary function to RemoteResolver.
type RemoteResolverFunc func(dir string, preferSecure bool) (string, error)

// ResolveRemoteURL calls f(dir, preferSecure).
func (f RemoteResolverFunc) ResolveRemoteURL(dir string, preferSecure bool) (string, error) {
	return f(dir, preferSecure)
}

// Env is everything Run needs from the process. Zero fields get defaults:
// an OS filesystem, the wall clock, discarded output and no remote.
type Env struct {
	Dir    string
	Fs     afero.Fs
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer
	Remote RemoteResolver
	// Debugf receives debug lines when set.
	Debugf func(format string, args ...any)
}

func (e Env) withDefaults() Env {
	if e.Fs == nil {
		e.Fs = afero.NewOsFs()
	}
	if e.Now == nil {
		e.Now = time.Now
	}
	if e.Stdout == nil {
		e.Stdout = io.Discard
	}
	if e.Stderr == nil {
		e.Stderr = io.Discard
	}
	if e.Remote == nil {
		e.Remote = RemoteResolverFunc(func(string, bool) (string, error) { return "", nil })
	}
	if e.Debugf == nil {
		e.Debugf = func(string, ...any) {}
	}
	return e
}

// path resolves file against the working directory.
func (e Env) path(file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(e.Dir, file)
}
