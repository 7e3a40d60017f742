// Package provider maps repository URLs to hosting provider link rules.
// Each provider knows the head ref used for "unreleased" comparisons and
// how to link a tag or a range between two tags.
package provider

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/kac-dev/kac/internal/changelog"
)

// Settings are the link rules of one hosting provider.
type Settings struct {
	Name      string
	Head      string
	TagLinker changelog.TagLinker
}

// hostMatcher reports whether a lowercase host belongs to a provider.
type hostMatcher func(host string) bool

type entry struct {
	match    hostMatcher
	settings Settings
}

func exactHost(names ...string) hostMatcher {
	return func(host string) bool {
		for _, n := range names {
			if host == n || host == "www."+n {
				return true
			}
		}
		return false
	}
}

// hostLabel matches self-hosted instances whose first DNS label names the
// product, e.g. gitlab.example.com.
func hostLabel(labels ...string) hostMatcher {
	return func(host string) bool {
		first, _, found := strings.Cut(host, ".")
		if !found {
			return false
		}
		for _, l := range labels {
			if first == l {
				return true
			}
		}
		return false
	}
}

var (
	github = Settings{
		Name: "github",
		Head: "HEAD",
		TagLinker: changelog.TagLinkerFunc(func(l changelog.TagLink) string {
			if l.Previous == "" {
				return fmt.Sprintf("%s/releases/tag/%s", l.URL, l.Tag)
			}
			return fmt.Sprintf("%s/compare/%s...%s", l.URL, l.Previous, l.Tag)
		}),
	}

	gitlab = Settings{
		Name: "gitlab",
		Head: "HEAD",
		TagLinker: changelog.TagLinkerFunc(func(l changelog.TagLink) string {
			if l.Previous == "" {
				return fmt.Sprintf("%s/-/tags/%s", l.URL, l.Tag)
			}
			return fmt.Sprintf("%s/-/compare/%s...%s", l.URL, l.Previous, l.Tag)
		}),
	}

	bitbucket = Settings{
		Name: "bitbucket",
		Head: "HEAD",
		TagLinker: changelog.TagLinkerFunc(func(l changelog.TagLink) string {
			if l.Previous == "" {
				return fmt.Sprintf("%s/src/%s", l.URL, l.Tag)
			}
			return fmt.Sprintf("%s/branches/compare/%s%%0D%s", l.URL, l.Tag, l.Previous)
		}),
	}

	gitea = Settings{
		Name: "gitea",
		Head: "main",
		TagLinker: changelog.TagLinkerFunc(func(l changelog.TagLink) string {
			if l.Previous == "" {
				return fmt.Sprintf("%s/releases/tag/%s", l.URL, l.Tag)
			}
			return fmt.Sprintf("%s/compare/%s...%s", l.URL, l.Previous, l.Tag)
		}),
	}
)

// table is checked in order; the first match wins.
var table = []entry{
	{match: exactHost("github.com"), settings: github},
	{match: exactHost("gitlab.com"), settings: gitlab},
	{match: exactHost("bitbucket.org"), settings: bitbucket},
	{match: exactHost("codeberg.org", "gitea.com"), settings: gitea},
	{match: hostLabel("github"), settings: github},
	{match: hostLabel("gitlab"), settings: gitlab},
	{match: hostLabel("gitea", "forgejo"), settings: gitea},
}

// Lookup returns the settings of the provider hosting rawURL.
// The second result is false for unknown hosts and unparsable URLs.
func Lookup(rawURL string) (Settings, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return Settings{}, false
	}

	host := strings.ToLower(u.Hostname())
	for _, e := range table {
		if e.match(host) {
			return e.settings, true
		}
	}
	return Settings{}, false
}

// Names returns the names of the known providers.
func Names() []string {
	return []string{github.Name, gitlab.Name, bitbucket.Name, gitea.Name}
}
