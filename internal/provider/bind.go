package provider

import "github.com/kac-dev/kac/internal/changelog"

// Bind attaches url and the matching provider's link rules to c.
//
// For an unknown provider the head ref and tag linker already on c are kept,
// so links degrade to the defaults instead of failing. A non-empty
// headOverride always replaces the head ref, after the provider lookup.
// The returned settings and flag report the lookup result.
func Bind(c *changelog.Changelog, url, headOverride string) (Settings, bool) {
	c.URL = url

	s, ok := Lookup(url)
	if ok {
		c.Head = s.Head
		c.TagLinker = s.TagLinker
	}

	if headOverride != "" {
		c.Head = headOverride
	}
	return s, ok
}
