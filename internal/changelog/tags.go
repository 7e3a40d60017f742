package changelog

import "fmt"

// TagNamer builds the VCS tag name for a release.
type TagNamer interface {
	TagName(r *Release) string
}

// TagNamerFunc adapts an ordinary function to the TagNamer interface.
type TagNamerFunc func(r *Release) string

// TagName calls f(r).
func (f TagNamerFunc) TagName(r *Release) string {
	return f(r)
}

// TagLink describes one link to render: Tag is the ref being linked and
// Previous is the ref of the next older release ("" when there is none).
type TagLink struct {
	URL      string
	Tag      string
	Previous string
	Release  *Release
}

// TagLinker builds the URL a release heading links to. Hosting providers
// supply their own implementation.
type TagLinker interface {
	TagLink(l TagLink) string
}

// TagLinkerFunc adapts an ordinary function to the TagLinker interface.
type TagLinkerFunc func(l TagLink) string

// TagLink calls f(l).
func (f TagLinkerFunc) TagLink(l TagLink) string {
	return f(l)
}

var (
	// DefaultTagNamer prefixes the version with "v".
	DefaultTagNamer TagNamer = TagNamerFunc(func(r *Release) string {
		return "v" + r.Version
	})

	// BareTagNamer uses the version unchanged.
	BareTagNamer TagNamer = TagNamerFunc(func(r *Release) string {
		return r.Version
	})

	// DefaultTagLinker produces GitHub style compare and release links.
	DefaultTagLinker TagLinker = TagLinkerFunc(func(l TagLink) string {
		if l.Previous == "" {
			return fmt.Sprintf("%s/releases/tag/%s", l.URL, l.Tag)
		}
		return fmt.Sprintf("%s/compare/%s...%s", l.URL, l.Previous, l.Tag)
	})
)

// tagName returns the tag for r, falling back to the default namer when the
// changelog has none configured.
func (c *Changelog) tagName(r *Release) string {
	if c.TagNamer == nil {
		return DefaultTagNamer.TagName(r)
	}
	return c.TagNamer.TagName(r)
}

func (c *Changelog) tagLinker() TagLinker {
	if c.TagLinker == nil {
		return DefaultTagLinker
	}
	return c.TagLinker
}

func (c *Changelog) head() string {
	if c.Head == "" {
		return DefaultHead
	}
	return c.Head
}
