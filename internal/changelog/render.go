package changelog

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
)

// Render writes the changelog as Keep a Changelog markdown
// (https://keepachangelog.com/en/1.1.0/).
//
// Output is deterministic for a given Changelog state and Format.
func Render(c *Changelog, w io.Writer) error {
	r := &renderer{lint: c.Format == FormatMarkdownLint}
	links := c.releaseLinks()

	title := c.Title
	if title == "" {
		title = "Changelog"
	}
	r.heading("# " + title)
	if c.Description != "" {
		r.block(c.Description)
	}

	for _, rel := range c.Releases {
		_, linked := links[rel]
		r.heading("## " + formatReleaseHeader(rel, linked))
		if rel.Description != "" {
			r.block(rel.Description)
		}
		for _, t := range rel.Changes.Types() {
			r.heading("### " + capitalizeFirst(t))
			r.list(rel.Changes[t])
		}
	}

	var defs []string
	seen := make(map[string]bool)
	for _, rel := range c.Releases {
		url, ok := links[rel]
		label := releaseLabel(rel)
		if !ok || seen[strings.ToLower(label)] {
			continue
		}
		seen[strings.ToLower(label)] = true
		defs = append(defs, fmt.Sprintf("[%s]: %s", label, url))
	}
	for _, l := range c.Links {
		defs = append(defs, fmt.Sprintf("[%s]: %s", l.Label, l.URL))
	}
	r.definitions(defs)

	_, err := io.WriteString(w, r.String())
	return err
}

// RenderString is a convenience function that renders to a string.
func RenderString(c *Changelog) (string, error) {
	var b strings.Builder
	if err := Render(c, &b); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Save renders the changelog and writes it to path, replacing any existing content.
func Save(fs afero.Fs, path string, c *Changelog) error {
	content, err := RenderString(c)
	if err != nil {
		return fmt.Errorf("rendering changelog: %w", err)
	}
	if err := afero.WriteFile(fs, path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing changelog file: %w", err)
	}
	return nil
}

// releaseLinks computes the link target of every release that gets one.
// The previous ref of a release is the tag of the next older released entry.
// Undated releases compare against the head ref and need a previous release.
func (c *Changelog) releaseLinks() map[*Release]string {
	links := make(map[*Release]string)
	if c.URL == "" {
		return links
	}

	url := strings.TrimRight(c.URL, "/")
	linker := c.tagLinker()

	for i, rel := range c.Releases {
		previous := ""
		for _, older := range c.Releases[i+1:] {
			if older.IsReleased() {
				previous = c.tagName(older)
				break
			}
		}

		switch {
		case !rel.HasDate():
			if previous == "" {
				continue
			}
			links[rel] = linker.TagLink(TagLink{URL: url, Tag: c.head(), Previous: previous, Release: rel})
		case rel.HasVersion():
			links[rel] = linker.TagLink(TagLink{URL: url, Tag: c.tagName(rel), Previous: previous, Release: rel})
		}
	}
	return links
}

func releaseLabel(r *Release) string {
	if r.HasVersion() {
		return r.Version
	}
	return "Unreleased"
}

// formatReleaseHeader formats the text after "## ".
func formatReleaseHeader(r *Release, linked bool) string {
	header := releaseLabel(r)
	if linked {
		header = "[" + header + "]"
	}

	switch {
	case r.HasDate():
		header += " - " + FormatDate(r.Date)
	case r.HasVersion():
		header += " - Unreleased"
	}

	if r.Yanked {
		header += " [YANKED]"
	}
	return header
}

// renderer accumulates output lines and applies the blank line rules of the
// selected format: compact keeps content directly under its heading,
// markdownlint separates every heading from its surroundings.
type renderer struct {
	lint        bool
	lines       []string
	lastHeading bool
}

func (r *renderer) separate() {
	if len(r.lines) == 0 {
		return
	}
	if r.lint || !r.lastHeading {
		r.blank()
	}
}

func (r *renderer) blank() {
	if len(r.lines) > 0 && r.lines[len(r.lines)-1] != "" {
		r.lines = append(r.lines, "")
	}
}

func (r *renderer) heading(text string) {
	r.separate()
	r.lines = append(r.lines, text)
	r.lastHeading = true
}

func (r *renderer) block(text string) {
	r.separate()
	r.lines = append(r.lines, strings.Split(text, "\n")...)
	r.lastHeading = false
}

func (r *renderer) list(entries []string) {
	r.separate()
	for _, entry := range entries {
		for i, line := range strings.Split(entry, "\n") {
			switch {
			case i == 0:
				r.lines = append(r.lines, "- "+line)
			case line == "":
				r.lines = append(r.lines, "")
			default:
				r.lines = append(r.lines, "  "+line)
			}
		}
	}
	r.lastHeading = false
}

func (r *renderer) definitions(defs []string) {
	if len(defs) == 0 {
		return
	}
	r.blank()
	r.lines = append(r.lines, defs...)
	r.lastHeading = false
}

func (r *renderer) String() string {
	return strings.Join(r.lines, "\n") + "\n"
}

// capitalizeFirst capitalizes the first letter of a string.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// RenderNotes writes the description and changes of one release as
// markdown suitable for a hosting provider's release page. Headings use the
// markdownlint spacing so the notes read well on their own.
func RenderNotes(rel *Release, w io.Writer) error {
	r := &renderer{lint: true}
	if rel.Description != "" {
		r.block(rel.Description)
	}
	for _, t := range rel.Changes.Types() {
		r.heading("### " + capitalizeFirst(t))
		r.list(rel.Changes[t])
	}
	if len(r.lines) == 0 {
		return nil
	}
	_, err := io.WriteString(w, r.String())
	return err
}
