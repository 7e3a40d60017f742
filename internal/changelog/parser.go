package changelog

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// ParseError reports malformed changelog markdown with the offending line.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// IsParseError returns true if the error is a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

var (
	titleRe   = regexp.MustCompile(`^#\s+(.*?)\s*$`)
	releaseRe = regexp.MustCompile(`^##\s+(.*?)\s*$`)
	typeRe    = regexp.MustCompile(`^###\s+(.*?)\s*$`)
	itemRe    = regexp.MustCompile(`^( {0,3})[-*+]\s+(.*)$`)
	linkRe    = regexp.MustCompile(`^\[([^\]]+)\]:\s*(\S+)\s*$`)
	yankedRe  = regexp.MustCompile(`(?i)\s*\[yanked\]\s*$`)

	// baseURLRe captures the repository URL in front of a provider specific
	// link path such as /compare/, /releases/tag/ or /-/tags/.
	baseURLRe = regexp.MustCompile(`^(https?://.+)/(?:compare|releases|tags|tree|src|branches|commits)(?:/|$)`)
	headRe    = regexp.MustCompile(`/compare/[^/]*?\.{2,3}([^./][^/]*)$`)
)

// Load reads and parses a changelog file from fs.
func Load(fs afero.Fs, path string) (*Changelog, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading changelog file: %w", err)
	}
	defer f.Close()
	return load(f)
}

func load(r io.Reader) (*Changelog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading changelog: %w", err)
	}
	return Parse(string(data))
}

// Parse parses Keep a Changelog markdown into a Changelog.
// The document must start with a level one heading. Footer link definitions
// that point at releases are consumed to recover the repository URL and
// head ref; any others are kept in Links.
func Parse(text string) (*Changelog, error) {
	p := &parser{c: New("")}
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	for i, line := range lines {
		if err := p.line(i+1, line); err != nil {
			return nil, err
		}
	}
	if !p.hasTitle {
		return nil, &ParseError{Message: "missing changelog title (expected a \"# \" heading)"}
	}

	p.finish()
	return p.c, nil
}

type parser struct {
	c        *Changelog
	hasTitle bool

	release    *Release
	changeType string
	itemOpen   bool
	// itemIndent is the marker column of the last top level entry.
	itemIndent int
	desc       []string
	links      []Link
}

func (p *parser) line(n int, line string) error {
	trimmed := strings.TrimSpace(line)

	if !p.hasTitle {
		if trimmed == "" {
			return nil
		}
		m := titleRe.FindStringSubmatch(trimmed)
		if m == nil {
			return &ParseError{Line: n, Message: "expected changelog title heading"}
		}
		p.c.Title = m[1]
		p.hasTitle = true
		return nil
	}

	if m := linkRe.FindStringSubmatch(trimmed); m != nil {
		p.links = append(p.links, Link{Label: m[1], URL: m[2]})
		p.itemOpen = false
		return nil
	}

	if m := releaseRe.FindStringSubmatch(trimmed); m != nil {
		r, err := parseReleaseHeader(m[1], n)
		if err != nil {
			return err
		}
		p.flushDescription()
		p.release = r
		p.changeType = ""
		p.itemOpen = false
		p.c.Releases = append(p.c.Releases, r)
		return nil
	}

	if p.release == nil {
		p.desc = append(p.desc, line)
		return nil
	}

	if m := typeRe.FindStringSubmatch(trimmed); m != nil {
		p.flushDescription()
		p.changeType = strings.ToLower(m[1])
		p.itemOpen = false
		return nil
	}

	if p.changeType == "" {
		p.desc = append(p.desc, line)
		return nil
	}

	if trimmed == "" {
		p.itemOpen = false
		return nil
	}

	// Lines indented past the marker of the last entry belong to it, so
	// nested lists and indented paragraphs keep their shape.
	if p.hasEntry() && indentation(line) >= p.itemIndent+2 {
		p.continueEntry(dedent(line, p.itemIndent+2))
		return nil
	}

	if m := itemRe.FindStringSubmatch(line); m != nil {
		p.release.Changes.Add(p.changeType, strings.TrimSpace(m[2]))
		p.itemIndent = len(m[1])
		p.itemOpen = true
		return nil
	}

	// Lazy continuation of the previous item, or loose text under a change type.
	if p.hasEntry() {
		p.continueEntry(trimmed)
		return nil
	}
	p.release.Changes.Add(p.changeType, trimmed)
	p.itemIndent = 0
	p.itemOpen = true
	return nil
}

func (p *parser) hasEntry() bool {
	return len(p.release.Changes[p.changeType]) > 0
}

// continueEntry appends text to the last entry of the current change type.
// A blank line before it is kept as a paragraph break.
func (p *parser) continueEntry(text string) {
	entries := p.release.Changes[p.changeType]
	last := len(entries) - 1
	sep := "\n"
	if !p.itemOpen {
		sep = "\n\n"
	}
	entries[last] += sep + text
	p.itemOpen = true
}

// indentation returns the width of the leading whitespace of line,
// counting a tab as four columns.
func indentation(line string) int {
	n := 0
	for _, r := range line {
		switch r {
		case ' ':
			n++
		case '\t':
			n += 4
		default:
			return n
		}
	}
	return n
}

// dedent removes up to width columns of leading whitespace and any
// trailing whitespace.
func dedent(line string, width int) string {
	i := 0
	for i < len(line) && width > 0 {
		switch line[i] {
		case ' ':
			width--
		case '\t':
			width -= 4
		default:
			width = 0
			continue
		}
		i++
	}
	return strings.TrimRight(line[i:], " \t")
}

// flushDescription assigns the collected free text to the current release,
// or to the changelog itself before the first release.
func (p *parser) flushDescription() {
	text := strings.TrimSpace(strings.Join(p.desc, "\n"))
	p.desc = nil
	if text == "" {
		return
	}
	if p.release == nil {
		p.c.Description = text
		return
	}
	p.release.Description = text
}

func (p *parser) finish() {
	p.flushDescription()

	for _, l := range p.links {
		if !p.consumeReleaseLink(l) {
			p.c.Links = append(p.c.Links, l)
		}
	}
}

// consumeReleaseLink records the repository URL and head ref from a link
// that belongs to a release. Returns false for unrelated link definitions.
func (p *parser) consumeReleaseLink(l Link) bool {
	unreleased := strings.EqualFold(l.Label, "unreleased")
	if !unreleased && p.c.Release(l.Label) == nil {
		return false
	}

	if p.c.URL == "" {
		if m := baseURLRe.FindStringSubmatch(l.URL); m != nil {
			p.c.URL = strings.TrimSuffix(m[1], "/-")
		}
	}
	if unreleased {
		if m := headRe.FindStringSubmatch(l.URL); m != nil {
			p.c.Head = m[1]
		}
	}
	return true
}

// parseReleaseHeader parses the text of a "## " heading, e.g.
// "[1.0.0] - 2024-01-31", "[Unreleased]" or "1.1.0 - Unreleased [YANKED]".
func parseReleaseHeader(text string, line int) (*Release, error) {
	r := NewRelease("")

	if loc := yankedRe.FindStringIndex(text); loc != nil {
		r.Yanked = true
		text = text[:loc[0]]
	}

	label, date, _ := strings.Cut(text, " - ")
	label = strings.TrimSpace(strings.Trim(strings.TrimSpace(label), "[]"))
	if label == "" {
		return nil, &ParseError{Line: line, Message: "release heading has no version"}
	}
	if !strings.EqualFold(label, "unreleased") {
		r.Version = NormalizeVersion(label)
	}

	date = strings.TrimSpace(date)
	if date == "" || strings.EqualFold(date, "unreleased") {
		return r, nil
	}

	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil, &ParseError{
			Line:    line,
			Message: fmt.Sprintf("invalid release date %q (expected: YYYY-MM-DD)", date),
		}
	}
	r.Date = t
	return r, nil
}
