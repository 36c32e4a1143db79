package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrBlankLine is returned for a line that carries no text at all
	ErrBlankLine = errors.New("blank line")
	// ErrParseAmbiguity is returned when no name can be recovered from a line
	ErrParseAmbiguity = errors.New("cannot recover entry name")
)

// ParseError describes a listing line the parser could not resolve
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v: %q", e.Line+1, e.Err, e.Text)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parsed is the name and kind recovered from one listing line
type Parsed struct {
	Name string
	Kind EntryKind
}

var (
	// Matches "Jan 02 15:04" and the year form "Jan 02  2006"
	datePattern = regexp.MustCompile(`[A-Z][a-z]{2} [ 0-3][0-9] (?:[ 0-2][0-9]:[0-5][0-9]| [0-9]{4})(?: |$)`)
	// Permission bits followed by the size token
	permSizePattern = regexp.MustCompile(`[-dlcbps][-rwxsStT]{9}\s+\S+(?: |$)`)
	permPattern     = regexp.MustCompile(`^[-dlcbps][-rwxsStT]{9}$`)
	timePattern     = regexp.MustCompile(`^[0-2]?[0-9]:[0-5][0-9]$`)
	digitsPattern   = regexp.MustCompile(`^[0-9]+$`)
)

var months = map[string]bool{
	"Jan": true, "Feb": true, "Mar": true, "Apr": true, "May": true, "Jun": true,
	"Jul": true, "Aug": true, "Sep": true, "Oct": true, "Nov": true, "Dec": true,
}

// strategy extracts the raw name text from a line.
// anchored reports that the strategy recognised the line; an anchored
// result is final even when the name is empty.
type strategy struct {
	name    string
	applies func(ColumnLayout) bool
	extract func(line string, layout ColumnLayout) (raw string, anchored bool)
}

// strategies run in this order; the first anchored or non-empty result wins
var strategies = []strategy{
	{
		name:    "mtime",
		applies: func(l ColumnLayout) bool { return l.ModTime },
		extract: afterDate,
	},
	{
		name:    "permissions",
		applies: func(l ColumnLayout) bool { return l.Permissions && l.Size && !l.ModTime },
		extract: afterPermissionsAndSize,
	},
	{
		name:    "offset",
		applies: func(l ColumnLayout) bool { return !l.ModTime && !(l.Permissions && l.Size) },
		extract: atFixedOffset,
	},
	{
		name:    "tokens",
		applies: func(ColumnLayout) bool { return true },
		extract: trailingTokens,
	},
}

// ParseLine recovers an entry name and kind from one line of rendered text.
// ctx is the entry originally rendered on this line, or nil for new lines.
// A trailing "/" marks a directory; " -> " marks a symlink whose name is the
// text before the arrow.
func ParseLine(line string, layout ColumnLayout, ctx *DirectoryEntry) (Parsed, error) {
	if strings.TrimSpace(line) == "" {
		return Parsed{}, ErrBlankLine
	}

	if ctx != nil && strings.TrimRight(line, " \t") == RenderLine(*ctx, layout) {
		return Parsed{Name: ctx.Name, Kind: ctx.Kind}, nil
	}

	raw, ok := extractName(line, layout)
	if !ok {
		return Parsed{}, ErrParseAmbiguity
	}

	parsed := classify(raw, ctx)
	if parsed.Name == "" {
		return Parsed{}, ErrParseAmbiguity
	}
	return parsed, nil
}

func extractName(line string, layout ColumnLayout) (string, bool) {
	for _, s := range strategies {
		if !s.applies(layout) {
			continue
		}
		raw, anchored := s.extract(line, layout)
		if anchored {
			return raw, true
		}
		if strings.TrimSpace(raw) != "" {
			return raw, true
		}
	}
	return "", false
}

// classify strips kind markers from the raw name text
func classify(raw string, ctx *DirectoryEntry) Parsed {
	name := strings.TrimSpace(raw)

	if i := strings.Index(name, SymlinkArrow); i >= 0 {
		return Parsed{Name: strings.TrimSpace(name[:i]), Kind: KindSymlink}
	}

	if strings.HasSuffix(name, "/") {
		return Parsed{Name: strings.TrimRight(name, "/"), Kind: KindDirectory}
	}

	kind := KindFile
	if ctx != nil {
		kind = ctx.Kind
	}
	return Parsed{Name: name, Kind: kind}
}

func afterDate(line string, _ ColumnLayout) (string, bool) {
	loc := datePattern.FindStringIndex(line)
	if loc == nil {
		return "", false
	}
	return line[loc[1]:], true
}

func afterPermissionsAndSize(line string, _ ColumnLayout) (string, bool) {
	loc := permSizePattern.FindStringIndex(line)
	if loc == nil {
		return "", false
	}
	return line[loc[1]:], true
}

// atFixedOffset cuts the line at the rendered name column. The text before
// the cut must read as metadata, otherwise the line was typed by hand.
func atFixedOffset(line string, layout ColumnLayout) (string, bool) {
	runes := []rune(line)
	offset := layout.NameOffset()
	if offset >= len(runes) {
		return "", false
	}
	for _, f := range strings.Fields(string(runes[:offset])) {
		if !looksLikeMetadata(f) {
			return "", false
		}
	}
	return string(runes[offset:]), false
}

// trailingTokens drops leading tokens that look like listing metadata and
// keeps the rest. When every token looks like metadata the last one is used.
func trailingTokens(line string, _ ColumnLayout) (string, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", false
	}
	for i, f := range fields {
		if !looksLikeMetadata(f) {
			return strings.Join(fields[i:], " "), false
		}
	}
	return fields[len(fields)-1], false
}

func looksLikeMetadata(token string) bool {
	return permPattern.MatchString(token) ||
		digitsPattern.MatchString(token) ||
		timePattern.MatchString(token) ||
		months[token]
}
