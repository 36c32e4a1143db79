package domain

// Snapshot freezes a directory listing at the moment editing begins.
// Entry k of the captured listing lives at line index HeaderLines+k.
// A Snapshot is never mutated after Capture.
type Snapshot struct {
	Dir         string
	Layout      ColumnLayout
	HeaderLines int

	entries []DirectoryEntry
}

// Capture records entries keyed by their rendered line index
func Capture(dir string, entries []DirectoryEntry, layout ColumnLayout, headerLines int) *Snapshot {
	if headerLines < 0 {
		headerLines = 0
	}
	frozen := make([]DirectoryEntry, len(entries))
	copy(frozen, entries)
	return &Snapshot{
		Dir:         dir,
		Layout:      layout,
		HeaderLines: headerLines,
		entries:     frozen,
	}
}

// Entry returns the entry captured at a line index
func (s *Snapshot) Entry(line int) (DirectoryEntry, bool) {
	i := line - s.HeaderLines
	if i < 0 || i >= len(s.entries) {
		return DirectoryEntry{}, false
	}
	return s.entries[i], true
}

// Len is one past the last line index that holds an entry
func (s *Snapshot) Len() int {
	return s.HeaderLines + len(s.entries)
}

// Count is the number of captured entries
func (s *Snapshot) Count() int {
	return len(s.entries)
}

// Entries returns a copy of the captured entries in line order
func (s *Snapshot) Entries() []DirectoryEntry {
	out := make([]DirectoryEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Lines renders the buffer the user starts editing from
func (s *Snapshot) Lines() []string {
	return Render(s.Dir, s.entries, s.Layout, s.HeaderLines)
}

// Render produces header lines followed by one line per entry.
// Only the first header line carries the directory; extra header lines are blank.
func Render(dir string, entries []DirectoryEntry, layout ColumnLayout, headerLines int) []string {
	lines := make([]string, 0, headerLines+len(entries))
	for i := 0; i < headerLines; i++ {
		if i == 0 {
			lines = append(lines, HeaderLine(dir))
			continue
		}
		lines = append(lines, "")
	}
	for _, e := range entries {
		lines = append(lines, RenderLine(e, layout))
	}
	return lines
}
