package domain

import (
	"errors"
	"path/filepath"
)

// Diff compares the current buffer lines against the snapshot and returns
// the operations that turn the directory into what the buffer shows.
// It always diffs against the original snapshot, so re-running it on the
// same buffer gives the same result.
func Diff(snap *Snapshot, lines []string) []Operation {
	ops, _ := DiffWithNotes(snap, lines)
	return ops
}

// DiffWithNotes is Diff that also reports non-blank lines whose name could
// not be recovered. Those lines are treated as emptied (existing entries)
// or ignored (new lines).
func DiffWithNotes(snap *Snapshot, lines []string) ([]Operation, []*ParseError) {
	var (
		ops   []Operation
		notes []*ParseError
	)

	for i, line := range lines {
		if i < snap.HeaderLines {
			continue
		}

		entry, ok := snap.Entry(i)
		if ok {
			parsed, err := ParseLine(line, snap.Layout, &entry)
			if err != nil {
				if errors.Is(err, ErrParseAmbiguity) {
					notes = append(notes, &ParseError{Line: i, Text: line, Err: err})
				}
				ops = append(ops, Delete(entry.Path, entry.Kind))
				continue
			}
			if parsed.Name != entry.Name {
				op := Rename(entry.Path, filepath.Join(snap.Dir, parsed.Name), entry.Kind)
				op.Name = parsed.Name
				ops = append(ops, op)
			}
			continue
		}

		parsed, err := ParseLine(line, snap.Layout, nil)
		if err != nil {
			if errors.Is(err, ErrParseAmbiguity) {
				notes = append(notes, &ParseError{Line: i, Text: line, Err: err})
			}
			continue
		}
		op := Create(filepath.Join(snap.Dir, parsed.Name), createKind(parsed.Kind))
		op.Name = parsed.Name
		ops = append(ops, op)
	}

	for i := len(lines); i < snap.Len(); i++ {
		if entry, ok := snap.Entry(i); ok {
			ops = append(ops, Delete(entry.Path, entry.Kind))
		}
	}

	return ops, notes
}

// A symlink cannot be created from its name alone; it becomes a plain file.
func createKind(k EntryKind) EntryKind {
	if k == KindDirectory {
		return KindDirectory
	}
	return KindFile
}
