package domain

import (
	"fmt"
	"strings"
)

// Column widths used by the renderer. The parser's fixed-width strategy
// derives its offset from the same numbers.
const (
	PermissionsWidth = 10
	SizeWidth        = 8
	ModTimeWidth     = 12

	// ModTimeFormat is the layout of the modification time column
	ModTimeFormat = "Jan 02 15:04"

	// SymlinkArrow separates a symlink name from its target
	SymlinkArrow = " -> "
)

// Column names accepted by ParseColumns
const (
	ColumnPermissions = "permissions"
	ColumnSize        = "size"
	ColumnModTime     = "mtime"
)

// ColumnLayout describes which metadata columns precede the name
type ColumnLayout struct {
	Permissions bool
	Size        bool
	ModTime     bool
}

// DefaultLayout renders every column
func DefaultLayout() ColumnLayout {
	return ColumnLayout{Permissions: true, Size: true, ModTime: true}
}

// ParseColumns builds a layout from column names
func ParseColumns(columns []string) (ColumnLayout, error) {
	var layout ColumnLayout
	for _, c := range columns {
		switch strings.ToLower(strings.TrimSpace(c)) {
		case ColumnPermissions, "perms", "mode":
			layout.Permissions = true
		case ColumnSize:
			layout.Size = true
		case ColumnModTime, "modtime", "time":
			layout.ModTime = true
		case "":
			continue
		default:
			return ColumnLayout{}, fmt.Errorf("unknown listing column: %q", c)
		}
	}
	return layout, nil
}

// Columns returns the enabled column names in render order
func (l ColumnLayout) Columns() []string {
	var cols []string
	if l.Permissions {
		cols = append(cols, ColumnPermissions)
	}
	if l.Size {
		cols = append(cols, ColumnSize)
	}
	if l.ModTime {
		cols = append(cols, ColumnModTime)
	}
	return cols
}

// NameOffset is the rune offset of the name when every column is rendered
// at its nominal width.
func (l ColumnLayout) NameOffset() int {
	offset := 0
	if l.Permissions {
		offset += PermissionsWidth + 1
	}
	if l.Size {
		offset += SizeWidth + 1
	}
	if l.ModTime {
		offset += ModTimeWidth + 1
	}
	return offset
}

// DisplayName returns the name as it appears in a rendered line,
// including the directory slash or symlink target.
func DisplayName(e DirectoryEntry) string {
	switch e.Kind {
	case KindDirectory:
		return e.Name + "/"
	case KindSymlink:
		if e.LinkTarget != "" {
			return e.Name + SymlinkArrow + e.LinkTarget
		}
		return e.Name
	default:
		return e.Name
	}
}

// RenderLine formats one entry for the listing buffer
func RenderLine(e DirectoryEntry, layout ColumnLayout) string {
	var b strings.Builder
	if layout.Permissions {
		b.WriteString(permissionString(e))
		b.WriteByte(' ')
	}
	if layout.Size {
		fmt.Fprintf(&b, "%*d ", SizeWidth, e.Size)
	}
	if layout.ModTime {
		b.WriteString(e.ModTime.Format(ModTimeFormat))
		b.WriteByte(' ')
	}
	b.WriteString(DisplayName(e))
	return b.String()
}

// HeaderLine is the non-entry line shown above a listing
func HeaderLine(dir string) string {
	return dir + ":"
}

// permissionString mirrors ls: a type character followed by rwx triplets
func permissionString(e DirectoryEntry) string {
	typ := "-"
	switch e.Kind {
	case KindDirectory:
		typ = "d"
	case KindSymlink:
		typ = "l"
	}
	return typ + e.Mode.Perm().String()[1:]
}
