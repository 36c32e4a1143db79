package domain

import (
	"fmt"
	"path/filepath"
)

// OpKind tags an Operation
type OpKind int

const (
	OpRename OpKind = iota
	OpDelete
	OpCreate
)

// String returns the operation kind name
func (k OpKind) String() string {
	switch k {
	case OpRename:
		return "rename"
	case OpDelete:
		return "delete"
	case OpCreate:
		return "create"
	default:
		return "unknown"
	}
}

// Operation is one filesystem change reconstructed from a listing edit.
// Rename uses Source and Dest, Delete uses Source, Create uses Dest.
// EntryKind is the kind of the affected node (for Create, what to make).
// Name is the destination name exactly as typed in the buffer.
type Operation struct {
	Kind      OpKind
	Source    string
	Dest      string
	Name      string
	EntryKind EntryKind
}

// Rename builds a rename operation
func Rename(source, dest string, kind EntryKind) Operation {
	return Operation{Kind: OpRename, Source: source, Dest: dest, Name: filepath.Base(dest), EntryKind: kind}
}

// Delete builds a delete operation
func Delete(source string, kind EntryKind) Operation {
	return Operation{Kind: OpDelete, Source: source, EntryKind: kind}
}

// Create builds a create operation
func Create(dest string, kind EntryKind) Operation {
	return Operation{Kind: OpCreate, Dest: dest, Name: filepath.Base(dest), EntryKind: kind}
}

// Target is the path the operation primarily acts on
func (o Operation) Target() string {
	if o.Kind == OpCreate {
		return o.Dest
	}
	return o.Source
}

// String formats the operation for previews and logs
func (o Operation) String() string {
	switch o.Kind {
	case OpRename:
		return fmt.Sprintf("rename %s -> %s", o.Source, o.Dest)
	case OpDelete:
		return fmt.Sprintf("delete %s", o.Source)
	case OpCreate:
		if o.EntryKind == KindDirectory {
			return fmt.Sprintf("create %s/", o.Dest)
		}
		return fmt.Sprintf("create %s", o.Dest)
	default:
		return "unknown operation"
	}
}
