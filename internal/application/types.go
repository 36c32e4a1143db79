package application

import "vired/internal/domain"

// Re-export domain types for use by adapters
type (
	DirectoryEntry = domain.DirectoryEntry
	EntryKind      = domain.EntryKind
	ColumnLayout   = domain.ColumnLayout
	Snapshot       = domain.Snapshot
	Operation      = domain.Operation
	OpKind         = domain.OpKind
	UndoOperation  = domain.UndoOperation
	ParseError     = domain.ParseError
)

const (
	OpRename = domain.OpRename
	OpDelete = domain.OpDelete
	OpCreate = domain.OpCreate
)

// Describe formats an undo operation for display
func Describe(op UndoOperation) string {
	return domain.Describe(op)
}
