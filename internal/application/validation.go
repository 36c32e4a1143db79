package application

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"vired/internal/domain"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", fieldName),
		}
	}
	return nil
}

// ValidateName checks that a typed entry name names exactly one node in its directory.
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return &ValidationError{Path: name, Field: "name", Message: "name is empty"}
	case name == "." || name == "..":
		return &ValidationError{Path: name, Field: "name", Message: "name is reserved"}
	case strings.ContainsRune(name, 0):
		return &ValidationError{Path: name, Field: "name", Message: "name contains a NUL byte"}
	case strings.ContainsRune(name, '/') || strings.ContainsRune(name, filepath.Separator):
		return &ValidationError{Path: name, Field: "name", Message: "name contains a path separator"}
	}
	return nil
}

// Warning is a non-blocking pre-flight finding about one operation
type Warning struct {
	Op  domain.Operation
	Err *ValidationError
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Op, w.Err.Message)
}

// Validator runs pre-flight checks. It never removes an operation from a batch.
type Validator struct {
	fs afero.Fs
}

// NewValidator creates a validator over fs
func NewValidator(fs afero.Fs) *Validator {
	return &Validator{fs: fs}
}

// Validate checks a single operation
func (v *Validator) Validate(op domain.Operation) []Warning {
	var warnings []Warning
	warn := func(path, field, msg string) {
		warnings = append(warnings, Warning{Op: op, Err: &ValidationError{Path: path, Field: field, Message: msg}})
	}

	switch op.Kind {
	case domain.OpRename:
		if !v.exists(op.Source) {
			warn(op.Source, "source", "source does not exist")
		}
		if v.exists(op.Dest) {
			warn(op.Dest, "destination", "destination already exists")
		}
		if !v.isDir(filepath.Dir(op.Dest)) {
			warn(op.Dest, "destination", "parent directory does not exist")
		}
		if err := ValidateName(op.Name); err != nil {
			warn(op.Dest, "name", err.(*ValidationError).Message)
		}
	case domain.OpDelete:
		if !v.exists(op.Source) {
			warn(op.Source, "source", "source does not exist")
		}
	case domain.OpCreate:
		if v.exists(op.Dest) {
			warn(op.Dest, "destination", "destination already exists")
		}
		if !v.isDir(filepath.Dir(op.Dest)) {
			warn(op.Dest, "destination", "parent directory does not exist")
		}
		if err := ValidateName(op.Name); err != nil {
			warn(op.Dest, "name", err.(*ValidationError).Message)
		}
	}
	return warnings
}

// ValidateAll checks every operation and collects the warnings in batch order
func (v *Validator) ValidateAll(ops []domain.Operation) []Warning {
	var warnings []Warning
	for _, op := range ops {
		warnings = append(warnings, v.Validate(op)...)
	}
	return warnings
}

func (v *Validator) exists(path string) bool {
	_, err := Lstat(v.fs, path)
	return err == nil
}

func (v *Validator) isDir(path string) bool {
	info, err := v.fs.Stat(path)
	return err == nil && info.IsDir()
}

// Lstat stats path without following a final symlink when fs supports it
func Lstat(fs afero.Fs, path string) (os.FileInfo, error) {
	if l, ok := fs.(afero.Lstater); ok {
		info, _, err := l.LstatIfPossible(path)
		return info, err
	}
	return fs.Stat(path)
}
