package core

import (
	"errors"
	"fmt"
	"strings"
)

// LoadErrorKind classifies why a file could not be turned into a Table.
type LoadErrorKind int

const (
	LoadParse LoadErrorKind = iota
	LoadMissingCapability
	LoadEmptyTable
	LoadUnsupported
	LoadTooLarge
)

func (k LoadErrorKind) String() string {
	switch k {
	case LoadParse:
		return "parse"
	case LoadMissingCapability:
		return "missing capability"
	case LoadEmptyTable:
		return "empty table"
	case LoadUnsupported:
		return "unsupported file type"
	case LoadTooLarge:
		return "file too large"
	default:
		return "unknown"
	}
}

// LoadError is returned by the Loader. Err carries the underlying cause, if any.
type LoadError struct {
	Kind LoadErrorKind
	Err  error
}

func (e *LoadError) Error() string {
	if e.Err == nil {
		return "load: " + e.Kind.String()
	}
	return fmt.Sprintf("load: %s: %v", e.Kind, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// IsLoadError reports whether err is a LoadError of the given kind.
func IsLoadError(err error, kind LoadErrorKind) bool {
	var le *LoadError
	return errors.As(err, &le) && le.Kind == kind
}

// ResolutionError lists roles that still need an explicit column choice.
type ResolutionError struct {
	Roles []Role
}

func (e *ResolutionError) Error() string {
	names := make([]string, len(e.Roles))
	for i, r := range e.Roles {
		names[i] = string(r)
	}
	return "unresolved column for: " + strings.Join(names, ", ")
}

var (
	// ErrEmptySelection means the user picked nothing; the sorter is not run.
	ErrEmptySelection = errors.New("empty selection")

	// ErrNoMatchingRows means every selected row lacked a numeric distance.
	ErrNoMatchingRows = errors.New("no matching rows with a numeric distance")

	// ErrNoTable means an action needs an uploaded table and there is none.
	ErrNoTable = errors.New("no table uploaded")

	// ErrUnknownColumn means a column name does not exist in the table.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrSessionNotFound means the session id is unknown or has expired.
	ErrSessionNotFound = errors.New("session not found")

	// ErrNoResult means an export was requested before any sort ran.
	ErrNoResult = errors.New("no sorted result")

	// ErrFeatureDisabled means the request needs an optional feature that is off.
	ErrFeatureDisabled = errors.New("feature disabled")
)
