package refdata

import "fmt"

// ErrorKind is the closed set of load-time validation failures.
type ErrorKind int

const (
	// KindUnknownCode means a record referenced a code that is not defined.
	KindUnknownCode ErrorKind = iota + 1
	// KindDuplicateCode means a code was defined twice within one table.
	KindDuplicateCode
	// KindMalformedRecord means a record was missing fields or carried a bad code.
	KindMalformedRecord
	// KindMissingEndMarker means the document ended without its end marker.
	KindMissingEndMarker
	// KindUndefinedElementGroup means an element named a group before the group was defined.
	KindUndefinedElementGroup
)

// String returns a human-readable label for the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindUnknownCode:
		return "unknown code"
	case KindDuplicateCode:
		return "duplicate code"
	case KindMalformedRecord:
		return "malformed record"
	case KindMissingEndMarker:
		return "missing end marker"
	case KindUndefinedElementGroup:
		return "undefined element group"
	default:
		return "unknown"
	}
}

// LoadError reports why a reference-data or content document was rejected.
// Any LoadError aborts the whole load.
type LoadError struct {
	Kind ErrorKind
	// Table names the table or record type being loaded (e.g. "stats", "skill").
	Table string
	// Code is the offending code or name, when one applies.
	Code   string
	Detail string
}

// Error implements error.
func (e *LoadError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Table, e.Kind)
	if e.Code != "" {
		msg += fmt.Sprintf(" %q", e.Code)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// NewLoadError builds a LoadError.
func NewLoadError(kind ErrorKind, table, code, detail string) *LoadError {
	return &LoadError{Kind: kind, Table: table, Code: code, Detail: detail}
}
