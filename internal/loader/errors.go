// v0
// internal/loader/errors.go
package loader

import "fmt"

// Kind tags the ways a snapshot load can fail.
type Kind int

const (
	Fetch Kind = iota
	NotAZip
	MissingEntry
	UtfDecode
	Parse
)

func (k Kind) String() string {
	switch k {
	case Fetch:
		return "fetch"
	case NotAZip:
		return "not_a_zip"
	case MissingEntry:
		return "missing_entry"
	case UtfDecode:
		return "utf_decode"
	case Parse:
		return "parse"
	default:
		return "unknown"
	}
}

// Error wraps a Kind with the underlying cause and, where relevant, the
// archive entry name that triggered it.
type Error struct {
	Kind  Kind
	Entry string
	Err   error
}

func (e *Error) Error() string {
	if e.Entry != "" {
		return fmt.Sprintf("loader: %s (entry=%q): %v", e.Kind, e.Entry, e.Err)
	}
	return fmt.Sprintf("loader: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func newErr(kind Kind, entry string, err error) *Error {
	return &Error{Kind: kind, Entry: entry, Err: err}
}
