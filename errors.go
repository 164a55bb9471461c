package tagging

import "errors"

// Sentinel errors for common engine error conditions.
// These errors can be used with errors.Is() for error checking.
var (
	// ErrNotFound indicates an operation targeted a property with no existing
	// tag aggregate, or a persistence key that does not exist.
	ErrNotFound = errors.New("tagging: not found")

	// ErrParseFailure indicates import data (JSON or CSV) could not be parsed.
	// Imports are all-or-nothing; no partial import is applied.
	ErrParseFailure = errors.New("tagging: parse failure")

	// ErrStorageFailed indicates the underlying persistence medium rejected a
	// read or write. Mutating store operations treat this as non-fatal: the
	// in-memory result is still returned and the failure is logged.
	ErrStorageFailed = errors.New("tagging: storage operation failed")

	// ErrInvalidFormat indicates an unsupported export or import format.
	ErrInvalidFormat = errors.New("tagging: invalid format")
)

// Error kinds categorize errors by their type.
const (
	// KindNotFound represents errors where a resource was not found.
	KindNotFound = "not_found"

	// KindValidation represents errors related to input validation.
	KindValidation = "validation"

	// KindParse represents errors related to parsing import data.
	KindParse = "parse"

	// KindStorage represents errors related to the persistence medium.
	KindStorage = "storage"
)

// Kind returns the error kind for a known sentinel error, or an empty string
// for errors outside the engine's taxonomy.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrParseFailure):
		return KindParse
	case errors.Is(err, ErrStorageFailed):
		return KindStorage
	case errors.Is(err, ErrInvalidFormat):
		return KindValidation
	default:
		return ""
	}
}
