package materialize

import "errors"

var (
	// ErrArchive is returned when a tally archive is unreadable, corrupt,
	// or contains entries that would escape the extraction directory.
	ErrArchive = errors.New("materialize: bad tally archive")

	// ErrConfig is returned when an election config cannot be read, is not
	// valid JSON, or lacks a questions array.
	ErrConfig = errors.New("materialize: bad election config")
)
