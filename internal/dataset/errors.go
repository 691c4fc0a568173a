package dataset

import (
	"errors"
	"io/fs"
)

var (
	// ErrFileNotFound is returned when the source file does not exist.
	// It matches fs.ErrNotExist with errors.Is.
	ErrFileNotFound error = &notFoundError{}

	// ErrMissingColumn is returned when a required column is absent from
	// the header row.
	ErrMissingColumn = errors.New("required column missing")

	// ErrEmptyFile is returned when the file has no header row.
	ErrEmptyFile = errors.New("file has no header row")
)

// notFoundError is the type of ErrFileNotFound.
type notFoundError struct{}

func (*notFoundError) Error() string { return "file not found" }

// Is lets errors.Is(ErrFileNotFound, fs.ErrNotExist) succeed.
func (*notFoundError) Is(target error) bool { return target == fs.ErrNotExist }

// IsNotFound reports whether err signals an absent source file.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrFileNotFound) || errors.Is(err, fs.ErrNotExist)
}
