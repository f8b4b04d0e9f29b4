package pe

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned for an empty output name or empty code
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrImageTooLarge is returned when the image would not fit the staging buffer
	ErrImageTooLarge = errors.New("image too large")
	// ErrIO is matched by every *IOError
	ErrIO = errors.New("i/o error")
	// ErrInvalidImage is returned when a parsed file breaks the single-section layout
	ErrInvalidImage = errors.New("invalid image")
)

// ImageTooLargeError reports the computed file size and the capacity it exceeded
type ImageTooLargeError struct {
	FileSize int
	Capacity int
}

func (e *ImageTooLargeError) Error() string {
	return fmt.Sprintf("%s: %d bytes exceeds the %d byte staging buffer", ErrImageTooLarge, e.FileSize, e.Capacity)
}

func (e *ImageTooLargeError) Is(target error) bool {
	return target == ErrImageTooLarge
}

// IOError records a failed create, write or close of the output file
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func (e *IOError) Is(target error) bool {
	return target == ErrIO
}
