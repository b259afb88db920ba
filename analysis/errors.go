package analysis

import (
	"fmt"

	"github.com/chromalens/api/sampler"
)

// DecodeError means the bytes could not be read as an image, not even heuristically.
type DecodeError struct {
	Err error
}

func (e DecodeError) Error() string {
	return fmt.Sprintf("decode image: %v", e.Err)
}

func (e DecodeError) Unwrap() error {
	return e.Err
}

// InsufficientDataError means sampling succeeded but left nothing to analyse.
type InsufficientDataError struct {
	Reason string
	Err    error
}

func (e InsufficientDataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("insufficient data: %s: %v", e.Reason, e.Err)
	}
	return "insufficient data: " + e.Reason
}

func (e InsufficientDataError) Unwrap() error {
	return e.Err
}

// TooLargeError means the image declares more pixels than Options.MaxPixels.
type TooLargeError = sampler.TooLargeError
