package core

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors - centralized error definitions
var (
	// Source errors
	ErrSourceNotFound    = errors.New("source not found")
	ErrEmptySource       = errors.New("source has no data rows")
	ErrUnsupportedSource = errors.New("unsupported source type")

	// Profile errors
	ErrProfileDetection = errors.New("format profile detection failed")
	ErrUnknownProfile   = errors.New("unknown format profile")

	// Generation errors
	ErrModelResponse = errors.New("malformed model response")
)

// Error constructors with context
func NewSourceNotFoundError(path string, cause error) error {
	if cause != nil {
		return fmt.Errorf("%w: %s: %v", ErrSourceNotFound, path, cause)
	}
	return fmt.Errorf("%w: %s", ErrSourceNotFound, path)
}

func NewEmptySourceError(path string, headerRow int) error {
	return fmt.Errorf("%w: %s (header row %d)", ErrEmptySource, path, headerRow)
}

func NewUnsupportedSourceError(path string) error {
	return fmt.Errorf("%w: %s (expected .xlsx or .csv)", ErrUnsupportedSource, path)
}

// NewProfileDetectionError reports a failed auto-detection together with the
// candidate profiles that were considered, so the caller can see what the
// catalog expected.
func NewProfileDetectionError(candidates []string) error {
	return fmt.Errorf("%w: no candidate matches the input columns (considered: %s)",
		ErrProfileDetection, strings.Join(candidates, ", "))
}

func NewUnknownProfileError(name string, known []string) error {
	return fmt.Errorf("%w: %q (known: %s)", ErrUnknownProfile, name, strings.Join(known, ", "))
}

func NewModelResponseError(step string, cause error) error {
	return fmt.Errorf("%w: step %s: %v", ErrModelResponse, step, cause)
}

// Error checking helpers
func IsSourceError(err error) bool {
	return errors.Is(err, ErrSourceNotFound) ||
		errors.Is(err, ErrEmptySource) ||
		errors.Is(err, ErrUnsupportedSource)
}

func IsProfileError(err error) bool {
	return errors.Is(err, ErrProfileDetection) ||
		errors.Is(err, ErrUnknownProfile)
}

func IsGenerationError(err error) bool {
	return errors.Is(err, ErrModelResponse)
}
