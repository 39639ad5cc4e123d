package cataas

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is checks against the typed errors below.
var (
	ErrContentType  = errors.New("unexpected content type")
	ErrFormatMisuse = errors.New("format flags incompatible with image fetch")
	ErrSchema       = errors.New("response does not match schema")
)

// ContentTypeError reports a response whose declared type disagrees with the
// requested mode.
type ContentTypeError struct {
	Mode      Mode
	Observed  string
	Requested bool // whether the matching format flag was set
}

func (e *ContentTypeError) Error() string {
	observed := e.Observed
	if observed == "" {
		observed = "<none>"
	}
	if !e.Requested && e.Mode != ModeImage {
		return fmt.Sprintf("invalid content type: %s, expected %s (%s=true not set)", observed, e.Mode, e.Mode)
	}
	return fmt.Sprintf("invalid content type: %s, expected %s", observed, e.Mode)
}

func (e *ContentTypeError) Is(target error) bool { return target == ErrContentType }

// FormatError reports html or json flags passed to an image fetch.
type FormatError struct {
	HTML bool
	JSON bool
}

func (e *FormatError) Error() string {
	return "html and json query parameters are not supported for fetching images"
}

func (e *FormatError) Is(target error) bool { return target == ErrFormatMisuse }

// SchemaError reports a JSON payload that failed record validation.
type SchemaError struct {
	Payload []byte
	Err     error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("invalid record: %v", e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

func (e *SchemaError) Is(target error) bool { return target == ErrSchema }

// StatusError reports an HTTP error status from the API.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api %s returned status %d", e.URL, e.StatusCode)
}
