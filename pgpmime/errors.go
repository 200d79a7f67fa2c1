package pgpmime

import (
	"errors"
	"fmt"
)

// Errors returned while extracting content.
var (
	// ErrUnsupportedMimeContent is returned when a message does not have one
	// of the supported shapes. For encrypted messages, this is any deviation
	// from the RFC 3156 multipart/encrypted shape.
	ErrUnsupportedMimeContent = errors.New("unsupported MIME content")

	// ErrMissingFilename is the cause of an AttachmentDecodeError when an
	// application/octet-stream part has no filename.
	ErrMissingFilename = errors.New("attachment has no filename")
)

// AttachmentDecodeError is reported when an attachment part could not be
// turned into an Attachment. The attachment is left out of the result, but
// the rest of the message is still extracted.
type AttachmentDecodeError struct {
	Index    int    // position of the part in the multipart
	Filename string // the filename, if one was given
	Cause    error
}

// Error returns the error message.
func (err *AttachmentDecodeError) Error() string {
	if err.Filename == "" {
		return fmt.Sprintf("unable to decode attachment in part %d: %v", err.Index, err.Cause)
	}
	return fmt.Sprintf("unable to decode attachment %q in part %d: %v", err.Filename, err.Index, err.Cause)
}

// Unwrap returns the cause of the error.
func (err *AttachmentDecodeError) Unwrap() error {
	return err.Cause
}
