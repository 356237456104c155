// Package errors provides error types and classification for browser file handles.
// Every failure carries an ErrorCode so callers can tell I/O failures apart from
// caller-initiated cancellation without matching on message text.
package errors

// ErrorCode identifies the category of a browser file failure.
// Error codes are string-based for debuggability and natural JSON serialization.
type ErrorCode string

const (
	// Limit errors.

	// CodeSizeExceeded indicates the declared or observed byte count exceeded the caller's ceiling.
	CodeSizeExceeded ErrorCode = "SIZE_EXCEEDED"

	// Caller errors.

	// CodeCancelled indicates the caller abandoned the read through its context.
	CodeCancelled ErrorCode = "CANCELLED"

	// CodeInvalidInput indicates the provided input is invalid or malformed.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// Source errors.

	// CodeTransport indicates the underlying byte source failed (disconnect, timeout, corruption).
	CodeTransport ErrorCode = "TRANSPORT_FAILURE"

	// CodeAlreadyConsumed indicates a one-shot source was opened a second time.
	CodeAlreadyConsumed ErrorCode = "ALREADY_CONSUMED"

	// CodeUnavailable indicates the source no longer exists or cannot be reached.
	CodeUnavailable ErrorCode = "UNAVAILABLE"

	// CodeStreamClosed indicates a read on a stream that was already closed.
	CodeStreamClosed ErrorCode = "STREAM_CLOSED"

	// Generic errors.

	// CodeUnknown indicates an unknown or unclassified error occurred.
	CodeUnknown ErrorCode = "UNKNOWN"
)

// IsIO reports whether the code belongs to the I/O category.
// Cancellation and invalid input are the only non-I/O codes.
func (c ErrorCode) IsIO() bool {
	switch c {
	case CodeSizeExceeded, CodeTransport, CodeAlreadyConsumed, CodeUnavailable, CodeStreamClosed:
		return true
	default:
		return false
	}
}
