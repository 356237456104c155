package errors

import (
	"errors"
	"fmt"
)

// Error represents a browser file operation error with context about the operation that failed.
type Error struct {
	// Op is the operation that failed (e.g., "openReadStream", "read")
	Op string

	// Name is the client-reported file name (if applicable)
	Name string

	// Code classifies the failure
	Code ErrorCode

	// Err is the underlying error
	Err error
}

// Error implements the error interface by providing a formatted error message.
func (e *Error) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("browserfile.%s %q: %v", e.Op, e.Name, e.Err)
	}
	return fmt.Sprintf("browserfile.%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chaining support.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithName adds file name context to an existing error.
func (e *Error) WithName(name string) *Error {
	e.Name = name
	return e
}

// WithMessage wraps the underlying error with a custom message.
func (e *Error) WithMessage(message string) *Error {
	e.Err = fmt.Errorf("%w: %s", e.Err, message)
	return e
}

// NewError creates a new Error with the given operation and underlying error.
// The code is derived from the sentinel the error wraps.
func NewError(op string, err error) *Error {
	return &Error{
		Op:   op,
		Code: CodeOf(err),
		Err:  err,
	}
}

// Sentinel errors for browser file failures.
// These can be used with errors.Is() for error checking.
var (
	// ErrSizeExceeded indicates the declared or observed size is above the allowed maximum
	ErrSizeExceeded = errors.New("browserfile: size exceeds maximum allowed size")

	// ErrCancelled indicates the read was cancelled by the caller
	ErrCancelled = errors.New("browserfile: read cancelled")

	// ErrTransport indicates the underlying byte source failed
	ErrTransport = errors.New("browserfile: transport failure")

	// ErrAlreadyConsumed indicates a non-restartable source was already read
	ErrAlreadyConsumed = errors.New("browserfile: source already consumed")

	// ErrUnavailable indicates the source is no longer available
	ErrUnavailable = errors.New("browserfile: source unavailable")

	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("browserfile: invalid input")

	// ErrStreamClosed indicates the stream was used after Close
	ErrStreamClosed = errors.New("browserfile: stream closed")
)

var sentinelCodes = []struct {
	err  error
	code ErrorCode
}{
	{ErrCancelled, CodeCancelled},
	{ErrSizeExceeded, CodeSizeExceeded},
	{ErrAlreadyConsumed, CodeAlreadyConsumed},
	{ErrUnavailable, CodeUnavailable},
	{ErrStreamClosed, CodeStreamClosed},
	{ErrInvalidInput, CodeInvalidInput},
	{ErrTransport, CodeTransport},
}

// CodeOf returns the ErrorCode carried by err.
// A wrapped *Error wins; otherwise the first matching sentinel decides.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return CodeUnknown
	}

	var e *Error
	if errors.As(err, &e) && e.Code != "" && e.Code != CodeUnknown {
		return e.Code
	}

	for _, sc := range sentinelCodes {
		if errors.Is(err, sc.err) {
			return sc.code
		}
	}
	return CodeUnknown
}

// Cancelled builds a cancellation error that also wraps the context cause,
// so errors.Is(err, context.Canceled) keeps working.
func Cancelled(op, name string, cause error) *Error {
	err := ErrCancelled
	if cause != nil {
		err = fmt.Errorf("%w: %w", ErrCancelled, cause)
	}
	return &Error{Op: op, Name: name, Code: CodeCancelled, Err: err}
}

// SizeExceeded builds a size error. declared distinguishes the up-front check on the
// client-reported size from the limit being crossed while streaming.
func SizeExceeded(op, name string, size, limit int64, declared bool) *Error {
	var err error
	if declared {
		err = fmt.Errorf("%w: declared size %d bytes exceeds the maximum of %d bytes", ErrSizeExceeded, size, limit)
	} else {
		err = fmt.Errorf("%w: stream yielded more than the maximum of %d bytes", ErrSizeExceeded, limit)
	}
	return &Error{Op: op, Name: name, Code: CodeSizeExceeded, Err: err}
}

// Transport wraps a source failure. Errors that are already classified keep
// their code; anything else is reported as a transport failure.
func Transport(op, name string, err error) *Error {
	if code := CodeOf(err); code != CodeUnknown {
		return &Error{Op: op, Name: name, Code: code, Err: err}
	}
	return &Error{Op: op, Name: name, Code: CodeTransport, Err: fmt.Errorf("%w: %w", ErrTransport, err)}
}

// IsSizeExceeded checks if an error indicates the size ceiling was crossed.
func IsSizeExceeded(err error) bool {
	return CodeOf(err) == CodeSizeExceeded
}

// IsCancelled checks if an error indicates caller-initiated cancellation.
func IsCancelled(err error) bool {
	return CodeOf(err) == CodeCancelled
}

// IsTransport checks if an error indicates a failure of the underlying byte source.
func IsTransport(err error) bool {
	return CodeOf(err) == CodeTransport
}

// IsAlreadyConsumed checks if an error indicates a one-shot source was re-opened.
func IsAlreadyConsumed(err error) bool {
	return CodeOf(err) == CodeAlreadyConsumed
}

// IsUnavailable checks if an error indicates the source is gone.
func IsUnavailable(err error) bool {
	return CodeOf(err) == CodeUnavailable
}

// IsInvalidInput checks if an error indicates invalid input.
func IsInvalidInput(err error) bool {
	return CodeOf(err) == CodeInvalidInput
}

// IsIO checks if an error belongs to the I/O category, i.e. anything that is
// neither a cancellation nor a caller mistake.
func IsIO(err error) bool {
	return CodeOf(err).IsIO()
}
