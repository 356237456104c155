// Package filetypes provides shared type definitions for the browserfile module.
package filetypes

import (
	"log/slog"
	"time"
)

// DefaultMaxAllowedSize is the read ceiling used when the caller does not pick one (500 KiB).
// Handles backed by an unbounded transport rely on it as a resource-exhaustion guard.
const DefaultMaxAllowedSize int64 = 500 * 1024

// DefaultMaxFileCount is the number of files a Selection hands out by default.
const DefaultMaxFileCount = 10

// DefaultRelayCapacity is the number of chunks a Relay queues before Write blocks.
const DefaultRelayCapacity = 8

// Metadata is the client-reported description of a selected file.
// None of the fields are trustworthy; they are carried as plain data.
type Metadata struct {
	// Name is the file name as reported by the browser
	Name string

	// LastModified is the modification time as reported by the browser
	LastModified time.Time

	// Size is the byte count as reported by the browser
	Size int64

	// ContentType is the MIME type as reported by the browser
	ContentType string
}

// ProgressTracker defines the interface for tracking read progress.
// Implementations receive updates from the goroutine that reads the stream.
type ProgressTracker interface {
	// Update is called after every read that delivered bytes
	Update(bytesRead, totalBytes int64)

	// Complete is called when the stream reached the end of the file
	Complete()

	// Error is called when the stream failed
	Error(err error)
}

// ReadConfig holds the settings for a single OpenReadStream call.
type ReadConfig struct {
	// MaxAllowedSize is the ceiling on both the declared size and the bytes delivered
	MaxAllowedSize int64

	// ProgressTracker receives read progress (optional)
	ProgressTracker ProgressTracker
}

// FileConfig holds handle-level settings.
type FileConfig struct {
	// Logger receives structured stream events; nil disables logging
	Logger *slog.Logger
}

// SelectionConfig holds settings for handing out selected files.
type SelectionConfig struct {
	// MaxFileCount is the most files Files returns without failing
	MaxFileCount int
}

// RelayConfig holds settings for a chunked relay source.
type RelayConfig struct {
	// Capacity is the number of chunks buffered between producer and consumer
	Capacity int
}

type (
	// Option is a functional option for configuring a file handle.
	Option func(*FileConfig)
	// ReadOption is a functional option for configuring OpenReadStream.
	ReadOption func(*ReadConfig)
	// SelectionOption is a functional option for configuring Selection.Files.
	SelectionOption func(*SelectionConfig)
	// RelayOption is a functional option for configuring a Relay.
	RelayOption func(*RelayConfig)
)
