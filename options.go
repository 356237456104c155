// Package browserfile provides functional options for configuring file handles and reads.
// These options follow the functional options pattern for clean, composable configuration.
package browserfile

import (
	"log/slog"

	"github.com/input-output-hk/catalyst-forge-libs/browserfile/filetypes"
)

// WithLogger configures a handle with a structured logger.
// If logger is nil, logging will be disabled.
func WithLogger(logger *slog.Logger) filetypes.Option {
	return func(c *filetypes.FileConfig) {
		c.Logger = logger
	}
}

// WithMaxAllowedSize sets the ceiling, in bytes, for a single OpenReadStream call.
// Default is 512000 bytes (500 KiB). Pick the largest size the calling code can
// safely buffer or process; a large value on an unbounded transport is a
// resource-exhaustion vector.
func WithMaxAllowedSize(maxAllowedSize int64) filetypes.ReadOption {
	return func(c *filetypes.ReadConfig) {
		c.MaxAllowedSize = maxAllowedSize
	}
}

// WithProgress sets a progress tracker for a single OpenReadStream call.
func WithProgress(tracker filetypes.ProgressTracker) filetypes.ReadOption {
	return func(c *filetypes.ReadConfig) {
		c.ProgressTracker = tracker
	}
}

// WithMaxFileCount sets how many files Selection.Files hands out before failing.
// Default is 10.
func WithMaxFileCount(count int) filetypes.SelectionOption {
	return func(c *filetypes.SelectionConfig) {
		c.MaxFileCount = count
	}
}

// WithRelayCapacity sets how many chunks a Relay queues before Write blocks.
// Default is 8. Zero makes every Write wait for the consumer.
func WithRelayCapacity(capacity int) filetypes.RelayOption {
	return func(c *filetypes.RelayConfig) {
		c.Capacity = capacity
	}
}

func defaultReadConfig() *filetypes.ReadConfig {
	return &filetypes.ReadConfig{
		MaxAllowedSize: filetypes.DefaultMaxAllowedSize,
	}
}

func applyReadOptions(cfg *filetypes.ReadConfig, opts []filetypes.ReadOption) {
	for _, opt := range opts {
		opt(cfg)
	}
}

func applyOptions(cfg *filetypes.FileConfig, opts []filetypes.Option) {
	for _, opt := range opts {
		opt(cfg)
	}
}

func defaultSelectionConfig() *filetypes.SelectionConfig {
	return &filetypes.SelectionConfig{
		MaxFileCount: filetypes.DefaultMaxFileCount,
	}
}

func applySelectionOptions(cfg *filetypes.SelectionConfig, opts []filetypes.SelectionOption) {
	for _, opt := range opts {
		opt(cfg)
	}
}

func defaultRelayConfig() *filetypes.RelayConfig {
	return &filetypes.RelayConfig{
		Capacity: filetypes.DefaultRelayCapacity,
	}
}

func applyRelayOptions(cfg *filetypes.RelayConfig, opts []filetypes.RelayOption) {
	for _, opt := range opts {
		opt(cfg)
	}
}
