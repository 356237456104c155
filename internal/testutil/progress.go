package testutil

import "sync"

// MockProgressTracker is a mock implementation of ProgressTracker for testing.
type MockProgressTracker struct {
	mu sync.Mutex

	UpdateCalled   bool
	CompleteCalled bool
	ErrorCalled    bool
	BytesRead      int64
	TotalBytes     int64
	LastError      error
	Updates        []ProgressUpdate
}

// ProgressUpdate represents a single progress update event.
type ProgressUpdate struct {
	Read  int64
	Total int64
}

// Update records a progress update.
func (m *MockProgressTracker) Update(bytesRead, totalBytes int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalled = true
	m.BytesRead = bytesRead
	m.TotalBytes = totalBytes
	m.Updates = append(m.Updates, ProgressUpdate{Read: bytesRead, Total: totalBytes})
}

// Complete marks the read as complete.
func (m *MockProgressTracker) Complete() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CompleteCalled = true
}

// Error records an error.
func (m *MockProgressTracker) Error(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ErrorCalled = true
	m.LastError = err
}
