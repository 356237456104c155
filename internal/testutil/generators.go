package testutil

import (
	"math/rand"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/browserfile/filetypes"
)

// TestDataGenerator provides methods for generating test data.
type TestDataGenerator struct {
	rand *rand.Rand
}

// NewTestDataGenerator creates a new test data generator with a seeded random source.
func NewTestDataGenerator(seed int64) *TestDataGenerator {
	return &TestDataGenerator{
		rand: rand.New(rand.NewSource(seed)),
	}
}

// Bytes generates n pseudo-random bytes.
func (g *TestDataGenerator) Bytes(n int) []byte {
	data := make([]byte, n)
	_, _ = g.rand.Read(data)
	return data
}

// Metadata generates client metadata declaring size bytes.
func (g *TestDataGenerator) Metadata(name string, size int64) filetypes.Metadata {
	return filetypes.Metadata{
		Name:         name,
		LastModified: time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("UTC+2", 2*60*60)),
		Size:         size,
		ContentType:  "application/octet-stream",
	}
}
