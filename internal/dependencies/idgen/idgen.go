package idgen

import "github.com/google/uuid"

// IDGen generates server-side identifiers and can be mocked for testing
type IDGen interface {
	// NewID returns a fresh unique identifier
	NewID() string
}

// UUIDGen implements IDGen with random (version 4) UUIDs
type UUIDGen struct{}

// New creates a new UUIDGen
func New() *UUIDGen {
	return &UUIDGen{}
}

// NewID returns a new random UUID string
func (g *UUIDGen) NewID() string {
	return uuid.NewString()
}
