// Package id generates identifiers for orders, events, and sessions.
package id

import (
	"strconv"
	"sync/atomic"

	"github.com/rs/xid"
)

// IDGenerator can generate IDs.
type IDGenerator interface {
	Generate() string
}

// NewIDGenerator returns a sequential generator whose first ID is "1". Two
// generators created the same way produce the same sequence, which keeps
// seeded runs reproducible.
func NewIDGenerator() IDGenerator {
	return &sequentialIDGenerator{}
}

// NewIDGeneratorWithPrefix returns a sequential generator that prepends
// prefix to every ID, e.g. "order-1".
func NewIDGeneratorWithPrefix(prefix string) IDGenerator {
	return &sequentialIDGenerator{prefix: prefix}
}

// NewSessionIDGenerator returns a generator of globally unique IDs. The IDs
// are not deterministic.
func NewSessionIDGenerator() IDGenerator {
	return sessionIDGenerator{}
}

type sequentialIDGenerator struct {
	prefix string
	nextID uint64
}

func (g *sequentialIDGenerator) Generate() string {
	idNumber := atomic.AddUint64(&g.nextID, 1)

	return g.prefix + strconv.FormatUint(idNumber, 10)
}

type sessionIDGenerator struct{}

func (sessionIDGenerator) Generate() string {
	return xid.New().String()
}
