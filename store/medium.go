// Package store implements the per-property tag cache: tag generation,
// lookup, update, removal, cross-property search, import/export, rule
// management, and write-through snapshot persistence to a durable key-value
// medium.
package store

import (
	"context"
	"sync"

	"github.com/propsight/tagging"
)

// Storage keys for the two persisted snapshots.
const (
	// propertiesKey holds a JSON object mapping property ID → PropertyTags.
	propertiesKey = "tagging:properties"

	// rulesKey holds a JSON array of tagging rules.
	rulesKey = "tagging:rules"
)

// Medium is the durable key-value backend the store snapshots into. The store
// is the sole writer of its keys; implementations only need plain read/write
// semantics. Production deployments back this with Redis or etcd; tests use
// the in-process medium.
type Medium interface {
	// Read returns the payload stored under key.
	// Returns tagging.ErrNotFound if the key does not exist.
	Read(ctx context.Context, key string) ([]byte, error)

	// Write stores the payload under key, replacing any previous value.
	Write(ctx context.Context, key string, data []byte) error

	// Close releases any resources held by the medium.
	Close() error
}

// MemoryMedium is an in-process Medium. It is the default for tests and for
// callers that only need cache semantics for the process lifetime.
type MemoryMedium struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryMedium creates an empty in-process medium.
func NewMemoryMedium() *MemoryMedium {
	return &MemoryMedium{data: make(map[string][]byte)}
}

// Read returns the payload stored under key.
func (m *MemoryMedium) Read(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.data[key]
	if !ok {
		return nil, tagging.ErrNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Write stores the payload under key.
func (m *MemoryMedium) Write(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	m.data[key] = stored
	return nil
}

// Close is a no-op for the in-process medium.
func (m *MemoryMedium) Close() error {
	return nil
}
