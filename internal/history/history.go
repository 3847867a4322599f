// Package history remembers recently used answers per puzzle type so new
// prompts can steer away from repeats.
package history

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/abhisek/puzzlegen/internal/puzzle"
)

// DefaultSize is how many answers are kept per puzzle type.
const DefaultSize = 50

// Store records answers and lists the most recent ones, newest first.
type Store interface {
	Record(ctx context.Context, t puzzle.Type, answer string) error
	Recent(ctx context.Context, t puzzle.Type, n int) ([]string, error)
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu     sync.Mutex
	size   int
	byType map[puzzle.Type][]string
}

// NewMemoryStore keeps up to size answers per type.
func NewMemoryStore(size int) *MemoryStore {
	if size <= 0 {
		size = DefaultSize
	}
	return &MemoryStore{size: size, byType: make(map[puzzle.Type][]string)}
}

// Record moves answer to the front, dropping the oldest beyond the limit.
// Blank answers are ignored.
func (m *MemoryStore) Record(_ context.Context, t puzzle.Type, answer string) error {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	list := slices.DeleteFunc(m.byType[t], func(s string) bool { return s == answer })
	list = slices.Insert(list, 0, answer)
	if len(list) > m.size {
		list = list[:m.size]
	}
	m.byType[t] = list
	return nil
}

// Recent returns up to n answers, or all of them when n <= 0.
func (m *MemoryStore) Recent(_ context.Context, t puzzle.Type, n int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.byType[t]
	if n > 0 && len(list) > n {
		list = list[:n]
	}
	return slices.Clone(list), nil
}
