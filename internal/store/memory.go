package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"umlterm/pkg/diagram"
)

// MemoryStore keeps encoded payloads in a map. It goes through the same
// codec as the other backends, so callers never share slices with it.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memEntry
	logger  *log.Logger
}

type memEntry struct {
	data      []byte
	updatedAt time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore(logger *log.Logger) *MemoryStore {
	return &MemoryStore{entries: make(map[string]memEntry), logger: orDiscard(logger)}
}

func (s *MemoryStore) Load(ctx context.Context, id string) (diagram.Diagram, bool, error) {
	if err := checkID(id); err != nil {
		return diagram.Diagram{}, false, err
	}
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return diagram.Diagram{}, false, nil
	}
	d, ok := decode(s.logger, id, e.data)
	return d, ok, nil
}

func (s *MemoryStore) Save(ctx context.Context, id string, d diagram.Diagram) error {
	if err := checkID(id); err != nil {
		return err
	}
	data, err := diagram.Encode(d)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.entries[id] = memEntry{data: data, updatedAt: time.Now()}
	s.mu.Unlock()
	return nil
}

// Put stores a raw payload without validation.
func (s *MemoryStore) Put(id string, data []byte) {
	s.mu.Lock()
	s.entries[id] = memEntry{data: data, updatedAt: time.Now()}
	s.mu.Unlock()
}

func (s *MemoryStore) List(ctx context.Context) ([]Entry, error) {
	s.mu.RLock()
	out := make([]Entry, 0, len(s.entries))
	for id, e := range s.entries {
		out = append(out, Entry{ID: id, UpdatedAt: e.updatedAt})
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (s *MemoryStore) Close() error {
	return nil
}

var _ Store = (*MemoryStore)(nil)
