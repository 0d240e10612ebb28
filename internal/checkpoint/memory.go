package checkpoint

import (
	"context"
	"sync"

	"github.com/sells-group/poi-parking/internal/model"
)

// MemoryStore keeps the snapshot in process. It records every save, which
// makes it the store of choice in tests.
type MemoryStore struct {
	mu      sync.Mutex
	records []model.Record
	saves   []int
	clears  int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(_ context.Context) ([]model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.records == nil {
		return nil, nil
	}
	return append([]model.Record(nil), s.records...), nil
}

func (s *MemoryStore) Save(_ context.Context, records []model.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append([]model.Record{}, records...)
	s.saves = append(s.saves, len(records))
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	s.clears++
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// Saves returns the snapshot length of every Save call in order.
func (s *MemoryStore) Saves() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.saves...)
}

// Clears returns how many times Clear was called.
func (s *MemoryStore) Clears() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clears
}
