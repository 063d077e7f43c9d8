package preferences

import (
	"context"
	"maps"
	"slices"
	"sync"
)

type MemoryRepository struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{data: make(map[string][]byte)}
}

func (r *MemoryRepository) Get(ctx context.Context, key string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return memGet(r.data, key), nil
}

func (r *MemoryRepository) Set(ctx context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	memSet(r.data, key, value)
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, key)
	return nil
}

func (r *MemoryRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.data)
	return nil
}

func (r *MemoryRepository) List(ctx context.Context) (map[string][]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string][]byte, len(r.data))
	for k, v := range r.data {
		out[k] = slices.Clone(v)
	}
	return out, nil
}

// WithinTx hands fn a staged copy of the data and swaps it in when fn succeeds.
// The lock is held throughout, so fn must use only the repo it is given.
func (r *MemoryRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	staged := &stagedRepository{data: maps.Clone(r.data)}
	if err := fn(ctx, staged); err != nil {
		return err
	}
	r.data = staged.data
	return nil
}

type stagedRepository struct {
	data map[string][]byte
}

func (s *stagedRepository) Get(ctx context.Context, key string) ([]byte, error) {
	return memGet(s.data, key), nil
}

func (s *stagedRepository) Set(ctx context.Context, key string, value []byte) error {
	memSet(s.data, key, value)
	return nil
}

func (s *stagedRepository) Delete(ctx context.Context, key string) error {
	delete(s.data, key)
	return nil
}

func (s *stagedRepository) Clear(ctx context.Context) error {
	clear(s.data)
	return nil
}

func (s *stagedRepository) List(ctx context.Context) (map[string][]byte, error) {
	return maps.Clone(s.data), nil
}

func memGet(data map[string][]byte, key string) []byte {
	v, ok := data[key]
	if !ok {
		return nil
	}
	return slices.Clone(v)
}

func memSet(data map[string][]byte, key string, value []byte) {
	if value == nil {
		value = []byte{}
	}
	data[key] = slices.Clone(value)
}
