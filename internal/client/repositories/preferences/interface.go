package preferences

import "context"

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}

// Transactor runs fn against a Repository view whose writes become visible
// only if fn returns nil.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error
}
