package persistence

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/frahmantamala/rbac-admin/internal"
)

// Fixed keys under which each collection snapshot is stored.
const (
	UsersKey = "usersData"
	RolesKey = "rolesData"
)

// Adapter is a key-value capability holding whole collection snapshots.
// Get returns (nil, nil) when nothing is stored under key.
type Adapter interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Pinger is implemented by adapters that can report backend health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Collection maps one key of an Adapter to a typed slice.
type Collection[T any] struct {
	adapter Adapter
	key     string
	logger  *slog.Logger
}

func NewCollection[T any](adapter Adapter, key string, logger *slog.Logger) *Collection[T] {
	return &Collection[T]{
		adapter: adapter,
		key:     key,
		logger:  logger,
	}
}

func (c *Collection[T]) Key() string {
	return c.key
}

// Load returns the stored snapshot. Absent or unparsable data yields an
// empty slice; only a failing backend is reported as an error.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	raw, err := c.adapter.Get(ctx, c.key)
	if err != nil {
		return nil, internal.NewStorageError("failed to read "+c.key, internal.ErrCodeStorageRead, err)
	}
	if len(raw) == 0 {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		c.logger.Warn("stored collection is not valid JSON, treating as empty",
			"key", c.key,
			"error", err)
		return []T{}, nil
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Save overwrites the whole snapshot.
func (c *Collection[T]) Save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return internal.NewInternalError("failed to encode "+c.key, err)
	}
	if err := c.adapter.Set(ctx, c.key, raw); err != nil {
		return internal.NewStorageError("failed to write "+c.key, internal.ErrCodeStorageWrite, err)
	}
	return nil
}
