package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// Codec stores JSON-encoded values in a Store.
// A value that cannot be decoded is treated as missing.
type Codec struct {
	store  Store
	logger *slog.Logger
}

func NewCodec(store Store, logger *slog.Logger) *Codec {
	if logger == nil {
		logger = slog.Default()
	}
	return &Codec{store: store, logger: logger}
}

func (c *Codec) Store() Store {
	return c.store
}

// Load decodes the value at key into v and reports whether a usable value was found.
// Only store failures are returned as errors.
func (c *Codec) Load(ctx context.Context, key string, v any) (bool, error) {
	err := c.Decode(ctx, key, v)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	case errors.Is(err, ErrMalformed):
		c.logger.Warn("ignoring malformed cache value", "key", key, "error", err)
		return false, nil
	}
	return false, err
}

// Decode is Load without the miss handling: it returns ErrNotFound or an error wrapping ErrMalformed.
func (c *Codec) Decode(ctx context.Context, key string, v any) error {
	raw, err := c.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("store.Get(%s) > %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformed, key, err)
	}
	return nil
}

func (c *Codec) Save(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("json.Marshal(%s) > %w", key, err)
	}
	if err := c.store.Set(ctx, key, string(b)); err != nil {
		return fmt.Errorf("store.Set(%s) > %w", key, err)
	}
	return nil
}

func (c *Codec) Remove(ctx context.Context, key string) error {
	if err := c.store.Remove(ctx, key); err != nil {
		return fmt.Errorf("store.Remove(%s) > %w", key, err)
	}
	return nil
}
