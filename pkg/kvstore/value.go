package kvstore

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// Value is a typed view over one key. Loads never fail: missing, unreadable or malformed
// data yields the default and is logged.
type Value[T any] struct {
	store  Store
	key    string
	def    func() T
	logger *zap.Logger
}

// NewValue binds a typed value to key. def builds the fallback value; a nil def yields the
// zero value. A nil logger discards diagnostics.
func NewValue[T any](store Store, key string, def func() T, logger *zap.Logger) *Value[T] {
	if def == nil {
		def = func() T {
			var zero T
			return zero
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Value[T]{store: store, key: key, def: def, logger: logger}
}

// Key returns the bound key.
func (v *Value[T]) Key() string { return v.key }

// Load returns the stored value or the default.
func (v *Value[T]) Load(ctx context.Context) T {
	value, _ := v.Lookup(ctx)
	return value
}

// Lookup returns the stored value and whether a valid one was found.
func (v *Value[T]) Lookup(ctx context.Context) (T, bool) {
	raw, ok, err := v.store.Get(ctx, v.key)
	if err != nil {
		v.logger.Warn("kvstore: read failed, using default", zap.String("key", v.key), zap.Error(err))
		return v.def(), false
	}
	if !ok {
		return v.def(), false
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		v.logger.Warn("kvstore: malformed value, using default", zap.String("key", v.key), zap.Error(err))
		return v.def(), false
	}
	return out, true
}

// Save encodes value as JSON and stores it.
func (v *Value[T]) Save(ctx context.Context, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("kvstore: encode %s: %w", v.key, err)
	}
	return v.store.Set(ctx, v.key, raw)
}

// Clear removes the stored value.
func (v *Value[T]) Clear(ctx context.Context) error {
	return v.store.Delete(ctx, v.key)
}
