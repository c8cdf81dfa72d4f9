package store

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// Keys used in the progress store.
const (
	KeyProfile  = "profile"
	KeyFontSize = "font-size"
	KeyTouch    = "touch"
)

// KV is raw key/value storage.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}

// ProgressStore reads and writes typed values with a safe default.
type ProgressStore struct {
	kv     KV
	logger *zap.Logger
}

// NewProgressStore wraps kv. logger may be nil.
func NewProgressStore(kv KV, logger *zap.Logger) *ProgressStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgressStore{kv: kv, logger: logger}
}

// Load decodes key into a T. A missing key, a read failure or corrupt
// JSON all yield def.
func Load[T any](ctx context.Context, ps *ProgressStore, key string, def T) T {
	raw, ok, err := ps.kv.Get(ctx, key)
	if err != nil {
		ps.logger.Warn("progress read failed", zap.String("key", key), zap.Error(err))
		return def
	}
	if !ok {
		return def
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		ps.logger.Warn("progress value corrupt; using default", zap.String("key", key), zap.Error(err))
		return def
	}
	return v
}

// Save encodes v under key.
func Save[T any](ctx context.Context, ps *ProgressStore, key string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := ps.kv.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}
