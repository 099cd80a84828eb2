package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ifmais/storefront/internal/core/domain"
	"github.com/ifmais/storefront/internal/core/port"
	"github.com/ifmais/storefront/pkg/retry"
	"github.com/redis/go-redis/v9"
)

var _ port.SnapshotRepository = (*RedisSnapshotRepository)(nil)

// A RedisSnapshotRepository keeps the cart snapshot under a fixed key.
// Saves overwrite the prior value and are retried a few times; the
// caller treats failures as non-fatal either way.
type RedisSnapshotRepository struct {
	cl  *redis.Client
	key string
}

func NewRedisSnapshotRepository(
	ctx context.Context, addr, key string,
) (RedisSnapshotRepository, error) {
	const op = "NewRedisSnapshotRepository"

	cl := redis.NewClient(&redis.Options{Addr: addr})
	if err := cl.Ping(ctx).Err(); err != nil {
		return RedisSnapshotRepository{}, fmt.Errorf(
			"%s: redis is unavailable: %w", op, err,
		)
	}
	return RedisSnapshotRepository{cl: cl, key: key}, nil
}

func (r RedisSnapshotRepository) Load(
	ctx context.Context,
) ([]domain.CartLine, error) {
	const op = "RedisSnapshotRepository.Load"
	log := slog.With("op", op)

	data, err := r.cl.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lines, err := unmarshalSnapshot(data)
	if err != nil {
		log.Warn("corrupt cart snapshot, treating as empty", "err", err)
		return nil, nil
	}
	return lines, nil
}

func (r RedisSnapshotRepository) Save(
	ctx context.Context, lines []domain.CartLine,
) error {
	const op = "RedisSnapshotRepository.Save"

	data, err := marshalSnapshot(lines)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	retryCfg := retry.RetryConfig{
		MaxAttempts: 3,
		Backoff:     retry.LinearBackoff(50 * time.Millisecond),
	}
	err = retry.Do(ctx, retryCfg, func() error {
		return r.cl.Set(ctx, r.key, data, 0).Err()
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r RedisSnapshotRepository) Close() {
	const op = "RedisSnapshotRepository.Close"
	log := slog.With("op", op)

	if err := r.cl.Close(); err != nil {
		log.Error("failed to close redis client", "err", err)
		return
	}
	log.Info("redis client is closed")
}
