package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Pazificateur69/CRM-NetStrategy-sub001/domain"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/internal/infrastructure/buffer"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/repository"
)

// ConnectionHealth abstracts the connection monitor functionality.
type ConnectionHealth interface {
	IsOnline() bool
}

// BufferConfig controls how buffered activity is replayed.
type BufferConfig struct {
	BatchSize  int
	MaxRetries int
	Retention  time.Duration
}

// ActivityBuffer writes activity entries to the store, parking them in the local
// bbolt queue while the store is unreachable.
type ActivityBuffer struct {
	store    *buffer.Store
	monitor  ConnectionHealth
	activity repository.ActivityRepository
	logger   *zap.Logger
	cfg      BufferConfig
}

func NewActivityBuffer(
	store *buffer.Store,
	monitor ConnectionHealth,
	activity repository.ActivityRepository,
	logger *zap.Logger,
	cfg BufferConfig,
) *ActivityBuffer {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 72 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityBuffer{
		store:    store,
		monitor:  monitor,
		activity: activity,
		logger:   logger,
		cfg:      cfg,
	}
}

// Offer attempts the write immediately and falls back to the local queue.
func (b *ActivityBuffer) Offer(ctx context.Context, item buffer.Item) error {
	if b == nil || b.store == nil {
		return fmt.Errorf("activity buffer not configured")
	}
	if b.monitor == nil || b.monitor.IsOnline() {
		err := b.apply(ctx, item)
		if err == nil {
			return nil
		}
		b.logger.Warn("activity write failed, buffering", zap.String("item_id", item.ID), zap.Error(err))
	}
	return b.store.Enqueue(item)
}

// Drain replays one batch of buffered items.
func (b *ActivityBuffer) Drain(ctx context.Context) error {
	if b == nil || b.store == nil {
		return nil
	}
	if b.monitor != nil && !b.monitor.IsOnline() {
		b.logger.Debug("skipping buffer drain (offline)")
		return nil
	}

	items, err := b.store.Peek(b.cfg.BatchSize)
	if err != nil {
		return err
	}

	replayed := 0
	for _, item := range items {
		if err := b.apply(ctx, item); err != nil {
			b.logger.Error("failed to replay buffered activity",
				zap.String("item_id", item.ID),
				zap.Int("retries", item.Retries),
				zap.Error(err))

			if item.Retries+1 >= b.cfg.MaxRetries {
				b.logger.Warn("dropping buffered activity (max retries reached)", zap.String("item_id", item.ID))
				_ = b.store.Ack(item)
				continue
			}
			if err := b.store.Retry(item); err != nil {
				b.logger.Error("failed to requeue buffered activity", zap.Error(err))
			}
			continue
		}

		if err := b.store.Ack(item); err != nil {
			b.logger.Warn("failed to purge replayed activity", zap.Error(err))
		}
		replayed++
	}
	if replayed > 0 {
		b.logger.Info("buffered activity replayed", zap.Int("count", replayed))
	}
	return nil
}

// Expire drops buffered items older than the retention window.
func (b *ActivityBuffer) Expire(now time.Time) (int, error) {
	if b == nil || b.store == nil {
		return 0, nil
	}
	removed, err := b.store.Purge(now.Add(-b.cfg.Retention))
	if err == nil && removed > 0 {
		b.logger.Warn("expired buffered activity", zap.Int("count", removed))
	}
	return removed, err
}

// Size returns the number of buffered items.
func (b *ActivityBuffer) Size() int {
	if b == nil || b.store == nil {
		return 0
	}
	size, err := b.store.Len()
	if err != nil {
		return 0
	}
	return size
}

func (b *ActivityBuffer) apply(ctx context.Context, item buffer.Item) error {
	if ctx == nil {
		ctx = context.Background()
	}
	switch item.Entity {
	case buffer.EntityActivity:
		if item.Operation != buffer.OperationAppend {
			return fmt.Errorf("unsupported operation %s", item.Operation)
		}
		var activity domain.Activity
		if err := json.Unmarshal(item.Data, &activity); err != nil {
			return err
		}
		return b.activity.Append(ctx, activity)
	default:
		return fmt.Errorf("unsupported entity %s", item.Entity)
	}
}
