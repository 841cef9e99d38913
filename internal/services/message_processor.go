package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/halahlab/backend/domain"
	"github.com/halahlab/backend/internal/infrastructure/buffer"
	"github.com/halahlab/backend/repository"
)

// ConnectionHealth abstracts the connection monitor functionality.
type ConnectionHealth interface {
	IsOnline() bool
}

// ProcessorConfig controls how frequently the buffer is drained.
type ProcessorConfig struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
}

// MessageProcessor replays buffered patient messages into the primary
// store on a cron schedule, once the store is reachable again.
type MessageProcessor struct {
	store    *buffer.Store
	monitor  ConnectionHealth
	messages repository.MessageRepository
	logger   *zap.Logger
	cron     *cron.Cron
	cfg      ProcessorConfig
}

func NewMessageProcessor(
	store *buffer.Store,
	monitor ConnectionHealth,
	messages repository.MessageRepository,
	logger *zap.Logger,
	cfg ProcessorConfig,
) *MessageProcessor {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	mp := &MessageProcessor{
		store:    store,
		monitor:  monitor,
		messages: messages,
		logger:   logger,
		cfg:      cfg,
		cron:     cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = mp.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := mp.Drain(ctx); err != nil {
			mp.logger.Error("message buffer drain failed", zap.Error(err))
		}
	})

	return mp
}

// Start launches the cron scheduler.
func (mp *MessageProcessor) Start() {
	if mp == nil || mp.cron == nil {
		return
	}
	mp.cron.Start()
	mp.logger.Info("message processor started")
}

// Stop gracefully stops the scheduler.
func (mp *MessageProcessor) Stop(ctx context.Context) {
	if mp == nil || mp.cron == nil {
		return
	}
	stopCtx := mp.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	mp.logger.Info("message processor stopped")
}

// Drain replays buffered messages synchronously.
func (mp *MessageProcessor) Drain(ctx context.Context) error {
	if mp == nil || mp.store == nil {
		return nil
	}
	if mp.monitor != nil && !mp.monitor.IsOnline() {
		mp.logger.Debug("skipping message drain (offline)")
		return nil
	}

	items, err := mp.store.GetBatch(mp.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, item := range items {
		if err := mp.replay(ctx, item); err != nil {
			mp.logger.Error("failed to replay buffered message",
				zap.String("item_id", item.ID),
				zap.Error(err))

			item.Retries++
			if item.Retries >= mp.cfg.MaxRetries {
				mp.logger.Warn("dropping buffered message (max retries reached)", zap.String("item_id", item.ID))
				_ = mp.store.Remove(item)
				continue
			}

			if err := mp.store.Remove(item); err != nil {
				mp.logger.Warn("failed to remove buffered message", zap.Error(err))
			}
			if err := mp.store.Requeue(item); err != nil {
				mp.logger.Error("failed to requeue buffered message", zap.Error(err))
			}
			continue
		}

		if err := mp.store.Remove(item); err != nil {
			mp.logger.Warn("failed to purge replayed message", zap.Error(err))
		}
	}
	return nil
}

// Buffer persists one message for later replay.
func (mp *MessageProcessor) Buffer(item buffer.Item) error {
	if mp == nil || mp.store == nil {
		return fmt.Errorf("message processor not configured")
	}
	return mp.store.Enqueue(item)
}

func (mp *MessageProcessor) replay(ctx context.Context, item buffer.Item) error {
	if ctx == nil {
		ctx = context.Background()
	}
	var message domain.Message
	if err := json.Unmarshal(item.Data, &message); err != nil {
		return err
	}
	_, err := mp.messages.Create(ctx, &message)
	return err
}
