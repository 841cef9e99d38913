// Package monitor polls the backing stores and keeps a consolidated
// health snapshot. The health endpoint reads it directly; the message
// replay loop consults IsOnline before draining.
package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/halahlab/backend/internal/infrastructure/buffer"
)

// Status is one health snapshot. PostgreSQL alone decides overall
// availability; Redis and the buffer degrade gracefully.
type Status struct {
	PostgreSQL bool      `json:"postgresql"`
	Redis      bool      `json:"redis"`
	Buffer     bool      `json:"buffer"`
	BufferSize int       `json:"buffer_size"`
	CheckedAt  time.Time `json:"checked_at"`
}

type Monitor struct {
	pg     *pgxpool.Pool
	redis  *redislib.Client
	buffer *buffer.Store
	logger *zap.Logger

	interval time.Duration
	done     chan struct{}

	mu     sync.RWMutex
	status Status
}

func New(pg *pgxpool.Pool, redis *redislib.Client, buf *buffer.Store, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		pg:       pg,
		redis:    redis,
		buffer:   buf,
		logger:   logger,
		interval: interval,
		done:     make(chan struct{}),
	}
}

func (m *Monitor) Start() {
	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		m.probe()
		for {
			select {
			case <-ticker.C:
				m.probe()
			case <-m.done:
				return
			}
		}
	}()
}

func (m *Monitor) Stop() {
	close(m.done)
}

// IsOnline reports whether the primary store is reachable.
func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.PostgreSQL
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) probe() {
	status := Status{CheckedAt: time.Now()}

	if m.pg != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		status.PostgreSQL = m.pg.Ping(ctx) == nil
		cancel()
	}
	if m.redis != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		status.Redis = m.redis.Ping(ctx).Err() == nil
		cancel()
	}
	if m.buffer != nil {
		size, err := m.buffer.Size()
		if err != nil {
			m.logger.Warn("buffer size check failed", zap.Error(err))
		}
		status.Buffer = err == nil
		status.BufferSize = size
	}

	m.mu.Lock()
	m.status = status
	m.mu.Unlock()
}
