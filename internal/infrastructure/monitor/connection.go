package monitor

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Pazificateur69/CRM-NetStrategy-sub001/internal/infrastructure/buffer"
)

// Check probes one dependency. Critical checks decide IsOnline.
type Check struct {
	Name     string
	Critical bool
	Timeout  time.Duration
	Probe    func(ctx context.Context) error
}

func PostgresCheck(pool *pgxpool.Pool) Check {
	return Check{
		Name:     "postgresql",
		Critical: true,
		Timeout:  3 * time.Second,
		Probe: func(ctx context.Context) error {
			return pool.Ping(ctx)
		},
	}
}

// RedisCheck is critical only when redis backs a required component.
func RedisCheck(client *redislib.Client, critical bool) Check {
	return Check{
		Name:     "redis",
		Critical: critical,
		Timeout:  2 * time.Second,
		Probe: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
	}
}

func SQLCheck(name string, db *sql.DB) Check {
	return Check{
		Name:     name,
		Critical: true,
		Timeout:  2 * time.Second,
		Probe:    db.PingContext,
	}
}

type Monitor struct {
	checks []Check
	buffer *buffer.Store

	status   Status
	online   bool
	mu       sync.RWMutex
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	logger   *zap.Logger
}

func New(checks []Check, buf *buffer.Store, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		checks:   checks,
		buffer:   buf,
		interval: interval,
		stopCh:   make(chan struct{}),
		logger:   logger,
	}
}

func (m *Monitor) Start() {
	go m.loop()
}

func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// IsOnline is true when every critical check passed on the last refresh.
func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.online
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	services := make(map[string]bool, len(m.status.Services))
	for k, v := range m.status.Services {
		services[k] = v
	}
	status := m.status
	status.Services = services
	return status
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Refresh()
	for {
		select {
		case <-ticker.C:
			m.Refresh()
		case <-m.stopCh:
			return
		}
	}
}

// Refresh runs every check once and stores the result.
func (m *Monitor) Refresh() {
	services := make(map[string]bool, len(m.checks))
	online := true
	for _, check := range m.checks {
		ok := m.probe(check)
		services[check.Name] = ok
		if !ok && check.Critical {
			online = false
		}
	}
	bufferOK, bufferSize := m.checkBuffer()

	m.mu.Lock()
	previous := m.online
	m.online = online
	m.status = Status{
		Services:   services,
		Buffer:     bufferOK,
		BufferSize: bufferSize,
		LastCheck:  time.Now(),
	}
	m.mu.Unlock()

	if previous != online {
		m.logger.Info("dependency state changed", zap.Bool("online", online), zap.Any("services", services))
	}
}

func (m *Monitor) probe(check Check) bool {
	if check.Probe == nil {
		return false
	}
	timeout := check.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := check.Probe(ctx); err != nil {
		m.logger.Debug("health probe failed", zap.String("check", check.Name), zap.Error(err))
		return false
	}
	return true
}

func (m *Monitor) checkBuffer() (bool, int) {
	if m.buffer == nil {
		return false, 0
	}
	size, err := m.buffer.Len()
	if err != nil {
		m.logger.Warn("buffer size check failed", zap.Error(err))
		return false, size
	}
	return true, size
}
