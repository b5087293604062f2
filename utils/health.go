package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Pinger checks one backing service.
type Pinger func(ctx context.Context) error

func MongoPinger(client *mongo.Client) Pinger {
	return func(ctx context.Context) error { return client.Ping(ctx, nil) }
}

func RedisPinger(client *redis.Client) Pinger {
	return func(ctx context.Context) error { return client.Ping(ctx).Err() }
}

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Healthy   bool            `json:"healthy"`
	Services  map[string]bool `json:"services"`
	CheckedAt time.Time       `json:"checkedAt"`
}

// HealthMonitor keeps the latest health snapshot of the registered services.
type HealthMonitor struct {
	pingers map[string]Pinger
	logger  *zap.Logger

	mu      sync.RWMutex
	current HealthStatus
}

func NewHealthMonitor(pingers map[string]Pinger, logger *zap.Logger) *HealthMonitor {
	return &HealthMonitor{pingers: pingers, logger: logger}
}

// Check pings every service once and stores the result.
func (h *HealthMonitor) Check(ctx context.Context) HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := HealthStatus{Healthy: true, Services: make(map[string]bool, len(h.pingers)), CheckedAt: time.Now()}
	for name, ping := range h.pingers {
		ok := ping(ctx) == nil
		if !ok {
			status.Healthy = false
			h.logger.Warn("health check failed", zap.String("service", name))
		}
		status.Services[name] = ok
	}

	h.mu.Lock()
	h.current = status
	h.mu.Unlock()
	return status
}

// Status returns latest stored health snapshot.
func (h *HealthMonitor) Status() HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Start performs periodic health checks until ctx is cancelled.
func (h *HealthMonitor) Start(ctx context.Context, interval time.Duration) {
	h.Check(ctx)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				h.Check(ctx)
			}
		}
	}()
}
