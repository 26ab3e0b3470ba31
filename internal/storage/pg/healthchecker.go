package pg

import (
	"context"
	"time"
)

const pingTimeout = 2 * time.Second

type HealthChecker struct {
	pool *ConnectionPool
}

func NewHealthChecker(pool *ConnectionPool) *HealthChecker {
	return &HealthChecker{pool: pool}
}

// Healthy reports whether the result database answers a ping in time.
func (hc *HealthChecker) Healthy(ctx context.Context) bool {
	if hc.pool == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return hc.pool.Ping(ctx) == nil
}
