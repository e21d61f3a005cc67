package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// HealthStatus summarises a database health check.
type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthDegraded  HealthStatus = "degraded"
	HealthUnhealthy HealthStatus = "unhealthy"
)

// SlowLatency marks a reachable database as degraded.
const SlowLatency = time.Second

// HealthMetrics describes the connection at check time.
type HealthMetrics struct {
	Persistent      bool      `json:"persistent"`
	Connected       bool      `json:"connected"`
	Database        string    `json:"database,omitempty"`
	ServerVersion   string    `json:"serverVersion,omitempty"`
	LatencyMS       int64     `json:"latencyMs"`
	OpenConnections int       `json:"openConnections"`
	InUse           int       `json:"inUse"`
	Idle            int       `json:"idle"`
	LastChecked     time.Time `json:"lastChecked"`
}

// Health is the result of HealthChecker.Check.
type Health struct {
	Status  HealthStatus  `json:"status"`
	Metrics HealthMetrics `json:"metrics"`
	Errors  []string      `json:"errors"`
}

// HealthChecker pings the database and reads its version. A nil DB means the
// process runs on in-memory repositories, which is reported as degraded.
type HealthChecker struct {
	db  *gorm.DB
	now func() time.Time
}

func NewHealthChecker(db *gorm.DB) *HealthChecker {
	return &HealthChecker{db: db, now: time.Now}
}

// Check reports connectivity, round-trip latency of the ping plus version
// query, and pool statistics.
func (h *HealthChecker) Check(ctx context.Context) Health {
	if h == nil || h.db == nil {
		return Health{
			Status:  HealthDegraded,
			Metrics: HealthMetrics{LastChecked: h.clock()},
			Errors:  []string{"database not configured, serving from memory"},
		}
	}
	metrics := HealthMetrics{Persistent: true, LastChecked: h.clock()}
	errs := []string{}

	sqlDB, err := h.db.DB()
	if err != nil {
		return Health{Status: HealthUnhealthy, Metrics: metrics, Errors: append(errs, err.Error())}
	}
	stats := sqlDB.Stats()
	metrics.OpenConnections = stats.OpenConnections
	metrics.InUse = stats.InUse
	metrics.Idle = stats.Idle

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	start := h.clock()
	if err := sqlDB.PingContext(ctx); err != nil {
		return Health{Status: HealthUnhealthy, Metrics: metrics, Errors: append(errs, err.Error())}
	}
	metrics.Connected = true
	row := h.db.WithContext(ctx).Raw("SELECT version(), current_database()").Row()
	if err := row.Scan(&metrics.ServerVersion, &metrics.Database); err != nil {
		errs = append(errs, err.Error())
	}
	latency := h.clock().Sub(start)
	metrics.LatencyMS = latency.Milliseconds()

	return Health{Status: resolveStatus(metrics.Connected, latency, errs), Metrics: metrics, Errors: errs}
}

func (h *HealthChecker) clock() time.Time {
	if h == nil || h.now == nil {
		return time.Now().UTC()
	}
	return h.now().UTC()
}

func resolveStatus(connected bool, latency time.Duration, errs []string) HealthStatus {
	switch {
	case !connected:
		return HealthUnhealthy
	case latency > SlowLatency, len(errs) > 0:
		return HealthDegraded
	default:
		return HealthHealthy
	}
}
