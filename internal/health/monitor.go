// Package health runs scheduled dependency checks and keeps the latest result.
package health

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"truckrecruit/internal/cache"
	"truckrecruit/internal/logger"
)

const (
	// SlowThreshold is the latency above which a passing check is logged as slow.
	SlowThreshold = 500 * time.Millisecond
	checkTimeout  = 5 * time.Second
)

// Check probes one dependency. A failing critical check marks the whole service unhealthy.
type Check struct {
	Name     string
	Critical bool
	Ping     func(ctx context.Context) error
}

// Component is the result of one check.
type Component struct {
	Healthy   bool   `json:"healthy"`
	LatencyMS int64  `json:"latency_ms"`
	Slow      bool   `json:"slow,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Status is the outcome of a full round of checks.
type Status struct {
	Healthy    bool                 `json:"healthy"`
	CheckedAt  time.Time            `json:"checked_at"`
	Components map[string]Component `json:"components"`
}

// Monitor runs its checks on a cron schedule.
type Monitor struct {
	spec   string
	checks []Check
	cron   *cron.Cron

	mu     sync.RWMutex
	status Status
}

// NewMonitor creates a monitor that runs checks on spec, e.g. "@every 5m".
func NewMonitor(spec string, checks ...Check) *Monitor {
	return &Monitor{
		spec:   spec,
		checks: checks,
		cron:   cron.New(),
	}
}

// DBCheck pings the SQL connection pool behind db.
func DBCheck(db *gorm.DB) Check {
	return Check{
		Name:     "database",
		Critical: true,
		Ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
}

// CacheCheck pings redis. The cache fails safe, so it never makes the service unhealthy.
func CacheCheck(c *cache.Client) Check {
	return Check{Name: "redis", Ping: c.Ping}
}

// Start runs one round immediately and schedules the rest.
func (m *Monitor) Start() error {
	if _, err := m.cron.AddFunc(m.spec, func() { m.Run(context.Background()) }); err != nil {
		return fmt.Errorf("schedule health check %q: %w", m.spec, err)
	}
	m.Run(context.Background())
	m.cron.Start()
	return nil
}

// Stop halts scheduling and waits for a running round to finish.
func (m *Monitor) Stop() {
	<-m.cron.Stop().Done()
}

// Run executes every check once and stores the result.
func (m *Monitor) Run(ctx context.Context) Status {
	status := Status{
		Healthy:    true,
		CheckedAt:  time.Now().UTC(),
		Components: make(map[string]Component, len(m.checks)),
	}

	for _, check := range m.checks {
		c := probe(ctx, check)
		status.Components[check.Name] = c

		log := logger.L().With("component", check.Name, "latency_ms", c.LatencyMS)
		switch {
		case !c.Healthy:
			log.Error("health check failed", "error", c.Error)
			if check.Critical {
				status.Healthy = false
			}
		case c.Slow:
			log.Warn("health check slow")
		default:
			log.Debug("health check ok")
		}
	}

	m.mu.Lock()
	m.status = status
	m.mu.Unlock()
	return status
}

// Status returns the latest stored result. Before the first round it reports unhealthy.
func (m *Monitor) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func probe(ctx context.Context, check Check) Component {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	start := time.Now()
	err := check.Ping(ctx)
	latency := time.Since(start)

	c := Component{
		Healthy:   err == nil,
		LatencyMS: latency.Milliseconds(),
		Slow:      latency > SlowThreshold,
	}
	if err != nil {
		c.Error = err.Error()
	}
	return c
}
