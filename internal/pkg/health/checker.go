// Package health - проверки зависимостей для readiness (HTTP /ready и gRPC health).
package health

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// CheckFunc проверяет одну зависимость.
type CheckFunc func(ctx context.Context) error

// Status значения в отчёте.
const (
	StatusHealthy       = "healthy"
	StatusNotConfigured = "not configured"
)

// Report - результат проверки всех зависимостей.
type Report struct {
	Ready  bool
	Checks map[string]string
}

// Checker выполняет именованные проверки параллельно с общим таймаутом.
type Checker struct {
	checks  map[string]CheckFunc
	timeout time.Duration
}

// NewChecker создаёт Checker. nil-проверка означает "не настроено" и не влияет на готовность.
func NewChecker(timeout time.Duration, checks map[string]CheckFunc) *Checker {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Checker{checks: checks, timeout: timeout}
}

// Run выполняет все проверки.
func (c *Checker) Run(ctx context.Context) Report {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var (
		mu     sync.Mutex
		g      errgroup.Group
		report = Report{Ready: true, Checks: make(map[string]string, len(c.checks))}
	)

	for name, check := range c.checks {
		if check == nil {
			mu.Lock()
			report.Checks[name] = StatusNotConfigured
			mu.Unlock()
			continue
		}

		// Ошибка проверки попадает в отчёт, а не в группу: остальные проверки не отменяются.
		g.Go(func() error {
			err := check(ctx)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Checks[name] = "unhealthy: " + err.Error()
				report.Ready = false
				return nil
			}
			report.Checks[name] = StatusHealthy
			return nil
		})
	}

	_ = g.Wait()
	return report
}

// Ready - сокращение для Run(ctx).Ready.
func (c *Checker) Ready(ctx context.Context) bool {
	return c.Run(ctx).Ready
}
