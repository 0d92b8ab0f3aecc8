package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// ReadinessServiceImpl runs every check concurrently under one deadline
type ReadinessServiceImpl struct {
	checks  map[string]HealthCheck
	timeout time.Duration
	logger  *slog.Logger
}

func NewReadinessService(logger *slog.Logger, timeout time.Duration, checks map[string]HealthCheck) ReadinessService {
	return &ReadinessServiceImpl{
		checks:  checks,
		timeout: timeout,
		logger:  logger,
	}
}

func (s *ReadinessServiceImpl) Check(ctx context.Context) map[string]error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]error, len(s.checks))
	)
	for name, check := range s.checks {
		wg.Add(1)
		go func(name string, check HealthCheck) {
			defer wg.Done()
			err := check(ctx)
			if err == nil && ctx.Err() != nil {
				err = ctx.Err()
			}
			mu.Lock()
			results[name] = err
			mu.Unlock()
		}(name, check)
	}
	wg.Wait()

	var failing []string
	for name, err := range results {
		if err != nil {
			failing = append(failing, fmt.Sprintf("%s: %v", name, err))
		}
	}
	if len(failing) > 0 {
		sort.Strings(failing)
		s.logger.Warn("Readiness check failed", "failing", failing)
	}

	return results
}
