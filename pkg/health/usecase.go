package health

import (
	"context"
	"fmt"
	"time"
)

// Checker represents a dependency health check.
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

// ReadinessUseCase describes liveness and readiness verification.
type ReadinessUseCase interface {
	Ready(ctx context.Context) error
	Uptime() time.Duration
}

type service struct {
	checkers []Checker
	started  time.Time
	now      func() time.Time
}

// NewService aggregates dependency checkers. Uptime is measured from this call.
func NewService(checkers ...Checker) ReadinessUseCase {
	return &service{checkers: checkers, started: time.Now(), now: time.Now}
}

func (s *service) Ready(ctx context.Context) error {
	for _, ch := range s.checkers {
		if err := ch.Check(ctx); err != nil {
			return fmt.Errorf("%s: %w", ch.Name(), err)
		}
	}
	return nil
}

func (s *service) Uptime() time.Duration {
	return s.now().Sub(s.started)
}
