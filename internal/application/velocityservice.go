package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ericfisherdev/ghvelocity/internal/domain/model"
	"github.com/ericfisherdev/ghvelocity/internal/domain/port/driven"
)

// Rollup is the cached aggregation output served to readers. It is replaced
// as a whole on each successful refresh; readers never see a partially
// updated rollup.
type Rollup struct {
	LastUpdate time.Time
	Days       []model.Day
	Weeks      []model.Week
}

// VelocityService recomputes the daily and weekly rollups from the sample
// store and serves the latest complete result from an in-memory cache.
type VelocityService struct {
	store       driven.SampleStore
	minInterval time.Duration
	logger      *slog.Logger

	mu     sync.Mutex
	rollup Rollup
}

// NewVelocityService creates a VelocityService. The cache starts empty; the
// first RefreshIfStale always recomputes. minInterval bounds how often a
// recomputation may run.
func NewVelocityService(store driven.SampleStore, minInterval time.Duration) *VelocityService {
	return &VelocityService{
		store:       store,
		minInterval: minInterval,
		logger:      slog.Default(),
	}
}

// Rollup returns the current cached rollup.
func (s *VelocityService) Rollup() Rollup {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rollup
}

// RefreshIfStale recomputes both rollups unless the cache was refreshed less
// than minInterval ago. The aggregation runs outside the lock so readers are
// only blocked for the swap. On error the previous rollup stays visible.
func (s *VelocityService) RefreshIfStale(ctx context.Context) error {
	s.mu.Lock()
	last := s.rollup.LastUpdate
	s.mu.Unlock()

	if !last.IsZero() && time.Since(last) < s.minInterval {
		return nil
	}

	days, err := s.store.CountOpenPRsByDay(ctx)
	if err != nil {
		return fmt.Errorf("refresh daily rollup: %w", err)
	}

	histories, err := s.store.ListPullRequests(ctx, nil)
	if err != nil {
		return fmt.Errorf("refresh weekly rollup: %w", err)
	}

	weeks, err := ComputeWeeklyStats(histories)
	if err != nil {
		return fmt.Errorf("refresh weekly rollup: %w", err)
	}

	s.mu.Lock()
	s.rollup = Rollup{LastUpdate: time.Now(), Days: days, Weeks: weeks}
	s.mu.Unlock()

	s.logger.Info("rollup refreshed", "days", len(days), "weeks", len(weeks))
	return nil
}

// Start runs the refresh scheduler: an immediate refresh, then one attempt per
// tick. A failed attempt keeps the previous rollup and is retried on the next
// tick. Start blocks until the context is canceled.
func (s *VelocityService) Start(ctx context.Context, tick time.Duration) {
	if err := s.RefreshIfStale(ctx); err != nil {
		s.logger.Error("initial rollup refresh failed", "error", err)
	}

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("velocity service stopped")
			return
		case <-ticker.C:
			if err := s.RefreshIfStale(ctx); err != nil {
				s.logger.Error("rollup refresh failed", "error", err)
			}
		}
	}
}
