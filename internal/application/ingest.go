package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/ericfisherdev/ghvelocity/internal/domain/model"
	"github.com/ericfisherdev/ghvelocity/internal/domain/port/driven"
)

// IngestService drives the ingestion cadence: on every cycle it fetches the
// tracker's open pull requests and records exactly one new sample per pull
// request. One pull request's failure never aborts the cycle for the others.
type IngestService struct {
	tracker  driven.TrackerClient
	store    driven.SampleStore
	interval time.Duration
	logger   *slog.Logger
}

// NewIngestService creates an IngestService polling at the given interval.
func NewIngestService(tracker driven.TrackerClient, store driven.SampleStore, interval time.Duration) *IngestService {
	return &IngestService{
		tracker:  tracker,
		store:    store,
		interval: interval,
		logger:   slog.Default(),
	}
}

// Start runs an immediate ingestion cycle, then one per interval. It blocks
// until the context is canceled.
func (s *IngestService) Start(ctx context.Context) {
	if err := s.RunCycle(ctx); err != nil {
		s.logger.Error("initial ingestion cycle failed", "error", err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("ingest service stopped")
			return
		case <-ticker.C:
			if err := s.RunCycle(ctx); err != nil {
				s.logger.Error("ingestion cycle failed", "error", err)
			}
		}
	}
}

// RunCycle performs one ingestion pass. It returns an error only when the
// tracker's listing itself fails or the context is canceled; per-PR failures
// are logged and skipped.
func (s *IngestService) RunCycle(ctx context.Context) error {
	start := time.Now()

	snapshots, err := s.tracker.FetchOpenPullRequests(ctx)
	if err != nil {
		return err
	}

	var failed int
	for _, snap := range snapshots {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err := s.ingestOne(ctx, snap); err != nil {
			s.logger.Error("pr ingestion failed", "pr", snap.Number, "error", err)
			failed++
		}
	}

	s.logger.Info("ingestion cycle complete",
		"fetched", len(snapshots),
		"failed", failed,
		"duration", time.Since(start).Round(time.Millisecond),
	)

	return nil
}

// ingestOne records one sample for one pull request: enrich the snapshot with
// detail counters and the first commit, then upsert author, upsert pull
// request, append sample, in that order.
func (s *IngestService) ingestOne(ctx context.Context, snap driven.PRSnapshot) error {
	detail, err := s.tracker.FetchPullRequestDetail(ctx, snap.Number)
	if err != nil {
		return err
	}

	sha, err := s.tracker.FetchFirstCommitSHA(ctx, snap.Number)
	if err != nil {
		return err
	}

	author := model.User{
		ID:         model.SaturateInt64(detail.AuthorID),
		Username:   detail.AuthorLogin,
		ProfileURL: detail.AuthorURL,
	}
	if err := s.store.UpsertUser(ctx, author); err != nil {
		return err
	}

	pr := model.PullRequest{
		ID:      model.SaturateInt64(detail.ID),
		Number:  model.SaturateInt(detail.Number),
		Title:   detail.Title,
		Body:    detail.Body,
		Author:  author,
		Created: model.NewDate(detail.CreatedAt),
		URL:     detail.URL,
	}
	if err := s.store.UpsertPullRequest(ctx, pr); err != nil {
		return err
	}

	sample := model.Sample{
		PRID:           pr.ID,
		Time:           model.NewDate(detail.UpdatedAt),
		Status:         model.DeriveStatus(dateOrZero(detail.ClosedAt), dateOrZero(detail.MergedAt)),
		Commits:        model.SaturateIntPtr(detail.Commits),
		Additions:      model.SaturateIntPtr(detail.Additions),
		Deletions:      model.SaturateIntPtr(detail.Deletions),
		ChangedFiles:   model.SaturateIntPtr(detail.ChangedFiles),
		ReviewComments: model.SaturateIntPtr(detail.ReviewComments),
		Reviewers:      model.SaturateIntPtr(detail.Reviewers),
		FirstCommit:    model.Sha(sha),
	}
	return s.store.AppendSample(ctx, sample)
}

// dateOrZero converts an optional tracker timestamp to a Date, nil meaning
// absent.
func dateOrZero(t *time.Time) model.Date {
	if t == nil {
		return ""
	}
	return model.NewDate(*t)
}
