// Package driven defines the driven ports the application core depends on.
package driven

import (
	"context"

	"github.com/ericfisherdev/ghvelocity/internal/domain/model"
)

// SampleStore defines the driven port for sample persistence. It is the single
// source of truth; production and test implementations are interchangeable.
type SampleStore interface {
	// UpsertUser inserts the user if absent. An existing row with the same id
	// is left unmodified and the call succeeds (first-write-wins).
	UpsertUser(ctx context.Context, u model.User) error
	// UpsertPullRequest inserts the pull request if absent, first-write-wins
	// keyed by id. The author must have been upserted beforehand.
	UpsertPullRequest(ctx context.Context, pr model.PullRequest) error
	// AppendSample unconditionally inserts a sample. Referencing an unknown
	// pull request id fails with model.ErrUnknownPullRequest.
	AppendSample(ctx context.Context, s model.Sample) error
	// ListPullRequests returns all pull requests ordered by number ascending,
	// each with its full sample history ordered by time ascending. A non-nil
	// created restricts to pull requests whose created date falls in the
	// half-open range.
	ListPullRequests(ctx context.Context, created *model.DateRange) ([]model.PullRequestHistory, error)
	// CountOpenPRsByDay counts open-labeled samples grouped by the calendar
	// day of their observation time, ordered by day ascending.
	CountOpenPRsByDay(ctx context.Context) ([]model.Day, error)
}
