package driven

import (
	"context"
	"time"
)

// PRSnapshot is the raw per-pull-request record fetched from the tracker, in
// the tracker's own numeric domain (wide, signed, optional). The ingest
// service saturates it into the entity model. List responses carry only the
// identity fields; the counter pointers are populated by the detail fetch and
// are nil when the tracker omits them.
type PRSnapshot struct {
	ID             int64
	Number         int
	Title          string
	Body           string
	AuthorID       int64
	AuthorLogin    string
	AuthorURL      string
	URL            string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	ClosedAt       *time.Time
	MergedAt       *time.Time
	Commits        *int
	Additions      *int
	Deletions      *int
	ChangedFiles   *int
	ReviewComments *int
	Reviewers      *int
}

// TrackerClient defines the driven port for the pull-request tracker.
type TrackerClient interface {
	// FetchOpenPullRequests lists the currently open pull requests with their
	// identity fields populated.
	FetchOpenPullRequests(ctx context.Context) ([]PRSnapshot, error)
	// FetchPullRequestDetail returns the full snapshot for one pull request,
	// including the counter fields the list response omits.
	FetchPullRequestDetail(ctx context.Context, number int) (*PRSnapshot, error)
	// FetchFirstCommitSHA returns the sha of the pull request's first commit,
	// or "" when the pull request has no commits.
	FetchFirstCommitSHA(ctx context.Context, number int) (string, error)
}
