package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ericfisherdev/ghvelocity/internal/domain/model"
	"github.com/ericfisherdev/ghvelocity/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SampleStore = (*SampleRepo)(nil)

// SampleRepo is the SQLite implementation of the SampleStore port.
type SampleRepo struct {
	db     *DB
	logger *slog.Logger
}

// NewSampleRepo creates a SampleRepo backed by the given DB.
func NewSampleRepo(db *DB) *SampleRepo {
	return &SampleRepo{db: db, logger: slog.Default()}
}

// UpsertUser inserts the user unless a row with the same id exists. The
// existing row is never overwritten; users are immutable once observed.
func (r *SampleRepo) UpsertUser(ctx context.Context, u model.User) error {
	const query = `
		INSERT INTO users (id, username, profile_url)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`

	if _, err := r.db.Writer.ExecContext(ctx, query, u.ID, u.Username, u.ProfileURL); err != nil {
		return fmt.Errorf("upsert user %d: %w", u.ID, err)
	}

	return nil
}

// UpsertPullRequest inserts the pull request unless a row with the same id
// exists, first-write-wins. The author row must exist already.
func (r *SampleRepo) UpsertPullRequest(ctx context.Context, pr model.PullRequest) error {
	const query = `
		INSERT INTO pull_requests (id, number, title, body, author, created, url)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`

	_, err := r.db.Writer.ExecContext(ctx, query,
		pr.ID, pr.Number, pr.Title, pr.Body, pr.Author.ID, string(pr.Created), pr.URL,
	)
	if err != nil {
		return fmt.Errorf("upsert pull request %d: %w", pr.ID, err)
	}

	return nil
}

// AppendSample inserts one observation row. An unknown pull request id
// surfaces as model.ErrUnknownPullRequest and inserts nothing.
func (r *SampleRepo) AppendSample(ctx context.Context, s model.Sample) error {
	const query = `
		INSERT INTO samples (
			pr, status, time, commits, additions, deletions,
			changed_files, review_comments, reviewers, first_commit
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Writer.ExecContext(ctx, query,
		s.PRID, s.Status.Encode(), string(s.Time), s.Commits, s.Additions, s.Deletions,
		s.ChangedFiles, s.ReviewComments, s.Reviewers, string(s.FirstCommit),
	)
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return fmt.Errorf("append sample for pr %d: %w", s.PRID, model.ErrUnknownPullRequest)
		}
		return fmt.Errorf("append sample for pr %d: %w", s.PRID, err)
	}

	return nil
}

// ListPullRequests returns all pull requests ordered by number with their
// sample histories ordered by time. A non-nil created range restricts to pull
// requests created inside the half-open interval.
func (r *SampleRepo) ListPullRequests(ctx context.Context, created *model.DateRange) ([]model.PullRequestHistory, error) {
	query := `
		SELECT pr.id, pr.number, pr.title, pr.body, pr.created, pr.url,
		       u.id, u.username, u.profile_url
		FROM pull_requests pr
		JOIN users u ON pr.author = u.id
	`
	var args []any
	if created != nil {
		query += ` WHERE pr.created >= ? AND pr.created < ?`
		args = append(args, string(created.Start), string(created.End))
	}
	query += ` ORDER BY pr.number`

	rows, err := r.db.Reader.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query pull requests: %w", err)
	}
	defer rows.Close()

	var histories []model.PullRequestHistory
	for rows.Next() {
		var h model.PullRequestHistory
		var createdStr string
		err := rows.Scan(
			&h.ID, &h.Number, &h.Title, &h.Body, &createdStr, &h.URL,
			&h.Author.ID, &h.Author.Username, &h.Author.ProfileURL,
		)
		if err != nil {
			return nil, fmt.Errorf("scan pull request: %w", err)
		}
		h.Created = model.Date(createdStr)
		histories = append(histories, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pull requests: %w", err)
	}

	for i := range histories {
		samples, err := r.samplesFor(ctx, histories[i].ID)
		if err != nil {
			return nil, err
		}
		histories[i].Samples = samples
	}

	return histories, nil
}

// samplesFor loads one pull request's sample history ordered by time. A row
// whose status cannot be decoded is a corruption signal: it is logged with
// full context and skipped so one bad row does not hide the rest of the
// history.
func (r *SampleRepo) samplesFor(ctx context.Context, prID uint32) ([]model.Sample, error) {
	const query = `
		SELECT pr, status, time, commits, additions, deletions,
		       changed_files, review_comments, reviewers, first_commit
		FROM samples
		WHERE pr = ?
		ORDER BY time
	`

	rows, err := r.db.Reader.QueryContext(ctx, query, prID)
	if err != nil {
		return nil, fmt.Errorf("query samples for pr %d: %w", prID, err)
	}
	defer rows.Close()

	var samples []model.Sample
	for rows.Next() {
		var s model.Sample
		var status, timeStr, firstCommit string
		err := rows.Scan(
			&s.PRID, &status, &timeStr, &s.Commits, &s.Additions, &s.Deletions,
			&s.ChangedFiles, &s.ReviewComments, &s.Reviewers, &firstCommit,
		)
		if err != nil {
			return nil, fmt.Errorf("scan sample for pr %d: %w", prID, err)
		}

		s.Status, err = model.DecodeStatus(status)
		if err != nil {
			r.logger.Error("corrupt sample row",
				"pr", prID,
				"time", timeStr,
				"error", err,
			)
			continue
		}

		s.Time = model.Date(timeStr)
		s.FirstCommit = model.Sha(firstCommit)
		samples = append(samples, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate samples for pr %d: %w", prID, err)
	}

	return samples, nil
}

// CountOpenPRsByDay counts open-labeled samples per calendar day, ordered by
// day. Each row counts samples observed open that day, not distinct pull
// requests open throughout the day.
func (r *SampleRepo) CountOpenPRsByDay(ctx context.Context) ([]model.Day, error) {
	const query = `
		SELECT date(time), COUNT(*)
		FROM samples
		WHERE status = 'Open'
		GROUP BY date(time)
		ORDER BY date(time)
	`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query open samples by day: %w", err)
	}
	defer rows.Close()

	var days []model.Day
	for rows.Next() {
		var d model.Day
		var day string
		if err := rows.Scan(&day, &d.OpenPRs); err != nil {
			return nil, fmt.Errorf("scan day count: %w", err)
		}
		d.Date = model.Date(day)
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate day counts: %w", err)
	}

	return days, nil
}
