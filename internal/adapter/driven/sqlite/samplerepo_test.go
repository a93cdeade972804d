package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/ghvelocity/internal/domain/model"
)

func makeUser(id uint32, username string) model.User {
	return model.User{
		ID:         id,
		Username:   username,
		ProfileURL: "https://github.com/" + username,
	}
}

func makePR(id, number uint32, title string, created model.Date, author model.User) model.PullRequest {
	return model.PullRequest{
		ID:      id,
		Number:  number,
		Title:   title,
		Body:    "Body of " + title,
		Author:  author,
		Created: created,
		URL:     "https://github.com/octo/velocity/pull/" + title,
	}
}

func makeSample(prID uint32, time model.Date, status model.Status, reviewComments uint32) model.Sample {
	return model.Sample{
		PRID:           prID,
		Time:           time,
		Status:         status,
		Commits:        3,
		Additions:      120,
		Deletions:      40,
		ChangedFiles:   5,
		ReviewComments: reviewComments,
		Reviewers:      2,
		FirstCommit:    "abc123",
	}
}

// addPR upserts the author then the pull request, the order ingestion uses.
func addPR(t *testing.T, repo *SampleRepo, pr model.PullRequest) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, repo.UpsertUser(ctx, pr.Author))
	require.NoError(t, repo.UpsertPullRequest(ctx, pr))
}

func TestSampleRepo_UpsertUser_FirstWriteWins(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSampleRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.UpsertUser(ctx, makeUser(42, "bob")))

	// A second write with the same id and different fields is a no-op.
	again := makeUser(42, "definitely-not-bob")
	require.NoError(t, repo.UpsertUser(ctx, again))

	var count int
	require.NoError(t, db.Reader.QueryRow("SELECT COUNT(*) FROM users").Scan(&count))
	assert.Equal(t, 1, count)

	var username string
	require.NoError(t, db.Reader.QueryRow("SELECT username FROM users WHERE id = 42").Scan(&username))
	assert.Equal(t, "bob", username)
}

func TestSampleRepo_UpsertPullRequest_FirstWriteWins(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSampleRepo(db)
	ctx := context.Background()

	author := makeUser(42, "bob")
	pr := makePR(1, 101, "first title", "2019-05-14 09:15:13", author)
	addPR(t, repo, pr)

	pr.Title = "rewritten title"
	require.NoError(t, repo.UpsertPullRequest(ctx, pr))

	prs, err := repo.ListPullRequests(ctx, nil)
	require.NoError(t, err)
	require.Len(t, prs, 1)
	assert.Equal(t, "first title", prs[0].Title)
	assert.Equal(t, "bob", prs[0].Author.Username)
}

func TestSampleRepo_AppendSample_UnknownPR(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSampleRepo(db)
	ctx := context.Background()

	err := repo.AppendSample(ctx, makeSample(999, "2019-05-14 09:15:13", model.Open(), 0))
	require.ErrorIs(t, err, model.ErrUnknownPullRequest)

	var count int
	require.NoError(t, db.Reader.QueryRow("SELECT COUNT(*) FROM samples").Scan(&count))
	assert.Equal(t, 0, count, "a failed append must leave no row behind")
}

func TestSampleRepo_ListPullRequests_Ordering(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSampleRepo(db)
	ctx := context.Background()

	author := makeUser(42, "bob")
	// Insert out of display order; reads come back by number.
	addPR(t, repo, makePR(7, 205, "later", "2019-05-20 10:00:00", author))
	addPR(t, repo, makePR(3, 101, "earlier", "2019-05-14 09:15:13", author))

	// Samples inserted out of time order; reads come back by time.
	require.NoError(t, repo.AppendSample(ctx, makeSample(3, "2019-05-20 08:00:00", model.Open(), 5)))
	require.NoError(t, repo.AppendSample(ctx, makeSample(3, "2019-05-14 10:00:00", model.Open(), 2)))

	prs, err := repo.ListPullRequests(ctx, nil)
	require.NoError(t, err)
	require.Len(t, prs, 2)

	assert.Equal(t, uint32(101), prs[0].Number)
	assert.Equal(t, uint32(205), prs[1].Number)

	require.Len(t, prs[0].Samples, 2)
	assert.Equal(t, model.Date("2019-05-14 10:00:00"), prs[0].Samples[0].Time)
	assert.Equal(t, model.Date("2019-05-20 08:00:00"), prs[0].Samples[1].Time)
	assert.Empty(t, prs[1].Samples)
}

func TestSampleRepo_ListPullRequests_CreatedRange(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSampleRepo(db)
	ctx := context.Background()

	author := makeUser(42, "bob")
	addPR(t, repo, makePR(1, 101, "in range", "2019-05-14 09:15:13", author))
	addPR(t, repo, makePR(2, 102, "before range", "2019-05-01 00:00:00", author))
	addPR(t, repo, makePR(3, 103, "at end", "2019-06-01 00:00:00", author))

	// Half-open range on created: start inclusive, end exclusive.
	prs, err := repo.ListPullRequests(ctx, &model.DateRange{
		Start: "2019-05-14 00:00:00",
		End:   "2019-06-01 00:00:00",
	})
	require.NoError(t, err)
	require.Len(t, prs, 1)
	assert.Equal(t, "in range", prs[0].Title)
}

func TestSampleRepo_StatusRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSampleRepo(db)
	ctx := context.Background()

	addPR(t, repo, makePR(1, 101, "pr", "2019-05-14 09:15:13", makeUser(42, "bob")))

	merged := model.Merged("2019-05-20 16:30:00")
	require.NoError(t, repo.AppendSample(ctx, makeSample(1, "2019-05-20 17:00:00", merged, 5)))

	prs, err := repo.ListPullRequests(ctx, nil)
	require.NoError(t, err)
	require.Len(t, prs, 1)
	require.Len(t, prs[0].Samples, 1)

	assert.Equal(t, merged, prs[0].Samples[0].Status)
	assert.Equal(t, model.Sha("abc123"), prs[0].Samples[0].FirstCommit)
}

func TestSampleRepo_CorruptStatusRow_Skipped(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSampleRepo(db)
	ctx := context.Background()

	addPR(t, repo, makePR(1, 101, "pr", "2019-05-14 09:15:13", makeUser(42, "bob")))
	require.NoError(t, repo.AppendSample(ctx, makeSample(1, "2019-05-14 10:00:00", model.Open(), 2)))

	// Simulate corruption behind the store's back.
	_, err := db.Writer.Exec(`
		INSERT INTO samples (pr, status, time, commits, additions, deletions,
		                     changed_files, review_comments, reviewers, first_commit)
		VALUES (1, 'Xorrupt', '2019-05-15 10:00:00', 0, 0, 0, 0, 0, 0, '')
	`)
	require.NoError(t, err)

	prs, err := repo.ListPullRequests(ctx, nil)
	require.NoError(t, err)
	require.Len(t, prs, 1)

	// The corrupt row is dropped from the history; the good row survives.
	require.Len(t, prs[0].Samples, 1)
	assert.Equal(t, model.Date("2019-05-14 10:00:00"), prs[0].Samples[0].Time)
}

func TestSampleRepo_CountOpenPRsByDay(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSampleRepo(db)
	ctx := context.Background()

	author := makeUser(42, "bob")
	addPR(t, repo, makePR(1, 101, "one", "2019-05-14 09:15:13", author))
	addPR(t, repo, makePR(2, 102, "two", "2019-05-14 11:00:00", author))

	// Two distinct PRs sampled open on the same calendar day.
	require.NoError(t, repo.AppendSample(ctx, makeSample(1, "2019-05-14 10:00:00", model.Open(), 0)))
	require.NoError(t, repo.AppendSample(ctx, makeSample(2, "2019-05-14 12:00:00", model.Open(), 0)))
	// A merged sample that day does not count.
	require.NoError(t, repo.AppendSample(ctx, makeSample(1, "2019-05-15 10:00:00", model.Merged("2019-05-15 09:00:00"), 0)))
	// An open sample on a later day lands in its own bucket.
	require.NoError(t, repo.AppendSample(ctx, makeSample(2, "2019-05-16 10:00:00", model.Open(), 0)))

	days, err := repo.CountOpenPRsByDay(ctx)
	require.NoError(t, err)
	require.Len(t, days, 2)

	assert.Equal(t, model.Day{Date: "2019-05-14", OpenPRs: 2}, days[0])
	assert.Equal(t, model.Day{Date: "2019-05-16", OpenPRs: 1}, days[1])
}
