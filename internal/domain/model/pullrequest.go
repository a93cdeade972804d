package model

// User is the author identity attached to pull requests. Users are written
// once on first observation and never mutated.
type User struct {
	ID         uint32
	Username   string
	ProfileURL string
}

// PullRequest is the immutable identity of a tracked pull request. ID is the
// tracker's stable identifier and the join key from samples; Number is the
// display number used for ordering.
type PullRequest struct {
	ID      uint32
	Number  uint32
	Title   string
	Body    string
	Author  User
	Created Date
	URL     string
}

// Sample is one observation of a pull request at one instant. Samples are
// append-only; the most recent sample at or before an instant is the pull
// request's canonical state at that instant.
type Sample struct {
	PRID           uint32
	Time           Date
	Status         Status
	Commits        uint32
	Additions      uint32
	Deletions      uint32
	ChangedFiles   uint32
	ReviewComments uint32
	Reviewers      uint32
	FirstCommit    Sha
}

// PullRequestHistory is a pull request with its full sample history ordered
// by sample time ascending.
type PullRequestHistory struct {
	PullRequest
	Samples []Sample
}

// DateRange is a half-open [Start, End) interval of dates.
type DateRange struct {
	Start Date
	End   Date
}

// Contains reports whether d falls inside the half-open interval.
func (r DateRange) Contains(d Date) bool {
	return !d.Before(r.Start) && d.Before(r.End)
}
