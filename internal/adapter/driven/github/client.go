// Package github implements the TrackerClient port using the go-github library.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/ericfisherdev/ghvelocity/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.TrackerClient = (*Client)(nil)

// Client implements the driven.TrackerClient port for one GitHub repository.
type Client struct {
	gh    *gh.Client
	owner string
	repo  string
}

// NewClient creates a GitHub API client for owner/repo with the following
// transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client with PAT auth)
func NewClient(token, owner, repo string) *Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	client := gh.NewClient(rateLimitClient).WithAuthToken(token)

	return &Client{
		gh:    client,
		owner: owner,
		repo:  repo,
	}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base
// URL, for pointing tests at an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL, owner, repo string) (*Client, error) {
	client := gh.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &Client{
		gh:    client,
		owner: owner,
		repo:  repo,
	}, nil
}

// FetchOpenPullRequests lists the repository's open pull requests. It handles
// pagination automatically and maps go-github types to snapshot records.
func (c *Client) FetchOpenPullRequests(ctx context.Context) ([]driven.PRSnapshot, error) {
	opts := &gh.PullRequestListOptions{
		State: "open",
		ListOptions: gh.ListOptions{
			PerPage: 100,
		},
	}

	var all []driven.PRSnapshot

	for {
		prs, resp, err := c.gh.PullRequests.List(ctx, c.owner, c.repo, opts)
		if err != nil {
			return nil, fmt.Errorf("listing pull requests for %s/%s (page %d): %w", c.owner, c.repo, opts.Page, err)
		}

		logRateLimit(resp, c.owner, c.repo, opts.Page, len(prs))

		for _, pr := range prs {
			all = append(all, mapSnapshot(pr))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	if all == nil {
		all = []driven.PRSnapshot{}
	}

	return all, nil
}

// FetchPullRequestDetail fetches the full record for one pull request,
// including the diff and comment counters the list response omits.
func (c *Client) FetchPullRequestDetail(ctx context.Context, number int) (*driven.PRSnapshot, error) {
	pr, _, err := c.gh.PullRequests.Get(ctx, c.owner, c.repo, number)
	if err != nil {
		return nil, fmt.Errorf("getting pull request %s/%s#%d: %w", c.owner, c.repo, number, err)
	}

	snap := mapSnapshot(pr)
	return &snap, nil
}

// FetchFirstCommitSHA returns the sha of the pull request's first commit, or
// "" for a pull request with no commits.
func (c *Client) FetchFirstCommitSHA(ctx context.Context, number int) (string, error) {
	commits, _, err := c.gh.PullRequests.ListCommits(ctx, c.owner, c.repo, number, &gh.ListOptions{PerPage: 1})
	if err != nil {
		return "", fmt.Errorf("listing commits for %s/%s#%d: %w", c.owner, c.repo, number, err)
	}

	if len(commits) == 0 {
		return "", nil
	}

	return commits[0].GetSHA(), nil
}

// mapSnapshot converts a go-github PullRequest to a snapshot record. Counter
// pointers pass through unconverted; absence stays observable until the
// ingest service saturates them.
func mapSnapshot(pr *gh.PullRequest) driven.PRSnapshot {
	var closedAt, mergedAt *time.Time
	if pr.ClosedAt != nil {
		t := pr.GetClosedAt().Time
		closedAt = &t
	}
	if pr.MergedAt != nil {
		t := pr.GetMergedAt().Time
		mergedAt = &t
	}

	var reviewers *int
	if pr.RequestedReviewers != nil {
		n := len(pr.RequestedReviewers)
		reviewers = &n
	}

	return driven.PRSnapshot{
		ID:             pr.GetID(),
		Number:         pr.GetNumber(),
		Title:          pr.GetTitle(),
		Body:           pr.GetBody(),
		AuthorID:       pr.GetUser().GetID(),
		AuthorLogin:    pr.GetUser().GetLogin(),
		AuthorURL:      pr.GetUser().GetHTMLURL(),
		URL:            pr.GetHTMLURL(),
		CreatedAt:      pr.GetCreatedAt().Time,
		UpdatedAt:      pr.GetUpdatedAt().Time,
		ClosedAt:       closedAt,
		MergedAt:       mergedAt,
		Commits:        pr.Commits,
		Additions:      pr.Additions,
		Deletions:      pr.Deletions,
		ChangedFiles:   pr.ChangedFiles,
		ReviewComments: pr.ReviewComments,
		Reviewers:      reviewers,
	}
}

// logRateLimit logs the remaining core rate limit when it is running low.
func logRateLimit(resp *gh.Response, owner, repo string, page, fetched int) {
	if resp == nil {
		return
	}
	if resp.Rate.Remaining < 100 {
		slog.Warn("github rate limit low",
			"repo", owner+"/"+repo,
			"page", page,
			"fetched", fetched,
			"remaining", resp.Rate.Remaining,
			"reset", resp.Rate.Reset.Time.Format(time.RFC3339),
		)
	}
}
