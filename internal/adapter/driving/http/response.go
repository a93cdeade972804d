package httphandler

import (
	"encoding/json"
	"net/http"

	"github.com/ericfisherdev/ghvelocity/internal/application"
	"github.com/ericfisherdev/ghvelocity/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// UserResponse is the JSON representation of a pull request author.
type UserResponse struct {
	Username   string `json:"username"`
	ProfileURL string `json:"profile_url"`
}

// SampleResponse is the JSON representation of one observation.
type SampleResponse struct {
	Time           string `json:"time"`
	Status         string `json:"status"`
	Commits        uint32 `json:"commits"`
	Additions      uint32 `json:"additions"`
	Deletions      uint32 `json:"deletions"`
	ChangedFiles   uint32 `json:"changed_files"`
	ReviewComments uint32 `json:"review_comments"`
	Reviewers      uint32 `json:"reviewers"`
	FirstCommit    string `json:"first_commit"`
}

// PRResponse is the JSON representation of a pull request with its history.
type PRResponse struct {
	Number  uint32           `json:"number"`
	Title   string           `json:"title"`
	Body    string           `json:"body"`
	Author  UserResponse     `json:"author"`
	Created string           `json:"created"`
	URL     string           `json:"url"`
	Samples []SampleResponse `json:"samples"`
}

// DayResponse is one point of the daily open-PR rollup. The date field is the
// only date axis serialized for days.
type DayResponse struct {
	Date    string `json:"date"`
	OpenPRs uint32 `json:"open_prs"`
}

// DistributionResponse is the JSON representation of a value distribution.
type DistributionResponse struct {
	Mean uint32 `json:"mean"`
	Mode uint32 `json:"mode"`
	Min  uint32 `json:"min"`
	Max  uint32 `json:"max"`
}

// WeekResponse is one point of the weekly rollup. start_date is the only date
// axis serialized for weeks; time_to_merge is in minutes.
type WeekResponse struct {
	StartDate      string               `json:"start_date"`
	MergedPRs      uint32               `json:"merged_prs"`
	ClosedPRs      uint32               `json:"closed_prs"`
	TimeToMerge    DistributionResponse `json:"time_to_merge"`
	ReviewComments DistributionResponse `json:"review_comments"`
}

// VelocityResponse is the whole cached rollup. The cache's last-update instant
// is internal state and is not serialized.
type VelocityResponse struct {
	Days  []DayResponse  `json:"days"`
	Weeks []WeekResponse `json:"weeks"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

func toPRResponse(h model.PullRequestHistory) PRResponse {
	samples := make([]SampleResponse, 0, len(h.Samples))
	for _, s := range h.Samples {
		samples = append(samples, SampleResponse{
			Time:           string(s.Time),
			Status:         s.Status.Encode(),
			Commits:        s.Commits,
			Additions:      s.Additions,
			Deletions:      s.Deletions,
			ChangedFiles:   s.ChangedFiles,
			ReviewComments: s.ReviewComments,
			Reviewers:      s.Reviewers,
			FirstCommit:    string(s.FirstCommit),
		})
	}

	return PRResponse{
		Number: h.Number,
		Title:  h.Title,
		Body:   h.Body,
		Author: UserResponse{
			Username:   h.Author.Username,
			ProfileURL: h.Author.ProfileURL,
		},
		Created: string(h.Created),
		URL:     h.URL,
		Samples: samples,
	}
}

func toDayResponse(d model.Day) DayResponse {
	return DayResponse{
		Date:    string(d.Date),
		OpenPRs: d.OpenPRs,
	}
}

func toDistributionResponse(d model.Distribution) DistributionResponse {
	return DistributionResponse{Mean: d.Mean, Mode: d.Mode, Min: d.Min, Max: d.Max}
}

func toWeekResponse(w model.Week) WeekResponse {
	return WeekResponse{
		StartDate:      string(w.StartDate),
		MergedPRs:      w.MergedPRs,
		ClosedPRs:      w.ClosedPRs,
		TimeToMerge:    toDistributionResponse(w.TimeToMerge),
		ReviewComments: toDistributionResponse(w.ReviewComments),
	}
}

func toVelocityResponse(r application.Rollup) VelocityResponse {
	days := make([]DayResponse, 0, len(r.Days))
	for _, d := range r.Days {
		days = append(days, toDayResponse(d))
	}

	weeks := make([]WeekResponse, 0, len(r.Weeks))
	for _, w := range r.Weeks {
		weeks = append(weeks, toWeekResponse(w))
	}

	return VelocityResponse{Days: days, Weeks: weeks}
}
