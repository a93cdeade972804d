// Package application contains use-case orchestration services.
package application

import (
	"fmt"
	"time"

	"github.com/ericfisherdev/ghvelocity/internal/domain/model"
)

// ComputeWeeklyStats derives the weekly rollup from a set of pull request
// histories. Weeks start on Monday, UTC, and run from the week of the earliest
// created date through the week of the latest sample. Every week in that span
// is emitted, including weeks with no activity, so the output is a dense
// sequence suitable for charting. The computation is deterministic and never
// mutates its input.
func ComputeWeeklyStats(histories []model.PullRequestHistory) ([]model.Week, error) {
	var earliest, latest model.Date
	for _, h := range histories {
		if earliest.IsZero() || h.Created.Before(earliest) {
			earliest = h.Created
		}
		for _, s := range h.Samples {
			if latest.IsZero() || latest.Before(s.Time) {
				latest = s.Time
			}
		}
	}
	if earliest.IsZero() {
		return []model.Week{}, nil
	}
	if latest.IsZero() || latest.Before(earliest) {
		latest = earliest
	}

	start, err := earliest.Time()
	if err != nil {
		return nil, fmt.Errorf("weekly stats horizon: %w", err)
	}
	end, err := latest.Time()
	if err != nil {
		return nil, fmt.Errorf("weekly stats horizon: %w", err)
	}

	var weeks []model.Week
	for ws := mondayOf(start); !ws.After(end); ws = ws.AddDate(0, 0, 7) {
		lo := model.NewDate(ws)
		hi := model.NewDate(ws.AddDate(0, 0, 7))

		week := model.Week{StartDate: lo.Day()}
		var timeToMerge, reviewComments []uint32

		for _, h := range histories {
			rep, ok := representativeSample(h.Samples, lo, hi)
			if !ok {
				continue
			}
			switch rep.Status.Kind {
			case model.StatusMerged:
				week.MergedPRs++
				mins, err := h.Created.MinutesUntil(rep.Status.At)
				if err != nil {
					return nil, fmt.Errorf("time to merge for pr %d: %w", h.ID, err)
				}
				timeToMerge = append(timeToMerge, mins)
				reviewComments = append(reviewComments, rep.ReviewComments)
			case model.StatusClosed:
				week.ClosedPRs++
			}
			// Open representatives belong to the daily rollup, not this one.
		}

		week.TimeToMerge = ComputeDistribution(timeToMerge)
		week.ReviewComments = ComputeDistribution(reviewComments)
		weeks = append(weeks, week)
	}

	return weeks, nil
}

// representativeSample returns the most recent sample whose time falls in the
// half-open window [lo, hi). Time is the sort key; among equal times the later
// row wins.
func representativeSample(samples []model.Sample, lo, hi model.Date) (model.Sample, bool) {
	var rep model.Sample
	found := false
	for _, s := range samples {
		if s.Time.Before(lo) || !s.Time.Before(hi) {
			continue
		}
		if !found || !s.Time.Before(rep.Time) {
			rep = s
			found = true
		}
	}
	return rep, found
}

// mondayOf truncates t to the Monday 00:00:00 UTC of its week.
func mondayOf(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	back := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -back)
}

// ComputeDistribution reduces a list of unsigned integers to its summary.
// Mean rounds to nearest with ties up; mode ties break to the smallest value.
// An empty list yields the zero Distribution.
func ComputeDistribution(values []uint32) model.Distribution {
	if len(values) == 0 {
		return model.Distribution{}
	}

	counts := make(map[uint32]int, len(values))
	var sum uint64
	min, max := values[0], values[0]
	for _, v := range values {
		counts[v]++
		sum += uint64(v)
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	n := uint64(len(values))
	mean := uint32((sum + n/2) / n)

	mode := max
	best := 0
	for v, c := range counts {
		if c > best || (c == best && v < mode) {
			mode = v
			best = c
		}
	}

	return model.Distribution{Mean: mean, Mode: mode, Min: min, Max: max}
}
