// Package consensus computes the group decision for a trip: which weekend(s)
// most attendees can make and which region(s) most attendees want.
//
// Everything here is a pure function over a snapshot of attendees. Results
// are recomputed on every read and never stored.
package consensus

import (
	"math"

	"github.com/pkordes/hike-planner/backend/internal/domain"
)

// minSupport is the lowest count that can win. A single vote is not consensus.
const minSupport = 2

// WeekendScore is the tally for one weekend.
type WeekendScore struct {
	Weekend    domain.Weekend
	Count      int
	Percentage int
}

// RegionScore is the tally for one region. Name falls back to RegionID when
// the catalog does not know the id.
type RegionScore struct {
	RegionID   string
	Name       string
	Count      int
	Percentage int
}

// Result holds the winning weekends and regions. Ties are kept, in the order
// the candidates were scored: ascending Saturday for weekends, first
// appearance for regions.
type Result struct {
	BestWeekends []WeekendScore
	BestRegions  []RegionScore
}

// HasConsensus reports whether there is anything worth highlighting.
func (r Result) HasConsensus() bool {
	return len(r.BestWeekends) > 0 || len(r.BestRegions) > 0
}

// CanGenerateItinerary reports whether both a weekend and a region won.
func (r Result) CanGenerateItinerary() bool {
	return len(r.BestWeekends) > 0 && len(r.BestRegions) > 0
}

// Compute scores every weekend and every preferred region and keeps the
// winners.
//
// attendees must be non-empty; with no attendees there is nothing to divide
// by and Compute returns an empty Result.
func Compute(attendees []domain.Attendee, weekends []domain.Weekend) Result {
	if len(attendees) == 0 {
		return Result{}
	}
	return Result{
		BestWeekends: best(ScoreWeekends(attendees, weekends), func(s WeekendScore) int { return s.Count }),
		BestRegions:  best(ScoreRegions(attendees), func(s RegionScore) int { return s.Count }),
	}
}

// ScoreWeekends returns the unfiltered tally for every weekend, in the order
// given. Attendees without an entry for a weekend count as unavailable.
func ScoreWeekends(attendees []domain.Attendee, weekends []domain.Weekend) []WeekendScore {
	scores := make([]WeekendScore, 0, len(weekends))
	for _, w := range weekends {
		count := 0
		for _, a := range attendees {
			if a.IsAvailable(w.Formatted) {
				count++
			}
		}
		scores = append(scores, WeekendScore{
			Weekend:    w,
			Count:      count,
			Percentage: percentage(count, len(attendees)),
		})
	}
	return scores
}

// ScoreRegions tallies preferred regions. Each attendee votes at most once
// per region. Returns nil when nobody expressed a preference at all.
func ScoreRegions(attendees []domain.Attendee) []RegionScore {
	votes := newTally()
	for _, a := range attendees {
		seen := make(map[string]bool, len(a.PreferredRegions))
		for _, id := range a.PreferredRegions {
			if seen[id] {
				continue
			}
			seen[id] = true
			votes.add(id)
		}
	}
	if votes.len() == 0 {
		return nil
	}

	scores := make([]RegionScore, 0, votes.len())
	votes.each(func(id string, count int) {
		scores = append(scores, RegionScore{
			RegionID:   id,
			Name:       domain.RegionName(id),
			Count:      count,
			Percentage: percentage(count, len(attendees)),
		})
	})
	return scores
}

// best keeps the scores that reach minSupport and equal the highest such
// count, preserving input order.
func best[S any](scores []S, count func(S) int) []S {
	top := 0
	for _, s := range scores {
		if c := count(s); c >= minSupport && c > top {
			top = c
		}
	}
	var out []S
	for _, s := range scores {
		if c := count(s); c >= minSupport && c == top {
			out = append(out, s)
		}
	}
	return out
}

// percentage rounds half up, so 2 of 3 is 67 and 1 of 8 is 13.
func percentage(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Floor(float64(count)/float64(total)*100 + 0.5))
}
