// Package game holds the lowball rules: which votes count and who is
// currently winning. Everything here is a pure reduction over in-memory
// slices, so it is safe to call from any number of goroutines.
package game

import (
	"math"
	"time"
)

// Constraint kinds
const (
	KindInclude int8 = 0
	KindExclude int8 = 1
)

// Vote is a single submission as seen by the game rules. The storage layer
// maps its rows into this shape before calling in.
type Vote struct {
	ID        uint64
	Value     int64
	CreatedAt time.Time
}

// Constraint is an admin-defined time range that includes or excludes votes.
type Constraint struct {
	ID      uint64
	StartAt time.Time
	EndAt   time.Time
	Kind    int8
	Enabled bool
}

// Result is the outcome of one stats computation. Average and Target are nil
// when no votes are eligible; that is a defined state, not an error.
type Result struct {
	Average    *float64 `json:"average"`
	Target     *float64 `json:"target"`
	IsWinner   bool     `json:"isWinner"`
	TotalVotes int      `json:"totalVotes"`
}

func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

// Eligible returns the votes that count toward the current game. A vote
// counts when its timestamp falls inside at least one enabled include range
// (or none exist) and inside no enabled exclude range. Excludes always win.
// Range ends are inclusive; input order is preserved.
func Eligible(votes []Vote, constraints []Constraint) []Vote {
	var includes, excludes []Constraint
	for _, c := range constraints {
		if !c.Enabled {
			continue
		}
		if c.Kind == KindExclude {
			excludes = append(excludes, c)
		} else {
			includes = append(includes, c)
		}
	}

	out := make([]Vote, 0, len(votes))
	for _, v := range votes {
		if !eligible(v.CreatedAt, includes, excludes) {
			continue
		}
		out = append(out, v)
	}
	return out
}

func eligible(t time.Time, includes, excludes []Constraint) bool {
	for _, c := range excludes {
		if inRange(t, c.StartAt, c.EndAt) {
			return false
		}
	}
	if len(includes) == 0 {
		return true
	}
	for _, c := range includes {
		if inRange(t, c.StartAt, c.EndAt) {
			return true
		}
	}
	return false
}

// Compute reduces the eligible votes to the game result for voteID. The
// target is half the average; every vote whose distance to the target equals
// the minimum distance is a winner, so ties produce multiple winners. A
// voteID that is not among the eligible votes is never a winner.
func Compute(eligible []Vote, voteID uint64) Result {
	if len(eligible) == 0 {
		return Result{}
	}

	var sum int64
	for _, v := range eligible {
		sum += v.Value
	}
	avg := float64(sum) / float64(len(eligible))
	target := avg / 2

	res := Result{
		Average:    &avg,
		Target:     &target,
		TotalVotes: len(eligible),
	}
	for _, id := range Winners(eligible, target) {
		if id == voteID {
			res.IsWinner = true
			break
		}
	}
	return res
}

// Winners returns the ids of every vote tied for minimum distance to target.
// Two passes on purpose: a single running best-match drops tied winners.
func Winners(eligible []Vote, target float64) []uint64 {
	if len(eligible) == 0 {
		return nil
	}

	min := math.Inf(1)
	for _, v := range eligible {
		if d := math.Abs(float64(v.Value) - target); d < min {
			min = d
		}
	}

	var ids []uint64
	for _, v := range eligible {
		if math.Abs(float64(v.Value)-target) == min {
			ids = append(ids, v.ID)
		}
	}
	return ids
}
