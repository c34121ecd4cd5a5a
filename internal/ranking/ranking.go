// Package ranking orders feature requests for triage.
//
// Two policies live here side by side. WeightedSum scores a request by tier
// and priority and sorts descending with newest-first tie breaks. FixedRankTable
// assigns a 1..18 rank from a lookup table that favours feature requests and
// sorts ascending, keeping the input order for ties. They encode different
// product decisions and are intentionally not merged into one scale.
//
// Everything in this package is pure: no I/O and no shared mutable state.
package ranking

import (
	"sort"
	"strings"
	"time"
)

// Item is the view of a request the policies need.
type Item struct {
	Tier         string
	Priority     string
	Status       string
	FeedbackType string
	CreatedAt    time.Time
}

// Policy maps a request to an orderable key and defines the list order.
type Policy interface {
	// Name identifies the policy in logs and API responses.
	Name() string
	// Key is the numeric value the policy sorts on (score or rank).
	Key(Item) int
	// Less reports whether a must be listed before b.
	Less(a, b Item) bool
}

const (
	PolicyWeightedSum = "weighted_sum"
	PolicyFixedRank   = "fixed_rank"
)

var (
	WeightedSum    Policy = weightedSumPolicy{}
	FixedRankTable Policy = fixedRankPolicy{}
)

// ByName returns the policy registered under name.
func ByName(name string) (Policy, bool) {
	switch normalize(name) {
	case PolicyWeightedSum:
		return WeightedSum, true
	case PolicyFixedRank:
		return FixedRankTable, true
	}
	return nil, false
}

// IsTerminal reports whether status ends triage (completed or declined).
func IsTerminal(status string) bool {
	switch normalize(status) {
	case "completed", "declined":
		return true
	}
	return false
}

// Sort stably reorders items in place by policy p. view extracts the ranking
// attributes from each element.
func Sort[T any](items []T, p Policy, view func(T) Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return p.Less(view(items[i]), view(items[j]))
	})
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
