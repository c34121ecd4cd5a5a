package ranking

const (
	featureRankDefault = 9
	nonFeatureOffset   = 9
)

// featureRanks is keyed by tier then priority. Lower ranks are listed first.
var featureRanks = map[string]map[string]int{
	"elite": {
		"high":   1,
		"medium": 4,
		"low":    5,
	},
	"pro": {
		"high":   2,
		"medium": 6,
		"low":    7,
	},
	"starter": {
		"high":   3,
		"medium": 8,
		"low":    9,
	},
}

// FixedRank returns the table rank for a request: 1..9 for feature requests
// and 10..18 for every other feedback type. Unrecognised tier/priority
// combinations fall to the last slot of their half (9 or 18).
func FixedRank(feedbackType, tier, priority string) int {
	rank := featureRankDefault
	if byPriority, ok := featureRanks[normalize(tier)]; ok {
		if r, ok := byPriority[normalize(priority)]; ok {
			rank = r
		}
	}
	if normalize(feedbackType) != "feature" {
		rank += nonFeatureOffset
	}
	return rank
}

type fixedRankPolicy struct{}

func (fixedRankPolicy) Name() string { return PolicyFixedRank }

func (fixedRankPolicy) Key(it Item) int {
	return FixedRank(it.FeedbackType, it.Tier, it.Priority)
}

// Less partitions terminal requests to the end and keeps them in input
// order, since their rank no longer matters. Active requests sort by
// ascending rank; equal ranks are left to the stable sort.
func (p fixedRankPolicy) Less(a, b Item) bool {
	at, bt := IsTerminal(a.Status), IsTerminal(b.Status)
	switch {
	case at != bt:
		return bt
	case at:
		return false
	}
	return p.Key(a) < p.Key(b)
}
