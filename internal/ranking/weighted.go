package ranking

// TierWeight returns the weighted-sum contribution of a subscription tier.
// Unknown tiers weigh 0.
func TierWeight(tier string) int {
	switch normalize(tier) {
	case "elite":
		return 100
	case "pro":
		return 50
	case "starter":
		return 10
	}
	return 0
}

// PriorityWeight returns the weighted-sum contribution of a priority level.
// Unknown levels weigh 0.
func PriorityWeight(priority string) int {
	switch normalize(priority) {
	case "high":
		return 30
	case "medium":
		return 20
	case "low":
		return 10
	}
	return 0
}

// Score is the weighted-sum priority score: 0 for terminal requests,
// otherwise tier weight plus priority weight (10..130 for known values).
func Score(status, tier, priority string) int {
	if IsTerminal(status) {
		return 0
	}
	return TierWeight(tier) + PriorityWeight(priority)
}

type weightedSumPolicy struct{}

func (weightedSumPolicy) Name() string { return PolicyWeightedSum }

func (weightedSumPolicy) Key(it Item) int {
	return Score(it.Status, it.Tier, it.Priority)
}

// Less puts active requests before terminal ones even when an active request
// scores 0 because both its tier and priority are unrecognised. Within a
// partition the higher score wins, then the newer request.
func (p weightedSumPolicy) Less(a, b Item) bool {
	at, bt := IsTerminal(a.Status), IsTerminal(b.Status)
	if at != bt {
		return bt
	}
	as, bs := p.Key(a), p.Key(b)
	if as != bs {
		return as > bs
	}
	return a.CreatedAt.After(b.CreatedAt)
}
