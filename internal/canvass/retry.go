package canvass

import "context"

// Escalation stops widening once the radius has passed this (meters).
const maxEscalationRadius = 100000

type searchFunc func(context.Context, ListQuery) ([]AddressGroup, error)

// searchWithEscalation drives repeated composer+execute attempts. In rural
// areas a radius-bounded query can come back empty, so autoturf callers get
// the radius widened by an order of magnitude and retried, twice at most.
// Targeted reads and empty-address browsing never escalate. An empty result
// after the budget is exhausted is a valid outcome, not an error.
func searchWithEscalation(ctx context.Context, q ListQuery, search searchFunc) ([]AddressGroup, error) {
	attempts := 1
	if q.Autoturf && !q.EmptyAddrs && q.AddressID == "" {
		attempts = 3
	}

	for i := 0; i < attempts; i++ {
		if i > 0 {
			if q.Radius > maxEscalationRadius {
				break
			}
			q.Radius *= 10
		}
		groups, err := search(ctx, q)
		if err != nil {
			return nil, err
		}
		if len(groups) > 0 {
			return groups, nil
		}
	}
	return []AddressGroup{}, nil
}
