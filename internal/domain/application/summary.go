package application

// Summary is the per-owner aggregate view. It is always recomputed
// from the current application set, never persisted.
type Summary struct {
	Total         int            `json:"total"`
	Counts        map[Status]int `json:"counts"`
	InterviewRate float64        `json:"interviewRate"`
	OfferRate     float64        `json:"offerRate"`
}

// Summarize tallies statuses in a single pass. Counts carries all four
// statuses even when zero. Both rates are defined as 0 for an empty
// set rather than erroring on the division.
func Summarize(items []Application) Summary {
	counts := make(map[Status]int, 4)
	for _, s := range AllStatuses() {
		counts[s] = 0
	}

	for _, it := range items {
		counts[it.Status]++
	}

	total := len(items)

	s := Summary{
		Total:  total,
		Counts: counts,
	}

	if total > 0 {
		interviews := counts[StatusInterview] + counts[StatusOffer]
		s.InterviewRate = float64(interviews) / float64(total)
		s.OfferRate = float64(counts[StatusOffer]) / float64(total)
	}

	return s
}
