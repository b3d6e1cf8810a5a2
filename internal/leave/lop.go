package leave

import "github.com/frahmantamala/leave-management/internal/balance"

// LOPResult splits a request into the part the balance covers and the loss-of-pay overage.
type LOPResult struct {
	LOPDays       int `json:"lop_days"`
	AvailableDays int `json:"available_days"`
}

// Held is the number of days placed on the pending counter at submission.
func (r LOPResult) Held(requestedDays int) int {
	return requestedDays - r.LOPDays
}

// ComputeLOP treats a missing balance row as zero availability, so the whole request is LOP.
func ComputeLOP(b *balance.Balance, requestedDays int) LOPResult {
	available := b.Available()
	lop := requestedDays - available
	if lop < 0 {
		lop = 0
	}
	return LOPResult{LOPDays: lop, AvailableDays: available}
}

type CapStatus struct {
	WithinLimit bool `json:"within_limit"`
	TotalUsed   int  `json:"total_used"`
	Requested   int  `json:"requested"`
	Remaining   int  `json:"remaining"`
	ExceedsBy   int  `json:"exceeds_by"`
	Max         int  `json:"max"`
}

// EvaluateCap compares approved LOP for the year plus the prospective days against max.
func EvaluateCap(approvedLOP, additional, max int) CapStatus {
	total := approvedLOP + additional
	status := CapStatus{
		WithinLimit: total <= max,
		TotalUsed:   approvedLOP,
		Requested:   additional,
		Max:         max,
	}
	if remaining := max - approvedLOP; remaining > 0 {
		status.Remaining = remaining
	}
	if total > max {
		status.ExceedsBy = total - max
	}
	return status
}
