package leave

import (
	"fmt"
	"time"
)

type OverlapKind string

const (
	OverlapCompletelyWithin OverlapKind = "completely_within"
	OverlapCompletelyCovers OverlapKind = "completely_covers"
	OverlapStart            OverlapKind = "overlaps_start"
	OverlapEnd              OverlapKind = "overlaps_end"
	OverlapPartial          OverlapKind = "partial_overlap"
)

// Conflict is an active request whose dates intersect a candidate range.
type Conflict struct {
	RequestID  string      `json:"request_id"`
	CategoryID string      `json:"category_id"`
	Status     Status      `json:"status"`
	StartDate  time.Time   `json:"start_date"`
	EndDate    time.Time   `json:"end_date"`
	Kind       OverlapKind `json:"overlap_kind"`
}

func (c Conflict) Message() string {
	msg := fmt.Sprintf("Conflicts with %s leave (%s) from %s to %s",
		c.Status, c.RequestID, c.StartDate.Format(DateLayout), c.EndDate.Format(DateLayout))
	switch c.Kind {
	case OverlapCompletelyWithin:
		return msg + " - requested dates fall completely within this leave"
	case OverlapCompletelyCovers:
		return msg + " - requested dates completely cover this leave"
	case OverlapStart:
		return msg + " - overlaps with the start of this leave"
	case OverlapEnd:
		return msg + " - overlaps with the end of this leave"
	default:
		return msg + " - partially overlaps this leave"
	}
}

// Overlaps reports whether two inclusive ranges share at least one day.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return !s1.After(e2) && !e1.Before(s2)
}

// ClassifyOverlap describes how the candidate [start, end] sits against an existing range.
// The first matching kind wins.
func ClassifyOverlap(start, end, existingStart, existingEnd time.Time) OverlapKind {
	switch {
	case !start.Before(existingStart) && !end.After(existingEnd):
		return OverlapCompletelyWithin
	case !start.After(existingStart) && !end.Before(existingEnd):
		return OverlapCompletelyCovers
	case start.Before(existingStart) && !end.Before(existingStart) && !end.After(existingEnd):
		return OverlapStart
	case !start.Before(existingStart) && !start.After(existingEnd) && end.After(existingEnd):
		return OverlapEnd
	default:
		return OverlapPartial
	}
}

// FindConflicts checks the candidate range against existing requests of one employee.
// Only pending and approved requests count; excludeID skips the request being edited.
func FindConflicts(existing []*Request, start, end time.Time, excludeID string) []Conflict {
	var conflicts []Conflict
	for _, r := range existing {
		if !r.Status.Active() || (excludeID != "" && r.ID == excludeID) {
			continue
		}
		if !Overlaps(start, end, r.StartDate, r.EndDate) {
			continue
		}
		conflicts = append(conflicts, Conflict{
			RequestID:  r.ID,
			CategoryID: r.CategoryID,
			Status:     r.Status,
			StartDate:  r.StartDate,
			EndDate:    r.EndDate,
			Kind:       ClassifyOverlap(start, end, r.StartDate, r.EndDate),
		})
	}
	return conflicts
}
