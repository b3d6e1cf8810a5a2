package leave

import (
	"strings"
	"time"

	"github.com/frahmantamala/leave-management/internal"
)

const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

type SubmitLeaveDTO struct {
	CategoryID string `json:"category_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Reason     string `json:"reason"`
}

// Validate checks the payload and returns the parsed date range.
func (d *SubmitLeaveDTO) Validate() (time.Time, time.Time, error) {
	d.CategoryID = strings.TrimSpace(d.CategoryID)
	d.Reason = strings.TrimSpace(d.Reason)

	if d.CategoryID == "" {
		return time.Time{}, time.Time{}, internal.NewValidationFieldError("category_id", "leave category is required", internal.ErrCodeInvalidCategory)
	}
	start, err := ParseDate("start_date", d.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := ParseDate("end_date", d.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, internal.NewValidationFieldError("end_date", "end date cannot be before start date", internal.ErrCodeInvalidDateRange)
	}
	if d.Reason == "" {
		return time.Time{}, time.Time{}, internal.NewValidationFieldError("reason", "reason is required", internal.ErrCodeValidationFailed)
	}
	if len(d.Reason) > 1000 {
		return time.Time{}, time.Time{}, internal.NewValidationFieldError("reason", "reason must be at most 1000 characters", internal.ErrCodeValidationFailed)
	}
	return start, end, nil
}

type DecisionDTO struct {
	Action          string `json:"action"`
	Comments        string `json:"comments"`
	RejectionReason string `json:"rejection_reason"`
}

func (d *DecisionDTO) Validate() error {
	d.Action = strings.ToLower(strings.TrimSpace(d.Action))
	d.Comments = strings.TrimSpace(d.Comments)
	d.RejectionReason = strings.TrimSpace(d.RejectionReason)

	if d.Action != ActionApprove && d.Action != ActionReject {
		return internal.NewValidationFieldError("action", `action must be "approve" or "reject"`, internal.ErrCodeInvalidAction)
	}
	return nil
}

// SubmitResult is the created request plus advisory information that never blocks submission.
type SubmitResult struct {
	Request       *Request   `json:"request"`
	LOPDays       int        `json:"lop_days"`
	AvailableDays int        `json:"available_days"`
	ApproverID    string     `json:"approver_id"`
	Conflicts     []Conflict `json:"conflicts"`
	Warnings      []string   `json:"warnings"`
}

type RequestsResponse struct {
	Requests []*Request `json:"requests"`
}

type ConflictsResponse struct {
	HasConflicts bool       `json:"has_conflicts"`
	Conflicts    []Conflict `json:"conflicts"`
	Messages     []string   `json:"messages"`
}
