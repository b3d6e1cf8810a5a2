package leave

import (
	"encoding/json"
	"time"

	leaveDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// transitions lists the only legal moves; every target is terminal.
var transitions = map[Status][]Status{
	StatusPending: {StatusApproved, StatusRejected, StatusCancelled},
}

func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// Active statuses take part in conflict detection.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusApproved
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Request is a leave request as seen by the lifecycle engine.
type Request struct {
	ID              string     `json:"id"`
	EmployeeID      string     `json:"employee_id"`
	CategoryID      string     `json:"category_id"`
	StartDate       time.Time  `json:"start_date"`
	EndDate         time.Time  `json:"end_date"`
	Days            int        `json:"days"`
	Reason          string     `json:"reason"`
	Status          Status     `json:"status"`
	AppliedDate     time.Time  `json:"applied_date"`
	ApproverID      string     `json:"approver_id"`
	Comments        string     `json:"comments,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	LOPDays         int        `json:"lop_days"`
	IsLOP           bool       `json:"is_lop"`
	PendingHeld     int        `json:"pending_held"`
	HasConflicts    bool       `json:"has_conflicts"`
	Conflicts       []Conflict `json:"conflict_details,omitempty"`
	DecidedAt       *time.Time `json:"decided_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Transition describes a status change applied only while the request is still pending.
type Transition struct {
	To              Status
	Comments        string
	RejectionReason string
	At              time.Time
}

func FromDataModel(m *leaveDatamodel.LeaveRequest) *Request {
	r := &Request{
		ID:              m.ID,
		EmployeeID:      m.EmployeeID,
		CategoryID:      m.CategoryID,
		StartDate:       m.StartDate.UTC(),
		EndDate:         m.EndDate.UTC(),
		Days:            m.Days,
		Reason:          m.Reason,
		Status:          Status(m.Status),
		AppliedDate:     m.AppliedDate.UTC(),
		ApproverID:      m.ApproverID,
		Comments:        m.Comments,
		RejectionReason: m.RejectionReason,
		LOPDays:         m.LOPDays,
		IsLOP:           m.IsLOP,
		PendingHeld:     m.PendingHeld,
		HasConflicts:    m.HasConflicts,
		DecidedAt:       m.DecidedAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	if m.ConflictDetails != "" {
		// the snapshot is advisory; a corrupt one is dropped rather than failing reads
		_ = json.Unmarshal([]byte(m.ConflictDetails), &r.Conflicts)
	}
	return r
}

func ToDataModel(r *Request) (*leaveDatamodel.LeaveRequest, error) {
	m := &leaveDatamodel.LeaveRequest{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		CategoryID:      r.CategoryID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		Days:            r.Days,
		Reason:          r.Reason,
		Status:          string(r.Status),
		AppliedDate:     r.AppliedDate,
		ApproverID:      r.ApproverID,
		Comments:        r.Comments,
		RejectionReason: r.RejectionReason,
		LOPDays:         r.LOPDays,
		IsLOP:           r.IsLOP,
		PendingHeld:     r.PendingHeld,
		HasConflicts:    r.HasConflicts,
		DecidedAt:       r.DecidedAt,
	}
	if len(r.Conflicts) > 0 {
		raw, err := json.Marshal(r.Conflicts)
		if err != nil {
			return nil, err
		}
		m.ConflictDetails = string(raw)
	}
	return m, nil
}
