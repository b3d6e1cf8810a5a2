package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeLeaveSubmitted = "leave.submitted"
	EventTypeLeaveApproved  = "leave.approved"
	EventTypeLeaveRejected  = "leave.rejected"
	EventTypeLeaveCancelled = "leave.cancelled"
)

// LeaveRequestSnapshot carries what subscribers need to notify the parties of a
// request without reading it back from storage.
type LeaveRequestSnapshot struct {
	RequestID    string    `json:"request_id"`
	EmployeeID   string    `json:"employee_id"`
	EmployeeName string    `json:"employee_name"`
	ApproverID   string    `json:"approver_id"`
	ApproverName string    `json:"approver_name"`
	CategoryID   string    `json:"category_id"`
	CategoryName string    `json:"category_name"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	Days         int       `json:"days"`
	LOPDays      int       `json:"lop_days"`
	HasConflicts bool      `json:"has_conflicts"`
	Comments     string    `json:"comments"`
	RejectReason string    `json:"rejection_reason,omitempty"`
	StatusAfter  string    `json:"status"`
}

type LeaveEvent struct {
	BaseEvent
	Request LeaveRequestSnapshot `json:"request"`
}

func NewLeaveEvent(eventType string, snapshot LeaveRequestSnapshot) *LeaveEvent {
	return &LeaveEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now().UTC(),
			Data: map[string]interface{}{
				"request_id":  snapshot.RequestID,
				"employee_id": snapshot.EmployeeID,
				"approver_id": snapshot.ApproverID,
				"status":      snapshot.StatusAfter,
				"days":        snapshot.Days,
				"lop_days":    snapshot.LOPDays,
			},
		},
		Request: snapshot,
	}
}

// LeaveEventTypes lists every lifecycle event, in lifecycle order.
func LeaveEventTypes() []string {
	return []string{
		EventTypeLeaveSubmitted,
		EventTypeLeaveApproved,
		EventTypeLeaveRejected,
		EventTypeLeaveCancelled,
	}
}
