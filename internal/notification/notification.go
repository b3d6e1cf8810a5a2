package notification

import (
	"time"

	notificationDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/notification"
)

const (
	TypeLeaveSubmitted = "leave_submitted"
	TypeLeaveApproved  = "leave_approved"
	TypeLeaveRejected  = "leave_rejected"
	TypeLeaveCancelled = "leave_cancelled"

	PriorityHigh   = "high"
	PriorityNormal = "normal"
)

type Notification struct {
	ID            string     `json:"id"`
	EmployeeID    string     `json:"employee_id"`
	Type          string     `json:"type"`
	Priority      string     `json:"priority"`
	Title         string     `json:"title"`
	Message       string     `json:"message"`
	RequestID     string     `json:"request_id,omitempty"`
	Read          bool       `json:"read"`
	EmailedAt     *time.Time `json:"emailed_at,omitempty"`
	DeliveryError string     `json:"-"`
	Attempts      int        `json:"-"`
	CreatedAt     time.Time  `json:"created_at"`
}

func FromDataModel(m *notificationDatamodel.Notification) *Notification {
	return &Notification{
		ID:            m.ID,
		EmployeeID:    m.EmployeeID,
		Type:          m.Type,
		Priority:      m.Priority,
		Title:         m.Title,
		Message:       m.Message,
		RequestID:     m.RequestID,
		Read:          m.Read,
		EmailedAt:     m.EmailedAt,
		DeliveryError: m.DeliveryError,
		Attempts:      m.Attempts,
		CreatedAt:     m.CreatedAt,
	}
}

func ToDataModel(n *Notification) *notificationDatamodel.Notification {
	return &notificationDatamodel.Notification{
		ID:            n.ID,
		EmployeeID:    n.EmployeeID,
		Type:          n.Type,
		Priority:      n.Priority,
		Title:         n.Title,
		Message:       n.Message,
		RequestID:     n.RequestID,
		Read:          n.Read,
		EmailedAt:     n.EmailedAt,
		DeliveryError: n.DeliveryError,
		Attempts:      n.Attempts,
		CreatedAt:     n.CreatedAt,
	}
}

type NotificationsResponse struct {
	Notifications []*Notification `json:"notifications"`
	Unread        int             `json:"unread"`
}
