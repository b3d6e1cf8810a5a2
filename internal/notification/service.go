package notification

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/core/events"
	"github.com/frahmantamala/leave-management/internal/employee"
	"github.com/google/uuid"
)

const (
	DefaultInboxLimit  = 50
	DefaultMaxAttempts = 3
	retryBatchSize     = 100

	noReasonProvided = "No specific reason provided."
)

type RepositoryAPI interface {
	Create(ctx context.Context, n *Notification) error
	ListByEmployee(ctx context.Context, employeeID string, limit int) ([]*Notification, error)
	CountUnread(ctx context.Context, employeeID string) (int, error)
	MarkRead(ctx context.Context, id, employeeID string) (int64, error)
	MarkDelivered(ctx context.Context, id string, at time.Time) error
	MarkFailed(ctx context.Context, id string, reason string) error
	ListUndelivered(ctx context.Context, maxAttempts, limit int) ([]*Notification, error)
}

// Recipients resolves where an employee's mail goes.
type Recipients interface {
	GetEmployee(ctx context.Context, id string) (*employee.Employee, error)
}

type Queue interface {
	Enqueue(job DeliveryJob) error
}

type Service struct {
	repo        RepositoryAPI
	recipients  Recipients
	queue       Queue
	maxAttempts int
	logger      *slog.Logger
	now         func() time.Time
}

// NewService wires the inbox. A nil queue stores notifications without e-mailing them.
func NewService(repo RepositoryAPI, recipients Recipients, queue Queue, maxAttempts int, logger *slog.Logger) *Service {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Service{
		repo:        repo,
		recipients:  recipients,
		queue:       queue,
		maxAttempts: maxAttempts,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

type eventSubscriber interface {
	Subscribe(eventType string, handler events.Handler)
}

// Subscribe registers the service for every leave lifecycle event.
func (s *Service) Subscribe(bus eventSubscriber) {
	for _, eventType := range events.LeaveEventTypes() {
		bus.Subscribe(eventType, s.HandleLeaveEvent)
	}
}

// HandleLeaveEvent turns one lifecycle event into inbox entries and e-mails.
func (s *Service) HandleLeaveEvent(ctx context.Context, event events.Event) error {
	leaveEvent, ok := event.(*events.LeaveEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload %T for %s", event, event.EventType())
	}

	var errs []string
	for _, n := range compose(event.EventType(), leaveEvent.Request) {
		if err := s.notify(ctx, n); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("notify %s: %s", event.EventType(), strings.Join(errs, "; "))
	}
	return nil
}

func (s *Service) notify(ctx context.Context, n *Notification) error {
	if n.EmployeeID == "" {
		return nil
	}
	n.ID = uuid.New().String()
	n.CreatedAt = s.now()

	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Error("failed to store notification",
			"employee_id", n.EmployeeID,
			"type", n.Type,
			"error", err)
		return err
	}

	s.logger.Info("notification stored",
		"notification_id", n.ID,
		"employee_id", n.EmployeeID,
		"type", n.Type)

	s.enqueue(ctx, n)
	return nil
}

func (s *Service) enqueue(ctx context.Context, n *Notification) bool {
	if s.queue == nil {
		return false
	}

	recipient, err := s.recipients.GetEmployee(ctx, n.EmployeeID)
	if err != nil {
		s.logger.Warn("notification recipient not found", "notification_id", n.ID, "employee_id", n.EmployeeID)
		return false
	}

	to := recipientAddress(recipient)
	if to == "" {
		s.logger.Warn("recipient has no e-mail address", "employee_id", n.EmployeeID)
		return false
	}

	job := DeliveryJob{
		NotificationID: n.ID,
		Email: Email{
			To:      to,
			Subject: n.Title,
			Body:    emailBody(recipient.Name, n.Message),
		},
	}
	if err := s.queue.Enqueue(job); err != nil {
		s.logger.Warn("notification e-mail not queued", "notification_id", n.ID, "error", err)
		return false
	}
	return true
}

// List returns the caller's newest notifications with the unread count.
func (s *Service) List(ctx context.Context, employeeID string, limit int) (*NotificationsResponse, error) {
	if limit <= 0 || limit > DefaultInboxLimit {
		limit = DefaultInboxLimit
	}

	items, err := s.repo.ListByEmployee(ctx, employeeID, limit)
	if err != nil {
		s.logger.Error("failed to list notifications", "employee_id", employeeID, "error", err)
		return nil, err
	}
	unread, err := s.repo.CountUnread(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return &NotificationsResponse{Notifications: items, Unread: unread}, nil
}

func (s *Service) MarkRead(ctx context.Context, id, employeeID string) error {
	affected, err := s.repo.MarkRead(ctx, id, employeeID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return internal.ErrNotificationNotFound
	}
	return nil
}

// RetryUndelivered queues e-mails that were never sent and have attempts left.
// It returns how many were queued.
func (s *Service) RetryUndelivered(ctx context.Context) (int, error) {
	pending, err := s.repo.ListUndelivered(ctx, s.maxAttempts, retryBatchSize)
	if err != nil {
		s.logger.Error("failed to list undelivered notifications", "error", err)
		return 0, err
	}

	queued := 0
	for _, n := range pending {
		if err := ctx.Err(); err != nil {
			return queued, err
		}
		if s.enqueue(ctx, n) {
			queued++
		}
	}

	if len(pending) > 0 {
		s.logger.Info("retrying undelivered notifications", "found", len(pending), "queued", queued)
	}
	return queued, nil
}

func recipientAddress(e *employee.Employee) string {
	if e.PersonalEmail != "" {
		return e.PersonalEmail
	}
	return e.Email
}

func emailBody(name, message string) string {
	return fmt.Sprintf("Dear %s,\n\n%s\n\nRegards,\nLeave Management System\n", name, message)
}

func compose(eventType string, r events.LeaveRequestSnapshot) []*Notification {
	period := fmt.Sprintf("%s to %s", r.StartDate.Format(time.DateOnly), r.EndDate.Format(time.DateOnly))

	switch eventType {
	case events.EventTypeLeaveSubmitted:
		approverMsg := fmt.Sprintf("%s has requested %s leave from %s (%d day(s)).", r.EmployeeName, r.CategoryName, period, r.Days)
		if r.LOPDays > 0 {
			approverMsg += fmt.Sprintf(" %d day(s) will be loss of pay.", r.LOPDays)
		}
		if r.HasConflicts {
			approverMsg += " The request overlaps existing leave."
		}
		return []*Notification{
			{
				EmployeeID: r.ApproverID,
				Type:       TypeLeaveSubmitted,
				Priority:   PriorityHigh,
				Title:      "Leave request awaiting your approval",
				Message:    approverMsg,
				RequestID:  r.RequestID,
			},
			{
				EmployeeID: r.EmployeeID,
				Type:       TypeLeaveSubmitted,
				Priority:   PriorityNormal,
				Title:      "Leave request submitted",
				Message:    fmt.Sprintf("Your %s leave request from %s was sent to %s for approval.", r.CategoryName, period, r.ApproverName),
				RequestID:  r.RequestID,
			},
		}

	case events.EventTypeLeaveApproved:
		msg := fmt.Sprintf("Your %s leave from %s has been approved by %s.", r.CategoryName, period, r.ApproverName)
		if r.Comments != "" {
			msg += " Comments: " + r.Comments
		}
		return []*Notification{{
			EmployeeID: r.EmployeeID,
			Type:       TypeLeaveApproved,
			Priority:   PriorityNormal,
			Title:      "Leave request approved",
			Message:    msg,
			RequestID:  r.RequestID,
		}}

	case events.EventTypeLeaveRejected:
		reason := r.RejectReason
		if reason == "" {
			reason = noReasonProvided
		}
		return []*Notification{{
			EmployeeID: r.EmployeeID,
			Type:       TypeLeaveRejected,
			Priority:   PriorityHigh,
			Title:      "Leave request rejected",
			Message:    fmt.Sprintf("Your %s leave from %s has been rejected by %s. Reason: %s", r.CategoryName, period, r.ApproverName, reason),
			RequestID:  r.RequestID,
		}}

	case events.EventTypeLeaveCancelled:
		return []*Notification{{
			EmployeeID: r.ApproverID,
			Type:       TypeLeaveCancelled,
			Priority:   PriorityNormal,
			Title:      "Leave request cancelled",
			Message:    fmt.Sprintf("%s has cancelled their %s leave from %s.", r.EmployeeName, r.CategoryName, period),
			RequestID:  r.RequestID,
		}}
	}
	return nil
}
