package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/balance"
	"github.com/frahmantamala/leave-management/internal/category"
	"github.com/frahmantamala/leave-management/internal/core/database"
	"github.com/frahmantamala/leave-management/internal/core/events"
	"github.com/frahmantamala/leave-management/internal/employee"
	"github.com/frahmantamala/leave-management/internal/holiday"
	"github.com/google/uuid"
)

type RepositoryAPI interface {
	Create(ctx context.Context, r *Request) error
	GetByID(ctx context.Context, id string) (*Request, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]*Request, error)
	ListActiveOverlapping(ctx context.Context, employeeID string, start, end time.Time) ([]*Request, error)
	ListPendingByApprover(ctx context.Context, approverID string) ([]*Request, error)
	// SumApprovedLOP totals lop_days of approved requests starting in [from, to).
	SumApprovedLOP(ctx context.Context, employeeID string, from, to time.Time) (int, error)
	// Transition moves a pending request to t.To; it returns ErrRequestNotPending
	// when the row is no longer pending.
	Transition(ctx context.Context, id string, t Transition) error
}

type Directory interface {
	GetEmployee(ctx context.Context, id string) (*employee.Employee, error)
	ResolveApprover(ctx context.Context, employeeID string) (*employee.Employee, error)
}

type HolidayCalendar interface {
	InRange(ctx context.Context, from, to time.Time) ([]*holiday.Holiday, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Options struct {
	// MaxLOPPerYear of zero allows no LOP at all.
	MaxLOPPerYear int
	Location      *time.Location
	Now           func() time.Time
}

// Service is the request lifecycle manager. It is the only writer of leave
// requests and, through balance.Store, of balance counters.
type Service struct {
	repo      RepositoryAPI
	balances  balance.Store
	tx        database.Transactor
	directory Directory
	catalog   *category.Catalog
	holidays  HolidayCalendar
	publisher EventPublisher
	logger    *slog.Logger

	maxLOP int
	loc    *time.Location
	now    func() time.Time
	locks  *keyedMutex
}

func NewService(
	repo RepositoryAPI,
	balances balance.Store,
	tx database.Transactor,
	directory Directory,
	catalog *category.Catalog,
	holidays HolidayCalendar,
	publisher EventPublisher,
	opts Options,
	logger *slog.Logger,
) *Service {
	if opts.MaxLOPPerYear < 0 {
		opts.MaxLOPPerYear = 0
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		repo:      repo,
		balances:  balances,
		tx:        tx,
		directory: directory,
		catalog:   catalog,
		holidays:  holidays,
		publisher: publisher,
		logger:    logger,
		maxLOP:    opts.MaxLOPPerYear,
		loc:       opts.Location,
		now:       opts.Now,
		locks:     newKeyedMutex(),
	}
}

func (s *Service) MaxLOPPerYear() int {
	return s.maxLOP
}

// Today is the current calendar date in the configured timezone.
func (s *Service) Today() time.Time {
	return DateOf(s.now(), s.loc)
}

// Submit creates a pending request for employeeID and holds the covered days on
// the pending counter. The part beyond the available balance is recorded as LOP.
func (s *Service) Submit(ctx context.Context, employeeID string, dto SubmitLeaveDTO) (*SubmitResult, error) {
	start, end, err := dto.Validate()
	if err != nil {
		return nil, err
	}

	cat, ok := s.catalog.Get(dto.CategoryID)
	if !ok {
		return nil, internal.ErrCategoryNotFound
	}

	emp, err := s.directory.GetEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	approver, err := s.directory.ResolveApprover(ctx, employeeID)
	if err != nil {
		s.logger.Warn("no approver for leave request", "employee_id", employeeID, "error", err)
		return nil, err
	}

	unlock := s.locks.Lock(employeeID)
	defer unlock()

	days := InclusiveDays(start, end)
	today := s.Today()

	var (
		req       *Request
		lop       LOPResult
		conflicts []Conflict
	)
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		bal, err := s.balances.Get(ctx, employeeID, cat.ID)
		if err != nil && !errors.Is(err, internal.ErrBalanceNotFound) {
			return err
		}
		lop = ComputeLOP(bal, days)

		if _, err := s.checkCap(ctx, employeeID, start.Year(), lop.LOPDays); err != nil {
			return err
		}

		existing, err := s.repo.ListActiveOverlapping(ctx, employeeID, start, end)
		if err != nil {
			return err
		}
		conflicts = FindConflicts(existing, start, end, "")

		req = &Request{
			ID:           uuid.New().String(),
			EmployeeID:   employeeID,
			CategoryID:   cat.ID,
			StartDate:    start,
			EndDate:      end,
			Days:         days,
			Reason:       dto.Reason,
			Status:       StatusPending,
			AppliedDate:  today,
			ApproverID:   approver.ID,
			LOPDays:      lop.LOPDays,
			IsLOP:        lop.LOPDays > 0,
			PendingHeld:  lop.Held(days),
			HasConflicts: len(conflicts) > 0,
			Conflicts:    conflicts,
		}
		if err := s.repo.Create(ctx, req); err != nil {
			return err
		}

		if req.PendingHeld > 0 {
			return s.balances.Adjust(ctx, employeeID, cat.ID, 0, req.PendingHeld)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to submit leave request",
			"employee_id", employeeID,
			"category_id", cat.ID,
			"days", days,
			"error", err)
		return nil, err
	}

	s.logger.Info("leave request submitted",
		"request_id", req.ID,
		"employee_id", employeeID,
		"approver_id", approver.ID,
		"days", days,
		"lop_days", req.LOPDays,
		"conflicts", len(conflicts))

	s.publish(ctx, events.EventTypeLeaveSubmitted, req, emp, approver)

	return &SubmitResult{
		Request:       req,
		LOPDays:       lop.LOPDays,
		AvailableDays: lop.AvailableDays,
		ApproverID:    approver.ID,
		Conflicts:     conflicts,
		Warnings:      s.warnings(ctx, req, conflicts),
	}, nil
}

// Cancel withdraws a pending request before it starts and releases its hold.
func (s *Service) Cancel(ctx context.Context, requestID, callerID string) (*Request, error) {
	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.EmployeeID != callerID {
		return nil, internal.ErrNotRequestOwner
	}

	unlock := s.locks.Lock(req.EmployeeID)
	defer unlock()

	today := s.Today()
	var updated *Request
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetByID(ctx, requestID)
		if err != nil {
			return err
		}
		if current.Status != StatusPending {
			return internal.ErrRequestNotPending
		}
		if !current.StartDate.After(today) {
			return internal.ErrCancellationWindow.WithMessage(
				fmt.Sprintf("Leave starting on %s can no longer be cancelled", current.StartDate.Format(DateLayout)))
		}

		if err := s.repo.Transition(ctx, requestID, Transition{
			To:       StatusCancelled,
			Comments: fmt.Sprintf("Cancelled by employee on %s", today.Format(DateLayout)),
			At:       s.now().UTC(),
		}); err != nil {
			return err
		}
		if current.PendingHeld > 0 {
			if err := s.balances.Adjust(ctx, current.EmployeeID, current.CategoryID, 0, -current.PendingHeld); err != nil {
				return err
			}
		}

		updated, err = s.repo.GetByID(ctx, requestID)
		return err
	})
	if err != nil {
		s.logger.Warn("leave cancellation failed", "request_id", requestID, "employee_id", callerID, "error", err)
		return nil, err
	}

	s.logger.Info("leave request cancelled",
		"request_id", requestID,
		"employee_id", callerID,
		"released", updated.PendingHeld)

	s.publishByID(ctx, events.EventTypeLeaveCancelled, updated)
	return updated, nil
}

// Decide approves or rejects a pending request on behalf of its approver.
func (s *Service) Decide(ctx context.Context, requestID string, caller *internal.Caller, dto DecisionDTO) (*Request, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.ApproverID != caller.EmployeeID {
		return nil, internal.ErrNotRequestApprover
	}

	unlock := s.locks.Lock(req.EmployeeID)
	defer unlock()

	var updated *Request
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetByID(ctx, requestID)
		if err != nil {
			return err
		}
		if current.Status != StatusPending {
			return internal.ErrRequestNotPending
		}

		t := Transition{Comments: dto.Comments, At: s.now().UTC()}
		switch dto.Action {
		case ActionApprove:
			if current.LOPDays > 0 {
				if _, err := s.checkCap(ctx, current.EmployeeID, current.StartDate.Year(), current.LOPDays); err != nil {
					return err
				}
			}
			t.To = StatusApproved
			if t.Comments == "" {
				t.Comments = "Approved by " + caller.Name
			}
		case ActionReject:
			t.To = StatusRejected
			t.RejectionReason = dto.RejectionReason
			if t.Comments == "" {
				t.Comments = "Rejected by " + caller.Name
			}
		}

		if err := s.repo.Transition(ctx, requestID, t); err != nil {
			return err
		}

		if current.PendingHeld > 0 {
			usedDelta := 0
			if t.To == StatusApproved {
				usedDelta = current.PendingHeld
			}
			if err := s.balances.Adjust(ctx, current.EmployeeID, current.CategoryID, usedDelta, -current.PendingHeld); err != nil {
				return err
			}
		}

		updated, err = s.repo.GetByID(ctx, requestID)
		return err
	})
	if err != nil {
		s.logger.Warn("leave decision failed",
			"request_id", requestID,
			"approver_id", caller.EmployeeID,
			"action", dto.Action,
			"error", err)
		return nil, err
	}

	s.logger.Info("leave request decided",
		"request_id", requestID,
		"approver_id", caller.EmployeeID,
		"status", updated.Status,
		"days", updated.Days,
		"lop_days", updated.LOPDays)

	eventType := events.EventTypeLeaveApproved
	if updated.Status == StatusRejected {
		eventType = events.EventTypeLeaveRejected
	}
	s.publishByID(ctx, eventType, updated)
	return updated, nil
}

// GetRequest is visible to the owner, the approver and the admin.
func (s *Service) GetRequest(ctx context.Context, id string, caller *internal.Caller) (*Request, error) {
	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.EmployeeID != caller.EmployeeID && req.ApproverID != caller.EmployeeID && !caller.IsAdmin() {
		return nil, internal.ErrUnauthorizedAccess
	}
	return req, nil
}

func (s *Service) ListForEmployee(ctx context.Context, employeeID string) ([]*Request, error) {
	return s.repo.ListByEmployee(ctx, employeeID)
}

func (s *Service) ListPendingApprovals(ctx context.Context, approverID string) ([]*Request, error) {
	return s.repo.ListPendingByApprover(ctx, approverID)
}

// FindConflicts previews overlaps for a candidate range without creating anything.
func (s *Service) FindConflicts(ctx context.Context, employeeID, startDate, endDate, excludeID string) ([]Conflict, error) {
	start, err := ParseDate("start_date", startDate)
	if err != nil {
		return nil, err
	}
	end, err := ParseDate("end_date", endDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, internal.NewValidationFieldError("end_date", "end date cannot be before start date", internal.ErrCodeInvalidDateRange)
	}

	existing, err := s.repo.ListActiveOverlapping(ctx, employeeID, start, end)
	if err != nil {
		return nil, err
	}
	return FindConflicts(existing, start, end, excludeID), nil
}

// CheckAnnualCap reports approved LOP for the year plus additional days against the cap.
func (s *Service) CheckAnnualCap(ctx context.Context, employeeID string, year, additional int) (CapStatus, error) {
	from, to := YearBounds(year)
	used, err := s.repo.SumApprovedLOP(ctx, employeeID, from, to)
	if err != nil {
		return CapStatus{}, err
	}
	return EvaluateCap(used, additional, s.maxLOP), nil
}

func (s *Service) checkCap(ctx context.Context, employeeID string, year, additional int) (CapStatus, error) {
	status, err := s.CheckAnnualCap(ctx, employeeID, year, additional)
	if err != nil {
		return status, err
	}
	if !status.WithinLimit {
		return status, internal.NewLimitExceededError(
			fmt.Sprintf("Would exceed annual LOP limit. Current: %d, Limit: %d", status.TotalUsed, status.Max),
			internal.LimitDetails{
				TotalUsed: status.TotalUsed,
				Requested: status.Requested,
				Remaining: status.Remaining,
				ExceedsBy: status.ExceedsBy,
				Max:       status.Max,
			})
	}
	return status, nil
}

func (s *Service) warnings(ctx context.Context, req *Request, conflicts []Conflict) []string {
	var out []string
	for _, c := range conflicts {
		out = append(out, c.Message())
	}
	if req.LOPDays > 0 {
		out = append(out, fmt.Sprintf("%d day(s) exceed your available balance and will be Loss of Pay", req.LOPDays))
	}
	if weekend := WeekendDays(req.StartDate, req.EndDate); weekend > 0 {
		out = append(out, fmt.Sprintf("Request includes %d weekend day(s)", weekend))
	}
	if s.holidays != nil {
		holidays, err := s.holidays.InRange(ctx, req.StartDate, req.EndDate)
		if err != nil {
			s.logger.Warn("failed to load holidays for warnings", "request_id", req.ID, "error", err)
			return out
		}
		for _, h := range holidays {
			out = append(out, fmt.Sprintf("Request includes holiday %s on %s", h.Name, h.DateString()))
		}
	}
	return out
}

func (s *Service) publishByID(ctx context.Context, eventType string, req *Request) {
	emp, err := s.directory.GetEmployee(ctx, req.EmployeeID)
	if err != nil {
		s.logger.Warn("skipping leave event for unknown employee", "request_id", req.ID, "error", err)
		return
	}
	approver, _ := s.directory.GetEmployee(ctx, req.ApproverID)
	s.publish(ctx, eventType, req, emp, approver)
}

// publish fires after commit; delivery failures never affect the transition.
func (s *Service) publish(ctx context.Context, eventType string, req *Request, emp, approver *employee.Employee) {
	if s.publisher == nil {
		return
	}

	snapshot := events.LeaveRequestSnapshot{
		RequestID:    req.ID,
		EmployeeID:   req.EmployeeID,
		EmployeeName: emp.Name,
		ApproverID:   req.ApproverID,
		CategoryID:   req.CategoryID,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Days:         req.Days,
		LOPDays:      req.LOPDays,
		HasConflicts: req.HasConflicts,
		Comments:     req.Comments,
		RejectReason: req.RejectionReason,
		StatusAfter:  string(req.Status),
	}
	if approver != nil {
		snapshot.ApproverName = approver.Name
	}
	if cat, ok := s.catalog.Get(req.CategoryID); ok {
		snapshot.CategoryName = cat.Name
	}

	if err := s.publisher.Publish(ctx, events.NewLeaveEvent(eventType, snapshot)); err != nil {
		s.logger.Error("failed to publish leave event", "event_type", eventType, "request_id", req.ID, "error", err)
	}
}
