package holiday

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/leave-management/internal"
)

const upcomingWindow = 30 * 24 * time.Hour

type RepositoryAPI interface {
	List(ctx context.Context) ([]*Holiday, error)
	Between(ctx context.Context, from, to time.Time) ([]*Holiday, error)
	Create(ctx context.Context, h *Holiday) error
	DeleteByDate(ctx context.Context, date time.Time) (int64, error)
}

type Service struct {
	repo   RepositoryAPI
	loc    *time.Location
	now    func() time.Time
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, loc *time.Location, logger *slog.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repo:   repo,
		loc:    loc,
		now:    time.Now,
		logger: logger,
	}
}

// WithClock replaces the wall clock, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) List(ctx context.Context) ([]*Holiday, error) {
	return s.repo.List(ctx)
}

func (s *Service) ByYear(ctx context.Context, year int) ([]*Holiday, error) {
	if year < 1970 || year > 9999 {
		return nil, internal.NewValidationFieldError("year", "year is out of range", internal.ErrCodeInvalidDate)
	}
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	return s.repo.Between(ctx, from, to)
}

// Upcoming returns holidays from today through the next 30 days.
func (s *Service) Upcoming(ctx context.Context) ([]*Holiday, error) {
	y, m, d := s.now().In(s.loc).Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return s.repo.Between(ctx, today, today.Add(upcomingWindow))
}

// InRange returns holidays falling inside [from, to], both inclusive.
func (s *Service) InRange(ctx context.Context, from, to time.Time) ([]*Holiday, error) {
	return s.repo.Between(ctx, from, to)
}

func (s *Service) Create(ctx context.Context, dto CreateHolidayDTO) (*Holiday, error) {
	date, err := dto.Validate()
	if err != nil {
		return nil, err
	}

	h := &Holiday{Date: date, Name: dto.Name, Type: dto.Type}
	if err := s.repo.Create(ctx, h); err != nil {
		s.logger.Error("failed to create holiday", "date", dto.Date, "error", err)
		return nil, err
	}

	s.logger.Info("holiday created", "holiday_id", h.ID, "date", dto.Date, "name", h.Name)
	return h, nil
}

func (s *Service) DeleteByDate(ctx context.Context, date string) error {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return internal.NewValidationFieldError("date", "date must be formatted as YYYY-MM-DD", internal.ErrCodeInvalidDate)
	}

	deleted, err := s.repo.DeleteByDate(ctx, t)
	if err != nil {
		s.logger.Error("failed to delete holiday", "date", date, "error", err)
		return err
	}
	if deleted == 0 {
		return internal.ErrHolidayNotFound
	}

	s.logger.Info("holidays deleted", "date", date, "count", deleted)
	return nil
}
