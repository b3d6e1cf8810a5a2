package category

import (
	"context"
	"log/slog"

	categoryDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/category"
)

type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*categoryDatamodel.LeaveCategory, error)
	Create(ctx context.Context, category *categoryDatamodel.LeaveCategory) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// LoadCatalog reads every category once; the result is shared read-only.
func (s *Service) LoadCatalog(ctx context.Context) (*Catalog, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to load leave categories", "error", err)
		return nil, err
	}

	categories := make([]Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, FromDataModel(row))
	}

	catalog, err := NewCatalog(categories)
	if err != nil {
		s.logger.Error("invalid leave category data", "error", err)
		return nil, err
	}

	s.logger.Info("leave categories loaded", "count", catalog.Len())
	return catalog, nil
}

// EnsureDefaults inserts any default category that is missing.
func (s *Service) EnsureDefaults(ctx context.Context) (int, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		return 0, err
	}

	existing := make(map[string]bool, len(rows))
	for _, row := range rows {
		existing[row.ID] = true
	}

	created := 0
	for _, cat := range Defaults() {
		if existing[cat.ID] {
			continue
		}
		if err := s.repo.Create(ctx, ToDataModel(cat)); err != nil {
			s.logger.Error("failed to create leave category", "category_id", cat.ID, "error", err)
			return created, err
		}
		created++
	}
	return created, nil
}
