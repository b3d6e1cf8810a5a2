package postgres

import (
	"context"

	"github.com/frahmantamala/leave-management/internal/category"
	"github.com/frahmantamala/leave-management/internal/core/database"
	categoryDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/category"
	"gorm.io/gorm"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) category.RepositoryAPI {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) GetAll(ctx context.Context) ([]*categoryDatamodel.LeaveCategory, error) {
	var categories []*categoryDatamodel.LeaveCategory
	err := database.Conn(ctx, r.db).Order("id ASC").Find(&categories).Error
	return categories, err
}

func (r *CategoryRepository) Create(ctx context.Context, cat *categoryDatamodel.LeaveCategory) error {
	return database.Conn(ctx, r.db).Create(cat).Error
}
