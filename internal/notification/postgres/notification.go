package postgres

import (
	"context"
	"time"

	"github.com/frahmantamala/leave-management/internal/core/database"
	notificationDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/notification"
	"github.com/frahmantamala/leave-management/internal/notification"
	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

var _ notification.RepositoryAPI = (*NotificationRepository)(nil)

func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	row := notification.ToDataModel(n)
	if err := database.Conn(ctx, r.db).Create(row).Error; err != nil {
		return err
	}
	n.CreatedAt = row.CreatedAt
	return nil
}

func (r *NotificationRepository) ListByEmployee(ctx context.Context, employeeID string, limit int) ([]*notification.Notification, error) {
	var rows []*notificationDatamodel.Notification
	err := database.Conn(ctx, r.db).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomain(rows), nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, employeeID string) (int, error) {
	var count int64
	err := database.Conn(ctx, r.db).
		Model(&notificationDatamodel.Notification{}).
		Where("employee_id = ? AND is_read = ?", employeeID, false).
		Count(&count).Error
	return int(count), err
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id, employeeID string) (int64, error) {
	res := database.Conn(ctx, r.db).
		Model(&notificationDatamodel.Notification{}).
		Where("id = ? AND employee_id = ?", id, employeeID).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *NotificationRepository) MarkDelivered(ctx context.Context, id string, at time.Time) error {
	return database.Conn(ctx, r.db).
		Model(&notificationDatamodel.Notification{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"emailed_at":     at,
			"delivery_error": "",
			"attempts":       gorm.Expr("attempts + 1"),
		}).Error
}

func (r *NotificationRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return database.Conn(ctx, r.db).
		Model(&notificationDatamodel.Notification{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"delivery_error": reason,
			"attempts":       gorm.Expr("attempts + 1"),
		}).Error
}

// ListUndelivered returns the oldest notifications that have not been e-mailed yet.
func (r *NotificationRepository) ListUndelivered(ctx context.Context, maxAttempts, limit int) ([]*notification.Notification, error) {
	var rows []*notificationDatamodel.Notification
	err := database.Conn(ctx, r.db).
		Where("emailed_at IS NULL AND attempts < ?", maxAttempts).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomain(rows), nil
}

func toDomain(rows []*notificationDatamodel.Notification) []*notification.Notification {
	out := make([]*notification.Notification, 0, len(rows))
	for _, row := range rows {
		out = append(out, notification.FromDataModel(row))
	}
	return out
}
