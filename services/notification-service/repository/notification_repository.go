package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/notification-service/models"
)

type NotificationRepository interface {
	SaveLog(ctx context.Context, log *models.NotificationLog) error
	GetLogs(ctx context.Context, filter models.NotificationFilter) ([]models.NotificationLog, int64, error)
	// AlreadySent reports whether a notification of kind was delivered for the order.
	AlreadySent(ctx context.Context, orderID, kind string) (bool, error)
}

type GormNotificationRepository struct {
	db *gorm.DB
}

func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

func (r *GormNotificationRepository) SaveLog(ctx context.Context, log *models.NotificationLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *GormNotificationRepository) GetLogs(ctx context.Context, filter models.NotificationFilter) ([]models.NotificationLog, int64, error) {
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Page < 1 {
		filter.Page = 1
	}

	query := r.db.WithContext(ctx).Model(&models.NotificationLog{})
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.OrderID != "" {
		query = query.Where("order_id = ?", filter.OrderID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.NotificationLog
	err := query.Session(&gorm.Session{}).
		Order("created_at DESC").
		Limit(filter.Limit).
		Offset((filter.Page - 1) * filter.Limit).
		Find(&logs).Error
	return logs, total, err
}

func (r *GormNotificationRepository) AlreadySent(ctx context.Context, orderID, kind string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.NotificationLog{}).
		Where("order_id = ? AND kind = ? AND status = ?", orderID, kind, models.StatusSent).
		Count(&n).Error
	return n > 0, err
}
