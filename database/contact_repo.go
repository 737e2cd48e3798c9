package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

const unreadFilter = "NOT (read OR is_read)"

type ContactRepo struct {
	db *gorm.DB
}

func NewContactRepo(db *gorm.DB) *ContactRepo {
	return &ContactRepo{db}
}

// List returns one page of messages, newest first. With unreadOnly set, messages marked read
// under either column are left out of both the page and the total.
func (r *ContactRepo) List(ctx context.Context, page Page, unreadOnly bool) ([]models.ContactMessage, int64, error) {
	filter := func(db *gorm.DB) *gorm.DB {
		if unreadOnly {
			return db.Where(unreadFilter)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.ContactMessage{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	messages := []models.ContactMessage{}
	err := r.db.WithContext(ctx).
		Scopes(filter, page.scope).
		Order("created_at DESC").
		Find(&messages).Error
	return messages, total, err
}

func (r *ContactRepo) All(ctx context.Context) ([]models.ContactMessage, error) {
	messages := []models.ContactMessage{}
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&messages).Error
	return messages, err
}

func (r *ContactRepo) Recent(ctx context.Context, n int) ([]models.ContactMessage, error) {
	messages := []models.ContactMessage{}
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(n).Find(&messages).Error
	return messages, err
}

func (r *ContactRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.ContactMessage, error) {
	var message models.ContactMessage
	err := r.db.WithContext(ctx).First(&message, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFound("contact message")
		}
		return nil, err
	}
	return &message, nil
}

func (r *ContactRepo) Add(ctx context.Context, message *models.ContactMessage) error {
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(message).Error
}

// SetRead writes both read columns so legacy readers agree with the current one.
func (r *ContactRepo) SetRead(ctx context.Context, id uuid.UUID, read bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.ContactMessage{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_read": read, "read": read})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewNotFound("contact message")
	}
	return nil
}

func (r *ContactRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ContactMessage{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewNotFound("contact message")
	}
	return nil
}

func (r *ContactRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ContactMessage{}).Count(&count).Error
	return count, err
}

func (r *ContactRepo) CountUnread(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ContactMessage{}).Where(unreadFilter).Count(&count).Error
	return count, err
}
