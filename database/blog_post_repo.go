package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

type BlogPostRepo struct {
	db *gorm.DB
}

func NewBlogPostRepo(db *gorm.DB) *BlogPostRepo {
	return &BlogPostRepo{db}
}

// List returns one page of blog posts, most recently published first.
func (r *BlogPostRepo) List(ctx context.Context, page Page) ([]models.BlogPost, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.BlogPost{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	posts := []models.BlogPost{}
	err := r.db.WithContext(ctx).
		Scopes(page.scope).
		Order("published_at DESC").
		Order("created_at DESC").
		Find(&posts).Error
	return posts, total, err
}

func (r *BlogPostRepo) All(ctx context.Context) ([]models.BlogPost, error) {
	posts := []models.BlogPost{}
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&posts).Error
	return posts, err
}

// Recent orders by creation time so the activity feed reflects when posts were added.
func (r *BlogPostRepo) Recent(ctx context.Context, n int) ([]models.BlogPost, error) {
	posts := []models.BlogPost{}
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(n).Find(&posts).Error
	return posts, err
}

// FindByID returns a blog post by its ID
func (r *BlogPostRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	var post models.BlogPost
	err := r.db.WithContext(ctx).First(&post, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFound("blog")
		}
		return nil, err
	}
	return &post, nil
}

// Add inserts a new blog post into the database
func (r *BlogPostRepo) Add(ctx context.Context, post *models.BlogPost) error {
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(post).Error
}

// Update updates an existing blog post in the database
func (r *BlogPostRepo) Update(ctx context.Context, post *models.BlogPost) error {
	return r.db.WithContext(ctx).Save(post).Error
}

// Delete removes a blog post from the database by id
func (r *BlogPostRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.BlogPost{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewNotFound("blog")
	}
	return nil
}

func (r *BlogPostRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.BlogPost{}).Count(&count).Error
	return count, err
}

func (r *BlogPostRepo) CountPublished(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.BlogPost{}).
		Where("published OR is_published").
		Count(&count).Error
	return count, err
}
