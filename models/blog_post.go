package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	PlatformDevTo  = "Dev.to"
	PlatformMedium = "Medium"
	PlatformOther  = "Other"
)

// Platforms lists the accepted values of BlogPost.Platform.
var Platforms = []string{PlatformDevTo, PlatformMedium, PlatformOther}

// BlogPost is an article published elsewhere and linked from the portfolio.
// Images holds at most one entry, the cover image.
type BlogPost struct {
	ID          uuid.UUID                  `json:"id" gorm:"type:uuid;primaryKey"`
	Title       string                     `json:"title" gorm:"type:text;not null"`
	Description string                     `json:"description" gorm:"type:text;not null"`
	URL         string                     `json:"url" gorm:"column:url;type:text;not null"`
	Platform    string                     `json:"platform" gorm:"type:text;not null"`
	Images      datatypes.JSONSlice[Image] `json:"images" gorm:"column:images;type:jsonb;not null"`
	PublishedAt time.Time                  `json:"publishedAt" gorm:"column:published_at;not null"`
	Published   bool                       `json:"published" gorm:"not null"`
	IsPublished bool                       `json:"isPublished" gorm:"column:is_published;not null"`
	CreatedAt   time.Time                  `json:"createdAt"`
	UpdatedAt   time.Time                  `json:"updatedAt"`
}

func (BlogPost) TableName() string {
	return "blog_posts"
}

// IsLive treats the legacy is_published column as a synonym of published.
func (b BlogPost) IsLive() bool {
	return b.Published || b.IsPublished
}

// ValidPlatform reports whether p is one of Platforms.
func ValidPlatform(p string) bool {
	for _, platform := range Platforms {
		if p == platform {
			return true
		}
	}
	return false
}

func (b *BlogPost) BeforeSave(*gorm.DB) error {
	if b.Images == nil {
		b.Images = datatypes.JSONSlice[Image]{}
	}
	if b.PublishedAt.IsZero() {
		b.PublishedAt = time.Now()
	}
	if b.Platform == "" {
		b.Platform = PlatformOther
	}
	return nil
}
