package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MinProjectYear is the earliest yearBuilt accepted for a project.
const MinProjectYear = 2000

// Project represents a portfolio project with its screenshots
type Project struct {
	ID          uuid.UUID                   `json:"id" gorm:"type:uuid;primaryKey"`
	Title       string                      `json:"title" gorm:"type:text;not null"`
	Description string                      `json:"description" gorm:"type:text;not null"`
	TechStack   datatypes.JSONSlice[string] `json:"techStack" gorm:"column:tech_stack;type:jsonb;not null"`
	GithubURL   string                      `json:"githubUrl" gorm:"column:github_url;type:text;not null"`
	LiveURL     string                      `json:"liveURL" gorm:"column:live_url;type:text;not null"`
	Images      datatypes.JSONSlice[Image]  `json:"images" gorm:"column:images;type:jsonb;not null"`
	Category    *string                     `json:"category,omitempty" gorm:"type:text"`
	YearBuilt   *int                        `json:"yearBuilt,omitempty" gorm:"column:year_built"`
	Published   bool                        `json:"published" gorm:"not null"`
	IsPublished bool                        `json:"isPublished" gorm:"column:is_published;not null"`
	CreatedAt   time.Time                   `json:"createdAt"`
	UpdatedAt   time.Time                   `json:"updatedAt"`
}

func (Project) TableName() string {
	return "projects"
}

// IsLive treats the legacy is_published column as a synonym of published.
func (p Project) IsLive() bool {
	return p.Published || p.IsPublished
}

// BeforeSave keeps list columns as JSON arrays rather than null.
func (p *Project) BeforeSave(*gorm.DB) error {
	if p.TechStack == nil {
		p.TechStack = datatypes.JSONSlice[string]{}
	}
	if p.Images == nil {
		p.Images = datatypes.JSONSlice[Image]{}
	}
	return nil
}
