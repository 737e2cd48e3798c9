package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GithubStatsID is the primary key of the only github_stats row.
var GithubStatsID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// GithubStats is the last known snapshot of the configured GitHub account.
type GithubStats struct {
	ID          uuid.UUID                   `json:"id" gorm:"type:uuid;primaryKey"`
	Username    string                      `json:"username" gorm:"type:text;not null"`
	TotalRepos  int                         `json:"totalRepos" gorm:"column:total_repos;not null"`
	TotalStars  int                         `json:"totalStars" gorm:"column:total_stars;not null"`
	TotalForks  int                         `json:"totalForks" gorm:"column:total_forks;not null"`
	Followers   int                         `json:"followers" gorm:"not null"`
	Following   int                         `json:"following" gorm:"not null"`
	Languages   datatypes.JSONSlice[string] `json:"languages" gorm:"type:jsonb;not null"`
	AvatarURL   string                      `json:"avatarUrl" gorm:"column:avatar_url;type:text"`
	Bio         string                      `json:"bio" gorm:"type:text"`
	Location    string                      `json:"location" gorm:"type:text"`
	Company     string                      `json:"company" gorm:"type:text"`
	Blog        string                      `json:"blog" gorm:"type:text"`
	LastUpdated time.Time                   `json:"lastUpdated" gorm:"column:last_updated;not null"`
	CreatedAt   time.Time                   `json:"createdAt"`
	UpdatedAt   time.Time                   `json:"updatedAt"`
}

func (GithubStats) TableName() string {
	return "github_stats"
}

// GithubSummary is the subset of GithubStats shown next to dashboard counters.
type GithubSummary struct {
	TotalRepos int `json:"totalRepos"`
	TotalStars int `json:"totalStars"`
	TotalForks int `json:"totalForks"`
	Followers  int `json:"followers"`
}

func (g *GithubStats) BeforeSave(*gorm.DB) error {
	if g.Languages == nil {
		g.Languages = datatypes.JSONSlice[string]{}
	}
	return nil
}
