package database

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

// GithubStatsRepo stores the single cached GitHub snapshot.
type GithubStatsRepo struct {
	db *gorm.DB
}

func NewGithubStatsRepo(db *gorm.DB) *GithubStatsRepo {
	return &GithubStatsRepo{db}
}

func (r *GithubStatsRepo) Get(ctx context.Context) (*models.GithubStats, error) {
	var stats models.GithubStats
	err := r.db.WithContext(ctx).First(&stats, "id = ?", models.GithubStatsID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFound("github stats")
		}
		return nil, err
	}
	return &stats, nil
}

// Upsert replaces every column of the snapshot, creating it on first use.
func (r *GithubStatsRepo) Upsert(ctx context.Context, stats *models.GithubStats) error {
	stats.ID = models.GithubStatsID
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(stats).Error
}

// Summary loads only the counters shown on the dashboard.
func (r *GithubStatsRepo) Summary(ctx context.Context) (*models.GithubSummary, error) {
	var summary models.GithubSummary
	result := r.db.WithContext(ctx).
		Model(&models.GithubStats{}).
		Select("total_repos", "total_stars", "total_forks", "followers").
		Where("id = ?", models.GithubStatsID).
		Limit(1).
		Scan(&summary)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, errs.NewNotFound("github stats")
	}
	return &summary, nil
}
