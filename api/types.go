package api

import (
	"context"

	"github.com/google/uuid"

	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/services"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	authHandler      authHandler
	projectHandler   projectHandler
	blogPostHandler  blogPostHandler
	skillHandler     skillHandler
	contactHandler   contactHandler
	githubHandler    githubHandler
	dashboardHandler dashboardHandler
	healthHandler    healthHandler
}

type projectStore interface {
	List(ctx context.Context, page database.Page) ([]models.Project, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	Add(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type blogPostStore interface {
	List(ctx context.Context, page database.Page) ([]models.BlogPost, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error)
	Add(ctx context.Context, post *models.BlogPost) error
	Update(ctx context.Context, post *models.BlogPost) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type skillStore interface {
	List(ctx context.Context, page database.Page) ([]models.Skill, int64, error)
	All(ctx context.Context) ([]models.Skill, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Skill, error)
	Add(ctx context.Context, skill *models.Skill) error
	Update(ctx context.Context, skill *models.Skill) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type contactStore interface {
	List(ctx context.Context, page database.Page, unreadOnly bool) ([]models.ContactMessage, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.ContactMessage, error)
	Add(ctx context.Context, message *models.ContactMessage) error
	SetRead(ctx context.Context, id uuid.UUID, read bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type authenticator interface {
	Register(ctx context.Context, name, email, password string) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
}

type tokenVerifier interface {
	VerifyToken(token string) (string, error)
}

type githubStatsService interface {
	Refresh(ctx context.Context) (*models.GithubStats, error)
	Cached(ctx context.Context) (*models.GithubStats, error)
	Override(ctx context.Context, patch services.GithubStatsPatch) (*models.GithubStats, error)
}

type dashboardService interface {
	Summary(ctx context.Context) (*services.DashboardData, error)
	Full(ctx context.Context) (*services.DashboardData, error)
	Stats(ctx context.Context) (*services.DashboardStats, error)
	Recent(ctx context.Context, limit int) ([]services.ActivityItem, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"invalid field"`
	Message string `json:"message" example:"Invalid project ID format"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"id"`
}
