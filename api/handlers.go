package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/services"
)

// Services are the collaborators built in main and shared by the handlers.
type Services struct {
	Auth      *services.AuthService
	Github    *services.GithubService
	Dashboard *services.DashboardService
	Images    services.ImageStore
	Notifier  services.ContactNotifier
}

func (s Services) validate() error {
	if s.Auth == nil || s.Github == nil || s.Dashboard == nil {
		return errors.New("auth, github and dashboard services are required")
	}
	return nil
}

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(db database.Database, svc Services, startupTime time.Time) *routeHandlers {
	notifier := svc.Notifier
	if notifier == nil {
		notifier = services.NopNotifier{}
	}

	return &routeHandlers{
		authHandler:      newAuthHandler(svc.Auth),
		projectHandler:   newProjectHandler(db.ProjectRepo(), svc.Images),
		blogPostHandler:  newBlogPostHandler(db.BlogPostRepo(), svc.Images),
		skillHandler:     newSkillHandler(db.SkillRepo()),
		contactHandler:   newContactHandler(db.ContactRepo(), notifier),
		githubHandler:    newGithubHandler(svc.Github),
		dashboardHandler: newDashboardHandler(svc.Dashboard),
		healthHandler:    newHealthHandler(db, startupTime),
	}
}

// pathID parses the chi URL parameter param as a UUID.
func pathID(r *http.Request, param, entity string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		return uuid.Nil, errs.NewInvalidIDError(entity)
	}
	return id, nil
}

// storeUploads saves uploads under folder. No uploads means no images and no store access.
func storeUploads(ctx context.Context, store services.ImageStore, folder string, uploads []services.Upload, logger zerolog.Logger) ([]models.Image, error) {
	if len(uploads) == 0 {
		return []models.Image{}, nil
	}
	if store == nil {
		return nil, errs.NewConfigError("S3_BUCKET", nil)
	}
	return services.StoreImages(ctx, store, folder, uploads, logger)
}

func cleanupImages(ctx context.Context, store services.ImageStore, images []models.Image, logger zerolog.Logger) {
	if store == nil || len(images) == 0 {
		return
	}
	services.CleanupImages(ctx, store, images, logger)
}

func patchString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

// patchOptional clears dst when src is sent blank.
func patchOptional(dst **string, src *string) {
	if src == nil {
		return
	}
	v := strings.TrimSpace(*src)
	if v == "" {
		*dst = nil
		return
	}
	*dst = &v
}

func patchValue[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
