package api

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"

	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/services"
)

const projectImageFolder = "projects"

type projectHandler struct {
	responder Responder
	logger    zerolog.Logger
	projects  projectStore
	images    services.ImageStore
}

func newProjectHandler(projects projectStore, images services.ImageStore) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder: NewResponder(logger),
		logger:    logger,
		projects:  projects,
		images:    images,
	}
}

// projectInput is the body of create and update. Nil fields were not sent.
type projectInput struct {
	Title       *string                  `json:"title"`
	Description *string                  `json:"description"`
	TechStack   *services.TechStackInput `json:"techStack"`
	GithubURL   *string                  `json:"githubUrl"`
	LiveURL     *string                  `json:"liveURL"`
	Category    *string                  `json:"category"`
	YearBuilt   *int                     `json:"yearBuilt"`
	Published   *bool                    `json:"published"`
	IsPublished *bool                    `json:"isPublished"`
}

// readInput accepts a JSON body or a multipart form with screenshots under "images".
func (h projectHandler) readInput(w http.ResponseWriter, r *http.Request) (projectInput, []services.Upload, error) {
	var in projectInput
	if !isMultipart(r) {
		return in, nil, decodeJSON(w, r, &in)
	}

	if err := parseMultipart(w, r); err != nil {
		return in, nil, err
	}

	in.Title = formString(r, "title")
	in.Description = formString(r, "description")
	in.GithubURL = formString(r, "githubUrl")
	in.LiveURL = formString(r, "liveURL")
	in.Category = formString(r, "category")
	if raw := formString(r, "techStack"); raw != nil {
		stack := services.TechStackInput(services.ParseTechStack(*raw))
		in.TechStack = &stack
	}

	var err error
	if in.YearBuilt, err = formInt(r, "yearBuilt"); err != nil {
		return in, nil, err
	}
	if in.Published, err = formBool(r, "published"); err != nil {
		return in, nil, err
	}
	if in.IsPublished, err = formBool(r, "isPublished"); err != nil {
		return in, nil, err
	}

	uploads, err := readUploads(r, "images", services.MaxImages)
	return in, uploads, err
}

func (in projectInput) validate(creating bool) error {
	if creating {
		if blank(in.Title) || blank(in.Description) || blank(in.GithubURL) || blank(in.LiveURL) ||
			in.TechStack == nil || len(*in.TechStack) == 0 {
			return errs.NewMissingFieldsError("All fields are required")
		}
	} else if in.Title != nil && blank(in.Title) {
		return errs.NewInvalidFieldError("title", "Title cannot be empty")
	}

	if in.YearBuilt != nil && *in.YearBuilt < models.MinProjectYear {
		return errs.NewInvalidFieldError("yearBuilt", fmt.Sprintf("Year built must be %d or later", models.MinProjectYear))
	}
	return nil
}

func (in projectInput) apply(p *models.Project) {
	patchString(&p.Title, in.Title)
	patchString(&p.Description, in.Description)
	patchString(&p.GithubURL, in.GithubURL)
	patchString(&p.LiveURL, in.LiveURL)
	patchOptional(&p.Category, in.Category)
	if in.TechStack != nil {
		p.TechStack = datatypes.JSONSlice[string](*in.TechStack)
	}
	if in.YearBuilt != nil {
		year := *in.YearBuilt
		p.YearBuilt = &year
	}
	patchValue(&p.Published, in.Published)
	patchValue(&p.IsPublished, in.IsPublished)
}

// getProjects lists projects newest first
// @Summary List projects
// @Tags Projects
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(5)
// @Success 200 {object} map[string]interface{} "message, paging metadata and projects"
// @Failure 500 {object} ErrorResponse
// @Router /api/projects [get]
func (h projectHandler) getProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := parsePage(r, database.DefaultPageLimit)

		projects, total, err := h.projects.List(r.Context(), page)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "projects", err))
			return
		}

		h.responder.WriteJSON(w, pageEnvelope("Projects retrieved successfully", "projects", projects, page, total))
	}
}

// getProject retrieves a specific project by ID
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} map[string]interface{} "message and project"
// @Failure 400 {object} ErrorResponse "Invalid project ID format"
// @Failure 404 {object} ErrorResponse "project not found"
// @Router /api/projects/{projectID} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := pathID(r, "projectID", "project")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projects.FindByID(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}

		h.responder.WriteJSON(w, envelope{
			"message": "Project retrieved successfully",
			"project": project,
		})
	}
}

// createProject creates a new project, storing any uploaded screenshots first
// @Summary Create project
// @Tags Projects
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Success 201 {object} map[string]interface{} "message and project"
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/projects [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, uploads, err := h.readInput(w, r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := in.validate(true); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		images, err := storeUploads(r.Context(), h.images, projectImageFolder, uploads, h.logger)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project := models.Project{Images: datatypes.JSONSlice[models.Image](images)}
		in.apply(&project)

		if err := h.projects.Add(r.Context(), &project); err != nil {
			cleanupImages(r.Context(), h.images, images, h.logger)
			h.responder.WriteError(w, wrapDatabaseError("create", "project", err))
			return
		}

		userID, _ := ctxGetUserID(r.Context())
		h.logger.Info().Str("projectID", project.ID.String()).Str("userID", userID).Int("images", len(images)).Msg("project created")

		h.responder.WriteStatus(w, http.StatusCreated, envelope{
			"message": "Project created successfully",
			"project": project,
		})
	}
}

// updateProject patches a project. New screenshots replace the stored ones.
// @Summary Update project
// @Tags Projects
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} map[string]interface{} "message and project"
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/projects/{projectID} [put]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := pathID(r, "projectID", "project")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		in, uploads, err := h.readInput(w, r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := in.validate(false); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projects.FindByID(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}

		if len(uploads) > 0 {
			cleanupImages(r.Context(), h.images, project.Images, h.logger)

			images, err := storeUploads(r.Context(), h.images, projectImageFolder, uploads, h.logger)
			if err != nil {
				h.responder.WriteError(w, err)
				return
			}
			project.Images = datatypes.JSONSlice[models.Image](images)
		}
		in.apply(project)

		if err := h.projects.Update(r.Context(), project); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "project", err))
			return
		}

		h.responder.WriteJSON(w, envelope{
			"message": "Project updated successfully",
			"project": project,
		})
	}
}

// deleteProject removes the stored screenshots, then the project
// @Summary Delete project
// @Tags Projects
// @Produce json
// @Security BearerAuth
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} map[string]interface{} "message"
// @Failure 404 {object} ErrorResponse
// @Router /api/projects/{projectID} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := pathID(r, "projectID", "project")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projects.FindByID(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}

		cleanupImages(r.Context(), h.images, project.Images, h.logger)

		if err := h.projects.Delete(r.Context(), projectID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "project", err))
			return
		}

		h.responder.WriteJSON(w, envelope{"message": "Project deleted successfully"})
	}
}
