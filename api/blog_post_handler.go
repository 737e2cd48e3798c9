package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"

	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/services"
)

const blogImageFolder = "blogs"

type blogPostHandler struct {
	responder Responder
	logger    zerolog.Logger
	posts     blogPostStore
	images    services.ImageStore
}

func newBlogPostHandler(posts blogPostStore, images services.ImageStore) blogPostHandler {
	logger := log.With().Str("handlerName", "blogPostHandler").Logger()

	return blogPostHandler{
		responder: NewResponder(logger),
		logger:    logger,
		posts:     posts,
		images:    images,
	}
}

type blogPostInput struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	URL         *string    `json:"url"`
	Platform    *string    `json:"platform"`
	PublishedAt *time.Time `json:"publishedAt"`
	Published   *bool      `json:"published"`
	IsPublished *bool      `json:"isPublished"`
}

// readInput accepts a JSON body or a multipart form with a single cover under "image".
func (h blogPostHandler) readInput(w http.ResponseWriter, r *http.Request) (blogPostInput, []services.Upload, error) {
	var in blogPostInput
	if !isMultipart(r) {
		return in, nil, decodeJSON(w, r, &in)
	}

	if err := parseMultipart(w, r); err != nil {
		return in, nil, err
	}

	in.Title = formString(r, "title")
	in.Description = formString(r, "description")
	in.URL = formString(r, "url")
	in.Platform = formString(r, "platform")

	var err error
	if in.PublishedAt, err = formTime(r, "publishedAt"); err != nil {
		return in, nil, err
	}
	if in.Published, err = formBool(r, "published"); err != nil {
		return in, nil, err
	}
	if in.IsPublished, err = formBool(r, "isPublished"); err != nil {
		return in, nil, err
	}

	uploads, err := readUploads(r, "image", 1)
	return in, uploads, err
}

func formTime(r *http.Request, key string) (*time.Time, error) {
	s := formString(r, key)
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, strings.TrimSpace(*s)); err == nil {
			return &t, nil
		}
	}
	return nil, errs.NewInvalidFieldError(key, fmt.Sprintf("%s must be an RFC 3339 timestamp or a date", key))
}

func (in blogPostInput) validate(creating bool) error {
	if creating && (blank(in.Title) || blank(in.URL)) {
		return errs.NewMissingFieldsError("Title and URL are required")
	}
	if in.Title != nil && blank(in.Title) {
		return errs.NewInvalidFieldError("title", "Title cannot be empty")
	}
	if in.URL != nil && blank(in.URL) {
		return errs.NewInvalidFieldError("url", "URL cannot be empty")
	}

	if !blank(in.Platform) && !models.ValidPlatform(strings.TrimSpace(*in.Platform)) {
		return errs.NewInvalidFieldError("platform", fmt.Sprintf("Platform must be one of %s", strings.Join(models.Platforms, ", ")))
	}
	return nil
}

func (in blogPostInput) apply(p *models.BlogPost) {
	patchString(&p.Title, in.Title)
	patchString(&p.Description, in.Description)
	patchString(&p.URL, in.URL)
	if !blank(in.Platform) {
		p.Platform = strings.TrimSpace(*in.Platform)
	}
	patchValue(&p.PublishedAt, in.PublishedAt)
	patchValue(&p.Published, in.Published)
	patchValue(&p.IsPublished, in.IsPublished)
}

// getBlogPosts lists blog posts, most recently published first
// @Summary List blog posts
// @Tags Blogs
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(5)
// @Success 200 {object} map[string]interface{} "message, paging metadata and blogs"
// @Router /api/blogs [get]
func (h blogPostHandler) getBlogPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := parsePage(r, database.DefaultPageLimit)

		posts, total, err := h.posts.List(r.Context(), page)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "blogs", err))
			return
		}

		h.responder.WriteJSON(w, pageEnvelope("Blogs retrieved successfully", "blogs", posts, page, total))
	}
}

// @Summary Get blog post
// @Tags Blogs
// @Param blogPostID path string true "Blog ID" format(uuid)
// @Router /api/blogs/{blogPostID} [get]
func (h blogPostHandler) getBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := pathID(r, "blogPostID", "blog")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.posts.FindByID(r.Context(), postID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "blog", err))
			return
		}

		h.responder.WriteJSON(w, envelope{
			"message": "Blog retrieved successfully",
			"blog":    post,
		})
	}
}

// @Summary Create blog post
// @Tags Blogs
// @Security BearerAuth
// @Router /api/blogs [post]
func (h blogPostHandler) createBlogPost() http.HandlerFunc {
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

		images, err := storeUploads(r.Context(), h.images, blogImageFolder, uploads, h.logger)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post := models.BlogPost{
			Platform: models.PlatformOther,
			Images:   datatypes.JSONSlice[models.Image](images),
		}
		in.apply(&post)

		if err := h.posts.Add(r.Context(), &post); err != nil {
			cleanupImages(r.Context(), h.images, images, h.logger)
			h.responder.WriteError(w, wrapDatabaseError("create", "blog", err))
			return
		}

		h.responder.WriteStatus(w, http.StatusCreated, envelope{
			"message": "Blog created successfully",
			"blog":    post,
		})
	}
}

// @Summary Update blog post
// @Tags Blogs
// @Security BearerAuth
// @Param blogPostID path string true "Blog ID" format(uuid)
// @Router /api/blogs/{blogPostID} [put]
func (h blogPostHandler) updateBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := pathID(r, "blogPostID", "blog")
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

		post, err := h.posts.FindByID(r.Context(), postID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "blog", err))
			return
		}

		if len(uploads) > 0 {
			cleanupImages(r.Context(), h.images, post.Images, h.logger)

			images, err := storeUploads(r.Context(), h.images, blogImageFolder, uploads, h.logger)
			if err != nil {
				h.responder.WriteError(w, err)
				return
			}
			post.Images = datatypes.JSONSlice[models.Image](images)
		}
		in.apply(post)

		if err := h.posts.Update(r.Context(), post); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "blog", err))
			return
		}

		h.responder.WriteJSON(w, envelope{
			"message": "Blog updated successfully",
			"blog":    post,
		})
	}
}

// @Summary Delete blog post
// @Tags Blogs
// @Security BearerAuth
// @Param blogPostID path string true "Blog ID" format(uuid)
// @Router /api/blogs/{blogPostID} [delete]
func (h blogPostHandler) deleteBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := pathID(r, "blogPostID", "blog")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.posts.FindByID(r.Context(), postID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "blog", err))
			return
		}

		cleanupImages(r.Context(), h.images, post.Images, h.logger)

		if err := h.posts.Delete(r.Context(), postID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "blog", err))
			return
		}

		h.responder.WriteJSON(w, envelope{"message": "Blog deleted successfully"})
	}
}
