package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/services"
)

type githubHandler struct {
	responder Responder
	logger    zerolog.Logger
	github    githubStatsService
}

func newGithubHandler(github githubStatsService) githubHandler {
	logger := log.With().Str("handlerName", "githubHandler").Logger()

	return githubHandler{
		responder: NewResponder(logger),
		logger:    logger,
		github:    github,
	}
}

// getStats fetches fresh numbers from GitHub and caches them
// @Summary Fresh GitHub stats
// @Tags GitHub
// @Failure 500 {object} ErrorResponse "GitHub API error"
// @Router /api/github [get]
func (h githubHandler) getStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := h.github.Refresh(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, envelope{
			"message": "GitHub stats retrieved successfully",
			"stats":   stats,
		})
	}
}

// @Summary Cached GitHub stats
// @Tags GitHub
// @Failure 404 {object} ErrorResponse "nothing cached yet"
// @Router /api/github/cached [get]
func (h githubHandler) getCachedStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := h.github.Cached(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, envelope{
			"message": "Cached GitHub stats retrieved successfully",
			"stats":   stats,
		})
	}
}

// @Summary Refresh GitHub stats
// @Tags GitHub
// @Security BearerAuth
// @Router /api/github/refresh [post]
func (h githubHandler) refreshStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := h.github.Refresh(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("username", stats.Username).Msg("github stats refreshed")
		h.responder.WriteJSON(w, envelope{
			"message": "GitHub stats refreshed successfully",
			"stats":   stats,
		})
	}
}

// overrideStats merges the sent fields into the cached record. A later refresh replaces them.
// @Summary Override GitHub stats
// @Tags GitHub
// @Security BearerAuth
// @Router /api/github [post]
func (h githubHandler) overrideStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch services.GithubStatsPatch
		if err := decodeJSON(w, r, &patch); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		stats, err := h.github.Override(r.Context(), patch)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, envelope{
			"message": "GitHub stats updated successfully",
			"stats":   stats,
		})
	}
}
