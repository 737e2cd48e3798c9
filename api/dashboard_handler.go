package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/services"
)

type dashboardHandler struct {
	responder Responder
	logger    zerolog.Logger
	dashboard dashboardService
}

func newDashboardHandler(dashboard dashboardService) dashboardHandler {
	logger := log.With().Str("handlerName", "dashboardHandler").Logger()

	return dashboardHandler{
		responder: NewResponder(logger),
		logger:    logger,
		dashboard: dashboard,
	}
}

// @Summary Dashboard summary
// @Tags Dashboard
// @Security BearerAuth
// @Router /api/dashboard [get]
func (h dashboardHandler) getSummary() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := h.dashboard.Summary(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, envelope{
			"message": "Dashboard data retrieved successfully",
			"data":    data,
		})
	}
}

// @Summary Full dashboard
// @Tags Dashboard
// @Security BearerAuth
// @Router /api/dashboard/full [get]
func (h dashboardHandler) getFull() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := h.dashboard.Full(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, envelope{
			"message": "Full dashboard data retrieved successfully",
			"data":    data,
		})
	}
}

// @Summary Dashboard counters
// @Tags Dashboard
// @Security BearerAuth
// @Router /api/dashboard/stats [get]
func (h dashboardHandler) getStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := h.dashboard.Stats(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, envelope{
			"message": "Dashboard statistics retrieved successfully",
			"stats":   stats,
		})
	}
}

// @Summary Recent activity
// @Tags Dashboard
// @Security BearerAuth
// @Param limit query int false "Number of items" default(10)
// @Router /api/dashboard/recent [get]
func (h dashboardHandler) getRecent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := services.NormalizeActivityLimit(queryInt(r, "limit", services.DefaultActivityLimit))

		activity, err := h.dashboard.Recent(r.Context(), limit)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, envelope{
			"message":  "Recent activity retrieved successfully",
			"activity": activity,
			"limit":    limit,
		})
	}
}
