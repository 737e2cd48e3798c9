package api

import (
	"net/http"
	"strconv"

	"github.com/rpupo63/portfolio-backend/database"
)

// parsePage reads ?page and ?limit. Missing or non-numeric values fall back to the defaults.
func parsePage(r *http.Request, defaultLimit int) database.Page {
	return database.NewPage(
		queryInt(r, "page", 1),
		queryInt(r, "limit", defaultLimit),
		defaultLimit,
	)
}

func queryInt(r *http.Request, key string, fallback int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return fallback
	}
	return v
}

// pageEnvelope builds the list response shared by every paginated resource.
func pageEnvelope(message, key string, items interface{}, page database.Page, total int64) envelope {
	return envelope{
		"message":        message,
		"totalPages":     page.TotalPages(total),
		"totalDocuments": total,
		"page":           page.Number,
		"limit":          page.Limit,
		key:              items,
	}
}
