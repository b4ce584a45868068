package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// NewRouter wires the admin/query endpoints.
func NewRouter(h *Handler) *http.ServeMux {
	router := http.NewServeMux()

	router.HandleFunc("POST /repositories", h.AddRepository)
	router.HandleFunc("GET /repositories", h.ListRepositories)
	router.HandleFunc("DELETE /repositories/{name}", h.DeleteRepository)
	router.HandleFunc("POST /repositories/{name}/sync", h.SyncRepository)
	router.HandleFunc("DELETE /repositories/{name}/commits", h.ClearCommits)
	router.HandleFunc("GET /repositories/{name}/commits", h.ListCommits)
	router.HandleFunc("GET /repositories/{name}/synclogs", h.ListSyncLogs)
	router.HandleFunc("POST /sync", h.SyncAll)
	router.HandleFunc("GET /authors/top", h.TopAuthors)
	router.HandleFunc("GET /graph/commits", h.CommitGraph)

	// Serve Swagger documentation
	router.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	return router
}
