package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/bigteam/commit-tracker/internal/adapters/db"
	"github.com/bigteam/commit-tracker/internal/core/domain/entities"
	"github.com/bigteam/commit-tracker/internal/core/service"
	"github.com/bigteam/commit-tracker/pkg/response"
)

// Handler exposes the admin/query surface over the sync core. Everything
// here is thin glue: parse, call, render.
type Handler struct {
	repos    db.RepositoryStore
	commits  db.CommitStore
	authors  db.AuthorStore
	syncLogs db.SyncLogStore
	ingestor *service.Ingestor
	syncer   *service.Syncer
}

func NewHandler(
	repos db.RepositoryStore,
	commits db.CommitStore,
	authors db.AuthorStore,
	syncLogs db.SyncLogStore,
	ingestor *service.Ingestor,
	syncer *service.Syncer,
) *Handler {
	return &Handler{
		repos:    repos,
		commits:  commits,
		authors:  authors,
		syncLogs: syncLogs,
		ingestor: ingestor,
		syncer:   syncer,
	}
}

type createRepositoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Kind        string `json:"kind"`
	Branch      string `json:"branch"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	SSHKeyPath  string `json:"ssh_key_path"`
	AccessToken string `json:"access_token"`
	SourceView  string `json:"source_view"`
}

// AddRepository registers a new tracked repository and kicks off its
// initial sync in the background.
func (h *Handler) AddRepository(w http.ResponseWriter, r *http.Request) {
	var req createRepositoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.URL == "" {
		response.ErrorResponse(w, http.StatusBadRequest, "Name and URL are required")
		return
	}

	kind := entities.VCSKind(req.Kind)
	if kind == "" {
		kind = entities.VCSKindSVN
	}
	if kind != entities.VCSKindSVN && kind != entities.VCSKindGit {
		response.ErrorResponse(w, http.StatusBadRequest, "Kind must be 'svn' or 'git'")
		return
	}

	repo := &entities.Repository{
		Name:        req.Name,
		Description: req.Description,
		URL:         req.URL,
		Kind:        kind,
		Branch:      req.Branch,
		Username:    req.Username,
		Password:    req.Password,
		SSHKeyPath:  req.SSHKeyPath,
		AccessToken: req.AccessToken,
		SourceView:  req.SourceView,
	}
	if err := h.repos.CreateRepository(r.Context(), repo); err != nil {
		response.ErrorResponse(w, http.StatusInternalServerError, "Failed to save repository")
		return
	}

	go h.ingestor.Sync(contextWithoutCancel(r), repo, entities.SyncTriggerInitial)

	response.SuccessResponse(w, http.StatusCreated, repo)
}

// ListRepositories returns every tracked repository.
func (h *Handler) ListRepositories(w http.ResponseWriter, r *http.Request) {
	repositories, err := h.repos.GetAllRepositories(r.Context())
	if err != nil {
		response.ErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve repositories")
		return
	}
	response.SuccessResponse(w, http.StatusOK, repositories)
}

// DeleteRepository removes a repository and all its commits.
func (h *Handler) DeleteRepository(w http.ResponseWriter, r *http.Request) {
	repo, ok := h.lookupRepo(w, r)
	if !ok {
		return
	}
	if err := h.repos.DeleteRepository(r.Context(), repo.ID); err != nil {
		response.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete repository")
		return
	}
	response.SuccessResponse(w, http.StatusOK, map[string]string{"deleted": repo.Name})
}

// SyncRepository triggers a sync of one repository and waits for it.
func (h *Handler) SyncRepository(w http.ResponseWriter, r *http.Request) {
	repo, ok := h.lookupRepo(w, r)
	if !ok {
		return
	}
	ok = h.ingestor.Sync(r.Context(), repo, entities.SyncTriggerManual)
	response.SuccessResponse(w, http.StatusOK, map[string]interface{}{
		"repository": repo.Name,
		"succeeded":  ok,
	})
}

// SyncAll triggers a sync of every repository and reports the aggregate.
func (h *Handler) SyncAll(w http.ResponseWriter, r *http.Request) {
	succeeded, failed := h.syncer.SyncAll(r.Context(), entities.SyncTriggerManual)
	response.SuccessResponse(w, http.StatusOK, map[string]int{
		"succeeded": succeeded,
		"failed":    failed,
	})
}

// ClearCommits wipes a repository's stored commit log.
func (h *Handler) ClearCommits(w http.ResponseWriter, r *http.Request) {
	repo, ok := h.lookupRepo(w, r)
	if !ok {
		return
	}
	if err := h.repos.ClearCommits(r.Context(), repo.ID); err != nil {
		response.ErrorResponse(w, http.StatusInternalServerError, "Failed to clear commits")
		return
	}
	response.SuccessResponse(w, http.StatusOK, map[string]string{"cleared": repo.Name})
}

// ListCommits lists a repository's commits, newest first.
func (h *Handler) ListCommits(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	limit := intQuery(r, "limit", 100)

	commits, err := h.commits.GetCommitsByRepository(r.Context(), name, limit)
	if err != nil {
		response.ErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve commits")
		return
	}
	response.SuccessResponse(w, http.StatusOK, commits)
}

// ListSyncLogs lists recent sync attempts for a repository.
func (h *Handler) ListSyncLogs(w http.ResponseWriter, r *http.Request) {
	repo, ok := h.lookupRepo(w, r)
	if !ok {
		return
	}
	logs, err := h.syncLogs.RecentSyncLogs(r.Context(), repo.ID, intQuery(r, "limit", 20))
	if err != nil {
		response.ErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve sync logs")
		return
	}
	response.SuccessResponse(w, http.StatusOK, logs)
}

// TopAuthors returns the most active authors across all repositories.
func (h *Handler) TopAuthors(w http.ResponseWriter, r *http.Request) {
	n := intQuery(r, "n", 10)
	if n <= 0 {
		response.ErrorResponse(w, http.StatusBadRequest, "Invalid number of authors")
		return
	}
	authors, err := h.authors.TopAuthors(r.Context(), n)
	if err != nil {
		response.ErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve authors")
		return
	}
	response.SuccessResponse(w, http.StatusOK, authors)
}

// CommitGraph returns per-day commit counts for chart rendering.
func (h *Handler) CommitGraph(w http.ResponseWriter, r *http.Request) {
	var repoID uint
	if name := r.URL.Query().Get("repo"); name != "" {
		repo, err := h.repos.GetRepositoryByName(r.Context(), name)
		if err != nil || repo == nil {
			response.ErrorResponse(w, http.StatusNotFound, "Repository not found")
			return
		}
		repoID = repo.ID
	}

	until := time.Now()
	since := until.AddDate(0, -1, 0)
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.ErrorResponse(w, http.StatusBadRequest, "Invalid 'since' date, use YYYY-MM-DD")
			return
		}
		since = parsed
	}
	if raw := r.URL.Query().Get("until"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.ErrorResponse(w, http.StatusBadRequest, "Invalid 'until' date, use YYYY-MM-DD")
			return
		}
		until = parsed
	}

	counts, err := h.commits.CountsByDay(r.Context(), repoID, since, until)
	if err != nil {
		response.ErrorResponse(w, http.StatusInternalServerError, "Failed to aggregate commits")
		return
	}
	response.SuccessResponse(w, http.StatusOK, counts)
}

func (h *Handler) lookupRepo(w http.ResponseWriter, r *http.Request) (*entities.Repository, bool) {
	name := r.PathValue("name")
	repo, err := h.repos.GetRepositoryByName(r.Context(), name)
	if err != nil {
		response.ErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve repository")
		return nil, false
	}
	if repo == nil {
		response.ErrorResponse(w, http.StatusNotFound, "Repository not found")
		return nil, false
	}
	return repo, true
}

// contextWithoutCancel detaches background work from the request so the
// initial sync survives the response being written.
func contextWithoutCancel(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

func intQuery(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
