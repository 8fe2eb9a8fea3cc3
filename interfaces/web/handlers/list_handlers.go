package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"listkeeper/application"
	"listkeeper/domain/lists"
	"listkeeper/interfaces/web/presenters"
	"listkeeper/logging"
)

// maxCreateBody bounds the size of a create request.
const maxCreateBody = 1 << 20

// ListHandlers handles the list commands: enumerate, create, show, delete and pick.
type ListHandlers struct {
	listService   *application.ListService
	listPresenter *presenters.ListPresenter
	logger        *logging.Logger
}

// NewListHandlers creates list handlers over the list service.
func NewListHandlers(
	listService *application.ListService,
	listPresenter *presenters.ListPresenter,
) *ListHandlers {
	return &ListHandlers{
		listService:   listService,
		listPresenter: listPresenter,
		logger:        logging.Default().WithComponent("list_handler"),
	}
}

// Routes mounts the list commands on r. Every route requires a resolved scope.
func (h *ListHandlers) Routes(r chi.Router) {
	r.Use(ScopeMiddleware)
	r.Get("/", h.ListNames)
	r.Post("/", h.CreateList)
	r.Get("/{name}", h.GetList)
	r.Delete("/{name}", h.DeleteList)
	r.Post("/{name}/pick", h.PickFromList)
}

// CreateListRequest is the body of a create command. Items may be sent as an
// array or as a single ;-separated string.
type CreateListRequest struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
	Raw   string   `json:"raw"`
}

// ListNames returns the lists owned by the caller's scope
func (h *ListHandlers) ListNames(w http.ResponseWriter, r *http.Request) {
	scope, _ := ScopeFromContext(r.Context())

	listing, err := h.listService.ListNames(r.Context(), scope)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, h.listPresenter.ToNameListViewModel("", listing))
}

// CreateList stores a new list and answers with the refreshed listing
func (h *ListHandlers) CreateList(w http.ResponseWriter, r *http.Request) {
	scope, _ := ScopeFromContext(r.Context())

	var req CreateListRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCreateBody)).Decode(&req); err != nil {
		h.writeError(w, r, fmt.Errorf("malformed request body: %w", lists.ErrInvalidArgument))
		return
	}
	items := req.Items
	if len(items) == 0 && req.Raw != "" {
		items = lists.DecodeItems(req.Raw)
	}

	if _, err := h.listService.CreateList(r.Context(), scope, req.Name, items); err != nil {
		h.writeError(w, r, err)
		return
	}

	listing, err := h.listService.ListNames(r.Context(), scope)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.logger.WithContext(r.Context()).Info("List created", "scope", int64(scope), "list", req.Name, "items", len(items))
	writeJSON(w, h.logger, http.StatusCreated, h.listPresenter.ToNameListViewModel(h.listPresenter.CreatedTitle(req.Name), listing))
}

// GetList returns the items of one list
func (h *ListHandlers) GetList(w http.ResponseWriter, r *http.Request) {
	scope, _ := ScopeFromContext(r.Context())
	name := chi.URLParam(r, "name")

	items, found, err := h.listService.GetList(r.Context(), scope, name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if !found {
		h.writeError(w, r, fmt.Errorf("list %q: %w", name, lists.ErrNotFound))
		return
	}
	writeJSON(w, h.logger, http.StatusOK, h.listPresenter.ToListViewModel(name, items))
}

// DeleteList removes a list and answers with the refreshed listing
func (h *ListHandlers) DeleteList(w http.ResponseWriter, r *http.Request) {
	scope, _ := ScopeFromContext(r.Context())
	name := chi.URLParam(r, "name")

	if err := h.listService.DeleteList(r.Context(), scope, name); err != nil {
		h.writeError(w, r, err)
		return
	}

	listing, err := h.listService.ListNames(r.Context(), scope)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.logger.WithContext(r.Context()).Info("List deleted", "scope", int64(scope), "list", name)
	writeJSON(w, h.logger, http.StatusOK, h.listPresenter.ToNameListViewModel(h.listPresenter.DeletedTitle(name), listing))
}

// PickFromList draws items from a list. The count query parameter defaults to one.
func (h *ListHandlers) PickFromList(w http.ResponseWriter, r *http.Request) {
	scope, _ := ScopeFromContext(r.Context())
	name := chi.URLParam(r, "name")

	count, err := parseCount(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	picked, err := h.listService.PickFromList(r.Context(), scope, name, count)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, h.listPresenter.ToPickViewModel(name, picked))
}

// writeError renders err through the presenter. Only storage and unexpected
// failures are logged; user mistakes are not.
func (h *ListHandlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := h.listPresenter.FormatError(err)
	if status >= http.StatusInternalServerError {
		h.logger.WithContext(r.Context()).Error("List command failed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"error", err)
	}
	writeJSON(w, h.logger, status, body)
}

func parseCount(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("count"))
	if raw == "" {
		return lists.DefaultPickCount, nil
	}
	count, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("count must be an integer: %w", errors.Join(lists.ErrInvalidArgument, err))
	}
	return count, nil
}
