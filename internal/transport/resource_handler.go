package transport

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"storefront/internal/middleware"
	"storefront/internal/repository"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ResourceRequest is a decoded request body that can produce a domain record.
// The concrete types carry the validation tags.
type ResourceRequest[T any] interface {
	ToDomain() *T
}

// ResourceConfig names one resource's routes and response wording.
type ResourceConfig struct {
	Singular string // e.g. "Category", used in response messages
	Plural   string // e.g. "categories", used in error messages
	IDKey    string // e.g. "categoryId", the id key in create responses
	Path     string // e.g. "/api/category"
}

// ResourceHandler serves the shared CRUD contract for one resource type.
// Instantiated for categories, products and inventory; the per-resource
// differences live entirely in R, T and the config.
type ResourceHandler[R ResourceRequest[T], T any] struct {
	repo   repository.ResourceRepository[T]
	cfg    ResourceConfig
	logger *zap.Logger
}

// NewResourceHandler creates a handler for one resource.
func NewResourceHandler[R ResourceRequest[T], T any](
	repo repository.ResourceRepository[T],
	cfg ResourceConfig,
	logger *zap.Logger,
) *ResourceHandler[R, T] {
	return &ResourceHandler[R, T]{
		repo:   repo,
		cfg:    cfg,
		logger: logger,
	}
}

// RegisterRoutes mounts the CRUD endpoint set under the configured path.
func (h *ResourceHandler[R, T]) RegisterRoutes(r chi.Router) {
	r.Route(h.cfg.Path, func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// List returns every row, unfiltered and unpaginated, as a bare JSON array.
func (h *ResourceHandler[R, T]) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list resource",
			zap.String("resource", h.cfg.Plural),
			zap.Error(err),
		)
		middleware.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch "+h.cfg.Plural)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, records)
}

// Create validates the request, inserts a row and returns the generated id.
func (h *ResourceHandler[R, T]) Create(w http.ResponseWriter, r *http.Request) {
	var req R
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Create validation failed",
			zap.String("resource", h.cfg.Plural),
			zap.Error(err),
		)
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.repo.Insert(r.Context(), req.ToDomain())
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			middleware.RespondWithError(w, http.StatusConflict, h.cfg.Singular+" already exists")
			return
		}
		// Foreign key violations answer 500 like any other storage failure
		h.logger.Error("Failed to create resource",
			zap.String("resource", h.cfg.Plural),
			zap.Error(err),
		)
		middleware.RespondWithError(w, http.StatusInternalServerError, "Failed to add "+strings.ToLower(h.cfg.Singular))
		return
	}

	h.logger.Info("Resource created",
		zap.String("resource", h.cfg.Plural),
		zap.Int64("id", id),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, map[string]any{
		"message":   h.cfg.Singular + " added",
		h.cfg.IDKey: id,
	})
}

// Update replaces all fields of the row matching id. Updating an id that does
// not exist still succeeds; the statement simply affects no rows.
func (h *ResourceHandler[R, T]) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req R
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Update validation failed",
			zap.String("resource", h.cfg.Plural),
			zap.Error(err),
		)
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.repo.Update(r.Context(), id, req.ToDomain()); err != nil {
		h.logger.Error("Failed to update resource",
			zap.String("resource", h.cfg.Plural),
			zap.Int64("id", id),
			zap.Error(err),
		)
		middleware.RespondWithError(w, http.StatusInternalServerError, "Failed to update "+strings.ToLower(h.cfg.Singular))
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]any{
		"message": h.cfg.Singular + " updated",
	})
}

// Delete removes the row matching id, cascading to dependents. Deleting an id
// that does not exist still succeeds.
func (h *ResourceHandler[R, T]) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.logger.Error("Failed to delete resource",
			zap.String("resource", h.cfg.Plural),
			zap.Int64("id", id),
			zap.Error(err),
		)
		middleware.RespondWithError(w, http.StatusInternalServerError, "Failed to delete "+strings.ToLower(h.cfg.Singular))
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]any{
		"message": h.cfg.Singular + " deleted",
	})
}
