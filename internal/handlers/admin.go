// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"folio/internal/cache"
	"folio/internal/models"
	"folio/internal/slug"
	"folio/internal/storage"
	"folio/internal/store"
)

// maxSlugAttempts bounds the allocate-then-write retry loop. Each retry
// re-probes the store, so exhausting this means the same base slug is being
// hammered concurrently; the request fails with 409 rather than spinning.
const maxSlugAttempts = 5

// maxBodySize caps JSON request bodies.
const maxBodySize = 1 << 20

// Admin groups the authenticated project CRUD handlers and their
// dependencies. Every route behind it requires a verified bearer token.
type Admin struct {
	projects *store.ProjectStore
	cache    *cache.ProjectCache
	storage  storage.Storage
}

// NewAdmin creates the admin handler group. cache may be nil (caching
// disabled) and storage may be nil (uploads answer 503).
func NewAdmin(projects *store.ProjectStore, projectCache *cache.ProjectCache, st storage.Storage) *Admin {
	return &Admin{projects: projects, cache: projectCache, storage: st}
}

// projectCreateRequest is the POST body. Optional URL fields distinguish
// absent from empty: both normalize to NULL in the store.
type projectCreateRequest struct {
	Title        string          `json:"title"`
	Category     models.Category `json:"category"`
	Description  string          `json:"description"`
	Tags         models.TagList  `json:"tags"`
	DemoURL      *string         `json:"demoUrl"`
	GithubURL    *string         `json:"githubUrl"`
	ThumbnailURL *string         `json:"thumbnailUrl"`
	Featured     bool            `json:"featured"`
	Published    bool            `json:"published"`
}

// projectUpdateRequest is the PUT body. Each field is tri-state: omitted
// keeps the stored value, null clears nullable fields, a value replaces.
type projectUpdateRequest struct {
	Title        models.Optional[string]          `json:"title"`
	Category     models.Optional[models.Category] `json:"category"`
	Description  models.Optional[string]          `json:"description"`
	Tags         models.Optional[models.TagList]  `json:"tags"`
	DemoURL      models.Optional[string]          `json:"demoUrl"`
	GithubURL    models.Optional[string]          `json:"githubUrl"`
	ThumbnailURL models.Optional[string]          `json:"thumbnailUrl"`
	Featured     models.Optional[bool]            `json:"featured"`
	Published    models.Optional[bool]            `json:"published"`
}

// List returns every project, newest first.
func (h *Admin) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.projects.List(r.Context())
	if err != nil {
		writeServerError(w, "list projects", err)
		return
	}
	if items == nil {
		items = []models.Project{}
	}
	writeJSON(w, http.StatusOK, items)
}

// Get returns a single project by id.
func (h *Admin) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeMessage(w, http.StatusNotFound, msgNotFound)
		return
	}

	project, err := h.projects.FindByID(r.Context(), id)
	if err != nil {
		writeServerError(w, "get project", err)
		return
	}
	if project == nil {
		writeMessage(w, http.StatusNotFound, msgNotFound)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// Create validates the input, allocates a unique slug, and inserts the
// project. A concurrent allocation of the same slug retries against the
// store's unique constraint before giving up with 409.
func (h *Admin) Create(w http.ResponseWriter, r *http.Request) {
	var req projectCreateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if msg := validateProjectInput(req.Title, req.Category, req.Description); msg != "" {
		writeMessage(w, http.StatusBadRequest, msg)
		return
	}
	if msg := validateTags(req.Tags); msg != "" {
		writeMessage(w, http.StatusBadRequest, msg)
		return
	}
	for _, url := range []*string{req.DemoURL, req.GithubURL, req.ThumbnailURL} {
		if msg := validateURLField(url); msg != "" {
			writeMessage(w, http.StatusBadRequest, msg)
			return
		}
	}

	project := &models.Project{
		Title:        strings.TrimSpace(req.Title),
		Category:     req.Category,
		Description:  req.Description,
		Tags:         req.Tags,
		DemoURL:      normalizeURL(req.DemoURL),
		GithubURL:    normalizeURL(req.GithubURL),
		ThumbnailURL: normalizeURL(req.ThumbnailURL),
		Featured:     req.Featured,
		Published:    req.Published,
	}

	created, err := h.saveWithSlug(r, project.Title, 0, func(allocated string) (*models.Project, error) {
		project.Slug = allocated
		return h.projects.Create(r.Context(), project)
	})
	if err != nil {
		h.writeSlugError(w, "create project", err)
		return
	}

	h.cache.Invalidate(r.Context())
	writeJSON(w, http.StatusCreated, created)
}

// Update applies a partial patch on top of the current record. The merged
// record is written whole, so concurrent updates to the same project are
// last-write-wins. The slug is re-derived only when the title changes, and
// the project's own slug is excluded from the uniqueness probe so renaming
// to an equivalent title keeps the slug.
func (h *Admin) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeMessage(w, http.StatusNotFound, msgNotFound)
		return
	}

	var req projectUpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	existing, err := h.projects.FindByID(r.Context(), id)
	if err != nil {
		writeServerError(w, "update project", err)
		return
	}
	if existing == nil {
		writeMessage(w, http.StatusNotFound, msgNotFound)
		return
	}

	project := *existing
	titleChanged := false

	if req.Title.Set && req.Title.Valid && strings.TrimSpace(req.Title.Value) != "" {
		newTitle := strings.TrimSpace(req.Title.Value)
		if utf8.RuneCountInString(newTitle) > maxTitleLen {
			writeMessage(w, http.StatusBadRequest, "Title is too long (max 300 characters).")
			return
		}
		titleChanged = newTitle != project.Title
		project.Title = newTitle
	}
	if req.Category.Set && req.Category.Valid && req.Category.Value != "" {
		if !req.Category.Value.Valid() {
			writeMessage(w, http.StatusBadRequest, msgInvalidCategory)
			return
		}
		project.Category = req.Category.Value
	}
	if req.Description.Set && req.Description.Valid && strings.TrimSpace(req.Description.Value) != "" {
		project.Description = req.Description.Value
	}
	if req.Tags.Set && req.Tags.Valid {
		if msg := validateTags(req.Tags.Value); msg != "" {
			writeMessage(w, http.StatusBadRequest, msg)
			return
		}
		project.Tags = req.Tags.Value
	}
	applyURLPatch(&project.DemoURL, req.DemoURL)
	applyURLPatch(&project.GithubURL, req.GithubURL)
	applyURLPatch(&project.ThumbnailURL, req.ThumbnailURL)
	for _, url := range []*string{project.DemoURL, project.GithubURL, project.ThumbnailURL} {
		if msg := validateURLField(url); msg != "" {
			writeMessage(w, http.StatusBadRequest, msg)
			return
		}
	}
	if req.Featured.Set {
		project.Featured = req.Featured.Valid && req.Featured.Value
	}
	if req.Published.Set {
		project.Published = req.Published.Valid && req.Published.Value
	}

	var updated *models.Project
	if titleChanged {
		updated, err = h.saveWithSlug(r, project.Title, project.ID, func(allocated string) (*models.Project, error) {
			project.Slug = allocated
			return h.projects.Update(r.Context(), &project)
		})
	} else {
		updated, err = h.projects.Update(r.Context(), &project)
	}
	if err != nil {
		h.writeSlugError(w, "update project", err)
		return
	}
	if updated == nil {
		// Deleted between the snapshot read and the write.
		writeMessage(w, http.StatusNotFound, msgNotFound)
		return
	}

	h.cache.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes a project permanently.
func (h *Admin) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeMessage(w, http.StatusNotFound, msgNotFound)
		return
	}

	deleted, err := h.projects.Delete(r.Context(), id)
	if err != nil {
		writeServerError(w, "delete project", err)
		return
	}
	if !deleted {
		writeMessage(w, http.StatusNotFound, msgNotFound)
		return
	}

	h.cache.Invalidate(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// TogglePublish sets the publish flag to the requested value, or flips the
// current one when the body carries no explicit boolean.
func (h *Admin) TogglePublish(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeMessage(w, http.StatusNotFound, msgNotFound)
		return
	}

	// The body is optional: PATCH with no payload flips the flag.
	var req struct {
		Published *bool `json:"published"`
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeMessage(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	existing, err := h.projects.FindByID(r.Context(), id)
	if err != nil {
		writeServerError(w, "toggle publish", err)
		return
	}
	if existing == nil {
		writeMessage(w, http.StatusNotFound, msgNotFound)
		return
	}

	target := !existing.Published
	if req.Published != nil {
		target = *req.Published
	}

	updated, err := h.projects.SetPublished(r.Context(), id, target)
	if err != nil {
		writeServerError(w, "toggle publish", err)
		return
	}
	if updated == nil {
		writeMessage(w, http.StatusNotFound, msgNotFound)
		return
	}

	h.cache.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, updated)
}

// saveWithSlug runs the allocate-then-write loop: derive the first free
// slug, attempt the write, and on a unique-constraint collision re-derive
// with the next suffix. save is the store write parameterized by slug.
func (h *Admin) saveWithSlug(r *http.Request, title string, excludeID int64, save func(slug string) (*models.Project, error)) (*models.Project, error) {
	ctx := r.Context()
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		allocated, err := slug.Unique(ctx, h.projects, title, excludeID)
		if err != nil {
			return nil, err
		}
		project, err := save(allocated)
		if errors.Is(err, store.ErrDuplicateSlug) {
			continue
		}
		return project, err
	}
	return nil, store.ErrDuplicateSlug
}

// writeSlugError translates allocation failures: an unallocatable title is
// the caller's fault, retry exhaustion is a conflict, anything else is 500.
func (h *Admin) writeSlugError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, slug.ErrEmpty):
		writeMessage(w, http.StatusBadRequest, "Title must contain letters or numbers")
	case errors.Is(err, store.ErrDuplicateSlug):
		writeMessage(w, http.StatusConflict, msgSlugConflict)
	default:
		writeServerError(w, op, err)
	}
}

// applyURLPatch merges one tri-state URL field: omitted keeps, null or an
// empty string clears, a value replaces.
func applyURLPatch(dst **string, patch models.Optional[string]) {
	if !patch.Set {
		return
	}
	if !patch.Valid || strings.TrimSpace(patch.Value) == "" {
		*dst = nil
		return
	}
	value := patch.Value
	*dst = &value
}

// normalizeURL maps empty strings to absent for create payloads.
func normalizeURL(url *string) *string {
	if url == nil || strings.TrimSpace(*url) == "" {
		return nil
	}
	return url
}

// parseID extracts the numeric project id from the route.
func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// decodeBody decodes a size-capped JSON body, answering 400 on garbage.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidBody)
		return false
	}
	return true
}
