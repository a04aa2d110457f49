// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"folio/internal/cache"
	"folio/internal/models"
	"folio/internal/store"
)

// Public groups the unauthenticated read-only handlers serving the
// marketing site. Only published projects are visible here; an unpublished
// slug is indistinguishable from a missing one.
type Public struct {
	projects *store.ProjectStore
	cache    *cache.ProjectCache
}

// NewPublic creates the public handler group. cache may be nil.
func NewPublic(projects *store.ProjectStore, projectCache *cache.ProjectCache) *Public {
	return &Public{projects: projects, cache: projectCache}
}

// List returns all published projects, newest first.
func (p *Public) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if payload, ok := p.cache.GetList(ctx); ok {
		writeRawJSON(w, http.StatusOK, payload)
		return
	}

	items, err := p.projects.ListPublished(ctx)
	if err != nil {
		writeServerError(w, "list published projects", err)
		return
	}
	if items == nil {
		items = []models.Project{}
	}

	payload, err := json.Marshal(items)
	if err != nil {
		writeServerError(w, "marshal published projects", err)
		return
	}

	p.cache.SetList(ctx, payload)
	writeRawJSON(w, http.StatusOK, payload)
}

// BySlug returns a single published project by its slug.
func (p *Public) BySlug(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")

	if payload, ok := p.cache.GetBySlug(ctx, slug); ok {
		writeRawJSON(w, http.StatusOK, payload)
		return
	}

	project, err := p.projects.FindPublishedBySlug(ctx, slug)
	if err != nil {
		writeServerError(w, "get project by slug", err)
		return
	}
	if project == nil {
		writeMessage(w, http.StatusNotFound, msgNotFound)
		return
	}

	payload, err := json.Marshal(project)
	if err != nil {
		writeServerError(w, "marshal project", err)
		return
	}

	p.cache.SetBySlug(ctx, slug, payload)
	writeRawJSON(w, http.StatusOK, payload)
}
