// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store contains the persistence layer: plain SQL over database/sql
// with the pgx stdlib driver. Stores return (nil, nil) for records that do
// not exist; only infrastructure failures surface as errors.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"folio/internal/models"
)

// projectColumns is the column list shared by every project query, in scan
// order.
const projectColumns = `id, title, slug, category, description, tags,
       demo_url, github_url, thumbnail_url, featured, published,
       created_at, updated_at`

// ProjectStore handles all project-related database operations.
type ProjectStore struct {
	db *sql.DB
}

// NewProjectStore creates a new ProjectStore with the given database connection.
func NewProjectStore(db *sql.DB) *ProjectStore {
	return &ProjectStore{db: db}
}

// scanner abstracts *sql.Row and *sql.Rows for scanProject.
type scanner interface {
	Scan(dest ...any) error
}

// scanProject reads one project row. Tags are stored as a JSONB array and
// decoded here so the rest of the application only sees models.TagList.
func scanProject(s scanner) (*models.Project, error) {
	p := &models.Project{}
	var tags []byte
	err := s.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Category, &p.Description, &tags,
		&p.DemoURL, &p.GithubURL, &p.ThumbnailURL, &p.Featured, &p.Published,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(tags, &p.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	return p, nil
}

func encodeTags(tags models.TagList) ([]byte, error) {
	if tags == nil {
		tags = models.TagList{}
	}
	return json.Marshal(tags)
}

// List returns all projects, newest first.
func (s *ProjectStore) List(ctx context.Context) ([]models.Project, error) {
	return s.list(ctx, `
		SELECT `+projectColumns+`
		FROM projects
		ORDER BY created_at DESC
	`)
}

// ListPublished returns all published projects, newest first. This is the
// public API's listing.
func (s *ProjectStore) ListPublished(ctx context.Context) ([]models.Project, error) {
	return s.list(ctx, `
		SELECT `+projectColumns+`
		FROM projects
		WHERE published = TRUE
		ORDER BY created_at DESC
	`)
}

func (s *ProjectStore) list(ctx context.Context, query string) ([]models.Project, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var items []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// FindByID retrieves a project by id. Returns nil if not found.
func (s *ProjectStore) FindByID(ctx context.Context, id int64) (*models.Project, error) {
	p, err := scanProject(s.db.QueryRowContext(ctx, `
		SELECT `+projectColumns+`
		FROM projects WHERE id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find project by id: %w", err)
	}
	return p, nil
}

// FindPublishedBySlug retrieves a published project by slug. An unpublished
// project's slug is treated as not found on this surface, so public callers
// cannot tell a draft from a missing record.
func (s *ProjectStore) FindPublishedBySlug(ctx context.Context, slug string) (*models.Project, error) {
	p, err := scanProject(s.db.QueryRowContext(ctx, `
		SELECT `+projectColumns+`
		FROM projects WHERE slug = $1 AND published = TRUE
	`, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find project by slug: %w", err)
	}
	return p, nil
}

// SlugTaken reports whether a project other than excludeID already holds the
// slug. Pass excludeID 0 when creating.
func (s *ProjectStore) SlugTaken(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var taken bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM projects WHERE slug = $1 AND id <> $2)
	`, slug, excludeID).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("slug taken: %w", err)
	}
	return taken, nil
}

// Create inserts a new project and returns it with the generated id and
// timestamps. A collision on projects.slug returns ErrDuplicateSlug.
func (s *ProjectStore) Create(ctx context.Context, p *models.Project) (*models.Project, error) {
	tags, err := encodeTags(p.Tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}

	created, err := scanProject(s.db.QueryRowContext(ctx, `
		INSERT INTO projects (title, slug, category, description, tags,
		                      demo_url, github_url, thumbnail_url, featured, published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+projectColumns+`
	`, p.Title, p.Slug, p.Category, p.Description, tags,
		p.DemoURL, p.GithubURL, p.ThumbnailURL, p.Featured, p.Published))
	if err != nil {
		if isSlugConflict(err) {
			return nil, ErrDuplicateSlug
		}
		return nil, fmt.Errorf("create project: %w", err)
	}
	return created, nil
}

// Update writes the full merged record. The caller computes the merge from
// its pre-update snapshot, so concurrent updates to the same row are
// last-write-wins. Returns nil if the project no longer exists and
// ErrDuplicateSlug on a slug collision.
func (s *ProjectStore) Update(ctx context.Context, p *models.Project) (*models.Project, error) {
	tags, err := encodeTags(p.Tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}

	updated, err := scanProject(s.db.QueryRowContext(ctx, `
		UPDATE projects SET
			title = $1, slug = $2, category = $3, description = $4, tags = $5,
			demo_url = $6, github_url = $7, thumbnail_url = $8,
			featured = $9, published = $10, updated_at = now()
		WHERE id = $11
		RETURNING `+projectColumns+`
	`, p.Title, p.Slug, p.Category, p.Description, tags,
		p.DemoURL, p.GithubURL, p.ThumbnailURL, p.Featured, p.Published, p.ID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		if isSlugConflict(err) {
			return nil, ErrDuplicateSlug
		}
		return nil, fmt.Errorf("update project: %w", err)
	}
	return updated, nil
}

// SetPublished flips only the publish flag, leaving every other field
// untouched. Returns nil if the project does not exist.
func (s *ProjectStore) SetPublished(ctx context.Context, id int64, published bool) (*models.Project, error) {
	p, err := scanProject(s.db.QueryRowContext(ctx, `
		UPDATE projects SET published = $1, updated_at = now()
		WHERE id = $2
		RETURNING `+projectColumns+`
	`, published, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("set published: %w", err)
	}
	return p, nil
}

// Delete removes a project. Returns false if no row matched.
func (s *ProjectStore) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete project: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete project rows: %w", err)
	}
	return n > 0, nil
}
