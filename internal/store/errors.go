// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicateSlug is returned when a write violates the unique constraint
// on projects.slug. Callers re-run slug allocation and retry, since two
// concurrent allocations can derive the same candidate between the
// existence probe and the insert.
var ErrDuplicateSlug = errors.New("store: slug already exists")

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// isSlugConflict reports whether err is a unique violation on the slug
// constraint.
func isSlugConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == uniqueViolation && pgErr.ConstraintName == "projects_slug_key"
}
