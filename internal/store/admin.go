// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"folio/internal/models"
)

// AdminStore handles administrator credential lookups. Admins are created by
// the seed step; the API only reads them (and updates TOTP enrollment).
type AdminStore struct {
	db *sql.DB
}

// NewAdminStore creates a new AdminStore with the given database connection.
func NewAdminStore(db *sql.DB) *AdminStore {
	return &AdminStore{db: db}
}

const adminColumns = `id, email, password_hash, totp_secret, totp_enabled, created_at, updated_at`

func scanAdmin(s scanner) (*models.Admin, error) {
	a := &models.Admin{}
	err := s.Scan(
		&a.ID, &a.Email, &a.PasswordHash, &a.TOTPSecret, &a.TOTPEnabled,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// FindByEmail retrieves an admin by email. Returns nil if not found.
func (s *AdminStore) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	a, err := scanAdmin(s.db.QueryRowContext(ctx, `
		SELECT `+adminColumns+` FROM admins WHERE email = $1
	`, email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find admin by email: %w", err)
	}
	return a, nil
}

// FindByID retrieves an admin by id. Returns nil if not found.
func (s *AdminStore) FindByID(ctx context.Context, id int64) (*models.Admin, error) {
	a, err := scanAdmin(s.db.QueryRowContext(ctx, `
		SELECT `+adminColumns+` FROM admins WHERE id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find admin by id: %w", err)
	}
	return a, nil
}

// SetTOTPSecret stores a pending TOTP secret. The second factor is not
// enforced until EnableTOTP confirms the admin can produce valid codes.
func (s *AdminStore) SetTOTPSecret(ctx context.Context, id int64, secret string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE admins SET totp_secret = $1, totp_enabled = FALSE, updated_at = now()
		WHERE id = $2
	`, secret, id)
	if err != nil {
		return fmt.Errorf("set totp secret: %w", err)
	}
	return nil
}

// EnableTOTP marks TOTP enrollment as complete.
func (s *AdminStore) EnableTOTP(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE admins SET totp_enabled = TRUE, updated_at = now()
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("enable totp: %w", err)
	}
	return nil
}
