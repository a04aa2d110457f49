// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
// Tests that need PostgreSQL are skipped when it is unavailable; validation
// and upload tests run without any infrastructure.
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/crypto/bcrypt"

	"folio/internal/database"
	"folio/internal/storage"
	"folio/internal/store"
	"folio/internal/token"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "folio")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "folio")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// testEnv holds all dependencies for handler integration tests. Caching is
// disabled (nil ProjectCache) and uploads land in a per-test temp dir.
type testEnv struct {
	DB       *sql.DB
	Projects *store.ProjectStore
	Admins   *store.AdminStore
	Issuer   *token.Issuer
	Admin    *Admin
	Auth     *Auth
	Public   *Public
}

// newTestEnv creates a complete test environment with all handler dependencies.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	projects := store.NewProjectStore(db)
	admins := store.NewAdminStore(db)
	issuer := token.NewIssuer("handler-test-secret", time.Hour)
	local := storage.NewLocal(t.TempDir(), "/uploads")

	return &testEnv{
		DB:       db,
		Projects: projects,
		Admins:   admins,
		Issuer:   issuer,
		Admin:    NewAdmin(projects, nil, local),
		Auth:     NewAuth(admins, issuer),
		Public:   NewPublic(projects, nil),
	}
}

// seedTestAdmin inserts an admin with the given credentials and registers
// cleanup.
func seedTestAdmin(t *testing.T, db *sql.DB, email, password string) int64 {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}

	var id int64
	err = db.QueryRow(`
		INSERT INTO admins (email, password_hash) VALUES ($1, $2) RETURNING id
	`, email, string(hash)).Scan(&id)
	if err != nil {
		t.Fatalf("insert admin: %v", err)
	}

	t.Cleanup(func() { db.Exec("DELETE FROM admins WHERE id = $1", id) })
	return id
}

// cleanProjects removes test projects by slug. Call in t.Cleanup().
func cleanProjects(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, s := range slugs {
		db.Exec("DELETE FROM projects WHERE slug = $1", s)
	}
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
