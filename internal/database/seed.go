package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// sampleProject mirrors the rows inserted by the original seed script.
type sampleProject struct {
	Title        string
	Slug         string
	Category     string
	Description  string
	Tags         []string
	DemoURL      *string
	GithubURL    *string
	ThumbnailURL *string
	Featured     bool
	Published    bool
}

func strptr(s string) *string { return &s }

var sampleProjects = []sampleProject{
	{
		Title:        "Cyber Portfolio",
		Slug:         "cyber-portfolio",
		Category:     "Web",
		Description:  "Landing page portfolio bertema cyber dengan animasi modern.",
		Tags:         []string{"React", "Tailwind", "Vite"},
		DemoURL:      strptr("https://example.com/portfolio"),
		GithubURL:    strptr("https://github.com/example/cyber-portfolio"),
		ThumbnailURL: strptr("/uploads/sample-portfolio.png"),
		Featured:     true,
		Published:    true,
	},
	{
		Title:        "UIUX Fintech Dashboard",
		Slug:         "uiux-fintech-dashboard",
		Category:     "UIUX",
		Description:  "Desain UI/UX dashboard fintech lengkap dengan design system.",
		Tags:         []string{"Figma", "UIUX"},
		DemoURL:      strptr("https://example.com/fintech"),
		ThumbnailURL: strptr("/uploads/sample-fintech.png"),
		Published:    true,
	},
	{
		Title:        "Mobile Habit Tracker",
		Slug:         "mobile-habit-tracker",
		Category:     "Mobile",
		Description:  "Aplikasi mobile untuk tracking kebiasaan harian.",
		Tags:         []string{"React Native", "Expo"},
		GithubURL:    strptr("https://github.com/example/habit-tracker"),
		ThumbnailURL: strptr("/uploads/sample-habit.png"),
	},
}

// Seed populates the database with initial development data: the default
// admin account and a handful of sample projects. Both steps are no-ops
// when their table already has rows, so Seed is safe to run on every boot.
func Seed(db *sql.DB, adminEmail, adminPassword string) error {
	if err := seedAdmin(db, adminEmail, adminPassword); err != nil {
		return err
	}
	return seedProjects(db)
}

func seedAdmin(db *sql.DB, email, password string) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM admins").Scan(&count); err != nil {
		return fmt.Errorf("seed check admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO admins (email, password_hash)
		VALUES ($1, $2)
	`, email, string(hash))
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	slog.Info("database seeded with default admin", "email", email)
	return nil
}

func seedProjects(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM projects").Scan(&count); err != nil {
		return fmt.Errorf("seed check projects: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, p := range sampleProjects {
		tags, err := json.Marshal(p.Tags)
		if err != nil {
			return fmt.Errorf("seed marshal tags: %w", err)
		}
		_, err = db.Exec(`
			INSERT INTO projects (title, slug, category, description, tags,
			                      demo_url, github_url, thumbnail_url, featured, published)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, p.Title, p.Slug, p.Category, p.Description, tags,
			p.DemoURL, p.GithubURL, p.ThumbnailURL, p.Featured, p.Published)
		if err != nil {
			return fmt.Errorf("seed insert project %q: %w", p.Slug, err)
		}
	}

	slog.Info("database seeded with sample projects", "count", len(sampleProjects))
	return nil
}
