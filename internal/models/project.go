// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Category classifies a portfolio project.
type Category string

const (
	CategoryWeb    Category = "Web"
	CategoryUIUX   Category = "UIUX"
	CategoryMobile Category = "Mobile"
	CategoryGame   Category = "Game"
	CategoryOther  Category = "Other"
)

// Categories lists every valid project category.
var Categories = []Category{
	CategoryWeb, CategoryUIUX, CategoryMobile, CategoryGame, CategoryOther,
}

// Valid reports whether the category is one of the known values.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Project is a portfolio entry. The slug is the public lookup key and is
// unique across all projects; only published projects are visible on the
// public API. JSON field names match the wire contract of the browser client.
type Project struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Category     Category  `json:"category"`
	Description  string    `json:"description"`
	Tags         TagList   `json:"tags"`
	DemoURL      *string   `json:"demoUrl"`
	GithubURL    *string   `json:"githubUrl"`
	ThumbnailURL *string   `json:"thumbnailUrl"`
	Featured     bool      `json:"featured"`
	Published    bool      `json:"published"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// TagList is an ordered list of short labels. It accepts either a JSON array
// of strings or a single comma-separated string on input; blanks and
// duplicates are stripped either way.
type TagList []string

// UnmarshalJSON decodes a JSON array or a comma-separated string.
func (t *TagList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = NormalizeTags(list)
		return nil
	}

	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return err
	}
	*t = NormalizeTags(strings.Split(joined, ","))
	return nil
}

// MarshalJSON always encodes as a JSON array, never null.
func (t TagList) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(t))
}

// NormalizeTags trims whitespace, drops empty entries, and removes
// duplicates while preserving the original order.
func NormalizeTags(raw []string) TagList {
	seen := make(map[string]bool, len(raw))
	tags := make(TagList, 0, len(raw))
	for _, tag := range raw {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}
