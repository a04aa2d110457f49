// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"strings"
	"unicode/utf8"

	"folio/internal/models"
)

// Validation limits for project fields.
const (
	maxTitleLen       = 300
	maxDescriptionLen = 10_000
	maxTagLen         = 100
	maxTagCount       = 50
	maxURLLen         = 2_000
)

// validateProjectInput checks the required create fields and returns the
// first error message found, or "" when the input is acceptable.
func validateProjectInput(title string, category models.Category, description string) string {
	if strings.TrimSpace(title) == "" || category == "" || strings.TrimSpace(description) == "" {
		return msgRequiredFields
	}
	if !category.Valid() {
		return msgInvalidCategory
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return "Description is too long (max 10,000 characters)."
	}
	return ""
}

// validateTags bounds the tag list so a single request cannot blow up the
// stored row.
func validateTags(tags models.TagList) string {
	if len(tags) > maxTagCount {
		return "Too many tags (max 50)."
	}
	for _, tag := range tags {
		if utf8.RuneCountInString(tag) > maxTagLen {
			return "Tag is too long (max 100 characters)."
		}
	}
	return ""
}

// validateURLField bounds optional URL fields.
func validateURLField(url *string) string {
	if url != nil && utf8.RuneCountInString(*url) > maxURLLen {
		return "URL is too long (max 2,000 characters)."
	}
	return ""
}
