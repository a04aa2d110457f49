// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary strings
// and unique-slug allocation against a store.
package slug

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, or space.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// whitespaceRun matches any run of whitespace, including tabs and
	// newlines, not just literal spaces.
	whitespaceRun = regexp.MustCompile(`\s+`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)

	// foldDiacritics decomposes accented characters and drops the
	// combining marks, so "Café" normalizes to "Cafe" instead of "Caf".
	foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// ErrEmpty is returned when a title normalizes to nothing. Titles are
// validated as non-empty upstream, so this only fires for titles made
// entirely of symbols.
var ErrEmpty = errors.New("slug: title normalizes to an empty slug")

// Generate creates a URL-friendly slug from the given string.
// Example: "Hello, World! 2026" → "hello-world-2026"
func Generate(s string) string {
	if folded, _, err := transform.String(foldDiacritics, s); err == nil {
		s = folded
	}
	result := strings.ToLower(strings.TrimSpace(s))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = whitespaceRun.ReplaceAllString(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	return result
}

// Checker answers whether a slug is already held by a record other than
// excludeID. Implemented by the project store.
type Checker interface {
	SlugTaken(ctx context.Context, slug string, excludeID int64) (bool, error)
}

// Unique allocates the first unused slug derived from title: the base slug
// if free, otherwise base-1, base-2, ... The record identified by excludeID
// is ignored during probing so a rename keeps its own slug (pass 0 for
// creates).
//
// The probe-then-insert sequence is racy under concurrent allocation for the
// same base; callers rely on the unique constraint on projects.slug and
// re-run Unique when the insert reports a duplicate.
func Unique(ctx context.Context, store Checker, title string, excludeID int64) (string, error) {
	base := Generate(title)
	if base == "" {
		return "", ErrEmpty
	}

	candidate := base
	for counter := 1; ; counter++ {
		taken, err := store.SlugTaken(ctx, candidate, excludeID)
		if err != nil {
			return "", fmt.Errorf("slug probe %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, counter)
	}
}
