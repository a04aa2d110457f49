// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage abstracts where uploaded assets live. The server picks a
// backend at boot: S3-compatible object storage when configured, local disk
// otherwise. Either way, Save returns the URL the stored file is served
// from.
package storage

import (
	"context"
	"io"
)

// Storage saves and deletes uploaded files by key. A key is a unique path
// within the backend, e.g. "1756400000000-3f9a1c2b.png".
type Storage interface {
	// Save stores the file and returns its public URL.
	Save(ctx context.Context, key string, data io.Reader, contentType string) (url string, err error)

	// Delete removes the file for key. Missing files are not an error.
	Delete(ctx context.Context, key string) error
}
