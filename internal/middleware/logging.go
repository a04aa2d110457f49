// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package middleware provides HTTP middleware for the folio server.
package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// loggedResponse wraps http.ResponseWriter to record the status code and
// payload size for the request log line.
type loggedResponse struct {
	http.ResponseWriter
	status int
	bytes  int
	wrote  bool
}

// WriteHeader records the first explicit status code.
func (lr *loggedResponse) WriteHeader(code int) {
	if !lr.wrote {
		lr.status = code
		lr.wrote = true
	}
	lr.ResponseWriter.WriteHeader(code)
}

// Write records an implicit 200 when the handler never calls WriteHeader
// and accumulates the bytes written.
func (lr *loggedResponse) Write(b []byte) (int, error) {
	if !lr.wrote {
		lr.status = http.StatusOK
		lr.wrote = true
	}
	n, err := lr.ResponseWriter.Write(b)
	lr.bytes += n
	return n, err
}

// Logger emits one structured log line per request: method, path, status,
// response size, duration, and client address. Server errors log at error
// level and client errors at warn so they stand out in production output.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		lr := &loggedResponse{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(lr, r)

		level := slog.LevelInfo
		switch {
		case lr.status >= http.StatusInternalServerError:
			level = slog.LevelError
		case lr.status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}

		slog.Log(r.Context(), level, "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", lr.status,
			"bytes", lr.bytes,
			"duration", time.Since(start).String(),
			"remote", r.RemoteAddr,
		)
	})
}
