// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the folio API. Handlers
// are grouped by concern (auth, admin, public) and receive their
// dependencies through the handler struct. Every response body is JSON;
// errors carry a short human-readable message and nothing else.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Error messages surfaced to clients. Login failures use one message for
// both unknown email and wrong password so the response never reveals which
// field was wrong.
const (
	msgInvalidCredentials = "Invalid credentials"
	msgUnauthorized       = "Unauthorized"
	msgNotFound           = "Project not found"
	msgRequiredFields     = "Title, category, and description are required"
	msgInvalidCategory    = "Invalid category"
	msgInvalidBody        = "Invalid request body"
	msgSlugConflict       = "Could not allocate a unique slug"
	msgInternal           = "Internal server error"
)

// writeJSON serializes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// writeRawJSON writes a pre-serialized JSON payload (cache hits).
func writeRawJSON(w http.ResponseWriter, status int, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}

// writeMessage writes the standard error envelope.
func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeServerError logs the underlying failure and answers with a generic
// 500; store and infrastructure errors never reach the client verbatim.
func writeServerError(w http.ResponseWriter, op string, err error) {
	slog.Error(op, "error", err)
	writeMessage(w, http.StatusInternalServerError, msgInternal)
}
