// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"

	"folio/internal/middleware"
)

// authedRequest runs a handler behind RequireAuth with a real token, the way
// the router wires it in production.
func authedRequest(t *testing.T, env *testEnv, adminID int64, email string, handler http.HandlerFunc, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	signed, err := env.Issuer.Issue(adminID, email)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+signed)
	rr := httptest.NewRecorder()
	middleware.RequireAuth(env.Issuer)(handler).ServeHTTP(rr, req)
	return rr
}

// TestTwoFAEnrollmentFlow walks the full second-factor lifecycle: setup
// returns a secret, activation with a valid code turns enforcement on, and
// login then demands a code.
func TestTwoFAEnrollmentFlow(t *testing.T) {
	env := newTestEnv(t)
	email := fmt.Sprintf("htest-2fa-%d@example.com", time.Now().UnixNano())
	id := seedTestAdmin(t, env.DB, email, "hunter2hunter2")

	// Step 1: setup returns the pending secret and provisioning material.
	rr := authedRequest(t, env, id, email, env.Auth.TwoFASetup, http.MethodPost, "/api/admin/2fa/setup", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("setup status = %d (body %s)", rr.Code, rr.Body.String())
	}
	var setup struct {
		Secret     string `json:"secret"`
		OtpauthURL string `json:"otpauthUrl"`
		QRPng      string `json:"qrPng"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &setup); err != nil {
		t.Fatalf("decode setup: %v", err)
	}
	if setup.Secret == "" || setup.OtpauthURL == "" || setup.QRPng == "" {
		t.Fatalf("setup response incomplete: %+v", setup)
	}

	// Enforcement must still be off: login with just the password works.
	loginBody := fmt.Sprintf(`{"email": %q, "password": "hunter2hunter2"}`, email)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(loginBody))
	loginRR := httptest.NewRecorder()
	env.Auth.Login(loginRR, req)
	if loginRR.Code != http.StatusOK {
		t.Fatalf("pre-activation login status = %d, want 200", loginRR.Code)
	}

	// Step 2: activation with a wrong code is rejected.
	rr = authedRequest(t, env, id, email, env.Auth.TwoFAActivate, http.MethodPost, "/api/admin/2fa/activate", `{"code": "000000"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("bad-code activation status = %d, want 400", rr.Code)
	}

	// Activation with a real code flips enforcement on.
	code, err := totp.GenerateCode(setup.Secret, time.Now())
	if err != nil {
		t.Fatalf("generate code: %v", err)
	}
	rr = authedRequest(t, env, id, email, env.Auth.TwoFAActivate, http.MethodPost, "/api/admin/2fa/activate", fmt.Sprintf(`{"code": %q}`, code))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("activation status = %d, want 204 (body %s)", rr.Code, rr.Body.String())
	}

	// Step 3: password-only login is now refused.
	req = httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(loginBody))
	loginRR = httptest.NewRecorder()
	env.Auth.Login(loginRR, req)
	if loginRR.Code != http.StatusUnauthorized {
		t.Fatalf("post-activation login without code status = %d, want 401", loginRR.Code)
	}

	// Login with the current code succeeds.
	code, err = totp.GenerateCode(setup.Secret, time.Now())
	if err != nil {
		t.Fatalf("generate code: %v", err)
	}
	withCode := fmt.Sprintf(`{"email": %q, "password": "hunter2hunter2", "totpCode": %q}`, email, code)
	req = httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(withCode))
	loginRR = httptest.NewRecorder()
	env.Auth.Login(loginRR, req)
	if loginRR.Code != http.StatusOK {
		t.Fatalf("login with code status = %d, want 200 (body %s)", loginRR.Code, loginRR.Body.String())
	}
}

// TestTwoFAActivateWithoutSetup refuses activation before setup ran.
func TestTwoFAActivateWithoutSetup(t *testing.T) {
	env := newTestEnv(t)
	email := fmt.Sprintf("htest-2fa-nosetup-%d@example.com", time.Now().UnixNano())
	id := seedTestAdmin(t, env.DB, email, "hunter2hunter2")

	rr := authedRequest(t, env, id, email, env.Auth.TwoFAActivate, http.MethodPost, "/api/admin/2fa/activate", `{"code": "123456"}`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "setup has not been started") {
		t.Errorf("body = %q, want setup-not-started message", rr.Body.String())
	}
}
