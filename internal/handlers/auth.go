// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/base64"
	"net/http"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/crypto/bcrypt"

	"folio/internal/middleware"
	"folio/internal/store"
	"folio/internal/token"
)

// totpIssuer is the issuer label shown in authenticator apps.
const totpIssuer = "folio"

// Auth groups the authentication handlers: login and the optional TOTP
// second-factor enrollment.
type Auth struct {
	admins *store.AdminStore
	issuer *token.Issuer
}

// NewAuth creates the auth handler group.
func NewAuth(admins *store.AdminStore, issuer *token.Issuer) *Auth {
	return &Auth{admins: admins, issuer: issuer}
}

// Login verifies the submitted credentials and issues a bearer token. The
// 401 message is identical for an unknown email and a wrong password. When
// the admin has TOTP enabled, a valid code must accompany the credentials.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		TOTPCode string `json:"totpCode"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Email and password required")
		return
	}

	admin, err := a.admins.FindByEmail(r.Context(), req.Email)
	if err != nil {
		writeServerError(w, "login", err)
		return
	}
	if admin == nil {
		writeMessage(w, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		writeMessage(w, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}

	if admin.TOTPEnabled {
		if admin.TOTPSecret == nil || !totp.Validate(req.TOTPCode, *admin.TOTPSecret) {
			writeMessage(w, http.StatusUnauthorized, "Invalid two-factor code")
			return
		}
	}

	accessToken, err := a.issuer.Issue(admin.ID, admin.Email)
	if err != nil {
		writeServerError(w, "issue token", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"accessToken": accessToken})
}

// TwoFASetup generates a fresh TOTP secret for the authenticated admin and
// returns it with an otpauth URL and a QR code PNG (base64) for
// authenticator apps. The second factor stays off until TwoFAActivate
// proves the admin can produce valid codes.
func (a *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromCtx(r.Context())

	admin, err := a.admins.FindByID(r.Context(), identity.AdminID)
	if err != nil {
		writeServerError(w, "2fa setup", err)
		return
	}
	if admin == nil {
		writeMessage(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: admin.Email,
	})
	if err != nil {
		writeServerError(w, "2fa generate", err)
		return
	}

	if err := a.admins.SetTOTPSecret(r.Context(), admin.ID, key.Secret()); err != nil {
		writeServerError(w, "2fa store secret", err)
		return
	}

	png, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		writeServerError(w, "2fa qr encode", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"secret":     key.Secret(),
		"otpauthUrl": key.URL(),
		"qrPng":      base64.StdEncoding.EncodeToString(png),
	})
}

// TwoFAActivate verifies a code against the pending secret and turns the
// second factor on for subsequent logins.
func (a *Auth) TwoFAActivate(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromCtx(r.Context())

	var req struct {
		Code string `json:"code"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	admin, err := a.admins.FindByID(r.Context(), identity.AdminID)
	if err != nil {
		writeServerError(w, "2fa activate", err)
		return
	}
	if admin == nil {
		writeMessage(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}
	if admin.TOTPSecret == nil {
		writeMessage(w, http.StatusBadRequest, "Two-factor setup has not been started")
		return
	}

	if !totp.Validate(req.Code, *admin.TOTPSecret) {
		writeMessage(w, http.StatusBadRequest, "Invalid two-factor code")
		return
	}

	if err := a.admins.EnableTOTP(r.Context(), admin.ID); err != nil {
		writeServerError(w, "2fa enable", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
