// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

package auth

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// BasicAuthManager validates the single operator account configured for
// AuthModeBasic. The operator password never touches disk or logs in the
// clear; only its bcrypt hash is retained.
type BasicAuthManager struct {
	username     string
	passwordHash []byte
}

// NewBasicAuthManager hashes password once at startup so every request
// pays only the (timing-safe) CompareHashAndPassword cost, not a fresh
// bcrypt.GenerateFromPassword per login attempt.
func NewBasicAuthManager(username, password string) (*BasicAuthManager, error) {
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if password == "" {
		return nil, fmt.Errorf("password is required")
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters for security")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return &BasicAuthManager{
		username:     username,
		passwordHash: hash,
	}, nil
}

// ValidateCredentials decodes an "Authorization: Basic ..." header and
// checks it against the configured operator account, returning the
// username on success.
func (m *BasicAuthManager) ValidateCredentials(authHeader string) (string, error) {
	if !strings.HasPrefix(authHeader, "Basic ") {
		return "", fmt.Errorf("invalid authorization header format")
	}

	encodedCredentials := strings.TrimPrefix(authHeader, "Basic ")
	credentials, err := base64.StdEncoding.DecodeString(encodedCredentials)
	if err != nil {
		return "", fmt.Errorf("failed to decode credentials")
	}

	parts := strings.SplitN(string(credentials), ":", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid credentials format")
	}

	providedUsername := parts[0]
	providedPassword := parts[1]

	if !m.validateUsernamePassword(providedUsername, providedPassword) {
		return "", fmt.Errorf("invalid username or password")
	}

	return providedUsername, nil
}

// validateUsernamePassword compares both fields regardless of whether the
// username already failed, so a timing attack can't short-circuit on
// username correctness alone.
func (m *BasicAuthManager) validateUsernamePassword(username, password string) bool {
	usernameMatch := subtle.ConstantTimeCompare([]byte(username), []byte(m.username)) == 1
	passwordMatch := bcrypt.CompareHashAndPassword(m.passwordHash, []byte(password)) == nil
	return usernameMatch && passwordMatch
}

// GetWWWAuthenticateHeader is the challenge sent with a 401 so operator
// tooling (curl, browsers) knows to prompt for the Basic credential.
func (m *BasicAuthManager) GetWWWAuthenticateHeader() string {
	return `Basic realm="Wallreel Operator API", charset="UTF-8"`
}
