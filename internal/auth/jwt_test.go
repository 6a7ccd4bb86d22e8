// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

package auth

import (
	"testing"
	"time"

	"github.com/wallreel/scheduler/internal/config"
)

func testSecurityConfig() *config.SecurityConfig {
	return &config.SecurityConfig{
		JWTSecret:      "a-sufficiently-long-test-secret",
		SessionTimeout: time.Hour,
	}
}

func TestNewJWTManager_RequiresSecret(t *testing.T) {
	cfg := testSecurityConfig()
	cfg.JWTSecret = ""
	if _, err := NewJWTManager(cfg); err == nil {
		t.Fatal("expected error when JWTSecret is empty")
	}
}

func TestJWTManager_GenerateAndValidateToken(t *testing.T) {
	mgr, err := NewJWTManager(testSecurityConfig())
	if err != nil {
		t.Fatalf("NewJWTManager() error: %v", err)
	}

	token, err := mgr.GenerateToken("operator1", "admin")
	if err != nil {
		t.Fatalf("GenerateToken() error: %v", err)
	}

	claims, err := mgr.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error: %v", err)
	}
	if claims.Username != "operator1" {
		t.Errorf("Username = %q, want operator1", claims.Username)
	}
	if claims.Role != "admin" {
		t.Errorf("Role = %q, want admin", claims.Role)
	}
}

func TestJWTManager_ValidateToken_RejectsTampered(t *testing.T) {
	mgr, err := NewJWTManager(testSecurityConfig())
	if err != nil {
		t.Fatalf("NewJWTManager() error: %v", err)
	}

	token, err := mgr.GenerateToken("operator1", "admin")
	if err != nil {
		t.Fatalf("GenerateToken() error: %v", err)
	}

	if _, err := mgr.ValidateToken(token + "tampered"); err == nil {
		t.Fatal("expected error for tampered token")
	}
}

func TestJWTManager_ValidateToken_RejectsWrongSecret(t *testing.T) {
	mgr1, err := NewJWTManager(testSecurityConfig())
	if err != nil {
		t.Fatalf("NewJWTManager() error: %v", err)
	}
	token, err := mgr1.GenerateToken("operator1", "admin")
	if err != nil {
		t.Fatalf("GenerateToken() error: %v", err)
	}

	other := testSecurityConfig()
	other.JWTSecret = "a-completely-different-secret-val"
	mgr2, err := NewJWTManager(other)
	if err != nil {
		t.Fatalf("NewJWTManager() error: %v", err)
	}

	if _, err := mgr2.ValidateToken(token); err == nil {
		t.Fatal("expected error when validating with a different secret")
	}
}
