// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

package auth

import (
	"encoding/base64"
	"testing"
)

func TestNewBasicAuthManager_RequiresLongPassword(t *testing.T) {
	if _, err := NewBasicAuthManager("admin", "short"); err == nil {
		t.Fatal("expected error for password under 8 characters")
	}
}

func TestBasicAuthManager_ValidateCredentials(t *testing.T) {
	mgr, err := NewBasicAuthManager("admin", "a-long-enough-password")
	if err != nil {
		t.Fatalf("NewBasicAuthManager() error: %v", err)
	}

	encoded := base64.StdEncoding.EncodeToString([]byte("admin:a-long-enough-password"))
	username, err := mgr.ValidateCredentials("Basic " + encoded)
	if err != nil {
		t.Fatalf("ValidateCredentials() error: %v", err)
	}
	if username != "admin" {
		t.Errorf("username = %q, want admin", username)
	}
}

func TestBasicAuthManager_ValidateCredentials_WrongPassword(t *testing.T) {
	mgr, err := NewBasicAuthManager("admin", "a-long-enough-password")
	if err != nil {
		t.Fatalf("NewBasicAuthManager() error: %v", err)
	}

	encoded := base64.StdEncoding.EncodeToString([]byte("admin:wrong-password"))
	if _, err := mgr.ValidateCredentials("Basic " + encoded); err == nil {
		t.Fatal("expected error for wrong password")
	}
}

func TestBasicAuthManager_ValidateCredentials_MalformedHeader(t *testing.T) {
	mgr, err := NewBasicAuthManager("admin", "a-long-enough-password")
	if err != nil {
		t.Fatalf("NewBasicAuthManager() error: %v", err)
	}

	cases := []string{
		"",
		"Bearer abc",
		"Basic not-base64!!",
	}
	for _, header := range cases {
		if _, err := mgr.ValidateCredentials(header); err == nil {
			t.Errorf("expected error for header %q", header)
		}
	}
}

func TestBasicAuthManager_GetWWWAuthenticateHeader(t *testing.T) {
	mgr, err := NewBasicAuthManager("admin", "a-long-enough-password")
	if err != nil {
		t.Fatalf("NewBasicAuthManager() error: %v", err)
	}
	header := mgr.GetWWWAuthenticateHeader()
	if header != `Basic realm="Wallreel Operator API", charset="UTF-8"` {
		t.Errorf("GetWWWAuthenticateHeader() = %q", header)
	}
}
