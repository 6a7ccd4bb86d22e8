// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

// Package displaycode generates the 6-char upper-alphanumeric pairing code
// every Display is keyed by (spec.md §3, §6): stable once assigned,
// collision-retried at creation, human-readable enough to read off a
// screen and type during pairing.
package displaycode

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	// Length is the fixed size of every generated code.
	Length = 6
	// alphabet excludes nothing; spec.md §6 specifies [A-Z0-9] verbatim,
	// so likely-confused characters (0/O, 1/I) are intentionally kept in
	// rather than narrowed, to match the contractual charset exactly.
	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// MaxAttempts bounds the collision-retry loop so a saturated keyspace
	// (practically unreachable at 36^6 codes) fails loudly instead of
	// looping forever.
	MaxAttempts = 20
)

// Generate returns a random 6-char [A-Z0-9] code.
func Generate() (string, error) {
	buf := make([]byte, Length)
	alphabetLen := big.NewInt(int64(len(alphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("displaycode: failed to generate random index: %w", err)
		}
		buf[i] = alphabet[n.Int64()]
	}
	return string(buf), nil
}

// GenerateUnique calls Generate repeatedly until exists returns false for
// the candidate or MaxAttempts is exhausted, per spec.md §6 ("retried on
// collision").
func GenerateUnique(exists func(code string) (bool, error)) (string, error) {
	for attempt := 0; attempt < MaxAttempts; attempt++ {
		code, err := Generate()
		if err != nil {
			return "", err
		}
		taken, err := exists(code)
		if err != nil {
			return "", fmt.Errorf("displaycode: collision check failed: %w", err)
		}
		if !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("displaycode: exhausted %d attempts without a unique code", MaxAttempts)
}
