// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

package displaycode

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	code, err := Generate()
	require.NoError(t, err)
	assert.Len(t, code, Length)
	for _, r := range code {
		assert.True(t, strings.ContainsRune(alphabet, r), "unexpected rune %q", r)
	}
}

func TestGenerateUnique_FirstTry(t *testing.T) {
	code, err := GenerateUnique(func(string) (bool, error) { return false, nil })
	require.NoError(t, err)
	assert.Len(t, code, Length)
}

func TestGenerateUnique_RetriesOnCollision(t *testing.T) {
	seen := map[string]bool{}
	calls := 0
	code, err := GenerateUnique(func(c string) (bool, error) {
		calls++
		if calls < 3 {
			return true, nil // force a couple of collisions
		}
		seen[c] = true
		return false, nil
	})
	require.NoError(t, err)
	assert.True(t, seen[code])
	assert.GreaterOrEqual(t, calls, 3)
}

func TestGenerateUnique_ExhaustsAttempts(t *testing.T) {
	_, err := GenerateUnique(func(string) (bool, error) { return true, nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exhausted")
}

func TestGenerateUnique_PropagatesExistsError(t *testing.T) {
	boom := errors.New("store unavailable")
	_, err := GenerateUnique(func(string) (bool, error) { return false, boom })
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}
