// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

package scheduler

import (
	"context"

	"github.com/wallreel/scheduler/internal/database"
	"github.com/wallreel/scheduler/internal/displaycode"
	"github.com/wallreel/scheduler/internal/models"
)

// DisplayNotifier receives display lifecycle events for the ops feed (A9).
type DisplayNotifier interface {
	NotifyDisplayPaired(displayID, name string)
}

type noopDisplayNotifier struct{}

func (noopDisplayNotifier) NotifyDisplayPaired(string, string) {}

// DisplayManager registers and retires Displays, assigning each a unique
// displaycode-generated pairing code (spec.md §3, §6).
type DisplayManager struct {
	store    *database.SchedulingStore
	notifier DisplayNotifier
}

// NewDisplayManager wires the manager to the Scheduling Store. Pass nil
// for notifier to run without ops-feed broadcasting.
func NewDisplayManager(store *database.SchedulingStore, notifier DisplayNotifier) *DisplayManager {
	if notifier == nil {
		notifier = noopDisplayNotifier{}
	}
	return &DisplayManager{store: store, notifier: notifier}
}

// Register pairs a new display under an operator-supplied name, assigning
// it a collision-free 6-char pairing code (spec.md §3 "created on
// operator action").
func (m *DisplayManager) Register(ctx context.Context, name string) (*models.Display, error) {
	if name == "" {
		return nil, models.InvalidArgumentf("display name must not be empty")
	}

	code, err := displaycode.GenerateUnique(func(candidate string) (bool, error) {
		return m.store.DisplayExists(ctx, candidate)
	})
	if err != nil {
		return nil, models.Fatalf(err, "failed to generate a unique display code")
	}

	display, err := m.store.CreateDisplay(ctx, code, name)
	if err != nil {
		return nil, models.Fatalf(err, "failed to register display %s", name)
	}
	m.notifier.NotifyDisplayPaired(display.DisplayID, display.Name)
	return display, nil
}

// Get retrieves a display by its pairing code.
func (m *DisplayManager) Get(ctx context.Context, displayID string) (*models.Display, error) {
	d, err := m.store.GetDisplay(ctx, displayID)
	if err != nil {
		return nil, notFoundOrWrap(err, "display %s", displayID)
	}
	return d, nil
}

// List returns every registered display.
func (m *DisplayManager) List(ctx context.Context) ([]models.Display, error) {
	displays, err := m.store.ListDisplays(ctx)
	if err != nil {
		return nil, models.Fatalf(err, "failed to list displays")
	}
	return displays, nil
}

// Delete removes a display and cascades to its owned entities (spec.md §3
// "Ownership"), retaining History Entries.
func (m *DisplayManager) Delete(ctx context.Context, displayID string) error {
	if err := m.store.DeleteDisplay(ctx, displayID); err != nil {
		return notFoundOrWrap(err, "display %s", displayID)
	}
	return nil
}
