// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

package scheduler

import (
	"context"

	"github.com/wallreel/scheduler/internal/database"
	"github.com/wallreel/scheduler/internal/metrics"
	"github.com/wallreel/scheduler/internal/models"
)

// CommandQueue is the Command Queue (spec.md §4.5, Component C7): a thin
// validating wrapper over the Scheduling Store's FIFO enqueue/drain, with
// metrics and ops-feed notification on enqueue.
type CommandQueue struct {
	store    *database.SchedulingStore
	notifier CommandNotifier
}

// CommandNotifier receives command lifecycle events for the ops feed (A9).
type CommandNotifier interface {
	NotifyCommandEnqueued(displayID, commandType string)
	NotifyCommandsDrained(displayID string, count int)
}

type noopCommandNotifier struct{}

func (noopCommandNotifier) NotifyCommandEnqueued(string, string) {}
func (noopCommandNotifier) NotifyCommandsDrained(string, int)    {}

// NewCommandQueue wires the queue to the Scheduling Store. Pass nil for
// notifier to run without ops-feed broadcasting.
func NewCommandQueue(store *database.SchedulingStore, notifier CommandNotifier) *CommandQueue {
	if notifier == nil {
		notifier = noopCommandNotifier{}
	}
	return &CommandQueue{store: store, notifier: notifier}
}

// Enqueue validates and appends a command to a display's FIFO queue
// (spec.md §4.5).
func (q *CommandQueue) Enqueue(ctx context.Context, displayID string, cmdType models.CommandType, payload *string) (*models.Command, error) {
	if !cmdType.Valid() {
		return nil, models.InvalidArgumentf("invalid command type %q", cmdType)
	}
	if _, err := q.store.GetDisplay(ctx, displayID); err != nil {
		return nil, notFoundOrWrap(err, "display %s", displayID)
	}

	cmd, err := q.store.EnqueueCommand(ctx, displayID, cmdType, payload)
	if err != nil {
		return nil, models.Fatalf(err, "failed to enqueue command for display %s", displayID)
	}
	metrics.RecordCommandEnqueued(displayID, string(cmdType))
	q.notifier.NotifyCommandEnqueued(displayID, string(cmdType))
	return cmd, nil
}

// Drain atomically returns and deletes every pending command for a
// display, the at-least-once delivery consumed by a poll (spec.md §4.5).
func (q *CommandQueue) Drain(ctx context.Context, displayID string) ([]models.Command, error) {
	commands, err := q.store.DrainCommands(ctx, displayID)
	if err != nil {
		return nil, models.Fatalf(err, "failed to drain commands for display %s", displayID)
	}
	if len(commands) > 0 {
		metrics.RecordCommandsDrained(displayID, len(commands))
		q.notifier.NotifyCommandsDrained(displayID, len(commands))
	}
	return commands, nil
}

// Preview returns pending commands without draining them, backing the
// operator endpoint GET /displays/{display_id}/commands.
func (q *CommandQueue) Preview(ctx context.Context, displayID string) ([]models.Command, error) {
	commands, err := q.store.PreviewCommands(ctx, displayID)
	if err != nil {
		return nil, models.Fatalf(err, "failed to preview commands for display %s", displayID)
	}
	return commands, nil
}
