// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

package database

import (
	"io"
	"strings"

	"github.com/wallreel/scheduler/internal/logging"
)

// closeQuietly closes a resource and explicitly discards any error. Used
// in cleanup/error paths where a Close failure is not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}

// closeWithLog closes a resource and logs (at warn level) any error,
// tagging it with resourceType for diagnosability.
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Err(err).Str("type", resourceType).Msg("failed to close resource")
	}
}

// isUniqueConstraintError reports whether err is a DuckDB unique/primary
// key constraint violation, as opposed to a connectivity or syntax error.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "primary key constraint")
}

// isConnectionError reports whether err indicates the underlying DuckDB
// connection was lost, as distinct from a query-level failure.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "bad connection") ||
		strings.Contains(msg, "database is closed")
}
