// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

package api

import (
	"net/http"

	"github.com/wallreel/scheduler/internal/logging"
	"github.com/wallreel/scheduler/internal/models"
)

// writeDomainError maps a models.Error's Kind onto the matching HTTP status
// and error code, so every handler has a single place to funnel scheduler
// errors through rather than re-deriving status codes by hand.
func writeDomainError(rw *ResponseWriter, err error) {
	domainErr, ok := err.(*models.Error)
	if !ok {
		logging.Error().Err(err).Msg("unmapped error reached the API layer")
		rw.InternalError("an internal error occurred")
		return
	}

	switch domainErr.Kind {
	case models.KindNotFound:
		rw.NotFound(domainErr.Message)
	case models.KindInvalidArgument:
		rw.BadRequest(domainErr.Message)
	case models.KindSchedulingConflict:
		rw.Conflict(domainErr.Message)
	case models.KindCatalogUnavailable:
		logging.Warn().Err(domainErr).Msg("catalog unavailable")
		rw.ServiceUnavailable(domainErr.Message)
	default:
		logging.Error().Err(domainErr).Msg("fatal error in scheduler layer")
		rw.InternalError("an internal error occurred")
	}
}

// decodeAndValidate reads and validates a JSON request body into dst.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := decodeJSON(w, r, dst); err != nil {
		WriteBadRequest(w, r, "invalid request body: "+err.Error())
		return false
	}
	if err := validate.Struct(dst); err != nil {
		NewResponseWriter(w, r).ValidationError("request validation failed", err.Error())
		return false
	}
	return true
}
