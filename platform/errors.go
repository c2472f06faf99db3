// Copyright 2026 The Warden Authors
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"errors"
	"fmt"
)

// APIError represents a structured error response from the chat
// platform. Callers can use errors.As to extract the structured
// information:
//
//	var apiErr *platform.APIError
//	if errors.As(err, &apiErr) {
//	    if apiErr.Code == platform.ErrCodeMissingPermissions { ... }
//	}
type APIError struct {
	// Code is the platform's numeric error code (e.g. 50013 for
	// missing permissions).
	Code int `json:"code"`
	// Message is the human-readable error description from the
	// server.
	Message string `json:"message"`
	// StatusCode is the HTTP status code of the response.
	StatusCode int `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("platform: %d (%d): %s", e.Code, e.StatusCode, e.Message)
}

// Platform error codes used by the agent.
const (
	ErrCodeUnknownChannel     = 10003
	ErrCodeUnknownUser        = 10013
	ErrCodeUnknownBan         = 10026
	ErrCodeMissingAccess      = 50001
	ErrCodeMissingPermissions = 50013
)

// IsAPIError checks whether err is an *APIError with the given code.
func IsAPIError(err error, code int) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == code
	}
	return false
}

// IsForbidden reports whether err is the platform refusing an
// operation for lack of permission. Compensating actions suppress
// these: a guard that cannot ban the actor must not crash the event
// path.
func IsForbidden(err error) bool {
	return IsAPIError(err, ErrCodeMissingPermissions) || IsAPIError(err, ErrCodeMissingAccess)
}

// IsNotFound reports whether err is the platform saying the target no
// longer exists (channel already deleted, ban already lifted, user
// gone).
func IsNotFound(err error) bool {
	return IsAPIError(err, ErrCodeUnknownChannel) ||
		IsAPIError(err, ErrCodeUnknownUser) ||
		IsAPIError(err, ErrCodeUnknownBan)
}
