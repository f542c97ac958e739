// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package auth

import (
	"net/http"
)

// AuthError adds a behavioural hint to an Error.
type AuthError interface {
	error

	// SuggestedResponseCode gives a HTTP status code.
	SuggestedResponseCode() int
}

// Errors of the Authorization: Signature scheme, by what the client should do next.
const (
	// Fix the request.
	errUnexpectedToken    badRequestError = "unexpected token at position: "
	errUnexpectedValue    badRequestError = "unexpected value (not in quotes?) at position: "
	errHeaderIsMissing    badRequestError = "header is missing: "
	errAuthHeadersLacking badRequestError = "not all expected headers had been set correctly"

	// Try again, differently.
	errAuthorizationNotSupported unauthorizedError = "authorization challenge not supported"
	errAuthAlgorithm             unauthorizedError = "unsupported 'algorithm'"
	errAuthHeaderFieldPrefix     unauthorizedError = "mismatch in prefix of 'headers'"

	// Give up.
	errRequestTooOld      forbiddenError = "the request's time is outside tolerance"
	errMethodUnauthorized forbiddenError = "method not authorized"
)

// badRequestError means the header or its companions are malformed.
// Messages ending in ": " expect a detail; see 'with'.
type badRequestError string

func (e badRequestError) Error() string { return string(e) }

// SuggestedResponseCode implements the AuthError interface.
func (e badRequestError) SuggestedResponseCode() int { return http.StatusBadRequest }

func (e badRequestError) with(detail string) badRequestError { return e + badRequestError(detail) }

// unauthorizedError asks the client to use a different scheme or parameters.
type unauthorizedError string

func (e unauthorizedError) Error() string { return string(e) }

// SuggestedResponseCode implements the AuthError interface.
func (e unauthorizedError) SuggestedResponseCode() int { return http.StatusUnauthorized }

// forbiddenError covers well-formed requests with wrong or stale credentials.
type forbiddenError string

func (e forbiddenError) Error() string { return string(e) }

// SuggestedResponseCode implements the AuthError interface.
func (e forbiddenError) SuggestedResponseCode() int { return http.StatusForbidden }
