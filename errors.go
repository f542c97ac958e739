// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package extract

import (
	"net/http"
	"strconv"

	"github.com/pkg/errors"

	"blitznote.com/src/caddy.extract/tmpfile"
)

// Errors that are returned by Converter and the handler.
const (
	ErrMissingCommand           configurationError = "the extractor 'command' is missing"
	ErrMissingOutputPlaceholder configurationError = "the extractor 'command' lacks placeholder {out}"
	ErrToolTimeout              timeoutError       = "the extractor did not finish in time"

	errNoDocument    badRequestError      = "no document found in request"
	errFileTooLarge  tooLargeError        = "the document exceeds the maximum filesize"
	errMalformedForm unsupportedTypeError = "malformed content"
)

// configurationError is a mistake by the operator.
type configurationError string

func (e configurationError) Error() string { return string(e) }

// SuggestedResponseCode hints at a HTTP status code.
func (e configurationError) SuggestedResponseCode() int { return http.StatusInternalServerError }

type timeoutError string

func (e timeoutError) Error() string { return string(e) }

// SuggestedResponseCode hints at a HTTP status code.
func (e timeoutError) SuggestedResponseCode() int { return http.StatusGatewayTimeout }

type badRequestError string

func (e badRequestError) Error() string { return string(e) }

// SuggestedResponseCode hints at a HTTP status code.
func (e badRequestError) SuggestedResponseCode() int { return http.StatusBadRequest }

type tooLargeError string

func (e tooLargeError) Error() string { return string(e) }

// SuggestedResponseCode hints at a HTTP status code.
func (e tooLargeError) SuggestedResponseCode() int { return http.StatusRequestEntityTooLarge }

type unsupportedTypeError string

func (e unsupportedTypeError) Error() string { return string(e) }

// SuggestedResponseCode hints at a HTTP status code.
func (e unsupportedTypeError) SuggestedResponseCode() int { return http.StatusUnsupportedMediaType }

// ToolError is returned if the extractor exits with a code other than 0.
//
// Most extractors do so when they cannot make sense of the document,
// hence the blame is put on the client.
type ToolError struct {
	Command  string
	ExitCode int
	Stderr   string // trimmed
}

func (e *ToolError) Error() string {
	s := e.Command + " exited with code " + strconv.Itoa(e.ExitCode)
	if e.Stderr != "" {
		s += ": " + e.Stderr
	}
	return s
}

// SuggestedResponseCode hints at a HTTP status code.
func (e *ToolError) SuggestedResponseCode() int { return http.StatusUnprocessableEntity }

// ResponseCodeFor translates any error returned from this package
// into a HTTP status code.
func ResponseCodeFor(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var hinted interface{ SuggestedResponseCode() int }
	if errors.As(err, &hinted) {
		return hinted.SuggestedResponseCode()
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}

	switch {
	case errors.Is(err, tmpfile.ErrInvalidName):
		return http.StatusBadRequest
	case errors.Is(err, tmpfile.ErrResourceExhausted):
		return http.StatusInsufficientStorage
	}
	return http.StatusInternalServerError
}
