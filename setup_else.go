// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !caddyserver1.0

package extract

import (
	"net/http"
)

// NewHandler creates a new instance of the extraction handler,
// meant to be used in Go's own http server.
//
// Rejects configurations that would make every extraction fail.
// With config.Confine set, what the extractor needs is kept visible.
// Call Lockdown once all handlers have been created to hide everything else.
//
// 'next' is optional.
// 'scope' is the prefix of the URL.Path, which is stripped to get the document's name.
func NewHandler(scope string, config *ScopeConfiguration, next http.Handler) (*Handler, error) {
	if err := config.converter().Validate(); err != nil {
		return nil, err
	}
	if config.Confine {
		if err := confine(config); err != nil {
			return nil, err
		}
	}

	h := Handler{
		Next:   next,
		Config: config,
		Scope:  scope,
	}
	if next == nil {
		h.Next = http.NotFoundHandler()
	}

	return &h, nil
}

// Handler implements http.Handler.
type Handler struct {
	Next   http.Handler
	Config *ScopeConfiguration
	Scope  string
}

// ServeHTTP handles any uploads, else defers the request to the next handler.
func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var callNext bool

	httpCode, err := serveExtract(w, r,
		h.Scope, h.Config,
		func(w http.ResponseWriter, r *http.Request) (int, error) {
			callNext = true
			return 0, nil
		},
	)

	if callNext {
		h.Next.ServeHTTP(w, r)
		return
	}
	if httpCode >= 400 {
		http.Error(w, err.Error(), httpCode)
	}
}
