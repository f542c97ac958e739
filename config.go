// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package extract

import (
	"time"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	auth "blitznote.com/src/caddy.extract/signature.auth"
)

// ScopeConfiguration represents the settings of a scope (URL path prefix).
type ScopeConfiguration struct {
	// The extractor and its arguments, with placeholders {in} and {out}.
	Command []string

	// Used for the temporary files if nothing can be derived from the request.
	NameHint string

	// The extractor gets killed after this much time. 0 disables the limit.
	Timeout time.Duration

	// Set as Content-Type of any response. Detected if empty.
	ContentType string

	// Maximum size of any uploaded document, in bytes. 0 disables the limit.
	MaxFilesize uint64

	// If not empty, results are kept in this directory.
	KeepIn string

	// How big a difference between 'now' and the provided timestamp do we tolerate?
	TimestampTolerance time.Duration

	// Already decoded. Request verification is disabled if this is empty.
	IncomingHmacSecrets auth.HmacSecrets

	// A skilled attacked will monitor traffic, and timings.
	// Enabling this merely obscures the path.
	SilenceAuthErrors bool

	// Names of uploaded documents get normalized to this, then used as name hint.
	UnicodeForm *struct{ Use norm.Form }

	// Runes of names outside of these ranges are replaced by an underscore.
	RestrictNamesTo []*unicode.RangeTable

	// On OpenBSD hide everything but the paths needed for extractions.
	Confine bool

	// Falls back to zap.L() if nil.
	Logger *zap.Logger
}

// NewDefaultConfiguration creates a new default configuration.
func NewDefaultConfiguration(command ...string) *ScopeConfiguration {
	return &ScopeConfiguration{
		Command:             command,
		NameHint:            "extract",
		Timeout:             time.Minute,
		TimestampTolerance:  (1 << 2) * time.Second,
		IncomingHmacSecrets: make(auth.HmacSecrets),
	}
}

func (c *ScopeConfiguration) logger() *zap.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return zap.L()
}

func (c *ScopeConfiguration) converter() *Converter {
	return &Converter{
		Command: c.Command,
		Timeout: c.Timeout,
		Logger:  c.logger(),
	}
}

func (c *ScopeConfiguration) nameHintFor(filename string) string {
	var form *norm.Form
	if c.UnicodeForm != nil {
		form = &c.UnicodeForm.Use
	}
	if hint := NameHint(filename, c.RestrictNamesTo, form); hint != "" {
		return hint
	}
	return c.NameHint
}
