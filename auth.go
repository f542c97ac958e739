// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package extract

import (
	"net/http"
	"time"

	auth "blitznote.com/src/caddy.extract/signature.auth"
)

// Will be overwritten in tests.
var now = time.Now

// authenticate validates and verifies the authorization header,
// if the scope has been configured with any secrets.
func authenticate(r *http.Request, config *ScopeConfiguration) auth.AuthError {
	if len(config.IncomingHmacSecrets) == 0 {
		return nil
	}
	return auth.Authenticate(r.Header, config.IncomingHmacSecrets, now(), config.TimestampTolerance)
}
