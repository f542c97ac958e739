// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package auth

import (
	"encoding/base64"
	"net/http"
	"strings"
	"time"
)

// HmacSecrets maps keyIDs to shared secrets.
type HmacSecrets map[string][]byte

// Insert decodes the key/value pairs
// and adds/updates them into the existing HMAC shared secret collection.
//
// The format of each pair is:
//
//	key=base64(value)
//
// For example:
//
//	hmac-key-1=yql3kIDweM8KYm+9pHzX0PKNskYAU46Jb5D6nLftTvo=
//
// The first tuple that cannot be decoded is returned as error string.
func (m HmacSecrets) Insert(tuples []string) error {
	for _, tuple := range tuples {
		k, v, found := strings.Cut(tuple, "=")
		if !found {
			return badRequestError(tuple)
		}
		binary, err := base64.StdEncoding.DecodeString(v)
		if err != nil {
			return badRequestError(tuple)
		}
		m[k] = binary
	}

	return nil
}

// Authenticate implements authorization scheme Signature:
// Knowledge of a shared secret is expressed by providing its "signature".
//
// 'received' is when the request has arrived, and 'tolerance' how far
// the time the client has signed may deviate from it.
func Authenticate(headers http.Header, secrets HmacSecrets, received time.Time, tolerance time.Duration) AuthError {
	if len(secrets) == 0 {
		return errMethodUnauthorized
	}

	a := AuthorizationHeader{
		Algorithm:     "hmac-sha256",
		HeadersToSign: []string{"timestamp", "token"},
	}
	if err := a.Parse(headers.Get("Authorization")); err != nil {
		return err
	}

	if len(a.Signature) == 0 || len(a.HeadersToSign) < 2 {
		return errAuthHeadersLacking
	}
	if a.Algorithm != "hmac-sha256" {
		return errAuthAlgorithm
	}
	if !(a.HeadersToSign[0] == "date" || a.HeadersToSign[0] == "timestamp") ||
		a.HeadersToSign[1] != "token" {
		return errAuthHeaderFieldPrefix
	}

	if err := a.CheckFormal(headers, received, tolerance); err != nil {
		return err
	}

	hmacSharedSecret, secretFound := secrets[a.KeyID]

	// do this anyway to obscure if the keyId exists
	isSatisfied := a.SatisfiedBy(headers, hmacSharedSecret)

	if !secretFound || !isSatisfied {
		return errMethodUnauthorized
	}
	return nil
}
