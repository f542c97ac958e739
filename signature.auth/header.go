// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strconv"
	"strings"
	"text/scanner"
	"time"
)

// Challenge is the scheme name, for use in "WWW-Authenticate".
const Challenge = "Signature"

// AuthorizationHeader represents a HTTP header which is used in
// authentication scheme "Signature".
type AuthorizationHeader struct {
	KeyID         string
	Algorithm     string // only hmac-sha256 is currently recognized
	HeadersToSign []string
	Extensions    []string // not used here
	Signature     []byte
}

// Parse translates a string representation to this struct.
// Fields not present in 'str' keep their values.
//
// Use this to deserialize the result of http.Header.Get(…).
func (a *AuthorizationHeader) Parse(str string) AuthError {
	var s scanner.Scanner
	s.Init(strings.NewReader(str))

	if s.Scan() != scanner.Ident || s.TokenText() != Challenge {
		return errAuthorizationNotSupported
	}

	for {
		key, value, err := nextPair(&s)
		if err != nil {
			return err
		}
		if err := a.set(key, value); err != nil {
			return err
		}

		switch s.Scan() {
		case scanner.EOF:
			return nil
		case ',':
		default:
			return errUnexpectedToken.with(s.Pos().String())
		}
	}
}

// nextPair reads one  key="value"  from 's', with the key in lowercase.
func nextPair(s *scanner.Scanner) (string, string, AuthError) {
	if s.Scan() != scanner.Ident {
		return "", "", errUnexpectedToken.with(s.Pos().String())
	}
	key := strings.ToLower(s.TokenText())

	if tok := s.Scan(); tok != '=' && tok != ':' {
		return "", "", errUnexpectedToken.with(s.Pos().String())
	}

	if s.Scan() != scanner.String {
		return "", "", errUnexpectedToken.with(s.Pos().String())
	}
	value, err := strconv.Unquote(s.TokenText())
	if err != nil {
		return "", "", errUnexpectedValue.with(s.Pos().String())
	}
	return key, value, nil
}

func (a *AuthorizationHeader) set(key, value string) AuthError {
	switch key {
	case "keyid":
		a.KeyID = value
	case "algorithm":
		a.Algorithm = value
	case "extensions":
		if value != "" {
			a.Extensions = strings.Fields(value)
		}
	case "headers":
		if value != "" {
			a.HeadersToSign = strings.Fields(value)
		}
	case "signature":
		sig, err := base64.StdEncoding.DecodeString(value)
		if err != nil {
			return badRequestError(err.Error())
		}
		a.Signature = sig
	}
	return nil
}

// CheckFormal returns nil if all listed headers are present
// and the time they carry (if any) is within 'tolerance' of 'received'.
func (a *AuthorizationHeader) CheckFormal(headers http.Header, received time.Time, tolerance time.Duration) AuthError {
	for _, k := range a.HeadersToSign {
		v := headers.Get(k)
		if v == "" {
			return errHeaderIsMissing.with(k)
		}

		var then time.Time
		switch k {
		case "timestamp":
			secs, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return badRequestError(err.Error())
			}
			then = time.Unix(secs, 0)
		case "date":
			t, err := http.ParseTime(v)
			if err != nil {
				return badRequestError(err.Error())
			}
			then = t
		default:
			continue
		}

		if abs64(int64(received.Sub(then))) > uint64(tolerance) {
			return errRequestTooOld
		}
	}

	return nil
}

// SatisfiedBy tests if the headers and shared secret result in the same signature as given in the header.
//
// As this is a rather costly function, call 'CheckFormal' first to avoid 'SatisfiedBy' where possible.
func (a *AuthorizationHeader) SatisfiedBy(headers http.Header, secret []byte) bool {
	mac := hmac.New(sha256.New, secret)
	for _, k := range a.HeadersToSign {
		mac.Write([]byte(headers.Get(k)))
	}
	return hmac.Equal(a.Signature, mac.Sum(nil))
}
