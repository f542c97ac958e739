// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package extract

import (
	"io"
	"mime"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	auth "blitznote.com/src/caddy.extract/signature.auth"
)

// serveExtract is the gateway to the extractor for PUT and POST, else a passthrough.
//
// PUT
// is used with
//
//	curl -T report.pdf <url>
//
// POST
// when you use
//
//	curl -F document=@report.pdf <url>
//	curl --data-binary @report.pdf <url>/report.pdf
func serveExtract(w http.ResponseWriter, r *http.Request,
	scope string, config *ScopeConfiguration,
	next func(http.ResponseWriter, *http.Request) (int, error),
) (int, error) {
	switch r.Method {
	case http.MethodPost, http.MethodPut:
	default:
		// Reads are not our responsibility.
		return next(w, r)
	}

	if aerr := authenticate(r, config); aerr != nil {
		if config.SilenceAuthErrors {
			return next(w, r)
		}
		if aerr.SuggestedResponseCode() == http.StatusUnauthorized {
			w.Header().Set("WWW-Authenticate", auth.Challenge)
		}
		return aerr.SuggestedResponseCode(), aerr
	}

	if config.MaxFilesize > 0 {
		if r.ContentLength > 0 && uint64(r.ContentLength) > config.MaxFilesize {
			return http.StatusRequestEntityTooLarge, errFileTooLarge
		}
		r.Body = http.MaxBytesReader(w, r.Body, int64(config.MaxFilesize))
	}

	document, filename, err := documentFrom(r, scope)
	if err != nil {
		return ResponseCodeFor(err), err
	}

	requestID := uuid.NewString()
	hint := config.nameHintFor(filename)
	log := config.logger().With(zap.String("request_id", requestID))

	c := config.converter()
	c.Logger = log
	f, err := c.Convert(r.Context(), document, hint)
	if err != nil {
		log.Info("extraction failed", zap.String("hint", hint), zap.Error(err))
		return ResponseCodeFor(err), err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return http.StatusInternalServerError, err
	}
	if config.KeepIn != "" {
		if err := keepCopy(f, fi.Size(), config.KeepIn, hint+"-"+requestID); err != nil {
			log.Error("cannot keep the result", zap.String("dir", config.KeepIn), zap.Error(err))
			return http.StatusInternalServerError, err
		}
	}

	contentType := config.ContentType
	if contentType == "" {
		mt, err := mimetype.DetectReader(f)
		if err != nil {
			return http.StatusInternalServerError, err
		}
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return http.StatusInternalServerError, err
		}
		contentType = mt.String()
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(fi.Size(), 10))
	w.Header().Set("X-Request-Id", requestID)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, f); err != nil {
		// Too late to tell the client.
		log.Warn("sending the result failed", zap.Error(err))
	}
	return http.StatusOK, nil
}

// documentFrom returns the uploaded document, and what the client called it.
//
// Envelopes in 'multipart/form-data' are unwrapped, and the first part that is a file is used.
func documentFrom(r *http.Request, scope string) (io.Reader, string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if r.Method != http.MethodPost || mediaType != "multipart/form-data" {
		name := strings.TrimPrefix(r.URL.Path, scope)
		return r.Body, path.Base("/" + name), nil
	}

	mr, err := r.MultipartReader()
	if err != nil {
		return nil, "", errMalformedForm
	}
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return nil, "", errNoDocument
		}
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return nil, "", errors.Wrap(err, "reading the form")
		case err != nil:
			return nil, "", badRequestError(err.Error())
		}
		if part.FileName() != "" {
			return part, part.FileName(), nil
		}
	}
}
