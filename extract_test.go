// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package extract

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

// teapotHandler stands in for the next handler in the chain.
func teapotHandler(w http.ResponseWriter, r *http.Request) (int, error) {
	w.WriteHeader(http.StatusTeapot)
	return http.StatusTeapot, nil
}

// serve mimics what Handler.ServeHTTP does, regardless of the build tag.
func serve(scope string, config *ScopeConfiguration, req *http.Request) *http.Response {
	w := httptest.NewRecorder()
	code, err := serveExtract(w, req, scope, config, teapotHandler)
	if code >= 400 && code != http.StatusTeapot {
		http.Error(w, err.Error(), code)
	}
	return w.Result()
}

func upperCaser() *ScopeConfiguration {
	return NewDefaultConfiguration("sh", "-c", "tr a-z A-Z < {in} > {out}")
}

func multipartBody(t *testing.T, field, filename, contents string) (*bytes.Buffer, string) {
	t.Helper()
	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)
	if err := mw.WriteField("comment", "ignored"); err != nil {
		t.Fatal(err)
	}
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatal(err)
	}
	io.WriteString(part, contents)
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return body, mw.FormDataContentType()
}

func TestExtraction(t *testing.T) {
	Convey("Extraction", t, func() {
		cfg := upperCaser()

		Convey("works with PUT", func() {
			req := httptest.NewRequest(http.MethodPut, "/convert/report.txt", strings.NewReader("hello"))
			resp := serve("/convert", cfg, req)
			body, _ := io.ReadAll(resp.Body)

			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(string(body), ShouldEqual, "HELLO")
			So(resp.Header.Get("Content-Length"), ShouldEqual, "5")
			So(resp.Header.Get("Content-Type"), ShouldStartWith, "text/plain")
			So(resp.Header.Get("X-Request-Id"), ShouldHaveLength, 36)
		})

		Convey("works with POST and a raw body", func() {
			req := httptest.NewRequest(http.MethodPost, "/convert/report.txt", strings.NewReader("raw"))
			resp := serve("/convert", cfg, req)
			body, _ := io.ReadAll(resp.Body)

			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(string(body), ShouldEqual, "RAW")
		})

		Convey("unwraps multipart/form-data", func() {
			body, contentType := multipartBody(t, "document", "report.pdf", "enveloped")
			req := httptest.NewRequest(http.MethodPost, "/convert", body)
			req.Header.Set("Content-Type", contentType)
			resp := serve("/convert", cfg, req)
			got, _ := io.ReadAll(resp.Body)

			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(string(got), ShouldEqual, "ENVELOPED")
		})

		Convey("rejects forms without any file", func() {
			body := new(bytes.Buffer)
			mw := multipart.NewWriter(body)
			mw.WriteField("comment", "no file here")
			mw.Close()
			req := httptest.NewRequest(http.MethodPost, "/convert", body)
			req.Header.Set("Content-Type", mw.FormDataContentType())
			resp := serve("/convert", cfg, req)

			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("uses the configured Content-Type", func() {
			cfg.ContentType = "text/csv"
			req := httptest.NewRequest(http.MethodPut, "/convert/a.pdf", strings.NewReader("a,b"))
			resp := serve("/convert", cfg, req)

			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(resp.Header.Get("Content-Type"), ShouldEqual, "text/csv")
		})

		Convey("passes other methods to the next handler", func() {
			req := httptest.NewRequest(http.MethodGet, "/convert/a.pdf", nil)
			resp := serve("/convert", cfg, req)

			So(resp.StatusCode, ShouldEqual, http.StatusTeapot)
		})

		Convey("refuses documents larger than allowed", func() {
			cfg.MaxFilesize = 4

			req := httptest.NewRequest(http.MethodPut, "/convert/a.txt", strings.NewReader("too large"))
			resp := serve("/convert", cfg, req)
			So(resp.StatusCode, ShouldEqual, http.StatusRequestEntityTooLarge)

			Convey("even if the client does not announce its size", func() {
				req := httptest.NewRequest(http.MethodPut, "/convert/a.txt", strings.NewReader("too large"))
				req.ContentLength = -1
				resp := serve("/convert", cfg, req)
				So(resp.StatusCode, ShouldEqual, http.StatusRequestEntityTooLarge)
			})

			Convey("even if the extractor reads stdin", func() {
				cfg.Command = []string{"sh", "-c", "cat > {out}"}
				req := httptest.NewRequest(http.MethodPut, "/convert/a.txt", strings.NewReader("too large"))
				req.ContentLength = -1
				resp := serve("/convert", cfg, req)
				So(resp.StatusCode, ShouldEqual, http.StatusRequestEntityTooLarge)
			})

			Convey("even if the document is enveloped in a form", func() {
				body, contentType := multipartBody(t, "document", "a.txt", "too large")
				req := httptest.NewRequest(http.MethodPost, "/convert", body)
				req.Header.Set("Content-Type", contentType)
				req.ContentLength = -1
				resp := serve("/convert", cfg, req)
				So(resp.StatusCode, ShouldEqual, http.StatusRequestEntityTooLarge)
			})
		})

		Convey("reports failures of the extractor", func() {
			cfg.Command = []string{"sh", "-c", "exit 1", "{in}", "{out}"}
			req := httptest.NewRequest(http.MethodPut, "/convert/a.txt", strings.NewReader("x"))
			resp := serve("/convert", cfg, req)

			So(resp.StatusCode, ShouldEqual, http.StatusUnprocessableEntity)
		})

		Convey("keeps a copy of every result", func() {
			dir := t.TempDir()
			cfg.KeepIn = dir
			req := httptest.NewRequest(http.MethodPut, "/convert/report.txt", strings.NewReader("kept"))
			resp := serve("/convert", cfg, req)
			body, _ := io.ReadAll(resp.Body)

			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(string(body), ShouldEqual, "KEPT")

			name := "report-" + resp.Header.Get("X-Request-Id")
			kept, err := os.ReadFile(filepath.Join(dir, name))
			So(err, ShouldBeNil)
			So(string(kept), ShouldEqual, "KEPT")

			entries, _ := os.ReadDir(dir)
			So(entries, ShouldHaveLength, 1)
		})
	})
}

func TestDocumentFrom(t *testing.T) {
	Convey("The document's name", t, func() {
		Convey("is derived from the path below the scope", func() {
			req := httptest.NewRequest(http.MethodPut, "/convert/dir/report.pdf", strings.NewReader(""))
			_, name, err := documentFrom(req, "/convert")
			So(err, ShouldBeNil)
			So(name, ShouldEqual, "report.pdf")
		})

		Convey("is empty-ish if there is no path below the scope", func() {
			req := httptest.NewRequest(http.MethodPut, "/convert", strings.NewReader(""))
			_, name, err := documentFrom(req, "/convert")
			So(err, ShouldBeNil)
			So(NameHint(name, nil, nil), ShouldEqual, "")
		})

		Convey("is taken from the form", func() {
			body, contentType := multipartBody(t, "f", "Übersicht.pdf", "")
			req := httptest.NewRequest(http.MethodPost, "/convert", body)
			req.Header.Set("Content-Type", contentType)
			_, name, err := documentFrom(req, "/convert")
			So(err, ShouldBeNil)
			So(name, ShouldEqual, "Übersicht.pdf")
		})
	})
}
