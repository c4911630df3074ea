package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"glimpse/internal/server/config"
	"glimpse/internal/server/naming"
	"glimpse/internal/server/service"
	"glimpse/internal/server/storage"

	"github.com/labstack/echo/v4"
)

func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()

	cfg := &config.Config{
		Port:           "5000",
		APIKey:         "K",
		ReturnDomain:   "files.example",
		StoragePath:    t.TempDir(),
		MaxFileSize:    32 * 1024 * 1024,
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
	}

	store := storage.NewFileSystemStore(cfg.StoragePath)
	if err := store.EnsureDir(); err != nil {
		t.Fatalf("failed to init storage: %v", err)
	}

	svc := service.NewUploadService(store, cfg.ReturnDomain)
	handler := NewHandler(svc, cfg.MaxFileSize)

	limiter := NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	t.Cleanup(limiter.Stop)

	return SetupRouter(handler, cfg, limiter)
}

// uploadRequest builds a multipart POST /upload request. An empty filename
// produces a "file" part without file content, matching a browser submitting
// an empty file input.
func uploadRequest(t *testing.T, apiKey, filename, content string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	if filename != "" {
		fw, err := w.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatalf("failed to write form file: %v", err)
		}
	} else {
		if err := w.WriteField("file", ""); err != nil {
			t.Fatalf("failed to write form field: %v", err)
		}
	}

	if err := w.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	if apiKey != "" {
		req.Header.Set("x-api-key", apiKey)
	}
	return req
}

func decodeError(t *testing.T, body io.Reader) string {
	t.Helper()
	var resp map[string]string
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp["error"]
}

func TestHandleUpload_Auth(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		e := newTestRouter(t)
		rec := httptest.NewRecorder()

		e.ServeHTTP(rec, uploadRequest(t, "", "cat.png", "data"))

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
		if msg := decodeError(t, rec.Body); msg != "Unauthorized" {
			t.Errorf("expected Unauthorized, got %q", msg)
		}
	})

	t.Run("wrong key always rejected regardless of body", func(t *testing.T) {
		e := newTestRouter(t)

		for _, filename := range []string{"cat.png", ""} {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, uploadRequest(t, "wrong", filename, "data"))

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("filename %q: expected 401, got %d", filename, rec.Code)
			}
		}
	})
}

func TestHandleUpload_Validation(t *testing.T) {
	t.Run("no file part", func(t *testing.T) {
		e := newTestRouter(t)

		var body bytes.Buffer
		w := multipart.NewWriter(&body)
		w.WriteField("something_else", "x")
		w.Close()

		req := httptest.NewRequest(http.MethodPost, "/upload", &body)
		req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
		req.Header.Set("x-api-key", "K")

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		if msg := decodeError(t, rec.Body); msg != "no file part" {
			t.Errorf("expected 'no file part', got %q", msg)
		}
	})

	t.Run("no selected file", func(t *testing.T) {
		e := newTestRouter(t)
		rec := httptest.NewRecorder()

		e.ServeHTTP(rec, uploadRequest(t, "K", "", ""))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		if msg := decodeError(t, rec.Body); msg != "no selected file" {
			t.Errorf("expected 'no selected file', got %q", msg)
		}
	})
}

func TestUploadRoundTrip(t *testing.T) {
	e := newTestRouter(t)

	original := "\x89PNG\r\n\x1a\npixels"

	// Upload
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, uploadRequest(t, "K", "logo.png", original))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	wantURL := "https://files.example/i/" + naming.Derive("logo") + ".png"
	if resp.URL != wantURL {
		t.Errorf("expected URL %q, got %q", wantURL, resp.URL)
	}

	// Retrieve by the path embedded in the returned URL
	path := strings.TrimPrefix(resp.URL, "https://files.example")
	getRec := httptest.NewRecorder()
	e.ServeHTTP(getRec, httptest.NewRequest(http.MethodGet, path, nil))

	if getRec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", getRec.Code)
	}
	if got := getRec.Body.String(); got != original {
		t.Error("retrieved bytes differ from uploaded bytes")
	}
	if ct := getRec.Header().Get(echo.HeaderContentType); ct != "image/png" {
		t.Errorf("expected image/png, got %q", ct)
	}
}

func TestHandleServeFile_NotFound(t *testing.T) {
	e := newTestRouter(t)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/i/unknown.png", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if msg := decodeError(t, rec.Body); msg == "" {
		t.Error("expected an error detail in the 404 body")
	}
}

func TestHandleHealth(t *testing.T) {
	e := newTestRouter(t)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}
