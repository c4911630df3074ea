package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path/filepath"

	"glimpse/internal/server/naming"
	"glimpse/internal/server/storage"
)

// Sentinel errors for the service layer.
var (
	ErrNotFound = errors.New("file not found")
	ErrStorage  = errors.New("storage failure")
)

// UploadResult is returned after a successful upload.
type UploadResult struct {
	URL  string `json:"url"`
	Name string `json:"-"`
	Size int64  `json:"-"`
}

// StoredFile describes a file resolved for retrieval.
type StoredFile struct {
	Content     io.ReadCloser
	Size        int64
	ContentType string
}

// UploadService contains the business logic for storing and serving uploads.
type UploadService struct {
	store        storage.Store
	returnDomain string
}

// NewUploadService creates a new upload service.
func NewUploadService(store storage.Store, returnDomain string) *UploadService {
	return &UploadService{
		store:        store,
		returnDomain: returnDomain,
	}
}

// ProcessUpload derives the storage name for an incoming file, persists the
// bytes, and returns the public retrieval URL.
//
// The storage name is a pure function of the base filename, so uploading two
// files that share a base name overwrites the earlier one. Writes to the
// same name are not serialized; the last write to complete wins.
func (s *UploadService) ProcessUpload(ctx context.Context, filename string, data io.Reader) (*UploadResult, error) {
	base, ext := naming.Split(filename)
	// Sanitizing here keeps the URL segment and the on-disk key identical.
	name := storage.SanitizeName(naming.Derive(base) + ext)

	size, err := s.store.Save(name, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	url := fmt.Sprintf("https://%s/i/%s", s.returnDomain, name)

	slog.Info("upload processed",
		"name", name,
		"size", size,
		"url", url,
	)

	return &UploadResult{
		URL:  url,
		Name: name,
		Size: size,
	}, nil
}

// Fetch resolves a stored file by its exact storage name.
func (s *UploadService) Fetch(ctx context.Context, name string) (*StoredFile, error) {
	content, size, err := s.store.Open(name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, storage.SanitizeName(name))
		}
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &StoredFile{
		Content:     content,
		Size:        size,
		ContentType: contentType,
	}, nil
}
