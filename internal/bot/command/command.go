// Package command holds the bot's command logic as plain synchronous
// functions with explicit inputs and results. The chat-platform adapter
// stays a thin dispatch layer over this package.
package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"glimpse/internal/bot/gallery"
	"glimpse/internal/bot/index"
)

// Sentinel errors the adapter maps to user-facing messages. Underlying
// detail is wrapped for the logs and never shown to the user.
var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrUpstream        = errors.New("upload failed")
	ErrIndex           = errors.New("failed to record upload")
	ErrNoImages        = errors.New("no images uploaded")
)

// allowedExtensions is the image allow-list, checked case-insensitively
// before any network call.
var allowedExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp"}

// Attachment is the platform-independent view of an attached file:
// its filename and a way to read its bytes.
type Attachment struct {
	Filename string
	Read     func() ([]byte, error)
}

// Gateway uploads file bytes and returns a public URL.
type Gateway interface {
	Upload(ctx context.Context, filename string, data []byte) (string, error)
}

// UploadOutcome is the result of a successful upload command.
type UploadOutcome struct {
	URL string
}

// Commands implements the bot's commands against the gateway and the
// ownership index.
type Commands struct {
	gateway Gateway
	repo    index.Repository
}

func New(gateway Gateway, repo index.Repository) *Commands {
	return &Commands{gateway: gateway, repo: repo}
}

// ValidateType rejects filenames whose extension is not on the image
// allow-list. The adapter calls this before acknowledging the interaction,
// so rejected uploads never reach the network.
func ValidateType(filename string) error {
	lower := strings.ToLower(filename)
	for _, ext := range allowedExtensions {
		if strings.HasSuffix(lower, ext) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedType, filename)
}

// UploadImage validates the attachment, forwards it to the gateway, and
// records the returned URL against the uploader. The record is written
// before success is reported, so a URL the user sees is always listed in
// their gallery; the reverse window (stored file, failed record) is
// accepted and surfaced as ErrIndex.
func (c *Commands) UploadImage(ctx context.Context, ownerID string, att Attachment) (*UploadOutcome, error) {
	if err := ValidateType(att.Filename); err != nil {
		return nil, err
	}

	data, err := att.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read attachment: %w", err)
	}

	url, err := c.gateway.Upload(ctx, att.Filename, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if err := c.repo.Append(ctx, ownerID, url); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndex, err)
	}

	slog.Info("image uploaded", "owner", ownerID, "url", url)
	return &UploadOutcome{URL: url}, nil
}

// OpenGallery snapshots the owner's recorded URLs into a new gallery
// session. ErrNoImages when the owner has uploaded nothing.
func (c *Commands) OpenGallery(ctx context.Context, ownerID string) (*gallery.Session, error) {
	urls, err := c.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load gallery: %w", err)
	}
	if len(urls) == 0 {
		return nil, ErrNoImages
	}
	return gallery.NewSession(urls)
}
