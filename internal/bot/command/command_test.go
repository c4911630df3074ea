package command

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"glimpse/internal/bot/index"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGateway records upload calls and serves a canned response.
type fakeGateway struct {
	calls int
	url   string
	err   error
}

func (f *fakeGateway) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	f.calls++
	return f.url, f.err
}

// failingRepo simulates an index whose writes fail.
type failingRepo struct{}

func (failingRepo) Append(ctx context.Context, ownerID, url string) error {
	return errors.New("disk full")
}
func (failingRepo) ListByOwner(ctx context.Context, ownerID string) ([]string, error) {
	return nil, errors.New("disk full")
}
func (failingRepo) Close() error { return nil }

func setupIndex(t *testing.T) index.Repository {
	t.Helper()
	repo, err := index.NewSQLiteRepository(context.Background(), filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func staticAttachment(filename, content string) Attachment {
	return Attachment{
		Filename: filename,
		Read:     func() ([]byte, error) { return []byte(content), nil },
	}
}

func TestValidateType(t *testing.T) {
	valid := []string{"cat.png", "cat.jpg", "cat.jpeg", "cat.gif", "cat.webp", "CAT.PNG", "photo.JPeG"}
	for _, name := range valid {
		assert.NoError(t, ValidateType(name), name)
	}

	invalid := []string{"doc.pdf", "movie.mp4", "cat.png.exe", "noext", "", "png"}
	for _, name := range invalid {
		assert.ErrorIs(t, ValidateType(name), ErrUnsupportedType, name)
	}
}

func TestUploadImage(t *testing.T) {
	ctx := context.Background()

	t.Run("rejected extension makes no network call", func(t *testing.T) {
		gw := &fakeGateway{}
		cmds := New(gw, setupIndex(t))

		_, err := cmds.UploadImage(ctx, "user-1", staticAttachment("virus.exe", "x"))
		assert.ErrorIs(t, err, ErrUnsupportedType)
		assert.Zero(t, gw.calls, "gateway must not be called for a rejected extension")
	})

	t.Run("success records URL before returning", func(t *testing.T) {
		repo := setupIndex(t)
		gw := &fakeGateway{url: "https://files.example/i/abc.png"}
		cmds := New(gw, repo)

		out, err := cmds.UploadImage(ctx, "user-1", staticAttachment("cat.png", "pixels"))
		require.NoError(t, err)
		assert.Equal(t, "https://files.example/i/abc.png", out.URL)

		urls, err := repo.ListByOwner(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, []string{"https://files.example/i/abc.png"}, urls)
	})

	t.Run("gateway failure maps to ErrUpstream", func(t *testing.T) {
		repo := setupIndex(t)
		gw := &fakeGateway{err: errors.New("gateway returned 500")}
		cmds := New(gw, repo)

		_, err := cmds.UploadImage(ctx, "user-1", staticAttachment("cat.png", "pixels"))
		assert.ErrorIs(t, err, ErrUpstream)

		// Nothing recorded on failure.
		urls, err := repo.ListByOwner(ctx, "user-1")
		require.NoError(t, err)
		assert.Empty(t, urls)
	})

	t.Run("index failure maps to ErrIndex", func(t *testing.T) {
		gw := &fakeGateway{url: "https://files.example/i/abc.png"}
		cmds := New(gw, failingRepo{})

		_, err := cmds.UploadImage(ctx, "user-1", staticAttachment("cat.png", "pixels"))
		assert.ErrorIs(t, err, ErrIndex)
	})

	t.Run("attachment read failure", func(t *testing.T) {
		gw := &fakeGateway{url: "https://files.example/i/abc.png"}
		cmds := New(gw, setupIndex(t))

		att := Attachment{
			Filename: "cat.png",
			Read:     func() ([]byte, error) { return nil, errors.New("connection reset") },
		}
		_, err := cmds.UploadImage(ctx, "user-1", att)
		require.Error(t, err)
		assert.Zero(t, gw.calls)
	})
}

func TestOpenGallery(t *testing.T) {
	ctx := context.Background()

	t.Run("empty index yields ErrNoImages", func(t *testing.T) {
		cmds := New(&fakeGateway{}, setupIndex(t))

		_, err := cmds.OpenGallery(ctx, "user-1")
		assert.ErrorIs(t, err, ErrNoImages)
	})

	t.Run("session snapshots recorded URLs in order", func(t *testing.T) {
		repo := setupIndex(t)
		require.NoError(t, repo.Append(ctx, "user-1", "https://files.example/i/a.png"))
		require.NoError(t, repo.Append(ctx, "user-1", "https://files.example/i/b.png"))

		cmds := New(&fakeGateway{}, repo)
		sess, err := cmds.OpenGallery(ctx, "user-1")
		require.NoError(t, err)

		assert.Equal(t, 2, sess.Len())
		assert.Equal(t, "https://files.example/i/a.png", sess.Current())

		// Later uploads do not extend an open session.
		require.NoError(t, repo.Append(ctx, "user-1", "https://files.example/i/c.png"))
		assert.Equal(t, 2, sess.Len())
	})
}
