package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slowBackend struct {
	delay time.Duration
}

func (b *slowBackend) Put(ctx context.Context, objectPath string, r io.Reader) error {
	select {
	case <-time.After(b.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// slowReader trickles out one byte per read with a delay, simulating a
// stalled client connection.
type slowReader struct {
	data  []byte
	delay time.Duration
	pos   int
}

func (r *slowReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	time.Sleep(r.delay)
	p[0] = r.data[r.pos]
	r.pos++
	return 1, nil
}

func newTestUploader(t *testing.T) (*Uploader, string) {
	t.Helper()
	dir := t.TempDir()
	u := NewUploader(NewFSBackend(dir), "http://localhost:8080/uploads", 1024, time.Second)
	return u, dir
}

func TestUploader_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("StoresImage", func(t *testing.T) {
		u, dir := newTestUploader(t)

		content := "fake png bytes"
		res, err := u.Upload(ctx, "covers", "My Cover.png", "image/png", int64(len(content)), strings.NewReader(content))
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(res.URL, "http://localhost:8080/uploads/covers/"))
		assert.True(t, strings.HasSuffix(res.Filename, "-My_Cover.png"))

		stored, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(res.Path)))
		require.NoError(t, err)
		assert.Equal(t, content, string(stored))
	})

	t.Run("RejectsNonImage", func(t *testing.T) {
		u, _ := newTestUploader(t)

		_, err := u.Upload(ctx, "covers", "notes.txt", "text/plain", 10, strings.NewReader("plain text"))
		assert.ErrorIs(t, err, ErrNotImage)
	})

	t.Run("RejectsOversizedFile", func(t *testing.T) {
		u, _ := newTestUploader(t)

		_, err := u.Upload(ctx, "covers", "huge.png", "image/png", 2048, strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrTooLarge)
	})

	t.Run("TimesOutOnSlowBackend", func(t *testing.T) {
		u := NewUploader(&slowBackend{delay: time.Second}, "http://localhost", 1024, 20*time.Millisecond)

		_, err := u.Upload(ctx, "covers", "slow.png", "image/png", 10, strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrUploadTimeout)
	})

	t.Run("NoFileLeftAfterTimeout", func(t *testing.T) {
		dir := t.TempDir()
		u := NewUploader(NewFSBackend(dir), "http://localhost", 1024, 30*time.Millisecond)

		r := &slowReader{data: []byte("slowdata"), delay: 20 * time.Millisecond}
		_, err := u.Upload(ctx, "covers", "slow.png", "image/png", int64(len(r.data)), r)
		require.ErrorIs(t, err, ErrUploadTimeout)

		// give the cancelled background write time to clean up
		time.Sleep(300 * time.Millisecond)
		entries, err := os.ReadDir(filepath.Join(dir, "covers"))
		if err == nil {
			assert.Empty(t, entries, "timed-out upload must not persist a file")
		}
	})

	t.Run("UniqueNamesForSameFilename", func(t *testing.T) {
		u, _ := newTestUploader(t)

		a, err := u.Upload(ctx, "covers", "same.png", "image/png", 1, strings.NewReader("a"))
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
		b, err := u.Upload(ctx, "covers", "same.png", "image/png", 1, strings.NewReader("b"))
		require.NoError(t, err)

		assert.NotEqual(t, a.Filename, b.Filename)
	})
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "cover.png", sanitizeFilename("cover.png"))
	assert.Equal(t, "my_cover.png", sanitizeFilename("my cover.png"))
	assert.Equal(t, "cover.png", sanitizeFilename("../../etc/cover.png"))
	assert.Equal(t, "cover.png", sanitizeFilename("..\\windows\\cover.png"))
	assert.Equal(t, "covr.png", sanitizeFilename("cov#€r.png"))
	assert.Equal(t, "file", sanitizeFilename("###"))
}
