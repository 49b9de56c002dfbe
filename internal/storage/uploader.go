package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

var (
	ErrNotImage      = errors.New("file must be an image")
	ErrTooLarge      = errors.New("file exceeds the maximum allowed size")
	ErrUploadTimeout = errors.New("upload timed out")
)

// UploadResult describes a stored object.
type UploadResult struct {
	URL      string `json:"url"`
	Path     string `json:"path"`
	Filename string `json:"filename"`
}

// Backend writes object bytes to their destination path.
type Backend interface {
	Put(ctx context.Context, objectPath string, r io.Reader) error
}

// FSBackend stores objects under a local root directory.
type FSBackend struct {
	root string
}

func NewFSBackend(root string) *FSBackend {
	return &FSBackend{root: root}
}

func (b *FSBackend) Put(ctx context.Context, objectPath string, r io.Reader) error {
	full := filepath.Join(b.root, filepath.FromSlash(objectPath))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, &ctxReader{ctx: ctx, r: r}); err != nil {
		os.Remove(full)
		return fmt.Errorf("write file: %w", err)
	}
	// A cancelled write must not leave a partial object behind, even when
	// the copy raced the cancellation to completion.
	if err := ctx.Err(); err != nil {
		os.Remove(full)
		return err
	}
	return nil
}

// ctxReader aborts an in-flight copy once its context is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *ctxReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}

// Uploader validates and stores image uploads.
type Uploader struct {
	backend Backend
	baseURL string
	maxSize int64
	timeout time.Duration
}

func NewUploader(backend Backend, baseURL string, maxSize int64, timeout time.Duration) *Uploader {
	return &Uploader{
		backend: backend,
		baseURL: strings.TrimRight(baseURL, "/"),
		maxSize: maxSize,
		timeout: timeout,
	}
}

// Upload validates the file, generates a collision-resistant name and writes
// it through the backend. A write that does not finish within the configured
// window is cancelled and rejected with ErrUploadTimeout; nothing is left on
// the backend.
func (u *Uploader) Upload(ctx context.Context, prefix, filename, contentType string, size int64, r io.Reader) (*UploadResult, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrNotImage
	}
	if size > u.maxSize {
		return nil, ErrTooLarge
	}

	name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), sanitizeFilename(filename))
	objectPath := path.Join(prefix, name)

	// The write shares this context, so expiry both rejects the upload and
	// cancels the in-flight backend write.
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- u.backend.Put(ctx, objectPath, r)
	}()

	select {
	case err := <-done:
		if err != nil {
			return nil, err
		}
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrUploadTimeout
		}
		return nil, ctx.Err()
	}

	return &UploadResult{
		URL:      u.baseURL + "/" + objectPath,
		Path:     objectPath,
		Filename: name,
	}, nil
}

// sanitizeFilename strips directory components and characters that do not
// belong in an object name.
func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, " ", "_")
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}
