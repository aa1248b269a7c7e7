package storage

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"election-service/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// multipartFile builds a real FileHeader by parsing a multipart request.
func multipartFile(t *testing.T, name, content string) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("logo", name)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["logo"][0]
}

func TestLocalStorageUploadAndDelete(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStorage(root, "/uploads/")
	require.NoError(t, err)
	ctx := context.Background()

	url, err := s.Upload(ctx, multipartFile(t, "Logo.PNG", "png-bytes"), "parties")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/parties/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	onDisk := filepath.Join(root, strings.TrimPrefix(url, "/uploads/"))
	data, err := os.ReadFile(onDisk)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	require.NoError(t, s.Delete(ctx, url))
	_, err = os.Stat(onDisk)
	assert.True(t, os.IsNotExist(err))

	// deleting twice or an outside URL is a no-op
	assert.NoError(t, s.Delete(ctx, url))
	assert.NoError(t, s.Delete(ctx, "https://cdn.example.com/x.png"))
	assert.NoError(t, s.Delete(ctx, "/uploads/../secret"))
}

func TestLocalStorageRejectsNonImages(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)

	_, err = s.Upload(context.Background(), multipartFile(t, "run.sh", "#!/bin/sh"), "users")
	assert.ErrorIs(t, err, ErrUnsupportedFileType)
}

func TestNewSelectsDriver(t *testing.T) {
	s, err := New(context.Background(), config.StorageConfig{Driver: "local", UploadDir: t.TempDir(), PublicURL: "/uploads"})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, s)

	_, err = New(context.Background(), config.StorageConfig{Driver: "ftp"})
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

func TestS3KeyFromLocation(t *testing.T) {
	s := &S3Storage{bucket: "ballots"}

	assert.Equal(t, "parties/a.png", s.keyFromLocation("https://ballots.s3.eu-west-1.amazonaws.com/parties/a.png"))
	assert.Equal(t, "parties/a.png", s.keyFromLocation("https://s3.eu-west-1.amazonaws.com/ballots/parties/a.png"))
}
