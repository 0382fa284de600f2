package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealhub/internal/utils"
	"mealhub/pkg/logger"
	"mealhub/pkg/storage"
)

func pngUpload(t *testing.T, width, height int) *utils.UploadedFile {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))))
	return &utils.UploadedFile{Field: "image", Filename: "dish.png", ContentType: "image/png", Data: buf.Bytes()}
}

func TestInlineSinkEmbedsDataURI(t *testing.T) {
	sink := NewAttachmentSink(nil, 1024, logger.NewDiscard())
	assert.Equal(t, "inline", sink.Name())

	file := pngUpload(t, 8, 8)
	url, err := sink.Store(context.Background(), "items", file)
	require.NoError(t, err)

	prefix := "data:image/png;base64,"
	require.True(t, strings.HasPrefix(url, prefix))
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, prefix))
	require.NoError(t, err)
	assert.Equal(t, file.Data, decoded)

	sink.Discard(context.Background(), url)
}

func TestInlineSinkShrinksWideImages(t *testing.T) {
	sink := NewAttachmentSink(nil, 16, logger.NewDiscard())

	url, err := sink.Store(context.Background(), "items", pngUpload(t, 64, 32))
	require.NoError(t, err)

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, "data:image/png;base64,"))
	require.NoError(t, err)
	dims, err := utils.GetImageDimensions(decoded)
	require.NoError(t, err)
	assert.Equal(t, 16, dims.Width)
	assert.Equal(t, 8, dims.Height)
}

func TestBlobSinkWithLocalStorage(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	provider, err := storage.NewLocalStorage(dir, "http://localhost:8080/uploads/")
	require.NoError(t, err)

	sink := NewAttachmentSink(provider, 0, logger.NewDiscard())
	assert.Equal(t, "local", sink.Name())

	url, err := sink.Store(ctx, "drivers/license", pngUpload(t, 4, 4))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "http://localhost:8080/uploads/drivers/license/"))

	key, err := provider.KeyFromURL(url)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(key)))
	require.NoError(t, err)

	// foreign and inline urls are left alone
	sink.Discard(ctx, "https://elsewhere.example.com/a.png")
	sink.Discard(ctx, "data:image/png;base64,AAAA")

	sink.Discard(ctx, url)
	exists, err := provider.FileExists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)
}
