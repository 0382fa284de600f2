package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"path"
	"strings"
	"time"

	"mealhub/internal/utils"
	"mealhub/pkg/logger"
	"mealhub/pkg/storage"
)

// AttachmentSink turns an uploaded image into a URL stored on a document and
// disposes of replaced ones.
type AttachmentSink interface {
	Store(ctx context.Context, folder string, file *utils.UploadedFile) (string, error)
	// Discard removes a previously stored attachment. Failures are logged,
	// not returned.
	Discard(ctx context.Context, url string)
	Name() string
}

// NewAttachmentSink uses provider when one is configured and falls back to
// inline data URIs otherwise.
func NewAttachmentSink(provider storage.StorageProvider, maxWidth uint, log *logger.Logger) AttachmentSink {
	if provider == nil {
		return &inlineSink{maxWidth: maxWidth}
	}
	return &blobSink{
		provider: provider,
		maxWidth: maxWidth,
		logger:   log.WithField("component", "attachments"),
	}
}

type blobSink struct {
	provider storage.StorageProvider
	maxWidth uint
	logger   *logger.Logger
}

func (s *blobSink) Name() string {
	return s.provider.Name()
}

func (s *blobSink) Store(ctx context.Context, folder string, file *utils.UploadedFile) (string, error) {
	data := utils.ShrinkImage(file.Data, file.ContentType, s.maxWidth)
	key := path.Join(folder, time.Now().UTC().Format("2006/01"), utils.GenerateUniqueFilename(file.Filename))

	resp, err := s.provider.Upload(ctx, &storage.UploadRequest{
		Key:          key,
		Reader:       bytes.NewReader(data),
		ContentType:  file.ContentType,
		Size:         int64(len(data)),
		CacheControl: "public, max-age=31536000",
		Metadata:     map[string]string{"field": file.Field},
	})
	if err != nil {
		return "", utils.NewUpstreamError("Failed to store attachment", err)
	}
	return resp.URL, nil
}

func (s *blobSink) Discard(ctx context.Context, url string) {
	if url == "" || strings.HasPrefix(url, "data:") {
		return
	}
	key, err := s.provider.KeyFromURL(url)
	if err != nil {
		s.logger.WithField("url", url).Debug("Skipping delete of foreign attachment")
		return
	}
	if err := s.provider.Delete(ctx, key); err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("Failed to delete replaced attachment")
	}
}

// inlineSink embeds the image in the document as a base64 data URI.
type inlineSink struct {
	maxWidth uint
}

func (s *inlineSink) Name() string {
	return "inline"
}

func (s *inlineSink) Store(ctx context.Context, folder string, file *utils.UploadedFile) (string, error) {
	data := utils.ShrinkImage(file.Data, file.ContentType, s.maxWidth)
	return fmt.Sprintf("data:%s;base64,%s", file.ContentType, base64.StdEncoding.EncodeToString(data)), nil
}

func (s *inlineSink) Discard(ctx context.Context, url string) {}
