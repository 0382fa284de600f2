package storage

import (
	"context"
	"errors"
	"io"
)

// ErrForeignURL is returned by KeyFromURL for URLs this provider did not
// issue.
var ErrForeignURL = errors.New("url does not belong to this storage provider")

type StorageProvider interface {
	Upload(ctx context.Context, request *UploadRequest) (*UploadResponse, error)
	Delete(ctx context.Context, key string) error
	FileExists(ctx context.Context, key string) (bool, error)
	// KeyFromURL maps a URL returned by Upload back to its object key.
	KeyFromURL(url string) (string, error)
	Name() string
}

type UploadRequest struct {
	Key          string            `json:"key"`
	Reader       io.Reader         `json:"-"`
	ContentType  string            `json:"content_type"`
	Size         int64             `json:"size"`
	Metadata     map[string]string `json:"metadata"`
	CacheControl string            `json:"cache_control"`
}

type UploadResponse struct {
	Key  string `json:"key"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
	ETag string `json:"etag"`
}
