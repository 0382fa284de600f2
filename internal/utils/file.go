package utils

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// UploadedFile is an image accepted from a multipart request.
type UploadedFile struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// UploadError reports a rejected multipart upload.
type UploadError struct {
	Message string
}

func (e *UploadError) Error() string {
	return e.Message
}

func GetFileExtension(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

// GenerateUniqueFilename keeps the original extension under a random name.
func GenerateUniqueFilename(originalFilename string) string {
	return uuid.NewString() + GetFileExtension(originalFilename)
}

// DetectContentType prefers the declared part header and falls back to
// sniffing the payload, then to the file extension.
func DetectContentType(header *multipart.FileHeader, data []byte) string {
	if ct := header.Header.Get("Content-Type"); ct != "" && ct != "application/octet-stream" {
		if mediaType, _, err := mime.ParseMediaType(ct); err == nil {
			return mediaType
		}
	}
	if len(data) > 0 {
		if sniffed := http.DetectContentType(data); sniffed != "application/octet-stream" {
			return strings.Split(sniffed, ";")[0]
		}
	}
	if byExt := mime.TypeByExtension(GetFileExtension(header.Filename)); byExt != "" {
		return strings.Split(byExt, ";")[0]
	}
	return "application/octet-stream"
}

func IsImageContentType(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(contentType), "image/")
}

// ReadImageUploads loads every file part named in fields. Each part must be
// an image no larger than MaxImageSize, and no more than MaxFilesPerRequest
// parts are accepted overall.
func ReadImageUploads(form *multipart.Form, fields ...string) (map[string]*UploadedFile, error) {
	uploads := make(map[string]*UploadedFile)
	if form == nil {
		return uploads, nil
	}

	total := 0
	for _, headers := range form.File {
		total += len(headers)
	}
	if total > MaxFilesPerRequest {
		return nil, &UploadError{Message: fmt.Sprintf("Too many files: at most %d files per request", MaxFilesPerRequest)}
	}

	for _, field := range fields {
		headers := form.File[field]
		if len(headers) == 0 {
			continue
		}
		upload, err := readImage(field, headers[0])
		if err != nil {
			return nil, err
		}
		uploads[field] = upload
	}

	return uploads, nil
}

// ReadImageUploadList loads every file part under one field, such as a
// gallery upload. The per-request file limit applies.
func ReadImageUploadList(form *multipart.Form, field string) ([]*UploadedFile, error) {
	if form == nil {
		return nil, nil
	}
	headers := form.File[field]
	if len(headers) > MaxFilesPerRequest {
		return nil, &UploadError{Message: fmt.Sprintf("Too many files: at most %d files per request", MaxFilesPerRequest)}
	}

	uploads := make([]*UploadedFile, 0, len(headers))
	for _, header := range headers {
		upload, err := readImage(field, header)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, upload)
	}
	return uploads, nil
}

func readImage(field string, header *multipart.FileHeader) (*UploadedFile, error) {
	if header.Size > MaxImageSize {
		return nil, &UploadError{Message: fmt.Sprintf("File %s exceeds the 5MB limit", header.Filename)}
	}

	data, err := readPart(header)
	if err != nil {
		return nil, err
	}
	if len(data) > MaxImageSize {
		return nil, &UploadError{Message: fmt.Sprintf("File %s exceeds the 5MB limit", header.Filename)}
	}

	contentType := DetectContentType(header, data)
	if !IsImageContentType(contentType) {
		return nil, &UploadError{Message: "Only image files are allowed"}
	}

	return &UploadedFile{
		Field:       field,
		Filename:    header.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}

func readPart(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	return data, nil
}
