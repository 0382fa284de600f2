package utils

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"github.com/nfnt/resize"
)

type ImageDimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func GetImageDimensions(data []byte) (*ImageDimensions, error) {
	config, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	return &ImageDimensions{
		Width:  config.Width,
		Height: config.Height,
	}, nil
}

// ShrinkImage scales a JPEG or PNG down to maxWidth, keeping the aspect
// ratio. Other formats, undecodable input, and images already within bounds
// come back unchanged.
func ShrinkImage(data []byte, contentType string, maxWidth uint) []byte {
	if maxWidth == 0 {
		return data
	}

	format := imageFormat(contentType)
	if format == "" {
		return data
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return data
	}
	if uint(img.Bounds().Dx()) <= maxWidth {
		return data
	}

	// height 0 preserves aspect ratio
	resized := resize.Resize(maxWidth, 0, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := EncodeImage(resized, format, &buf, 85); err != nil {
		return data
	}
	return buf.Bytes()
}

func EncodeImage(img image.Image, format string, writer io.Writer, quality int) error {
	switch strings.ToLower(format) {
	case "jpg", "jpeg":
		return jpeg.Encode(writer, img, &jpeg.Options{Quality: quality})
	case "png":
		return png.Encode(writer, img)
	default:
		return errors.New("unsupported image format")
	}
}

func imageFormat(contentType string) string {
	switch strings.ToLower(contentType) {
	case "image/jpeg", "image/jpg":
		return "jpeg"
	case "image/png":
		return "png"
	}
	return ""
}
