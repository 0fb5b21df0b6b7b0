// Package storage uploads user-supplied images to S3-compatible object storage
// and returns the public URL they are served from.
package storage

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/gophchat/internal/common"
)

// ImageUploader stores an image payload and returns a URL for it.
type ImageUploader interface {
	Upload(ctx context.Context, payload string) (string, error)
}

var extensions = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/bmp":     ".bmp",
	"image/svg+xml": ".svg",
	"image/x-icon":  ".ico",
}

// image is a decoded payload ready for upload.
type image struct {
	data        []byte
	contentType string
}

func isRemoteURL(payload string) bool {
	return strings.HasPrefix(payload, "http://") || strings.HasPrefix(payload, "https://")
}

// decodePayload accepts a base64 data URL or bare base64 and rejects anything
// that is not an image.
func decodePayload(payload string) (*image, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, common.NewValidationError("Image is empty")
	}

	var (
		contentType string
		encoded     = payload
	)

	if rest, ok := strings.CutPrefix(payload, "data:"); ok {
		meta, data, found := strings.Cut(rest, ",")
		if !found || !strings.HasSuffix(meta, ";base64") {
			return nil, common.NewValidationError("Image must be a base64 data URL")
		}
		contentType = strings.ToLower(strings.TrimSuffix(meta, ";base64"))
		if i := strings.IndexByte(contentType, ';'); i >= 0 {
			contentType = contentType[:i]
		}
		encoded = data
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, common.NewValidationError("Image is not valid base64")
		}
	}
	if len(data) == 0 {
		return nil, common.NewValidationError("Image is empty")
	}

	if contentType == "" {
		contentType, _, _ = strings.Cut(http.DetectContentType(data), ";")
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, common.NewValidationError("Only image uploads are allowed")
	}

	return &image{data: data, contentType: contentType}, nil
}
