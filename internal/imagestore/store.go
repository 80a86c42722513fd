// Package imagestore persists uploaded product images and returns references to them.
package imagestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// ErrUnsupportedImage is returned for uploads whose content is not an image.
var ErrUnsupportedImage = errors.New("uploaded file is not a supported image")

// Store persists product images.
type Store interface {
	// Save stores the upload and returns a reference clients can use to fetch it.
	Save(ctx context.Context, upload Upload) (string, error)
}

// Upload is a single image file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.ReadSeeker
}

// NewUpload sniffs body and rejects anything that is not an image.
// body is rewound before returning.
func NewUpload(filename string, size int64, body io.ReadSeeker) (Upload, error) {
	mtype, err := mimetype.DetectReader(body)
	if err != nil {
		return Upload{}, fmt.Errorf("failed to read upload: %w", err)
	}
	if _, err := body.Seek(0, io.SeekStart); err != nil {
		return Upload{}, fmt.Errorf("failed to rewind upload: %w", err)
	}

	// svg can carry script and the local store serves uploads back as-is
	if !strings.HasPrefix(mtype.String(), "image/") || mtype.Is("image/svg+xml") {
		return Upload{}, ErrUnsupportedImage
	}

	return Upload{
		Filename:    filename,
		ContentType: mtype.String(),
		Size:        size,
		Body:        body,
	}, nil
}

// objectName generates a collision-free name that keeps the upload's extension.
func objectName(upload Upload) string {
	ext := strings.ToLower(filepath.Ext(upload.Filename))
	if ext == "" {
		if mtype := mimetype.Lookup(upload.ContentType); mtype != nil {
			ext = mtype.Extension()
		}
	}
	return uuid.NewString() + ext
}
