package imagestore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/rs/zerolog"
)

// localStore implements Store by writing files below a directory served as static content.
type localStore struct {
	dir       string
	urlPrefix string
	logger    zerolog.Logger
}

// NewLocalStore creates a store that writes into dir and returns references
// under urlPrefix (e.g. "/uploads").
func NewLocalStore(dir, urlPrefix string, logger zerolog.Logger) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}

	return &localStore{
		dir:       dir,
		urlPrefix: urlPrefix,
		logger:    logger.With().Str("component", "local-image-store").Logger(),
	}, nil
}

// Save copies the upload into the store directory.
func (s *localStore) Save(ctx context.Context, upload Upload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := objectName(upload)
	target := filepath.Join(s.dir, name)

	file, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		s.logger.Error().Err(err).Str("file", target).Msg("failed to create image file")
		return "", fmt.Errorf("failed to create image file %s: %w", target, err)
	}

	written, err := io.Copy(file, upload.Body)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(target)
		s.logger.Error().Err(err).Str("file", target).Msg("failed to write image file")
		return "", fmt.Errorf("failed to write image file %s: %w", target, err)
	}

	s.logger.Info().
		Str("file", target).
		Int64("bytes", written).
		Msg("image stored on local file system")

	return path.Join(s.urlPrefix, name), nil
}
