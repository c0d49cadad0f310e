// Package storage implements the attachment blob store on local disk.
// Stored files are served back under /uploads by the HTTP layer.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/helpmate/helpdesk/internal/config"
	"github.com/helpmate/helpdesk/internal/domain"
	apperrors "github.com/helpmate/helpdesk/pkg/util/errorutil"
)

// Images and documents only, mirroring what the helpdesk accepts from users.
var allowedExtensions = map[string]struct{}{
	".jpeg": {},
	".jpg":  {},
	".png":  {},
	".gif":  {},
	".pdf":  {},
	".doc":  {},
	".docx": {},
	".txt":  {},
}

// LocalStore persists attachments on disk.
type LocalStore struct {
	dir      string
	maxBytes int64
}

// NewLocalStore creates the upload directory if needed.
func NewLocalStore(cfg config.StorageConfig) (*LocalStore, error) {
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: cfg.UploadDir, maxBytes: cfg.MaxUploadBytes}, nil
}

// Dir returns the directory files are stored in.
func (s *LocalStore) Dir() string {
	return s.dir
}

// Save validates and writes the file, returning its attachment reference.
// Violations of the size cap or the type allow-list are InvalidInput;
// write failures are Unavailable.
func (s *LocalStore) Save(originalName, mimeType string, data []byte) (*domain.Attachment, error) {
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return nil, apperrors.NewValidationError("attachment too large", map[string]any{
			"max_bytes": s.maxBytes,
		})
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	if _, ok := allowedExtensions[ext]; !ok {
		return nil, apperrors.NewValidationError("only images and documents are allowed", map[string]any{
			"extension": ext,
		})
	}

	fileName := "attachment-" + uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(s.dir, fileName), data, 0o644); err != nil {
		return nil, apperrors.NewUnavailable(err)
	}

	return &domain.Attachment{
		FileName:     fileName,
		OriginalName: originalName,
		MimeType:     mimeType,
		SizeBytes:    int64(len(data)),
		Path:         "/uploads/" + fileName,
	}, nil
}

// Remove deletes a stored file. Missing files are not an error so the
// ticket delete flow stays idempotent.
func (s *LocalStore) Remove(fileName string) error {
	if fileName == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, filepath.Base(fileName)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
