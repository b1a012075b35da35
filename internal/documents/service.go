package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/AgencyFlow/agencyflow/internal/agency/model"
)

// DocumentService coordinates document uploads. The binary content goes to
// the storage driver; a DocumentRecord row keeps the metadata so instruction
// documents can be linked from templates and tasks by URL.
type DocumentService struct {
	db     *gorm.DB
	Driver StorageDriver
}

func NewDocumentService(db *gorm.DB, driver StorageDriver) *DocumentService {
	return &DocumentService{db: db, Driver: driver}
}

// Upload stores the incoming document, persists its metadata, and returns the record
func (s *DocumentService) Upload(ctx context.Context, filename string, reader io.Reader, size int64, mime string) (*model.DocumentRecord, error) {
	if mime == "" {
		mime = "application/octet-stream"
	}
	id := uuid.New()
	ext := filepath.Ext(filename)
	key := fmt.Sprintf("%s%s", id.String(), ext)

	err := s.Driver.Save(ctx, key, reader, mime)
	if err != nil {
		return nil, fmt.Errorf("storage driver failed: %w", err)
	}

	url, err := s.Driver.GenerateURL(ctx, key, 0)
	if err != nil {
		if delErr := s.Driver.Delete(ctx, key); delErr != nil {
			slog.WarnContext(ctx, "failed to cleanup orphaned document", "key", key, "error", delErr)
		}
		return nil, fmt.Errorf("failed to generate URL: %w", err)
	}

	record := &model.DocumentRecord{
		Name:       filename,
		StorageKey: key,
		URL:        url,
		Size:       size,
		MimeType:   mime,
		Active:     true,
	}
	record.ID = id

	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		if delErr := s.Driver.Delete(ctx, key); delErr != nil {
			slog.WarnContext(ctx, "failed to cleanup orphaned document", "key", key, "error", delErr)
		}
		return nil, fmt.Errorf("failed to persist document record: %w", err)
	}

	slog.InfoContext(ctx, "document uploaded successfully", "id", id, "key", key)
	return record, nil
}

// Download retrieves the document content and its MIME type
func (s *DocumentService) Download(ctx context.Context, key string) (io.ReadCloser, string, error) {
	return s.Driver.Get(ctx, key)
}

// GetRecord fetches the metadata of a stored document by its id.
func (s *DocumentService) GetRecord(ctx context.Context, id uuid.UUID) (*model.DocumentRecord, error) {
	var record model.DocumentRecord
	err := s.db.WithContext(ctx).Where("id = ? AND active = ?", id, true).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("document %s not found", id)
		}
		return nil, fmt.Errorf("failed to fetch document record: %w", err)
	}
	return &record, nil
}

// Delete removes the stored content and deactivates the metadata record.
func (s *DocumentService) Delete(ctx context.Context, id uuid.UUID) error {
	record, err := s.GetRecord(ctx, id)
	if err != nil {
		return err
	}

	if err := s.Driver.Delete(ctx, record.StorageKey); err != nil {
		return fmt.Errorf("failed to delete document content: %w", err)
	}

	return s.db.WithContext(ctx).
		Model(&model.DocumentRecord{}).
		Where("id = ?", id).
		Update("active", false).Error
}
