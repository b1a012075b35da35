package documents

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/AgencyFlow/agencyflow/internal/agency/model"
)

// MockDriver implements StorageDriver for testing
type MockDriver struct {
	SavedKey       string
	SavedBody      []byte
	GenerateURLErr error
	DeleteCalled   bool
	DeleteKey      string
}

func (m *MockDriver) Save(ctx context.Context, key string, body io.Reader, contentType string) error {
	m.SavedKey = key
	content, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.SavedBody = content
	return nil
}

func (m *MockDriver) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	return io.NopCloser(bytes.NewReader(m.SavedBody)), "application/test", nil
}

func (m *MockDriver) Delete(ctx context.Context, key string) error {
	m.DeleteCalled = true
	m.DeleteKey = key
	return nil
}

func (m *MockDriver) GenerateURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	if m.GenerateURLErr != nil {
		return "", m.GenerateURLErr
	}
	return "/test/" + key, nil
}

func newDocumentsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.DocumentRecord{}))
	return db
}

func TestDocumentService_Upload(t *testing.T) {
	db := newDocumentsTestDB(t)
	mock := &MockDriver{}
	service := NewDocumentService(db, mock)

	ctx := context.Background()
	content := []byte("brief content")

	record, err := service.Upload(ctx, "brief.pdf", bytes.NewReader(content), int64(len(content)), "application/pdf")
	require.NoError(t, err)

	assert.Equal(t, "brief.pdf", record.Name)
	assert.Equal(t, "application/pdf", record.MimeType)
	assert.Equal(t, int64(len(content)), record.Size)
	assert.Equal(t, mock.SavedKey, record.StorageKey, "storage key matches what the driver saw")
	assert.Equal(t, "/test/"+record.StorageKey, record.URL)
	assert.Equal(t, content, mock.SavedBody)

	// Metadata is persisted and retrievable.
	fetched, err := service.GetRecord(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.StorageKey, fetched.StorageKey)
}

func TestDocumentService_Upload_DefaultsMimeType(t *testing.T) {
	db := newDocumentsTestDB(t)
	service := NewDocumentService(db, &MockDriver{})

	record, err := service.Upload(context.Background(), "blob", bytes.NewReader([]byte("x")), 1, "")
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", record.MimeType)
}

func TestDocumentService_Upload_CleansUpOnURLFailure(t *testing.T) {
	db := newDocumentsTestDB(t)
	mock := &MockDriver{GenerateURLErr: errors.New("no url for you")}
	service := NewDocumentService(db, mock)

	_, err := service.Upload(context.Background(), "brief.pdf", bytes.NewReader([]byte("x")), 1, "application/pdf")
	require.Error(t, err)
	assert.True(t, mock.DeleteCalled, "orphaned content is deleted")
	assert.Equal(t, mock.SavedKey, mock.DeleteKey)

	var count int64
	db.Model(&model.DocumentRecord{}).Count(&count)
	assert.Zero(t, count, "no metadata row for a failed upload")
}

func TestDocumentService_Delete(t *testing.T) {
	db := newDocumentsTestDB(t)
	mock := &MockDriver{}
	service := NewDocumentService(db, mock)
	ctx := context.Background()

	record, err := service.Upload(ctx, "brief.pdf", bytes.NewReader([]byte("x")), 1, "application/pdf")
	require.NoError(t, err)

	require.NoError(t, service.Delete(ctx, record.ID))
	assert.True(t, mock.DeleteCalled)

	_, err = service.GetRecord(ctx, record.ID)
	assert.Error(t, err, "deleted records are no longer retrievable")
}
