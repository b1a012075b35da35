package model

// DocumentRecord persists the metadata of a stored document. The binary
// content lives in the configured storage backend under StorageKey.
type DocumentRecord struct {
	BaseModel
	Name       string `gorm:"type:varchar(255);not null" json:"name"`
	StorageKey string `gorm:"type:varchar(255);uniqueIndex;not null" json:"storage_key"`
	URL        string `gorm:"type:text" json:"url"`
	Size       int64  `gorm:"not null" json:"size"`
	MimeType   string `gorm:"type:varchar(127)" json:"mime_type"`
	Active     bool   `gorm:"default:true" json:"active"`
}

// TableName specifies the database table name for DocumentRecord
func (d *DocumentRecord) TableName() string {
	return "document_records"
}
