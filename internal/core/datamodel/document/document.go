package document

import "time"

// Document is the metadata row for one stored blob. The blob itself
// lives in the blob store under StoragePath.
type Document struct {
	ID          string    `gorm:"primaryKey;column:id" bson:"_id"`
	EquipmentID string    `gorm:"column:equipment_id;index;not null" bson:"equipment_id"`
	Name        string    `gorm:"column:name;not null" bson:"name"`
	FileURL     string    `gorm:"column:file_url" bson:"file_url"`
	StoragePath string    `gorm:"column:storage_path;not null" bson:"storage_path"`
	MimeType    string    `gorm:"column:mime_type" bson:"mime_type,omitempty"`
	SizeBytes   int64     `gorm:"column:size_bytes" bson:"size_bytes"`
	UploadedAt  time.Time `gorm:"column:uploaded_at;autoCreateTime" bson:"uploaded_at"`
}

func (Document) TableName() string {
	return "documents"
}
