package models

import "gorm.io/gorm"

// MediaAsset represents one physical image file in the catalog.
// The absolute file path is the identity key: re-ingesting the same path
// updates the existing record instead of creating a duplicate.
type MediaAsset struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	FilePath string `json:"file_path" gorm:"uniqueIndex;not null"`
	FileName string `json:"file_name" gorm:"not null"`

	SizeBytes    int64 `json:"size_bytes"`
	FsCreatedAt  int64 `json:"fs_created_at"`  // Unix timestamp
	FsModifiedAt int64 `json:"fs_modified_at"` // Unix timestamp
	IngestedAt   int64 `json:"ingested_at"`

	OwnerID *uint `json:"owner_id,omitempty" gorm:"index"`
	Owner   *User `json:"-" gorm:"foreignKey:OwnerID"`

	Visible bool `json:"visible" gorm:"not null;default:true"`

	Width  *int `json:"width,omitempty"`
	Height *int `json:"height,omitempty"`

	ThumbnailPath *string `json:"thumbnail_path,omitempty"`

	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	// Relationships
	Technical *TechnicalMetadata `json:"technical,omitempty" gorm:"foreignKey:AssetID;constraint:OnDelete:CASCADE"`
	TagLinks  []AssetTagLink     `json:"tag_links,omitempty" gorm:"foreignKey:AssetID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (MediaAsset) TableName() string {
	return "media_assets"
}

// TechnicalMetadata holds camera-embedded metadata for one asset (1:1,
// cascade-deleted with the asset). It is replaced wholesale on each
// (re)ingestion rather than merged field by field.
type TechnicalMetadata struct {
	ID      uint `json:"id" gorm:"primaryKey"`
	AssetID uint `json:"asset_id" gorm:"uniqueIndex;not null"`

	CapturedAt   *int64   `json:"captured_at,omitempty" gorm:"index"` // Unix timestamp
	CameraMake   *string  `json:"camera_make,omitempty"`
	CameraModel  *string  `json:"camera_model,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`  // decimal degrees, 8-digit precision
	Longitude    *float64 `json:"longitude,omitempty"` // decimal degrees, 8-digit precision
	ExposureTime *string  `json:"exposure_time,omitempty"`
	Aperture     *float64 `json:"aperture,omitempty"` // F-number
	ISO          *int     `json:"iso,omitempty"`
	FocalLength  *float64 `json:"focal_length,omitempty"` // mm
	Orientation  *int     `json:"orientation,omitempty"`
}

func (TechnicalMetadata) TableName() string {
	return "technical_metadata"
}
