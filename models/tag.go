package models

// Tag is a deduplicated label value, created on first use by any
// enrichment stage (sidecar parser or AI tagger) and referenced thereafter.
type Tag struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	Value     string `json:"value" gorm:"uniqueIndex;not null"`
	CreatedAt int64  `json:"created_at"`
}

func (Tag) TableName() string {
	return "tags"
}

// AssetTagLink joins MediaAsset and Tag, unique per (asset, tag) pair.
// Links are created during enrichment and never auto-removed by the
// pipeline; removal is a catalog-layer concern.
type AssetTagLink struct {
	ID        uint  `json:"id" gorm:"primaryKey"`
	AssetID   uint  `json:"asset_id" gorm:"index:idx_asset_tag,unique;not null"`
	TagID     uint  `json:"tag_id" gorm:"index:idx_asset_tag,unique;not null"`
	Tag       Tag   `json:"tag,omitempty" gorm:"foreignKey:TagID"`
	CreatedAt int64 `json:"created_at"`
}

func (AssetTagLink) TableName() string {
	return "asset_tag_links"
}
