package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/pixelgrove/photovaultbackend/models"
)

// TagRepository handles database operations for tags and asset-tag links
type TagRepository struct {
	DB *gorm.DB
}

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{DB: db}
}

// FindOrCreate returns the tag with the given value, creating it on first
// use. Tag values are unique across the catalog.
func (r *TagRepository) FindOrCreate(value string) (*models.Tag, error) {
	tag := models.Tag{Value: value, CreatedAt: time.Now().Unix()}
	result := r.DB.Where(models.Tag{Value: value}).FirstOrCreate(&tag)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find or create tag %q: %w", value, result.Error)
	}
	return &tag, nil
}

// FindOrCreateLink returns the (asset, tag) link, creating it if absent.
// Links accumulate; the pipeline never removes them.
func (r *TagRepository) FindOrCreateLink(assetID, tagID uint) (*models.AssetTagLink, error) {
	link := models.AssetTagLink{AssetID: assetID, TagID: tagID, CreatedAt: time.Now().Unix()}
	result := r.DB.Where(models.AssetTagLink{AssetID: assetID, TagID: tagID}).FirstOrCreate(&link)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find or create tag link (asset %d, tag %d): %w", assetID, tagID, result.Error)
	}
	return &link, nil
}

// ListByAssetID returns all tags linked to the asset
func (r *TagRepository) ListByAssetID(assetID uint) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.DB.
		Joins("JOIN asset_tag_links ON asset_tag_links.tag_id = tags.id").
		Where("asset_tag_links.asset_id = ?", assetID).
		Order("tags.value ASC").
		Find(&tags).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tags for asset %d: %w", assetID, err)
	}
	return tags, nil
}
