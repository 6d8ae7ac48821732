package repository

import (
	"fmt"
	"path/filepath"

	"gorm.io/gorm"

	"github.com/pixelgrove/photovaultbackend/models"
)

// AssetRepository handles database operations for MediaAsset entities
type AssetRepository struct {
	DB *gorm.DB
}

// NewAssetRepository creates a new instance of AssetRepository
func NewAssetRepository(db *gorm.DB) *AssetRepository {
	return &AssetRepository{DB: db}
}

// GetByPath retrieves an asset by its unique file path
func (r *AssetRepository) GetByPath(filePath string) (*models.MediaAsset, error) {
	var asset models.MediaAsset
	cleanPath := filepath.ToSlash(filePath)
	err := r.DB.Where("file_path = ?", cleanPath).First(&asset).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get asset by path %s: %w", cleanPath, err)
	}
	return &asset, nil
}

// GetByID retrieves an asset by its primary key
func (r *AssetRepository) GetByID(id uint) (*models.MediaAsset, error) {
	var asset models.MediaAsset
	err := r.DB.First(&asset, id).Error
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

// Save creates or updates the asset record. The unique index on file_path
// serializes concurrent ingestion of the same file at the storage layer.
func (r *AssetRepository) Save(asset *models.MediaAsset) error {
	asset.FilePath = filepath.ToSlash(asset.FilePath)
	if err := r.DB.Save(asset).Error; err != nil {
		return fmt.Errorf("failed to save asset %s: %w", asset.FilePath, err)
	}
	return nil
}

// ListAll returns every non-deleted asset in the catalog
func (r *AssetRepository) ListAll() ([]models.MediaAsset, error) {
	var assets []models.MediaAsset
	if err := r.DB.Order("file_path ASC").Find(&assets).Error; err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	return assets, nil
}

// Delete removes an asset; the technical record and tag links cascade
func (r *AssetRepository) Delete(id uint) error {
	result := r.DB.Delete(&models.MediaAsset{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete asset %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// TechnicalMetadataRepository handles the 1:1 technical record per asset
type TechnicalMetadataRepository struct {
	DB *gorm.DB
}

func NewTechnicalMetadataRepository(db *gorm.DB) *TechnicalMetadataRepository {
	return &TechnicalMetadataRepository{DB: db}
}

// ReplaceForAsset deletes any existing technical record for the asset and
// inserts the new one in a single transaction (wholesale replace, no merge)
func (r *TechnicalMetadataRepository) ReplaceForAsset(assetID uint, meta *models.TechnicalMetadata) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("asset_id = ?", assetID).Delete(&models.TechnicalMetadata{}).Error; err != nil {
			return fmt.Errorf("failed to delete old technical metadata for asset %d: %w", assetID, err)
		}
		if meta == nil {
			return nil
		}
		meta.ID = 0
		meta.AssetID = assetID
		if err := tx.Create(meta).Error; err != nil {
			return fmt.Errorf("failed to insert technical metadata for asset %d: %w", assetID, err)
		}
		return nil
	})
}

// GetByAssetID retrieves the technical record for an asset
func (r *TechnicalMetadataRepository) GetByAssetID(assetID uint) (*models.TechnicalMetadata, error) {
	var meta models.TechnicalMetadata
	err := r.DB.Where("asset_id = ?", assetID).First(&meta).Error
	if err != nil {
		return nil, err
	}
	return &meta, nil
}
