package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pixelgrove/photovaultbackend/models"
)

// CustomFieldRepository handles free-form metadata fields and their
// per-asset values
type CustomFieldRepository struct {
	DB *gorm.DB
}

func NewCustomFieldRepository(db *gorm.DB) *CustomFieldRepository {
	return &CustomFieldRepository{DB: db}
}

// FindOrCreateField returns the field definition with the given name,
// creating it on first use by the sidecar parser
func (r *CustomFieldRepository) FindOrCreateField(name string) (*models.CustomFieldDefinition, error) {
	field := models.CustomFieldDefinition{Name: name, CreatedAt: time.Now().Unix()}
	result := r.DB.Where(models.CustomFieldDefinition{Name: name}).FirstOrCreate(&field)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find or create custom field %q: %w", name, result.Error)
	}
	return &field, nil
}

// UpsertValue writes the value for the (asset, field) pair, replacing any
// previous value; the pair is unique-constrained
func (r *CustomFieldRepository) UpsertValue(assetID, fieldID uint, value string) error {
	row := models.AssetCustomValue{
		AssetID:   assetID,
		FieldID:   fieldID,
		Value:     value,
		UpdatedAt: time.Now().Unix(),
	}
	err := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "asset_id"}, {Name: "field_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to upsert custom value (asset %d, field %d): %w", assetID, fieldID, err)
	}
	return nil
}

// ListValuesByAssetID returns the asset's custom values with their field
// definitions preloaded
func (r *CustomFieldRepository) ListValuesByAssetID(assetID uint) ([]models.AssetCustomValue, error) {
	var values []models.AssetCustomValue
	err := r.DB.Preload("Field").Where("asset_id = ?", assetID).Find(&values).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list custom values for asset %d: %w", assetID, err)
	}
	return values, nil
}
