package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/pixelgrove/photovaultbackend/models"
)

// ExecutionLogRepository appends to the immutable execution ledger
type ExecutionLogRepository struct {
	DB *gorm.DB
}

func NewExecutionLogRepository(db *gorm.DB) *ExecutionLogRepository {
	return &ExecutionLogRepository{DB: db}
}

// Append writes one ledger entry; ExecutedAt defaults to now when unset
func (r *ExecutionLogRepository) Append(entry *models.ExecutionLogEntry) error {
	if entry.ExecutedAt == 0 {
		entry.ExecutedAt = time.Now().Unix()
	}
	if err := r.DB.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to append execution log entry for %q: %w", entry.ScriptName, err)
	}
	return nil
}

// ListByAssetID returns the ledger entries recorded against one asset,
// newest first
func (r *ExecutionLogRepository) ListByAssetID(assetID uint) ([]models.ExecutionLogEntry, error) {
	var entries []models.ExecutionLogEntry
	err := r.DB.Where("asset_id = ?", assetID).Order("executed_at DESC, id DESC").Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list execution log for asset %d: %w", assetID, err)
	}
	return entries, nil
}
