package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/pixelgrove/photovaultbackend/models"
)

// ScriptRepository handles database operations for script definitions
type ScriptRepository struct {
	DB *gorm.DB
}

func NewScriptRepository(db *gorm.DB) *ScriptRepository {
	return &ScriptRepository{DB: db}
}

func (r *ScriptRepository) Create(script *models.ScriptDefinition) error {
	now := time.Now().Unix()
	script.CreatedAt = now
	script.UpdatedAt = now
	if err := r.DB.Create(script).Error; err != nil {
		return fmt.Errorf("failed to create script %q: %w", script.Name, err)
	}
	return nil
}

func (r *ScriptRepository) Update(script *models.ScriptDefinition) error {
	script.UpdatedAt = time.Now().Unix()
	if err := r.DB.Save(script).Error; err != nil {
		return fmt.Errorf("failed to update script %d: %w", script.ID, err)
	}
	return nil
}

func (r *ScriptRepository) GetByID(id uint) (*models.ScriptDefinition, error) {
	var script models.ScriptDefinition
	if err := r.DB.First(&script, id).Error; err != nil {
		return nil, err
	}
	return &script, nil
}

// ListEnabled returns every enabled script regardless of trigger type
func (r *ScriptRepository) ListEnabled() ([]models.ScriptDefinition, error) {
	var scripts []models.ScriptDefinition
	if err := r.DB.Where("enabled = ?", true).Find(&scripts).Error; err != nil {
		return nil, fmt.Errorf("failed to list enabled scripts: %w", err)
	}
	return scripts, nil
}

// ListByTriggerType returns enabled scripts with the given trigger mode
func (r *ScriptRepository) ListByTriggerType(triggerType string) ([]models.ScriptDefinition, error) {
	var scripts []models.ScriptDefinition
	err := r.DB.Where("enabled = ? AND trigger_type = ?", true, triggerType).Find(&scripts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list %s scripts: %w", triggerType, err)
	}
	return scripts, nil
}

func (r *ScriptRepository) Delete(id uint) error {
	result := r.DB.Delete(&models.ScriptDefinition{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete script %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
