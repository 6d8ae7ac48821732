package repository

import (
	"github.com/pixelgrove/photovaultbackend/models"
)

// AssetRepositoryInterface defines the methods for media asset persistence
type AssetRepositoryInterface interface {
	GetByPath(filePath string) (*models.MediaAsset, error)
	GetByID(id uint) (*models.MediaAsset, error)
	Save(asset *models.MediaAsset) error
	ListAll() ([]models.MediaAsset, error)
	Delete(id uint) error
}

// TechnicalMetadataRepositoryInterface persists the 1:1 technical record
type TechnicalMetadataRepositoryInterface interface {
	ReplaceForAsset(assetID uint, meta *models.TechnicalMetadata) error
	GetByAssetID(assetID uint) (*models.TechnicalMetadata, error)
}

// TagRepositoryInterface provides find-or-create semantics for tags and
// their per-asset links
type TagRepositoryInterface interface {
	FindOrCreate(value string) (*models.Tag, error)
	FindOrCreateLink(assetID, tagID uint) (*models.AssetTagLink, error)
	ListByAssetID(assetID uint) ([]models.Tag, error)
}

// CustomFieldRepositoryInterface provides find-or-create fields and
// (asset, field)-unique value upserts
type CustomFieldRepositoryInterface interface {
	FindOrCreateField(name string) (*models.CustomFieldDefinition, error)
	UpsertValue(assetID, fieldID uint, value string) error
	ListValuesByAssetID(assetID uint) ([]models.AssetCustomValue, error)
}

// ScriptRepositoryInterface defines the methods for script definitions
type ScriptRepositoryInterface interface {
	Create(script *models.ScriptDefinition) error
	Update(script *models.ScriptDefinition) error
	GetByID(id uint) (*models.ScriptDefinition, error)
	ListEnabled() ([]models.ScriptDefinition, error)
	ListByTriggerType(triggerType string) ([]models.ScriptDefinition, error)
	Delete(id uint) error
}

// ExecutionLogRepositoryInterface appends to and reads the audit ledger
type ExecutionLogRepositoryInterface interface {
	Append(entry *models.ExecutionLogEntry) error
	ListByAssetID(assetID uint) ([]models.ExecutionLogEntry, error)
}

// PollStateRepositoryInterface tracks per-repository poll progress
type PollStateRepositoryInterface interface {
	GetByPath(repoPath string) (*models.RepositoryPollState, error)
	Save(state *models.RepositoryPollState) error
}

// UserRepositoryInterface is the account directory consumed by the pipeline
type UserRepositoryInterface interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetFirstAdmin() (*models.User, error)
	ListAll() ([]models.User, error)
}
