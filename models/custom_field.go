package models

// CustomFieldDefinition is a named free-form metadata field, unique by
// name, created on first use by the sidecar parser.
type CustomFieldDefinition struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	Name      string `json:"name" gorm:"uniqueIndex;not null"`
	CreatedAt int64  `json:"created_at"`
}

func (CustomFieldDefinition) TableName() string {
	return "custom_field_definitions"
}

// AssetCustomValue holds one value per (asset, field) pair, upserted by
// the sidecar parser.
type AssetCustomValue struct {
	ID        uint                  `json:"id" gorm:"primaryKey"`
	AssetID   uint                  `json:"asset_id" gorm:"index:idx_asset_field,unique;not null"`
	FieldID   uint                  `json:"field_id" gorm:"index:idx_asset_field,unique;not null"`
	Field     CustomFieldDefinition `json:"field,omitempty" gorm:"foreignKey:FieldID"`
	Value     string                `json:"value"`
	UpdatedAt int64                 `json:"updated_at"`
}

func (AssetCustomValue) TableName() string {
	return "asset_custom_values"
}
