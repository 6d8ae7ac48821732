package models

// ExecutionLogEntry is an immutable audit record of one script or
// pipeline-stage run. ScriptID is nullable for pseudo-script identities
// such as the AI tagger; AssetID is nullable for schedule-only runs.
type ExecutionLogEntry struct {
	ID         uint    `json:"id" gorm:"primaryKey"`
	ScriptID   *uint   `json:"script_id,omitempty" gorm:"index"`
	ScriptName string  `json:"script_name" gorm:"not null;index"`
	AssetID    *uint   `json:"asset_id,omitempty" gorm:"index"`
	Success    bool    `json:"success" gorm:"not null"`
	ErrorText  *string `json:"error_text,omitempty"`
	ExecutedAt int64   `json:"executed_at" gorm:"not null;index"` // Unix timestamp
}

func (ExecutionLogEntry) TableName() string {
	return "execution_log_entries"
}
