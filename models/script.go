package models

// Trigger modes for a ScriptDefinition. Exactly one applies per script;
// schedulers must switch exhaustively on TriggerType and reject unknown
// values rather than guessing.
const (
	TriggerExtension = "extension" // run against a file when one with the matching extension is ingested
	TriggerClock     = "clock"     // run once per day at a fixed HH:MM, no target file
	TriggerInterval  = "interval"  // run every N minutes, no target file
)

// ScriptDefinition is a unit of automation. It carries either inline
// script text or a reference to a script file on disk; the trigger-shaped
// fields are meaningful only for their matching TriggerType.
type ScriptDefinition struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"not null"`

	TriggerType string `json:"trigger_type" gorm:"not null;index"`

	// TriggerExtension: the file extension, lowercase, without the dot
	Extension *string `json:"extension,omitempty" gorm:"index"`
	// TriggerClock: daily fire time as "HH:MM" (24-hour)
	RunAtTime *string `json:"run_at_time,omitempty"`
	// TriggerInterval: minutes between runs
	IntervalMinutes *int `json:"interval_minutes,omitempty"`

	// exactly one of InlineSource or ScriptPath should be set
	InlineSource *string `json:"inline_source,omitempty"`
	ScriptPath   *string `json:"script_path,omitempty"`

	Enabled   bool  `json:"enabled" gorm:"not null;default:true"`
	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

func (ScriptDefinition) TableName() string {
	return "script_definitions"
}
