package models

// RepositoryPollState tracks, per monitored repository path, the last
// successfully processed revision. It is mutated only by the change
// detector; a nil LastRevision drives a full cold-start walk.
type RepositoryPollState struct {
	ID           uint    `json:"id" gorm:"primaryKey"`
	RepoPath     string  `json:"repo_path" gorm:"uniqueIndex;not null"`
	LastRevision *string `json:"last_revision,omitempty"`
	LastPolledAt *int64  `json:"last_polled_at,omitempty"` // Unix timestamp
}

func (RepositoryPollState) TableName() string {
	return "repository_poll_states"
}
