package repository

import (
	"fmt"
	"path/filepath"

	"gorm.io/gorm"

	"github.com/pixelgrove/photovaultbackend/models"
)

// PollStateRepository persists per-repository change detection progress
type PollStateRepository struct {
	DB *gorm.DB
}

func NewPollStateRepository(db *gorm.DB) *PollStateRepository {
	return &PollStateRepository{DB: db}
}

// GetByPath loads the poll state for a repository path or initializes a
// fresh in-memory record (LastRevision nil) when none has been saved yet
func (r *PollStateRepository) GetByPath(repoPath string) (*models.RepositoryPollState, error) {
	cleanPath := filepath.ToSlash(repoPath)
	var state models.RepositoryPollState
	err := r.DB.Where("repo_path = ?", cleanPath).First(&state).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return &models.RepositoryPollState{RepoPath: cleanPath}, nil
		}
		return nil, fmt.Errorf("failed to load poll state for %s: %w", cleanPath, err)
	}
	return &state, nil
}

// Save upserts the poll state; called only after a fully successful poll
// so a failed cycle leaves the previous revision in place for retry
func (r *PollStateRepository) Save(state *models.RepositoryPollState) error {
	state.RepoPath = filepath.ToSlash(state.RepoPath)
	if err := r.DB.Save(state).Error; err != nil {
		return fmt.Errorf("failed to save poll state for %s: %w", state.RepoPath, err)
	}
	return nil
}
