package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/pixelgrove/photovaultbackend/models"
)

// UserRepository is the account directory consumed by the pipeline
type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *models.User) error {
	if err := r.DB.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user %s: %w", user.Email, err)
	}
	return nil
}

// GetByEmail looks up an account by its email identifier
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetFirstAdmin returns the oldest administrator account; it is the
// fallback owner identity for ingested assets
func (r *UserRepository) GetFirstAdmin() (*models.User, error) {
	var user models.User
	err := r.DB.Where("is_admin = ?", true).Order("id ASC").First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) ListAll() ([]models.User, error) {
	var users []models.User
	if err := r.DB.Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
