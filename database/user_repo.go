package database

import (
	"errors"

	"gorm.io/gorm"

	"github.com/mfolden/portfolio-backend/models"
)

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db}
}

// FindByID returns the role record for an identity-provider subject id, or
// nil when no record exists.
func (r *UserRepo) FindByID(id string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Add inserts a role record.
func (r *UserRepo) Add(user *models.User) error {
	return r.db.Create(user).Error
}
