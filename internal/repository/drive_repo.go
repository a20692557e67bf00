package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/hireloop/hireloop-api/internal/models"
)

// DriveRepository reads hiring drives. Drive CRUD lives elsewhere in the
// platform; the grading engine only needs lookups.
type DriveRepository interface {
	GetByID(ctx context.Context, id uint) (models.Drive, error)
}

// NewDriveRepository constructs a read-only drive repository.
func NewDriveRepository(db *gorm.DB) DriveRepository {
	return &driveRepository{db: db}
}

type driveRepository struct {
	db *gorm.DB
}

func (r *driveRepository) GetByID(ctx context.Context, id uint) (models.Drive, error) {
	var drive models.Drive
	if err := r.db.WithContext(ctx).First(&drive, id).Error; err != nil {
		return models.Drive{}, err
	}
	return drive, nil
}
