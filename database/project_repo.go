package database

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mfolden/portfolio-backend/models"
)

type ProjectRepo struct {
	db *gorm.DB

	// onChange fires after every successful mutation; the Database wires
	// it to the watcher.
	onChange func()
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db: db}
}

// FindAllOrdered returns all projects newest-first, the order every
// consumer renders them in.
func (r *ProjectRepo) FindAllOrdered() ([]models.Project, error) {
	var projects []models.Project
	err := r.db.
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("created_at DESC").
		Find(&projects).Error
	return projects, err
}

// FindByID returns a project by its ID, or nil when no such record exists.
func (r *ProjectRepo) FindByID(id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&project, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Add inserts a new project with its tags.
func (r *ProjectRepo) Add(project *models.Project) error {
	if err := r.db.Create(project).Error; err != nil {
		return err
	}
	r.notify()
	return nil
}

// Update performs a full-record update of the fields the admin manages.
// Counters and creation metadata are never touched; tags are replaced
// wholesale to reflect the resubmitted set.
func (r *ProjectRepo) Update(project *models.Project) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.ProjectTag{}).Error; err != nil {
			return err
		}
		return tx.
			Omit("Views", "Likes", "OwnerID", "CreatedAt").
			Save(project).Error
	})
	if err != nil {
		return err
	}
	r.notify()
	return nil
}

// Delete removes a project by id. Irreversible; hosted media blobs are not
// garbage-collected.
func (r *ProjectRepo) Delete(id uuid.UUID) error {
	if err := r.db.Delete(&models.Project{}, "id = ?", id).Error; err != nil {
		return err
	}
	r.notify()
	return nil
}

// IncrementViews bumps the public view counter without loading the record.
func (r *ProjectRepo) IncrementViews(id uuid.UUID) error {
	return r.db.Model(&models.Project{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

func (r *ProjectRepo) notify() {
	if r.onChange != nil {
		r.onChange()
	}
}
