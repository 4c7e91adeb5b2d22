package database

import (
	"gorm.io/gorm"

	"github.com/mfolden/portfolio-backend/models"
)

type Database struct {
	projectRepo *ProjectRepo
	userRepo    *UserRepo
	watcher     *Watcher
}

// New initializes a new Database struct with each repository using a shared
// GORM database instance. Project mutations are wired into the watcher so
// every subscriber gets a fresh snapshot after each write.
func New(db *gorm.DB) Database {
	projectRepo := NewProjectRepo(db)
	watcher := NewWatcher(projectRepo)
	projectRepo.onChange = watcher.Publish

	return Database{
		projectRepo: projectRepo,
		userRepo:    NewUserRepo(db),
		watcher:     watcher,
	}
}

// Accessor methods for each repository

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) Watcher() *Watcher {
	return d.watcher
}

// Migrate brings the schema up to date.
func (d Database) Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Project{}, &models.ProjectTag{}, &models.User{})
}
