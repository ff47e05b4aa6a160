package repository

import (
	"errors"

	"gorm.io/gorm"

	"clientdesk/internal/apperr"
	"clientdesk/internal/models"
	"clientdesk/internal/validation"
)

// ProjectRepository scopes every read and write by the caller's
// permissions: managers see and touch everything, owners only their own
// projects, anyone else nothing.
type ProjectRepository interface {
	List(caller *models.User) ([]models.Project, error)
	Get(caller *models.User, id uint) (*models.Project, error)
	Create(caller *models.User, f *validation.ProjectFields) (*models.Project, error)
	Update(caller *models.User, id uint, f *validation.ProjectFields) (*models.Project, error)
	Delete(caller *models.User, id uint) error
}

type projectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

// List returns projects in creation order, joined with client and owner.
// Callers with neither project permission get an empty list, not a denial:
// the route itself already required authentication.
func (r *projectRepository) List(caller *models.User) ([]models.Project, error) {
	q := r.db.Preload("Client").Preload("User").Preload("Files").Order("id asc")
	switch {
	case caller.Can(models.PermManageProjects):
	case caller.Can(models.PermViewOwnProjects):
		q = q.Where("user_id = ?", caller.ID)
	default:
		return []models.Project{}, nil
	}

	var projects []models.Project
	if err := q.Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *projectRepository) Get(caller *models.User, id uint) (*models.Project, error) {
	var project models.Project
	err := r.db.Preload("Client").Preload("User").Preload("Files").First(&project, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	if !caller.Can(models.PermManageProjects) && !caller.Owns(&project) {
		return nil, apperr.ErrForbidden
	}
	return &project, nil
}

func (r *projectRepository) Create(caller *models.User, f *validation.ProjectFields) (*models.Project, error) {
	project := models.Project{
		ClientID:    f.ClientID,
		UserID:      f.UserID,
		Title:       f.Title,
		Description: f.Description,
		Status:      f.Status,
		Deadline:    f.Deadline,
	}
	if err := r.db.Create(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) Update(caller *models.User, id uint, f *validation.ProjectFields) (*models.Project, error) {
	var project models.Project
	if err := r.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	if !caller.Can(models.PermManageProjects) && !caller.Owns(&project) {
		return nil, apperr.ErrForbidden
	}

	project.ClientID = f.ClientID
	project.UserID = f.UserID
	project.Title = f.Title
	project.Description = f.Description
	project.Status = f.Status
	project.Deadline = f.Deadline

	if err := r.db.Save(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// Delete is an elevated action: owners without "manage projects" are
// denied even for their own projects.
func (r *projectRepository) Delete(caller *models.User, id uint) error {
	if !caller.Can(models.PermManageProjects) {
		return apperr.ErrForbidden
	}

	var project models.Project
	if err := r.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrNotFound
		}
		return err
	}

	// attachment metadata goes with the project
	if err := r.db.Where("fileable_type = ? AND fileable_id = ?", "projects", project.ID).
		Delete(&models.File{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&project).Error
}
