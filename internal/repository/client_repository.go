package repository

import (
	"errors"

	"gorm.io/gorm"

	"clientdesk/internal/apperr"
	"clientdesk/internal/models"
	"clientdesk/internal/validation"
)

// ClientRepository is the validated write path for clients. Rows are only
// created or mutated through it, and every mutation re-checks the caller's
// permission at the boundary.
type ClientRepository interface {
	List(caller *models.User, opts ClientListOptions) ([]models.Client, error)
	Get(caller *models.User, id uint) (*models.Client, error)
	Create(caller *models.User, in validation.ClientInput) (*models.Client, error)
	Update(caller *models.User, id uint, in validation.ClientInput) (*models.Client, error)
	SoftDelete(caller *models.User, id uint) error
	ListProjects(caller *models.User, clientID uint) ([]models.Project, error)
}

type ClientListOptions struct {
	Status         models.ClientStatus // empty matches every status
	IncludeTrashed bool                // administrative recovery flows
}

type clientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) List(caller *models.User, opts ClientListOptions) ([]models.Client, error) {
	if !caller.Can(models.PermManageClients) {
		return nil, apperr.ErrForbidden
	}

	q := r.db.Order("name asc")
	if opts.IncludeTrashed {
		q = q.Unscoped()
	}
	if opts.Status != "" {
		q = q.Where("status = ?", opts.Status)
	}

	var clients []models.Client
	if err := q.Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *clientRepository) Get(caller *models.User, id uint) (*models.Client, error) {
	if !caller.Can(models.PermManageClients) {
		return nil, apperr.ErrForbidden
	}

	var client models.Client
	if err := r.db.Preload("Projects").First(&client, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) Create(caller *models.User, in validation.ClientInput) (*models.Client, error) {
	if !caller.Can(models.PermManageClients) {
		return nil, apperr.ErrForbidden
	}

	client := models.Client{
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Company: in.Company,
		Address: in.Address,
		Status:  models.ClientStatus(in.Status),
	}
	if err := r.db.Create(&client).Error; err != nil {
		return nil, translateConstraint(err)
	}
	return &client, nil
}

func (r *clientRepository) Update(caller *models.User, id uint, in validation.ClientInput) (*models.Client, error) {
	if !caller.Can(models.PermManageClients) {
		return nil, apperr.ErrForbidden
	}

	var client models.Client
	if err := r.db.First(&client, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}

	client.Name = in.Name
	client.Email = in.Email
	client.Phone = in.Phone
	client.Company = in.Company
	client.Address = in.Address
	client.Status = models.ClientStatus(in.Status)

	if err := r.db.Save(&client).Error; err != nil {
		return nil, translateConstraint(err)
	}
	return &client, nil
}

// SoftDelete marks the client deleted. Calling it again for the same id
// returns ErrNotFound: the record no longer resolves on the live path.
func (r *clientRepository) SoftDelete(caller *models.User, id uint) error {
	if !caller.Can(models.PermManageClients) {
		return apperr.ErrForbidden
	}

	res := r.db.Delete(&models.Client{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *clientRepository) ListProjects(caller *models.User, clientID uint) ([]models.Project, error) {
	if !caller.Can(models.PermManageClients) {
		return nil, apperr.ErrForbidden
	}

	var count int64
	if err := r.db.Model(&models.Client{}).Where("id = ?", clientID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, apperr.ErrNotFound
	}

	var projects []models.Project
	if err := r.db.Where("client_id = ?", clientID).Order("id asc").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}
