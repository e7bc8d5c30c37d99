package repository

import (
	"github.com/yukikurage/resource-planning-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(project *models.Project) error {
	return translateError(r.db.Omit(clause.Associations).Create(project).Error)
}

// FindByID finds a project by ID within an organization with optional preloading
func (r *GormProjectRepository) FindByID(organizationID, id uint64, preload ...string) (*models.Project, error) {
	var project models.Project
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.Where("organization_id = ?", organizationID).First(&project, id).Error; err != nil {
		return nil, translateError(err)
	}

	return &project, nil
}

// List retrieves projects with filtering and pagination. Assignments and their
// people are preloaded for team counts.
func (r *GormProjectRepository) List(filter ProjectFilter) ([]models.Project, int64, error) {
	var projects []models.Project

	query := r.db.Model(&models.Project{}).Where("projects.organization_id = ?", filter.OrganizationID)

	if filter.Status != nil {
		query = query.Where("projects.status = ?", *filter.Status)
	}
	if filter.Type != nil {
		query = query.Where("projects.project_type = ?", *filter.Type)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	listQuery := query.
		Order("projects.start_date DESC, projects.id DESC").
		Scopes(paginate(filter.Page, filter.PageSize))

	if err := listQuery.Preload("Assignments.Person").Find(&projects).Error; err != nil {
		return nil, 0, translateError(err)
	}

	return projects, total, nil
}

// Update updates a project
func (r *GormProjectRepository) Update(project *models.Project) error {
	return translateError(r.db.Omit(clause.Associations).Save(project).Error)
}

// Delete removes the project and its assignments in one transaction
func (r *GormProjectRepository) Delete(organizationID, id uint64) error {
	return translateError(r.db.Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := tx.Where("organization_id = ?", organizationID).First(&project, id).Error; err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", id).Delete(&models.Assignment{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Project{}, id).Error
	}))
}
