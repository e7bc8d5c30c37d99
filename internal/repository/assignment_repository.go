package repository

import (
	"github.com/yukikurage/resource-planning-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAssignmentRepository is a GORM implementation of AssignmentRepository
type GormAssignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository creates a new AssignmentRepository
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &GormAssignmentRepository{db: db}
}

// CreateUnique checks for an existing (project, person) pair and inserts inside
// one transaction. The unique index still decides under concurrent creators;
// its violation is translated to ErrDuplicate as well.
func (r *GormAssignmentRepository) CreateUnique(assignment *models.Assignment) error {
	return translateError(r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Assignment{}).
			Where("project_id = ? AND person_id = ?", assignment.ProjectID, assignment.PersonID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicate
		}

		return tx.Omit(clause.Associations).Create(assignment).Error
	}))
}

// FindByID finds an assignment whose project belongs to the organization
func (r *GormAssignmentRepository) FindByID(organizationID, id uint64) (*models.Assignment, error) {
	var assignment models.Assignment
	if err := r.db.Preload("Project").Preload("Person").
		Joins("JOIN projects ON projects.id = assignments.project_id").
		Where("projects.organization_id = ?", organizationID).
		First(&assignment, "assignments.id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &assignment, nil
}

// ListByPerson lists a person's assignments with their projects
func (r *GormAssignmentRepository) ListByPerson(personID uint64) ([]models.Assignment, error) {
	var assignments []models.Assignment
	if err := r.db.Preload("Project").
		Where("person_id = ?", personID).
		Order("start_date ASC, id ASC").
		Find(&assignments).Error; err != nil {
		return nil, translateError(err)
	}
	return assignments, nil
}

// ListByProject lists a project's assignments with their people and project
func (r *GormAssignmentRepository) ListByProject(projectID uint64) ([]models.Assignment, error) {
	var assignments []models.Assignment
	if err := r.db.Preload("Project").Preload("Person").
		Where("project_id = ?", projectID).
		Order("id ASC").
		Find(&assignments).Error; err != nil {
		return nil, translateError(err)
	}
	return assignments, nil
}

// ListByOrganization lists every assignment of an organization
func (r *GormAssignmentRepository) ListByOrganization(organizationID uint64) ([]models.Assignment, error) {
	var assignments []models.Assignment
	if err := r.db.Preload("Project").Preload("Person").
		Joins("JOIN projects ON projects.id = assignments.project_id").
		Where("projects.organization_id = ?", organizationID).
		Order("assignments.id ASC").
		Find(&assignments).Error; err != nil {
		return nil, translateError(err)
	}
	return assignments, nil
}

// Update updates allocation and dates; the pair itself is never moved
func (r *GormAssignmentRepository) Update(assignment *models.Assignment) error {
	return translateError(r.db.Model(assignment).
		Select("allocation", "start_date", "end_date", "updated_at").
		Updates(assignment).Error)
}

// Delete removes an assignment
func (r *GormAssignmentRepository) Delete(id uint64) error {
	res := r.db.Delete(&models.Assignment{}, id)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
