package repository

import (
	"github.com/yukikurage/resource-planning-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPersonRepository is a GORM implementation of PersonRepository
type GormPersonRepository struct {
	db *gorm.DB
}

// NewPersonRepository creates a new PersonRepository
func NewPersonRepository(db *gorm.DB) PersonRepository {
	return &GormPersonRepository{db: db}
}

func (r *GormPersonRepository) Create(person *models.Person) error {
	return translateError(r.db.Omit(clause.Associations).Create(person).Error)
}

func (r *GormPersonRepository) FindByID(organizationID, id uint64, preload ...string) (*models.Person, error) {
	var person models.Person
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.Where("organization_id = ?", organizationID).First(&person, id).Error; err != nil {
		return nil, translateError(err)
	}

	return &person, nil
}

// List lists people by name with assignments and their projects preloaded
func (r *GormPersonRepository) List(organizationID uint64) ([]models.Person, error) {
	var people []models.Person
	if err := r.db.Preload("Assignments.Project").
		Where("organization_id = ?", organizationID).
		Order("name ASC").
		Find(&people).Error; err != nil {
		return nil, translateError(err)
	}
	return people, nil
}

// ListUnassigned lists people of the organization not yet assigned to the project
func (r *GormPersonRepository) ListUnassigned(organizationID, projectID uint64) ([]models.Person, error) {
	var people []models.Person

	assigned := r.db.Model(&models.Assignment{}).
		Select("1").
		Where("assignments.person_id = people.id").
		Where("assignments.project_id = ?", projectID)

	if err := r.db.Where("people.organization_id = ?", organizationID).
		Where("NOT EXISTS (?)", assigned).
		Order("people.name ASC").
		Find(&people).Error; err != nil {
		return nil, translateError(err)
	}
	return people, nil
}

func (r *GormPersonRepository) Update(person *models.Person) error {
	return translateError(r.db.Omit(clause.Associations).Save(person).Error)
}

// Delete removes the person and their assignments in one transaction
func (r *GormPersonRepository) Delete(organizationID, id uint64) error {
	return translateError(r.db.Transaction(func(tx *gorm.DB) error {
		var person models.Person
		if err := tx.Where("organization_id = ?", organizationID).First(&person, id).Error; err != nil {
			return err
		}

		if err := tx.Where("person_id = ?", id).Delete(&models.Assignment{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Person{}, id).Error
	}))
}
