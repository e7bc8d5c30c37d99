package repository

import (
	"time"

	"github.com/yukikurage/resource-planning-api/internal/models"
	"gorm.io/gorm"
)

// GormOrganizationRepository is a GORM implementation of OrganizationRepository
type GormOrganizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository creates a new OrganizationRepository
func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &GormOrganizationRepository{db: db}
}

// Create creates a new organization
func (r *GormOrganizationRepository) Create(org *models.Organization) error {
	return translateError(r.db.Omit("Superuser").Create(org).Error)
}

// CreateWithSuperuser creates the superuser, the organization and the
// superuser membership atomically.
func (r *GormOrganizationRepository) CreateWithSuperuser(org *models.Organization, superuser *models.User) error {
	return translateError(r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Organizations").Create(superuser).Error; err != nil {
			return err
		}

		org.SuperuserID = superuser.ID
		if err := tx.Omit("Superuser").Create(org).Error; err != nil {
			return err
		}

		member := &models.OrganizationMember{
			OrganizationID: org.ID,
			UserID:         superuser.ID,
			Role:           models.RoleSuperuser,
			JoinedAt:       time.Now(),
		}
		return tx.Omit("Organization", "User").Create(member).Error
	}))
}

// FindByID finds an organization by ID
func (r *GormOrganizationRepository) FindByID(id uint64) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.First(&org, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &org, nil
}

// List returns every organization ordered by name
func (r *GormOrganizationRepository) List() ([]models.Organization, error) {
	var orgs []models.Organization
	if err := r.db.Preload("Superuser").Order("name ASC").Find(&orgs).Error; err != nil {
		return nil, translateError(err)
	}
	return orgs, nil
}

// Update updates an organization
func (r *GormOrganizationRepository) Update(org *models.Organization) error {
	return translateError(r.db.Omit("Superuser", "Members", "People", "Projects").Save(org).Error)
}

// AddMember adds a member to an organization
func (r *GormOrganizationRepository) AddMember(member *models.OrganizationMember) error {
	return translateError(r.db.Omit("Organization", "User").Create(member).Error)
}

// RemoveMember removes a member from an organization
func (r *GormOrganizationRepository) RemoveMember(organizationID, userID uint64) error {
	return translateError(r.db.Where("organization_id = ? AND user_id = ?", organizationID, userID).
		Delete(&models.OrganizationMember{}).Error)
}

// FindMember finds a specific organization member
func (r *GormOrganizationRepository) FindMember(organizationID, userID uint64) (*models.OrganizationMember, error) {
	var member models.OrganizationMember
	if err := r.db.Preload("Organization").
		Where("organization_id = ? AND user_id = ?", organizationID, userID).
		First(&member).Error; err != nil {
		return nil, translateError(err)
	}
	return &member, nil
}

// ListMembersByUserID lists all organizations a user is a member of
func (r *GormOrganizationRepository) ListMembersByUserID(userID uint64) ([]models.OrganizationMember, error) {
	var memberships []models.OrganizationMember
	if err := r.db.Preload("Organization").
		Where("user_id = ?", userID).
		Order("joined_at ASC").
		Find(&memberships).Error; err != nil {
		return nil, translateError(err)
	}
	return memberships, nil
}

// ListMembers lists all members of an organization
func (r *GormOrganizationRepository) ListMembers(organizationID uint64) ([]models.OrganizationMember, error) {
	var members []models.OrganizationMember
	if err := r.db.Preload("User").
		Where("organization_id = ?", organizationID).
		Order("joined_at ASC").
		Find(&members).Error; err != nil {
		return nil, translateError(err)
	}
	return members, nil
}

// CountMembers counts the members of an organization
func (r *GormOrganizationRepository) CountMembers(organizationID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.OrganizationMember{}).
		Where("organization_id = ?", organizationID).
		Count(&count).Error
	return count, translateError(err)
}
