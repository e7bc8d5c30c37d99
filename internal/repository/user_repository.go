package repository

import (
	"errors"
	"fmt"

	"github.com/yukikurage/resource-planning-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

var (
	// ErrCreateUser is returned when creating a user fails inside the invite transaction.
	ErrCreateUser = errors.New("user repository: create user failed")
	// ErrCreateOrganizationMember is returned when creating the membership fails inside the invite transaction.
	ErrCreateOrganizationMember = errors.New("user repository: create organization member failed")
)

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return translateError(r.db.Create(user).Error)
}

// CreateWithMembership creates a user and their membership atomically.
func (r *GormUserRepository) CreateWithMembership(user *models.User, member *models.OrganizationMember) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("%w: %w", ErrCreateUser, translateError(err))
		}

		member.UserID = user.ID

		if err := tx.Omit("Organization", "User").Create(member).Error; err != nil {
			return fmt.Errorf("%w: %w", ErrCreateOrganizationMember, translateError(err))
		}

		return nil
	})
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// Update saves every column, including false booleans
func (r *GormUserRepository) Update(user *models.User) error {
	return translateError(r.db.Omit("Organizations").Save(user).Error)
}

// ListPlatformAdmins lists users with platform-wide admin rights
func (r *GormUserRepository) ListPlatformAdmins() ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("is_platform_admin = ?", true).Order("email ASC").Find(&users).Error; err != nil {
		return nil, translateError(err)
	}
	return users, nil
}
