package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/resource-planning-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	err = db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.OrganizationMember{},
		&models.OneTimeCode{},
		&models.Project{},
		&models.Person{},
		&models.Assignment{},
		&models.LeaveRecord{},
		&models.SyncState{},
	)
	require.NoError(t, err)

	return db
}

type fixtures struct {
	t   *testing.T
	db  *gorm.DB
	org *models.Organization
}

func newFixtures(t *testing.T, db *gorm.DB) *fixtures {
	t.Helper()

	user := &models.User{Email: "owner@example.com", Name: "Owner"}
	require.NoError(t, db.Create(user).Error)

	org := &models.Organization{Name: "Acme", SuperuserID: user.ID}
	require.NoError(t, db.Omit("Superuser").Create(org).Error)

	return &fixtures{t: t, db: db, org: org}
}

func (f *fixtures) day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	require.NoError(f.t, err)
	return d
}

func (f *fixtures) project(name string, status models.ProjectStatus) *models.Project {
	p := &models.Project{
		Name:           name,
		Type:           models.ProjectTypeExternal,
		Status:         status,
		StartDate:      f.day("2024-01-01"),
		EndDate:        f.day("2024-01-31"),
		OrganizationID: f.org.ID,
	}
	require.NoError(f.t, f.db.Omit("Organization", "Assignments").Create(p).Error)
	return p
}

func (f *fixtures) person(name string) *models.Person {
	p := &models.Person{
		Name:           name,
		Role:           models.PersonRoleProjectManager,
		Availability:   models.AvailabilityFullTime,
		OrganizationID: f.org.ID,
	}
	require.NoError(f.t, f.db.Omit("Organization", "Assignments").Create(p).Error)
	return p
}

func (f *fixtures) assignment(projectID, personID uint64, allocation int) *models.Assignment {
	a := &models.Assignment{
		ProjectID:  projectID,
		PersonID:   personID,
		Allocation: allocation,
		StartDate:  f.day("2024-01-01"),
		EndDate:    f.day("2024-01-31"),
	}
	require.NoError(f.t, f.db.Omit("Project", "Person").Create(a).Error)
	return a
}
