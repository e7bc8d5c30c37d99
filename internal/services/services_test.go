package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/resource-planning-api/internal/models"
	"github.com/yukikurage/resource-planning-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testNow is mid-morning on 2024-01-15; every service in the env reads it.
var testNow = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

type serviceEnv struct {
	db        *gorm.DB
	org       *models.Organization
	superuser *models.User

	orgRepo        repository.OrganizationRepository
	userRepo       repository.UserRepository
	projectRepo    repository.ProjectRepository
	personRepo     repository.PersonRepository
	assignmentRepo repository.AssignmentRepository

	orgs        *OrganizationService
	projects    *ProjectService
	people      *PersonService
	assignments *AssignmentService
	dashboard   *DashboardService
	export      *ExportService
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.OrganizationMember{},
		&models.OneTimeCode{},
		&models.Project{},
		&models.Person{},
		&models.Assignment{},
		&models.LeaveRecord{},
		&models.SyncState{},
	))
	return db
}

func newServiceEnv(t *testing.T) *serviceEnv {
	t.Helper()

	db := newTestDB(t)
	env := &serviceEnv{
		db:             db,
		orgRepo:        repository.NewOrganizationRepository(db),
		userRepo:       repository.NewUserRepository(db),
		projectRepo:    repository.NewProjectRepository(db),
		personRepo:     repository.NewPersonRepository(db),
		assignmentRepo: repository.NewAssignmentRepository(db),
	}

	env.orgs = NewOrganizationService(env.orgRepo, env.userRepo)
	env.orgs.now = fixedClock
	env.projects = NewProjectService(env.projectRepo)
	env.projects.now = fixedClock
	env.people = NewPersonService(env.personRepo)
	env.people.now = fixedClock
	env.assignments = NewAssignmentService(env.assignmentRepo, env.projectRepo, env.personRepo)
	env.assignments.now = fixedClock
	env.dashboard = NewDashboardService(env.projectRepo, env.personRepo)
	env.dashboard.now = fixedClock
	env.export = NewExportService(env.personRepo)
	env.export.now = fixedClock

	org, su, err := env.orgs.CreateOrganization(CreateOrganizationInput{
		Name:           "Acme",
		MaxUsers:       10,
		SuperuserEmail: "boss@acme.test",
		SuperuserName:  "Boss",
	})
	require.NoError(t, err)
	env.org = org
	env.superuser = su

	return env
}

func (e *serviceEnv) project(t *testing.T, name string, status models.ProjectStatus, start, end string) *models.Project {
	t.Helper()
	view, err := e.projects.CreateProject(e.org.ID, ProjectInput{
		Name:      name,
		Type:      models.ProjectTypeExternal,
		Status:    status,
		StartDate: start,
		EndDate:   end,
	})
	require.NoError(t, err)
	return &view.Project
}

func (e *serviceEnv) person(t *testing.T, name string) *models.Person {
	t.Helper()
	p, err := e.people.CreatePerson(e.org.ID, PersonInput{
		Name:         name,
		Role:         models.PersonRoleProjectAssociate,
		Availability: models.AvailabilityFullTime,
	})
	require.NoError(t, err)
	return p
}

func (e *serviceEnv) assign(t *testing.T, projectID, personID uint64, allocation any, start, end string) *models.Assignment {
	t.Helper()
	a, err := e.assignments.CreateAssignment(CreateAssignmentInput{
		OrganizationID: e.org.ID,
		ProjectID:      projectID,
		PersonID:       personID,
		Allocation:     allocation,
		StartDate:      start,
		EndDate:        end,
	})
	require.NoError(t, err)
	return a
}

// setStatus changes the stored status directly, bypassing edit corrections.
func (e *serviceEnv) setStatus(t *testing.T, projectID uint64, status models.ProjectStatus) {
	t.Helper()
	require.NoError(t, e.db.Model(&models.Project{}).Where("id = ?", projectID).Update("status", status).Error)
}
