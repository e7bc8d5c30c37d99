package services

import (
	"strings"
	"time"

	"github.com/yukikurage/resource-planning-api/internal/models"
	"github.com/yukikurage/resource-planning-api/internal/planning"
	"github.com/yukikurage/resource-planning-api/internal/repository"
)

// PersonService handles people of an organization
type PersonService struct {
	personRepo repository.PersonRepository
	now        func() time.Time
}

// NewPersonService creates a new PersonService
func NewPersonService(personRepo repository.PersonRepository) *PersonService {
	return &PersonService{
		personRepo: personRepo,
		now:        time.Now,
	}
}

// PersonInput represents the editable fields of a person
type PersonInput struct {
	Name         string
	Role         models.PersonRole
	Availability models.Availability
}

// PersonView is a person with their allocation on the reference day.
type PersonView struct {
	Person            models.Person
	CurrentAllocation int
}

// CreatePerson validates and stores a person in the organization.
func (s *PersonService) CreatePerson(orgID uint64, input PersonInput) (*models.Person, error) {
	person, err := validatePersonInput(input)
	if err != nil {
		return nil, err
	}
	person.OrganizationID = orgID

	if err := s.personRepo.Create(person); err != nil {
		return nil, storageError("create person", err)
	}
	return person, nil
}

// GetPerson returns a person with their assignments and current allocation.
func (s *PersonService) GetPerson(orgID, personID uint64, on time.Time) (*PersonView, error) {
	person, err := s.personRepo.FindByID(orgID, personID, "Assignments.Project")
	if err != nil {
		return nil, lookupError("find person", err, ErrPersonNotFound)
	}
	return &PersonView{
		Person:            *person,
		CurrentAllocation: planning.TotalAllocation(person.Assignments, s.day(on)),
	}, nil
}

// ListPeople returns the organization's people by name with their allocation
// on the reference day.
func (s *PersonService) ListPeople(orgID uint64, on time.Time) ([]PersonView, error) {
	people, err := s.personRepo.List(orgID)
	if err != nil {
		return nil, storageError("list people", err)
	}

	day := s.day(on)
	views := make([]PersonView, 0, len(people))
	for _, p := range people {
		views = append(views, PersonView{
			Person:            p,
			CurrentAllocation: planning.TotalAllocation(p.Assignments, day),
		})
	}
	return views, nil
}

// UpdatePerson replaces a person's fields.
func (s *PersonService) UpdatePerson(orgID, personID uint64, input PersonInput) (*models.Person, error) {
	updated, err := validatePersonInput(input)
	if err != nil {
		return nil, err
	}

	person, err := s.personRepo.FindByID(orgID, personID)
	if err != nil {
		return nil, lookupError("find person", err, ErrPersonNotFound)
	}

	person.Name = updated.Name
	person.Role = updated.Role
	person.Availability = updated.Availability

	if err := s.personRepo.Update(person); err != nil {
		return nil, storageError("update person", err)
	}
	return person, nil
}

// DeletePerson removes a person and their assignments.
func (s *PersonService) DeletePerson(orgID, personID uint64) error {
	if err := s.personRepo.Delete(orgID, personID); err != nil {
		return lookupError("delete person", err, ErrPersonNotFound)
	}
	return nil
}

func (s *PersonService) day(on time.Time) time.Time {
	if on.IsZero() {
		return s.now()
	}
	return on
}

func validatePersonInput(input PersonInput) (*models.Person, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, newValidationError("name", "is required")
	}
	if !input.Role.Valid() {
		return nil, newValidationError("role", "unknown role %q", input.Role)
	}
	if !input.Availability.Valid() {
		return nil, newValidationError("availability", "must be Full-Time or Part-Time")
	}
	return &models.Person{
		Name:         name,
		Role:         input.Role,
		Availability: input.Availability,
	}, nil
}
