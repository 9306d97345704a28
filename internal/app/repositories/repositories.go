package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/uteq/division-service/internal/app/models"
	"github.com/uteq/division-service/internal/db"
	"github.com/uteq/division-service/internal/pkg/apperrors"
)

// Store-level errors shared by every implementation
var (
	// ErrNotFound is returned when a row with the requested id does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateKey is returned when a write violates a uniqueness constraint.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrUnsupportedSort is returned for a sort key outside the entity's whitelist.
	ErrUnsupportedSort = apperrors.NewBadRequestError("unsupported sort field")
)

// Sort keys accepted by paginated queries, mapped to their column.
// Both the request field names and the English names are accepted.
var (
	DivisionSortFields = map[string]string{
		"id":     "d.id",
		"nombre": "d.name",
		"name":   "d.name",
		"activo": "d.active",
		"active": "d.active",
	}
	CoordinatorSortFields = map[string]string{
		"id":         "c.id",
		"nombre":     "c.first_name",
		"firstName":  "c.first_name",
		"apellido":   "c.last_name",
		"lastName":   "c.last_name",
		"correo":     "c.email",
		"email":      "c.email",
		"divisionId": "c.division_id",
		"activo":     "c.active",
		"active":     "c.active",
	}
)

// SortColumn resolves a sort key against a whitelist
func SortColumn(fields map[string]string, key string) (string, error) {
	if key == "" {
		key = "id"
	}
	col, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedSort, key)
	}
	return col, nil
}

// TxRunner runs fn as one atomic unit of work. Repository calls made with the ctx
// handed to fn participate in the same transaction.
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// DivisionRepository persists divisions together with their owned programs
type DivisionRepository interface {
	Find(ctx context.Context, filter models.DivisionFilter) ([]*models.Division, error)
	FindPage(ctx context.Context, filter models.DivisionFilter, page models.PageRequest) (models.Page[*models.Division], error)
	FindByID(ctx context.Context, id int64) (*models.Division, error)
	// FindByIDForUpdate loads the division and locks it for the rest of the transaction.
	FindByIDForUpdate(ctx context.Context, id int64) (*models.Division, error)
	FindRefs(ctx context.Context, ids []int64) (map[int64]models.DivisionRef, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	ExistsByNameIgnoreCase(ctx context.Context, name string, excludeID *int64) (bool, error)
	// Create assigns ids to the division and each of its programs.
	Create(ctx context.Context, division *models.Division) error
	// Update writes name and active flag and replaces the whole program collection.
	Update(ctx context.Context, division *models.Division) error
	SetActive(ctx context.Context, id int64, active bool) error
	// Deactivate marks the division and every program it owns inactive.
	Deactivate(ctx context.Context, id int64) error
}

// CoordinatorRepository persists coordinators
type CoordinatorRepository interface {
	Find(ctx context.Context, filter models.CoordinatorFilter) ([]*models.Coordinator, error)
	FindPage(ctx context.Context, filter models.CoordinatorFilter, page models.PageRequest) (models.Page[*models.Coordinator], error)
	FindByID(ctx context.Context, id int64) (*models.Coordinator, error)
	FindByIDForUpdate(ctx context.Context, id int64) (*models.Coordinator, error)
	ExistsByEmailIgnoreCase(ctx context.Context, email string, excludeID *int64) (bool, error)
	Create(ctx context.Context, coordinator *models.Coordinator) error
	Update(ctx context.Context, coordinator *models.Coordinator) error
	SetActive(ctx context.Context, id int64, active bool) error
}

// Repositories holds all the repository instances
type Repositories struct {
	TxRunner              TxRunner
	DivisionRepository    DivisionRepository
	CoordinatorRepository CoordinatorRepository
}

// NewRepositories initializes the Postgres-backed repositories
func NewRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		TxRunner:              database,
		DivisionRepository:    NewDivisionRepository(database),
		CoordinatorRepository: NewCoordinatorRepository(database),
	}
}
