package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uteq/division-service/internal/app/models"
	"github.com/uteq/division-service/internal/app/repositories"
	"github.com/uteq/division-service/internal/app/repositories/memory"
	"github.com/uteq/division-service/internal/pkg/apperrors"
)

// Another writer commits the same name between the uniqueness check and the write.
type concurrentNameDivisions struct {
	repositories.DivisionRepository
}

func (concurrentNameDivisions) ExistsByNameIgnoreCase(context.Context, string, *int64) (bool, error) {
	return false, nil
}

func (concurrentNameDivisions) Create(context.Context, *models.Division) error {
	return repositories.ErrDuplicateKey
}

func (concurrentNameDivisions) Update(context.Context, *models.Division) error {
	return repositories.ErrDuplicateKey
}

// Same for coordinator emails.
type concurrentEmailCoordinators struct {
	repositories.CoordinatorRepository
}

func (concurrentEmailCoordinators) ExistsByEmailIgnoreCase(context.Context, string, *int64) (bool, error) {
	return false, nil
}

func (concurrentEmailCoordinators) Create(context.Context, *models.Coordinator) error {
	return repositories.ErrDuplicateKey
}

func (concurrentEmailCoordinators) Update(context.Context, *models.Coordinator) error {
	return repositories.ErrDuplicateKey
}

func seededStore(t *testing.T) (*memory.Store, *models.Division, *models.Coordinator) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	division := &models.Division{Name: "Engineering", Active: true}
	require.NoError(t, store.Divisions().Create(ctx, division))

	coordinator := &models.Coordinator{FirstName: "Ana", LastName: "López", Email: "ana@uteq.edu.mx", DivisionID: division.ID, Active: true}
	require.NoError(t, store.Coordinators().Create(ctx, coordinator))

	return store, division, coordinator
}

func TestDivisionService_StoreDuplicateKeyIsConflict(t *testing.T) {
	ctx := context.Background()
	store, division, _ := seededStore(t)

	divisions := concurrentNameDivisions{store.Divisions()}
	guard := NewConsistencyGuard(divisions, store.Coordinators())
	svc := NewDivisionService(store, divisions, guard, nil)

	_, err := svc.Create(ctx, DivisionInput{Name: "Sciences"})
	assert.True(t, apperrors.IsConflict(err), "create: %v", err)

	_, err = svc.Update(ctx, division.ID, DivisionInput{Name: "Sciences"})
	assert.True(t, apperrors.IsConflict(err), "update: %v", err)
}

func TestCoordinatorService_StoreDuplicateKeyIsConflict(t *testing.T) {
	ctx := context.Background()
	store, division, coordinator := seededStore(t)

	coordinators := concurrentEmailCoordinators{store.Coordinators()}
	guard := NewConsistencyGuard(store.Divisions(), coordinators)
	svc := NewCoordinatorService(store, coordinators, store.Divisions(), guard)

	input := CoordinatorInput{FirstName: "Luis", LastName: "Pérez", Email: "luis@uteq.edu.mx", DivisionID: division.ID}
	_, err := svc.Create(ctx, input)
	assert.True(t, apperrors.IsConflict(err), "create: %v", err)

	input.Active = boolPtr(true)
	_, err = svc.Update(ctx, coordinator.ID, input)
	assert.True(t, apperrors.IsConflict(err), "update: %v", err)
}
