package memory

import (
	"context"
	"math"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uteq/division-service/internal/app/models"
	"github.com/uteq/division-service/internal/app/repositories"
)

func newDivision(name string, programs ...string) *models.Division {
	d := &models.Division{Name: name, Active: true}
	for _, p := range programs {
		d.Programs = append(d.Programs, models.Program{Name: p, Active: true})
	}
	return d
}

func TestStore_CreateAssignsIDsAndPositions(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Divisions()

	d := newDivision("Engineering", "CS", "EE")
	require.NoError(t, repo.Create(ctx, d))

	assert.Equal(t, int64(1), d.ID)
	require.Len(t, d.Programs, 2)
	assert.Equal(t, int64(1), d.Programs[0].ID)
	assert.Equal(t, int64(2), d.Programs[1].ID)
	assert.Equal(t, 1, d.Programs[1].Position)
	assert.Equal(t, d.ID, d.Programs[0].DivisionID)

	stored, err := repo.FindByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"CS", "EE"}, stored.ActiveProgramNames())
}

func TestStore_FindByIDReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Divisions()
	d := newDivision("Engineering", "CS")
	require.NoError(t, repo.Create(ctx, d))

	got, err := repo.FindByID(ctx, d.ID)
	require.NoError(t, err)
	got.Programs[0].Name = "mutated"

	again, err := repo.FindByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "CS", again.Programs[0].Name)
}

func TestStore_DuplicateNameIgnoresCase(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Divisions()
	require.NoError(t, repo.Create(ctx, newDivision("Engineering")))

	err := repo.Create(ctx, newDivision("  ENGINEERING "))
	assert.ErrorIs(t, err, repositories.ErrDuplicateKey)

	exists, err := repo.ExistsByNameIgnoreCase(ctx, "engineering", nil)
	require.NoError(t, err)
	assert.True(t, exists)

	id := int64(1)
	exists, err = repo.ExistsByNameIgnoreCase(ctx, "engineering", &id)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStore_InTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	divisions := s.Divisions()
	boom := errors.New("boom")

	err := s.InTx(ctx, func(ctx context.Context) error {
		require.NoError(t, divisions.Create(ctx, newDivision("Engineering", "CS")))
		found, err := divisions.Find(ctx, models.DivisionFilter{})
		require.NoError(t, err)
		assert.Len(t, found, 1)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	all, err := divisions.Find(ctx, models.DivisionFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestStore_NestedInTxJoinsOuter(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	divisions := s.Divisions()

	err := s.InTx(ctx, func(ctx context.Context) error {
		return s.InTx(ctx, func(ctx context.Context) error {
			return divisions.Create(ctx, newDivision("Engineering"))
		})
	})
	require.NoError(t, err)

	exists, err := divisions.ExistsByID(ctx, 1)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestStore_DeactivateCascadesToPrograms(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Divisions()
	d := newDivision("Engineering", "CS", "EE")
	require.NoError(t, repo.Create(ctx, d))

	require.NoError(t, repo.Deactivate(ctx, d.ID))

	got, err := repo.FindByID(ctx, d.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
	assert.Empty(t, got.ActiveProgramNames())
	assert.ErrorIs(t, repo.Deactivate(ctx, 99), repositories.ErrNotFound)
}

func TestStore_FindPageSortsAndSlices(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Divisions()
	for _, name := range []string{"Zoology", "arts", "Medicine"} {
		require.NoError(t, repo.Create(ctx, newDivision(name)))
	}

	page, err := repo.FindPage(ctx, models.DivisionFilter{}, models.PageRequest{Page: 0, Size: 2, SortBy: "nombre"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalItems)
	assert.Equal(t, 2, page.TotalPages())
	require.Len(t, page.Items, 2)
	assert.Equal(t, "arts", page.Items[0].Name)
	assert.Equal(t, "Medicine", page.Items[1].Name)

	last, err := repo.FindPage(ctx, models.DivisionFilter{}, models.PageRequest{Page: 1, Size: 2, SortBy: "nombre"})
	require.NoError(t, err)
	require.Len(t, last.Items, 1)
	assert.Equal(t, "Zoology", last.Items[0].Name)

	beyond, err := repo.FindPage(ctx, models.DivisionFilter{}, models.PageRequest{Page: 5, Size: 2})
	require.NoError(t, err)
	assert.Empty(t, beyond.Items)
	assert.Equal(t, int64(3), beyond.TotalItems)
}

func TestStore_FindPageBeyondLastPageIsEmpty(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Divisions()
	require.NoError(t, repo.Create(ctx, newDivision("Engineering")))

	for _, page := range []int{5, math.MaxInt / 10, math.MaxInt} {
		result, err := repo.FindPage(ctx, models.DivisionFilter{}, models.PageRequest{Page: page, Size: 10, SortBy: "id"})
		require.NoError(t, err)
		assert.Empty(t, result.Items)
		assert.Equal(t, int64(1), result.TotalItems)
	}
}

func TestStore_FindPageRejectsUnknownSort(t *testing.T) {
	_, err := NewStore().Coordinators().FindPage(context.Background(), models.CoordinatorFilter{},
		models.PageRequest{Size: 10, SortBy: "password"})
	assert.ErrorIs(t, err, repositories.ErrUnsupportedSort)
}

func TestStore_CoordinatorFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Coordinators()
	require.NoError(t, repo.Create(ctx, &models.Coordinator{FirstName: "Ana", Email: "ana@uteq.edu", DivisionID: 1, Active: true}))
	require.NoError(t, repo.Create(ctx, &models.Coordinator{FirstName: "Luis", Email: "luis@uteq.edu", DivisionID: 2, Active: true}))
	require.NoError(t, repo.Create(ctx, &models.Coordinator{FirstName: "Eva", Email: "eva@uteq.edu", DivisionID: 1, Active: false}))

	divisionID := int64(1)
	byDivision, err := repo.Find(ctx, models.CoordinatorFilter{DivisionID: &divisionID})
	require.NoError(t, err)
	assert.Len(t, byDivision, 2)

	active, err := repo.Find(ctx, models.CoordinatorFilter{ActiveOnly: true, DivisionID: &divisionID})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Ana", active[0].FirstName)

	err = repo.Create(ctx, &models.Coordinator{FirstName: "Dup", Email: "ANA@uteq.edu", DivisionID: 1})
	assert.ErrorIs(t, err, repositories.ErrDuplicateKey)
}
