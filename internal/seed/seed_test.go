package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uteq/division-service/internal/app/repositories/memory"
	"github.com/uteq/division-service/internal/app/services"
)

func TestCreateDefaultDataIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svcs := services.NewServices(memory.NewRepositories(), nil)

	require.NoError(t, CreateDefaultData(ctx, svcs, zerolog.Nop()))
	require.NoError(t, CreateDefaultData(ctx, svcs, zerolog.Nop()))

	divisions, err := svcs.DivisionService.List(ctx)
	require.NoError(t, err)
	assert.Len(t, divisions, len(demoData))
	assert.Equal(t, 2, divisions[0].ProgramCount)

	coordinators, err := svcs.CoordinatorService.List(ctx)
	require.NoError(t, err)
	require.Len(t, coordinators, 2)
	assert.Equal(t, divisions[0].Name, coordinators[0].DivisionName)
}
