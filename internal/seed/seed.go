package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/uteq/division-service/internal/app/services"
	"github.com/uteq/division-service/internal/pkg/apperrors"
)

type demoDivision struct {
	name         string
	programs     []string
	coordinators []services.CoordinatorInput
}

func phone(value string) *string { return &value }

var demoData = []demoDivision{
	{
		name:     "División de Tecnologías de la Información",
		programs: []string{"Ingeniería en Desarrollo de Software", "Ingeniería en Redes Inteligentes y Ciberseguridad"},
		coordinators: []services.CoordinatorInput{
			{FirstName: "Ana", LastName: "López", Email: "ana.lopez@uteq.edu.mx", Phone: phone("4421234567")},
		},
	},
	{
		name:     "División Industrial",
		programs: []string{"Ingeniería en Mantenimiento Industrial", "Ingeniería en Procesos y Operaciones Industriales"},
		coordinators: []services.CoordinatorInput{
			{FirstName: "Carlos", LastName: "Hernández", Email: "carlos.hernandez@uteq.edu.mx"},
		},
	},
	{
		name:     "División Económico Administrativa",
		programs: []string{"Licenciatura en Gestión de Negocios"},
	},
}

// CreateDefaultData creates demo divisions and coordinators through the services.
// Entries that already exist are skipped, so it is safe to run on every start.
func CreateDefaultData(ctx context.Context, svcs *services.Services, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (Divisions/Coordinators)...")
	var finalErr error

	existing, err := svcs.DivisionService.List(ctx)
	if err != nil {
		return err
	}
	byName := make(map[string]int64, len(existing))
	for _, d := range existing {
		byName[d.Name] = d.ID
	}

	for _, demo := range demoData {
		divisionID, ok := byName[demo.name]
		if !ok {
			input := services.DivisionInput{Name: demo.name}
			for _, p := range demo.programs {
				input.Programs = append(input.Programs, services.ProgramInput{Name: p})
			}
			view, err := svcs.DivisionService.Create(ctx, input)
			if err != nil {
				lgr.Error().Err(err).Str("division", demo.name).Msg("Error creating demo division")
				finalErr = errors.Join(finalErr, err)
				continue
			}
			divisionID = view.ID
		}

		for _, c := range demo.coordinators {
			c.DivisionID = divisionID
			if _, err := svcs.CoordinatorService.Create(ctx, c); err != nil && !errors.Is(err, apperrors.ErrConflict) {
				lgr.Error().Err(err).Str("email", c.Email).Msg("Error creating demo coordinator")
				finalErr = errors.Join(finalErr, err)
			}
		}
	}

	if finalErr == nil {
		lgr.Info().Msg("Default data ready")
	}
	return finalErr
}
