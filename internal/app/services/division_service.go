package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/uteq/division-service/internal/app/models"
	"github.com/uteq/division-service/internal/app/models/dto"
	"github.com/uteq/division-service/internal/app/repositories"
	"github.com/uteq/division-service/internal/pkg/apperrors"
	"github.com/uteq/division-service/internal/pkg/cache"
	"github.com/uteq/division-service/internal/pkg/logger"
)

// ProgramInput is one program in a create or update command
type ProgramInput struct {
	// ID keeps the identity of an existing program of the same division
	ID     *int64
	Name   string
	Active *bool
}

// DivisionInput is the full state supplied to create or replace a division
type DivisionInput struct {
	Name     string
	Programs []ProgramInput
}

// DivisionService manages divisions and the programs they own
type DivisionService struct {
	tx        repositories.TxRunner
	divisions repositories.DivisionRepository
	guard     *ConsistencyGuard
	views     cache.Cache
}

// NewDivisionService creates a new division service. A nil cache disables view caching.
func NewDivisionService(tx repositories.TxRunner, divisions repositories.DivisionRepository, guard *ConsistencyGuard, views cache.Cache) *DivisionService {
	if views == nil {
		views = cache.NoopCache{}
	}
	return &DivisionService{
		tx:        tx,
		divisions: divisions,
		guard:     guard,
		views:     views,
	}
}

func validateDivisionInput(input DivisionInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return apperrors.NewValidationError("division name must not be blank")
	}
	for i, p := range input.Programs {
		if strings.TrimSpace(p.Name) == "" {
			return apperrors.NewValidationError(fmt.Sprintf("program %d name must not be blank", i))
		}
	}
	return nil
}

func divisionNameConflict(name string) error {
	return apperrors.NewConflictError(fmt.Sprintf("a division named %q already exists", name))
}

// List returns every division ordered by id
func (s *DivisionService) List(ctx context.Context) ([]dto.DivisionView, error) {
	return s.find(ctx, models.DivisionFilter{})
}

// ListActive returns the active divisions ordered by id
func (s *DivisionService) ListActive(ctx context.Context) ([]dto.DivisionView, error) {
	return s.find(ctx, models.DivisionFilter{ActiveOnly: true})
}

// SearchByName returns divisions whose name contains substring, ignoring case
func (s *DivisionService) SearchByName(ctx context.Context, substring string) ([]dto.DivisionView, error) {
	return s.find(ctx, models.DivisionFilter{NameContains: strings.TrimSpace(substring)})
}

// ListPage returns one page of all divisions
func (s *DivisionService) ListPage(ctx context.Context, page models.PageRequest) (models.Page[dto.DivisionView], error) {
	return s.findPage(ctx, models.DivisionFilter{}, page)
}

// ListActivePage returns one page of active divisions
func (s *DivisionService) ListActivePage(ctx context.Context, page models.PageRequest) (models.Page[dto.DivisionView], error) {
	return s.findPage(ctx, models.DivisionFilter{ActiveOnly: true}, page)
}

// SearchByNamePage returns one page of divisions whose name contains substring
func (s *DivisionService) SearchByNamePage(ctx context.Context, substring string, page models.PageRequest) (models.Page[dto.DivisionView], error) {
	return s.findPage(ctx, models.DivisionFilter{NameContains: strings.TrimSpace(substring)}, page)
}

func (s *DivisionService) find(ctx context.Context, filter models.DivisionFilter) ([]dto.DivisionView, error) {
	divisions, err := s.divisions.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing divisions: %w", err)
	}
	return toDivisionViews(divisions), nil
}

func (s *DivisionService) findPage(ctx context.Context, filter models.DivisionFilter, page models.PageRequest) (models.Page[dto.DivisionView], error) {
	result, err := s.divisions.FindPage(ctx, filter, page)
	if err != nil {
		if errors.Is(err, apperrors.ErrBadRequest) {
			return models.Page[dto.DivisionView]{}, err
		}
		return models.Page[dto.DivisionView]{}, fmt.Errorf("error paginating divisions: %w", err)
	}
	return models.MapPage(result, toDivisionView), nil
}

// GetByID returns the division view, served from the view cache when possible
func (s *DivisionService) GetByID(ctx context.Context, id int64) (*dto.DivisionView, error) {
	key := cache.DivisionViewKey(id)

	var cached dto.DivisionView
	hit, err := s.views.Get(ctx, key, &cached)
	if err != nil {
		logger.Warn().Err(err).Int64("divisionID", id).Msg("Division view cache read failed")
	} else if hit {
		return &cached, nil
	}

	division, err := s.divisions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrDivisionNotFound
		}
		return nil, fmt.Errorf("error retrieving division: %w", err)
	}

	view := toDivisionView(division)
	if err := s.views.Fill(ctx, key, view); err != nil {
		logger.Warn().Err(err).Int64("divisionID", id).Msg("Division view cache write failed")
	}
	return &view, nil
}

// Create stores a new active division whose supplied programs are all active
func (s *DivisionService) Create(ctx context.Context, input DivisionInput) (*dto.DivisionView, error) {
	if err := validateDivisionInput(input); err != nil {
		return nil, err
	}

	division := &models.Division{
		Name:     strings.TrimSpace(input.Name),
		Active:   true,
		Programs: make([]models.Program, 0, len(input.Programs)),
	}
	for _, p := range input.Programs {
		division.Programs = append(division.Programs, models.Program{
			Name:   strings.TrimSpace(p.Name),
			Active: true,
		})
	}

	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		unique, err := s.guard.NameUnique(ctx, division.Name, nil)
		if err != nil {
			return err
		}
		if !unique {
			return divisionNameConflict(division.Name)
		}

		if err := s.divisions.Create(ctx, division); err != nil {
			if errors.Is(err, repositories.ErrDuplicateKey) {
				return divisionNameConflict(division.Name)
			}
			return fmt.Errorf("error creating division: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	view := toDivisionView(division)
	return &view, nil
}

// Update replaces the division's name and its whole program collection.
// A program keeps its id only when the id already belongs to this division.
func (s *DivisionService) Update(ctx context.Context, id int64, input DivisionInput) (*dto.DivisionView, error) {
	if err := validateDivisionInput(input); err != nil {
		return nil, err
	}

	var view dto.DivisionView
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		division, err := s.divisions.FindByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return apperrors.ErrDivisionNotFound
			}
			return fmt.Errorf("error retrieving division: %w", err)
		}

		name := strings.TrimSpace(input.Name)
		unique, err := s.guard.NameUnique(ctx, name, &id)
		if err != nil {
			return err
		}
		if !unique {
			return divisionNameConflict(name)
		}

		programs := make([]models.Program, 0, len(input.Programs))
		for _, p := range input.Programs {
			program := models.Program{Name: strings.TrimSpace(p.Name), Active: true}
			if p.ID != nil && division.HasProgram(*p.ID) {
				program.ID = *p.ID
			}
			if p.Active != nil {
				program.Active = *p.Active
			}
			programs = append(programs, program)
		}

		division.Name = name
		division.Programs = programs
		if err := s.divisions.Update(ctx, division); err != nil {
			if errors.Is(err, repositories.ErrDuplicateKey) {
				return divisionNameConflict(name)
			}
			return fmt.Errorf("error updating division: %w", err)
		}

		view = toDivisionView(division)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.evict(ctx, id)
	return &view, nil
}

// Delete soft deletes the division and deactivates all of its programs.
// It returns false when the division does not exist.
func (s *DivisionService) Delete(ctx context.Context, id int64) (bool, error) {
	deleted := false
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		if _, err := s.divisions.FindByIDForUpdate(ctx, id); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil
			}
			return fmt.Errorf("error retrieving division: %w", err)
		}

		if err := s.divisions.Deactivate(ctx, id); err != nil {
			return fmt.Errorf("error deleting division: %w", err)
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if deleted {
		s.evict(ctx, id)
	}
	return deleted, nil
}

// ToggleStatus flips the division's active flag. Programs are left untouched.
func (s *DivisionService) ToggleStatus(ctx context.Context, id int64) (*dto.DivisionView, error) {
	var view dto.DivisionView
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		division, err := s.divisions.FindByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return apperrors.ErrDivisionNotFound
			}
			return fmt.Errorf("error retrieving division: %w", err)
		}

		division.Active = !division.Active
		if err := s.divisions.SetActive(ctx, id, division.Active); err != nil {
			return fmt.Errorf("error toggling division status: %w", err)
		}

		view = toDivisionView(division)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.evict(ctx, id)
	return &view, nil
}

// evict invalidates the cached view after a committed write. The tombstone
// keeps a read that loaded the old row from filling the cache afterwards.
func (s *DivisionService) evict(ctx context.Context, id int64) {
	if err := s.views.Invalidate(ctx, cache.DivisionViewKey(id)); err != nil {
		logger.Warn().Err(err).Int64("divisionID", id).Msg("Division view cache eviction failed")
	}
}
