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
	"github.com/uteq/division-service/internal/pkg/validation"
)

// CoordinatorInput is the full state supplied to create or replace a coordinator.
// Active is ignored on create and required on update.
type CoordinatorInput struct {
	FirstName  string
	LastName   string
	Email      string
	Phone      *string
	DivisionID int64
	Active     *bool
}

// CoordinatorService manages coordinators and their division assignment
type CoordinatorService struct {
	tx           repositories.TxRunner
	coordinators repositories.CoordinatorRepository
	divisions    repositories.DivisionRepository
	guard        *ConsistencyGuard
}

// NewCoordinatorService creates a new coordinator service
func NewCoordinatorService(tx repositories.TxRunner, coordinators repositories.CoordinatorRepository, divisions repositories.DivisionRepository, guard *ConsistencyGuard) *CoordinatorService {
	return &CoordinatorService{
		tx:           tx,
		coordinators: coordinators,
		divisions:    divisions,
		guard:        guard,
	}
}

var errDivisionMissing = apperrors.NewValidationError("division does not exist")

func emailConflict(email string) error {
	return apperrors.NewConflictError(fmt.Sprintf("a coordinator with email %q already exists", email))
}

func validateCoordinatorInput(input CoordinatorInput) error {
	switch {
	case strings.TrimSpace(input.FirstName) == "":
		return apperrors.NewValidationError("coordinator first name must not be blank")
	case strings.TrimSpace(input.LastName) == "":
		return apperrors.NewValidationError("coordinator last name must not be blank")
	case strings.TrimSpace(input.Email) == "":
		return apperrors.NewValidationError("coordinator email must not be blank")
	case input.Phone != nil && strings.TrimSpace(*input.Phone) != "" && !validation.IsPhone(*input.Phone):
		return apperrors.NewValidationError("coordinator phone is not a valid phone number")
	}
	return nil
}

// normalizePhone maps a blank phone to nil
func normalizePhone(phone *string) *string {
	if phone == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*phone)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// List returns every coordinator ordered by id
func (s *CoordinatorService) List(ctx context.Context) ([]dto.CoordinatorView, error) {
	return s.find(ctx, models.CoordinatorFilter{})
}

// ListActive returns the active coordinators ordered by id
func (s *CoordinatorService) ListActive(ctx context.Context) ([]dto.CoordinatorView, error) {
	return s.find(ctx, models.CoordinatorFilter{ActiveOnly: true})
}

// ListByDivision returns the coordinators assigned to divisionID, active or not
func (s *CoordinatorService) ListByDivision(ctx context.Context, divisionID int64) ([]dto.CoordinatorView, error) {
	return s.find(ctx, models.CoordinatorFilter{DivisionID: &divisionID})
}

// ListPage returns one page of all coordinators
func (s *CoordinatorService) ListPage(ctx context.Context, page models.PageRequest) (models.Page[dto.CoordinatorView], error) {
	return s.findPage(ctx, models.CoordinatorFilter{}, page)
}

// ListActivePage returns one page of active coordinators
func (s *CoordinatorService) ListActivePage(ctx context.Context, page models.PageRequest) (models.Page[dto.CoordinatorView], error) {
	return s.findPage(ctx, models.CoordinatorFilter{ActiveOnly: true}, page)
}

// ListByDivisionPage returns one page of the coordinators assigned to divisionID
func (s *CoordinatorService) ListByDivisionPage(ctx context.Context, divisionID int64, page models.PageRequest) (models.Page[dto.CoordinatorView], error) {
	return s.findPage(ctx, models.CoordinatorFilter{DivisionID: &divisionID}, page)
}

func (s *CoordinatorService) find(ctx context.Context, filter models.CoordinatorFilter) ([]dto.CoordinatorView, error) {
	items, err := s.coordinators.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing coordinators: %w", err)
	}
	return projectCoordinators(ctx, s.divisions, items)
}

func (s *CoordinatorService) findPage(ctx context.Context, filter models.CoordinatorFilter, page models.PageRequest) (models.Page[dto.CoordinatorView], error) {
	result, err := s.coordinators.FindPage(ctx, filter, page)
	if err != nil {
		if errors.Is(err, apperrors.ErrBadRequest) {
			return models.Page[dto.CoordinatorView]{}, err
		}
		return models.Page[dto.CoordinatorView]{}, fmt.Errorf("error paginating coordinators: %w", err)
	}

	views, err := projectCoordinators(ctx, s.divisions, result.Items)
	if err != nil {
		return models.Page[dto.CoordinatorView]{}, err
	}
	return models.Page[dto.CoordinatorView]{
		Items:      views,
		Page:       result.Page,
		Size:       result.Size,
		TotalItems: result.TotalItems,
	}, nil
}

// GetByID returns the coordinator view
func (s *CoordinatorService) GetByID(ctx context.Context, id int64) (*dto.CoordinatorView, error) {
	coordinator, err := s.coordinators.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrCoordinatorNotFound
		}
		return nil, fmt.Errorf("error retrieving coordinator: %w", err)
	}
	return s.view(ctx, coordinator)
}

func (s *CoordinatorService) view(ctx context.Context, c *models.Coordinator) (*dto.CoordinatorView, error) {
	views, err := projectCoordinators(ctx, s.divisions, []*models.Coordinator{c})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// checkAssignment runs the email uniqueness check and then the division reference check
func (s *CoordinatorService) checkAssignment(ctx context.Context, email string, divisionID int64, excludeID *int64) error {
	unique, err := s.guard.EmailUnique(ctx, email, excludeID)
	if err != nil {
		return err
	}
	if !unique {
		return emailConflict(email)
	}

	exists, err := s.guard.DivisionExists(ctx, divisionID)
	if err != nil {
		return err
	}
	if !exists {
		return errDivisionMissing
	}
	return nil
}

// Create stores a new active coordinator assigned to an existing division
func (s *CoordinatorService) Create(ctx context.Context, input CoordinatorInput) (*dto.CoordinatorView, error) {
	if err := validateCoordinatorInput(input); err != nil {
		return nil, err
	}

	coordinator := &models.Coordinator{
		FirstName:  strings.TrimSpace(input.FirstName),
		LastName:   strings.TrimSpace(input.LastName),
		Email:      strings.TrimSpace(input.Email),
		Phone:      normalizePhone(input.Phone),
		DivisionID: input.DivisionID,
		Active:     true,
	}

	var view *dto.CoordinatorView
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.checkAssignment(ctx, coordinator.Email, coordinator.DivisionID, nil); err != nil {
			return err
		}

		if err := s.coordinators.Create(ctx, coordinator); err != nil {
			if errors.Is(err, repositories.ErrDuplicateKey) {
				return emailConflict(coordinator.Email)
			}
			return fmt.Errorf("error creating coordinator: %w", err)
		}

		var err error
		view, err = s.view(ctx, coordinator)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Update overwrites every mutable field of the coordinator, including the active flag
func (s *CoordinatorService) Update(ctx context.Context, id int64, input CoordinatorInput) (*dto.CoordinatorView, error) {
	if err := validateCoordinatorInput(input); err != nil {
		return nil, err
	}
	if input.Active == nil {
		return nil, apperrors.NewValidationError("coordinator active flag is required")
	}

	var view *dto.CoordinatorView
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		coordinator, err := s.coordinators.FindByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return apperrors.ErrCoordinatorNotFound
			}
			return fmt.Errorf("error retrieving coordinator: %w", err)
		}

		email := strings.TrimSpace(input.Email)
		if err := s.checkAssignment(ctx, email, input.DivisionID, &id); err != nil {
			return err
		}

		coordinator.FirstName = strings.TrimSpace(input.FirstName)
		coordinator.LastName = strings.TrimSpace(input.LastName)
		coordinator.Email = email
		coordinator.Phone = normalizePhone(input.Phone)
		coordinator.DivisionID = input.DivisionID
		coordinator.Active = *input.Active

		if err := s.coordinators.Update(ctx, coordinator); err != nil {
			if errors.Is(err, repositories.ErrDuplicateKey) {
				return emailConflict(email)
			}
			return fmt.Errorf("error updating coordinator: %w", err)
		}

		view, err = s.view(ctx, coordinator)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Delete soft deletes the coordinator. It returns false when the coordinator does not
// exist. The assigned division is not touched.
func (s *CoordinatorService) Delete(ctx context.Context, id int64) (bool, error) {
	deleted := false
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		if _, err := s.coordinators.FindByIDForUpdate(ctx, id); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil
			}
			return fmt.Errorf("error retrieving coordinator: %w", err)
		}

		if err := s.coordinators.SetActive(ctx, id, false); err != nil {
			return fmt.Errorf("error deleting coordinator: %w", err)
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// ToggleStatus flips the coordinator's active flag
func (s *CoordinatorService) ToggleStatus(ctx context.Context, id int64) (*dto.CoordinatorView, error) {
	var view *dto.CoordinatorView
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		coordinator, err := s.coordinators.FindByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return apperrors.ErrCoordinatorNotFound
			}
			return fmt.Errorf("error retrieving coordinator: %w", err)
		}

		coordinator.Active = !coordinator.Active
		if err := s.coordinators.SetActive(ctx, id, coordinator.Active); err != nil {
			return fmt.Errorf("error toggling coordinator status: %w", err)
		}

		view, err = s.view(ctx, coordinator)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}
