package services

import (
	"context"
	"fmt"

	"github.com/uteq/division-service/internal/app/repositories"
)

// ConsistencyGuard answers the uniqueness and referential questions shared by both
// aggregates. Callers check uniqueness before the division reference so that a request
// violating both rules always reports the conflict.
type ConsistencyGuard struct {
	divisions    repositories.DivisionRepository
	coordinators repositories.CoordinatorRepository
}

// NewConsistencyGuard creates a new guard over the given repositories
func NewConsistencyGuard(divisions repositories.DivisionRepository, coordinators repositories.CoordinatorRepository) *ConsistencyGuard {
	return &ConsistencyGuard{divisions: divisions, coordinators: coordinators}
}

// NameUnique reports whether no division other than excludeID uses name, ignoring case
func (g *ConsistencyGuard) NameUnique(ctx context.Context, name string, excludeID *int64) (bool, error) {
	exists, err := g.divisions.ExistsByNameIgnoreCase(ctx, name, excludeID)
	if err != nil {
		return false, fmt.Errorf("error checking division name uniqueness: %w", err)
	}
	return !exists, nil
}

// EmailUnique reports whether no coordinator other than excludeID uses email, ignoring case
func (g *ConsistencyGuard) EmailUnique(ctx context.Context, email string, excludeID *int64) (bool, error) {
	exists, err := g.coordinators.ExistsByEmailIgnoreCase(ctx, email, excludeID)
	if err != nil {
		return false, fmt.Errorf("error checking coordinator email uniqueness: %w", err)
	}
	return !exists, nil
}

// DivisionExists reports whether a division with id exists, active or not
func (g *ConsistencyGuard) DivisionExists(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, nil
	}
	exists, err := g.divisions.ExistsByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("error checking division existence: %w", err)
	}
	return exists, nil
}
