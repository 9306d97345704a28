package services

import (
	"github.com/uteq/division-service/internal/app/repositories"
	"github.com/uteq/division-service/internal/pkg/cache"
)

// Services defined in this package:
// - ConsistencyGuard: uniqueness and division reference checks shared by both aggregates
// - DivisionService: divisions and their educational programs
// - CoordinatorService: coordinators and their division assignment
type Services struct {
	Guard              *ConsistencyGuard
	DivisionService    *DivisionService
	CoordinatorService *CoordinatorService
}

// NewServices wires every service over one repository set
func NewServices(repos *repositories.Repositories, views cache.Cache) *Services {
	guard := NewConsistencyGuard(repos.DivisionRepository, repos.CoordinatorRepository)
	return &Services{
		Guard:              guard,
		DivisionService:    NewDivisionService(repos.TxRunner, repos.DivisionRepository, guard, views),
		CoordinatorService: NewCoordinatorService(repos.TxRunner, repos.CoordinatorRepository, repos.DivisionRepository, guard),
	}
}
