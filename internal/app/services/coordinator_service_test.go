package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/uteq/division-service/internal/app/models"
	"github.com/uteq/division-service/internal/app/repositories"
	"github.com/uteq/division-service/internal/app/repositories/memory"
	"github.com/uteq/division-service/internal/pkg/apperrors"
)

type CoordinatorServiceSuite struct {
	suite.Suite
	ctx         context.Context
	repos       *repositories.Repositories
	divisions   *DivisionService
	svc         *CoordinatorService
	engineering int64
}

func (s *CoordinatorServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.repos = memory.NewRepositories()
	guard := NewConsistencyGuard(s.repos.DivisionRepository, s.repos.CoordinatorRepository)
	s.divisions = NewDivisionService(s.repos.TxRunner, s.repos.DivisionRepository, guard, nil)
	s.svc = NewCoordinatorService(s.repos.TxRunner, s.repos.CoordinatorRepository, s.repos.DivisionRepository, guard)

	d, err := s.divisions.Create(s.ctx, DivisionInput{Name: "Engineering"})
	s.Require().NoError(err)
	s.engineering = d.ID
}

func TestCoordinatorServiceSuite(t *testing.T) {
	suite.Run(t, new(CoordinatorServiceSuite))
}

func (s *CoordinatorServiceSuite) input(email string, divisionID int64) CoordinatorInput {
	phone := "4421234567"
	return CoordinatorInput{
		FirstName:  "Ana",
		LastName:   "López",
		Email:      email,
		Phone:      &phone,
		DivisionID: divisionID,
	}
}

func (s *CoordinatorServiceSuite) TestCreateResolvesDivisionName() {
	view, err := s.svc.Create(s.ctx, s.input("ana@uteq.edu.mx", s.engineering))
	s.Require().NoError(err)

	s.True(view.Active)
	s.Equal("Engineering", view.DivisionName)
	s.Equal(s.engineering, view.DivisionID)
	s.Require().NotNil(view.Phone)
	s.Equal("4421234567", *view.Phone)
}

func (s *CoordinatorServiceSuite) TestCreateRejectsPhoneWiderThanColumn() {
	in := s.input("ana@uteq.edu.mx", s.engineering)
	phone := "+12345678901234567890"
	in.Phone = &phone

	_, err := s.svc.Create(s.ctx, in)
	s.ErrorIs(err, apperrors.ErrValidationFailed)
}

func (s *CoordinatorServiceSuite) TestCreateWithMissingDivisionPersistsNothing() {
	_, err := s.svc.Create(s.ctx, s.input("ana@uteq.edu.mx", 999))
	s.ErrorIs(err, apperrors.ErrValidationFailed)

	all, err := s.svc.List(s.ctx)
	s.Require().NoError(err)
	s.Empty(all)
}

func (s *CoordinatorServiceSuite) TestCreateRejectsCaseInsensitiveEmail() {
	_, err := s.svc.Create(s.ctx, s.input("a@x.com", s.engineering))
	s.Require().NoError(err)

	_, err = s.svc.Create(s.ctx, s.input("A@X.COM", s.engineering))
	s.ErrorIs(err, apperrors.ErrConflict)
}

func (s *CoordinatorServiceSuite) TestConflictReportedBeforeMissingDivision() {
	_, err := s.svc.Create(s.ctx, s.input("a@x.com", s.engineering))
	s.Require().NoError(err)

	_, err = s.svc.Create(s.ctx, s.input("a@x.com", 999))
	s.ErrorIs(err, apperrors.ErrConflict)
	s.NotErrorIs(err, apperrors.ErrValidationFailed)
}

func (s *CoordinatorServiceSuite) TestUpdate() {
	created, err := s.svc.Create(s.ctx, s.input("ana@uteq.edu.mx", s.engineering))
	s.Require().NoError(err)
	other, err := s.svc.Create(s.ctx, s.input("luis@uteq.edu.mx", s.engineering))
	s.Require().NoError(err)
	arts, err := s.divisions.Create(s.ctx, DivisionInput{Name: "Arts"})
	s.Require().NoError(err)

	s.Run("missing coordinator", func() {
		in := s.input("x@uteq.edu.mx", s.engineering)
		in.Active = boolPtr(true)
		_, err := s.svc.Update(s.ctx, 999, in)
		s.ErrorIs(err, apperrors.ErrResourceNotFound)
	})

	s.Run("active flag is required", func() {
		_, err := s.svc.Update(s.ctx, created.ID, s.input("ana@uteq.edu.mx", s.engineering))
		s.ErrorIs(err, apperrors.ErrValidationFailed)
	})

	s.Run("email of another coordinator", func() {
		in := s.input("LUIS@uteq.edu.mx", s.engineering)
		in.Active = boolPtr(true)
		_, err := s.svc.Update(s.ctx, created.ID, in)
		s.ErrorIs(err, apperrors.ErrConflict)
	})

	s.Run("missing division", func() {
		in := s.input("ana@uteq.edu.mx", 999)
		in.Active = boolPtr(true)
		_, err := s.svc.Update(s.ctx, created.ID, in)
		s.ErrorIs(err, apperrors.ErrValidationFailed)
	})

	s.Run("overwrites every field", func() {
		in := CoordinatorInput{
			FirstName:  "Ana María",
			LastName:   "Ruiz",
			Email:      "ANA@uteq.edu.mx",
			DivisionID: arts.ID,
			Active:     boolPtr(false),
		}
		view, err := s.svc.Update(s.ctx, created.ID, in)
		s.Require().NoError(err)
		s.Equal("Ana María", view.FirstName)
		s.Equal("Ruiz", view.LastName)
		s.Equal("ANA@uteq.edu.mx", view.Email)
		s.Nil(view.Phone)
		s.Equal(arts.ID, view.DivisionID)
		s.Equal("Arts", view.DivisionName)
		s.False(view.Active)
	})

	unchanged, err := s.svc.GetByID(s.ctx, other.ID)
	s.Require().NoError(err)
	s.Equal("luis@uteq.edu.mx", unchanged.Email)
}

func (s *CoordinatorServiceSuite) TestDivisionNameHiddenWhenDivisionInactive() {
	created, err := s.svc.Create(s.ctx, s.input("ana@uteq.edu.mx", s.engineering))
	s.Require().NoError(err)

	deleted, err := s.divisions.Delete(s.ctx, s.engineering)
	s.Require().NoError(err)
	s.True(deleted)

	view, err := s.svc.GetByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Empty(view.DivisionName)
	s.Equal(s.engineering, view.DivisionID)
	s.True(view.Active, "deleting a division does not deactivate its coordinators")
}

func (s *CoordinatorServiceSuite) TestDeleteAndToggle() {
	created, err := s.svc.Create(s.ctx, s.input("ana@uteq.edu.mx", s.engineering))
	s.Require().NoError(err)

	once, err := s.svc.ToggleStatus(s.ctx, created.ID)
	s.Require().NoError(err)
	s.False(once.Active)
	twice, err := s.svc.ToggleStatus(s.ctx, created.ID)
	s.Require().NoError(err)
	s.True(twice.Active)

	deleted, err := s.svc.Delete(s.ctx, created.ID)
	s.Require().NoError(err)
	s.True(deleted)

	view, err := s.svc.GetByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.False(view.Active)

	division, err := s.divisions.GetByID(s.ctx, s.engineering)
	s.Require().NoError(err)
	s.True(division.Active)

	deleted, err = s.svc.Delete(s.ctx, 999)
	s.NoError(err)
	s.False(deleted)

	_, err = s.svc.ToggleStatus(s.ctx, 999)
	s.ErrorIs(err, apperrors.ErrResourceNotFound)
	_, err = s.svc.GetByID(s.ctx, 999)
	s.ErrorIs(err, apperrors.ErrResourceNotFound)
}

func (s *CoordinatorServiceSuite) TestListings() {
	arts, err := s.divisions.Create(s.ctx, DivisionInput{Name: "Arts"})
	s.Require().NoError(err)

	ana, err := s.svc.Create(s.ctx, s.input("ana@uteq.edu.mx", s.engineering))
	s.Require().NoError(err)
	_, err = s.svc.Create(s.ctx, s.input("luis@uteq.edu.mx", arts.ID))
	s.Require().NoError(err)
	_, err = s.svc.Create(s.ctx, s.input("eva@uteq.edu.mx", s.engineering))
	s.Require().NoError(err)
	_, err = s.svc.ToggleStatus(s.ctx, ana.ID)
	s.Require().NoError(err)

	all, err := s.svc.List(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 3)
	s.Equal("Engineering", all[0].DivisionName)
	s.Equal("Arts", all[1].DivisionName)

	active, err := s.svc.ListActive(s.ctx)
	s.Require().NoError(err)
	s.Len(active, 2)

	byDivision, err := s.svc.ListByDivision(s.ctx, s.engineering)
	s.Require().NoError(err)
	s.Len(byDivision, 2)

	page, err := s.svc.ListByDivisionPage(s.ctx, s.engineering, models.PageRequest{Page: 0, Size: 1, SortBy: "correo"})
	s.Require().NoError(err)
	s.Equal(int64(2), page.TotalItems)
	s.Require().Len(page.Items, 1)
	s.Equal("ana@uteq.edu.mx", page.Items[0].Email)

	activePage, err := s.svc.ListActivePage(s.ctx, models.PageRequest{Page: 1, Size: 1})
	s.Require().NoError(err)
	s.Equal(int64(2), activePage.TotalItems)
	s.Require().Len(activePage.Items, 1)

	_, err = s.svc.ListPage(s.ctx, models.PageRequest{Size: 5, SortBy: "phone"})
	s.ErrorIs(err, apperrors.ErrBadRequest)
}
