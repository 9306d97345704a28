package services

import (
	"context"
	"fmt"

	"github.com/uteq/division-service/internal/app/models"
	"github.com/uteq/division-service/internal/app/models/dto"
	"github.com/uteq/division-service/internal/app/repositories"
)

// toDivisionView projects a division. Only active programs are listed and the
// count is derived from that list.
func toDivisionView(d *models.Division) dto.DivisionView {
	names := d.ActiveProgramNames()
	return dto.DivisionView{
		ID:           d.ID,
		Name:         d.Name,
		Programs:     names,
		Active:       d.Active,
		ProgramCount: len(names),
	}
}

func toDivisionViews(divisions []*models.Division) []dto.DivisionView {
	views := make([]dto.DivisionView, 0, len(divisions))
	for _, d := range divisions {
		views = append(views, toDivisionView(d))
	}
	return views
}

// toCoordinatorView projects a coordinator. The division name is set only when
// ref points to an active division.
func toCoordinatorView(c *models.Coordinator, ref *models.DivisionRef) dto.CoordinatorView {
	view := dto.CoordinatorView{
		ID:         c.ID,
		FirstName:  c.FirstName,
		LastName:   c.LastName,
		Email:      c.Email,
		Phone:      c.Phone,
		DivisionID: c.DivisionID,
		Active:     c.Active,
	}
	if ref != nil && ref.Active {
		view.DivisionName = ref.Name
	}
	return view
}

// projectCoordinators resolves every referenced division with one lookup
func projectCoordinators(ctx context.Context, divisions repositories.DivisionRepository, items []*models.Coordinator) ([]dto.CoordinatorView, error) {
	seen := make(map[int64]struct{}, len(items))
	ids := make([]int64, 0, len(items))
	for _, c := range items {
		if _, ok := seen[c.DivisionID]; !ok {
			seen[c.DivisionID] = struct{}{}
			ids = append(ids, c.DivisionID)
		}
	}

	refs, err := divisions.FindRefs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("error resolving coordinator divisions: %w", err)
	}

	views := make([]dto.CoordinatorView, 0, len(items))
	for _, c := range items {
		var ref *models.DivisionRef
		if r, ok := refs[c.DivisionID]; ok {
			ref = &r
		}
		views = append(views, toCoordinatorView(c, ref))
	}
	return views, nil
}
