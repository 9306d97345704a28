package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/uteq/division-service/internal/app/models"
	"github.com/uteq/division-service/internal/app/repositories"
)

// DivisionRepository is the in-memory repositories.DivisionRepository
type DivisionRepository struct {
	store *Store
}

var _ repositories.DivisionRepository = (*DivisionRepository)(nil)

func matchDivision(d models.Division, filter models.DivisionFilter) bool {
	if filter.ActiveOnly && !d.Active {
		return false
	}
	if filter.NameContains != "" &&
		!strings.Contains(strings.ToLower(d.Name), strings.ToLower(filter.NameContains)) {
		return false
	}
	return true
}

func divisionLess(column string) func(a, b *models.Division) bool {
	byID := func(a, b *models.Division) bool { return a.ID < b.ID }
	switch column {
	case "d.name":
		return func(a, b *models.Division) bool {
			an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
			if an != bn {
				return an < bn
			}
			return byID(a, b)
		}
	case "d.active":
		return func(a, b *models.Division) bool {
			if a.Active != b.Active {
				return !a.Active
			}
			return byID(a, b)
		}
	default:
		return byID
	}
}

func (r *DivisionRepository) collect(st *state, filter models.DivisionFilter, less func(a, b *models.Division) bool) []*models.Division {
	out := []*models.Division{}
	for _, d := range st.divisions {
		if matchDivision(d, filter) {
			cp := cloneDivision(d)
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// Find returns every division matching filter ordered by id
func (r *DivisionRepository) Find(ctx context.Context, filter models.DivisionFilter) ([]*models.Division, error) {
	var out []*models.Division
	err := r.store.read(ctx, func(st *state) error {
		out = r.collect(st, filter, divisionLess("d.id"))
		return nil
	})
	return out, err
}

// FindPage returns one page of divisions matching filter
func (r *DivisionRepository) FindPage(ctx context.Context, filter models.DivisionFilter, page models.PageRequest) (models.Page[*models.Division], error) {
	column, err := repositories.SortColumn(repositories.DivisionSortFields, page.SortBy)
	if err != nil {
		return models.Page[*models.Division]{Items: []*models.Division{}, Page: page.Page, Size: page.Size}, err
	}

	var result models.Page[*models.Division]
	err = r.store.read(ctx, func(st *state) error {
		result = paginate(r.collect(st, filter, divisionLess(column)), page)
		return nil
	})
	return result, err
}

// FindByID returns a copy of the division
func (r *DivisionRepository) FindByID(ctx context.Context, id int64) (*models.Division, error) {
	var out *models.Division
	err := r.store.read(ctx, func(st *state) error {
		d, ok := st.divisions[id]
		if !ok {
			return repositories.ErrNotFound
		}
		cp := cloneDivision(d)
		out = &cp
		return nil
	})
	return out, err
}

// FindByIDForUpdate is FindByID; the transaction already holds the write lock
func (r *DivisionRepository) FindByIDForUpdate(ctx context.Context, id int64) (*models.Division, error) {
	return r.FindByID(ctx, id)
}

// FindRefs resolves the name and status of each existing id
func (r *DivisionRepository) FindRefs(ctx context.Context, ids []int64) (map[int64]models.DivisionRef, error) {
	refs := make(map[int64]models.DivisionRef, len(ids))
	err := r.store.read(ctx, func(st *state) error {
		for _, id := range ids {
			if d, ok := st.divisions[id]; ok {
				refs[id] = models.DivisionRef{ID: d.ID, Name: d.Name, Active: d.Active}
			}
		}
		return nil
	})
	return refs, err
}

// ExistsByID reports whether the division exists, active or not
func (r *DivisionRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.store.read(ctx, func(st *state) error {
		_, exists = st.divisions[id]
		return nil
	})
	return exists, err
}

// ExistsByNameIgnoreCase reports whether another division already uses name
func (r *DivisionRepository) ExistsByNameIgnoreCase(ctx context.Context, name string, excludeID *int64) (bool, error) {
	var exists bool
	err := r.store.read(ctx, func(st *state) error {
		exists = nameTaken(st, name, excludeID)
		return nil
	})
	return exists, err
}

func nameTaken(st *state, name string, excludeID *int64) bool {
	key := models.NormalizeName(name)
	for id, d := range st.divisions {
		if excludeID != nil && id == *excludeID {
			continue
		}
		if models.NormalizeName(d.Name) == key {
			return true
		}
	}
	return false
}

// assignProgramIDs numbers new programs and records owner and position
func assignProgramIDs(st *state, d *models.Division) {
	for i := range d.Programs {
		p := &d.Programs[i]
		if p.ID <= 0 {
			st.nextProgram++
			p.ID = st.nextProgram
		} else if p.ID > st.nextProgram {
			st.nextProgram = p.ID
		}
		p.DivisionID = d.ID
		p.Position = i
	}
}

// Create stores the division, assigning ids to it and its programs
func (r *DivisionRepository) Create(ctx context.Context, division *models.Division) error {
	return r.store.write(ctx, func(st *state) error {
		if nameTaken(st, division.Name, nil) {
			return repositories.ErrDuplicateKey
		}
		st.nextDivision++
		division.ID = st.nextDivision
		assignProgramIDs(st, division)
		st.divisions[division.ID] = cloneDivision(*division)
		return nil
	})
}

// Update replaces the stored division, including its whole program collection
func (r *DivisionRepository) Update(ctx context.Context, division *models.Division) error {
	return r.store.write(ctx, func(st *state) error {
		if _, ok := st.divisions[division.ID]; !ok {
			return repositories.ErrNotFound
		}
		if nameTaken(st, division.Name, &division.ID) {
			return repositories.ErrDuplicateKey
		}
		assignProgramIDs(st, division)
		st.divisions[division.ID] = cloneDivision(*division)
		return nil
	})
}

// SetActive sets the division flag without touching its programs
func (r *DivisionRepository) SetActive(ctx context.Context, id int64, active bool) error {
	return r.store.write(ctx, func(st *state) error {
		d, ok := st.divisions[id]
		if !ok {
			return repositories.ErrNotFound
		}
		d.Active = active
		st.divisions[id] = d
		return nil
	})
}

// Deactivate marks the division and every program it owns inactive
func (r *DivisionRepository) Deactivate(ctx context.Context, id int64) error {
	return r.store.write(ctx, func(st *state) error {
		d, ok := st.divisions[id]
		if !ok {
			return repositories.ErrNotFound
		}
		d = cloneDivision(d)
		d.Deactivate()
		st.divisions[id] = d
		return nil
	})
}
