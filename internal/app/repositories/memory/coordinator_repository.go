package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/uteq/division-service/internal/app/models"
	"github.com/uteq/division-service/internal/app/repositories"
)

// CoordinatorRepository is the in-memory repositories.CoordinatorRepository
type CoordinatorRepository struct {
	store *Store
}

var _ repositories.CoordinatorRepository = (*CoordinatorRepository)(nil)

func matchCoordinator(c models.Coordinator, filter models.CoordinatorFilter) bool {
	if filter.ActiveOnly && !c.Active {
		return false
	}
	if filter.DivisionID != nil && c.DivisionID != *filter.DivisionID {
		return false
	}
	return true
}

func coordinatorLess(column string) func(a, b *models.Coordinator) bool {
	byID := func(a, b *models.Coordinator) bool { return a.ID < b.ID }
	byString := func(key func(c *models.Coordinator) string) func(a, b *models.Coordinator) bool {
		return func(a, b *models.Coordinator) bool {
			ak, bk := strings.ToLower(key(a)), strings.ToLower(key(b))
			if ak != bk {
				return ak < bk
			}
			return byID(a, b)
		}
	}
	switch column {
	case "c.first_name":
		return byString(func(c *models.Coordinator) string { return c.FirstName })
	case "c.last_name":
		return byString(func(c *models.Coordinator) string { return c.LastName })
	case "c.email":
		return byString(func(c *models.Coordinator) string { return c.Email })
	case "c.division_id":
		return func(a, b *models.Coordinator) bool {
			if a.DivisionID != b.DivisionID {
				return a.DivisionID < b.DivisionID
			}
			return byID(a, b)
		}
	case "c.active":
		return func(a, b *models.Coordinator) bool {
			if a.Active != b.Active {
				return !a.Active
			}
			return byID(a, b)
		}
	default:
		return byID
	}
}

func (r *CoordinatorRepository) collect(st *state, filter models.CoordinatorFilter, less func(a, b *models.Coordinator) bool) []*models.Coordinator {
	out := []*models.Coordinator{}
	for _, c := range st.coordinators {
		if matchCoordinator(c, filter) {
			cp := cloneCoordinator(c)
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// Find returns every coordinator matching filter ordered by id
func (r *CoordinatorRepository) Find(ctx context.Context, filter models.CoordinatorFilter) ([]*models.Coordinator, error) {
	var out []*models.Coordinator
	err := r.store.read(ctx, func(st *state) error {
		out = r.collect(st, filter, coordinatorLess("c.id"))
		return nil
	})
	return out, err
}

// FindPage returns one page of coordinators matching filter
func (r *CoordinatorRepository) FindPage(ctx context.Context, filter models.CoordinatorFilter, page models.PageRequest) (models.Page[*models.Coordinator], error) {
	column, err := repositories.SortColumn(repositories.CoordinatorSortFields, page.SortBy)
	if err != nil {
		return models.Page[*models.Coordinator]{Items: []*models.Coordinator{}, Page: page.Page, Size: page.Size}, err
	}

	var result models.Page[*models.Coordinator]
	err = r.store.read(ctx, func(st *state) error {
		result = paginate(r.collect(st, filter, coordinatorLess(column)), page)
		return nil
	})
	return result, err
}

// FindByID returns a copy of the coordinator
func (r *CoordinatorRepository) FindByID(ctx context.Context, id int64) (*models.Coordinator, error) {
	var out *models.Coordinator
	err := r.store.read(ctx, func(st *state) error {
		c, ok := st.coordinators[id]
		if !ok {
			return repositories.ErrNotFound
		}
		cp := cloneCoordinator(c)
		out = &cp
		return nil
	})
	return out, err
}

// FindByIDForUpdate is FindByID; the transaction already holds the write lock
func (r *CoordinatorRepository) FindByIDForUpdate(ctx context.Context, id int64) (*models.Coordinator, error) {
	return r.FindByID(ctx, id)
}

// ExistsByEmailIgnoreCase reports whether another coordinator already uses email
func (r *CoordinatorRepository) ExistsByEmailIgnoreCase(ctx context.Context, email string, excludeID *int64) (bool, error) {
	var exists bool
	err := r.store.read(ctx, func(st *state) error {
		exists = emailTaken(st, email, excludeID)
		return nil
	})
	return exists, err
}

func emailTaken(st *state, email string, excludeID *int64) bool {
	key := models.NormalizeName(email)
	for id, c := range st.coordinators {
		if excludeID != nil && id == *excludeID {
			continue
		}
		if models.NormalizeName(c.Email) == key {
			return true
		}
	}
	return false
}

// Create stores the coordinator and assigns its id
func (r *CoordinatorRepository) Create(ctx context.Context, coordinator *models.Coordinator) error {
	return r.store.write(ctx, func(st *state) error {
		if emailTaken(st, coordinator.Email, nil) {
			return repositories.ErrDuplicateKey
		}
		st.nextCoordinator++
		coordinator.ID = st.nextCoordinator
		st.coordinators[coordinator.ID] = cloneCoordinator(*coordinator)
		return nil
	})
}

// Update replaces the stored coordinator
func (r *CoordinatorRepository) Update(ctx context.Context, coordinator *models.Coordinator) error {
	return r.store.write(ctx, func(st *state) error {
		if _, ok := st.coordinators[coordinator.ID]; !ok {
			return repositories.ErrNotFound
		}
		if emailTaken(st, coordinator.Email, &coordinator.ID) {
			return repositories.ErrDuplicateKey
		}
		st.coordinators[coordinator.ID] = cloneCoordinator(*coordinator)
		return nil
	})
}

// SetActive sets the coordinator's active flag
func (r *CoordinatorRepository) SetActive(ctx context.Context, id int64, active bool) error {
	return r.store.write(ctx, func(st *state) error {
		c, ok := st.coordinators[id]
		if !ok {
			return repositories.ErrNotFound
		}
		c.Active = active
		st.coordinators[id] = c
		return nil
	})
}
