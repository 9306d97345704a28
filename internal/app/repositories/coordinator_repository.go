package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/uteq/division-service/internal/app/models"
	"github.com/uteq/division-service/internal/db"
	"github.com/uteq/division-service/internal/pkg/dberrors"
	"github.com/uteq/division-service/internal/pkg/logger"
)

var coordinatorColumns = []string{
	"c.id", "c.first_name", "c.last_name", "c.email", "c.phone", "c.division_id", "c.active",
}

// PgCoordinatorRepository handles coordinator database operations
type PgCoordinatorRepository struct {
	database *db.PostgresDB
	sb       squirrel.StatementBuilderType
}

// NewCoordinatorRepository creates a new PgCoordinatorRepository
func NewCoordinatorRepository(database *db.PostgresDB) *PgCoordinatorRepository {
	return &PgCoordinatorRepository{
		database: database,
		sb:       squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func applyCoordinatorFilter(q squirrel.SelectBuilder, filter models.CoordinatorFilter) squirrel.SelectBuilder {
	if filter.ActiveOnly {
		q = q.Where(squirrel.Eq{"c.active": true})
	}
	if filter.DivisionID != nil {
		q = q.Where(squirrel.Eq{"c.division_id": *filter.DivisionID})
	}
	return q
}

// Find returns every coordinator matching filter ordered by id
func (r *PgCoordinatorRepository) Find(ctx context.Context, filter models.CoordinatorFilter) ([]*models.Coordinator, error) {
	q := applyCoordinatorFilter(r.sb.Select(coordinatorColumns...).From("coordinators c"), filter).
		OrderBy("c.id ASC")
	return r.query(ctx, q)
}

// FindPage returns one page of coordinators matching filter
func (r *PgCoordinatorRepository) FindPage(ctx context.Context, filter models.CoordinatorFilter, page models.PageRequest) (models.Page[*models.Coordinator], error) {
	result := models.Page[*models.Coordinator]{Items: []*models.Coordinator{}, Page: page.Page, Size: page.Size}

	column, err := SortColumn(CoordinatorSortFields, page.SortBy)
	if err != nil {
		return result, err
	}

	countSQL, countArgs, err := applyCoordinatorFilter(r.sb.Select("COUNT(*)").From("coordinators c"), filter).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count coordinators SQL")
		return result, fmt.Errorf("failed to build count coordinators query: %w", err)
	}
	if err := r.database.Conn(ctx).QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalItems); err != nil {
		logger.Error().Err(err).Msg("Error counting coordinators")
		return result, fmt.Errorf("error counting coordinators: %w", err)
	}
	if result.TotalItems == 0 {
		return result, nil
	}

	q := applyCoordinatorFilter(r.sb.Select(coordinatorColumns...).From("coordinators c"), filter).
		OrderBy(orderClause(column, "c.id")...).
		Limit(uint64(page.Size)).
		Offset(uint64(page.Offset()))

	items, err := r.query(ctx, q)
	if err != nil {
		return result, err
	}
	result.Items = items
	return result, nil
}

// FindByID retrieves a coordinator by ID
func (r *PgCoordinatorRepository) FindByID(ctx context.Context, id int64) (*models.Coordinator, error) {
	return r.findOne(ctx, id, false)
}

// FindByIDForUpdate retrieves a coordinator and locks its row until the transaction ends
func (r *PgCoordinatorRepository) FindByIDForUpdate(ctx context.Context, id int64) (*models.Coordinator, error) {
	return r.findOne(ctx, id, true)
}

func (r *PgCoordinatorRepository) findOne(ctx context.Context, id int64, lock bool) (*models.Coordinator, error) {
	q := r.sb.Select(coordinatorColumns...).
		From("coordinators c").
		Where(squirrel.Eq{"c.id": id})
	if lock {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get coordinator by ID SQL")
		return nil, fmt.Errorf("failed to build get coordinator query: %w", err)
	}

	c := &models.Coordinator{}
	err = r.database.Conn(ctx).QueryRow(ctx, sql, args...).
		Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.DivisionID, &c.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Int64("coordinatorID", id).Msg("Error scanning coordinator row")
		return nil, fmt.Errorf("error getting coordinator by ID: %w", err)
	}
	return c, nil
}

// ExistsByEmailIgnoreCase checks whether another coordinator already uses email
func (r *PgCoordinatorRepository) ExistsByEmailIgnoreCase(ctx context.Context, email string, excludeID *int64) (bool, error) {
	q := r.sb.Select("1").
		Prefix("SELECT EXISTS (").
		From("coordinators").
		Where(squirrel.Expr("lower(email) = ?", models.NormalizeName(email)))
	if excludeID != nil {
		q = q.Where(squirrel.NotEq{"id": *excludeID})
	}

	sql, args, err := q.Suffix(")").ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build coordinator email exists query: %w", err)
	}

	var exists bool
	if err := r.database.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		logger.Error().Err(err).Msg("Error checking coordinator email")
		return false, fmt.Errorf("error checking coordinator email: %w", err)
	}
	return exists, nil
}

// Create inserts a coordinator and assigns its id
func (r *PgCoordinatorRepository) Create(ctx context.Context, c *models.Coordinator) error {
	sql, args, err := r.sb.Insert("coordinators").
		Columns("first_name", "last_name", "email", "phone", "division_id", "active").
		Values(c.FirstName, c.LastName, c.Email, c.Phone, c.DivisionID, c.Active).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create coordinator SQL")
		return fmt.Errorf("failed to build create coordinator query: %w", err)
	}

	if err := r.database.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&c.ID); err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.CoordinatorEmailUnique) {
			return ErrDuplicateKey
		}
		logger.Error().Err(err).Msg("Error executing create coordinator query")
		return fmt.Errorf("error creating coordinator: %w", err)
	}
	return nil
}

// Update overwrites every mutable coordinator column
func (r *PgCoordinatorRepository) Update(ctx context.Context, c *models.Coordinator) error {
	sql, args, err := r.sb.Update("coordinators").
		SetMap(map[string]interface{}{
			"first_name":  c.FirstName,
			"last_name":   c.LastName,
			"email":       c.Email,
			"phone":       c.Phone,
			"division_id": c.DivisionID,
			"active":      c.Active,
		}).
		Where(squirrel.Eq{"id": c.ID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update coordinator SQL")
		return fmt.Errorf("failed to build update coordinator query: %w", err)
	}

	cmdTag, err := r.database.Conn(ctx).Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.CoordinatorEmailUnique) {
			return ErrDuplicateKey
		}
		logger.Error().Err(err).Int64("coordinatorID", c.ID).Msg("Error executing update coordinator query")
		return fmt.Errorf("error updating coordinator: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetActive sets the coordinator's active flag
func (r *PgCoordinatorRepository) SetActive(ctx context.Context, id int64, active bool) error {
	sql, args, err := r.sb.Update("coordinators").
		Set("active", active).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build set coordinator status query: %w", err)
	}

	cmdTag, err := r.database.Conn(ctx).Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("coordinatorID", id).Msg("Error updating coordinator status")
		return fmt.Errorf("error updating coordinator status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgCoordinatorRepository) query(ctx context.Context, q squirrel.SelectBuilder) ([]*models.Coordinator, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list coordinators SQL")
		return nil, fmt.Errorf("failed to build list coordinators query: %w", err)
	}

	rows, err := r.database.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list coordinators query")
		return nil, fmt.Errorf("error querying coordinators: %w", err)
	}
	defer rows.Close()

	coordinators := []*models.Coordinator{}
	for rows.Next() {
		c := &models.Coordinator{}
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.DivisionID, &c.Active); err != nil {
			logger.Error().Err(err).Msg("Error scanning coordinator row")
			return nil, fmt.Errorf("error scanning coordinator row: %w", err)
		}
		coordinators = append(coordinators, c)
	}
	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating coordinator rows")
		return nil, fmt.Errorf("error iterating coordinator rows: %w", err)
	}
	return coordinators, nil
}
