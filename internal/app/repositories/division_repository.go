package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/uteq/division-service/internal/app/models"
	"github.com/uteq/division-service/internal/db"
	"github.com/uteq/division-service/internal/pkg/dberrors"
	"github.com/uteq/division-service/internal/pkg/logger"
)

var divisionColumns = []string{"d.id", "d.name", "d.active"}

// PgDivisionRepository handles division and program database operations
type PgDivisionRepository struct {
	database *db.PostgresDB
	sb       squirrel.StatementBuilderType
}

// NewDivisionRepository creates a new PgDivisionRepository
func NewDivisionRepository(database *db.PostgresDB) *PgDivisionRepository {
	return &PgDivisionRepository{
		database: database,
		sb:       squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// escapeLike quotes LIKE wildcards so user input matches literally
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func applyDivisionFilter(q squirrel.SelectBuilder, filter models.DivisionFilter) squirrel.SelectBuilder {
	if filter.ActiveOnly {
		q = q.Where(squirrel.Eq{"d.active": true})
	}
	if filter.NameContains != "" {
		q = q.Where(squirrel.ILike{"d.name": "%" + escapeLike(filter.NameContains) + "%"})
	}
	return q
}

// Find returns every division matching filter ordered by id
func (r *PgDivisionRepository) Find(ctx context.Context, filter models.DivisionFilter) ([]*models.Division, error) {
	q := applyDivisionFilter(r.sb.Select(divisionColumns...).From("divisions d"), filter).
		OrderBy("d.id ASC")

	divisions, err := r.query(ctx, q)
	if err != nil {
		return nil, err
	}
	if err := r.loadPrograms(ctx, divisions); err != nil {
		return nil, err
	}
	return divisions, nil
}

// FindPage returns one page of divisions matching filter
func (r *PgDivisionRepository) FindPage(ctx context.Context, filter models.DivisionFilter, page models.PageRequest) (models.Page[*models.Division], error) {
	result := models.Page[*models.Division]{Items: []*models.Division{}, Page: page.Page, Size: page.Size}

	column, err := SortColumn(DivisionSortFields, page.SortBy)
	if err != nil {
		return result, err
	}

	countSQL, countArgs, err := applyDivisionFilter(r.sb.Select("COUNT(*)").From("divisions d"), filter).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count divisions SQL")
		return result, fmt.Errorf("failed to build count divisions query: %w", err)
	}
	if err := r.database.Conn(ctx).QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalItems); err != nil {
		logger.Error().Err(err).Msg("Error counting divisions")
		return result, fmt.Errorf("error counting divisions: %w", err)
	}
	if result.TotalItems == 0 {
		return result, nil
	}

	q := applyDivisionFilter(r.sb.Select(divisionColumns...).From("divisions d"), filter).
		OrderBy(orderClause(column, "d.id")...).
		Limit(uint64(page.Size)).
		Offset(uint64(page.Offset()))

	divisions, err := r.query(ctx, q)
	if err != nil {
		return result, err
	}
	if err := r.loadPrograms(ctx, divisions); err != nil {
		return result, err
	}
	result.Items = divisions
	return result, nil
}

// orderClause sorts ascending by column, breaking ties by the primary key
func orderClause(column, idColumn string) []string {
	if column == idColumn {
		return []string{column + " ASC"}
	}
	return []string{column + " ASC", idColumn + " ASC"}
}

// FindByID retrieves a division with its programs
func (r *PgDivisionRepository) FindByID(ctx context.Context, id int64) (*models.Division, error) {
	return r.findOne(ctx, id, false)
}

// FindByIDForUpdate retrieves a division and locks its row until the transaction ends
func (r *PgDivisionRepository) FindByIDForUpdate(ctx context.Context, id int64) (*models.Division, error) {
	return r.findOne(ctx, id, true)
}

func (r *PgDivisionRepository) findOne(ctx context.Context, id int64, lock bool) (*models.Division, error) {
	q := r.sb.Select(divisionColumns...).
		From("divisions d").
		Where(squirrel.Eq{"d.id": id})
	if lock {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get division by ID SQL")
		return nil, fmt.Errorf("failed to build get division query: %w", err)
	}

	division := &models.Division{}
	err = r.database.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&division.ID, &division.Name, &division.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Int64("divisionID", id).Msg("Error scanning division row")
		return nil, fmt.Errorf("error getting division by ID: %w", err)
	}

	if err := r.loadPrograms(ctx, []*models.Division{division}); err != nil {
		return nil, err
	}
	return division, nil
}

// FindRefs resolves the name and status of each existing id in one query
func (r *PgDivisionRepository) FindRefs(ctx context.Context, ids []int64) (map[int64]models.DivisionRef, error) {
	refs := make(map[int64]models.DivisionRef, len(ids))
	if len(ids) == 0 {
		return refs, nil
	}

	sql, args, err := r.sb.Select("id", "name", "active").
		From("divisions").
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building division refs SQL")
		return nil, fmt.Errorf("failed to build division refs query: %w", err)
	}

	rows, err := r.database.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing division refs query")
		return nil, fmt.Errorf("error querying division refs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ref models.DivisionRef
		if err := rows.Scan(&ref.ID, &ref.Name, &ref.Active); err != nil {
			return nil, fmt.Errorf("error scanning division ref row: %w", err)
		}
		refs[ref.ID] = ref
	}
	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating division ref rows")
		return nil, fmt.Errorf("error iterating division ref rows: %w", err)
	}
	return refs, nil
}

// ExistsByID checks whether a division row exists, active or not
func (r *PgDivisionRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	sql, args, err := r.sb.Select("1").
		Prefix("SELECT EXISTS (").
		From("divisions").
		Where(squirrel.Eq{"id": id}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build division exists query: %w", err)
	}

	var exists bool
	if err := r.database.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		logger.Error().Err(err).Int64("divisionID", id).Msg("Error checking division existence")
		return false, fmt.Errorf("error checking division existence: %w", err)
	}
	return exists, nil
}

// ExistsByNameIgnoreCase checks whether another division already uses name
func (r *PgDivisionRepository) ExistsByNameIgnoreCase(ctx context.Context, name string, excludeID *int64) (bool, error) {
	q := r.sb.Select("1").
		Prefix("SELECT EXISTS (").
		From("divisions").
		Where(squirrel.Expr("lower(name) = ?", models.NormalizeName(name)))
	if excludeID != nil {
		q = q.Where(squirrel.NotEq{"id": *excludeID})
	}

	sql, args, err := q.Suffix(")").ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build division name exists query: %w", err)
	}

	var exists bool
	if err := r.database.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		logger.Error().Err(err).Str("name", name).Msg("Error checking division name")
		return false, fmt.Errorf("error checking division name: %w", err)
	}
	return exists, nil
}

// Create inserts the division and its programs
func (r *PgDivisionRepository) Create(ctx context.Context, division *models.Division) error {
	sql, args, err := r.sb.Insert("divisions").
		Columns("name", "active").
		Values(division.Name, division.Active).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create division SQL")
		return fmt.Errorf("failed to build create division query: %w", err)
	}

	if err := r.database.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&division.ID); err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.DivisionNameUnique) {
			return ErrDuplicateKey
		}
		logger.Error().Err(err).Msg("Error executing create division query")
		return fmt.Errorf("error creating division: %w", err)
	}

	return r.insertPrograms(ctx, division)
}

// Update writes the division row and replaces its program collection
func (r *PgDivisionRepository) Update(ctx context.Context, division *models.Division) error {
	sql, args, err := r.sb.Update("divisions").
		SetMap(map[string]interface{}{
			"name":   division.Name,
			"active": division.Active,
		}).
		Where(squirrel.Eq{"id": division.ID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update division SQL")
		return fmt.Errorf("failed to build update division query: %w", err)
	}

	cmdTag, err := r.database.Conn(ctx).Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.DivisionNameUnique) {
			return ErrDuplicateKey
		}
		logger.Error().Err(err).Int64("divisionID", division.ID).Msg("Error executing update division query")
		return fmt.Errorf("error updating division: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	// Programs missing from the new collection are orphans and go with the old rows
	delSQL, delArgs, err := r.sb.Delete("programs").Where(squirrel.Eq{"division_id": division.ID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete programs query: %w", err)
	}
	if _, err := r.database.Conn(ctx).Exec(ctx, delSQL, delArgs...); err != nil {
		logger.Error().Err(err).Int64("divisionID", division.ID).Msg("Error deleting division programs")
		return fmt.Errorf("error deleting division programs: %w", err)
	}

	return r.insertPrograms(ctx, division)
}

// SetActive sets the division flag without touching its programs
func (r *PgDivisionRepository) SetActive(ctx context.Context, id int64, active bool) error {
	sql, args, err := r.sb.Update("divisions").
		Set("active", active).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build set division status query: %w", err)
	}

	cmdTag, err := r.database.Conn(ctx).Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("divisionID", id).Msg("Error updating division status")
		return fmt.Errorf("error updating division status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Deactivate soft deletes the division and every program it owns
func (r *PgDivisionRepository) Deactivate(ctx context.Context, id int64) error {
	if err := r.SetActive(ctx, id, false); err != nil {
		return err
	}

	sql, args, err := r.sb.Update("programs").
		Set("active", false).
		Where(squirrel.Eq{"division_id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build deactivate programs query: %w", err)
	}
	if _, err := r.database.Conn(ctx).Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Int64("divisionID", id).Msg("Error deactivating division programs")
		return fmt.Errorf("error deactivating division programs: %w", err)
	}
	return nil
}

// insertPrograms writes the collection in order. Kept programs are inserted with their id.
func (r *PgDivisionRepository) insertPrograms(ctx context.Context, division *models.Division) error {
	conn := r.database.Conn(ctx)
	for i := range division.Programs {
		p := &division.Programs[i]
		p.DivisionID = division.ID
		p.Position = i

		var q squirrel.InsertBuilder
		if p.ID > 0 {
			q = r.sb.Insert("programs").
				Columns("id", "division_id", "name", "active", "position").
				Values(p.ID, p.DivisionID, p.Name, p.Active, p.Position)
		} else {
			q = r.sb.Insert("programs").
				Columns("division_id", "name", "active", "position").
				Values(p.DivisionID, p.Name, p.Active, p.Position)
		}

		sql, args, err := q.Suffix("RETURNING id").ToSql()
		if err != nil {
			return fmt.Errorf("failed to build insert program query: %w", err)
		}
		if err := conn.QueryRow(ctx, sql, args...).Scan(&p.ID); err != nil {
			logger.Error().Err(err).Int64("divisionID", division.ID).Msg("Error inserting program")
			return fmt.Errorf("error inserting program: %w", err)
		}
	}
	return nil
}

// loadPrograms attaches programs to the given divisions with one query
func (r *PgDivisionRepository) loadPrograms(ctx context.Context, divisions []*models.Division) error {
	if len(divisions) == 0 {
		return nil
	}

	byID := make(map[int64]*models.Division, len(divisions))
	ids := make([]int64, 0, len(divisions))
	for _, d := range divisions {
		d.Programs = []models.Program{}
		byID[d.ID] = d
		ids = append(ids, d.ID)
	}

	sql, args, err := r.sb.Select("id", "division_id", "name", "active", "position").
		From("programs").
		Where(squirrel.Eq{"division_id": ids}).
		OrderBy("division_id ASC", "position ASC", "id ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build get programs query: %w", err)
	}

	rows, err := r.database.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get programs query")
		return fmt.Errorf("error querying programs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Program
		if err := rows.Scan(&p.ID, &p.DivisionID, &p.Name, &p.Active, &p.Position); err != nil {
			return fmt.Errorf("error scanning program row: %w", err)
		}
		if d, ok := byID[p.DivisionID]; ok {
			d.Programs = append(d.Programs, p)
		}
	}
	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating program rows")
		return fmt.Errorf("error iterating program rows: %w", err)
	}
	return nil
}

func (r *PgDivisionRepository) query(ctx context.Context, q squirrel.SelectBuilder) ([]*models.Division, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list divisions SQL")
		return nil, fmt.Errorf("failed to build list divisions query: %w", err)
	}

	rows, err := r.database.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list divisions query")
		return nil, fmt.Errorf("error querying divisions: %w", err)
	}
	defer rows.Close()

	divisions := []*models.Division{}
	for rows.Next() {
		d := &models.Division{}
		if err := rows.Scan(&d.ID, &d.Name, &d.Active); err != nil {
			logger.Error().Err(err).Msg("Error scanning division row")
			return nil, fmt.Errorf("error scanning division row: %w", err)
		}
		divisions = append(divisions, d)
	}
	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating division rows")
		return nil, fmt.Errorf("error iterating division rows: %w", err)
	}
	return divisions, nil
}
