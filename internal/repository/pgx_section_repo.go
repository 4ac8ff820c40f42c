package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kaban-x/kaban-backend/internal/db"
	"github.com/pkg/errors"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
)

type Section struct {
	ID        int64      `db:"id"`
	DeskID    int64      `db:"desk_id"`
	Name      string     `db:"name"`
	SortOrder int        `db:"sort_order"`
	CreatedAt *time.Time `db:"created_at"`
	UpdatedAt *time.Time `db:"updated_at"`
}

type SectionPatch struct {
	ID        int64   `db:"id"`
	DeskID    int64   `db:"desk_id"`
	Name      *string `db:"name"`
	SortOrder *int    `db:"sort_order"`
}

type SectionRepository interface {
	Create(ctx context.Context, section *Section) error
	GetForDesk(ctx context.Context, sectionID, deskID int64) (*Section, error)
	ListByDesk(ctx context.Context, deskID int64) ([]*Section, error)
	Patch(ctx context.Context, patch *SectionPatch) (*Section, error)
}

type pgxSectionRepository struct {
	pool *pgxpool.Pool
}

func NewPgxSectionRepository(pool *pgxpool.Pool) SectionRepository {
	return &pgxSectionRepository{pool: pool}
}

var sectionColumns = []string{"id", "desk_id", "name", "sort_order", "created_at", "updated_at"}

func scanSection(row pgx.Row) (*Section, error) {
	s := &Section{}
	err := row.Scan(
		&s.ID,
		&s.DeskID,
		&s.Name,
		&s.SortOrder,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	return s, err
}

func (p *pgxSectionRepository) Create(ctx context.Context, section *Section) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("sections", "desk_id", "name", "sort_order"),
		im.Values(psql.Arg(section.DeskID), psql.Arg(section.Name), psql.Arg(section.SortOrder)),
		im.Returning(toAnySlice(sectionColumns)...),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	created, err := scanSection(e.QueryRow(ctx, sql, args...))

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" { // desk does not exist
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	*section = *created
	return nil
}

// GetForDesk fetches a section only when it belongs to the given desk, so
// sections of other boards can never be reached through a project.
func (p *pgxSectionRepository) GetForDesk(ctx context.Context, sectionID, deskID int64) (*Section, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(toAnySlice(sectionColumns)...),
		sm.From("sections"),
		sm.Where(
			psql.Quote("id").EQ(psql.Arg(sectionID)).
				And(psql.Quote("desk_id").EQ(psql.Arg(deskID))),
		),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	s, err := scanSection(e.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (p *pgxSectionRepository) ListByDesk(ctx context.Context, deskID int64) ([]*Section, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(toAnySlice(sectionColumns)...),
		sm.From("sections"),
		sm.Where(psql.Quote("desk_id").EQ(psql.Arg(deskID))),
		sm.OrderBy("sort_order"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := e.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sections, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Section, error) {
		return scanSection(row)
	})
	if err != nil {
		return nil, err
	}

	return sections, nil
}

func (p *pgxSectionRepository) Patch(ctx context.Context, patch *SectionPatch) (*Section, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	sets := make([]bob.Mod[*dialect.UpdateQuery], 0, 3)

	if patch.Name != nil {
		sets = append(sets, um.SetCol("name").ToArg(*patch.Name))
	}
	if patch.SortOrder != nil {
		sets = append(sets, um.SetCol("sort_order").ToArg(*patch.SortOrder))
	}
	sets = append(sets, um.SetCol("updated_at").To(psql.Raw("now()")))

	q := psql.Update(
		um.Table("sections"),
		um.Where(
			psql.Quote("id").EQ(psql.Arg(patch.ID)).
				And(psql.Quote("desk_id").EQ(psql.Arg(patch.DeskID))),
		),
		um.Returning(toAnySlice(sectionColumns)...),
	)

	q.Apply(sets...)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	s, err := scanSection(e.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s, nil
}
