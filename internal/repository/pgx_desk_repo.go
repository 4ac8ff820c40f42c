package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kaban-x/kaban-backend/internal/db"
	"github.com/pkg/errors"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
)

type Desk struct {
	ID        int64      `db:"id"`
	Name      string     `db:"name"`
	OwnerID   int64      `db:"owner_id"`
	CreatedAt *time.Time `db:"created_at"`
	UpdatedAt *time.Time `db:"updated_at"`
}

type DeskRepository interface {
	Create(ctx context.Context, desk *Desk) error
	Get(ctx context.Context, deskID int64) (*Desk, error)
}

type pgxDeskRepository struct {
	pool *pgxpool.Pool
}

func NewPgxDeskRepository(pool *pgxpool.Pool) DeskRepository {
	return &pgxDeskRepository{pool: pool}
}

var deskColumns = []string{"id", "name", "owner_id", "created_at", "updated_at"}

func scanDesk(row pgx.Row) (*Desk, error) {
	d := &Desk{}
	err := row.Scan(
		&d.ID,
		&d.Name,
		&d.OwnerID,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	return d, err
}

func (p *pgxDeskRepository) Create(ctx context.Context, desk *Desk) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("desks", "name", "owner_id"),
		im.Values(psql.Arg(desk.Name), psql.Arg(desk.OwnerID)),
		im.Returning(toAnySlice(deskColumns)...),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	created, err := scanDesk(e.QueryRow(ctx, sql, args...))
	if err != nil {
		return err
	}

	*desk = *created
	return nil
}

func (p *pgxDeskRepository) Get(ctx context.Context, deskID int64) (*Desk, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(toAnySlice(deskColumns)...),
		sm.From("desks"),
		sm.Where(psql.Quote("id").EQ(psql.Arg(deskID))),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	d, err := scanDesk(e.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return d, nil
}
