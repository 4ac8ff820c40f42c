package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kaban-x/kaban-backend/internal/db"
	"github.com/pkg/errors"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
)

type Team struct {
	ID        int64      `db:"id"`
	Name      string     `db:"name"`
	OwnerID   int64      `db:"owner_id"`
	CreatedAt *time.Time `db:"created_at"`
	UpdatedAt *time.Time `db:"updated_at"`
}

type TeamRepository interface {
	Create(ctx context.Context, team *Team) error
	Get(ctx context.Context, teamID int64) (*Team, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*Team, error)
}

type pgxTeamRepository struct {
	pool *pgxpool.Pool
}

func NewPgxTeamRepository(pool *pgxpool.Pool) TeamRepository {
	return &pgxTeamRepository{pool: pool}
}

var teamColumns = []string{"id", "name", "owner_id", "created_at", "updated_at"}

func scanTeam(row pgx.Row) (*Team, error) {
	t := &Team{}
	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.OwnerID,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	return t, err
}

func (p *pgxTeamRepository) Create(ctx context.Context, team *Team) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("teams", "name", "owner_id"),
		im.Values(psql.Arg(team.Name), psql.Arg(team.OwnerID)),
		im.Returning(toAnySlice(teamColumns)...),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	created, err := scanTeam(e.QueryRow(ctx, sql, args...))

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" { // owner does not exist
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	*team = *created
	return nil
}

func (p *pgxTeamRepository) Get(ctx context.Context, teamID int64) (*Team, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(toAnySlice(teamColumns)...),
		sm.From("teams"),
		sm.Where(psql.Quote("id").EQ(psql.Arg(teamID))),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	t, err := scanTeam(e.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (p *pgxTeamRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*Team, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(toAnySlice(teamColumns)...),
		sm.From("teams"),
		sm.Where(psql.Quote("owner_id").EQ(psql.Arg(ownerID))),
		sm.OrderBy("id"),
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

	teams, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Team, error) {
		return scanTeam(row)
	})
	if err != nil {
		return nil, err
	}

	return teams, nil
}
