package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kaban-x/kaban-backend/internal/db"
	"github.com/pkg/errors"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
)

// MembershipRepository manages the users_to_teams join table. The composite
// primary key on (user_id, team_id) keeps memberships unique even under
// concurrent invites.
type MembershipRepository interface {
	Add(ctx context.Context, userID, teamID int64) error
	Exists(ctx context.Context, userID, teamID int64) (bool, error)
}

type pgxMembershipRepository struct {
	pool *pgxpool.Pool
}

func NewPgxMembershipRepository(pool *pgxpool.Pool) MembershipRepository {
	return &pgxMembershipRepository{pool: pool}
}

func (p *pgxMembershipRepository) Add(ctx context.Context, userID, teamID int64) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("users_to_teams", "user_id", "team_id"),
		im.Values(psql.Arg(userID), psql.Arg(teamID)),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	_, err = e.Exec(ctx, sql, args...)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrAlreadyExists
		case "23503": // user or team does not exist
			return ErrNotFound
		}
	}

	return err
}

func (p *pgxMembershipRepository) Exists(ctx context.Context, userID, teamID int64) (bool, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("user_id"),
		sm.From("users_to_teams"),
		sm.Where(
			psql.Quote("user_id").EQ(psql.Arg(userID)).
				And(psql.Quote("team_id").EQ(psql.Arg(teamID))),
		),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return false, err
	}

	var id int64
	if err = e.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
