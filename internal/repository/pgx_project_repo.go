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

type Project struct {
	ID          int64      `db:"id"`
	Name        string     `db:"name"`
	Description *string    `db:"description"`
	TeamID      int64      `db:"team_id"`
	DeskID      int64      `db:"desk_id"`
	OwnerID     int64      `db:"owner_id"`
	CreatedAt   *time.Time `db:"created_at"`
	UpdatedAt   *time.Time `db:"updated_at"`
}

type ProjectRepository interface {
	Create(ctx context.Context, project *Project) error
	Get(ctx context.Context, projectID int64) (*Project, error)
	ListForUser(ctx context.Context, userID int64) ([]*Project, error)
}

type pgxProjectRepository struct {
	pool *pgxpool.Pool
}

func NewPgxProjectRepository(pool *pgxpool.Pool) ProjectRepository {
	return &pgxProjectRepository{pool: pool}
}

var projectColumns = []string{"id", "name", "description", "team_id", "desk_id", "owner_id", "created_at", "updated_at"}

func scanProject(row pgx.Row) (*Project, error) {
	pr := &Project{}
	err := row.Scan(
		&pr.ID,
		&pr.Name,
		&pr.Description,
		&pr.TeamID,
		&pr.DeskID,
		&pr.OwnerID,
		&pr.CreatedAt,
		&pr.UpdatedAt,
	)
	return pr, err
}

func (p *pgxProjectRepository) Create(ctx context.Context, project *Project) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("projects", "name", "description", "team_id", "desk_id", "owner_id"),
		im.Values(
			psql.Arg(project.Name),
			psql.Arg(project.Description),
			psql.Arg(project.TeamID),
			psql.Arg(project.DeskID),
			psql.Arg(project.OwnerID),
		),
		im.Returning(toAnySlice(projectColumns)...),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	created, err := scanProject(e.QueryRow(ctx, sql, args...))

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" { // team, desk or owner does not exist
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	*project = *created
	return nil
}

func (p *pgxProjectRepository) Get(ctx context.Context, projectID int64) (*Project, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(toAnySlice(projectColumns)...),
		sm.From("projects"),
		sm.Where(psql.Quote("id").EQ(psql.Arg(projectID))),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	pr, err := scanProject(e.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return pr, nil
}

// ListForUser returns projects the user owns plus projects on teams where
// the user owns the team or holds a membership row.
func (p *pgxProjectRepository) ListForUser(ctx context.Context, userID int64) ([]*Project, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Distinct(),
		sm.Columns(
			"projects.id", "projects.name", "projects.description",
			"projects.team_id", "projects.desk_id", "projects.owner_id",
			"projects.created_at", "projects.updated_at",
		),
		sm.From("projects"),
		sm.LeftJoin("teams").On(psql.Quote("projects", "team_id").EQ(psql.Quote("teams", "id"))),
		sm.LeftJoin("users_to_teams").On(psql.Quote("teams", "id").EQ(psql.Quote("users_to_teams", "team_id"))),
		sm.Where(
			psql.Quote("projects", "owner_id").EQ(psql.Arg(userID)).
				Or(psql.Quote("teams", "owner_id").EQ(psql.Arg(userID))).
				Or(psql.Quote("users_to_teams", "user_id").EQ(psql.Arg(userID))),
		),
		sm.OrderBy(psql.Quote("projects", "id")),
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

	projects, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Project, error) {
		return scanProject(row)
	})
	if err != nil {
		return nil, err
	}

	return projects, nil
}
