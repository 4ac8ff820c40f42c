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

type User struct {
	ID        int64      `db:"id"`
	Username  string     `db:"username"`
	Email     string     `db:"email"`
	Password  string     `db:"password"`
	AvatarURL string     `db:"avatar_url"`
	IsActive  bool       `db:"is_active"`
	CreatedAt *time.Time `db:"created_at"`
	UpdatedAt *time.Time `db:"updated_at"`
}

type UserPatch struct {
	ID        int64   `db:"id"`
	Username  *string `db:"username"`
	Password  *string `db:"password"`
	AvatarURL *string `db:"avatar_url"`
	IsActive  *bool   `db:"is_active"`
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	Get(ctx context.Context, userID int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Patch(ctx context.Context, patch *UserPatch) (*User, error)
}

type pgxUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgxUserRepository(pool *pgxpool.Pool) UserRepository {
	return &pgxUserRepository{pool: pool}
}

var userColumns = []string{"id", "username", "email", "password", "avatar_url", "is_active", "created_at", "updated_at"}

func scanUser(row pgx.Row) (*User, error) {
	u := &User{}
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.Password,
		&u.AvatarURL,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

// Create inserts the user and fills its generated fields from RETURNING.
func (p *pgxUserRepository) Create(ctx context.Context, user *User) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("users", "username", "email", "password", "avatar_url", "is_active"),
		im.Values(psql.Arg(user.Username), psql.Arg(user.Email), psql.Arg(user.Password), psql.Arg(user.AvatarURL), psql.Arg(user.IsActive)),
		im.Returning(toAnySlice(userColumns)...),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	created, err := scanUser(e.QueryRow(ctx, sql, args...))

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrAlreadyExists
	}
	if err != nil {
		return err
	}

	*user = *created
	return nil
}

func (p *pgxUserRepository) Get(ctx context.Context, userID int64) (*User, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(toAnySlice(userColumns)...),
		sm.From("users"),
		sm.Where(psql.Quote("id").EQ(psql.Arg(userID))),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	u, err := scanUser(e.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (p *pgxUserRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(toAnySlice(userColumns)...),
		sm.From("users"),
		sm.Where(psql.Quote("email").EQ(psql.Arg(email))),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	u, err := scanUser(e.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (p *pgxUserRepository) Patch(ctx context.Context, patch *UserPatch) (*User, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	sets := make([]bob.Mod[*dialect.UpdateQuery], 0, 4)

	if patch.Username != nil {
		sets = append(sets, um.SetCol("username").ToArg(*patch.Username))
	}
	if patch.Password != nil {
		sets = append(sets, um.SetCol("password").ToArg(*patch.Password))
	}
	if patch.AvatarURL != nil {
		sets = append(sets, um.SetCol("avatar_url").ToArg(*patch.AvatarURL))
	}
	if patch.IsActive != nil {
		sets = append(sets, um.SetCol("is_active").ToArg(*patch.IsActive))
	}
	sets = append(sets, um.SetCol("updated_at").To(psql.Raw("now()")))

	q := psql.Update(
		um.Table("users"),
		um.Where(psql.Quote("id").EQ(psql.Arg(patch.ID))),
		um.Returning(toAnySlice(userColumns)...),
	)

	q.Apply(sets...)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	u, err := scanUser(e.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func toAnySlice(cols []string) []any {
	out := make([]any, len(cols))
	for i, c := range cols {
		out[i] = c
	}
	return out
}
