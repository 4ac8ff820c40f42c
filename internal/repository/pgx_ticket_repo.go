package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kaban-x/kaban-backend/internal/db"
	"github.com/kaban-x/kaban-backend/internal/model"
	"github.com/pkg/errors"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
)

type Ticket struct {
	ID         int64          `db:"id"`
	Name       string         `db:"name"`
	Task       string         `db:"task"`
	Priority   model.Priority `db:"priority"`
	Complexity int            `db:"complexity"`
	SectionID  int64          `db:"section_id"`
	CreatedAt  *time.Time     `db:"created_at"`
	UpdatedAt  *time.Time     `db:"updated_at"`
}

type TicketPatch struct {
	ID         int64           `db:"id"`
	Name       *string         `db:"name"`
	Task       *string         `db:"task"`
	Priority   *model.Priority `db:"priority"`
	Complexity *int            `db:"complexity"`
	SectionID  *int64          `db:"section_id"`
}

type TicketRepository interface {
	Create(ctx context.Context, ticket *Ticket) error
	GetForDesk(ctx context.Context, ticketID, deskID int64) (*Ticket, error)
	ListBySection(ctx context.Context, sectionID int64) ([]*Ticket, error)
	Patch(ctx context.Context, patch *TicketPatch) (*Ticket, error)
}

type pgxTicketRepository struct {
	pool *pgxpool.Pool
}

func NewPgxTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &pgxTicketRepository{pool: pool}
}

var ticketColumns = []string{"id", "name", "task", "priority", "complexity", "section_id", "created_at", "updated_at"}

func scanTicket(row pgx.Row) (*Ticket, error) {
	t := &Ticket{}
	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Task,
		&t.Priority,
		&t.Complexity,
		&t.SectionID,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	return t, err
}

func (p *pgxTicketRepository) Create(ctx context.Context, ticket *Ticket) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("tickets", "name", "task", "priority", "complexity", "section_id"),
		im.Values(
			psql.Arg(ticket.Name),
			psql.Arg(ticket.Task),
			psql.Arg(ticket.Priority),
			psql.Arg(ticket.Complexity),
			psql.Arg(ticket.SectionID),
		),
		im.Returning(toAnySlice(ticketColumns)...),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	created, err := scanTicket(e.QueryRow(ctx, sql, args...))

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" { // section does not exist
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	*ticket = *created
	return nil
}

// GetForDesk fetches a ticket only when its section belongs to the given
// desk.
func (p *pgxTicketRepository) GetForDesk(ctx context.Context, ticketID, deskID int64) (*Ticket, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(
			"tickets.id", "tickets.name", "tickets.task", "tickets.priority",
			"tickets.complexity", "tickets.section_id",
			"tickets.created_at", "tickets.updated_at",
		),
		sm.From("tickets"),
		sm.LeftJoin("sections").On(psql.Quote("tickets", "section_id").EQ(psql.Quote("sections", "id"))),
		sm.Where(
			psql.Quote("tickets", "id").EQ(psql.Arg(ticketID)).
				And(psql.Quote("sections", "desk_id").EQ(psql.Arg(deskID))),
		),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	t, err := scanTicket(e.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (p *pgxTicketRepository) ListBySection(ctx context.Context, sectionID int64) ([]*Ticket, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(toAnySlice(ticketColumns)...),
		sm.From("tickets"),
		sm.Where(psql.Quote("section_id").EQ(psql.Arg(sectionID))),
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

	tickets, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Ticket, error) {
		return scanTicket(row)
	})
	if err != nil {
		return nil, err
	}

	return tickets, nil
}

func (p *pgxTicketRepository) Patch(ctx context.Context, patch *TicketPatch) (*Ticket, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	sets := make([]bob.Mod[*dialect.UpdateQuery], 0, 6)

	if patch.Name != nil {
		sets = append(sets, um.SetCol("name").ToArg(*patch.Name))
	}
	if patch.Task != nil {
		sets = append(sets, um.SetCol("task").ToArg(*patch.Task))
	}
	if patch.Priority != nil {
		sets = append(sets, um.SetCol("priority").ToArg(*patch.Priority))
	}
	if patch.Complexity != nil {
		sets = append(sets, um.SetCol("complexity").ToArg(*patch.Complexity))
	}
	if patch.SectionID != nil {
		sets = append(sets, um.SetCol("section_id").ToArg(*patch.SectionID))
	}
	sets = append(sets, um.SetCol("updated_at").To(psql.Raw("now()")))

	q := psql.Update(
		um.Table("tickets"),
		um.Where(psql.Quote("id").EQ(psql.Arg(patch.ID))),
		um.Returning(toAnySlice(ticketColumns)...),
	)

	q.Apply(sets...)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	t, err := scanTicket(e.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}
