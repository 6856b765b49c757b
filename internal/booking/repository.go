package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/residence-booking-backend/internal/db"
)

// Partial unique indexes over active rows, see migrations.
const (
	resourceSlotConstraint = "bookings_resource_slot_active_key"
	userSlotConstraint     = "bookings_user_slot_active_key"
)

// Repository is the booking ledger.
type Repository interface {
	// Create inserts an active booking. A clash with another active booking on the
	// same resource slot yields ErrAlreadyBooked, on the same user slot ErrSlotConflict.
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)

	HasUserSlot(ctx context.Context, userID, date, slot string) (bool, error)
	CountActive(ctx context.Context, filter CountFilter) (int, error)
	// ActiveSlots returns the slots held by active bookings on a resource and date.
	ActiveSlots(ctx context.Context, resourceID, date string) ([]string, error)

	// Cancel flips an active booking to cancelled. It returns ErrAlreadyCancelled
	// when the row is no longer active.
	Cancel(ctx context.Context, b *Booking) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var bookingColumns = []string{
	"b.id", "b.user_id", "b.resource_id", "b.booking_date", "b.slot", "b.status",
	"b.created_at", "b.updated_at", "b.cancelled_at",
	"r.name", "r.type", "r.location", "u.email", "u.display_name",
}

func joined(builder squirrel.SelectBuilder) squirrel.SelectBuilder {
	return builder.
		From("public.bookings b").
		Join("public.resources r ON b.resource_id = r.id").
		Join("public.users u ON b.user_id = u.id")
}

func scanBooking(row pgx.Row, extra ...any) (*Booking, error) {
	var b Booking
	dest := []any{
		&b.ID, &b.UserID, &b.ResourceID, &b.Date, &b.Slot, &b.Status,
		&b.CreatedAt, &b.UpdatedAt, &b.CancelledAt,
		&b.ResourceName, &b.ResourceType, &b.ResourceLocation, &b.UserEmail, &b.UserName,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.bookings").
		Columns("user_id", "resource_id", "booking_date", "slot", "status").
		Values(b.UserID, b.ResourceID, b.Date, b.Slot, StatusActive).
		Suffix("RETURNING id, status, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	err = db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).
		Scan(&b.ID, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return mapCreateError(err)
	}
	return nil
}

// mapCreateError turns a violation of either partial unique index into its booking error.
func mapCreateError(err error) error {
	if constraint, ok := db.IsUniqueViolation(err); ok {
		if constraint == userSlotConstraint {
			return ErrSlotConflict
		}
		return ErrAlreadyBooked
	}
	if db.IsForeignKeyViolation(err) {
		return ErrResourceNotFound
	}
	return fmt.Errorf("create booking failed: %w", err)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := joined(psql.Select(bookingColumns...)).
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanBooking(db.Conn(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := joined(psql.Select(append(bookingColumns, "count(*) OVER() AS total_count")...))

	if filter.UserID != "" {
		query = query.Where(squirrel.Eq{"b.user_id": filter.UserID})
	}
	if filter.ResourceID != "" {
		query = query.Where(squirrel.Eq{"b.resource_id": filter.ResourceID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"b.status": filter.Status})
	}
	if filter.DateFrom != "" {
		query = query.Where(squirrel.GtOrEq{"b.booking_date": filter.DateFrom})
	}
	if filter.DateTo != "" {
		query = query.Where(squirrel.LtOrEq{"b.booking_date": filter.DateTo})
	}

	orderDir := "DESC"
	if filter.SortOrder == "ASC" {
		orderDir = "ASC"
	}
	query = query.OrderBy("b.booking_date "+orderDir, "b.created_at "+orderDir)

	// Pagination
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	var total int
	for rows.Next() {
		b, err := scanBooking(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate bookings failed: %w", err)
	}

	return bookings, total, nil
}

func (r *pgxRepository) HasUserSlot(ctx context.Context, userID, date, slot string) (bool, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sub, args, err := psql.Select("1").
		From("public.bookings").
		Where(squirrel.Eq{
			"user_id":      userID,
			"booking_date": date,
			"slot":         slot,
			"status":       StatusActive,
		}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build user slot query failed: %w", err)
	}

	var exists bool
	if err := db.Conn(ctx, r.pool).QueryRow(ctx, "SELECT EXISTS ("+sub+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check user slot failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) CountActive(ctx context.Context, filter CountFilter) (int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select("count(*)").
		From("public.bookings b").
		Join("public.resources r ON b.resource_id = r.id").
		Where(squirrel.Eq{
			"b.user_id": filter.UserID,
			"b.status":  StatusActive,
			"r.type":    filter.ResourceType,
		})

	if filter.After != "" {
		query = query.Where(squirrel.Gt{"b.booking_date": filter.After})
	}
	if filter.From != "" {
		query = query.Where(squirrel.GtOrEq{"b.booking_date": filter.From})
	}
	if filter.To != "" {
		query = query.Where(squirrel.LtOrEq{"b.booking_date": filter.To})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count bookings query failed: %w", err)
	}

	var count int
	if err := db.Conn(ctx, r.pool).QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count bookings failed: %w", err)
	}
	return count, nil
}

func (r *pgxRepository) ActiveSlots(ctx context.Context, resourceID, date string) ([]string, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sql, args, err := psql.Select("slot").
		From("public.bookings").
		Where(squirrel.Eq{
			"resource_id":  resourceID,
			"booking_date": date,
			"status":       StatusActive,
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build active slots query failed: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list active slots failed: %w", err)
	}
	slots, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan active slots failed: %w", err)
	}
	return slots, nil
}

func (r *pgxRepository) Cancel(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("status", StatusCancelled).
		Set("cancelled_at", squirrel.Expr("now()")).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": b.ID, "status": StatusActive}).
		Suffix("RETURNING status, updated_at, cancelled_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build cancel booking query failed: %w", err)
	}

	var cancelledAt time.Time
	err = db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&b.Status, &b.UpdatedAt, &cancelledAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrAlreadyCancelled
		}
		return fmt.Errorf("cancel booking failed: %w", err)
	}
	b.CancelledAt = &cancelledAt
	return nil
}
