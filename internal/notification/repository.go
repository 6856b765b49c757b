package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	GetByID(ctx context.Context, id string) (*Notification, error)
	List(ctx context.Context, filter Filter) ([]*Notification, int, error)
	Delete(ctx context.Context, id string) error
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID, role string) error
	UnreadCount(ctx context.Context, userID, role string) (int, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

// visibleTo restricts a query to live notifications addressed to role.
func visibleTo(role string) squirrel.Sqlizer {
	return squirrel.And{
		squirrel.Eq{"n.target_role": []string{TargetAll, role}},
		squirrel.Or{
			squirrel.Eq{"n.expires_at": nil},
			squirrel.Expr("n.expires_at > now()"),
		},
	}
}

func (r *pgxRepository) Create(ctx context.Context, n *Notification) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.notifications").
		Columns("title", "message", "type", "category", "target_role", "expires_at").
		Values(n.Title, n.Message, n.Type, n.Category, n.TargetRole, n.ExpiresAt).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create notification query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&n.ID, &n.CreatedAt); err != nil {
		return fmt.Errorf("create notification failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Notification, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"n.id", "n.title", "n.message", "n.type", "n.category", "n.target_role", "n.expires_at", "n.created_at",
	).
		From("public.notifications n").
		Where(squirrel.Eq{"n.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get notification query failed: %w", err)
	}

	var n Notification
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&n.ID, &n.Title, &n.Message, &n.Type, &n.Category, &n.TargetRole, &n.ExpiresAt, &n.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get notification failed: %w", err)
	}
	return &n, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Notification, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	readExpr := "false"
	var readArgs []any
	if filter.ReaderID != "" {
		readExpr = "EXISTS (SELECT 1 FROM public.notification_reads nr WHERE nr.notification_id = n.id AND nr.user_id = ?)"
		readArgs = append(readArgs, filter.ReaderID)
	}

	query := psql.Select(
		"n.id", "n.title", "n.message", "n.type", "n.category", "n.target_role", "n.expires_at", "n.created_at",
	).
		Column(squirrel.Expr(readExpr+" AS is_read", readArgs...)).
		Column("count(*) OVER() AS total_count").
		From("public.notifications n")

	if filter.Role != "" {
		query = query.Where(visibleTo(filter.Role))
	}
	if filter.Category != "" {
		query = query.Where(squirrel.Eq{"n.category": filter.Category})
	}

	orderDir := "DESC"
	if filter.SortOrder != "" {
		orderDir = filter.SortOrder
	}
	query = query.OrderBy("n.created_at " + orderDir)

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
		return nil, 0, fmt.Errorf("build list notifications query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list notifications failed: %w", err)
	}
	defer rows.Close()

	var result []*Notification
	var total int

	for rows.Next() {
		var n Notification
		if err := rows.Scan(
			&n.ID, &n.Title, &n.Message, &n.Type, &n.Category, &n.TargetRole, &n.ExpiresAt, &n.CreatedAt,
			&n.IsRead, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan notification failed: %w", err)
		}
		result = append(result, &n)
	}

	return result, total, rows.Err()
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.notifications").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete notification query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete notification failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) MarkRead(ctx context.Context, id, userID string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.notification_reads").
		Columns("notification_id", "user_id").
		Values(id, userID).
		Suffix("ON CONFLICT DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build mark read query failed: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("mark notification read failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) MarkAllRead(ctx context.Context, userID, role string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	visible := psql.Select("n.id").
		Column(squirrel.Expr("?::uuid", userID)).
		From("public.notifications n").
		Where(visibleTo(role))

	query, args, err := psql.Insert("public.notification_reads").
		Columns("notification_id", "user_id").
		Select(visible).
		Suffix("ON CONFLICT DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build mark all read query failed: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("mark all notifications read failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) UnreadCount(ctx context.Context, userID, role string) (int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("count(*)").
		From("public.notifications n").
		Where(visibleTo(role)).
		Where(squirrel.Expr(
			"NOT EXISTS (SELECT 1 FROM public.notification_reads nr WHERE nr.notification_id = n.id AND nr.user_id = ?)",
			userID,
		)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build unread count query failed: %w", err)
	}

	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count unread notifications failed: %w", err)
	}
	return count, nil
}
