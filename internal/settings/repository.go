package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/residence-booking-backend/internal/db"
)

// documentID is the primary key of the single settings row.
const documentID = "system"

// Repository persists the settings document. Get and Update are the whole contract;
// GetForUpdate and Create exist for locked read-modify-write and first-start seeding.
type Repository interface {
	Get(ctx context.Context) (*Settings, error)
	GetForUpdate(ctx context.Context) (*Settings, error)
	Create(ctx context.Context, s *Settings) error
	Update(ctx context.Context, s *Settings) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Get(ctx context.Context) (*Settings, error) {
	return r.get(ctx, false)
}

func (r *pgxRepository) GetForUpdate(ctx context.Context) (*Settings, error) {
	return r.get(ctx, true)
}

func (r *pgxRepository) get(ctx context.Context, forUpdate bool) (*Settings, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	builder := psql.Select("data", "updated_at").
		From("public.settings").
		Where(squirrel.Eq{"id": documentID})
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get settings query failed: %w", err)
	}

	var (
		data      []byte
		updatedAt time.Time
	)
	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&data, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get settings failed: %w", err)
	}

	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode settings document failed: %w", err)
	}
	s.UpdatedAt = updatedAt
	return &s, nil
}

// Create inserts the document unless one already exists.
func (r *pgxRepository) Create(ctx context.Context, s *Settings) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings document failed: %w", err)
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.settings").
		Columns("id", "data").
		Values(documentID, data).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create settings query failed: %w", err)
	}

	if _, err := db.Conn(ctx, r.pool).Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("create settings failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Update(ctx context.Context, s *Settings) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings document failed: %w", err)
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.settings").
		Set("data", data).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": documentID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update settings query failed: %w", err)
	}

	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update settings failed: %w", err)
	}
	return nil
}
