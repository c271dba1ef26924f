package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tripatlas/destinations/internal/domain"
)

type DestinationRepository interface {
	List(ctx context.Context, filters domain.ListFilters, limit, offset int) ([]domain.Destination, int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Destination, error)
	Create(ctx context.Context, userID int64, req *domain.CreateDestinationRequest) (*domain.Destination, error)
	Update(ctx context.Context, id int64, patch domain.DestinationPatch) (*domain.Destination, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type destinationRepository struct {
	pool *pgxpool.Pool
}

func NewDestinationRepository(pool *pgxpool.Pool) DestinationRepository {
	return &destinationRepository{pool: pool}
}

const destinationCols = `id, name, description, country_code, type, last_modif, user_id, created_at, updated_at`

func (r *destinationRepository) scanRow(row pgx.Row) (*domain.Destination, error) {
	var d domain.Destination
	err := row.Scan(
		&d.ID, &d.Name, &d.Description, &d.CountryCode, &d.Type,
		&d.LastModified, &d.UserID, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// List returns one page ordered by creation time, most recent first, plus
// the total row count for the same filters.
func (r *destinationRepository) List(ctx context.Context, filters domain.ListFilters, limit, offset int) ([]domain.Destination, int64, error) {
	where := ""
	args := []any{}
	if filters.Type != nil {
		args = append(args, *filters.Type)
		where += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if filters.CountryCode != nil {
		args = append(args, *filters.CountryCode)
		where += fmt.Sprintf(" AND country_code = $%d", len(args))
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var total int64
	countQuery := `SELECT count(*) FROM destinations WHERE true` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + destinationCols + ` FROM destinations WHERE true` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var destinations []domain.Destination
	for rows.Next() {
		var d domain.Destination
		if err := rows.Scan(
			&d.ID, &d.Name, &d.Description, &d.CountryCode, &d.Type,
			&d.LastModified, &d.UserID, &d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		destinations = append(destinations, d)
	}
	return destinations, total, rows.Err()
}

func (r *destinationRepository) GetByID(ctx context.Context, id int64) (*domain.Destination, error) {
	const q = `SELECT ` + destinationCols + ` FROM destinations WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	d, err := r.scanRow(r.pool.QueryRow(ctx, q, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return d, err
}

func (r *destinationRepository) Create(ctx context.Context, userID int64, req *domain.CreateDestinationRequest) (*domain.Destination, error) {
	const q = `
		INSERT INTO destinations (name, description, country_code, type, last_modif, user_id)
		VALUES ($1, $2, $3, $4, now(), $5)
		RETURNING ` + destinationCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return r.scanRow(r.pool.QueryRow(ctx, q,
		req.Name, req.Description, req.CountryCode, req.Type, userID,
	))
}

func (r *destinationRepository) Update(ctx context.Context, id int64, patch domain.DestinationPatch) (*domain.Destination, error) {
	const q = `
		UPDATE destinations
		SET
			name         = COALESCE($2, name),
			description  = COALESCE($3, description),
			country_code = COALESCE($4, country_code),
			type         = COALESCE($5, type),
			last_modif   = now(),
			updated_at   = now()
		WHERE id = $1
		RETURNING ` + destinationCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	d, err := r.scanRow(r.pool.QueryRow(ctx, q,
		id, patch.Name, patch.Description, patch.CountryCode, patch.Type,
	))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return d, err
}

func (r *destinationRepository) Delete(ctx context.Context, id int64) (bool, error) {
	const q = `DELETE FROM destinations WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}
