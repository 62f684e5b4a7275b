package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/swiftify/logistics-api/internal/core/domain"
	"github.com/swiftify/logistics-api/internal/core/ports"
)

type ParcelRepository struct {
	db *pgxpool.Pool
}

func NewParcelRepository(db *pgxpool.Pool) *ParcelRepository {
	return &ParcelRepository{db: db}
}

func (r *ParcelRepository) Save(ctx context.Context, p *domain.Parcel) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = r.db.Exec(ctx, `INSERT INTO parcels (id, created_at, data) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data`, p.ID, p.CreatedAt, data)
	return err
}

func (r *ParcelRepository) FindByID(ctx context.Context, id string) (*domain.Parcel, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var data []byte
	if err := r.db.QueryRow(ctx, `SELECT data FROM parcels WHERE id=$1`, id).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrParcelNotFound
		}
		return nil, err
	}

	var p domain.Parcel
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ParcelRepository) List(ctx context.Context) ([]*domain.Parcel, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT data FROM parcels ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	parcels := make([]*domain.Parcel, 0)
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var p domain.Parcel
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		parcels = append(parcels, &p)
	}
	return parcels, rows.Err()
}

func (r *ParcelRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.Exec(ctx, `DELETE FROM parcels WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.ErrParcelNotFound
	}
	return nil
}

func (r *ParcelRepository) Count(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var n int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM parcels`).Scan(&n)
	return n, err
}

var _ ports.ParcelRepository = (*ParcelRepository)(nil)
