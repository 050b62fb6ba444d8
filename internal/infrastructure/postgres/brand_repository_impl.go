package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/perfume-catalog/internal/domain/entity"
	"github.com/oksasatya/perfume-catalog/internal/domain/repository"
)

type BrandRepository struct {
	db *DB
}

func NewBrandRepository(db *DB) *BrandRepository {
	return &BrandRepository{db: db}
}

const brandColumns = `id::text, brand_name, created_at, updated_at`

func scanBrand(row pgx.Row) (*entity.Brand, error) {
	b := &entity.Brand{}
	if err := row.Scan(&b.ID, &b.BrandName, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	return b, nil
}

func (r *BrandRepository) List(ctx context.Context, query string) ([]entity.Brand, error) {
	rows, err := r.db.q(ctx).Query(ctx, `
		SELECT `+brandColumns+`
		FROM brands
		WHERE $1 = '' OR brand_name ILIKE $2
		ORDER BY brand_name
	`, query, likePattern(query))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []entity.Brand{}
	for rows.Next() {
		b, err := scanBrand(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func (r *BrandRepository) GetByID(ctx context.Context, id string) (*entity.Brand, error) {
	return scanBrand(r.db.q(ctx).QueryRow(ctx, `SELECT `+brandColumns+` FROM brands WHERE id = $1`, id))
}

func (r *BrandRepository) LockByID(ctx context.Context, id string, mode repository.LockMode) (*entity.Brand, error) {
	return scanBrand(r.db.q(ctx).QueryRow(ctx, `SELECT `+brandColumns+` FROM brands WHERE id = $1`+lockClause(mode), id))
}

func (r *BrandRepository) Create(ctx context.Context, b *entity.Brand) error {
	row := r.db.q(ctx).QueryRow(ctx, `
		INSERT INTO brands (brand_name)
		VALUES ($1)
		RETURNING id::text, created_at, updated_at
	`, b.BrandName)
	return mapErr(row.Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt))
}

func (r *BrandRepository) Update(ctx context.Context, b *entity.Brand) error {
	b.UpdatedAt = time.Now()
	res, err := r.db.q(ctx).Exec(ctx, `
		UPDATE brands SET brand_name = $1, updated_at = $2 WHERE id = $3
	`, b.BrandName, b.UpdatedAt, b.ID)
	if err != nil {
		return mapErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *BrandRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.q(ctx).Exec(ctx, `DELETE FROM brands WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.BrandRepository = (*BrandRepository)(nil)
