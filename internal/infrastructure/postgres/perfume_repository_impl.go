package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/perfume-catalog/internal/domain/entity"
	"github.com/oksasatya/perfume-catalog/internal/domain/repository"
)

type PerfumeRepository struct {
	db *DB
}

func NewPerfumeRepository(db *DB) *PerfumeRepository {
	return &PerfumeRepository{db: db}
}

const perfumeSelect = `
	SELECT p.id::text, p.perfume_name, p.uri, p.price, p.concentration, p.description,
	       p.ingredients, p.volume, p.target_audience, p.comments, p.brand_id::text,
	       COALESCE(b.brand_name, ''), p.created_at, p.updated_at
	FROM perfumes p
	LEFT JOIN brands b ON b.id = p.brand_id`

func scanPerfume(row pgx.Row) (*entity.Perfume, error) {
	p := &entity.Perfume{}
	var comments []byte
	if err := row.Scan(&p.ID, &p.PerfumeName, &p.URI, &p.Price, &p.Concentration, &p.Description,
		&p.Ingredients, &p.Volume, &p.TargetAudience, &comments, &p.BrandID,
		&p.BrandName, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	p.Comments = []entity.Comment{}
	if len(comments) > 0 {
		if err := json.Unmarshal(comments, &p.Comments); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func encodeComments(cs []entity.Comment) (string, error) {
	if cs == nil {
		cs = []entity.Comment{}
	}
	stored := make([]entity.Comment, len(cs))
	for i, c := range cs {
		c.AuthorName = ""
		stored[i] = c
	}
	b, err := json.Marshal(stored)
	return string(b), err
}

func (r *PerfumeRepository) List(ctx context.Context, f entity.PerfumeFilter) ([]entity.Perfume, error) {
	rows, err := r.db.q(ctx).Query(ctx, perfumeSelect+`
		WHERE ($1 = '' OR p.perfume_name ILIKE $2)
		  AND ($3 = '' OR p.brand_id::text = $3)
		ORDER BY p.created_at DESC
	`, f.Query, likePattern(f.Query), f.BrandID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []entity.Perfume{}
	for rows.Next() {
		p, err := scanPerfume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *PerfumeRepository) GetByID(ctx context.Context, id string) (*entity.Perfume, error) {
	return scanPerfume(r.db.q(ctx).QueryRow(ctx, perfumeSelect+` WHERE p.id = $1`, id))
}

func (r *PerfumeRepository) LockByID(ctx context.Context, id string) (*entity.Perfume, error) {
	return scanPerfume(r.db.q(ctx).QueryRow(ctx, perfumeSelect+` WHERE p.id = $1 FOR UPDATE OF p`, id))
}

func (r *PerfumeRepository) Create(ctx context.Context, p *entity.Perfume) error {
	comments, err := encodeComments(p.Comments)
	if err != nil {
		return err
	}
	row := r.db.q(ctx).QueryRow(ctx, `
		INSERT INTO perfumes (perfume_name, uri, price, concentration, description,
		                      ingredients, volume, target_audience, comments, brand_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::jsonb, $10)
		RETURNING id::text, created_at, updated_at
	`, p.PerfumeName, p.URI, p.Price, p.Concentration, p.Description,
		p.Ingredients, p.Volume, p.TargetAudience, comments, p.BrandID)
	if p.Comments == nil {
		p.Comments = []entity.Comment{}
	}
	return mapErr(row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt))
}

func (r *PerfumeRepository) Update(ctx context.Context, p *entity.Perfume) error {
	comments, err := encodeComments(p.Comments)
	if err != nil {
		return err
	}
	p.UpdatedAt = time.Now()
	res, err := r.db.q(ctx).Exec(ctx, `
		UPDATE perfumes
		SET perfume_name = $1, uri = $2, price = $3, concentration = $4, description = $5,
		    ingredients = $6, volume = $7, target_audience = $8, comments = $9::jsonb,
		    brand_id = $10, updated_at = $11
		WHERE id = $12
	`, p.PerfumeName, p.URI, p.Price, p.Concentration, p.Description,
		p.Ingredients, p.Volume, p.TargetAudience, comments,
		p.BrandID, p.UpdatedAt, p.ID)
	if err != nil {
		return mapErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PerfumeRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.q(ctx).Exec(ctx, `DELETE FROM perfumes WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PerfumeRepository) CountByBrand(ctx context.Context, brandID string) (int, error) {
	var n int
	err := r.db.q(ctx).QueryRow(ctx, `SELECT count(*) FROM perfumes WHERE brand_id::text = $1`, brandID).Scan(&n)
	return n, mapErr(err)
}

// CountCommentedBy scans every perfume's embedded comment array; the GIN
// index on comments serves the containment predicate.
func (r *PerfumeRepository) CountCommentedBy(ctx context.Context, memberID string) (int, error) {
	var n int
	err := r.db.q(ctx).QueryRow(ctx, `
		SELECT count(*) FROM perfumes
		WHERE comments @> jsonb_build_array(jsonb_build_object('author', $1::text))
	`, memberID).Scan(&n)
	return n, mapErr(err)
}

var _ repository.PerfumeRepository = (*PerfumeRepository)(nil)
