package repository

import (
	"context"

	"github.com/oksasatya/perfume-catalog/internal/domain/entity"
)

// PerfumeRepository defines perfume persistence. Comments travel with the
// perfume: Update replaces the stored comment list.
type PerfumeRepository interface {
	List(ctx context.Context, f entity.PerfumeFilter) ([]entity.Perfume, error)
	GetByID(ctx context.Context, id string) (*entity.Perfume, error)
	// LockByID loads the perfume holding an update lock for the surrounding transaction.
	LockByID(ctx context.Context, id string) (*entity.Perfume, error)
	Create(ctx context.Context, p *entity.Perfume) error
	Update(ctx context.Context, p *entity.Perfume) error
	Delete(ctx context.Context, id string) error
	// CountByBrand counts perfumes referencing brandID.
	CountByBrand(ctx context.Context, brandID string) (int, error)
	// CountCommentedBy counts perfumes holding at least one comment by memberID.
	CountCommentedBy(ctx context.Context, memberID string) (int, error)
}
