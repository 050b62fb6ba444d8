package repository

import (
	"context"

	"github.com/oksasatya/perfume-catalog/internal/domain/entity"
)

// BrandRepository defines brand persistence.
type BrandRepository interface {
	// List returns brands ordered by name; query is a case-insensitive substring.
	List(ctx context.Context, query string) ([]entity.Brand, error)
	GetByID(ctx context.Context, id string) (*entity.Brand, error)
	LockByID(ctx context.Context, id string, mode LockMode) (*entity.Brand, error)
	Create(ctx context.Context, b *entity.Brand) error
	Update(ctx context.Context, b *entity.Brand) error
	Delete(ctx context.Context, id string) error
}
