package repository

import (
	"context"

	"github.com/oksasatya/perfume-catalog/internal/domain/entity"
)

// MemberRepository defines member persistence. Emails are stored normalized.
type MemberRepository interface {
	List(ctx context.Context) ([]entity.Member, error)
	Count(ctx context.Context) (int, error)
	GetByID(ctx context.Context, id string) (*entity.Member, error)
	GetByEmail(ctx context.Context, email string) (*entity.Member, error)
	// GetByIDs returns the members found, keyed by id. Unknown ids are skipped.
	GetByIDs(ctx context.Context, ids []string) (map[string]entity.Member, error)
	LockByID(ctx context.Context, id string, mode LockMode) (*entity.Member, error)
	ExistsAdmin(ctx context.Context) (bool, error)
	Create(ctx context.Context, m *entity.Member) error
	Update(ctx context.Context, m *entity.Member) error
	Delete(ctx context.Context, id string) error
}
