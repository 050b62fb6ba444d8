package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/perfume-catalog/internal/domain/entity"
	repo "github.com/oksasatya/perfume-catalog/internal/domain/repository"
)

// BrandReindexer refreshes search documents that embed a brand's name.
type BrandReindexer interface {
	ReindexBrand(ctx context.Context, brandID string)
}

type BrandService struct {
	Repo    repo.BrandRepository
	Tx      repo.Transactor
	Guard   *IntegrityGuard
	Reindex BrandReindexer // nil skips reindexing on rename
	Logger  *logrus.Logger
}

func NewBrandService(r repo.BrandRepository, tx repo.Transactor, guard *IntegrityGuard, logger *logrus.Logger) *BrandService {
	return &BrandService{Repo: r, Tx: tx, Guard: guard, Logger: logger}
}

func (s *BrandService) List(ctx context.Context, query string) ([]entity.Brand, error) {
	brands, err := s.Repo.List(ctx, query)
	if err != nil {
		return nil, Internal(err)
	}
	return brands, nil
}

func (s *BrandService) Get(ctx context.Context, id string) (*entity.Brand, error) {
	b, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Brand not found")
	}
	return b, nil
}

func (s *BrandService) Create(ctx context.Context, name string) (*entity.Brand, error) {
	b := &entity.Brand{BrandName: entity.NormalizeBrandName(name)}
	if b.BrandName == "" {
		return nil, Validation("Brand validation failed", map[string]string{"brandName": "is required"})
	}
	if err := s.Repo.Create(ctx, b); err != nil {
		return nil, s.writeErr(err, b.BrandName)
	}
	return b, nil
}

func (s *BrandService) Update(ctx context.Context, id, name string) (*entity.Brand, error) {
	name = entity.NormalizeBrandName(name)
	if name == "" {
		return nil, Validation("Brand validation failed", map[string]string{"brandName": "is required"})
	}
	b, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Brand not found")
	}
	renamed := b.BrandName != name
	b.BrandName = name
	if err := s.Repo.Update(ctx, b); err != nil {
		return nil, s.writeErr(err, name)
	}
	if renamed && s.Reindex != nil {
		s.Reindex.ReindexBrand(ctx, b.ID)
	}
	return b, nil
}

// Delete removes a brand once the integrity guard approves it.
func (s *BrandService) Delete(ctx context.Context, id string) (*entity.Brand, error) {
	var deleted *entity.Brand
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		b, err := s.Guard.GuardBrandDeletion(ctx, id)
		if err != nil {
			return err
		}
		if err := s.Repo.Delete(ctx, id); err != nil {
			return notFoundOr(err, "Brand not found")
		}
		deleted = b
		return nil
	})
	if err != nil {
		return nil, AsError(err)
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"brand_id": deleted.ID, "brand_name": deleted.BrandName}).Info("brand deleted")
	}
	return deleted, nil
}

func (s *BrandService) writeErr(err error, name string) error {
	switch {
	case errors.Is(err, repo.ErrDuplicate):
		return Conflict(CodeBrandNameTaken, "Brand name already exists", map[string]any{"brandName": name})
	case errors.Is(err, repo.ErrNotFound):
		return NotFound("Brand not found")
	default:
		return Internal(err)
	}
}
