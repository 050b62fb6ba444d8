package application

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/perfume-catalog/internal/domain/entity"
	repo "github.com/oksasatya/perfume-catalog/internal/domain/repository"
)

// IntegrityGuard runs the referential checks that must pass before a delete.
// Callers run a guard and the delete it approves inside one transaction; the
// guard locks the row being deleted so dependents written concurrently wait.
type IntegrityGuard struct {
	Brands   repo.BrandRepository
	Perfumes repo.PerfumeRepository
	Members  repo.MemberRepository
	Logger   *logrus.Logger
}

func NewIntegrityGuard(brands repo.BrandRepository, perfumes repo.PerfumeRepository, members repo.MemberRepository, logger *logrus.Logger) *IntegrityGuard {
	return &IntegrityGuard{Brands: brands, Perfumes: perfumes, Members: members, Logger: logger}
}

// GuardBrandDeletion denies with BRAND_IN_USE while any perfume references
// the brand, and returns the loaded brand otherwise.
func (g *IntegrityGuard) GuardBrandDeletion(ctx context.Context, brandID string) (*entity.Brand, error) {
	b, err := g.Brands.LockByID(ctx, brandID, repo.LockUpdate)
	if err != nil {
		return nil, notFoundOr(err, "Brand not found")
	}
	n, err := g.Perfumes.CountByBrand(ctx, brandID)
	if err != nil {
		return nil, Internal(err)
	}
	if n > 0 {
		return nil, Conflict(CodeBrandInUse,
			fmt.Sprintf("Cannot delete brand %q: %d perfume(s) still use it. Delete or reassign them first.", b.BrandName, n),
			map[string]any{"brandName": b.BrandName, "perfumeCount": n})
	}
	return b, nil
}

// GuardPerfumeDeletion always permits an existing perfume; its embedded
// comments go with it.
func (g *IntegrityGuard) GuardPerfumeDeletion(ctx context.Context, perfumeID string) (*entity.Perfume, error) {
	p, err := g.Perfumes.LockByID(ctx, perfumeID)
	if err != nil {
		return nil, notFoundOr(err, "Perfume not found")
	}
	if n := len(p.Comments); n > 0 && g.Logger != nil {
		g.Logger.WithFields(logrus.Fields{
			"perfume_id":   p.ID,
			"perfume_name": p.PerfumeName,
			"comments":     n,
		}).Warn("deleting perfume discards its comments")
	}
	return p, nil
}

// GuardMemberDeletion denies with MEMBER_HAS_COMMENTS while any perfume holds
// a comment authored by the member.
func (g *IntegrityGuard) GuardMemberDeletion(ctx context.Context, memberID string) error {
	if _, err := g.Members.LockByID(ctx, memberID, repo.LockUpdate); err != nil {
		return notFoundOr(err, "Member not found")
	}
	n, err := g.Perfumes.CountCommentedBy(ctx, memberID)
	if err != nil {
		return Internal(err)
	}
	if n > 0 {
		return Conflict(CodeMemberHasComments,
			fmt.Sprintf("Cannot delete member: they have comments on %d perfume(s). Delete the comments first.", n),
			map[string]any{"commentCount": n})
	}
	return nil
}
