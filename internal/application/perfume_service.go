package application

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/perfume-catalog/internal/domain/entity"
	repo "github.com/oksasatya/perfume-catalog/internal/domain/repository"
)

// PerfumeIndex is the optional full-text index kept next to the store.
type PerfumeIndex interface {
	Index(ctx context.Context, p *entity.Perfume) error
	Remove(ctx context.Context, id string) error
	Search(ctx context.Context, query string, size int) ([]entity.PerfumeHit, error)
}

// ImageStore uploads perfume images and returns their public URL.
type ImageStore interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

type PerfumeService struct {
	Repo    repo.PerfumeRepository
	Brands  repo.BrandRepository
	Members repo.MemberRepository
	Tx      repo.Transactor
	Guard   *IntegrityGuard
	Index   PerfumeIndex // nil disables search
	Images  ImageStore   // nil disables uploads
	Logger  *logrus.Logger
}

func NewPerfumeService(r repo.PerfumeRepository, brands repo.BrandRepository, members repo.MemberRepository, tx repo.Transactor, guard *IntegrityGuard, logger *logrus.Logger) *PerfumeService {
	return &PerfumeService{Repo: r, Brands: brands, Members: members, Tx: tx, Guard: guard, Logger: logger}
}

// PerfumeInput is a create body or a partial update; nil fields are left as they are.
type PerfumeInput struct {
	PerfumeName    *string  `json:"perfumeName"`
	URI            *string  `json:"uri"`
	Price          *float64 `json:"price"`
	Concentration  *string  `json:"concentration"`
	Description    *string  `json:"description"`
	Ingredients    *string  `json:"ingredients"`
	Volume         *float64 `json:"volume"`
	TargetAudience *string  `json:"targetAudience"`
	Brand          *string  `json:"brand"`
}

// Apply copies the set fields onto p, trimming strings.
func (in PerfumeInput) Apply(p *entity.Perfume) {
	setStr := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	setStr(&p.PerfumeName, in.PerfumeName)
	setStr(&p.URI, in.URI)
	setStr(&p.Concentration, in.Concentration)
	setStr(&p.Description, in.Description)
	setStr(&p.Ingredients, in.Ingredients)
	setStr(&p.TargetAudience, in.TargetAudience)
	setStr(&p.BrandID, in.Brand)
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Volume != nil {
		p.Volume = *in.Volume
	}
}

func (s *PerfumeService) List(ctx context.Context, f entity.PerfumeFilter) ([]entity.Perfume, error) {
	f.Query = strings.TrimSpace(f.Query)
	perfumes, err := s.Repo.List(ctx, f)
	if err != nil {
		return nil, Internal(err)
	}
	return perfumes, nil
}

// Get returns the perfume with brand name and comment author names resolved.
func (s *PerfumeService) Get(ctx context.Context, id string) (*entity.Perfume, error) {
	p, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Perfume not found")
	}
	if err := s.resolveAuthors(ctx, p); err != nil {
		return nil, Internal(err)
	}
	return p, nil
}

func (s *PerfumeService) resolveAuthors(ctx context.Context, p *entity.Perfume) error {
	if len(p.Comments) == 0 {
		return nil
	}
	ids := make([]string, 0, len(p.Comments))
	for _, c := range p.Comments {
		ids = append(ids, c.Author)
	}
	members, err := s.Members.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for i := range p.Comments {
		if m, ok := members[p.Comments[i].Author]; ok {
			p.Comments[i].AuthorName = m.Name
		}
	}
	return nil
}

func (s *PerfumeService) Create(ctx context.Context, in PerfumeInput) (*entity.Perfume, error) {
	p := &entity.Perfume{}
	in.Apply(p)
	if fields := p.Validate(); fields != nil {
		return nil, Validation("Perfume validation failed", fields)
	}
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.ensureBrand(ctx, p.BrandID); err != nil {
			return err
		}
		if err := s.Repo.Create(ctx, p); err != nil {
			return Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, AsError(err)
	}
	return s.reloadAndIndex(ctx, p.ID)
}

func (s *PerfumeService) Update(ctx context.Context, id string, in PerfumeInput) (*entity.Perfume, error) {
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := s.Repo.LockByID(ctx, id)
		if err != nil {
			return notFoundOr(err, "Perfume not found")
		}
		prevBrand := p.BrandID
		in.Apply(p)
		if fields := p.Validate(); fields != nil {
			return Validation("Perfume validation failed", fields)
		}
		if p.BrandID != prevBrand {
			if err := s.ensureBrand(ctx, p.BrandID); err != nil {
				return err
			}
		}
		if err := s.Repo.Update(ctx, p); err != nil {
			return notFoundOr(err, "Perfume not found")
		}
		return nil
	})
	if err != nil {
		return nil, AsError(err)
	}
	return s.reloadAndIndex(ctx, id)
}

// ensureBrand holds a share lock on the brand so a concurrent brand delete
// waits for this write and then sees the new reference.
func (s *PerfumeService) ensureBrand(ctx context.Context, brandID string) error {
	if _, err := s.Brands.LockByID(ctx, brandID, repo.LockShare); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return Validation("Perfume validation failed", map[string]string{"brand": "must reference an existing brand"})
		}
		return Internal(err)
	}
	return nil
}

func (s *PerfumeService) reloadAndIndex(ctx context.Context, id string) (*entity.Perfume, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.index(ctx, p)
	return p, nil
}

// Delete removes a perfume and its embedded comments.
func (s *PerfumeService) Delete(ctx context.Context, id string) (*entity.Perfume, error) {
	var deleted *entity.Perfume
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := s.Guard.GuardPerfumeDeletion(ctx, id)
		if err != nil {
			return err
		}
		if err := s.Repo.Delete(ctx, id); err != nil {
			return notFoundOr(err, "Perfume not found")
		}
		deleted = p
		return nil
	})
	if err != nil {
		return nil, AsError(err)
	}
	if s.Index != nil {
		if err := s.Index.Remove(ctx, id); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("perfume_id", id).Warn("search index remove failed")
		}
	}
	return deleted, nil
}

// UpsertComment creates or overwrites the author's single comment on a
// perfume. created is false when an existing comment was replaced.
func (s *PerfumeService) UpsertComment(ctx context.Context, perfumeID, authorID string, rating int, content string) (*entity.Perfume, bool, error) {
	content = strings.TrimSpace(content)
	fields := map[string]string{}
	if !entity.ValidRating(rating) {
		fields["rating"] = "must be between 1 and 3"
	}
	if content == "" {
		fields["content"] = "is required"
	}
	if len(fields) > 0 {
		return nil, false, Validation("Comment validation failed", fields)
	}

	var created bool
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		// The author's share lock keeps a concurrent member delete from
		// passing its guard before this comment lands.
		if _, err := s.Members.LockByID(ctx, authorID, repo.LockShare); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrUnauthorized
			}
			return Internal(err)
		}
		p, err := s.Repo.LockByID(ctx, perfumeID)
		if err != nil {
			return notFoundOr(err, "Perfume not found")
		}
		_, created = p.UpsertComment(authorID, rating, content, time.Now())
		if err := s.Repo.Update(ctx, p); err != nil {
			return notFoundOr(err, "Perfume not found")
		}
		return nil
	})
	if err != nil {
		return nil, false, AsError(err)
	}
	p, err := s.reloadAndIndex(ctx, perfumeID)
	if err != nil {
		return nil, false, err
	}
	return p, created, nil
}

// DeleteComment removes the author's comment. Removing a comment that does
// not exist succeeds.
func (s *PerfumeService) DeleteComment(ctx context.Context, perfumeID, authorID string) (*entity.Perfume, error) {
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := s.Repo.LockByID(ctx, perfumeID)
		if err != nil {
			return notFoundOr(err, "Perfume not found")
		}
		if p.RemoveCommentsBy(authorID) == 0 {
			return nil
		}
		if err := s.Repo.Update(ctx, p); err != nil {
			return notFoundOr(err, "Perfume not found")
		}
		return nil
	})
	if err != nil {
		return nil, AsError(err)
	}
	return s.reloadAndIndex(ctx, perfumeID)
}

// UploadImage stores the image under perfumes/<id>/ and points the perfume uri at it.
func (s *PerfumeService) UploadImage(ctx context.Context, perfumeID, filename, contentType string, r io.Reader) (*entity.Perfume, error) {
	if s.Images == nil {
		return nil, Unavailable("Image storage is not configured")
	}
	if _, err := s.Repo.GetByID(ctx, perfumeID); err != nil {
		return nil, notFoundOr(err, "Perfume not found")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}
	objectPath := "perfumes/" + perfumeID + "/" + time.Now().UTC().Format("20060102T150405") + ext
	url, err := s.Images.Upload(ctx, objectPath, contentType, r)
	if err != nil {
		return nil, Internal(err)
	}
	return s.Update(ctx, perfumeID, PerfumeInput{URI: &url})
}

// Search queries the full-text index. Without an index every search is empty.
func (s *PerfumeService) Search(ctx context.Context, query string, size int) ([]entity.PerfumeHit, error) {
	query = strings.TrimSpace(query)
	if s.Index == nil || query == "" {
		return []entity.PerfumeHit{}, nil
	}
	if size <= 0 || size > 50 {
		size = 20
	}
	hits, err := s.Index.Search(ctx, query, size)
	if err != nil {
		return nil, Internal(err)
	}
	return hits, nil
}

// ReindexBrand refreshes the search documents of every perfume of brandID,
// which carry the brand name.
func (s *PerfumeService) ReindexBrand(ctx context.Context, brandID string) {
	if s.Index == nil {
		return
	}
	perfumes, err := s.Repo.List(ctx, entity.PerfumeFilter{BrandID: brandID})
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("brand_id", brandID).Warn("search reindex list failed")
		}
		return
	}
	for i := range perfumes {
		s.index(ctx, &perfumes[i])
	}
}

func (s *PerfumeService) index(ctx context.Context, p *entity.Perfume) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, p); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("perfume_id", p.ID).Warn("search index update failed")
	}
}
