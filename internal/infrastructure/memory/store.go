// Package memory is a process-local store used with DB_DRIVER=memory and in
// tests. Transactions are serialized by a single lock, so every guarded
// check-then-write runs atomically.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/perfume-catalog/internal/domain/entity"
	"github.com/oksasatya/perfume-catalog/internal/domain/repository"
)

type txKey struct{}

type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	brands   map[string]entity.Brand
	perfumes map[string]entity.Perfume
	members  map[string]entity.Member

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		brands:   map[string]entity.Brand{},
		perfumes: map[string]entity.Perfume{},
		members:  map[string]entity.Member{},
		now:      time.Now,
	}
}

// WithinTx serializes fn against every other transaction. Writes are applied
// immediately; a failing fn does not roll them back.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(context.WithValue(ctx, txKey{}, true))
}

func (s *Store) Brands() *BrandRepository     { return &BrandRepository{s: s} }
func (s *Store) Perfumes() *PerfumeRepository { return &PerfumeRepository{s: s} }
func (s *Store) Members() *MemberRepository   { return &MemberRepository{s: s} }

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func clonePerfume(p entity.Perfume) entity.Perfume {
	cs := make([]entity.Comment, len(p.Comments))
	copy(cs, p.Comments)
	p.Comments = cs
	return p
}

// BrandRepository

type BrandRepository struct{ s *Store }

func (r *BrandRepository) List(_ context.Context, query string) ([]entity.Brand, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []entity.Brand{}
	for _, b := range r.s.brands {
		if query == "" || containsFold(b.BrandName, query) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BrandName < out[j].BrandName })
	return out, nil
}

func (r *BrandRepository) GetByID(_ context.Context, id string) (*entity.Brand, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	b, ok := r.s.brands[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &b, nil
}

func (r *BrandRepository) LockByID(ctx context.Context, id string, _ repository.LockMode) (*entity.Brand, error) {
	return r.GetByID(ctx, id)
}

func (r *BrandRepository) Create(_ context.Context, b *entity.Brand) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.brands {
		if existing.BrandName == b.BrandName {
			return repository.ErrDuplicate
		}
	}
	now := r.s.now()
	b.ID, b.CreatedAt, b.UpdatedAt = uuid.NewString(), now, now
	r.s.brands[b.ID] = *b
	return nil
}

func (r *BrandRepository) Update(_ context.Context, b *entity.Brand) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.brands[b.ID]; !ok {
		return repository.ErrNotFound
	}
	for id, existing := range r.s.brands {
		if id != b.ID && existing.BrandName == b.BrandName {
			return repository.ErrDuplicate
		}
	}
	b.UpdatedAt = r.s.now()
	r.s.brands[b.ID] = *b
	return nil
}

func (r *BrandRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.brands[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.brands, id)
	return nil
}

// PerfumeRepository

type PerfumeRepository struct{ s *Store }

func (r *PerfumeRepository) withBrand(p entity.Perfume) entity.Perfume {
	p = clonePerfume(p)
	p.BrandName = ""
	if b, ok := r.s.brands[p.BrandID]; ok {
		p.BrandName = b.BrandName
	}
	return p
}

func (r *PerfumeRepository) List(_ context.Context, f entity.PerfumeFilter) ([]entity.Perfume, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []entity.Perfume{}
	for _, p := range r.s.perfumes {
		if f.Query != "" && !containsFold(p.PerfumeName, f.Query) {
			continue
		}
		if f.BrandID != "" && p.BrandID != f.BrandID {
			continue
		}
		out = append(out, r.withBrand(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *PerfumeRepository) GetByID(_ context.Context, id string) (*entity.Perfume, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.perfumes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := r.withBrand(p)
	return &out, nil
}

func (r *PerfumeRepository) LockByID(ctx context.Context, id string) (*entity.Perfume, error) {
	return r.GetByID(ctx, id)
}

func (r *PerfumeRepository) Create(_ context.Context, p *entity.Perfume) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	p.ID, p.CreatedAt, p.UpdatedAt = uuid.NewString(), now, now
	if p.Comments == nil {
		p.Comments = []entity.Comment{}
	}
	stored := clonePerfume(*p)
	stored.BrandName = ""
	r.s.perfumes[p.ID] = stored
	return nil
}

func (r *PerfumeRepository) Update(_ context.Context, p *entity.Perfume) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.perfumes[p.ID]; !ok {
		return repository.ErrNotFound
	}
	p.UpdatedAt = r.s.now()
	stored := clonePerfume(*p)
	stored.BrandName = ""
	for i := range stored.Comments {
		stored.Comments[i].AuthorName = ""
	}
	r.s.perfumes[p.ID] = stored
	return nil
}

func (r *PerfumeRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.perfumes[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.perfumes, id)
	return nil
}

func (r *PerfumeRepository) CountByBrand(_ context.Context, brandID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, p := range r.s.perfumes {
		if p.BrandID == brandID {
			n++
		}
	}
	return n, nil
}

func (r *PerfumeRepository) CountCommentedBy(_ context.Context, memberID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, p := range r.s.perfumes {
		if _, ok := p.CommentBy(memberID); ok {
			n++
		}
	}
	return n, nil
}

// MemberRepository

type MemberRepository struct{ s *Store }

func (r *MemberRepository) List(_ context.Context) ([]entity.Member, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]entity.Member, 0, len(r.s.members))
	for _, m := range r.s.members {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *MemberRepository) Count(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.members), nil
}

func (r *MemberRepository) GetByID(_ context.Context, id string) (*entity.Member, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.members[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}

func (r *MemberRepository) GetByEmail(_ context.Context, email string) (*entity.Member, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	email = entity.NormalizeEmail(email)
	for _, m := range r.s.members {
		if m.Email == email {
			return &m, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *MemberRepository) GetByIDs(_ context.Context, ids []string) (map[string]entity.Member, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make(map[string]entity.Member, len(ids))
	for _, id := range ids {
		if m, ok := r.s.members[id]; ok {
			out[id] = m
		}
	}
	return out, nil
}

func (r *MemberRepository) LockByID(ctx context.Context, id string, _ repository.LockMode) (*entity.Member, error) {
	return r.GetByID(ctx, id)
}

func (r *MemberRepository) ExistsAdmin(_ context.Context) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, m := range r.s.members {
		if m.IsAdmin {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemberRepository) Create(_ context.Context, m *entity.Member) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m.Email = entity.NormalizeEmail(m.Email)
	for _, existing := range r.s.members {
		if existing.Email == m.Email {
			return repository.ErrDuplicate
		}
	}
	now := r.s.now()
	m.ID, m.CreatedAt, m.UpdatedAt = uuid.NewString(), now, now
	r.s.members[m.ID] = *m
	return nil
}

func (r *MemberRepository) Update(_ context.Context, m *entity.Member) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.members[m.ID]; !ok {
		return repository.ErrNotFound
	}
	m.Email = entity.NormalizeEmail(m.Email)
	for id, existing := range r.s.members {
		if id != m.ID && existing.Email == m.Email {
			return repository.ErrDuplicate
		}
	}
	m.UpdatedAt = r.s.now()
	r.s.members[m.ID] = *m
	return nil
}

func (r *MemberRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.members[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.members, id)
	return nil
}

var (
	_ repository.Transactor        = (*Store)(nil)
	_ repository.BrandRepository   = (*BrandRepository)(nil)
	_ repository.PerfumeRepository = (*PerfumeRepository)(nil)
	_ repository.MemberRepository  = (*MemberRepository)(nil)
)
