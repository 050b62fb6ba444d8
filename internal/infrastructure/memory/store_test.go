package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/perfume-catalog/internal/domain/entity"
	"github.com/oksasatya/perfume-catalog/internal/domain/repository"
)

func TestPerfumeListFiltersAndBrandName(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	dior := &entity.Brand{BrandName: "Dior"}
	chanel := &entity.Brand{BrandName: "Chanel"}
	require.NoError(t, s.Brands().Create(ctx, dior))
	require.NoError(t, s.Brands().Create(ctx, chanel))
	require.NoError(t, s.Perfumes().Create(ctx, &entity.Perfume{PerfumeName: "Sauvage", BrandID: dior.ID}))
	require.NoError(t, s.Perfumes().Create(ctx, &entity.Perfume{PerfumeName: "Bleu", BrandID: chanel.ID}))

	got, err := s.Perfumes().List(ctx, entity.PerfumeFilter{Query: "sAuV"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Dior", got[0].BrandName)

	got, err = s.Perfumes().List(ctx, entity.PerfumeFilter{BrandID: chanel.ID})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Bleu", got[0].PerfumeName)
}

func TestDuplicates(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.Brands().Create(ctx, &entity.Brand{BrandName: "Dior"}))
	assert.ErrorIs(t, s.Brands().Create(ctx, &entity.Brand{BrandName: "Dior"}), repository.ErrDuplicate)

	require.NoError(t, s.Members().Create(ctx, &entity.Member{Email: "A@x.com"}))
	assert.ErrorIs(t, s.Members().Create(ctx, &entity.Member{Email: "a@x.com "}), repository.ErrDuplicate)
}

func TestReadsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	p := &entity.Perfume{PerfumeName: "X"}
	require.NoError(t, s.Perfumes().Create(ctx, p))

	loaded, err := s.Perfumes().GetByID(ctx, p.ID)
	require.NoError(t, err)
	loaded.UpsertComment("m1", 2, "c", time.Now())

	again, err := s.Perfumes().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, again.Comments)
}

func TestCountCommentedBy(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	for i := 0; i < 3; i++ {
		p := &entity.Perfume{PerfumeName: "P"}
		if i < 2 {
			p.UpsertComment("m1", 3, "c", time.Now())
		}
		require.NoError(t, s.Perfumes().Create(ctx, p))
	}
	n, err := s.Perfumes().CountCommentedBy(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestWithinTxReentrant(t *testing.T) {
	s := NewStore()
	calls := 0
	err := s.WithinTx(context.Background(), func(ctx context.Context) error {
		return s.WithinTx(ctx, func(context.Context) error {
			calls++
			return nil
		})
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}
