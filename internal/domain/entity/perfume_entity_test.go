package entity

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertCommentKeepsPositionAndCreatedAt(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p := &Perfume{}
	p.UpsertComment("a", 3, "nice", t0)
	p.UpsertComment("b", 2, "ok", t0)

	later := t0.Add(time.Hour)
	c, created := p.UpsertComment("a", 1, "changed", later)

	assert.False(t, created)
	require.Len(t, p.Comments, 2)
	assert.Equal(t, "a", p.Comments[0].Author)
	assert.Equal(t, 1, p.Comments[0].Rating)
	assert.Equal(t, "changed", p.Comments[0].Content)
	assert.Equal(t, t0, p.Comments[0].CreatedAt)
	assert.Equal(t, later, p.Comments[0].UpdatedAt)
	assert.Equal(t, p.Comments[0].ID, c.ID)
}

func TestUpsertCommentIdempotent(t *testing.T) {
	p := &Perfume{}
	now := time.Now()
	for i := 0; i < 3; i++ {
		p.UpsertComment("a", 3, "nice", now)
	}
	assert.Len(t, p.Comments, 1)
}

func TestRemoveCommentsBy(t *testing.T) {
	now := time.Now()
	p := &Perfume{}
	p.UpsertComment("a", 3, "x", now)
	p.UpsertComment("b", 2, "y", now)

	assert.Equal(t, 1, p.RemoveCommentsBy("a"))
	assert.Equal(t, 0, p.RemoveCommentsBy("a"))
	require.Len(t, p.Comments, 1)
	assert.Equal(t, "b", p.Comments[0].Author)
}

func TestPerfumeValidate(t *testing.T) {
	p := &Perfume{PerfumeName: "Ocean", Volume: 50}
	errs := p.Validate()

	assert.Contains(t, errs, "uri")
	assert.Contains(t, errs, "brand")
	assert.NotContains(t, errs, "perfumeName")
	assert.NotContains(t, errs, "volume")

	full := &Perfume{
		PerfumeName: "Ocean", URI: "u", Price: 10, Concentration: "EDT", Description: "d",
		Ingredients: "i", Volume: 50, TargetAudience: "unisex", BrandID: "b",
	}
	assert.Nil(t, full.Validate())

	full.Price = math.NaN()
	full.Volume = math.Inf(1)
	errs = full.Validate()
	assert.Equal(t, "must be a number", errs["price"])
	assert.Equal(t, "must be a number", errs["volume"])

	full.Price, full.Volume = math.Inf(-1), 50
	assert.Equal(t, map[string]string{"price": "must be a number"}, full.Validate())
}

func TestAverageRating(t *testing.T) {
	p := &Perfume{}
	assert.Zero(t, p.AverageRating())
	p.UpsertComment("a", 3, "x", time.Now())
	p.UpsertComment("b", 2, "y", time.Now())
	assert.InDelta(t, 2.5, p.AverageRating(), 0.001)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@b.com", NormalizeEmail("  A@B.Com "))
}
