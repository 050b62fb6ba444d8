package search

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/perfume-catalog/internal/domain/entity"
)

func TestDecodeHits(t *testing.T) {
	body := `{"hits":{"hits":[
		{"_id":"p1","_score":2.5,"_source":{"perfumeName":"Ocean Mist","brandName":"Aqua Dior"}},
		{"_id":"p2","_score":1.1,"_source":{"perfumeName":"Midnight Amber","brandName":"Amber House"}}
	]}}`
	hits, err := decodeHits(strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, entity.PerfumeHit{ID: "p1", PerfumeName: "Ocean Mist", BrandName: "Aqua Dior", Score: 2.5}, hits[0])
}

func TestDocForCarriesAverageRating(t *testing.T) {
	p := &entity.Perfume{ID: "p1", PerfumeName: "Ocean Mist", BrandName: "Aqua Dior"}
	p.UpsertComment("a", 3, "x", time.Now())
	p.UpsertComment("b", 1, "y", time.Now())

	doc := docFor(p)
	assert.Equal(t, "Aqua Dior", doc.BrandName)
	assert.InDelta(t, 2.0, doc.AverageRating, 0.001)
}
