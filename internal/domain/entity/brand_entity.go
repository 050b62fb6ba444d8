package entity

import (
	"strings"
	"time"
)

// Brand is referenced by Perfume.BrandID (many-to-one).
// BrandName is unique across the catalog.
type Brand struct {
	ID        string    `json:"_id"`
	BrandName string    `json:"brandName"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NormalizeBrandName trims surrounding whitespace the way the store expects.
func NormalizeBrandName(name string) string {
	return strings.TrimSpace(name)
}
