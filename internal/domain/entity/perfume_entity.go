package entity

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MinRating = 1
	MaxRating = 3
)

// Comment is embedded in a Perfume and never addressed on its own.
type Comment struct {
	ID         string    `json:"_id"`
	Rating     int       `json:"rating"`
	Content    string    `json:"content"`
	Author     string    `json:"author"`
	AuthorName string    `json:"authorName,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Perfume owns its comments: deleting the perfume deletes them.
// BrandName is populated from the referenced brand on reads.
type Perfume struct {
	ID             string    `json:"_id"`
	PerfumeName    string    `json:"perfumeName"`
	URI            string    `json:"uri"`
	Price          float64   `json:"price"`
	Concentration  string    `json:"concentration"`
	Description    string    `json:"description"`
	Ingredients    string    `json:"ingredients"`
	Volume         float64   `json:"volume"`
	TargetAudience string    `json:"targetAudience"`
	Comments       []Comment `json:"comments"`
	BrandID        string    `json:"brand"`
	BrandName      string    `json:"brandName,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// PerfumeFilter narrows listings. Query is a case-insensitive substring of
// the perfume name, BrandID an exact brand reference. Empty fields match all.
type PerfumeFilter struct {
	Query   string
	BrandID string
}

// Validate reports missing required fields keyed by their JSON name.
func (p *Perfume) Validate() map[string]string {
	out := map[string]string{}
	req := func(field, v string) {
		if strings.TrimSpace(v) == "" {
			out[field] = "is required"
		}
	}
	req("perfumeName", p.PerfumeName)
	req("uri", p.URI)
	req("concentration", p.Concentration)
	req("description", p.Description)
	req("ingredients", p.Ingredients)
	req("targetAudience", p.TargetAudience)
	req("brand", p.BrandID)
	switch {
	case !finite(p.Price):
		out["price"] = "must be a number"
	case p.Price < 0:
		out["price"] = "must be greater than or equal to 0"
	}
	switch {
	case !finite(p.Volume):
		out["volume"] = "must be a number"
	case p.Volume <= 0:
		out["volume"] = "must be greater than 0"
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// CommentBy returns the comment authored by memberID, if any.
func (p *Perfume) CommentBy(memberID string) (*Comment, bool) {
	for i := range p.Comments {
		if p.Comments[i].Author == memberID {
			return &p.Comments[i], true
		}
	}
	return nil, false
}

// UpsertComment overwrites the author's existing comment in place, keeping
// its position, id and CreatedAt, or appends a new one. created reports
// whether a comment was appended.
func (p *Perfume) UpsertComment(author string, rating int, content string, now time.Time) (c Comment, created bool) {
	if existing, ok := p.CommentBy(author); ok {
		existing.Rating = rating
		existing.Content = content
		existing.UpdatedAt = now
		return *existing, false
	}
	c = Comment{
		ID:        uuid.NewString(),
		Rating:    rating,
		Content:   content,
		Author:    author,
		CreatedAt: now,
		UpdatedAt: now,
	}
	p.Comments = append(p.Comments, c)
	return c, true
}

// RemoveCommentsBy drops every comment authored by memberID and returns how
// many were removed.
func (p *Perfume) RemoveCommentsBy(memberID string) int {
	kept := p.Comments[:0]
	removed := 0
	for _, c := range p.Comments {
		if c.Author == memberID {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	p.Comments = kept
	return removed
}

// AverageRating is 0 when there are no comments.
func (p *Perfume) AverageRating() float64 {
	if len(p.Comments) == 0 {
		return 0
	}
	sum := 0
	for _, c := range p.Comments {
		sum += c.Rating
	}
	return float64(sum) / float64(len(p.Comments))
}

// ValidRating reports whether r is inside the accepted rating scale.
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}

// PerfumeHit is one full-text search result.
type PerfumeHit struct {
	ID          string  `json:"_id"`
	PerfumeName string  `json:"perfumeName"`
	BrandName   string  `json:"brandName"`
	Score       float64 `json:"score"`
}
