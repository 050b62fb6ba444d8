// Package search keeps an Elasticsearch index of perfumes for full-text lookup.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/perfume-catalog/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

type PerfumeIndex struct {
	ES    *elasticsearch.Client
	Index string
}

func NewPerfumeIndex(es *elasticsearch.Client, index string) *PerfumeIndex {
	return &PerfumeIndex{ES: es, Index: index}
}

type perfumeDoc struct {
	ID             string    `json:"id"`
	PerfumeName    string    `json:"perfumeName"`
	BrandID        string    `json:"brand"`
	BrandName      string    `json:"brandName"`
	Description    string    `json:"description"`
	Ingredients    string    `json:"ingredients"`
	Concentration  string    `json:"concentration"`
	TargetAudience string    `json:"targetAudience"`
	Price          float64   `json:"price"`
	AverageRating  float64   `json:"averageRating"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func docFor(p *entity.Perfume) perfumeDoc {
	return perfumeDoc{
		ID:             p.ID,
		PerfumeName:    p.PerfumeName,
		BrandID:        p.BrandID,
		BrandName:      p.BrandName,
		Description:    p.Description,
		Ingredients:    p.Ingredients,
		Concentration:  p.Concentration,
		TargetAudience: p.TargetAudience,
		Price:          p.Price,
		AverageRating:  p.AverageRating(),
		UpdatedAt:      p.UpdatedAt,
	}
}

// Index upserts the perfume document.
func (x *PerfumeIndex) Index(ctx context.Context, p *entity.Perfume) error {
	b, err := json.Marshal(docFor(p))
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.Index, DocumentID: p.ID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index %s: %s", p.ID, res.Status())
	}
	return nil
}

// Remove deletes the perfume document. A missing document is not an error.
func (x *PerfumeIndex) Remove(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{Index: x.Index, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("es delete %s: %s", id, res.Status())
	}
	return nil
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string     `json:"_id"`
			Score  float64    `json:"_score"`
			Source perfumeDoc `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search runs a multi_match over names, description and ingredients.
func (x *PerfumeIndex) Search(ctx context.Context, query string, size int) ([]entity.PerfumeHit, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"perfumeName^3", "brandName^2", "ingredients", "description"},
				"fuzziness": "AUTO",
			},
		},
		"size": size,
	}
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := x.ES.Search(
		x.ES.Search.WithContext(c),
		x.ES.Search.WithIndex(x.Index),
		x.ES.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		// Nothing has been indexed yet.
		if res.StatusCode == http.StatusNotFound {
			return []entity.PerfumeHit{}, nil
		}
		return nil, fmt.Errorf("es search: %s", res.Status())
	}
	return decodeHits(res.Body)
}

func decodeHits(r io.Reader) ([]entity.PerfumeHit, error) {
	var sr searchResponse
	if err := json.NewDecoder(r).Decode(&sr); err != nil {
		return nil, err
	}
	hits := make([]entity.PerfumeHit, 0, len(sr.Hits.Hits))
	for _, h := range sr.Hits.Hits {
		hits = append(hits, entity.PerfumeHit{
			ID:          h.ID,
			PerfumeName: h.Source.PerfumeName,
			BrandName:   h.Source.BrandName,
			Score:       h.Score,
		})
	}
	return hits, nil
}
