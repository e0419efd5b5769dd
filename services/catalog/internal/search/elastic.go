package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"

	"github.com/Skotchmaster/little_lovely/services/catalog/internal/models"
)

type Document struct {
	ID           uuid.UUID   `json:"id"`
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	SellingPrice float64     `json:"selling_price"`
	Brand        string      `json:"brand"`
	BrandID      uuid.UUID   `json:"brand_id"`
	CategoryIDs  []uuid.UUID `json:"category_ids"`
	Active       bool        `json:"active"`
}

func DocumentFromProduct(p models.Product) Document {
	categoryIDs := make([]uuid.UUID, len(p.Categories))
	for i, c := range p.Categories {
		categoryIDs[i] = c.ID
	}
	return Document{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		SellingPrice: p.SellingPrice,
		Brand:        p.Brand.Name,
		BrandID:      p.BrandID,
		CategoryIDs:  categoryIDs,
		Active:       p.Active,
	}
}

// Filter narrows a search; zero fields match everything.
type Filter struct {
	Query       string
	BrandID     *uuid.UUID
	CategoryIDs []uuid.UUID
}

// esQuery builds a bool query: full-text on name/description when Query is set,
// match_all otherwise, with brand and category as non-scoring filters.
func (f Filter) esQuery() map[string]any {
	must := map[string]any{"match_all": map[string]any{}}
	if f.Query != "" {
		must = map[string]any{
			"multi_match": map[string]any{
				"query":     f.Query,
				"fields":    []string{"name^2", "description"},
				"fuzziness": "AUTO",
			},
		}
	}

	filters := []any{}
	if f.BrandID != nil {
		filters = append(filters, map[string]any{
			"term": map[string]any{"brand_id": f.BrandID.String()},
		})
	}
	if len(f.CategoryIDs) > 0 {
		ids := make([]string, len(f.CategoryIDs))
		for i, id := range f.CategoryIDs {
			ids[i] = id.String()
		}
		filters = append(filters, map[string]any{
			"terms": map[string]any{"category_ids": ids},
		})
	}

	return map[string]any{
		"bool": map[string]any{
			"must":   must,
			"filter": filters,
		},
	}
}

func NewClient(url, user, password string) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch error: %s: %s", res.Status(), body)
	}

	return client, nil
}

// Index keeps the product search index in sync and answers full-text queries.
type Index struct {
	ES   *elasticsearch.Client
	Name string
}

const indexMapping = `{
  "mappings": {
    "properties": {
      "id":            {"type": "keyword"},
      "name":          {"type": "text"},
      "description":   {"type": "text"},
      "selling_price": {"type": "double"},
      "brand":         {"type": "text"},
      "brand_id":      {"type": "keyword"},
      "category_ids":  {"type": "keyword"},
      "active":        {"type": "boolean"}
    }
  }
}`

// EnsureIndex creates the index with keyword ids so brand and category filters match exactly.
func (i *Index) EnsureIndex(ctx context.Context) error {
	res, err := i.ES.Indices.Exists([]string{i.Name}, i.ES.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = i.ES.Indices.Create(
		i.Name,
		i.ES.Indices.Create.WithBody(strings.NewReader(indexMapping)),
		i.ES.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("create index: %s", res.Status())
	}
	return nil
}

func (i *Index) IndexProduct(ctx context.Context, p models.Product) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(DocumentFromProduct(p)); err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	res, err := i.ES.Index(
		i.Name,
		&buf,
		i.ES.Index.WithDocumentID(p.ID.String()),
		i.ES.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index product: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index product: %s", res.Status())
	}
	return nil
}

func (i *Index) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	res, err := i.ES.Delete(i.Name, id.String(), i.ES.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete document: %s", res.Status())
	}
	return nil
}

func (i *Index) Search(ctx context.Context, f Filter, from, size int) (int64, []Document, error) {
	body := map[string]any{
		"query": f.esQuery(),
		"from":  from,
		"size":  size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("encode query: %w", err)
	}

	res, err := i.ES.Search(
		i.ES.Search.WithContext(ctx),
		i.ES.Search.WithIndex(i.Name),
		i.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source Document `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("decode search response: %w", err)
	}

	docs := make([]Document, len(r.Hits.Hits))
	for n, hit := range r.Hits.Hits {
		docs[n] = hit.Source
	}
	return r.Hits.Total.Value, docs, nil
}
