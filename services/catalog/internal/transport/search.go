package transport

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/little_lovely/services/catalog/internal/search"
)

// ParseSearchFilter reads q, brand_id and category_ids. category_ids may repeat
// or hold a comma separated list.
func ParseSearchFilter(v url.Values) (search.Filter, error) {
	f := search.Filter{Query: v.Get("q")}

	if raw := strings.TrimSpace(v.Get("brand_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return search.Filter{}, fmt.Errorf("brand_id is not uuid: %q", raw)
		}
		f.BrandID = &id
	}

	for _, param := range v["category_ids"] {
		for _, raw := range strings.Split(param, ",") {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}
			id, err := uuid.Parse(raw)
			if err != nil {
				return search.Filter{}, fmt.Errorf("category_ids contains a non uuid value: %q", raw)
			}
			f.CategoryIDs = append(f.CategoryIDs, id)
		}
	}
	return f, nil
}
