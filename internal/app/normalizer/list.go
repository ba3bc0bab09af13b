package normalizer

import (
	"dashboard_client/internal/domain/entity"
	"dashboard_client/internal/pkg/utils"
)

// NormalizeList returns the records of a list endpoint. fields names the key
// the array may be nested under (e.g. "users"). Non-object entries are dropped.
func NormalizeList(env entity.Envelope, resource string, fields ...string) (entity.CanonicalList, error) {
	candidates := append(append([]string{}, fields...), "items")
	items, err := selectArray(env, resource, candidates...)
	if err != nil {
		return entity.CanonicalList{}, err
	}

	list := entity.CanonicalList{Items: make([]map[string]any, 0, len(items))}
	for _, item := range items {
		if m, ok := utils.AsMap(item); ok {
			list.Items = append(list.Items, m)
		}
	}
	list.Total = listTotal(env, len(list.Items))
	return list, nil
}

// listTotal prefers a server-side count (pagination) over the page length.
func listTotal(env entity.Envelope, fallback int) int {
	paths := [][]string{
		{"body", "data", "total"},
		{"data", "total"},
		{"total"},
		{"count"},
	}
	for _, p := range paths {
		v, ok := utils.Lookup(env, p...)
		if !ok {
			continue
		}
		if n, ok := utils.ParseNumeric(v); ok && n >= 0 {
			return int(n)
		}
	}
	return fallback
}
