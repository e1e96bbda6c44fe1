package query

import (
	"net/url"
	"strconv"
)

// Selection holds the filter values picked by a user.
// Facet fields set to "All"/"all"/"" are inactive.
type Selection struct {
	Search     string `json:"search"`
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
	Source     string `json:"source"`

	// Extra facets used by specific collections
	Status   string `json:"status,omitempty"`
	Platform string `json:"platform,omitempty"`
	Type     string `json:"type,omitempty"`
	Topic    string `json:"topic,omitempty"`
	FreeOnly bool   `json:"free_only,omitempty"`
}

// FromValues reads a Selection from URL query parameters
func FromValues(v url.Values) Selection {
	sel := Selection{
		Search:     v.Get("search"),
		Category:   v.Get("category"),
		Difficulty: v.Get("difficulty"),
		Source:     v.Get("source"),
		Status:     v.Get("status"),
		Platform:   v.Get("platform"),
		Type:       v.Get("type"),
		Topic:      v.Get("topic"),
	}
	if free, err := strconv.ParseBool(v.Get("free")); err == nil {
		sel.FreeOnly = free
	}
	return sel
}

// Predicates converts the selection into an AND-composed predicate list
func Predicates[T Record](sel Selection) []Predicate[T] {
	preds := []Predicate[T]{
		Search[T](sel.Search),
		Equals[T](FacetCategory, sel.Category),
		Equals[T](FacetDifficulty, sel.Difficulty),
		Equals[T](FacetSource, sel.Source),
		Equals[T](FacetStatus, sel.Status),
		Equals[T](FacetPlatform, sel.Platform),
		Equals[T](FacetType, sel.Type),
		Equals[T](FacetTopic, sel.Topic),
	}
	if sel.FreeOnly {
		preds = append(preds, Equals[T](FacetFree, "true"))
	}
	return preds
}

// Apply filters items by every active selection
func Apply[T Record](items []T, sel Selection) []T {
	return Filter(items, Predicates[T](sel)...)
}
