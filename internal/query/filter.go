// Package query narrows catalog collections by free-text search and facet
// selections. Filters are stable: results keep the input's relative order.
package query

import "strings"

// Facet names understood by Record.Facet
const (
	FacetCategory   = "category"
	FacetDifficulty = "difficulty"
	FacetSource     = "source"
	FacetStatus     = "status"
	FacetPlatform   = "platform"
	FacetType       = "type"
	FacetTopic      = "topic"
	FacetFree       = "free"
)

// Record is a catalog entry that can be searched and faceted
type Record interface {
	// SearchText returns the record-type-specific fields the free-text search looks at
	SearchText() []string
	// SearchTags returns the tag set matched by substring
	SearchTags() []string
	// Facet returns the value of a named facet. ok is false when the record
	// type does not define the facet at all.
	Facet(name string) (value string, ok bool)
}

// Predicate decides whether a record is kept
type Predicate[T any] func(T) bool

// Filter returns the subsequence of items satisfying every predicate.
// The result is never nil.
func Filter[T any](items []T, preds ...Predicate[T]) []T {
	result := make([]T, 0, len(items))
	for _, item := range items {
		if matchesAll(item, preds) {
			result = append(result, item)
		}
	}
	return result
}

func matchesAll[T any](item T, preds []Predicate[T]) bool {
	for _, p := range preds {
		if !p(item) {
			return false
		}
	}
	return true
}

// IsAll reports whether a facet selection is the inactive sentinel
func IsAll(value string) bool {
	v := strings.TrimSpace(value)
	return v == "" || strings.EqualFold(v, "all")
}

// Search matches records whose eligible fields or tags contain the query,
// case-insensitively. An empty query matches everything.
func Search[T Record](q string) Predicate[T] {
	needle := strings.ToLower(q)
	return func(r T) bool {
		if needle == "" {
			return true
		}
		for _, field := range r.SearchText() {
			if strings.Contains(strings.ToLower(field), needle) {
				return true
			}
		}
		for _, tag := range r.SearchTags() {
			if strings.Contains(strings.ToLower(tag), needle) {
				return true
			}
		}
		return false
	}
}

// Equals matches records whose facet equals value exactly.
// A sentinel value disables the predicate, and so does a facet the record
// type does not define.
func Equals[T Record](facet, value string) Predicate[T] {
	return func(r T) bool {
		if IsAll(value) {
			return true
		}
		got, ok := r.Facet(facet)
		if !ok {
			return true
		}
		return got == value
	}
}
