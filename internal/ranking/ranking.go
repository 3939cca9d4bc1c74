// Package ranking implements the paste ranking and visibility engine: a pure
// function from a candidate set and a query to the final ordered, filtered
// listing. The repository hands over raw candidates; every visibility rule
// and every ordering decision lives here.
package ranking

import (
	"slices"
	"strings"
	"time"

	"darkbin/internal/models"
)

// Sort modes. Anything unrecognized falls back to SortDefault.
const (
	SortDefault = "default"
	SortViews   = "views"
	SortLikes   = "likes"
)

// CategoryAll is the sentinel that disables category filtering.
const CategoryAll = "all"

// Query describes one listing request. All filters are optional and compose
// with logical AND.
type Query struct {
	Search   string
	Category string
	Tag      string
	OwnerID  string
	Sort     string
}

// Rank filters and orders candidates for the given query. The input slice is
// not modified. The result is deterministic: the same candidate set and query
// produce the same order on every evaluation.
func Rank(candidates []*models.Paste, q Query, now time.Time) []*models.Paste {
	out := make([]*models.Paste, 0, len(candidates))
	for _, p := range candidates {
		if !Visible(p, now) {
			continue
		}
		if !Matches(p, q) {
			continue
		}
		out = append(out, p)
	}

	switch q.Sort {
	case SortViews:
		slices.SortStableFunc(out, byCounter(func(p *models.Paste) int64 { return p.Views }))
	case SortLikes:
		slices.SortStableFunc(out, byCounter(func(p *models.Paste) int64 { return p.Likes }))
	default:
		slices.SortStableFunc(out, byDefault)
	}
	return out
}

// Visible reports whether the paste may appear in listings at time now.
// Expiry is the one filter that is always applied; a paste whose expiry has
// passed never leaks into a listing, even if it is still stored.
func Visible(p *models.Paste, now time.Time) bool {
	return !p.Expired(now)
}

// Matches applies the query's optional filters.
func Matches(p *models.Paste, q Query) bool {
	if q.Category != "" && q.Category != CategoryAll && p.Category != q.Category {
		return false
	}
	if q.OwnerID != "" && p.OwnerID != q.OwnerID {
		return false
	}
	if q.Tag != "" && !tagMatch(p.Tags, q.Tag) {
		return false
	}
	if q.Search != "" && !searchMatch(p, q.Search) {
		return false
	}
	return true
}

// searchMatch is a case-insensitive substring match against title, content,
// or any tag.
func searchMatch(p *models.Paste, term string) bool {
	term = strings.ToLower(term)
	if strings.Contains(strings.ToLower(p.Title), term) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Content), term) {
		return true
	}
	return tagMatch(p.Tags, term)
}

func tagMatch(tags models.TagList, term string) bool {
	term = strings.ToLower(term)
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

// byDefault is the signature three-key ordering: pinned first, then role
// priority, then recency. A pinned paste from a low-priority role always
// outranks an unpinned paste from a high-priority one.
func byDefault(a, b *models.Paste) int {
	if a.Pinned != b.Pinned {
		if a.Pinned {
			return -1
		}
		return 1
	}
	if d := b.Role.Priority() - a.Role.Priority(); d != 0 {
		return d
	}
	return byDate(a, b)
}

// byCounter orders by a counter descending, ties broken by recency.
func byCounter(counter func(*models.Paste) int64) func(a, b *models.Paste) int {
	return func(a, b *models.Paste) int {
		av, bv := counter(a), counter(b)
		if av != bv {
			if av > bv {
				return -1
			}
			return 1
		}
		return byDate(a, b)
	}
}

// byDate orders newest first. Dates are fixed-width UTC RFC 3339 strings, so
// lexicographic comparison is chronological.
func byDate(a, b *models.Paste) int {
	return strings.Compare(b.Date, a.Date)
}
