package directory

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/laundrymap/laundrymap/internal/model"
)

// MinQueryLen is the shortest query treated as a search; anything shorter
// yields no results.
const MinQueryLen = 2

// MatchField names the business field a search query matched.
type MatchField string

const (
	MatchName    MatchField = "name"
	MatchAddress MatchField = "address"
)

// SearchResult is a search hit. The embedded business keeps its original
// casing so callers can highlight the matched substring themselves.
type SearchResult struct {
	model.Business
	MatchedField MatchField `json:"matched_field"`
}

// Search matches query as a case-insensitive substring of business name or
// address and returns at most limit hits (limit <= 0 means unbounded).
// Name matches rank before address-only matches, shorter names before
// longer ones, with input order as the final stable tie-break.
func Search(businesses []model.Business, query string, limit int) []SearchResult {
	query = normalizeQuery(query)
	if query == "" {
		return nil
	}

	fold := cases.Fold()
	var hits []SearchResult
	for _, b := range businesses {
		switch {
		case strings.Contains(fold.String(b.Name), query):
			hits = append(hits, SearchResult{Business: b, MatchedField: MatchName})
		case b.Address != "" && strings.Contains(fold.String(b.Address), query):
			hits = append(hits, SearchResult{Business: b, MatchedField: MatchAddress})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if (hits[i].MatchedField == MatchName) != (hits[j].MatchedField == MatchName) {
			return hits[i].MatchedField == MatchName
		}
		return len(hits[i].Name) < len(hits[j].Name)
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

// normalizeQuery trims and case-folds a query, returning "" when it is too
// short to be meaningful.
func normalizeQuery(q string) string {
	q = strings.TrimSpace(q)
	if len(q) < MinQueryLen {
		return ""
	}
	return cases.Fold().String(q)
}

// matchesQuery reports whether a normalized query is a substring of the
// business name or address.
func matchesQuery(b model.Business, query string) bool {
	fold := cases.Fold()
	if strings.Contains(fold.String(b.Name), query) {
		return true
	}
	return b.Address != "" && strings.Contains(fold.String(b.Address), query)
}
