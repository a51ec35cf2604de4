package catalog

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// genreSource wraps Genres for fuzzy matching on their labels
type genreSource []GenreInfo

func (s genreSource) String(i int) string {
	return strings.ToLower(s[i].Label)
}

func (s genreSource) Len() int {
	return len(s)
}

// MatchGenre resolves free text such as "lo fi" or "amb" to a known genre.
// An exact ID wins; otherwise the best fuzzy match on the labels is used.
func MatchGenre(query string) (GenreInfo, bool) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return GenreInfo{}, false
	}
	if info, ok := LookupGenre(query); ok {
		return info, true
	}

	matches := fuzzy.FindFrom(query, genreSource(Genres))
	if len(matches) == 0 {
		return GenreInfo{}, false
	}
	return Genres[matches[0].Index], true
}
