package country

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// FilterPopular returns the records of all whose name is in names, in input order.
func FilterPopular(all []Country, names []string) []Country {
	wanted := make(map[string]struct{}, len(names))
	for _, n := range names {
		wanted[n] = struct{}{}
	}
	out := make([]Country, 0, len(names))
	for _, c := range all {
		if _, ok := wanted[c.Name]; ok {
			out = append(out, c)
		}
	}
	return out
}

// SortAlphabetically returns a copy of countries stably ordered by name
// under English collation rules. The input is not modified.
func SortAlphabetically(countries []Country) []Country {
	// Collators keep scratch buffers and are not safe for concurrent use.
	col := collate.New(language.English)
	out := slices.Clone(countries)
	slices.SortStableFunc(out, func(a, b Country) int {
		return col.CompareString(a.Name, b.Name)
	})
	return out
}

// Search filters countries by a case-insensitive substring of the name,
// first capital, or region. A blank query matches everything. Results are
// sorted alphabetically.
func Search(countries []Country, query string) []Country {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return SortAlphabetically(countries)
	}
	out := []Country{}
	for _, c := range countries {
		if c.matches(q) {
			out = append(out, c)
		}
	}
	return SortAlphabetically(out)
}
