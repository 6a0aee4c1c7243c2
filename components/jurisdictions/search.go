package jurisdictions

import (
	"sort"
	"strings"

	"github.com/goliatone/go-claimform/pkg/model"
)

// Option is one entry of the JSON response.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Search filters list by query. Exact code matches come first, then names
// starting with the query, then names containing it.
func Search(list []model.Jurisdiction, query string, limit int, opts Options) []model.Jurisdiction {
	limit = clampLimit(limit, opts)
	if limit == 0 {
		return nil
	}

	query = strings.TrimSpace(query)
	if query == "" {
		if opts.EmptySearchMode != EmptySearchAll {
			return nil
		}
		if len(list) > limit {
			list = list[:limit]
		}
		return append([]model.Jurisdiction{}, list...)
	}

	q := strings.ToLower(query)
	matches := make([]match, 0, 8)
	for _, j := range list {
		name := strings.ToLower(j.Name)
		rank := -1
		switch {
		case strings.EqualFold(j.Code, query):
			rank = 0
		case strings.HasPrefix(name, q):
			rank = 1
		case strings.Contains(name, q):
			rank = 2
		}
		if rank < 0 {
			continue
		}
		matches = append(matches, match{j: j, rank: rank})
	}

	sort.SliceStable(matches, func(i, k int) bool {
		if matches[i].rank != matches[k].rank {
			return matches[i].rank < matches[k].rank
		}
		return matches[i].j.Name < matches[k].j.Name
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]model.Jurisdiction, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.j)
	}
	return out
}

// SearchOptions runs Search and maps results to value/label pairs.
func SearchOptions(list []model.Jurisdiction, query string, limit int, opts Options) []Option {
	results := Search(list, query, limit, opts)
	out := make([]Option, 0, len(results))
	for _, j := range results {
		out = append(out, Option{Value: j.Code, Label: j.Name})
	}
	return out
}

type match struct {
	j    model.Jurisdiction
	rank int
}
