package search

import (
	"cmp"
	"slices"
	"strings"

	"github.com/kailas-cloud/tagseek/internal/domain/search/request"
	"github.com/kailas-cloud/tagseek/internal/domain/search/result"
)

// applySort orders results in place by key. SortNone and unknown keys leave the order as is.
// Entities missing the sorted timestamp compare as 0.
func applySort(rs []result.Result, key request.SortKey, order request.Order) {
	var compare func(a, b result.Result) int
	switch key {
	case request.SortRelevance:
		compare = func(a, b result.Result) int { return cmp.Compare(a.Score(), b.Score()) }
	case request.SortCreated:
		compare = func(a, b result.Result) int {
			x, _ := a.Entity().CreatedAt()
			y, _ := b.Entity().CreatedAt()
			return cmp.Compare(x, y)
		}
	case request.SortUpdated:
		compare = func(a, b result.Result) int {
			x, _ := a.Entity().UpdatedAt()
			y, _ := b.Entity().UpdatedAt()
			return cmp.Compare(x, y)
		}
	case request.SortID:
		compare = func(a, b result.Result) int { return strings.Compare(a.Entity().ID(), b.Entity().ID()) }
	case request.SortSize:
		compare = func(a, b result.Result) int {
			return cmp.Compare(len(a.Entity().Content()), len(b.Entity().Content()))
		}
	default:
		return
	}

	if order == request.Asc {
		slices.SortFunc(rs, compare)
		return
	}
	slices.SortFunc(rs, func(a, b result.Result) int { return compare(b, a) })
}
