package query

import "sort"

// Page is one slice of a filtered, sorted result set with count metadata.
type Page[T any] struct {
	Items      []T
	Page       int
	PageSize   int
	TotalItems int64
	TotalPages int
}

// Paginate slices items into the requested 1-based page. The total count is
// taken before slicing; total pages is the count divided by the page size,
// rounded up. Page and size must be positive, which is the caller's
// responsibility to validate.
func Paginate[T any](items []T, page, size int) Page[T] {
	total := len(items)
	totalPages := (total + size - 1) / size

	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	return Page[T]{
		Items:      items[start:end],
		Page:       page,
		PageSize:   size,
		TotalItems: int64(total),
		TotalPages: totalPages,
	}
}

// Select runs the full pipeline: compile and apply filters, sort stably
// and paginate. The input slice is not modified.
func (fs *FieldSet[T]) Select(items []T, filters []FilterClause, sorts []SortClause, page, size int) (Page[T], error) {
	pred, err := fs.CompileFilters(filters)
	if err != nil {
		return Page[T]{}, err
	}
	cmp, err := fs.CompileSort(sorts)
	if err != nil {
		return Page[T]{}, err
	}

	matched := make([]T, 0, len(items))
	for _, item := range items {
		if pred(item) {
			matched = append(matched, item)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return cmp(matched[i], matched[j]) < 0
	})

	return Paginate(matched, page, size), nil
}
