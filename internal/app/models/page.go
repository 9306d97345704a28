package models

import "math"

// PageRequest describes a 0-based, ascending page over a sortable attribute
type PageRequest struct {
	Page   int
	Size   int
	SortBy string
}

// Offset returns the number of rows skipped before the page starts.
// It saturates at math.MaxInt instead of overflowing.
func (p PageRequest) Offset() int {
	if p.Page <= 0 || p.Size <= 0 {
		return 0
	}
	if p.Page > math.MaxInt/p.Size {
		return math.MaxInt
	}
	return p.Page * p.Size
}

// Page is a slice of results plus the total number of matching rows
type Page[T any] struct {
	Items      []T
	Page       int
	Size       int
	TotalItems int64
}

// TotalPages is the number of pages needed to hold TotalItems
func (p Page[T]) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	return int((p.TotalItems + int64(p.Size) - 1) / int64(p.Size))
}

// MapPage converts the items of a page while keeping its metadata
func MapPage[T, U any](p Page[T], fn func(T) U) Page[U] {
	items := make([]U, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, fn(item))
	}
	return Page[U]{Items: items, Page: p.Page, Size: p.Size, TotalItems: p.TotalItems}
}
