package models

// DivisionFilter narrows division listings
type DivisionFilter struct {
	ActiveOnly   bool
	NameContains string
}

// CoordinatorFilter narrows coordinator listings
type CoordinatorFilter struct {
	ActiveOnly bool
	DivisionID *int64
}
