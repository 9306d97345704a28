package models

// Coordinator is assigned to one division through a plain id reference.
// The division is never loaded into this struct; views resolve its name at read time.
type Coordinator struct {
	ID         int64   `json:"id"`
	FirstName  string  `json:"firstName"`
	LastName   string  `json:"lastName"`
	Email      string  `json:"email"`
	Phone      *string `json:"phone,omitempty"`
	DivisionID int64   `json:"divisionId"`
	Active     bool    `json:"active"`
}
