package models

import "strings"

// Division represents an academic division and the educational programs it owns
type Division struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name"`
	Active   bool      `json:"active"`
	Programs []Program `json:"programs"`
}

// Program is an educational program owned by exactly one division.
// Position keeps the order in which programs were supplied.
type Program struct {
	ID         int64  `json:"id"`
	DivisionID int64  `json:"divisionId"`
	Name       string `json:"name"`
	Active     bool   `json:"active"`
	Position   int    `json:"position"`
}

// ActiveProgramNames returns the names of active programs in collection order
func (d *Division) ActiveProgramNames() []string {
	names := make([]string, 0, len(d.Programs))
	for _, p := range d.Programs {
		if p.Active {
			names = append(names, p.Name)
		}
	}
	return names
}

// Deactivate marks the division and every program it owns inactive
func (d *Division) Deactivate() {
	d.Active = false
	for i := range d.Programs {
		d.Programs[i].Active = false
	}
}

// HasProgram reports whether id belongs to the division's current collection
func (d *Division) HasProgram(id int64) bool {
	if id <= 0 {
		return false
	}
	for _, p := range d.Programs {
		if p.ID == id {
			return true
		}
	}
	return false
}

// NormalizeName is the comparison key used for case-insensitive uniqueness
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// DivisionRef is the minimal division state needed to resolve a weak reference
type DivisionRef struct {
	ID     int64
	Name   string
	Active bool
}
