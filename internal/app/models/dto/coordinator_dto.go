package dto

// CoordinatorCreateRequest is the body for creating a coordinator
type CoordinatorCreateRequest struct {
	FirstName  string  `json:"nombre" binding:"required,notblank,max=100" example:"Ana"`
	LastName   string  `json:"apellido" binding:"required,notblank,max=100" example:"López"`
	Email      string  `json:"correo" binding:"required,email,max=150" example:"ana.lopez@uteq.edu.mx"`
	Phone      *string `json:"telefono,omitempty" binding:"omitempty,max=20,phone" example:"4421234567"`
	DivisionID int64   `json:"divisionId" binding:"required,gt=0" example:"1"`
}

// CoordinatorUpdateRequest replaces every mutable coordinator field, including the active flag
type CoordinatorUpdateRequest struct {
	CoordinatorCreateRequest
	Active *bool `json:"activo" binding:"required" example:"true"`
}

// CoordinatorView is the read projection of a coordinator. DivisionName is resolved
// at read time and omitted when the division is missing or inactive.
type CoordinatorView struct {
	ID           int64   `json:"id" example:"7"`
	FirstName    string  `json:"nombre" example:"Ana"`
	LastName     string  `json:"apellido" example:"López"`
	Email        string  `json:"correo" example:"ana.lopez@uteq.edu.mx"`
	Phone        *string `json:"telefono,omitempty" example:"4421234567"`
	DivisionID   int64   `json:"divisionId" example:"1"`
	DivisionName string  `json:"divisionNombre,omitempty" example:"División de Tecnologías"`
	Active       bool    `json:"activo" example:"true"`
}
