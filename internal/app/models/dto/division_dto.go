package dto

// ProgramRequest is one educational program in a division create/update body.
// ID is echoed by clients to keep an existing program's identity on update.
type ProgramRequest struct {
	ID     *int64 `json:"id,omitempty" example:"3"`
	Name   string `json:"nombre" binding:"required,notblank" example:"Ingeniería en Software"`
	Active *bool  `json:"activo,omitempty" example:"true"`
}

// DivisionRequest is the body for creating or fully replacing a division
type DivisionRequest struct {
	Name     string           `json:"nombre" binding:"required,notblank,max=150" example:"División de Tecnologías"`
	Programs []ProgramRequest `json:"programasEducativos" binding:"omitempty,dive"`
}

// DivisionView is the read projection of a division. Programs lists only active
// program names and ProgramCount is derived from that list.
type DivisionView struct {
	ID           int64    `json:"divisionId" example:"1"`
	Name         string   `json:"nombre" example:"División de Tecnologías"`
	Programs     []string `json:"programaEducativa"`
	Active       bool     `json:"activo" example:"true"`
	ProgramCount int      `json:"numeroProgramas" example:"1"`
}
