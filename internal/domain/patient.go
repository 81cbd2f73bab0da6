package domain

import "time"

// Patient representa um paciente atendido pela farmácia.
type Patient struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Document  string    `json:"document,omitempty"` // CPF
	BirthDate time.Time `json:"birth_date,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PatientUpdate representa o payload de atualização parcial de um paciente.
type PatientUpdate struct {
	Name      *string    `json:"name,omitempty"`
	Document  *string    `json:"document,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
}
