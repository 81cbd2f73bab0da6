package domain

import "time"

// Doctor representa um médico que solicita medicamentos para pacientes.
type Doctor struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CRM       string    `json:"crm,omitempty"` // Registro no conselho regional de medicina
	Specialty string    `json:"specialty,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DoctorUpdate representa o payload de atualização parcial de um médico.
type DoctorUpdate struct {
	Name      *string `json:"name,omitempty"`
	CRM       *string `json:"crm,omitempty"`
	Specialty *string `json:"specialty,omitempty"`
}
