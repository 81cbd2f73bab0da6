package domain

import "time"

// Medication representa um medicamento do catálogo da farmácia.
// A tarja indica o nível de controle exigido na dispensação.
type Medication struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	SupplierID string          `json:"supplier_id"`
	Tarja      MedicationTarja `json:"tarja"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// MedicationTarja é um tipo string para a classificação de controle do medicamento.
type MedicationTarja string

// Constantes para as tarjas de medicamento (classificação da ANVISA).
const (
	TarjaNone   MedicationTarja = "SemTarja"
	TarjaYellow MedicationTarja = "Amarela"
	TarjaRed    MedicationTarja = "Vermelha"
	TarjaBlack  MedicationTarja = "Preta"
)

// IsValid verifica se a tarja informada é um dos valores conhecidos.
func (t MedicationTarja) IsValid() bool {
	switch t {
	case TarjaNone, TarjaYellow, TarjaRed, TarjaBlack:
		return true
	}
	return false
}

// MedicationUpdate representa o payload de atualização parcial de um medicamento.
type MedicationUpdate struct {
	Name       *string          `json:"name,omitempty"`
	SupplierID *string          `json:"supplier_id,omitempty"`
	Tarja      *MedicationTarja `json:"tarja,omitempty"`
}
