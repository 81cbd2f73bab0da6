package domain

import "time"

// Batch representa um lote de medicamento: uma quantidade fabricada de um
// único medicamento que compartilha código, data de fabricação e validade.
type Batch struct {
	ID              string    `json:"id"`
	Code            string    `json:"code"` // Código único do lote (e.g., "LOTE-001")
	MedicationID    string    `json:"medication_id"`
	ManufactureDate time.Time `json:"manufacture_date"`
	ExpiryDate      time.Time `json:"expiry_date"`
	Quantity        int       `json:"quantity"`
	SupplierID      string    `json:"supplier_id,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// IsExpired indica se o lote está vencido em relação à data de referência.
func (b Batch) IsExpired(reference time.Time) bool {
	return b.ExpiryDate.Before(reference)
}

// BatchUpdate representa o payload de atualização parcial de um lote.
type BatchUpdate struct {
	Code            *string    `json:"code,omitempty"`
	MedicationID    *string    `json:"medication_id,omitempty"`
	ManufactureDate *time.Time `json:"manufacture_date,omitempty"`
	ExpiryDate      *time.Time `json:"expiry_date,omitempty"`
	Quantity        *int       `json:"quantity,omitempty"`
	SupplierID      *string    `json:"supplier_id,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
}
