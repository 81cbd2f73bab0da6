package domain

import "time"

// Supplier representa um fornecedor de medicamentos cadastrado na farmácia.
type Supplier struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Status    SupplierStatus `json:"status"`
	Phone     string         `json:"phone"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// SupplierStatus é um tipo string para representar a disponibilidade do fornecedor.
type SupplierStatus string

// Constantes para os status do fornecedor (valores herdados do sistema legado).
const (
	SupplierAvailable   SupplierStatus = "Disponivel"
	SupplierUnavailable SupplierStatus = "Indisponivel"
)

// IsValid verifica se o status informado é um dos valores conhecidos.
func (s SupplierStatus) IsValid() bool {
	return s == SupplierAvailable || s == SupplierUnavailable
}

// SupplierUpdate representa o payload de atualização parcial de um fornecedor.
// Campos nil não são alterados (merge parcial).
type SupplierUpdate struct {
	Name   *string         `json:"name,omitempty"`
	Status *SupplierStatus `json:"status,omitempty"`
	Phone  *string         `json:"phone,omitempty"`
}
