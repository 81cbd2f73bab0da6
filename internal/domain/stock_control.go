package domain

import "time"

// StockControl representa uma solicitação de medicamento: a reserva feita por
// um médico em nome de um paciente contra uma posição de estoque específica.
// O ciclo de vida é controlado pelo status (Reservado -> Concluido/Cancelado).
type StockControl struct {
	ID          string        `json:"id"`
	DoctorID    string        `json:"doctor_id"`
	PatientID   string        `json:"patient_id"`
	InventoryID string        `json:"inventory_id"`
	Quantity    int           `json:"quantity"`
	Status      ControlStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// ControlStatus é um tipo string para o status da solicitação.
type ControlStatus string

// Constantes para os status de controle de estoque (valores herdados do sistema legado).
// Reservado é o status inicial; Concluido e Cancelado são terminais.
const (
	StatusReserved  ControlStatus = "Reservado"
	StatusCompleted ControlStatus = "Concluido"
	StatusCancelled ControlStatus = "Cancelado"
)

// IsValid verifica se o status informado é um dos valores conhecidos.
func (s ControlStatus) IsValid() bool {
	switch s {
	case StatusReserved, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal indica se o status encerra o ciclo de vida da solicitação.
func (s ControlStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// AllControlStatuses lista todos os status conhecidos, na ordem do ciclo de vida.
// Usada pelo relatório para garantir contagem zero para status ausentes.
func AllControlStatuses() []ControlStatus {
	return []ControlStatus{StatusReserved, StatusCompleted, StatusCancelled}
}

// StockControlRequest é o payload de criação de uma solicitação de medicamento.
type StockControlRequest struct {
	DoctorID    string `json:"doctor_id"`
	PatientID   string `json:"patient_id"`
	InventoryID string `json:"inventory_id"`
	Quantity    int    `json:"quantity"`
}

// StockControlUpdate representa o payload de atualização parcial de uma
// solicitação. O status não é alterado por aqui; use o endpoint de status.
type StockControlUpdate struct {
	DoctorID    *string `json:"doctor_id,omitempty"`
	PatientID   *string `json:"patient_id,omitempty"`
	InventoryID *string `json:"inventory_id,omitempty"`
	Quantity    *int    `json:"quantity,omitempty"`
}

// StatusUpdateRequest é o payload de transição de status de uma solicitação.
type StatusUpdateRequest struct {
	Status ControlStatus `json:"status"`
}

// StatusReport é o resultado do relatório de solicitações por período:
// a contagem de registros criados no intervalo, agrupada por status.
type StatusReport struct {
	PeriodStart time.Time             `json:"period_start"`
	PeriodEnd   time.Time             `json:"period_end"`
	Counts      map[ControlStatus]int `json:"counts"`
}
