package domain

import "time"

// Inventory representa uma posição de estoque: a quantidade de um lote
// disponível para dispensação em um local de armazenamento.
// Inclui uma coluna 'version' para controle de concorrência otimista.
type Inventory struct {
	ID        string    `json:"id"`
	Location  string    `json:"location"`
	BatchID   string    `json:"batch_id"`
	Quantity  int       `json:"quantity"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AdjustmentMode define como a quantidade informada é aplicada à posição de estoque.
type AdjustmentMode string

// Modos de ajuste de quantidade (valores herdados do sistema legado).
const (
	// AdjustReplace substitui a quantidade atual pelo valor informado (piso em zero).
	AdjustReplace AdjustmentMode = "substituir"
	// AdjustAdd soma o valor informado à quantidade atual.
	AdjustAdd AdjustmentMode = "adicionar"
	// AdjustSubtract remove o valor informado; falha se não houver quantidade suficiente.
	AdjustSubtract AdjustmentMode = "subtrair"
	// AdjustConsume é a baixa de uma reserva concluída: subtrai com piso em zero.
	// A disponibilidade já foi validada na criação da reserva.
	AdjustConsume AdjustmentMode = "baixa"
)

// IsValid verifica se o modo de ajuste é um dos valores aceitos pela API.
// O modo "baixa" é interno ao fluxo de conclusão de reservas e não é exposto.
func (m AdjustmentMode) IsValid() bool {
	switch m {
	case AdjustReplace, AdjustAdd, AdjustSubtract:
		return true
	}
	return false
}

// InventoryAdjustmentRequest é o payload esperado para o ajuste de quantidade.
type InventoryAdjustmentRequest struct {
	Amount int            `json:"amount"`
	Mode   AdjustmentMode `json:"mode"`
}

// InventoryUpdate representa o payload de atualização parcial de uma posição de estoque.
// A quantidade não é alterada por aqui; use o endpoint de ajuste.
type InventoryUpdate struct {
	Location *string `json:"location,omitempty"`
	BatchID  *string `json:"batch_id,omitempty"`
}
