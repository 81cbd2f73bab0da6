package inventory

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"farmastock/internal/api/respond"
	"farmastock/internal/domain"
	"farmastock/internal/pkg/logger"
)

// InventoryService define o contrato que o Handler espera da camada de Serviço.
type InventoryService interface {
	Create(ctx context.Context, inventory domain.Inventory) (domain.Inventory, error)
	FindAll(ctx context.Context) ([]domain.Inventory, error)
	FindByID(ctx context.Context, id string) (domain.Inventory, error)
	FindByBatch(ctx context.Context, batchID string) ([]domain.Inventory, error)
	FindByLocation(ctx context.Context, location string) ([]domain.Inventory, error)
	CheckAvailability(ctx context.Context, id string, needed int) (bool, error)
	AdjustQuantity(ctx context.Context, id string, req domain.InventoryAdjustmentRequest) (domain.Inventory, error)
	Update(ctx context.Context, id string, update domain.InventoryUpdate) (domain.Inventory, error)
	Delete(ctx context.Context, id string) error
}

// Handler agrupa os métodos HTTP das posições de estoque.
type Handler struct {
	Service InventoryService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc InventoryService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// Create lida com POST /v1/inventories.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var inventory domain.Inventory
	if err := json.NewDecoder(r.Body).Decode(&inventory); err != nil {
		respond.BadRequest(w, "Payload inválido. Verifique o formato JSON.")
		return
	}

	created, err := h.Service.Create(r.Context(), inventory)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.Success(w, http.StatusCreated, "Posição de estoque criada com sucesso.", created)
}

// GetAll lida com GET /v1/inventories. Parâmetros opcionais:
// ?batch_id= filtra por lote; ?location= busca parcial por local.
func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	if batchID := r.URL.Query().Get("batch_id"); batchID != "" {
		inventories, err := h.Service.FindByBatch(r.Context(), batchID)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.Success(w, http.StatusOK, "Posições de estoque encontradas.", inventories)
		return
	}

	if location := r.URL.Query().Get("location"); location != "" {
		inventories, err := h.Service.FindByLocation(r.Context(), location)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.Success(w, http.StatusOK, "Posições de estoque encontradas.", inventories)
		return
	}

	inventories, err := h.Service.FindAll(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.Success(w, http.StatusOK, "Posições de estoque encontradas.", inventories)
}

// GetByID lida com GET /v1/inventories/{id}.
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	inventory, err := h.Service.FindByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.Success(w, http.StatusOK, "Posição de estoque encontrada.", inventory)
}

// CheckAvailability lida com GET /v1/inventories/{id}/availability?quantity=N.
func (h *Handler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	needed, err := strconv.Atoi(r.URL.Query().Get("quantity"))
	if err != nil {
		respond.BadRequest(w, "O parâmetro 'quantity' deve ser um número inteiro.")
		return
	}

	available, err := h.Service.CheckAvailability(r.Context(), r.PathValue("id"), needed)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.Success(w, http.StatusOK, "Disponibilidade verificada.", map[string]bool{"available": available})
}

// Adjust lida com PATCH /v1/inventories/{id}/quantity.
func (h *Handler) Adjust(w http.ResponseWriter, r *http.Request) {
	var req domain.InventoryAdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "Payload inválido. Verifique o formato JSON.")
		return
	}

	adjusted, err := h.Service.AdjustQuantity(r.Context(), r.PathValue("id"), req)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.Success(w, http.StatusOK, "Quantidade ajustada com sucesso.", adjusted)
}

// Update lida com PUT /v1/inventories/{id} (local e lote; quantidade só via ajuste).
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var update domain.InventoryUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respond.BadRequest(w, "Payload inválido. Verifique o formato JSON.")
		return
	}

	updated, err := h.Service.Update(r.Context(), r.PathValue("id"), update)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.Success(w, http.StatusOK, "Posição de estoque atualizada com sucesso.", updated)
}

// Delete lida com DELETE /v1/inventories/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), r.PathValue("id")); err != nil {
		respond.Error(w, err)
		return
	}

	respond.Success(w, http.StatusOK, "Posição de estoque removida com sucesso.", nil)
}
