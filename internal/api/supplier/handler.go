package supplier

import (
	"context"
	"encoding/json"
	"net/http"

	"farmastock/internal/api/respond"
	"farmastock/internal/domain"
	"farmastock/internal/pkg/logger"
)

// SupplierService define o contrato que o Handler espera da camada de Serviço.
type SupplierService interface {
	Create(ctx context.Context, supplier domain.Supplier) (domain.Supplier, error)
	FindAll(ctx context.Context) ([]domain.Supplier, error)
	FindByID(ctx context.Context, id string) (domain.Supplier, error)
	FindByName(ctx context.Context, name string) ([]domain.Supplier, error)
	Update(ctx context.Context, id string, update domain.SupplierUpdate) (domain.Supplier, error)
	Delete(ctx context.Context, id string) error
}

// Handler agrupa os métodos HTTP de fornecedores.
type Handler struct {
	Service SupplierService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc SupplierService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// Create lida com POST /v1/suppliers.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var supplier domain.Supplier
	if err := json.NewDecoder(r.Body).Decode(&supplier); err != nil {
		respond.BadRequest(w, "Payload inválido. Verifique o formato JSON.")
		return
	}

	created, err := h.Service.Create(r.Context(), supplier)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.Success(w, http.StatusCreated, "Fornecedor criado com sucesso.", created)
}

// GetAll lida com GET /v1/suppliers. O parâmetro opcional ?name= filtra por nome.
func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	if name := r.URL.Query().Get("name"); name != "" {
		suppliers, err := h.Service.FindByName(r.Context(), name)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.Success(w, http.StatusOK, "Fornecedores encontrados.", suppliers)
		return
	}

	suppliers, err := h.Service.FindAll(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.Success(w, http.StatusOK, "Fornecedores encontrados.", suppliers)
}

// GetByID lida com GET /v1/suppliers/{id}.
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	supplier, err := h.Service.FindByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.Success(w, http.StatusOK, "Fornecedor encontrado.", supplier)
}

// Update lida com PUT /v1/suppliers/{id} (atualização parcial).
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var update domain.SupplierUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respond.BadRequest(w, "Payload inválido. Verifique o formato JSON.")
		return
	}

	updated, err := h.Service.Update(r.Context(), r.PathValue("id"), update)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.Success(w, http.StatusOK, "Fornecedor atualizado com sucesso.", updated)
}

// Delete lida com DELETE /v1/suppliers/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), r.PathValue("id")); err != nil {
		respond.Error(w, err)
		return
	}

	respond.Success(w, http.StatusOK, "Fornecedor removido com sucesso.", nil)
}
