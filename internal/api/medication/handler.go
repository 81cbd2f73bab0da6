package medication

import (
	"context"
	"encoding/json"
	"net/http"

	"farmastock/internal/api/respond"
	"farmastock/internal/domain"
	"farmastock/internal/pkg/logger"
)

// MedicationService define o contrato que o Handler espera da camada de Serviço.
type MedicationService interface {
	Create(ctx context.Context, medication domain.Medication) (domain.Medication, error)
	FindAll(ctx context.Context) ([]domain.Medication, error)
	FindByID(ctx context.Context, id string) (domain.Medication, error)
	FindBySupplier(ctx context.Context, supplierID string) ([]domain.Medication, error)
	Update(ctx context.Context, id string, update domain.MedicationUpdate) (domain.Medication, error)
	Delete(ctx context.Context, id string) error
}

// Handler agrupa os métodos HTTP do catálogo de medicamentos.
type Handler struct {
	Service MedicationService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc MedicationService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// Create lida com POST /v1/medications.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var medication domain.Medication
	if err := json.NewDecoder(r.Body).Decode(&medication); err != nil {
		respond.BadRequest(w, "Payload inválido. Verifique o formato JSON.")
		return
	}

	created, err := h.Service.Create(r.Context(), medication)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.Success(w, http.StatusCreated, "Medicamento criado com sucesso.", created)
}

// GetAll lida com GET /v1/medications. O parâmetro opcional ?supplier_id=
// filtra por fornecedor.
func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	if supplierID := r.URL.Query().Get("supplier_id"); supplierID != "" {
		medications, err := h.Service.FindBySupplier(r.Context(), supplierID)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.Success(w, http.StatusOK, "Medicamentos encontrados.", medications)
		return
	}

	medications, err := h.Service.FindAll(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.Success(w, http.StatusOK, "Medicamentos encontrados.", medications)
}

// GetByID lida com GET /v1/medications/{id}.
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	medication, err := h.Service.FindByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.Success(w, http.StatusOK, "Medicamento encontrado.", medication)
}

// Update lida com PUT /v1/medications/{id} (atualização parcial).
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var update domain.MedicationUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respond.BadRequest(w, "Payload inválido. Verifique o formato JSON.")
		return
	}

	updated, err := h.Service.Update(r.Context(), r.PathValue("id"), update)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.Success(w, http.StatusOK, "Medicamento atualizado com sucesso.", updated)
}

// Delete lida com DELETE /v1/medications/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), r.PathValue("id")); err != nil {
		respond.Error(w, err)
		return
	}

	respond.Success(w, http.StatusOK, "Medicamento removido com sucesso.", nil)
}
