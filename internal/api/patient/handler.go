package patient

import (
	"context"
	"encoding/json"
	"net/http"

	"farmastock/internal/api/respond"
	"farmastock/internal/domain"
	"farmastock/internal/pkg/logger"
)

// PatientService define o contrato que o Handler espera da camada de Serviço.
type PatientService interface {
	Create(ctx context.Context, patient domain.Patient) (domain.Patient, error)
	FindAll(ctx context.Context) ([]domain.Patient, error)
	FindByID(ctx context.Context, id string) (domain.Patient, error)
	Update(ctx context.Context, id string, update domain.PatientUpdate) (domain.Patient, error)
	Delete(ctx context.Context, id string) error
}

// Handler agrupa os métodos HTTP de pacientes.
type Handler struct {
	Service PatientService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc PatientService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// Create lida com POST /v1/patients.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var patient domain.Patient
	if err := json.NewDecoder(r.Body).Decode(&patient); err != nil {
		respond.BadRequest(w, "Payload inválido. Verifique o formato JSON.")
		return
	}

	created, err := h.Service.Create(r.Context(), patient)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.Success(w, http.StatusCreated, "Paciente criado com sucesso.", created)
}

// GetAll lida com GET /v1/patients.
func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	patients, err := h.Service.FindAll(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.Success(w, http.StatusOK, "Pacientes encontrados.", patients)
}

// GetByID lida com GET /v1/patients/{id}.
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	patient, err := h.Service.FindByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.Success(w, http.StatusOK, "Paciente encontrado.", patient)
}

// Update lida com PUT /v1/patients/{id} (atualização parcial).
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var update domain.PatientUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respond.BadRequest(w, "Payload inválido. Verifique o formato JSON.")
		return
	}

	updated, err := h.Service.Update(r.Context(), r.PathValue("id"), update)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.Success(w, http.StatusOK, "Paciente atualizado com sucesso.", updated)
}

// Delete lida com DELETE /v1/patients/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), r.PathValue("id")); err != nil {
		respond.Error(w, err)
		return
	}

	respond.Success(w, http.StatusOK, "Paciente removido com sucesso.", nil)
}
