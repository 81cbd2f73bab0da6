package doctor

import (
	"context"
	"encoding/json"
	"net/http"

	"farmastock/internal/api/respond"
	"farmastock/internal/domain"
	"farmastock/internal/pkg/logger"
)

// DoctorService define o contrato que o Handler espera da camada de Serviço.
type DoctorService interface {
	Create(ctx context.Context, doctor domain.Doctor) (domain.Doctor, error)
	FindAll(ctx context.Context) ([]domain.Doctor, error)
	FindByID(ctx context.Context, id string) (domain.Doctor, error)
	Update(ctx context.Context, id string, update domain.DoctorUpdate) (domain.Doctor, error)
	Delete(ctx context.Context, id string) error
}

// Handler agrupa os métodos HTTP de médicos.
type Handler struct {
	Service DoctorService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc DoctorService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// Create lida com POST /v1/doctors.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var doctor domain.Doctor
	if err := json.NewDecoder(r.Body).Decode(&doctor); err != nil {
		respond.BadRequest(w, "Payload inválido. Verifique o formato JSON.")
		return
	}

	created, err := h.Service.Create(r.Context(), doctor)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.Success(w, http.StatusCreated, "Médico criado com sucesso.", created)
}

// GetAll lida com GET /v1/doctors.
func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.Service.FindAll(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.Success(w, http.StatusOK, "Médicos encontrados.", doctors)
}

// GetByID lida com GET /v1/doctors/{id}.
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	doctor, err := h.Service.FindByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.Success(w, http.StatusOK, "Médico encontrado.", doctor)
}

// Update lida com PUT /v1/doctors/{id} (atualização parcial).
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var update domain.DoctorUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respond.BadRequest(w, "Payload inválido. Verifique o formato JSON.")
		return
	}

	updated, err := h.Service.Update(r.Context(), r.PathValue("id"), update)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.Success(w, http.StatusOK, "Médico atualizado com sucesso.", updated)
}

// Delete lida com DELETE /v1/doctors/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), r.PathValue("id")); err != nil {
		respond.Error(w, err)
		return
	}

	respond.Success(w, http.StatusOK, "Médico removido com sucesso.", nil)
}
