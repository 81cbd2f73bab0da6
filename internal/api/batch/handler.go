package batch

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"farmastock/internal/api/respond"
	"farmastock/internal/domain"
	"farmastock/internal/pkg/logger"
)

// BatchService define o contrato que o Handler espera da camada de Serviço.
type BatchService interface {
	Create(ctx context.Context, batch domain.Batch) (domain.Batch, error)
	FindAll(ctx context.Context) ([]domain.Batch, error)
	FindByID(ctx context.Context, id string) (domain.Batch, error)
	FindByCode(ctx context.Context, code string) (domain.Batch, error)
	FindByMedication(ctx context.Context, medicationID string) ([]domain.Batch, error)
	FindExpired(ctx context.Context) ([]domain.Batch, error)
	FindNearExpiry(ctx context.Context, days int) ([]domain.Batch, error)
	IsExpired(ctx context.Context, id string) (bool, error)
	Update(ctx context.Context, id string, update domain.BatchUpdate) (domain.Batch, error)
	Delete(ctx context.Context, id string) error
}

// Handler agrupa os métodos HTTP dos lotes de medicamento.
type Handler struct {
	Service BatchService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc BatchService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// Create lida com POST /v1/batches.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var batch domain.Batch
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		respond.BadRequest(w, "Payload inválido. Verifique o formato JSON.")
		return
	}

	created, err := h.Service.Create(r.Context(), batch)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.Success(w, http.StatusCreated, "Lote criado com sucesso.", created)
}

// GetAll lida com GET /v1/batches. Parâmetros opcionais:
// ?code= busca pelo código único; ?medication_id= filtra por medicamento.
func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	if code := r.URL.Query().Get("code"); code != "" {
		b, err := h.Service.FindByCode(r.Context(), code)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.Success(w, http.StatusOK, "Lote encontrado.", b)
		return
	}

	if medicationID := r.URL.Query().Get("medication_id"); medicationID != "" {
		batches, err := h.Service.FindByMedication(r.Context(), medicationID)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.Success(w, http.StatusOK, "Lotes encontrados.", batches)
		return
	}

	batches, err := h.Service.FindAll(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.Success(w, http.StatusOK, "Lotes encontrados.", batches)
}

// GetExpired lida com GET /v1/batches/expired.
func (h *Handler) GetExpired(w http.ResponseWriter, r *http.Request) {
	batches, err := h.Service.FindExpired(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.Success(w, http.StatusOK, "Lotes vencidos encontrados.", batches)
}

// GetNearExpiry lida com GET /v1/batches/near-expiry. O parâmetro opcional
// ?days= define a janela; ausente, usa o padrão do serviço.
func (h *Handler) GetNearExpiry(w http.ResponseWriter, r *http.Request) {
	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respond.BadRequest(w, "O parâmetro 'days' deve ser um número inteiro.")
			return
		}
		days = parsed
	}

	batches, err := h.Service.FindNearExpiry(r.Context(), days)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.Success(w, http.StatusOK, "Lotes próximos do vencimento encontrados.", batches)
}

// GetIsExpired lida com GET /v1/batches/{id}/expired.
func (h *Handler) GetIsExpired(w http.ResponseWriter, r *http.Request) {
	expired, err := h.Service.IsExpired(r.Context(), r.PathValue("id"))
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.Success(w, http.StatusOK, "Situação de validade do lote.", map[string]bool{"expired": expired})
}

// GetByID lida com GET /v1/batches/{id}.
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	b, err := h.Service.FindByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.Success(w, http.StatusOK, "Lote encontrado.", b)
}

// Update lida com PUT /v1/batches/{id} (atualização parcial).
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var update domain.BatchUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respond.BadRequest(w, "Payload inválido. Verifique o formato JSON.")
		return
	}

	updated, err := h.Service.Update(r.Context(), r.PathValue("id"), update)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.Success(w, http.StatusOK, "Lote atualizado com sucesso.", updated)
}

// Delete lida com DELETE /v1/batches/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), r.PathValue("id")); err != nil {
		respond.Error(w, err)
		return
	}

	respond.Success(w, http.StatusOK, "Lote removido com sucesso.", nil)
}
