package stockcontrol

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"farmastock/internal/api/respond"
	"farmastock/internal/domain"
	"farmastock/internal/pkg/logger"
	"farmastock/internal/pkg/middleware"
)

// StockControlService define o contrato que o Handler espera da camada de Serviço.
type StockControlService interface {
	Create(ctx context.Context, req domain.StockControlRequest) (domain.StockControl, error)
	FindAll(ctx context.Context) ([]domain.StockControl, error)
	FindByID(ctx context.Context, id string) (domain.StockControl, error)
	FindByDoctor(ctx context.Context, doctorID string) ([]domain.StockControl, error)
	FindByPatient(ctx context.Context, patientID string) ([]domain.StockControl, error)
	FindByInventory(ctx context.Context, inventoryID string) ([]domain.StockControl, error)
	FindByStatus(ctx context.Context, status domain.ControlStatus) ([]domain.StockControl, error)
	Update(ctx context.Context, id string, update domain.StockControlUpdate) (domain.StockControl, error)
	UpdateStatus(ctx context.Context, id string, status domain.ControlStatus) (domain.StockControl, error)
	Delete(ctx context.Context, id string) error
	Report(ctx context.Context, start, end time.Time) (domain.StatusReport, error)
}

// Handler agrupa os métodos HTTP das solicitações de medicamento.
type Handler struct {
	Service StockControlService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc StockControlService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// Create lida com POST /v1/stock-controls.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.StockControlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "Payload inválido. Verifique o formato JSON.")
		return
	}

	if claims, ok := middleware.GetUserClaimsFromContext(r.Context()); ok {
		h.Logger.Info("Solicitação de medicamento recebida.", map[string]interface{}{
			"user_id": claims.UserID, "role": claims.Role,
		})
	}

	created, err := h.Service.Create(r.Context(), req)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.Success(w, http.StatusCreated, "Solicitação criada com sucesso.", created)
}

// GetAll lida com GET /v1/stock-controls. Parâmetros opcionais (o primeiro
// presente vence): ?doctor_id=, ?patient_id=, ?inventory_id=, ?status=.
func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var (
		controls []domain.StockControl
		err      error
	)
	switch {
	case query.Get("doctor_id") != "":
		controls, err = h.Service.FindByDoctor(r.Context(), query.Get("doctor_id"))
	case query.Get("patient_id") != "":
		controls, err = h.Service.FindByPatient(r.Context(), query.Get("patient_id"))
	case query.Get("inventory_id") != "":
		controls, err = h.Service.FindByInventory(r.Context(), query.Get("inventory_id"))
	case query.Get("status") != "":
		controls, err = h.Service.FindByStatus(r.Context(), domain.ControlStatus(query.Get("status")))
	default:
		controls, err = h.Service.FindAll(r.Context())
	}
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.Success(w, http.StatusOK, "Solicitações encontradas.", controls)
}

// GetByID lida com GET /v1/stock-controls/{id}.
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	sc, err := h.Service.FindByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.Success(w, http.StatusOK, "Solicitação encontrada.", sc)
}

// Update lida com PUT /v1/stock-controls/{id} (atualização parcial). O status
// não é alterado por aqui; use PATCH /v1/stock-controls/{id}/status.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var update domain.StockControlUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respond.BadRequest(w, "Payload inválido. Verifique o formato JSON.")
		return
	}

	updated, err := h.Service.Update(r.Context(), r.PathValue("id"), update)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.Success(w, http.StatusOK, "Solicitação atualizada com sucesso.", updated)
}

// UpdateStatus lida com PATCH /v1/stock-controls/{id}/status.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req domain.StatusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "Payload inválido. Verifique o formato JSON.")
		return
	}

	updated, err := h.Service.UpdateStatus(r.Context(), r.PathValue("id"), req.Status)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.Success(w, http.StatusOK, "Status da solicitação atualizado com sucesso.", updated)
}

// Delete lida com DELETE /v1/stock-controls/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), r.PathValue("id")); err != nil {
		respond.Error(w, err)
		return
	}

	respond.Success(w, http.StatusOK, "Solicitação removida com sucesso.", nil)
}

// Report lida com GET /v1/stock-controls/report?start=YYYY-MM-DD&end=YYYY-MM-DD.
// As datas também são aceitas em RFC3339. O intervalo é fechado; uma data de
// fim sem horário cobre o dia inteiro.
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	start, err := parsePeriodDate(r.URL.Query().Get("start"), false)
	if err != nil {
		respond.BadRequest(w, "O parâmetro 'start' deve ser uma data (YYYY-MM-DD ou RFC3339).")
		return
	}
	end, err := parsePeriodDate(r.URL.Query().Get("end"), true)
	if err != nil {
		respond.BadRequest(w, "O parâmetro 'end' deve ser uma data (YYYY-MM-DD ou RFC3339).")
		return
	}

	report, err := h.Service.Report(r.Context(), start, end)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.Success(w, http.StatusOK, "Relatório gerado com sucesso.", report)
}

// parsePeriodDate aceita RFC3339 ou data pura. Para a data de fim sem horário,
// avança para o último instante do dia, mantendo o intervalo fechado.
func parsePeriodDate(raw string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}

	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
