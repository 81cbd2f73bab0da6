package user

import (
	"context"
	"encoding/json"
	"net/http"

	"farmastock/internal/api/respond"
	"farmastock/internal/domain"
	apperror "farmastock/internal/errors"
	"farmastock/internal/pkg/logger"
	"farmastock/internal/pkg/middleware"
)

// UserService define o contrato que o Handler espera da camada de Serviço.
type UserService interface {
	Register(ctx context.Context, reg domain.UserRegistration) (domain.User, error)
	Login(ctx context.Context, email, password string) (domain.AuthResponse, error)
	FindByID(ctx context.Context, id string) (domain.User, error)
}

// Handler agrupa os métodos HTTP de autenticação e perfil.
type Handler struct {
	Service UserService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc UserService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// Register lida com POST /v1/auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var reg domain.UserRegistration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		respond.BadRequest(w, "Payload inválido. Verifique o formato JSON.")
		return
	}

	created, err := h.Service.Register(r.Context(), reg)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.Success(w, http.StatusCreated, "Usuário registrado com sucesso.", created)
}

// Login lida com POST /v1/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var credentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		respond.BadRequest(w, "Payload inválido. Verifique o formato JSON.")
		return
	}

	auth, err := h.Service.Login(r.Context(), credentials.Email, credentials.Password)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.Success(w, http.StatusOK, "Login realizado com sucesso.", auth)
}

// Profile lida com GET /v1/me: retorna os dados do usuário autenticado.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaimsFromContext(r.Context())
	if !ok {
		respond.Error(w, apperror.NewUnauthorizedError("Token de acesso ausente ou inválido."))
		return
	}

	u, err := h.Service.FindByID(r.Context(), claims.UserID)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.Success(w, http.StatusOK, "Perfil do usuário.", u)
}
