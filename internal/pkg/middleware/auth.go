package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"farmastock/internal/domain"
	apperror "farmastock/internal/errors"
	"farmastock/internal/pkg/token"
)

// ContextKey é o tipo da chave usada para armazenar as claims no contexto.
// Usamos um tipo próprio para garantir que não haja conflito com chaves string
// de outros pacotes.
type ContextKey int

const (
	UserClaimsKey ContextKey = iota
)

// UserClaims representa os dados do usuário extraídos do token JWT,
// que serão anexados ao contexto da requisição.
type UserClaims struct {
	UserID string
	Name   string
	Email  string
	Role   domain.UserRole
}

// TokenService define o contrato de validação necessário para o middleware.
type TokenService interface {
	ValidateToken(tokenString string) (*token.CustomClaims, error)
}

// writeAuthError escreve a resposta de erro no envelope padronizado da API.
func writeAuthError(w http.ResponseWriter, err error) {
	status, category, message := apperror.MapToHTTPStatus(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(domain.ErrorResponse{
		Success: false,
		Message: message,
		Error:   category,
	})
}

// Authenticate cria uma função de middleware que valida um JWT e anexa as
// claims (UserID, Name, Email e Role) ao contexto da requisição.
func Authenticate(tokenSvc TokenService) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {

			// 1. Extrair o Token do Header Authorization: Bearer <token>
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				writeAuthError(w, apperror.NewUnauthorizedError("Token de autorização ausente ou malformado."))
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")

			// 2. Validar o Token
			claims, err := tokenSvc.ValidateToken(tokenString)
			if err != nil {
				writeAuthError(w, apperror.NewUnauthorizedError("Token inválido ou expirado."))
				return
			}

			// 3. Anexar Claims ao Contexto
			userClaims := UserClaims{
				UserID: claims.UserID,
				Name:   claims.Name,
				Email:  claims.Email,
				Role:   domain.UserRole(claims.Role),
			}

			ctx := context.WithValue(r.Context(), UserClaimsKey, userClaims)

			// Chama o próximo handler com o novo contexto
			next.ServeHTTP(w, r.WithContext(ctx))
		}
	}
}

// GetUserClaimsFromContext é uma função utilitária para extrair as claims no handler.
func GetUserClaimsFromContext(ctx context.Context) (UserClaims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(UserClaims)
	return claims, ok
}

// RequireRoles verifica se o papel do usuário autenticado pertence ao conjunto
// de papéis permitidos para o recurso. Deve ser encadeado após Authenticate.
func RequireRoles(allowedRoles ...domain.UserRole) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {

			// 1. Tentar extrair as Claims do contexto
			claims, ok := GetUserClaimsFromContext(r.Context())
			if !ok {
				writeAuthError(w, apperror.NewUnauthorizedError("Autorização necessária. Token não processado."))
				return
			}

			// 2. Verificar Permissão (AuthZ)
			isAuthorized := false
			for _, allowed := range allowedRoles {
				if claims.Role == allowed {
					isAuthorized = true
					break
				}
			}

			if !isAuthorized {
				writeAuthError(w, apperror.NewForbiddenError("Você não tem permissão para acessar este recurso."))
				return
			}

			// 3. Permissão concedida: chama o próximo handler
			next.ServeHTTP(w, r)
		}
	}
}
