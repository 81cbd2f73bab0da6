// Package respond centraliza a escrita das respostas HTTP padronizadas.
// Todas as respostas da API seguem o mesmo envelope:
//
//	{ "success": bool, "message": string, "data": ..., "error": "CATEGORIA" }
package respond

import (
	"encoding/json"
	"net/http"

	apperror "farmastock/internal/errors"
)

// Envelope é o formato padronizado de toda resposta da API.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// JSON escreve o payload com o status informado.
func JSON(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Falha de encode aqui já não tem como virar outra resposta.
	_ = json.NewEncoder(w).Encode(payload)
}

// Success escreve uma resposta de sucesso com os dados informados.
func Success(w http.ResponseWriter, status int, message string, data interface{}) {
	JSON(w, status, Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error traduz o erro (tipado ou não) para o status HTTP, a categoria e a
// mensagem padronizada, e escreve a resposta de falha.
func Error(w http.ResponseWriter, err error) {
	status, category, message := apperror.MapToHTTPStatus(err)
	JSON(w, status, Envelope{
		Success: false,
		Message: message,
		Error:   category,
	})
}

// BadRequest é o atalho para payloads que nem chegaram a ser decodificados.
func BadRequest(w http.ResponseWriter, message string) {
	JSON(w, http.StatusBadRequest, Envelope{
		Success: false,
		Message: message,
		Error:   "VALIDATION_ERROR",
	})
}
