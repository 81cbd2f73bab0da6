package domain

// ErrorResponse é a estrutura padronizada para respostas de erro na API.
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"O nome do fornecedor não pode ser vazio."`
	Error   string `json:"error" example:"VALIDATION_ERROR"`
}
