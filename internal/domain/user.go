package domain

import "time"

// User representa a entidade do usuário no sistema.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Oculta o hash da senha no JSON de resposta
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserRole é um tipo string para representar o papel do usuário no sistema.
type UserRole string

// Constantes para os papéis de usuário (valores herdados do sistema legado).
const (
	RoleAdmin      UserRole = "admin"
	RoleDoctor     UserRole = "medico"
	RolePharmacist UserRole = "farmaceutico"
	RolePatient    UserRole = "paciente"
)

// IsValid verifica se o papel informado é um dos valores conhecidos.
func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RolePharmacist, RolePatient:
		return true
	}
	return false
}

// UserRegistration representa o payload de entrada para o registro.
// O papel é opcional; o padrão é paciente.
type UserRegistration struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Role     UserRole `json:"role,omitempty"`
}

// AuthResponse é a resposta do login: o token JWT e os dados do usuário autenticado.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
