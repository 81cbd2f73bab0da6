package userservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"farmastock/internal/domain"
	apperror "farmastock/internal/errors"
	"farmastock/internal/pkg/logger"
	"farmastock/internal/pkg/token"
)

// UserRepository define o contrato que o Serviço de Usuários espera da
// camada de Persistência.
type UserRepository interface {
	Save(ctx context.Context, user domain.User) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindByID(ctx context.Context, id string) (domain.User, error)
}

// Tamanho mínimo de senha aceito no registro.
const minPasswordLength = 6

// Service implementa o registro e a autenticação de usuários.
type Service struct {
	repo     UserRepository
	tokenSvc token.TokenService
	logger   logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Usuários.
func NewService(repo UserRepository, tokenSvc token.TokenService, logger logger.Logger) *Service {
	return &Service{
		repo:     repo,
		tokenSvc: tokenSvc,
		logger:   logger,
	}
}

// Register cadastra um novo usuário com a senha armazenada como hash bcrypt.
// O papel é opcional e assume paciente quando ausente.
func (s *Service) Register(ctx context.Context, reg domain.UserRegistration) (domain.User, error) {
	s.logger.Debug("Iniciando registro de usuário no serviço.", map[string]interface{}{"email": reg.Email})

	if reg.Name == "" {
		return domain.User{}, apperror.NewValidationError("O nome é obrigatório.")
	}
	if reg.Email == "" || !strings.Contains(reg.Email, "@") {
		return domain.User{}, apperror.NewValidationError("O email informado é inválido.")
	}
	if len(reg.Password) < minPasswordLength {
		return domain.User{}, apperror.NewValidationError(fmt.Sprintf("A senha deve ter pelo menos %d caracteres.", minPasswordLength))
	}
	if reg.Role == "" {
		reg.Role = domain.RolePatient
	}
	if !reg.Role.IsValid() {
		return domain.User{}, apperror.NewValidationError(fmt.Sprintf("Papel de usuário inválido: '%s'.", reg.Role))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("Falha ao gerar hash da senha.", err)
		return domain.User{}, apperror.NewInternalError("Falha ao processar a senha", err)
	}

	user := domain.User{
		Name:         reg.Name,
		Email:        strings.ToLower(reg.Email),
		PasswordHash: string(hash),
		Role:         reg.Role,
	}

	saved, err := s.repo.Save(ctx, user)
	if err != nil {
		return domain.User{}, err
	}

	s.logger.Info("Usuário registrado.", map[string]interface{}{"user_id": saved.ID, "role": string(saved.Role)})
	return saved, nil
}

// Login autentica um usuário por email e senha e retorna o token JWT com os
// dados do usuário. Credenciais erradas retornam sempre a mesma mensagem,
// sem revelar se o email existe.
func (s *Service) Login(ctx context.Context, email, password string) (domain.AuthResponse, error) {
	if email == "" || password == "" {
		return domain.AuthResponse{}, apperror.NewValidationError("Email e senha são obrigatórios.")
	}

	user, err := s.repo.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		var notFound *apperror.NotFoundError
		if errors.As(err, &notFound) {
			return domain.AuthResponse{}, apperror.NewUnauthorizedError("Email ou senha incorretos.")
		}
		return domain.AuthResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("Tentativa de login com senha incorreta.", map[string]interface{}{"email": email})
		return domain.AuthResponse{}, apperror.NewUnauthorizedError("Email ou senha incorretos.")
	}

	tokenString, err := s.tokenSvc.GenerateToken(user.ID, user.Name, user.Email, string(user.Role))
	if err != nil {
		s.logger.Error("Falha ao gerar token JWT.", err)
		return domain.AuthResponse{}, apperror.NewInternalError("Falha ao gerar o token de acesso", err)
	}

	s.logger.Info("Usuário autenticado.", map[string]interface{}{"user_id": user.ID})
	return domain.AuthResponse{Token: tokenString, User: user}, nil
}

// FindByID busca um usuário pelo ID (usado pelo endpoint de perfil).
func (s *Service) FindByID(ctx context.Context, id string) (domain.User, error) {
	return s.repo.FindByID(ctx, id)
}
