package userservice_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"farmastock/internal/domain"
	apperror "farmastock/internal/errors"
	"farmastock/internal/pkg/logger"
	"farmastock/internal/pkg/token"
	"farmastock/internal/service/userservice"
)

// MockUserRepository é uma implementação mock da interface UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Save(ctx context.Context, user domain.User) (domain.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

func newService() (*userservice.Service, *MockUserRepository) {
	mockRepo := new(MockUserRepository)
	mockLogger := logger.NewLogger("error")
	tokenSvc := token.NewService("segredo-de-teste", time.Hour)

	svc := userservice.NewService(mockRepo, tokenSvc, mockLogger)
	return svc, mockRepo
}

// TestRegister_DefaultsToPatientRole testa que o papel ausente assume paciente
// e que a senha é armazenada como hash bcrypt.
func TestRegister_DefaultsToPatientRole(t *testing.T) {
	svc, mockRepo := newService()

	reg := domain.UserRegistration{Name: "Maria", Email: "Maria@Exemplo.com", Password: "senha123"}

	mockRepo.On("Save", mock.Anything, mock.MatchedBy(func(u domain.User) bool {
		hashOK := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("senha123")) == nil
		return u.Role == domain.RolePatient && u.Email == "maria@exemplo.com" && hashOK
	})).Return(domain.User{ID: uuid.New().String(), Role: domain.RolePatient}, nil)

	created, err := svc.Register(context.Background(), reg)

	assert.NoError(t, err)
	assert.Equal(t, domain.RolePatient, created.Role)
	mockRepo.AssertExpectations(t)
}

// TestRegister_Fail_ShortPassword testa a rejeição de senha curta.
func TestRegister_Fail_ShortPassword(t *testing.T) {
	svc, mockRepo := newService()

	_, err := svc.Register(context.Background(), domain.UserRegistration{Name: "Maria", Email: "maria@exemplo.com", Password: "123"})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// TestRegister_Fail_InvalidRole testa a rejeição de um papel desconhecido.
func TestRegister_Fail_InvalidRole(t *testing.T) {
	svc, mockRepo := newService()

	_, err := svc.Register(context.Background(), domain.UserRegistration{
		Name: "Maria", Email: "maria@exemplo.com", Password: "senha123", Role: "gerente",
	})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// TestLogin_Success testa o login com credenciais corretas: deve retornar um
// token não vazio e os dados do usuário.
func TestLogin_Success(t *testing.T) {
	svc, mockRepo := newService()

	hash, _ := bcrypt.GenerateFromPassword([]byte("senha123"), bcrypt.DefaultCost)
	stored := domain.User{
		ID: uuid.New().String(), Name: "Maria", Email: "maria@exemplo.com",
		PasswordHash: string(hash), Role: domain.RolePharmacist,
	}

	mockRepo.On("FindByEmail", mock.Anything, "maria@exemplo.com").Return(stored, nil)

	auth, err := svc.Login(context.Background(), "maria@exemplo.com", "senha123")

	assert.NoError(t, err)
	assert.NotEmpty(t, auth.Token)
	assert.Equal(t, stored.ID, auth.User.ID)
}

// TestLogin_Fail_WrongPassword testa que senha errada retorna a mesma mensagem
// genérica de credenciais inválidas.
func TestLogin_Fail_WrongPassword(t *testing.T) {
	svc, mockRepo := newService()

	hash, _ := bcrypt.GenerateFromPassword([]byte("senha123"), bcrypt.DefaultCost)
	stored := domain.User{ID: uuid.New().String(), Email: "maria@exemplo.com", PasswordHash: string(hash)}

	mockRepo.On("FindByEmail", mock.Anything, "maria@exemplo.com").Return(stored, nil)

	_, err := svc.Login(context.Background(), "maria@exemplo.com", "senha-errada")

	assert.Error(t, err)
	assert.IsType(t, &apperror.UnauthorizedError{}, err)
}

// TestLogin_Fail_UnknownEmail testa que email inexistente não vaza a
// informação: a resposta é a mesma de senha errada.
func TestLogin_Fail_UnknownEmail(t *testing.T) {
	svc, mockRepo := newService()

	mockRepo.On("FindByEmail", mock.Anything, "ninguem@exemplo.com").
		Return(domain.User{}, apperror.NewNotFoundError("usuário não encontrado"))

	_, err := svc.Login(context.Background(), "ninguem@exemplo.com", "qualquer")

	assert.Error(t, err)
	assert.IsType(t, &apperror.UnauthorizedError{}, err)
}
