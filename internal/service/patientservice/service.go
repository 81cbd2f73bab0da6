package patientservice

import (
	"context"

	"github.com/google/uuid"

	"farmastock/internal/domain"
	apperror "farmastock/internal/errors"
	"farmastock/internal/pkg/logger"
)

// PatientRepository define o contrato que o Serviço de Pacientes espera da
// camada de Persistência.
type PatientRepository interface {
	Create(ctx context.Context, patient domain.Patient) (domain.Patient, error)
	FindAll(ctx context.Context) ([]domain.Patient, error)
	FindByID(ctx context.Context, id string) (domain.Patient, error)
	Update(ctx context.Context, patient domain.Patient) (domain.Patient, error)
	Delete(ctx context.Context, id string) error
}

// Service implementa as regras de negócio dos pacientes.
type Service struct {
	repo   PatientRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Pacientes.
func NewService(repo PatientRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Create registra um novo paciente. Apenas o nome é obrigatório.
func (s *Service) Create(ctx context.Context, patient domain.Patient) (domain.Patient, error) {
	if patient.Name == "" {
		return domain.Patient{}, apperror.NewValidationError("O nome do paciente é obrigatório.")
	}

	created, err := s.repo.Create(ctx, patient)
	if err != nil {
		s.logger.Error("Falha ao criar paciente no repositório.", err)
		return domain.Patient{}, err
	}

	s.logger.Info("Paciente criado.", map[string]interface{}{"id": created.ID})
	return created, nil
}

// FindAll busca todos os pacientes cadastrados.
func (s *Service) FindAll(ctx context.Context) ([]domain.Patient, error) {
	return s.repo.FindAll(ctx)
}

// FindByID busca um paciente pelo ID.
func (s *Service) FindByID(ctx context.Context, id string) (domain.Patient, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Patient{}, apperror.NewValidationError("O ID do paciente deve ser um UUID válido.")
	}
	return s.repo.FindByID(ctx, id)
}

// Update aplica uma atualização parcial a um paciente existente.
func (s *Service) Update(ctx context.Context, id string, update domain.PatientUpdate) (domain.Patient, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Patient{}, apperror.NewValidationError("O ID do paciente deve ser um UUID válido.")
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Patient{}, err
	}

	if update.Name != nil {
		if *update.Name == "" {
			return domain.Patient{}, apperror.NewValidationError("O nome do paciente não pode ser vazio.")
		}
		current.Name = *update.Name
	}
	if update.Document != nil {
		current.Document = *update.Document
	}
	if update.BirthDate != nil {
		current.BirthDate = *update.BirthDate
	}

	return s.repo.Update(ctx, current)
}

// Delete remove um paciente pelo ID.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewValidationError("O ID do paciente deve ser um UUID válido.")
	}
	return s.repo.Delete(ctx, id)
}
