package doctorservice

import (
	"context"

	"github.com/google/uuid"

	"farmastock/internal/domain"
	apperror "farmastock/internal/errors"
	"farmastock/internal/pkg/logger"
)

// DoctorRepository define o contrato que o Serviço de Médicos espera da
// camada de Persistência.
type DoctorRepository interface {
	Create(ctx context.Context, doctor domain.Doctor) (domain.Doctor, error)
	FindAll(ctx context.Context) ([]domain.Doctor, error)
	FindByID(ctx context.Context, id string) (domain.Doctor, error)
	Update(ctx context.Context, doctor domain.Doctor) (domain.Doctor, error)
	Delete(ctx context.Context, id string) error
}

// Service implementa as regras de negócio dos médicos.
type Service struct {
	repo   DoctorRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Médicos.
func NewService(repo DoctorRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Create registra um novo médico. Apenas o nome é obrigatório.
func (s *Service) Create(ctx context.Context, doctor domain.Doctor) (domain.Doctor, error) {
	if doctor.Name == "" {
		return domain.Doctor{}, apperror.NewValidationError("O nome do médico é obrigatório.")
	}

	created, err := s.repo.Create(ctx, doctor)
	if err != nil {
		s.logger.Error("Falha ao criar médico no repositório.", err)
		return domain.Doctor{}, err
	}

	s.logger.Info("Médico criado.", map[string]interface{}{"id": created.ID})
	return created, nil
}

// FindAll busca todos os médicos cadastrados.
func (s *Service) FindAll(ctx context.Context) ([]domain.Doctor, error) {
	return s.repo.FindAll(ctx)
}

// FindByID busca um médico pelo ID.
func (s *Service) FindByID(ctx context.Context, id string) (domain.Doctor, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Doctor{}, apperror.NewValidationError("O ID do médico deve ser um UUID válido.")
	}
	return s.repo.FindByID(ctx, id)
}

// Update aplica uma atualização parcial a um médico existente.
func (s *Service) Update(ctx context.Context, id string, update domain.DoctorUpdate) (domain.Doctor, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Doctor{}, apperror.NewValidationError("O ID do médico deve ser um UUID válido.")
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Doctor{}, err
	}

	if update.Name != nil {
		if *update.Name == "" {
			return domain.Doctor{}, apperror.NewValidationError("O nome do médico não pode ser vazio.")
		}
		current.Name = *update.Name
	}
	if update.CRM != nil {
		current.CRM = *update.CRM
	}
	if update.Specialty != nil {
		current.Specialty = *update.Specialty
	}

	return s.repo.Update(ctx, current)
}

// Delete remove um médico pelo ID.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewValidationError("O ID do médico deve ser um UUID válido.")
	}
	return s.repo.Delete(ctx, id)
}
