package supplierservice

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"farmastock/internal/domain"
	apperror "farmastock/internal/errors"
	"farmastock/internal/pkg/logger"
)

// SupplierRepository define o contrato que o Serviço de Fornecedores espera
// da camada de Persistência.
type SupplierRepository interface {
	Create(ctx context.Context, supplier domain.Supplier) (domain.Supplier, error)
	FindAll(ctx context.Context) ([]domain.Supplier, error)
	FindByID(ctx context.Context, id string) (domain.Supplier, error)
	FindByName(ctx context.Context, name string) ([]domain.Supplier, error)
	Update(ctx context.Context, supplier domain.Supplier) (domain.Supplier, error)
	Delete(ctx context.Context, id string) error
}

// MedicationRepository é o subconjunto usado para bloquear a remoção de
// fornecedores que ainda possuem medicamentos no catálogo.
type MedicationRepository interface {
	FindBySupplier(ctx context.Context, supplierID string) ([]domain.Medication, error)
}

// Service implementa as regras de negócio dos fornecedores.
type Service struct {
	repo           SupplierRepository
	medicationRepo MedicationRepository
	logger         logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Fornecedores.
func NewService(repo SupplierRepository, medicationRepo MedicationRepository, logger logger.Logger) *Service {
	return &Service{
		repo:           repo,
		medicationRepo: medicationRepo,
		logger:         logger,
	}
}

// Create registra um novo fornecedor. Status ausente assume Disponivel.
func (s *Service) Create(ctx context.Context, supplier domain.Supplier) (domain.Supplier, error) {
	if supplier.Name == "" {
		return domain.Supplier{}, apperror.NewValidationError("O nome do fornecedor é obrigatório.")
	}
	if supplier.Status == "" {
		supplier.Status = domain.SupplierAvailable
	}
	if !supplier.Status.IsValid() {
		return domain.Supplier{}, apperror.NewValidationError(fmt.Sprintf("Status de fornecedor inválido: '%s'.", supplier.Status))
	}

	created, err := s.repo.Create(ctx, supplier)
	if err != nil {
		s.logger.Error("Falha ao criar fornecedor no repositório.", err)
		return domain.Supplier{}, err
	}

	s.logger.Info("Fornecedor criado.", map[string]interface{}{"id": created.ID, "name": created.Name})
	return created, nil
}

// FindAll busca todos os fornecedores cadastrados.
func (s *Service) FindAll(ctx context.Context) ([]domain.Supplier, error) {
	return s.repo.FindAll(ctx)
}

// FindByID busca um fornecedor pelo ID.
func (s *Service) FindByID(ctx context.Context, id string) (domain.Supplier, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Supplier{}, apperror.NewValidationError("O ID do fornecedor deve ser um UUID válido.")
	}
	return s.repo.FindByID(ctx, id)
}

// FindByName busca fornecedores por nome (busca parcial).
func (s *Service) FindByName(ctx context.Context, name string) ([]domain.Supplier, error) {
	if name == "" {
		return nil, apperror.NewValidationError("O termo de busca por nome é obrigatório.")
	}
	return s.repo.FindByName(ctx, name)
}

// Update aplica uma atualização parcial a um fornecedor existente.
func (s *Service) Update(ctx context.Context, id string, update domain.SupplierUpdate) (domain.Supplier, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Supplier{}, apperror.NewValidationError("O ID do fornecedor deve ser um UUID válido.")
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Supplier{}, err
	}

	if update.Name != nil {
		if *update.Name == "" {
			return domain.Supplier{}, apperror.NewValidationError("O nome do fornecedor não pode ser vazio.")
		}
		current.Name = *update.Name
	}
	if update.Status != nil {
		if !update.Status.IsValid() {
			return domain.Supplier{}, apperror.NewValidationError(fmt.Sprintf("Status de fornecedor inválido: '%s'.", *update.Status))
		}
		current.Status = *update.Status
	}
	if update.Phone != nil {
		current.Phone = *update.Phone
	}

	return s.repo.Update(ctx, current)
}

// Delete remove um fornecedor pelo ID. A remoção é bloqueada enquanto
// existirem medicamentos vinculados ao fornecedor.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewValidationError("O ID do fornecedor deve ser um UUID válido.")
	}

	medications, err := s.medicationRepo.FindBySupplier(ctx, id)
	if err != nil {
		return err
	}
	if len(medications) > 0 {
		return apperror.NewConflictError(fmt.Sprintf(
			"O fornecedor possui %d medicamento(s) vinculado(s) e não pode ser removido.", len(medications)))
	}

	return s.repo.Delete(ctx, id)
}
