package medicationservice

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"farmastock/internal/domain"
	apperror "farmastock/internal/errors"
	"farmastock/internal/pkg/logger"
)

// MedicationRepository define o contrato que o Serviço de Medicamentos espera
// da camada de Persistência.
type MedicationRepository interface {
	Create(ctx context.Context, medication domain.Medication) (domain.Medication, error)
	FindAll(ctx context.Context) ([]domain.Medication, error)
	FindByID(ctx context.Context, id string) (domain.Medication, error)
	FindBySupplier(ctx context.Context, supplierID string) ([]domain.Medication, error)
	Update(ctx context.Context, medication domain.Medication) (domain.Medication, error)
	Delete(ctx context.Context, id string) error
}

// SupplierRepository é o subconjunto usado para validar a referência ao fornecedor.
type SupplierRepository interface {
	FindByID(ctx context.Context, id string) (domain.Supplier, error)
}

// BatchRepository é o subconjunto usado para bloquear a remoção de
// medicamentos que ainda possuem lotes cadastrados.
type BatchRepository interface {
	FindByMedication(ctx context.Context, medicationID string) ([]domain.Batch, error)
}

// Service implementa as regras de negócio do catálogo de medicamentos.
type Service struct {
	repo         MedicationRepository
	supplierRepo SupplierRepository
	batchRepo    BatchRepository
	logger       logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Medicamentos.
func NewService(repo MedicationRepository, supplierRepo SupplierRepository, batchRepo BatchRepository, logger logger.Logger) *Service {
	return &Service{
		repo:         repo,
		supplierRepo: supplierRepo,
		batchRepo:    batchRepo,
		logger:       logger,
	}
}

// Create registra um novo medicamento no catálogo. Exige nome, fornecedor
// existente e tarja conhecida. Tarja ausente assume SemTarja.
func (s *Service) Create(ctx context.Context, medication domain.Medication) (domain.Medication, error) {
	if medication.Name == "" {
		return domain.Medication{}, apperror.NewValidationError("O nome do medicamento é obrigatório.")
	}
	if medication.SupplierID == "" {
		return domain.Medication{}, apperror.NewValidationError("O fornecedor é obrigatório.")
	}
	if medication.Tarja == "" {
		medication.Tarja = domain.TarjaNone
	}
	if !medication.Tarja.IsValid() {
		return domain.Medication{}, apperror.NewValidationError(fmt.Sprintf("Tarja inválida: '%s'.", medication.Tarja))
	}

	if _, err := s.supplierRepo.FindByID(ctx, medication.SupplierID); err != nil {
		return domain.Medication{}, err
	}

	created, err := s.repo.Create(ctx, medication)
	if err != nil {
		s.logger.Error("Falha ao criar medicamento no repositório.", err)
		return domain.Medication{}, err
	}

	s.logger.Info("Medicamento criado.", map[string]interface{}{"id": created.ID, "name": created.Name})
	return created, nil
}

// FindAll busca todos os medicamentos do catálogo.
func (s *Service) FindAll(ctx context.Context) ([]domain.Medication, error) {
	return s.repo.FindAll(ctx)
}

// FindByID busca um medicamento pelo ID.
func (s *Service) FindByID(ctx context.Context, id string) (domain.Medication, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Medication{}, apperror.NewValidationError("O ID do medicamento deve ser um UUID válido.")
	}
	return s.repo.FindByID(ctx, id)
}

// FindBySupplier busca os medicamentos de um fornecedor.
func (s *Service) FindBySupplier(ctx context.Context, supplierID string) ([]domain.Medication, error) {
	if _, err := uuid.Parse(supplierID); err != nil {
		return nil, apperror.NewValidationError("O ID do fornecedor deve ser um UUID válido.")
	}
	return s.repo.FindBySupplier(ctx, supplierID)
}

// Update aplica uma atualização parcial a um medicamento existente.
func (s *Service) Update(ctx context.Context, id string, update domain.MedicationUpdate) (domain.Medication, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Medication{}, apperror.NewValidationError("O ID do medicamento deve ser um UUID válido.")
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Medication{}, err
	}

	if update.Name != nil {
		if *update.Name == "" {
			return domain.Medication{}, apperror.NewValidationError("O nome do medicamento não pode ser vazio.")
		}
		current.Name = *update.Name
	}
	if update.SupplierID != nil {
		if _, err := s.supplierRepo.FindByID(ctx, *update.SupplierID); err != nil {
			return domain.Medication{}, err
		}
		current.SupplierID = *update.SupplierID
	}
	if update.Tarja != nil {
		if !update.Tarja.IsValid() {
			return domain.Medication{}, apperror.NewValidationError(fmt.Sprintf("Tarja inválida: '%s'.", *update.Tarja))
		}
		current.Tarja = *update.Tarja
	}

	return s.repo.Update(ctx, current)
}

// Delete remove um medicamento pelo ID. A remoção é bloqueada enquanto
// existirem lotes vinculados ao medicamento.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewValidationError("O ID do medicamento deve ser um UUID válido.")
	}

	batches, err := s.batchRepo.FindByMedication(ctx, id)
	if err != nil {
		return err
	}
	if len(batches) > 0 {
		return apperror.NewConflictError(fmt.Sprintf(
			"O medicamento possui %d lote(s) vinculado(s) e não pode ser removido.", len(batches)))
	}

	return s.repo.Delete(ctx, id)
}
