package batchservice

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"farmastock/internal/domain"
	apperror "farmastock/internal/errors"
	"farmastock/internal/pkg/logger"
)

// BatchRepository define o contrato que o Serviço de Lotes espera da camada
// de Persistência.
type BatchRepository interface {
	Create(ctx context.Context, batch domain.Batch) (domain.Batch, error)
	FindAll(ctx context.Context) ([]domain.Batch, error)
	FindByID(ctx context.Context, id string) (domain.Batch, error)
	FindByCode(ctx context.Context, code string) (domain.Batch, error)
	FindByMedication(ctx context.Context, medicationID string) ([]domain.Batch, error)
	FindExpired(ctx context.Context, reference time.Time) ([]domain.Batch, error)
	FindNearExpiry(ctx context.Context, days int, reference time.Time) ([]domain.Batch, error)
	Update(ctx context.Context, batch domain.Batch) (domain.Batch, error)
	Delete(ctx context.Context, id string) error
}

// MedicationRepository é o subconjunto usado para validar a referência ao medicamento.
type MedicationRepository interface {
	FindByID(ctx context.Context, id string) (domain.Medication, error)
}

// InventoryRepository é o subconjunto usado para bloquear a remoção de lotes
// que ainda possuem posições de estoque.
type InventoryRepository interface {
	FindByBatch(ctx context.Context, batchID string) ([]domain.Inventory, error)
}

// DefaultNearExpiryDays é a janela padrão do alerta de vencimento próximo.
const DefaultNearExpiryDays = 30

// Service implementa as regras de negócio dos lotes de medicamento.
type Service struct {
	repo           BatchRepository
	medicationRepo MedicationRepository
	inventoryRepo  InventoryRepository
	logger         logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Lotes.
func NewService(repo BatchRepository, medicationRepo MedicationRepository, inventoryRepo InventoryRepository, logger logger.Logger) *Service {
	return &Service{
		repo:           repo,
		medicationRepo: medicationRepo,
		inventoryRepo:  inventoryRepo,
		logger:         logger,
	}
}

// Create registra um novo lote. Exige código único, medicamento existente,
// datas coerentes e quantidade não negativa.
func (s *Service) Create(ctx context.Context, batch domain.Batch) (domain.Batch, error) {
	s.logger.Debug("Iniciando criação de lote no serviço.", map[string]interface{}{
		"code": batch.Code, "medication_id": batch.MedicationID,
	})

	if err := s.validate(batch); err != nil {
		return domain.Batch{}, err
	}
	if _, err := s.medicationRepo.FindByID(ctx, batch.MedicationID); err != nil {
		return domain.Batch{}, err
	}

	// O índice único em 'code' cobre a corrida entre esta checagem e o INSERT.
	if _, err := s.repo.FindByCode(ctx, batch.Code); err == nil {
		return domain.Batch{}, apperror.NewConflictError(fmt.Sprintf("Já existe um lote com o código '%s'.", batch.Code))
	}

	created, err := s.repo.Create(ctx, batch)
	if err != nil {
		s.logger.Error("Falha ao criar lote no repositório.", err)
		return domain.Batch{}, err
	}

	s.logger.Info("Lote criado.", map[string]interface{}{"id": created.ID, "code": created.Code})
	return created, nil
}

// FindAll busca todos os lotes cadastrados.
func (s *Service) FindAll(ctx context.Context) ([]domain.Batch, error) {
	return s.repo.FindAll(ctx)
}

// FindByID busca um lote pelo ID.
func (s *Service) FindByID(ctx context.Context, id string) (domain.Batch, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Batch{}, apperror.NewValidationError("O ID do lote deve ser um UUID válido.")
	}
	return s.repo.FindByID(ctx, id)
}

// FindByCode busca um lote pelo código único.
func (s *Service) FindByCode(ctx context.Context, code string) (domain.Batch, error) {
	if code == "" {
		return domain.Batch{}, apperror.NewValidationError("O código do lote é obrigatório.")
	}
	return s.repo.FindByCode(ctx, code)
}

// FindByMedication busca os lotes de um medicamento.
func (s *Service) FindByMedication(ctx context.Context, medicationID string) ([]domain.Batch, error) {
	if _, err := uuid.Parse(medicationID); err != nil {
		return nil, apperror.NewValidationError("O ID do medicamento deve ser um UUID válido.")
	}
	return s.repo.FindByMedication(ctx, medicationID)
}

// FindExpired busca os lotes já vencidos na data atual.
func (s *Service) FindExpired(ctx context.Context) ([]domain.Batch, error) {
	return s.repo.FindExpired(ctx, time.Now().UTC())
}

// FindNearExpiry busca os lotes que vencem dentro da janela de dias informada.
// Dias não positivos caem na janela padrão. Lotes já vencidos não entram.
func (s *Service) FindNearExpiry(ctx context.Context, days int) ([]domain.Batch, error) {
	if days <= 0 {
		days = DefaultNearExpiryDays
	}
	return s.repo.FindNearExpiry(ctx, days, time.Now().UTC())
}

// IsExpired indica se a validade do lote já passou na data atual.
func (s *Service) IsExpired(ctx context.Context, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, apperror.NewValidationError("O ID do lote deve ser um UUID válido.")
	}

	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return false, err
	}

	return b.IsExpired(time.Now().UTC()), nil
}

// Update aplica uma atualização parcial a um lote existente.
func (s *Service) Update(ctx context.Context, id string, update domain.BatchUpdate) (domain.Batch, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Batch{}, apperror.NewValidationError("O ID do lote deve ser um UUID válido.")
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Batch{}, err
	}

	if update.Code != nil {
		// Rejeita a troca para um código que já pertence a outro lote.
		if existing, err := s.repo.FindByCode(ctx, *update.Code); err == nil && existing.ID != id {
			return domain.Batch{}, apperror.NewConflictError(fmt.Sprintf("Já existe um lote com o código '%s'.", *update.Code))
		}
		current.Code = *update.Code
	}
	if update.MedicationID != nil {
		if _, err := s.medicationRepo.FindByID(ctx, *update.MedicationID); err != nil {
			return domain.Batch{}, err
		}
		current.MedicationID = *update.MedicationID
	}
	if update.ManufactureDate != nil {
		current.ManufactureDate = *update.ManufactureDate
	}
	if update.ExpiryDate != nil {
		current.ExpiryDate = *update.ExpiryDate
	}
	if update.Quantity != nil {
		current.Quantity = *update.Quantity
	}
	if update.SupplierID != nil {
		current.SupplierID = *update.SupplierID
	}
	if update.Notes != nil {
		current.Notes = *update.Notes
	}

	if err := s.validate(current); err != nil {
		return domain.Batch{}, err
	}

	return s.repo.Update(ctx, current)
}

// Delete remove um lote pelo ID. A remoção é bloqueada enquanto existirem
// posições de estoque vinculadas ao lote.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewValidationError("O ID do lote deve ser um UUID válido.")
	}

	inventories, err := s.inventoryRepo.FindByBatch(ctx, id)
	if err != nil {
		return err
	}
	if len(inventories) > 0 {
		return apperror.NewConflictError(fmt.Sprintf(
			"O lote possui %d posição(ões) de estoque vinculada(s) e não pode ser removido.", len(inventories)))
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Lote removido.", map[string]interface{}{"id": id})
	return nil
}

// validate checa os invariantes de um lote completo.
func (s *Service) validate(batch domain.Batch) error {
	if batch.Code == "" {
		return apperror.NewValidationError("O código do lote é obrigatório.")
	}
	if batch.MedicationID == "" {
		return apperror.NewValidationError("O medicamento é obrigatório.")
	}
	if batch.Quantity < 0 {
		return apperror.NewValidationError("A quantidade do lote não pode ser negativa.")
	}
	if batch.ManufactureDate.IsZero() || batch.ExpiryDate.IsZero() {
		return apperror.NewValidationError("As datas de fabricação e validade são obrigatórias.")
	}
	if batch.ExpiryDate.Before(batch.ManufactureDate) {
		return apperror.NewValidationError("A data de validade não pode ser anterior à de fabricação.")
	}
	return nil
}
