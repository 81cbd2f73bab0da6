package inventoryservice

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"farmastock/internal/domain"
	apperror "farmastock/internal/errors"
	"farmastock/internal/pkg/logger"
)

// InventoryRepository define o contrato que o Serviço de Estoque espera da
// camada de Persistência.
type InventoryRepository interface {
	Create(ctx context.Context, inventory domain.Inventory) (domain.Inventory, error)
	FindAll(ctx context.Context) ([]domain.Inventory, error)
	FindByID(ctx context.Context, id string) (domain.Inventory, error)
	FindByBatch(ctx context.Context, batchID string) ([]domain.Inventory, error)
	FindByLocation(ctx context.Context, location string) ([]domain.Inventory, error)
	CheckAvailability(ctx context.Context, id string, needed int) (bool, error)
	AdjustQuantity(ctx context.Context, id string, amount int, mode domain.AdjustmentMode) (domain.Inventory, error)
	Update(ctx context.Context, inventory domain.Inventory) (domain.Inventory, error)
	Delete(ctx context.Context, id string) error
}

// BatchRepository é o subconjunto usado para validar a referência ao lote.
type BatchRepository interface {
	FindByID(ctx context.Context, id string) (domain.Batch, error)
}

// Service implementa as regras de negócio das posições de estoque.
type Service struct {
	repo      InventoryRepository
	batchRepo BatchRepository
	logger    logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Estoque.
func NewService(repo InventoryRepository, batchRepo BatchRepository, logger logger.Logger) *Service {
	return &Service{
		repo:      repo,
		batchRepo: batchRepo,
		logger:    logger,
	}
}

// Create registra uma nova posição de estoque. Exige local, lote existente e
// quantidade inicial não negativa.
func (s *Service) Create(ctx context.Context, inventory domain.Inventory) (domain.Inventory, error) {
	if inventory.Location == "" {
		return domain.Inventory{}, apperror.NewValidationError("O local de armazenamento é obrigatório.")
	}
	if inventory.BatchID == "" {
		return domain.Inventory{}, apperror.NewValidationError("O lote é obrigatório.")
	}
	if inventory.Quantity < 0 {
		return domain.Inventory{}, apperror.NewValidationError("A quantidade inicial não pode ser negativa.")
	}

	if _, err := s.batchRepo.FindByID(ctx, inventory.BatchID); err != nil {
		return domain.Inventory{}, err
	}

	created, err := s.repo.Create(ctx, inventory)
	if err != nil {
		s.logger.Error("Falha ao criar posição de estoque no repositório.", err)
		return domain.Inventory{}, err
	}

	s.logger.Info("Posição de estoque criada.", map[string]interface{}{
		"id": created.ID, "location": created.Location, "quantity": created.Quantity,
	})
	return created, nil
}

// FindAll busca todas as posições de estoque.
func (s *Service) FindAll(ctx context.Context) ([]domain.Inventory, error) {
	return s.repo.FindAll(ctx)
}

// FindByID busca uma posição de estoque pelo ID.
func (s *Service) FindByID(ctx context.Context, id string) (domain.Inventory, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Inventory{}, apperror.NewValidationError("O ID da posição de estoque deve ser um UUID válido.")
	}
	return s.repo.FindByID(ctx, id)
}

// FindByBatch busca as posições de estoque de um lote.
func (s *Service) FindByBatch(ctx context.Context, batchID string) ([]domain.Inventory, error) {
	if _, err := uuid.Parse(batchID); err != nil {
		return nil, apperror.NewValidationError("O ID do lote deve ser um UUID válido.")
	}
	return s.repo.FindByBatch(ctx, batchID)
}

// FindByLocation busca posições de estoque por local (busca parcial).
func (s *Service) FindByLocation(ctx context.Context, location string) ([]domain.Inventory, error) {
	if location == "" {
		return nil, apperror.NewValidationError("O termo de busca por local é obrigatório.")
	}
	return s.repo.FindByLocation(ctx, location)
}

// CheckAvailability verifica se a posição possui pelo menos a quantidade
// necessária. Posição inexistente conta como indisponível, não como erro.
func (s *Service) CheckAvailability(ctx context.Context, id string, needed int) (bool, error) {
	if needed <= 0 {
		return false, apperror.NewValidationError("A quantidade necessária deve ser maior que zero.")
	}
	return s.repo.CheckAvailability(ctx, id, needed)
}

// AdjustQuantity aplica um ajuste manual de quantidade a uma posição de estoque.
// Os modos aceitos pela API são substituir, adicionar e subtrair; a baixa de
// reservas concluídas é interna ao fluxo de solicitações e não passa por aqui.
func (s *Service) AdjustQuantity(ctx context.Context, id string, req domain.InventoryAdjustmentRequest) (domain.Inventory, error) {
	s.logger.Debug("Iniciando ajuste de quantidade no serviço.", map[string]interface{}{
		"id": id, "amount": req.Amount, "mode": string(req.Mode),
	})

	if _, err := uuid.Parse(id); err != nil {
		return domain.Inventory{}, apperror.NewValidationError("O ID da posição de estoque deve ser um UUID válido.")
	}
	if !req.Mode.IsValid() {
		return domain.Inventory{}, apperror.NewValidationError(fmt.Sprintf("Modo de ajuste inválido: '%s'.", req.Mode))
	}
	if req.Amount < 0 {
		return domain.Inventory{}, apperror.NewValidationError("O valor do ajuste não pode ser negativo.")
	}

	adjusted, err := s.repo.AdjustQuantity(ctx, id, req.Amount, req.Mode)
	if err != nil {
		return domain.Inventory{}, err
	}

	s.logger.Info("Quantidade da posição de estoque ajustada.", map[string]interface{}{
		"id": adjusted.ID, "quantity": adjusted.Quantity, "mode": string(req.Mode),
	})
	return adjusted, nil
}

// Update aplica uma atualização parcial de local e lote. A quantidade só é
// alterada via AdjustQuantity.
func (s *Service) Update(ctx context.Context, id string, update domain.InventoryUpdate) (domain.Inventory, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Inventory{}, apperror.NewValidationError("O ID da posição de estoque deve ser um UUID válido.")
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Inventory{}, err
	}

	if update.Location != nil {
		if *update.Location == "" {
			return domain.Inventory{}, apperror.NewValidationError("O local de armazenamento não pode ser vazio.")
		}
		current.Location = *update.Location
	}
	if update.BatchID != nil {
		if _, err := s.batchRepo.FindByID(ctx, *update.BatchID); err != nil {
			return domain.Inventory{}, err
		}
		current.BatchID = *update.BatchID
	}

	return s.repo.Update(ctx, current)
}

// Delete remove uma posição de estoque pelo ID.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewValidationError("O ID da posição de estoque deve ser um UUID válido.")
	}
	return s.repo.Delete(ctx, id)
}
