package stockcontrolservice

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"farmastock/internal/domain"
	apperror "farmastock/internal/errors"
	"farmastock/internal/pkg/logger"
)

// StockControlRepository define o contrato que o Serviço de Controle de
// Estoque espera da camada de Persistência.
type StockControlRepository interface {
	Create(ctx context.Context, control domain.StockControl) (domain.StockControl, error)
	FindAll(ctx context.Context) ([]domain.StockControl, error)
	FindByID(ctx context.Context, id string) (domain.StockControl, error)
	FindByDoctor(ctx context.Context, doctorID string) ([]domain.StockControl, error)
	FindByPatient(ctx context.Context, patientID string) ([]domain.StockControl, error)
	FindByInventory(ctx context.Context, inventoryID string) ([]domain.StockControl, error)
	FindByStatus(ctx context.Context, status domain.ControlStatus) ([]domain.StockControl, error)
	UpdateStatus(ctx context.Context, id string, status domain.ControlStatus) (domain.StockControl, error)
	Update(ctx context.Context, control domain.StockControl) (domain.StockControl, error)
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context, start, end time.Time) (map[domain.ControlStatus]int, error)
}

// InventoryRepository é o subconjunto do repositório de estoque que o fluxo
// de reserva consome: checagem de disponibilidade e baixa na conclusão.
type InventoryRepository interface {
	FindByID(ctx context.Context, id string) (domain.Inventory, error)
	CheckAvailability(ctx context.Context, id string, needed int) (bool, error)
	AdjustQuantity(ctx context.Context, id string, amount int, mode domain.AdjustmentMode) (domain.Inventory, error)
}

// DoctorRepository é o subconjunto usado para validar a referência ao médico.
type DoctorRepository interface {
	FindByID(ctx context.Context, id string) (domain.Doctor, error)
}

// PatientRepository é o subconjunto usado para validar a referência ao paciente.
type PatientRepository interface {
	FindByID(ctx context.Context, id string) (domain.Patient, error)
}

// Service implementa o fluxo de reserva de medicamentos:
// criação com validação de referências e disponibilidade, máquina de estados
// do status e o efeito colateral de baixa no estoque na conclusão.
type Service struct {
	repo          StockControlRepository
	inventoryRepo InventoryRepository
	doctorRepo    DoctorRepository
	patientRepo   PatientRepository
	logger        logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Controle de Estoque.
func NewService(repo StockControlRepository, inventoryRepo InventoryRepository, doctorRepo DoctorRepository, patientRepo PatientRepository, logger logger.Logger) *Service {
	return &Service{
		repo:          repo,
		inventoryRepo: inventoryRepo,
		doctorRepo:    doctorRepo,
		patientRepo:   patientRepo,
		logger:        logger,
	}
}

// Create registra uma nova solicitação de medicamento com status inicial Reservado.
// Exige médico, paciente e posição de estoque existentes, quantidade positiva
// e disponibilidade suficiente na posição.
func (s *Service) Create(ctx context.Context, req domain.StockControlRequest) (domain.StockControl, error) {
	s.logger.Debug("Iniciando criação de solicitação no serviço.", map[string]interface{}{
		"doctor_id": req.DoctorID, "patient_id": req.PatientID,
		"inventory_id": req.InventoryID, "quantity": req.Quantity,
	})

	// 1. Validação de campos obrigatórios
	if req.DoctorID == "" {
		return domain.StockControl{}, apperror.NewValidationError("O médico é obrigatório.")
	}
	if req.PatientID == "" {
		return domain.StockControl{}, apperror.NewValidationError("O paciente é obrigatório.")
	}
	if req.InventoryID == "" {
		return domain.StockControl{}, apperror.NewValidationError("A posição de estoque é obrigatória.")
	}
	if req.Quantity <= 0 {
		return domain.StockControl{}, apperror.NewValidationError("A quantidade deve ser maior que zero.")
	}

	// 2. Validação das referências
	if _, err := s.doctorRepo.FindByID(ctx, req.DoctorID); err != nil {
		return domain.StockControl{}, err
	}
	if _, err := s.patientRepo.FindByID(ctx, req.PatientID); err != nil {
		return domain.StockControl{}, err
	}
	if _, err := s.inventoryRepo.FindByID(ctx, req.InventoryID); err != nil {
		return domain.StockControl{}, err
	}

	// 3. Verificação de disponibilidade
	available, err := s.inventoryRepo.CheckAvailability(ctx, req.InventoryID, req.Quantity)
	if err != nil {
		s.logger.Error("Falha ao verificar disponibilidade de estoque.", err)
		return domain.StockControl{}, err
	}
	if !available {
		return domain.StockControl{}, apperror.NewInsufficientStockError(fmt.Sprintf(
			"A posição %s não possui %d unidades disponíveis.", req.InventoryID, req.Quantity))
	}

	// 4. Criação com status inicial Reservado
	control := domain.StockControl{
		DoctorID:    req.DoctorID,
		PatientID:   req.PatientID,
		InventoryID: req.InventoryID,
		Quantity:    req.Quantity,
		Status:      domain.StatusReserved,
	}

	created, err := s.repo.Create(ctx, control)
	if err != nil {
		s.logger.Error("Falha ao criar solicitação no repositório.", err)
		return domain.StockControl{}, err
	}

	s.logger.Info("Solicitação de medicamento criada.", map[string]interface{}{
		"id": created.ID, "inventory_id": created.InventoryID, "quantity": created.Quantity,
	})
	return created, nil
}

// UpdateStatus aplica uma transição de status a uma solicitação.
//
// Regras da máquina de estados:
//   - status desconhecido: ValidationError;
//   - status igual ao atual: no-op, retorna o registro inalterado;
//   - Reservado -> Concluido: permitido; dá baixa da quantidade reservada na
//     posição de estoque (piso em zero);
//   - Reservado -> Cancelado: permitido; sem efeito no estoque (a reserva
//     apenas caduca, o estoque nunca foi debitado);
//   - qualquer transição saindo de Concluido ou Cancelado: InvalidTransitionError,
//     pois são status terminais.
func (s *Service) UpdateStatus(ctx context.Context, id string, newStatus domain.ControlStatus) (domain.StockControl, error) {
	s.logger.Debug("Iniciando transição de status no serviço.", map[string]interface{}{
		"id": id, "new_status": string(newStatus),
	})

	if !newStatus.IsValid() {
		return domain.StockControl{}, apperror.NewValidationError(fmt.Sprintf("Status inválido: '%s'.", newStatus))
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.StockControl{}, err
	}

	// No-op: o status já é o desejado. Não repete o efeito colateral.
	if current.Status == newStatus {
		return current, nil
	}

	// Status terminais não admitem nenhuma transição de saída.
	if current.Status.IsTerminal() {
		return domain.StockControl{}, apperror.NewInvalidTransitionError(fmt.Sprintf(
			"Não é possível sair do status terminal '%s' para '%s'.", current.Status, newStatus))
	}

	// A partir daqui current.Status == Reservado.
	if newStatus == domain.StatusCompleted {
		// A conclusão dá baixa da quantidade reservada. O piso em zero é
		// tolerado aqui porque a disponibilidade foi validada na criação.
		if _, err := s.inventoryRepo.AdjustQuantity(ctx, current.InventoryID, current.Quantity, domain.AdjustConsume); err != nil {
			s.logger.Error("Falha ao dar baixa no estoque ao concluir solicitação.", err)
			return domain.StockControl{}, err
		}
	}

	updated, err := s.repo.UpdateStatus(ctx, id, newStatus)
	if err != nil {
		s.logger.Error("Falha ao persistir transição de status.", err)
		return domain.StockControl{}, err
	}

	s.logger.Info("Status da solicitação atualizado.", map[string]interface{}{
		"id": id, "from": string(current.Status), "to": string(newStatus),
	})
	return updated, nil
}

// FindAll busca todas as solicitações.
func (s *Service) FindAll(ctx context.Context) ([]domain.StockControl, error) {
	return s.repo.FindAll(ctx)
}

// FindByID busca uma solicitação pelo ID.
func (s *Service) FindByID(ctx context.Context, id string) (domain.StockControl, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.StockControl{}, apperror.NewValidationError("O ID da solicitação deve ser um UUID válido.")
	}
	return s.repo.FindByID(ctx, id)
}

// FindByDoctor busca as solicitações de um médico. Retorna lista vazia
// (não erro) quando nada corresponde.
func (s *Service) FindByDoctor(ctx context.Context, doctorID string) ([]domain.StockControl, error) {
	if _, err := uuid.Parse(doctorID); err != nil {
		return nil, apperror.NewValidationError("O ID do médico deve ser um UUID válido.")
	}
	return s.repo.FindByDoctor(ctx, doctorID)
}

// FindByPatient busca as solicitações em nome de um paciente.
func (s *Service) FindByPatient(ctx context.Context, patientID string) ([]domain.StockControl, error) {
	if _, err := uuid.Parse(patientID); err != nil {
		return nil, apperror.NewValidationError("O ID do paciente deve ser um UUID válido.")
	}
	return s.repo.FindByPatient(ctx, patientID)
}

// FindByInventory busca as solicitações contra uma posição de estoque.
func (s *Service) FindByInventory(ctx context.Context, inventoryID string) ([]domain.StockControl, error) {
	if _, err := uuid.Parse(inventoryID); err != nil {
		return nil, apperror.NewValidationError("O ID da posição de estoque deve ser um UUID válido.")
	}
	return s.repo.FindByInventory(ctx, inventoryID)
}

// FindByStatus busca as solicitações com o status informado.
func (s *Service) FindByStatus(ctx context.Context, status domain.ControlStatus) ([]domain.StockControl, error) {
	if !status.IsValid() {
		return nil, apperror.NewValidationError(fmt.Sprintf("Status inválido: '%s'.", status))
	}
	return s.repo.FindByStatus(ctx, status)
}

// Update aplica uma atualização parcial a uma solicitação ainda Reservada.
// Solicitações em status terminal não são editáveis; o status só muda via
// UpdateStatus.
func (s *Service) Update(ctx context.Context, id string, update domain.StockControlUpdate) (domain.StockControl, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.StockControl{}, apperror.NewValidationError("O ID da solicitação deve ser um UUID válido.")
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.StockControl{}, err
	}
	if current.Status != domain.StatusReserved {
		return domain.StockControl{}, apperror.NewConflictError(fmt.Sprintf(
			"Somente solicitações com status '%s' podem ser editadas.", domain.StatusReserved))
	}

	if update.DoctorID != nil {
		if _, err := s.doctorRepo.FindByID(ctx, *update.DoctorID); err != nil {
			return domain.StockControl{}, err
		}
		current.DoctorID = *update.DoctorID
	}
	if update.PatientID != nil {
		if _, err := s.patientRepo.FindByID(ctx, *update.PatientID); err != nil {
			return domain.StockControl{}, err
		}
		current.PatientID = *update.PatientID
	}
	if update.InventoryID != nil {
		if _, err := s.inventoryRepo.FindByID(ctx, *update.InventoryID); err != nil {
			return domain.StockControl{}, err
		}
		current.InventoryID = *update.InventoryID
	}
	if update.Quantity != nil {
		if *update.Quantity <= 0 {
			return domain.StockControl{}, apperror.NewValidationError("A quantidade deve ser maior que zero.")
		}
		current.Quantity = *update.Quantity
	}

	// Revalida a disponibilidade quando a posição ou a quantidade mudou.
	if update.InventoryID != nil || update.Quantity != nil {
		available, err := s.inventoryRepo.CheckAvailability(ctx, current.InventoryID, current.Quantity)
		if err != nil {
			return domain.StockControl{}, err
		}
		if !available {
			return domain.StockControl{}, apperror.NewInsufficientStockError(fmt.Sprintf(
				"A posição %s não possui %d unidades disponíveis.", current.InventoryID, current.Quantity))
		}
	}

	return s.repo.Update(ctx, current)
}

// Delete remove uma solicitação pelo ID.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewValidationError("O ID da solicitação deve ser um UUID válido.")
	}
	return s.repo.Delete(ctx, id)
}

// Report conta as solicitações criadas no intervalo fechado [start, end],
// agrupadas por status. Todos os status conhecidos aparecem no resultado,
// com contagem zero quando ausentes.
func (s *Service) Report(ctx context.Context, start, end time.Time) (domain.StatusReport, error) {
	if start.After(end) {
		return domain.StatusReport{}, apperror.NewValidationError("A data inicial do período não pode ser posterior à final.")
	}

	counts, err := s.repo.CountByStatus(ctx, start, end)
	if err != nil {
		s.logger.Error("Falha ao gerar relatório de solicitações.", err)
		return domain.StatusReport{}, err
	}

	report := domain.StatusReport{
		PeriodStart: start,
		PeriodEnd:   end,
		Counts:      map[domain.ControlStatus]int{},
	}
	for _, status := range domain.AllControlStatuses() {
		report.Counts[status] = counts[status]
	}

	return report, nil
}
