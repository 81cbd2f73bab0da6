package stockcontrolservice_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"farmastock/internal/domain"
	apperror "farmastock/internal/errors"
	"farmastock/internal/pkg/logger"
	"farmastock/internal/service/stockcontrolservice"
)

// MockStockControlRepository é uma implementação mock da interface StockControlRepository
type MockStockControlRepository struct {
	mock.Mock
}

func (m *MockStockControlRepository) Create(ctx context.Context, control domain.StockControl) (domain.StockControl, error) {
	args := m.Called(ctx, control)
	return args.Get(0).(domain.StockControl), args.Error(1)
}

func (m *MockStockControlRepository) FindAll(ctx context.Context) ([]domain.StockControl, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.StockControl), args.Error(1)
}

func (m *MockStockControlRepository) FindByID(ctx context.Context, id string) (domain.StockControl, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.StockControl), args.Error(1)
}

func (m *MockStockControlRepository) FindByDoctor(ctx context.Context, doctorID string) ([]domain.StockControl, error) {
	args := m.Called(ctx, doctorID)
	return args.Get(0).([]domain.StockControl), args.Error(1)
}

func (m *MockStockControlRepository) FindByPatient(ctx context.Context, patientID string) ([]domain.StockControl, error) {
	args := m.Called(ctx, patientID)
	return args.Get(0).([]domain.StockControl), args.Error(1)
}

func (m *MockStockControlRepository) FindByInventory(ctx context.Context, inventoryID string) ([]domain.StockControl, error) {
	args := m.Called(ctx, inventoryID)
	return args.Get(0).([]domain.StockControl), args.Error(1)
}

func (m *MockStockControlRepository) FindByStatus(ctx context.Context, status domain.ControlStatus) ([]domain.StockControl, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]domain.StockControl), args.Error(1)
}

func (m *MockStockControlRepository) UpdateStatus(ctx context.Context, id string, status domain.ControlStatus) (domain.StockControl, error) {
	args := m.Called(ctx, id, status)
	return args.Get(0).(domain.StockControl), args.Error(1)
}

func (m *MockStockControlRepository) Update(ctx context.Context, control domain.StockControl) (domain.StockControl, error) {
	args := m.Called(ctx, control)
	return args.Get(0).(domain.StockControl), args.Error(1)
}

func (m *MockStockControlRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStockControlRepository) CountByStatus(ctx context.Context, start, end time.Time) (map[domain.ControlStatus]int, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).(map[domain.ControlStatus]int), args.Error(1)
}

// MockInventoryRepository é um mock do subconjunto de estoque consumido pelo serviço
type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) FindByID(ctx context.Context, id string) (domain.Inventory, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Inventory), args.Error(1)
}

func (m *MockInventoryRepository) CheckAvailability(ctx context.Context, id string, needed int) (bool, error) {
	args := m.Called(ctx, id, needed)
	return args.Bool(0), args.Error(1)
}

func (m *MockInventoryRepository) AdjustQuantity(ctx context.Context, id string, amount int, mode domain.AdjustmentMode) (domain.Inventory, error) {
	args := m.Called(ctx, id, amount, mode)
	return args.Get(0).(domain.Inventory), args.Error(1)
}

// MockDoctorRepository é um mock da validação de referência ao médico
type MockDoctorRepository struct {
	mock.Mock
}

func (m *MockDoctorRepository) FindByID(ctx context.Context, id string) (domain.Doctor, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Doctor), args.Error(1)
}

// MockPatientRepository é um mock da validação de referência ao paciente
type MockPatientRepository struct {
	mock.Mock
}

func (m *MockPatientRepository) FindByID(ctx context.Context, id string) (domain.Patient, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Patient), args.Error(1)
}

// newService monta o serviço com os quatro mocks.
func newService() (*stockcontrolservice.Service, *MockStockControlRepository, *MockInventoryRepository, *MockDoctorRepository, *MockPatientRepository) {
	mockRepo := new(MockStockControlRepository)
	mockInventory := new(MockInventoryRepository)
	mockDoctor := new(MockDoctorRepository)
	mockPatient := new(MockPatientRepository)
	mockLogger := logger.NewLogger("error")

	svc := stockcontrolservice.NewService(mockRepo, mockInventory, mockDoctor, mockPatient, mockLogger)
	return svc, mockRepo, mockInventory, mockDoctor, mockPatient
}

func validRequest() domain.StockControlRequest {
	return domain.StockControlRequest{
		DoctorID:    uuid.New().String(),
		PatientID:   uuid.New().String(),
		InventoryID: uuid.New().String(),
		Quantity:    5,
	}
}

// TestCreate_Success testa a criação de uma solicitação com referências
// válidas e estoque disponível. O status inicial deve ser Reservado.
func TestCreate_Success(t *testing.T) {
	svc, mockRepo, mockInventory, mockDoctor, mockPatient := newService()
	req := validRequest()

	mockDoctor.On("FindByID", mock.Anything, req.DoctorID).Return(domain.Doctor{ID: req.DoctorID}, nil)
	mockPatient.On("FindByID", mock.Anything, req.PatientID).Return(domain.Patient{ID: req.PatientID}, nil)
	mockInventory.On("FindByID", mock.Anything, req.InventoryID).Return(domain.Inventory{ID: req.InventoryID, Quantity: 10}, nil)
	mockInventory.On("CheckAvailability", mock.Anything, req.InventoryID, req.Quantity).Return(true, nil)
	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(sc domain.StockControl) bool {
		return sc.Status == domain.StatusReserved && sc.Quantity == req.Quantity
	})).Return(domain.StockControl{ID: uuid.New().String(), Status: domain.StatusReserved, Quantity: req.Quantity}, nil)

	created, err := svc.Create(context.Background(), req)

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusReserved, created.Status)
	mockRepo.AssertExpectations(t)
	mockInventory.AssertExpectations(t)
}

// TestCreate_Fail_MissingFields testa a rejeição de campos obrigatórios ausentes.
func TestCreate_Fail_MissingFields(t *testing.T) {
	svc, _, _, _, _ := newService()

	cases := []domain.StockControlRequest{
		{PatientID: "p", InventoryID: "i", Quantity: 1},
		{DoctorID: "d", InventoryID: "i", Quantity: 1},
		{DoctorID: "d", PatientID: "p", Quantity: 1},
	}

	for _, req := range cases {
		_, err := svc.Create(context.Background(), req)
		assert.Error(t, err)
		assert.IsType(t, &apperror.ValidationError{}, err)
	}
}

// TestCreate_Fail_NonPositiveQuantity testa a rejeição de quantidade zero ou negativa.
func TestCreate_Fail_NonPositiveQuantity(t *testing.T) {
	svc, _, _, _, _ := newService()

	for _, qty := range []int{0, -3} {
		req := validRequest()
		req.Quantity = qty

		_, err := svc.Create(context.Background(), req)
		assert.Error(t, err)
		assert.IsType(t, &apperror.ValidationError{}, err)
	}
}

// TestCreate_Fail_InventoryNotFound testa a rejeição quando a posição de
// estoque referenciada não existe.
func TestCreate_Fail_InventoryNotFound(t *testing.T) {
	svc, _, mockInventory, mockDoctor, mockPatient := newService()
	req := validRequest()

	mockDoctor.On("FindByID", mock.Anything, req.DoctorID).Return(domain.Doctor{ID: req.DoctorID}, nil)
	mockPatient.On("FindByID", mock.Anything, req.PatientID).Return(domain.Patient{ID: req.PatientID}, nil)
	mockInventory.On("FindByID", mock.Anything, req.InventoryID).
		Return(domain.Inventory{}, apperror.NewNotFoundError("posição não encontrada"))

	_, err := svc.Create(context.Background(), req)

	assert.Error(t, err)
	assert.IsType(t, &apperror.NotFoundError{}, err)
	mockInventory.AssertNotCalled(t, "CheckAvailability", mock.Anything, mock.Anything, mock.Anything)
}

// TestCreate_Fail_InsufficientStock testa a rejeição quando a posição não tem
// a quantidade pedida.
func TestCreate_Fail_InsufficientStock(t *testing.T) {
	svc, mockRepo, mockInventory, mockDoctor, mockPatient := newService()
	req := validRequest()

	mockDoctor.On("FindByID", mock.Anything, req.DoctorID).Return(domain.Doctor{ID: req.DoctorID}, nil)
	mockPatient.On("FindByID", mock.Anything, req.PatientID).Return(domain.Patient{ID: req.PatientID}, nil)
	mockInventory.On("FindByID", mock.Anything, req.InventoryID).Return(domain.Inventory{ID: req.InventoryID, Quantity: 2}, nil)
	mockInventory.On("CheckAvailability", mock.Anything, req.InventoryID, req.Quantity).Return(false, nil)

	_, err := svc.Create(context.Background(), req)

	assert.Error(t, err)
	assert.IsType(t, &apperror.InsufficientStockError{}, err)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// TestUpdateStatus_CompleteReservation testa a conclusão de uma reserva:
// a transição Reservado -> Concluido deve dar baixa da quantidade no estoque.
func TestUpdateStatus_CompleteReservation(t *testing.T) {
	svc, mockRepo, mockInventory, _, _ := newService()

	controlID := uuid.New().String()
	inventoryID := uuid.New().String()
	current := domain.StockControl{
		ID: controlID, InventoryID: inventoryID, Quantity: 4, Status: domain.StatusReserved,
	}

	mockRepo.On("FindByID", mock.Anything, controlID).Return(current, nil)
	mockInventory.On("AdjustQuantity", mock.Anything, inventoryID, 4, domain.AdjustConsume).
		Return(domain.Inventory{ID: inventoryID, Quantity: 6}, nil)
	completed := current
	completed.Status = domain.StatusCompleted
	mockRepo.On("UpdateStatus", mock.Anything, controlID, domain.StatusCompleted).Return(completed, nil)

	updated, err := svc.UpdateStatus(context.Background(), controlID, domain.StatusCompleted)

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, updated.Status)
	mockRepo.AssertExpectations(t)
	mockInventory.AssertExpectations(t)
}

// TestUpdateStatus_CancelReservation testa o cancelamento: a transição
// Reservado -> Cancelado não pode tocar no estoque.
func TestUpdateStatus_CancelReservation(t *testing.T) {
	svc, mockRepo, mockInventory, _, _ := newService()

	controlID := uuid.New().String()
	current := domain.StockControl{
		ID: controlID, InventoryID: uuid.New().String(), Quantity: 4, Status: domain.StatusReserved,
	}

	mockRepo.On("FindByID", mock.Anything, controlID).Return(current, nil)
	cancelled := current
	cancelled.Status = domain.StatusCancelled
	mockRepo.On("UpdateStatus", mock.Anything, controlID, domain.StatusCancelled).Return(cancelled, nil)

	updated, err := svc.UpdateStatus(context.Background(), controlID, domain.StatusCancelled)

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, updated.Status)
	mockInventory.AssertNotCalled(t, "AdjustQuantity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// TestUpdateStatus_SameStatusIsNoOp testa a idempotência: repetir o status
// atual não persiste nada nem repete a baixa no estoque.
func TestUpdateStatus_SameStatusIsNoOp(t *testing.T) {
	svc, mockRepo, mockInventory, _, _ := newService()

	controlID := uuid.New().String()
	current := domain.StockControl{
		ID: controlID, InventoryID: uuid.New().String(), Quantity: 4, Status: domain.StatusCompleted,
	}

	mockRepo.On("FindByID", mock.Anything, controlID).Return(current, nil)

	updated, err := svc.UpdateStatus(context.Background(), controlID, domain.StatusCompleted)

	assert.NoError(t, err)
	assert.Equal(t, current, updated)
	mockRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	mockInventory.AssertNotCalled(t, "AdjustQuantity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// TestUpdateStatus_Fail_TerminalStatus testa que Concluido e Cancelado não
// admitem nenhuma transição de saída.
func TestUpdateStatus_Fail_TerminalStatus(t *testing.T) {
	cases := []struct {
		from domain.ControlStatus
		to   domain.ControlStatus
	}{
		{domain.StatusCompleted, domain.StatusReserved},
		{domain.StatusCompleted, domain.StatusCancelled},
		{domain.StatusCancelled, domain.StatusReserved},
		{domain.StatusCancelled, domain.StatusCompleted},
	}

	for _, tc := range cases {
		svc, mockRepo, mockInventory, _, _ := newService()
		controlID := uuid.New().String()

		mockRepo.On("FindByID", mock.Anything, controlID).
			Return(domain.StockControl{ID: controlID, Status: tc.from, Quantity: 2}, nil)

		_, err := svc.UpdateStatus(context.Background(), controlID, tc.to)

		assert.Error(t, err)
		assert.IsType(t, &apperror.InvalidTransitionError{}, err)
		mockRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
		mockInventory.AssertNotCalled(t, "AdjustQuantity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	}
}

// TestUpdateStatus_Fail_UnknownStatus testa a rejeição de um status desconhecido.
func TestUpdateStatus_Fail_UnknownStatus(t *testing.T) {
	svc, mockRepo, _, _, _ := newService()

	_, err := svc.UpdateStatus(context.Background(), uuid.New().String(), domain.ControlStatus("EmAnalise"))

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

// TestUpdateStatus_Fail_AdjustError testa que uma falha na baixa do estoque
// impede a persistência da transição.
func TestUpdateStatus_Fail_AdjustError(t *testing.T) {
	svc, mockRepo, mockInventory, _, _ := newService()

	controlID := uuid.New().String()
	inventoryID := uuid.New().String()
	current := domain.StockControl{
		ID: controlID, InventoryID: inventoryID, Quantity: 4, Status: domain.StatusReserved,
	}

	mockRepo.On("FindByID", mock.Anything, controlID).Return(current, nil)
	mockInventory.On("AdjustQuantity", mock.Anything, inventoryID, 4, domain.AdjustConsume).
		Return(domain.Inventory{}, apperror.NewConflictError("O estoque foi modificado por outra operação. Tente novamente."))

	_, err := svc.UpdateStatus(context.Background(), controlID, domain.StatusCompleted)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ConflictError{}, err)
	mockRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

// TestUpdate_Fail_TerminalRecord testa que uma solicitação em status terminal
// não é editável.
func TestUpdate_Fail_TerminalRecord(t *testing.T) {
	svc, mockRepo, _, _, _ := newService()

	controlID := uuid.New().String()
	mockRepo.On("FindByID", mock.Anything, controlID).
		Return(domain.StockControl{ID: controlID, Status: domain.StatusCancelled, Quantity: 2}, nil)

	qty := 3
	_, err := svc.Update(context.Background(), controlID, domain.StockControlUpdate{Quantity: &qty})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ConflictError{}, err)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

// TestUpdate_RevalidatesAvailability testa que a mudança de quantidade de uma
// reserva revalida a disponibilidade da posição de estoque.
func TestUpdate_RevalidatesAvailability(t *testing.T) {
	svc, mockRepo, mockInventory, _, _ := newService()

	controlID := uuid.New().String()
	inventoryID := uuid.New().String()
	current := domain.StockControl{
		ID: controlID, InventoryID: inventoryID, Quantity: 2, Status: domain.StatusReserved,
	}

	mockRepo.On("FindByID", mock.Anything, controlID).Return(current, nil)
	mockInventory.On("CheckAvailability", mock.Anything, inventoryID, 50).Return(false, nil)

	qty := 50
	_, err := svc.Update(context.Background(), controlID, domain.StockControlUpdate{Quantity: &qty})

	assert.Error(t, err)
	assert.IsType(t, &apperror.InsufficientStockError{}, err)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

// TestReport_ZeroDefaults testa que o relatório preenche contagem zero para
// os status sem registros no período.
func TestReport_ZeroDefaults(t *testing.T) {
	svc, mockRepo, _, _, _ := newService()

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC)

	mockRepo.On("CountByStatus", mock.Anything, start, end).
		Return(map[domain.ControlStatus]int{domain.StatusReserved: 7}, nil)

	report, err := svc.Report(context.Background(), start, end)

	assert.NoError(t, err)
	assert.Equal(t, 7, report.Counts[domain.StatusReserved])
	assert.Equal(t, 0, report.Counts[domain.StatusCompleted])
	assert.Equal(t, 0, report.Counts[domain.StatusCancelled])
	assert.Equal(t, start, report.PeriodStart)
	assert.Equal(t, end, report.PeriodEnd)
}

// TestReport_Fail_InvertedPeriod testa a rejeição de um período com a data
// inicial depois da final.
func TestReport_Fail_InvertedPeriod(t *testing.T) {
	svc, mockRepo, _, _, _ := newService()

	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.Report(context.Background(), start, end)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "CountByStatus", mock.Anything, mock.Anything, mock.Anything)
}
