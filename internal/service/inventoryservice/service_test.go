package inventoryservice_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"farmastock/internal/domain"
	apperror "farmastock/internal/errors"
	"farmastock/internal/pkg/logger"
	"farmastock/internal/service/inventoryservice"
)

// MockInventoryRepository é uma implementação mock da interface InventoryRepository
type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) Create(ctx context.Context, inventory domain.Inventory) (domain.Inventory, error) {
	args := m.Called(ctx, inventory)
	return args.Get(0).(domain.Inventory), args.Error(1)
}

func (m *MockInventoryRepository) FindAll(ctx context.Context) ([]domain.Inventory, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Inventory), args.Error(1)
}

func (m *MockInventoryRepository) FindByID(ctx context.Context, id string) (domain.Inventory, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Inventory), args.Error(1)
}

func (m *MockInventoryRepository) FindByBatch(ctx context.Context, batchID string) ([]domain.Inventory, error) {
	args := m.Called(ctx, batchID)
	return args.Get(0).([]domain.Inventory), args.Error(1)
}

func (m *MockInventoryRepository) FindByLocation(ctx context.Context, location string) ([]domain.Inventory, error) {
	args := m.Called(ctx, location)
	return args.Get(0).([]domain.Inventory), args.Error(1)
}

func (m *MockInventoryRepository) CheckAvailability(ctx context.Context, id string, needed int) (bool, error) {
	args := m.Called(ctx, id, needed)
	return args.Bool(0), args.Error(1)
}

func (m *MockInventoryRepository) AdjustQuantity(ctx context.Context, id string, amount int, mode domain.AdjustmentMode) (domain.Inventory, error) {
	args := m.Called(ctx, id, amount, mode)
	return args.Get(0).(domain.Inventory), args.Error(1)
}

func (m *MockInventoryRepository) Update(ctx context.Context, inventory domain.Inventory) (domain.Inventory, error) {
	args := m.Called(ctx, inventory)
	return args.Get(0).(domain.Inventory), args.Error(1)
}

func (m *MockInventoryRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockBatchRepository é um mock da validação de referência ao lote
type MockBatchRepository struct {
	mock.Mock
}

func (m *MockBatchRepository) FindByID(ctx context.Context, id string) (domain.Batch, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Batch), args.Error(1)
}

func newService() (*inventoryservice.Service, *MockInventoryRepository, *MockBatchRepository) {
	mockRepo := new(MockInventoryRepository)
	mockBatch := new(MockBatchRepository)
	mockLogger := logger.NewLogger("error")

	svc := inventoryservice.NewService(mockRepo, mockBatch, mockLogger)
	return svc, mockRepo, mockBatch
}

// TestCreate_Success testa a criação de uma posição de estoque com lote válido.
func TestCreate_Success(t *testing.T) {
	svc, mockRepo, mockBatch := newService()
	inv := domain.Inventory{Location: "Prateleira A1", BatchID: uuid.New().String(), Quantity: 50}

	mockBatch.On("FindByID", mock.Anything, inv.BatchID).Return(domain.Batch{ID: inv.BatchID}, nil)
	created := inv
	created.ID = uuid.New().String()
	created.Version = 1
	mockRepo.On("Create", mock.Anything, inv).Return(created, nil)

	result, err := svc.Create(context.Background(), inv)

	assert.NoError(t, err)
	assert.Equal(t, 1, result.Version)
	mockRepo.AssertExpectations(t)
}

// TestCreate_Fail_NegativeQuantity testa a rejeição de quantidade inicial negativa.
func TestCreate_Fail_NegativeQuantity(t *testing.T) {
	svc, mockRepo, _ := newService()
	inv := domain.Inventory{Location: "Prateleira A1", BatchID: uuid.New().String(), Quantity: -1}

	_, err := svc.Create(context.Background(), inv)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// TestAdjustQuantity_Success testa o ajuste manual nos três modos expostos pela API.
func TestAdjustQuantity_Success(t *testing.T) {
	for _, mode := range []domain.AdjustmentMode{domain.AdjustReplace, domain.AdjustAdd, domain.AdjustSubtract} {
		svc, mockRepo, _ := newService()
		id := uuid.New().String()

		mockRepo.On("AdjustQuantity", mock.Anything, id, 10, mode).
			Return(domain.Inventory{ID: id, Quantity: 10, Version: 2}, nil)

		result, err := svc.AdjustQuantity(context.Background(), id, domain.InventoryAdjustmentRequest{Amount: 10, Mode: mode})

		assert.NoError(t, err)
		assert.Equal(t, 10, result.Quantity)
		mockRepo.AssertExpectations(t)
	}
}

// TestAdjustQuantity_Fail_ConsumeModeNotExposed testa que o modo interno de
// baixa não é aceito pela API de ajuste.
func TestAdjustQuantity_Fail_ConsumeModeNotExposed(t *testing.T) {
	svc, mockRepo, _ := newService()
	id := uuid.New().String()

	_, err := svc.AdjustQuantity(context.Background(), id, domain.InventoryAdjustmentRequest{Amount: 10, Mode: domain.AdjustConsume})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "AdjustQuantity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// TestAdjustQuantity_Fail_UnknownMode testa a rejeição de um modo desconhecido.
func TestAdjustQuantity_Fail_UnknownMode(t *testing.T) {
	svc, mockRepo, _ := newService()
	id := uuid.New().String()

	_, err := svc.AdjustQuantity(context.Background(), id, domain.InventoryAdjustmentRequest{Amount: 10, Mode: "dobrar"})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "AdjustQuantity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// TestAdjustQuantity_Fail_NegativeAmount testa a rejeição de valor de ajuste negativo.
func TestAdjustQuantity_Fail_NegativeAmount(t *testing.T) {
	svc, mockRepo, _ := newService()
	id := uuid.New().String()

	_, err := svc.AdjustQuantity(context.Background(), id, domain.InventoryAdjustmentRequest{Amount: -5, Mode: domain.AdjustAdd})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "AdjustQuantity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// TestCheckAvailability testa a checagem de disponibilidade, inclusive para
// posição inexistente (indisponível, não erro).
func TestCheckAvailability(t *testing.T) {
	svc, mockRepo, _ := newService()
	id := uuid.New().String()

	mockRepo.On("CheckAvailability", mock.Anything, id, 5).Return(false, nil)

	available, err := svc.CheckAvailability(context.Background(), id, 5)

	assert.NoError(t, err)
	assert.False(t, available)
}

// TestCheckAvailability_Fail_NonPositiveNeeded testa a rejeição de quantidade
// necessária não positiva.
func TestCheckAvailability_Fail_NonPositiveNeeded(t *testing.T) {
	svc, mockRepo, _ := newService()

	_, err := svc.CheckAvailability(context.Background(), uuid.New().String(), 0)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "CheckAvailability", mock.Anything, mock.Anything, mock.Anything)
}

// TestUpdate_PartialMerge testa a atualização parcial: apenas os campos
// presentes no payload são alterados.
func TestUpdate_PartialMerge(t *testing.T) {
	svc, mockRepo, _ := newService()
	id := uuid.New().String()
	batchID := uuid.New().String()
	current := domain.Inventory{ID: id, Location: "Prateleira A1", BatchID: batchID, Quantity: 50, Version: 3}

	newLocation := "Prateleira B2"
	expected := current
	expected.Location = newLocation

	mockRepo.On("FindByID", mock.Anything, id).Return(current, nil)
	mockRepo.On("Update", mock.Anything, expected).Return(expected, nil)

	result, err := svc.Update(context.Background(), id, domain.InventoryUpdate{Location: &newLocation})

	assert.NoError(t, err)
	assert.Equal(t, newLocation, result.Location)
	assert.Equal(t, batchID, result.BatchID)
	mockRepo.AssertExpectations(t)
}
