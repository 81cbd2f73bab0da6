package batchservice_test

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
	"farmastock/internal/service/batchservice"
)

// MockBatchRepository é uma implementação mock da interface BatchRepository
type MockBatchRepository struct {
	mock.Mock
}

func (m *MockBatchRepository) Create(ctx context.Context, batch domain.Batch) (domain.Batch, error) {
	args := m.Called(ctx, batch)
	return args.Get(0).(domain.Batch), args.Error(1)
}

func (m *MockBatchRepository) FindAll(ctx context.Context) ([]domain.Batch, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Batch), args.Error(1)
}

func (m *MockBatchRepository) FindByID(ctx context.Context, id string) (domain.Batch, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Batch), args.Error(1)
}

func (m *MockBatchRepository) FindByCode(ctx context.Context, code string) (domain.Batch, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(domain.Batch), args.Error(1)
}

func (m *MockBatchRepository) FindByMedication(ctx context.Context, medicationID string) ([]domain.Batch, error) {
	args := m.Called(ctx, medicationID)
	return args.Get(0).([]domain.Batch), args.Error(1)
}

func (m *MockBatchRepository) FindExpired(ctx context.Context, reference time.Time) ([]domain.Batch, error) {
	args := m.Called(ctx, reference)
	return args.Get(0).([]domain.Batch), args.Error(1)
}

func (m *MockBatchRepository) FindNearExpiry(ctx context.Context, days int, reference time.Time) ([]domain.Batch, error) {
	args := m.Called(ctx, days, reference)
	return args.Get(0).([]domain.Batch), args.Error(1)
}

func (m *MockBatchRepository) Update(ctx context.Context, batch domain.Batch) (domain.Batch, error) {
	args := m.Called(ctx, batch)
	return args.Get(0).(domain.Batch), args.Error(1)
}

func (m *MockBatchRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMedicationRepository é um mock da validação de referência ao medicamento
type MockMedicationRepository struct {
	mock.Mock
}

func (m *MockMedicationRepository) FindByID(ctx context.Context, id string) (domain.Medication, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Medication), args.Error(1)
}

// MockInventoryRepository é um mock do bloqueio de remoção por estoque vinculado
type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) FindByBatch(ctx context.Context, batchID string) ([]domain.Inventory, error) {
	args := m.Called(ctx, batchID)
	return args.Get(0).([]domain.Inventory), args.Error(1)
}

func newService() (*batchservice.Service, *MockBatchRepository, *MockMedicationRepository, *MockInventoryRepository) {
	mockRepo := new(MockBatchRepository)
	mockMedication := new(MockMedicationRepository)
	mockInventory := new(MockInventoryRepository)
	mockLogger := logger.NewLogger("error")

	svc := batchservice.NewService(mockRepo, mockMedication, mockInventory, mockLogger)
	return svc, mockRepo, mockMedication, mockInventory
}

func validBatch() domain.Batch {
	return domain.Batch{
		Code:            "LOTE-001",
		MedicationID:    uuid.New().String(),
		ManufactureDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		ExpiryDate:      time.Date(2027, 6, 1, 0, 0, 0, 0, time.UTC),
		Quantity:        100,
	}
}

// TestCreate_Success testa a criação de um lote com código inédito.
func TestCreate_Success(t *testing.T) {
	svc, mockRepo, mockMedication, _ := newService()
	b := validBatch()

	mockMedication.On("FindByID", mock.Anything, b.MedicationID).Return(domain.Medication{ID: b.MedicationID}, nil)
	mockRepo.On("FindByCode", mock.Anything, b.Code).
		Return(domain.Batch{}, apperror.NewNotFoundError("lote não encontrado"))
	created := b
	created.ID = uuid.New().String()
	mockRepo.On("Create", mock.Anything, b).Return(created, nil)

	result, err := svc.Create(context.Background(), b)

	assert.NoError(t, err)
	assert.Equal(t, created.ID, result.ID)
	mockRepo.AssertExpectations(t)
}

// TestCreate_Fail_DuplicateCode testa a rejeição de um código de lote já usado.
func TestCreate_Fail_DuplicateCode(t *testing.T) {
	svc, mockRepo, mockMedication, _ := newService()
	b := validBatch()

	mockMedication.On("FindByID", mock.Anything, b.MedicationID).Return(domain.Medication{ID: b.MedicationID}, nil)
	mockRepo.On("FindByCode", mock.Anything, b.Code).
		Return(domain.Batch{ID: uuid.New().String(), Code: b.Code}, nil)

	_, err := svc.Create(context.Background(), b)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ConflictError{}, err)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// TestCreate_Fail_ExpiryBeforeManufacture testa a rejeição de validade
// anterior à data de fabricação.
func TestCreate_Fail_ExpiryBeforeManufacture(t *testing.T) {
	svc, _, _, _ := newService()
	b := validBatch()
	b.ExpiryDate = b.ManufactureDate.AddDate(0, 0, -1)

	_, err := svc.Create(context.Background(), b)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
}

// TestDelete_Fail_WithLinkedInventory testa o bloqueio da remoção de um lote
// que ainda possui posições de estoque.
func TestDelete_Fail_WithLinkedInventory(t *testing.T) {
	svc, mockRepo, _, mockInventory := newService()
	batchID := uuid.New().String()

	mockInventory.On("FindByBatch", mock.Anything, batchID).
		Return([]domain.Inventory{{ID: uuid.New().String(), BatchID: batchID}}, nil)

	err := svc.Delete(context.Background(), batchID)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ConflictError{}, err)
	mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

// TestDelete_Success testa a remoção de um lote sem estoque vinculado.
func TestDelete_Success(t *testing.T) {
	svc, mockRepo, _, mockInventory := newService()
	batchID := uuid.New().String()

	mockInventory.On("FindByBatch", mock.Anything, batchID).Return([]domain.Inventory{}, nil)
	mockRepo.On("Delete", mock.Anything, batchID).Return(nil)

	err := svc.Delete(context.Background(), batchID)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

// TestFindNearExpiry_DefaultWindow testa que dias não positivos caem na
// janela padrão.
func TestFindNearExpiry_DefaultWindow(t *testing.T) {
	svc, mockRepo, _, _ := newService()

	mockRepo.On("FindNearExpiry", mock.Anything, batchservice.DefaultNearExpiryDays, mock.Anything).
		Return([]domain.Batch{}, nil)

	_, err := svc.FindNearExpiry(context.Background(), 0)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

// TestIsExpired testa a situação de validade nos dois lados da data de referência.
func TestIsExpired(t *testing.T) {
	svc, mockRepo, _, _ := newService()

	expiredID := uuid.New().String()
	validID := uuid.New().String()

	mockRepo.On("FindByID", mock.Anything, expiredID).
		Return(domain.Batch{ID: expiredID, ExpiryDate: time.Now().UTC().Add(-24 * time.Hour)}, nil)
	mockRepo.On("FindByID", mock.Anything, validID).
		Return(domain.Batch{ID: validID, ExpiryDate: time.Now().UTC().Add(365 * 24 * time.Hour)}, nil)

	expired, err := svc.IsExpired(context.Background(), expiredID)
	assert.NoError(t, err)
	assert.True(t, expired)

	expired, err = svc.IsExpired(context.Background(), validID)
	assert.NoError(t, err)
	assert.False(t, expired)
}

// TestUpdate_Fail_CodeTakenByAnotherBatch testa a rejeição da troca de código
// para um valor que já pertence a outro lote.
func TestUpdate_Fail_CodeTakenByAnotherBatch(t *testing.T) {
	svc, mockRepo, _, _ := newService()
	batchID := uuid.New().String()
	otherID := uuid.New().String()
	newCode := "LOTE-002"

	current := validBatch()
	current.ID = batchID

	mockRepo.On("FindByID", mock.Anything, batchID).Return(current, nil)
	mockRepo.On("FindByCode", mock.Anything, newCode).Return(domain.Batch{ID: otherID, Code: newCode}, nil)

	_, err := svc.Update(context.Background(), batchID, domain.BatchUpdate{Code: &newCode})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ConflictError{}, err)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
