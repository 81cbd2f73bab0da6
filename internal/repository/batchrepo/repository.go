package batchrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"farmastock/internal/domain"
	"farmastock/internal/errors"
	"farmastock/internal/pkg/logger"
)

// Código de erro do PostgreSQL para violação de chave única.
const pgUniqueViolation = "23505"

// BatchRepository implementa as operações de persistência de lotes.
type BatchRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewBatchRepository cria e retorna uma nova instância do Repositório de Lotes.
func NewBatchRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *BatchRepository {
	return &BatchRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

const batchColumns = "id, code, medication_id, manufacture_date, expiry_date, quantity, supplier_id, notes, created_at, updated_at"

// scanBatch mapeia uma linha do DB para a struct domain.Batch.
// supplier_id e notes são colunas anuláveis.
func scanBatch(row interface{ Scan(...interface{}) error }) (domain.Batch, error) {
	var b domain.Batch
	var supplierID, notes sql.NullString
	err := row.Scan(
		&b.ID, &b.Code, &b.MedicationID, &b.ManufactureDate, &b.ExpiryDate,
		&b.Quantity, &supplierID, &notes, &b.CreatedAt, &b.UpdatedAt,
	)
	b.SupplierID = supplierID.String
	b.Notes = notes.String
	return b, err
}

// nullable converte string vazia em NULL para colunas opcionais.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// isUniqueViolation verifica se o erro do driver é uma violação de chave única (código do lote).
func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return string(pqErr.Code) == pgUniqueViolation
	}
	return false
}

// Create insere um novo lote no banco de dados.
// O índice único em 'code' é a garantia final de unicidade do código do lote.
func (r *BatchRepository) Create(ctx context.Context, batch domain.Batch) (domain.Batch, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if batch.ID == "" {
		batch.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	batch.CreatedAt = now
	batch.UpdatedAt = now

	query := `
        INSERT INTO batches (id, code, medication_id, manufacture_date, expiry_date, quantity, supplier_id, notes, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING ` + batchColumns

	created, err := scanBatch(r.DB.QueryRowContext(ctxTimeout, query,
		batch.ID, batch.Code, batch.MedicationID, batch.ManufactureDate, batch.ExpiryDate,
		batch.Quantity, nullable(batch.SupplierID), nullable(batch.Notes), batch.CreatedAt, batch.UpdatedAt,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Batch{}, errors.NewConflictError(fmt.Sprintf("Já existe um lote com o código '%s'.", batch.Code))
		}
		r.logger.Error("Falha ao inserir lote no DB.", err)
		return domain.Batch{}, errors.NewDBError("Falha ao criar lote", err)
	}

	r.logger.Info("Lote criado no repositório.", map[string]interface{}{"id": created.ID, "code": created.Code})
	return created, nil
}

// FindAll busca todos os lotes cadastrados.
func (r *BatchRepository) FindAll(ctx context.Context) ([]domain.Batch, error) {
	return r.queryBatches(ctx, `SELECT `+batchColumns+` FROM batches ORDER BY expiry_date`)
}

// FindByID busca um lote pelo ID.
func (r *BatchRepository) FindByID(ctx context.Context, id string) (domain.Batch, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + batchColumns + ` FROM batches WHERE id = $1`

	b, err := scanBatch(r.DB.QueryRowContext(ctxTimeout, query, id))
	if err == sql.ErrNoRows {
		return domain.Batch{}, errors.NewNotFoundError(fmt.Sprintf("Lote com ID %s não existe na base de dados.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar lote no DB.", err)
		return domain.Batch{}, errors.NewDBError("Falha ao buscar lote", err)
	}

	return b, nil
}

// FindByCode busca um lote pelo código único.
func (r *BatchRepository) FindByCode(ctx context.Context, code string) (domain.Batch, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + batchColumns + ` FROM batches WHERE code = $1`

	b, err := scanBatch(r.DB.QueryRowContext(ctxTimeout, query, code))
	if err == sql.ErrNoRows {
		return domain.Batch{}, errors.NewNotFoundError(fmt.Sprintf("Lote com código '%s' não existe na base de dados.", code))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar lote por código no DB.", err)
		return domain.Batch{}, errors.NewDBError("Falha ao buscar lote por código", err)
	}

	return b, nil
}

// FindByMedication busca os lotes de um medicamento.
func (r *BatchRepository) FindByMedication(ctx context.Context, medicationID string) ([]domain.Batch, error) {
	return r.queryBatches(ctx,
		`SELECT `+batchColumns+` FROM batches WHERE medication_id = $1 ORDER BY expiry_date`, medicationID)
}

// FindExpired busca os lotes vencidos em relação à data de referência.
func (r *BatchRepository) FindExpired(ctx context.Context, reference time.Time) ([]domain.Batch, error) {
	return r.queryBatches(ctx,
		`SELECT `+batchColumns+` FROM batches WHERE expiry_date < $1 ORDER BY expiry_date`, reference)
}

// FindNearExpiry busca os lotes que vencem dentro da janela de dias informada.
// Lotes já vencidos não entram: "próximo do vencimento" pressupõe ainda válido.
func (r *BatchRepository) FindNearExpiry(ctx context.Context, days int, reference time.Time) ([]domain.Batch, error) {
	limit := reference.AddDate(0, 0, days)
	return r.queryBatches(ctx,
		`SELECT `+batchColumns+` FROM batches WHERE expiry_date >= $1 AND expiry_date <= $2 ORDER BY expiry_date`,
		reference, limit)
}

// Update persiste os campos de um lote existente e atualiza o updated_at.
func (r *BatchRepository) Update(ctx context.Context, batch domain.Batch) (domain.Batch, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	batch.UpdatedAt = time.Now().UTC()

	query := `
        UPDATE batches
        SET code = $1, medication_id = $2, manufacture_date = $3, expiry_date = $4,
            quantity = $5, supplier_id = $6, notes = $7, updated_at = $8
        WHERE id = $9
        RETURNING ` + batchColumns

	updated, err := scanBatch(r.DB.QueryRowContext(ctxTimeout, query,
		batch.Code, batch.MedicationID, batch.ManufactureDate, batch.ExpiryDate,
		batch.Quantity, nullable(batch.SupplierID), nullable(batch.Notes), batch.UpdatedAt, batch.ID,
	))
	if err == sql.ErrNoRows {
		return domain.Batch{}, errors.NewNotFoundError(fmt.Sprintf("Lote com ID %s não existe na base de dados.", batch.ID))
	}
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Batch{}, errors.NewConflictError(fmt.Sprintf("Já existe um lote com o código '%s'.", batch.Code))
		}
		r.logger.Error("Falha ao atualizar lote no DB.", err)
		return domain.Batch{}, errors.NewDBError("Falha ao atualizar lote", err)
	}

	return updated, nil
}

// Delete remove um lote pelo ID.
func (r *BatchRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM batches WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao deletar lote no DB.", err)
		return errors.NewDBError("Falha ao deletar lote", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Lote com ID %s não existe na base de dados.", id))
	}

	r.logger.Info("Lote removido do repositório.", map[string]interface{}{"id": id})
	return nil
}

// queryBatches executa uma consulta que retorna múltiplos lotes.
func (r *BatchRepository) queryBatches(ctx context.Context, query string, args ...interface{}) ([]domain.Batch, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao buscar lotes no DB.", err)
		return nil, errors.NewDBError("Falha ao buscar lotes", err)
	}
	defer rows.Close()

	batches := []domain.Batch{}
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, errors.NewDBError("Falha ao mapear lote", err)
		}
		batches = append(batches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar lotes", err)
	}

	return batches, nil
}
