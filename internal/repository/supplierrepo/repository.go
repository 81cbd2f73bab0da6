package supplierrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"farmastock/internal/domain"
	"farmastock/internal/errors"
	"farmastock/internal/pkg/logger"
)

// SupplierRepository implementa as operações de persistência de fornecedores.
type SupplierRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewSupplierRepository cria e retorna uma nova instância do Repositório de Fornecedores.
func NewSupplierRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *SupplierRepository {
	return &SupplierRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

const supplierColumns = "id, name, status, phone, created_at, updated_at"

// scanSupplier mapeia uma linha do DB para a struct domain.Supplier.
func scanSupplier(row interface{ Scan(...interface{}) error }) (domain.Supplier, error) {
	var s domain.Supplier
	err := row.Scan(&s.ID, &s.Name, &s.Status, &s.Phone, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// Create insere um novo fornecedor no banco de dados.
func (r *SupplierRepository) Create(ctx context.Context, supplier domain.Supplier) (domain.Supplier, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if supplier.ID == "" {
		supplier.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	supplier.CreatedAt = now
	supplier.UpdatedAt = now

	query := `
        INSERT INTO suppliers (id, name, status, phone, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING ` + supplierColumns

	created, err := scanSupplier(r.DB.QueryRowContext(ctxTimeout, query,
		supplier.ID, supplier.Name, supplier.Status, supplier.Phone, supplier.CreatedAt, supplier.UpdatedAt,
	))
	if err != nil {
		r.logger.Error("Falha ao inserir fornecedor no DB.", err)
		return domain.Supplier{}, errors.NewDBError("Falha ao criar fornecedor", err)
	}

	r.logger.Info("Fornecedor criado no repositório.", map[string]interface{}{"id": created.ID, "name": created.Name})
	return created, nil
}

// FindAll busca todos os fornecedores cadastrados.
func (r *SupplierRepository) FindAll(ctx context.Context) ([]domain.Supplier, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + supplierColumns + ` FROM suppliers ORDER BY name`

	rows, err := r.DB.QueryContext(ctxTimeout, query)
	if err != nil {
		r.logger.Error("Falha ao buscar fornecedores no DB.", err)
		return nil, errors.NewDBError("Falha ao buscar fornecedores", err)
	}
	defer rows.Close()

	suppliers := []domain.Supplier{}
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, errors.NewDBError("Falha ao mapear fornecedor", err)
		}
		suppliers = append(suppliers, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar fornecedores", err)
	}

	return suppliers, nil
}

// FindByID busca um fornecedor pelo ID.
func (r *SupplierRepository) FindByID(ctx context.Context, id string) (domain.Supplier, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE id = $1`

	s, err := scanSupplier(r.DB.QueryRowContext(ctxTimeout, query, id))
	if err == sql.ErrNoRows {
		return domain.Supplier{}, errors.NewNotFoundError(fmt.Sprintf("Fornecedor com ID %s não existe na base de dados.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar fornecedor no DB.", err)
		return domain.Supplier{}, errors.NewDBError("Falha ao buscar fornecedor", err)
	}

	return s, nil
}

// FindByName busca fornecedores cujo nome contém o termo informado (case-insensitive).
func (r *SupplierRepository) FindByName(ctx context.Context, name string) ([]domain.Supplier, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE name ILIKE '%' || $1 || '%' ORDER BY name`

	rows, err := r.DB.QueryContext(ctxTimeout, query, name)
	if err != nil {
		r.logger.Error("Falha ao buscar fornecedores por nome no DB.", err)
		return nil, errors.NewDBError("Falha ao buscar fornecedores por nome", err)
	}
	defer rows.Close()

	suppliers := []domain.Supplier{}
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, errors.NewDBError("Falha ao mapear fornecedor", err)
		}
		suppliers = append(suppliers, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar fornecedores", err)
	}

	return suppliers, nil
}

// Update persiste os campos de um fornecedor existente e atualiza o updated_at.
func (r *SupplierRepository) Update(ctx context.Context, supplier domain.Supplier) (domain.Supplier, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	supplier.UpdatedAt = time.Now().UTC()

	query := `
        UPDATE suppliers
        SET name = $1, status = $2, phone = $3, updated_at = $4
        WHERE id = $5
        RETURNING ` + supplierColumns

	updated, err := scanSupplier(r.DB.QueryRowContext(ctxTimeout, query,
		supplier.Name, supplier.Status, supplier.Phone, supplier.UpdatedAt, supplier.ID,
	))
	if err == sql.ErrNoRows {
		return domain.Supplier{}, errors.NewNotFoundError(fmt.Sprintf("Fornecedor com ID %s não existe na base de dados.", supplier.ID))
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar fornecedor no DB.", err)
		return domain.Supplier{}, errors.NewDBError("Falha ao atualizar fornecedor", err)
	}

	return updated, nil
}

// Delete remove um fornecedor pelo ID.
func (r *SupplierRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao deletar fornecedor no DB.", err)
		return errors.NewDBError("Falha ao deletar fornecedor", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Fornecedor com ID %s não existe na base de dados.", id))
	}

	r.logger.Info("Fornecedor removido do repositório.", map[string]interface{}{"id": id})
	return nil
}
