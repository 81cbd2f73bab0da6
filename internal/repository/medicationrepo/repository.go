package medicationrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"farmastock/internal/domain"
	"farmastock/internal/errors"
	"farmastock/internal/pkg/cache"
	"farmastock/internal/pkg/logger"
)

// Chave de cache para medicamentos (estratégia Cache-Aside).
const medicationCacheKey = "medication:%s"

// MedicationRepository implementa as operações de persistência de medicamentos.
// O catálogo de medicamentos é o caminho de leitura mais quente da API, então
// FindByID usa o Redis como cache-aside; escritas invalidam a chave.
type MedicationRepository struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	CacheTTL  time.Duration
	logger    logger.Logger
}

// NewMedicationRepository cria e retorna uma nova instância do Repositório de Medicamentos.
func NewMedicationRepository(db *sql.DB, cacheClient cache.Client, dbTimeout, cacheTTL time.Duration, logger logger.Logger) *MedicationRepository {
	return &MedicationRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		CacheTTL:  cacheTTL,
		logger:    logger,
	}
}

const medicationColumns = "id, name, supplier_id, tarja, created_at, updated_at"

func scanMedication(row interface{ Scan(...interface{}) error }) (domain.Medication, error) {
	var m domain.Medication
	err := row.Scan(&m.ID, &m.Name, &m.SupplierID, &m.Tarja, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

// Create insere um novo medicamento no banco de dados.
func (r *MedicationRepository) Create(ctx context.Context, medication domain.Medication) (domain.Medication, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if medication.ID == "" {
		medication.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	medication.CreatedAt = now
	medication.UpdatedAt = now

	query := `
        INSERT INTO medications (id, name, supplier_id, tarja, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING ` + medicationColumns

	created, err := scanMedication(r.DB.QueryRowContext(ctxTimeout, query,
		medication.ID, medication.Name, medication.SupplierID, medication.Tarja,
		medication.CreatedAt, medication.UpdatedAt,
	))
	if err != nil {
		r.logger.Error("Falha ao inserir medicamento no DB.", err)
		return domain.Medication{}, errors.NewDBError("Falha ao criar medicamento", err)
	}

	r.logger.Info("Medicamento criado no repositório.", map[string]interface{}{"id": created.ID, "name": created.Name})
	return created, nil
}

// FindAll busca todos os medicamentos cadastrados.
func (r *MedicationRepository) FindAll(ctx context.Context) ([]domain.Medication, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, `SELECT `+medicationColumns+` FROM medications ORDER BY name`)
	if err != nil {
		r.logger.Error("Falha ao buscar medicamentos no DB.", err)
		return nil, errors.NewDBError("Falha ao buscar medicamentos", err)
	}
	defer rows.Close()

	medications := []domain.Medication{}
	for rows.Next() {
		m, err := scanMedication(rows)
		if err != nil {
			return nil, errors.NewDBError("Falha ao mapear medicamento", err)
		}
		medications = append(medications, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar medicamentos", err)
	}

	return medications, nil
}

// FindByID busca um medicamento pelo ID, utilizando a estratégia Cache-Aside.
func (r *MedicationRepository) FindByID(ctx context.Context, id string) (domain.Medication, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	key := fmt.Sprintf(medicationCacheKey, id)
	var medication domain.Medication

	// 1. Tentar obter do Cache (Redis)
	cachedData, err := r.Cache.Get(ctxTimeout, key)
	if err == nil {
		// Cache HIT
		if json.Unmarshal([]byte(cachedData), &medication) == nil {
			return medication, nil
		}
		// Se a desserialização falhar, seguimos para o DB.
	} else if err != cache.ErrCacheMiss {
		// Erro real de cache (conexão perdida, etc.): seguimos para o DB.
		r.logger.Warn("Falha ao ler medicamento do cache Redis.", map[string]interface{}{"id": id, "error": err.Error()})
	}

	// 2. Busca no Banco de Dados (PostgreSQL)
	query := `SELECT ` + medicationColumns + ` FROM medications WHERE id = $1`

	medication, err = scanMedication(r.DB.QueryRowContext(ctxTimeout, query, id))
	if err == sql.ErrNoRows {
		return domain.Medication{}, errors.NewNotFoundError(fmt.Sprintf("Medicamento com ID %s não existe na base de dados.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar medicamento no DB.", err)
		return domain.Medication{}, errors.NewDBError("Falha ao buscar medicamento", err)
	}

	// 3. Popula o cache para futuras requisições (write da estratégia Cache-Aside).
	if medicationJSON, marshalErr := json.Marshal(medication); marshalErr == nil {
		r.Cache.Set(ctxTimeout, key, medicationJSON, r.CacheTTL)
	}

	return medication, nil
}

// FindBySupplier busca os medicamentos de um fornecedor.
func (r *MedicationRepository) FindBySupplier(ctx context.Context, supplierID string) ([]domain.Medication, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + medicationColumns + ` FROM medications WHERE supplier_id = $1 ORDER BY name`

	rows, err := r.DB.QueryContext(ctxTimeout, query, supplierID)
	if err != nil {
		r.logger.Error("Falha ao buscar medicamentos por fornecedor no DB.", err)
		return nil, errors.NewDBError("Falha ao buscar medicamentos por fornecedor", err)
	}
	defer rows.Close()

	medications := []domain.Medication{}
	for rows.Next() {
		m, err := scanMedication(rows)
		if err != nil {
			return nil, errors.NewDBError("Falha ao mapear medicamento", err)
		}
		medications = append(medications, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar medicamentos", err)
	}

	return medications, nil
}

// Update persiste os campos de um medicamento existente e invalida o cache.
func (r *MedicationRepository) Update(ctx context.Context, medication domain.Medication) (domain.Medication, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	medication.UpdatedAt = time.Now().UTC()

	query := `
        UPDATE medications
        SET name = $1, supplier_id = $2, tarja = $3, updated_at = $4
        WHERE id = $5
        RETURNING ` + medicationColumns

	updated, err := scanMedication(r.DB.QueryRowContext(ctxTimeout, query,
		medication.Name, medication.SupplierID, medication.Tarja, medication.UpdatedAt, medication.ID,
	))
	if err == sql.ErrNoRows {
		return domain.Medication{}, errors.NewNotFoundError(fmt.Sprintf("Medicamento com ID %s não existe na base de dados.", medication.ID))
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar medicamento no DB.", err)
		return domain.Medication{}, errors.NewDBError("Falha ao atualizar medicamento", err)
	}

	// Invalida a entrada de cache; a próxima leitura repopula.
	r.Cache.Delete(ctxTimeout, fmt.Sprintf(medicationCacheKey, medication.ID))

	return updated, nil
}

// Delete remove um medicamento pelo ID e invalida o cache.
func (r *MedicationRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM medications WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao deletar medicamento no DB.", err)
		return errors.NewDBError("Falha ao deletar medicamento", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Medicamento com ID %s não existe na base de dados.", id))
	}

	r.Cache.Delete(ctxTimeout, fmt.Sprintf(medicationCacheKey, id))

	r.logger.Info("Medicamento removido do repositório.", map[string]interface{}{"id": id})
	return nil
}
