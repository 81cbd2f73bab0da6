package stockcontrolrepo

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

// StockControlRepository implementa as operações de persistência das
// solicitações de medicamento (registros de controle de estoque).
type StockControlRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewStockControlRepository cria e retorna uma nova instância do Repositório de Controle de Estoque.
func NewStockControlRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *StockControlRepository {
	return &StockControlRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

const controlColumns = "id, doctor_id, patient_id, inventory_id, quantity, status, created_at, updated_at"

func scanControl(row interface{ Scan(...interface{}) error }) (domain.StockControl, error) {
	var sc domain.StockControl
	err := row.Scan(&sc.ID, &sc.DoctorID, &sc.PatientID, &sc.InventoryID, &sc.Quantity, &sc.Status, &sc.CreatedAt, &sc.UpdatedAt)
	return sc, err
}

// Create insere uma nova solicitação de medicamento no banco de dados.
func (r *StockControlRepository) Create(ctx context.Context, control domain.StockControl) (domain.StockControl, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if control.ID == "" {
		control.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	control.CreatedAt = now
	control.UpdatedAt = now

	query := `
        INSERT INTO stock_controls (id, doctor_id, patient_id, inventory_id, quantity, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING ` + controlColumns

	created, err := scanControl(r.DB.QueryRowContext(ctxTimeout, query,
		control.ID, control.DoctorID, control.PatientID, control.InventoryID,
		control.Quantity, control.Status, control.CreatedAt, control.UpdatedAt,
	))
	if err != nil {
		r.logger.Error("Falha ao inserir solicitação no DB.", err)
		return domain.StockControl{}, errors.NewDBError("Falha ao criar solicitação", err)
	}

	r.logger.Info("Solicitação criada no repositório.", map[string]interface{}{
		"id": created.ID, "inventory_id": created.InventoryID, "quantity": created.Quantity,
	})
	return created, nil
}

// FindAll busca todas as solicitações cadastradas.
func (r *StockControlRepository) FindAll(ctx context.Context) ([]domain.StockControl, error) {
	return r.queryControls(ctx, `SELECT `+controlColumns+` FROM stock_controls ORDER BY created_at DESC`)
}

// FindByID busca uma solicitação pelo ID.
func (r *StockControlRepository) FindByID(ctx context.Context, id string) (domain.StockControl, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + controlColumns + ` FROM stock_controls WHERE id = $1`

	sc, err := scanControl(r.DB.QueryRowContext(ctxTimeout, query, id))
	if err == sql.ErrNoRows {
		return domain.StockControl{}, errors.NewNotFoundError(fmt.Sprintf("Solicitação com ID %s não existe na base de dados.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar solicitação no DB.", err)
		return domain.StockControl{}, errors.NewDBError("Falha ao buscar solicitação", err)
	}

	return sc, nil
}

// FindByDoctor busca as solicitações feitas por um médico.
func (r *StockControlRepository) FindByDoctor(ctx context.Context, doctorID string) ([]domain.StockControl, error) {
	return r.queryControls(ctx,
		`SELECT `+controlColumns+` FROM stock_controls WHERE doctor_id = $1 ORDER BY created_at DESC`, doctorID)
}

// FindByPatient busca as solicitações em nome de um paciente.
func (r *StockControlRepository) FindByPatient(ctx context.Context, patientID string) ([]domain.StockControl, error) {
	return r.queryControls(ctx,
		`SELECT `+controlColumns+` FROM stock_controls WHERE patient_id = $1 ORDER BY created_at DESC`, patientID)
}

// FindByInventory busca as solicitações contra uma posição de estoque.
func (r *StockControlRepository) FindByInventory(ctx context.Context, inventoryID string) ([]domain.StockControl, error) {
	return r.queryControls(ctx,
		`SELECT `+controlColumns+` FROM stock_controls WHERE inventory_id = $1 ORDER BY created_at DESC`, inventoryID)
}

// FindByStatus busca as solicitações com o status informado.
func (r *StockControlRepository) FindByStatus(ctx context.Context, status domain.ControlStatus) ([]domain.StockControl, error) {
	return r.queryControls(ctx,
		`SELECT `+controlColumns+` FROM stock_controls WHERE status = $1 ORDER BY created_at DESC`, status)
}

// UpdateStatus persiste a transição de status de uma solicitação.
// A validação da transição é responsabilidade do serviço.
func (r *StockControlRepository) UpdateStatus(ctx context.Context, id string, status domain.ControlStatus) (domain.StockControl, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        UPDATE stock_controls
        SET status = $1, updated_at = $2
        WHERE id = $3
        RETURNING ` + controlColumns

	sc, err := scanControl(r.DB.QueryRowContext(ctxTimeout, query, status, time.Now().UTC(), id))
	if err == sql.ErrNoRows {
		return domain.StockControl{}, errors.NewNotFoundError(fmt.Sprintf("Solicitação com ID %s não existe na base de dados.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar status da solicitação no DB.", err)
		return domain.StockControl{}, errors.NewDBError("Falha ao atualizar status da solicitação", err)
	}

	r.logger.Info("Status da solicitação atualizado no repositório.", map[string]interface{}{
		"id": id, "status": string(status),
	})
	return sc, nil
}

// Update persiste os campos mutáveis de uma solicitação existente.
// O status só é alterado via UpdateStatus.
func (r *StockControlRepository) Update(ctx context.Context, control domain.StockControl) (domain.StockControl, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	control.UpdatedAt = time.Now().UTC()

	query := `
        UPDATE stock_controls
        SET doctor_id = $1, patient_id = $2, inventory_id = $3, quantity = $4, updated_at = $5
        WHERE id = $6
        RETURNING ` + controlColumns

	updated, err := scanControl(r.DB.QueryRowContext(ctxTimeout, query,
		control.DoctorID, control.PatientID, control.InventoryID, control.Quantity,
		control.UpdatedAt, control.ID,
	))
	if err == sql.ErrNoRows {
		return domain.StockControl{}, errors.NewNotFoundError(fmt.Sprintf("Solicitação com ID %s não existe na base de dados.", control.ID))
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar solicitação no DB.", err)
		return domain.StockControl{}, errors.NewDBError("Falha ao atualizar solicitação", err)
	}

	return updated, nil
}

// Delete remove uma solicitação pelo ID.
func (r *StockControlRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM stock_controls WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao deletar solicitação no DB.", err)
		return errors.NewDBError("Falha ao deletar solicitação", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Solicitação com ID %s não existe na base de dados.", id))
	}

	r.logger.Info("Solicitação removida do repositório.", map[string]interface{}{"id": id})
	return nil
}

// CountByStatus conta as solicitações criadas no intervalo fechado
// [start, end], agrupadas por status. Status sem registros não aparecem no
// mapa retornado; o serviço preenche os zeros.
func (r *StockControlRepository) CountByStatus(ctx context.Context, start, end time.Time) (map[domain.ControlStatus]int, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT status, COUNT(*)
        FROM stock_controls
        WHERE created_at >= $1 AND created_at <= $2
        GROUP BY status`

	rows, err := r.DB.QueryContext(ctxTimeout, query, start, end)
	if err != nil {
		r.logger.Error("Falha ao contar solicitações por status no DB.", err)
		return nil, errors.NewDBError("Falha ao gerar relatório de solicitações", err)
	}
	defer rows.Close()

	counts := map[domain.ControlStatus]int{}
	for rows.Next() {
		var status domain.ControlStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, errors.NewDBError("Falha ao mapear contagem de solicitações", err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar contagens de solicitações", err)
	}

	return counts, nil
}

// queryControls executa uma consulta que retorna múltiplas solicitações.
func (r *StockControlRepository) queryControls(ctx context.Context, query string, args ...interface{}) ([]domain.StockControl, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao buscar solicitações no DB.", err)
		return nil, errors.NewDBError("Falha ao buscar solicitações", err)
	}
	defer rows.Close()

	controls := []domain.StockControl{}
	for rows.Next() {
		sc, err := scanControl(rows)
		if err != nil {
			return nil, errors.NewDBError("Falha ao mapear solicitação", err)
		}
		controls = append(controls, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar solicitações", err)
	}

	return controls, nil
}
