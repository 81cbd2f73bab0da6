package inventoryrepo

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

// InventoryRepository implementa as operações de persistência das posições de estoque.
type InventoryRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewInventoryRepository cria e retorna uma nova instância do Repositório de Estoque.
func NewInventoryRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *InventoryRepository {
	return &InventoryRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

const inventoryColumns = "id, location, batch_id, quantity, version, created_at, updated_at"

func scanInventory(row interface{ Scan(...interface{}) error }) (domain.Inventory, error) {
	var inv domain.Inventory
	err := row.Scan(&inv.ID, &inv.Location, &inv.BatchID, &inv.Quantity, &inv.Version, &inv.CreatedAt, &inv.UpdatedAt)
	return inv, err
}

// Create insere uma nova posição de estoque no banco de dados.
func (r *InventoryRepository) Create(ctx context.Context, inventory domain.Inventory) (domain.Inventory, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if inventory.ID == "" {
		inventory.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	inventory.CreatedAt = now
	inventory.UpdatedAt = now
	inventory.Version = 1

	query := `
        INSERT INTO inventories (id, location, batch_id, quantity, version, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING ` + inventoryColumns

	created, err := scanInventory(r.DB.QueryRowContext(ctxTimeout, query,
		inventory.ID, inventory.Location, inventory.BatchID, inventory.Quantity,
		inventory.Version, inventory.CreatedAt, inventory.UpdatedAt,
	))
	if err != nil {
		r.logger.Error("Falha ao inserir posição de estoque no DB.", err)
		return domain.Inventory{}, errors.NewDBError("Falha ao criar posição de estoque", err)
	}

	r.logger.Info("Posição de estoque criada no repositório.", map[string]interface{}{"id": created.ID, "location": created.Location})
	return created, nil
}

// FindAll busca todas as posições de estoque.
func (r *InventoryRepository) FindAll(ctx context.Context) ([]domain.Inventory, error) {
	return r.queryInventories(ctx, `SELECT `+inventoryColumns+` FROM inventories ORDER BY location`)
}

// FindByID busca uma posição de estoque pelo ID.
func (r *InventoryRepository) FindByID(ctx context.Context, id string) (domain.Inventory, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + inventoryColumns + ` FROM inventories WHERE id = $1`

	inv, err := scanInventory(r.DB.QueryRowContext(ctxTimeout, query, id))
	if err == sql.ErrNoRows {
		return domain.Inventory{}, errors.NewNotFoundError(fmt.Sprintf("Posição de estoque com ID %s não existe na base de dados.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar posição de estoque no DB.", err)
		return domain.Inventory{}, errors.NewDBError("Falha ao buscar posição de estoque", err)
	}

	return inv, nil
}

// FindByBatch busca as posições de estoque de um lote.
func (r *InventoryRepository) FindByBatch(ctx context.Context, batchID string) ([]domain.Inventory, error) {
	return r.queryInventories(ctx,
		`SELECT `+inventoryColumns+` FROM inventories WHERE batch_id = $1 ORDER BY location`, batchID)
}

// FindByLocation busca posições de estoque cujo local contém o termo informado.
func (r *InventoryRepository) FindByLocation(ctx context.Context, location string) ([]domain.Inventory, error) {
	return r.queryInventories(ctx,
		`SELECT `+inventoryColumns+` FROM inventories WHERE location ILIKE '%' || $1 || '%' ORDER BY location`, location)
}

// CheckAvailability verifica se a posição de estoque possui pelo menos a
// quantidade necessária. Posição inexistente retorna false, não erro.
func (r *InventoryRepository) CheckAvailability(ctx context.Context, id string, needed int) (bool, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var quantity int
	err := r.DB.QueryRowContext(ctxTimeout, `SELECT quantity FROM inventories WHERE id = $1`, id).Scan(&quantity)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		r.logger.Error("Falha ao verificar disponibilidade no DB.", err)
		return false, errors.NewDBError("Falha ao verificar disponibilidade", err)
	}

	return quantity >= needed, nil
}

// AdjustQuantity aplica um ajuste de quantidade dentro de uma única transação,
// com SELECT ... FOR UPDATE e checagem otimista de versão no UPDATE. Isso fecha
// a janela entre a leitura da quantidade e a escrita do novo valor.
//
// Semântica dos modos:
//   - substituir: define a quantidade diretamente, com piso em zero;
//   - adicionar: soma o valor à quantidade atual;
//   - subtrair: remove o valor; falha com InsufficientStockError se o
//     resultado ficaria negativo;
//   - baixa: remove o valor com piso em zero (caminho de conclusão de reserva,
//     cuja disponibilidade já foi validada na criação).
func (r *InventoryRepository) AdjustQuantity(ctx context.Context, id string, amount int, mode domain.AdjustmentMode) (domain.Inventory, error) {
	r.logger.Debug("Iniciando ajuste de quantidade no repositório.", map[string]interface{}{
		"id": id, "amount": amount, "mode": string(mode),
	})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		r.logger.Error("Falha ao iniciar transação de ajuste de estoque.", err)
		return domain.Inventory{}, errors.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback() // Rollback em caso de erro; no-op após o Commit

	// 1. Obter a posição atual, bloqueando a linha na transação.
	querySelect := `SELECT ` + inventoryColumns + ` FROM inventories WHERE id = $1 FOR UPDATE`

	current, err := scanInventory(tx.QueryRowContext(ctxTimeout, querySelect, id))
	if err == sql.ErrNoRows {
		return domain.Inventory{}, errors.NewNotFoundError(fmt.Sprintf("Posição de estoque com ID %s não existe na base de dados.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao selecionar posição de estoque para ajuste.", err)
		return domain.Inventory{}, errors.NewDBError("Falha ao buscar posição de estoque para ajuste", err)
	}

	// 2. Calcular a nova quantidade conforme o modo.
	var newQuantity int
	switch mode {
	case domain.AdjustReplace:
		newQuantity = amount
		if newQuantity < 0 {
			newQuantity = 0
		}
	case domain.AdjustAdd:
		newQuantity = current.Quantity + amount
	case domain.AdjustSubtract:
		newQuantity = current.Quantity - amount
		if newQuantity < 0 {
			return domain.Inventory{}, errors.NewInsufficientStockError(fmt.Sprintf(
				"A posição %s possui %d unidades; impossível subtrair %d.", id, current.Quantity, amount))
		}
	case domain.AdjustConsume:
		newQuantity = current.Quantity - amount
		if newQuantity < 0 {
			newQuantity = 0
		}
	default:
		return domain.Inventory{}, errors.NewValidationError(fmt.Sprintf("Modo de ajuste desconhecido: %s", mode))
	}

	// 3. Atualizar com checagem otimista de versão.
	queryUpdate := `
        UPDATE inventories
        SET quantity = $1, version = $2, updated_at = $3
        WHERE id = $4 AND version = $5`

	now := time.Now().UTC()
	result, err := tx.ExecContext(ctxTimeout, queryUpdate,
		newQuantity, current.Version+1, now, id, current.Version,
	)
	if err != nil {
		r.logger.Error("Falha ao atualizar quantidade da posição de estoque.", err)
		return domain.Inventory{}, errors.NewDBError("Falha ao atualizar quantidade", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return domain.Inventory{}, errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		r.logger.Warn("Conflito de concorrência otimista no ajuste de estoque.", map[string]interface{}{
			"id": id, "expected_version": current.Version,
		})
		return domain.Inventory{}, errors.NewConflictError("O estoque foi modificado por outra operação. Tente novamente.")
	}

	// 4. Commitar a transação.
	if commitErr := tx.Commit(); commitErr != nil {
		r.logger.Error("Falha ao commitar transação de ajuste de estoque.", commitErr)
		return domain.Inventory{}, errors.NewDBError("Falha ao commitar transação", commitErr)
	}

	current.Quantity = newQuantity
	current.Version++
	current.UpdatedAt = now
	r.logger.Info("Quantidade da posição de estoque ajustada.", map[string]interface{}{
		"id": id, "new_quantity": newQuantity, "new_version": current.Version, "mode": string(mode),
	})
	return current, nil
}

// Update persiste local e lote de uma posição de estoque existente.
// A quantidade só é alterada via AdjustQuantity.
func (r *InventoryRepository) Update(ctx context.Context, inventory domain.Inventory) (domain.Inventory, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	inventory.UpdatedAt = time.Now().UTC()

	query := `
        UPDATE inventories
        SET location = $1, batch_id = $2, updated_at = $3
        WHERE id = $4
        RETURNING ` + inventoryColumns

	updated, err := scanInventory(r.DB.QueryRowContext(ctxTimeout, query,
		inventory.Location, inventory.BatchID, inventory.UpdatedAt, inventory.ID,
	))
	if err == sql.ErrNoRows {
		return domain.Inventory{}, errors.NewNotFoundError(fmt.Sprintf("Posição de estoque com ID %s não existe na base de dados.", inventory.ID))
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar posição de estoque no DB.", err)
		return domain.Inventory{}, errors.NewDBError("Falha ao atualizar posição de estoque", err)
	}

	return updated, nil
}

// Delete remove uma posição de estoque pelo ID.
func (r *InventoryRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM inventories WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao deletar posição de estoque no DB.", err)
		return errors.NewDBError("Falha ao deletar posição de estoque", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Posição de estoque com ID %s não existe na base de dados.", id))
	}

	r.logger.Info("Posição de estoque removida do repositório.", map[string]interface{}{"id": id})
	return nil
}

// queryInventories executa uma consulta que retorna múltiplas posições de estoque.
func (r *InventoryRepository) queryInventories(ctx context.Context, query string, args ...interface{}) ([]domain.Inventory, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao buscar posições de estoque no DB.", err)
		return nil, errors.NewDBError("Falha ao buscar posições de estoque", err)
	}
	defer rows.Close()

	inventories := []domain.Inventory{}
	for rows.Next() {
		inv, err := scanInventory(rows)
		if err != nil {
			return nil, errors.NewDBError("Falha ao mapear posição de estoque", err)
		}
		inventories = append(inventories, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar posições de estoque", err)
	}

	return inventories, nil
}
