package doctorrepo

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

// DoctorRepository implementa as operações de persistência de médicos.
type DoctorRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewDoctorRepository cria e retorna uma nova instância do Repositório de Médicos.
func NewDoctorRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *DoctorRepository {
	return &DoctorRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

const doctorColumns = "id, name, crm, specialty, created_at, updated_at"

// scanDoctor mapeia uma linha do DB para a struct domain.Doctor.
// crm e specialty são colunas anuláveis.
func scanDoctor(row interface{ Scan(...interface{}) error }) (domain.Doctor, error) {
	var d domain.Doctor
	var crm, specialty sql.NullString
	err := row.Scan(&d.ID, &d.Name, &crm, &specialty, &d.CreatedAt, &d.UpdatedAt)
	d.CRM = crm.String
	d.Specialty = specialty.String
	return d, err
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Create insere um novo médico no banco de dados.
func (r *DoctorRepository) Create(ctx context.Context, doctor domain.Doctor) (domain.Doctor, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if doctor.ID == "" {
		doctor.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	doctor.CreatedAt = now
	doctor.UpdatedAt = now

	query := `
        INSERT INTO doctors (id, name, crm, specialty, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING ` + doctorColumns

	created, err := scanDoctor(r.DB.QueryRowContext(ctxTimeout, query,
		doctor.ID, doctor.Name, nullable(doctor.CRM), nullable(doctor.Specialty),
		doctor.CreatedAt, doctor.UpdatedAt,
	))
	if err != nil {
		r.logger.Error("Falha ao inserir médico no DB.", err)
		return domain.Doctor{}, errors.NewDBError("Falha ao criar médico", err)
	}

	r.logger.Info("Médico criado no repositório.", map[string]interface{}{"id": created.ID})
	return created, nil
}

// FindAll busca todos os médicos cadastrados.
func (r *DoctorRepository) FindAll(ctx context.Context) ([]domain.Doctor, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, `SELECT `+doctorColumns+` FROM doctors ORDER BY name`)
	if err != nil {
		r.logger.Error("Falha ao buscar médicos no DB.", err)
		return nil, errors.NewDBError("Falha ao buscar médicos", err)
	}
	defer rows.Close()

	doctors := []domain.Doctor{}
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, errors.NewDBError("Falha ao mapear médico", err)
		}
		doctors = append(doctors, d)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar médicos", err)
	}

	return doctors, nil
}

// FindByID busca um médico pelo ID.
func (r *DoctorRepository) FindByID(ctx context.Context, id string) (domain.Doctor, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + doctorColumns + ` FROM doctors WHERE id = $1`

	d, err := scanDoctor(r.DB.QueryRowContext(ctxTimeout, query, id))
	if err == sql.ErrNoRows {
		return domain.Doctor{}, errors.NewNotFoundError(fmt.Sprintf("Médico com ID %s não existe na base de dados.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar médico no DB.", err)
		return domain.Doctor{}, errors.NewDBError("Falha ao buscar médico", err)
	}

	return d, nil
}

// Update persiste os campos de um médico existente e atualiza o updated_at.
func (r *DoctorRepository) Update(ctx context.Context, doctor domain.Doctor) (domain.Doctor, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	doctor.UpdatedAt = time.Now().UTC()

	query := `
        UPDATE doctors
        SET name = $1, crm = $2, specialty = $3, updated_at = $4
        WHERE id = $5
        RETURNING ` + doctorColumns

	updated, err := scanDoctor(r.DB.QueryRowContext(ctxTimeout, query,
		doctor.Name, nullable(doctor.CRM), nullable(doctor.Specialty), doctor.UpdatedAt, doctor.ID,
	))
	if err == sql.ErrNoRows {
		return domain.Doctor{}, errors.NewNotFoundError(fmt.Sprintf("Médico com ID %s não existe na base de dados.", doctor.ID))
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar médico no DB.", err)
		return domain.Doctor{}, errors.NewDBError("Falha ao atualizar médico", err)
	}

	return updated, nil
}

// Delete remove um médico pelo ID.
func (r *DoctorRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM doctors WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao deletar médico no DB.", err)
		return errors.NewDBError("Falha ao deletar médico", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Médico com ID %s não existe na base de dados.", id))
	}

	r.logger.Info("Médico removido do repositório.", map[string]interface{}{"id": id})
	return nil
}
