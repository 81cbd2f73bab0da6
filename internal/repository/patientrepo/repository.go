package patientrepo

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

// PatientRepository implementa as operações de persistência de pacientes.
type PatientRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewPatientRepository cria e retorna uma nova instância do Repositório de Pacientes.
func NewPatientRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *PatientRepository {
	return &PatientRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

const patientColumns = "id, name, document, birth_date, created_at, updated_at"

// scanPatient mapeia uma linha do DB para a struct domain.Patient.
// document e birth_date são colunas anuláveis.
func scanPatient(row interface{ Scan(...interface{}) error }) (domain.Patient, error) {
	var p domain.Patient
	var document sql.NullString
	var birthDate sql.NullTime
	err := row.Scan(&p.ID, &p.Name, &document, &birthDate, &p.CreatedAt, &p.UpdatedAt)
	p.Document = document.String
	p.BirthDate = birthDate.Time
	return p, err
}

// Create insere um novo paciente no banco de dados.
func (r *PatientRepository) Create(ctx context.Context, patient domain.Patient) (domain.Patient, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if patient.ID == "" {
		patient.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	patient.CreatedAt = now
	patient.UpdatedAt = now

	query := `
        INSERT INTO patients (id, name, document, birth_date, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING ` + patientColumns

	document := sql.NullString{String: patient.Document, Valid: patient.Document != ""}
	birthDate := sql.NullTime{Time: patient.BirthDate, Valid: !patient.BirthDate.IsZero()}

	created, err := scanPatient(r.DB.QueryRowContext(ctxTimeout, query,
		patient.ID, patient.Name, document, birthDate, patient.CreatedAt, patient.UpdatedAt,
	))
	if err != nil {
		r.logger.Error("Falha ao inserir paciente no DB.", err)
		return domain.Patient{}, errors.NewDBError("Falha ao criar paciente", err)
	}

	r.logger.Info("Paciente criado no repositório.", map[string]interface{}{"id": created.ID})
	return created, nil
}

// FindAll busca todos os pacientes cadastrados.
func (r *PatientRepository) FindAll(ctx context.Context) ([]domain.Patient, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, `SELECT `+patientColumns+` FROM patients ORDER BY name`)
	if err != nil {
		r.logger.Error("Falha ao buscar pacientes no DB.", err)
		return nil, errors.NewDBError("Falha ao buscar pacientes", err)
	}
	defer rows.Close()

	patients := []domain.Patient{}
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, errors.NewDBError("Falha ao mapear paciente", err)
		}
		patients = append(patients, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar pacientes", err)
	}

	return patients, nil
}

// FindByID busca um paciente pelo ID.
func (r *PatientRepository) FindByID(ctx context.Context, id string) (domain.Patient, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1`

	p, err := scanPatient(r.DB.QueryRowContext(ctxTimeout, query, id))
	if err == sql.ErrNoRows {
		return domain.Patient{}, errors.NewNotFoundError(fmt.Sprintf("Paciente com ID %s não existe na base de dados.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar paciente no DB.", err)
		return domain.Patient{}, errors.NewDBError("Falha ao buscar paciente", err)
	}

	return p, nil
}

// Update persiste os campos de um paciente existente e atualiza o updated_at.
func (r *PatientRepository) Update(ctx context.Context, patient domain.Patient) (domain.Patient, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	patient.UpdatedAt = time.Now().UTC()

	query := `
        UPDATE patients
        SET name = $1, document = $2, birth_date = $3, updated_at = $4
        WHERE id = $5
        RETURNING ` + patientColumns

	document := sql.NullString{String: patient.Document, Valid: patient.Document != ""}
	birthDate := sql.NullTime{Time: patient.BirthDate, Valid: !patient.BirthDate.IsZero()}

	updated, err := scanPatient(r.DB.QueryRowContext(ctxTimeout, query,
		patient.Name, document, birthDate, patient.UpdatedAt, patient.ID,
	))
	if err == sql.ErrNoRows {
		return domain.Patient{}, errors.NewNotFoundError(fmt.Sprintf("Paciente com ID %s não existe na base de dados.", patient.ID))
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar paciente no DB.", err)
		return domain.Patient{}, errors.NewDBError("Falha ao atualizar paciente", err)
	}

	return updated, nil
}

// Delete remove um paciente pelo ID.
func (r *PatientRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao deletar paciente no DB.", err)
		return errors.NewDBError("Falha ao deletar paciente", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Paciente com ID %s não existe na base de dados.", id))
	}

	r.logger.Info("Paciente removido do repositório.", map[string]interface{}{"id": id})
	return nil
}
