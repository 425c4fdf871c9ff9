package repositories

import (
	"context"
	"time"

	"github.com/BradenHooton/roomgate/internal/database"
	"github.com/BradenHooton/roomgate/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const studentColumns = `id, first_name, last_name, password, email, phone_number, alternate_phone_number, created_at, updated_at`

type StudentRepository struct {
	pool *pgxpool.Pool
}

func NewStudentRepository(db *database.DB) *StudentRepository {
	return &StudentRepository{pool: db.Pool}
}

func scanStudentRow(scanner rowScanner) (*models.Student, error) {
	var s models.Student
	err := scanner.Scan(
		&s.ID, &s.FirstName, &s.LastName, &s.Password,
		&s.Contact.Email, &s.Contact.PhoneNumber, &s.Contact.AlternatePhoneNumber,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &s, nil
}

func (r *StudentRepository) GetByID(ctx context.Context, id string) (*models.Student, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, models.ErrNotFound
	}
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`
	return scanStudentRow(r.pool.QueryRow(ctx, query, id))
}

// GetByEmail matches email case-insensitively
func (r *StudentRepository) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE lower(email) = lower($1) LIMIT 1`
	return scanStudentRow(r.pool.QueryRow(ctx, query, email))
}

func (r *StudentRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM students WHERE lower(email) = lower($1))`, email).Scan(&exists)
	return exists, database.MapPostgresError(err)
}

func (r *StudentRepository) Create(ctx context.Context, student *models.Student) (*models.Student, error) {
	student.ID = uuid.New().String()
	now := time.Now()
	student.CreatedAt = now
	student.UpdatedAt = now

	query := `
		INSERT INTO students (` + studentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + studentColumns

	return scanStudentRow(r.pool.QueryRow(ctx, query,
		student.ID, student.FirstName, student.LastName, student.Password,
		student.Contact.Email, student.Contact.PhoneNumber, student.Contact.AlternatePhoneNumber,
		student.CreatedAt, student.UpdatedAt,
	))
}
