package repositories

import (
	"context"
	"time"

	"github.com/BradenHooton/roomgate/internal/database"
	"github.com/BradenHooton/roomgate/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const verificationColumns = `id, accommodation_id, administrator_id, status, notes, verification_date, created_at, updated_at`

// VerificationRepository stores listing verifications
type VerificationRepository struct {
	pool *pgxpool.Pool
}

func NewVerificationRepository(db *database.DB) *VerificationRepository {
	return &VerificationRepository{pool: db.Pool}
}

func scanVerificationRow(scanner rowScanner) (*models.Verification, error) {
	var v models.Verification
	var status string
	err := scanner.Scan(
		&v.ID, &v.AccommodationID, &v.AdministratorID, &status, &v.Notes,
		&v.VerificationDate, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	v.Status = models.VerificationStatus(status)
	return &v, nil
}

func (r *VerificationRepository) GetByID(ctx context.Context, id string) (*models.Verification, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, models.ErrNotFound
	}
	query := `SELECT ` + verificationColumns + ` FROM verifications WHERE id = $1`
	return scanVerificationRow(r.pool.QueryRow(ctx, query, id))
}

func (r *VerificationRepository) Create(ctx context.Context, v *models.Verification) (*models.Verification, error) {
	v.ID = uuid.New().String()
	now := time.Now()
	v.CreatedAt = &now
	v.UpdatedAt = now
	if v.Status == "" {
		v.Status = models.VerificationPending
	}

	query := `
		INSERT INTO verifications (` + verificationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + verificationColumns

	return scanVerificationRow(r.pool.QueryRow(ctx, query,
		v.ID, v.AccommodationID, v.AdministratorID, string(v.Status), v.Notes,
		v.VerificationDate, v.CreatedAt, v.UpdatedAt,
	))
}

func (r *VerificationRepository) Update(ctx context.Context, v *models.Verification) (*models.Verification, error) {
	query := `
		UPDATE verifications SET administrator_id = $1, status = $2, notes = $3,
			verification_date = $4, created_at = $5, updated_at = $6
		WHERE id = $7
		RETURNING ` + verificationColumns

	return scanVerificationRow(r.pool.QueryRow(ctx, query,
		v.AdministratorID, string(v.Status), v.Notes,
		v.VerificationDate, v.CreatedAt, v.UpdatedAt,
		v.ID,
	))
}
