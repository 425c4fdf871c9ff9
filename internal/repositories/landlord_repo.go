package repositories

import (
	"context"
	"time"

	"github.com/BradenHooton/roomgate/internal/database"
	"github.com/BradenHooton/roomgate/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const landlordColumns = `id, first_name, last_name, password, verified, email, phone_number, alternate_phone_number, created_at, updated_at`

type LandlordRepository struct {
	pool *pgxpool.Pool
}

func NewLandlordRepository(db *database.DB) *LandlordRepository {
	return &LandlordRepository{pool: db.Pool}
}

func scanLandlordRow(scanner rowScanner) (*models.Landlord, error) {
	var l models.Landlord
	err := scanner.Scan(
		&l.ID, &l.FirstName, &l.LastName, &l.Password, &l.Verified,
		&l.Contact.Email, &l.Contact.PhoneNumber, &l.Contact.AlternatePhoneNumber,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &l, nil
}

func (r *LandlordRepository) GetByID(ctx context.Context, id string) (*models.Landlord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, models.ErrNotFound
	}
	query := `SELECT ` + landlordColumns + ` FROM landlords WHERE id = $1`
	return scanLandlordRow(r.pool.QueryRow(ctx, query, id))
}

// GetByEmail matches email case-insensitively
func (r *LandlordRepository) GetByEmail(ctx context.Context, email string) (*models.Landlord, error) {
	query := `SELECT ` + landlordColumns + ` FROM landlords WHERE lower(email) = lower($1) LIMIT 1`
	return scanLandlordRow(r.pool.QueryRow(ctx, query, email))
}

func (r *LandlordRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM landlords WHERE lower(email) = lower($1))`, email).Scan(&exists)
	return exists, database.MapPostgresError(err)
}

func (r *LandlordRepository) Create(ctx context.Context, landlord *models.Landlord) (*models.Landlord, error) {
	landlord.ID = uuid.New().String()
	now := time.Now()
	landlord.CreatedAt = now
	landlord.UpdatedAt = now

	query := `
		INSERT INTO landlords (` + landlordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + landlordColumns

	return scanLandlordRow(r.pool.QueryRow(ctx, query,
		landlord.ID, landlord.FirstName, landlord.LastName, landlord.Password, landlord.Verified,
		landlord.Contact.Email, landlord.Contact.PhoneNumber, landlord.Contact.AlternatePhoneNumber,
		landlord.CreatedAt, landlord.UpdatedAt,
	))
}

// Update writes the mutable landlord fields. Password is left untouched.
func (r *LandlordRepository) Update(ctx context.Context, landlord *models.Landlord) (*models.Landlord, error) {
	landlord.UpdatedAt = time.Now()

	query := `
		UPDATE landlords SET first_name = $1, last_name = $2, verified = $3,
			phone_number = $4, alternate_phone_number = $5, updated_at = $6
		WHERE id = $7
		RETURNING ` + landlordColumns

	return scanLandlordRow(r.pool.QueryRow(ctx, query,
		landlord.FirstName, landlord.LastName, landlord.Verified,
		landlord.Contact.PhoneNumber, landlord.Contact.AlternatePhoneNumber, landlord.UpdatedAt,
		landlord.ID,
	))
}
