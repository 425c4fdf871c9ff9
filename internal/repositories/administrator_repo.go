package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/BradenHooton/roomgate/internal/database"
	"github.com/BradenHooton/roomgate/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const administratorColumns = `id, name, surname, password, role_status, is_super_admin, email, phone_number, alternate_phone_number, created_at, updated_at`

const insertAdministratorQuery = `
	INSERT INTO administrators (` + administratorColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	RETURNING ` + administratorColumns

type AdministratorRepository struct {
	db *database.DB
}

func NewAdministratorRepository(db *database.DB) *AdministratorRepository {
	return &AdministratorRepository{db: db}
}

func scanAdministratorRow(scanner rowScanner) (*models.Administrator, error) {
	var a models.Administrator
	var status string
	err := scanner.Scan(
		&a.ID, &a.Name, &a.Surname, &a.Password, &status, &a.SuperAdmin,
		&a.Contact.Email, &a.Contact.PhoneNumber, &a.Contact.AlternatePhoneNumber,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	a.RoleStatus = models.AdminRoleStatus(status)
	return &a, nil
}

func (r *AdministratorRepository) GetByID(ctx context.Context, id string) (*models.Administrator, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, models.ErrNotFound
	}
	query := `SELECT ` + administratorColumns + ` FROM administrators WHERE id = $1`
	return scanAdministratorRow(r.db.Pool.QueryRow(ctx, query, id))
}

// GetByEmail matches email case-insensitively
func (r *AdministratorRepository) GetByEmail(ctx context.Context, email string) (*models.Administrator, error) {
	query := `SELECT ` + administratorColumns + ` FROM administrators WHERE lower(email) = lower($1) LIMIT 1`
	return scanAdministratorRow(r.db.Pool.QueryRow(ctx, query, email))
}

func (r *AdministratorRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM administrators WHERE lower(email) = lower($1))`, email).Scan(&exists)
	return exists, database.MapPostgresError(err)
}

func (r *AdministratorRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM administrators`).Scan(&count)
	return count, database.MapPostgresError(err)
}

func (r *AdministratorRepository) ListByStatus(ctx context.Context, status models.AdminRoleStatus) ([]*models.Administrator, error) {
	query := `SELECT ` + administratorColumns + ` FROM administrators WHERE role_status = $1 ORDER BY created_at`

	rows, err := r.db.Pool.Query(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to query administrators: %w", err)
	}

	return scanRows(rows, scanAdministratorRow)
}

func (r *AdministratorRepository) Create(ctx context.Context, admin *models.Administrator) (*models.Administrator, error) {
	return scanAdministratorRow(r.db.Pool.QueryRow(ctx, insertAdministratorQuery, prepareAdministratorInsert(admin)...))
}

// CreateFirst inserts admin only while the table is empty. The table lock
// serializes concurrent bootstrap attempts; losers get models.ErrBootstrapClosed.
func (r *AdministratorRepository) CreateFirst(ctx context.Context, admin *models.Administrator) (*models.Administrator, error) {
	args := prepareAdministratorInsert(admin)

	var created *models.Administrator
	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `LOCK TABLE administrators IN SHARE ROW EXCLUSIVE MODE`); err != nil {
			return err
		}

		var count int64
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM administrators`).Scan(&count); err != nil {
			return err
		}
		if count > 0 {
			return models.ErrBootstrapClosed
		}

		var err error
		created, err = scanAdministratorRow(tx.QueryRow(ctx, insertAdministratorQuery, args...))
		return err
	})
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return created, nil
}

// Update writes lifecycle fields and contact numbers. Email and password are immutable here.
func (r *AdministratorRepository) Update(ctx context.Context, admin *models.Administrator) (*models.Administrator, error) {
	admin.UpdatedAt = time.Now()

	query := `
		UPDATE administrators SET name = $1, surname = $2, role_status = $3, is_super_admin = $4,
			phone_number = $5, alternate_phone_number = $6, updated_at = $7
		WHERE id = $8
		RETURNING ` + administratorColumns

	return scanAdministratorRow(r.db.Pool.QueryRow(ctx, query,
		admin.Name, admin.Surname, string(admin.RoleStatus), admin.SuperAdmin,
		admin.Contact.PhoneNumber, admin.Contact.AlternatePhoneNumber, admin.UpdatedAt,
		admin.ID,
	))
}

func prepareAdministratorInsert(admin *models.Administrator) []interface{} {
	admin.ID = uuid.New().String()
	now := time.Now()
	admin.CreatedAt = now
	admin.UpdatedAt = now

	if admin.RoleStatus == "" {
		admin.RoleStatus = models.AdminInactive
	}

	return []interface{}{
		admin.ID, admin.Name, admin.Surname, admin.Password, string(admin.RoleStatus), admin.SuperAdmin,
		admin.Contact.Email, admin.Contact.PhoneNumber, admin.Contact.AlternatePhoneNumber,
		admin.CreatedAt, admin.UpdatedAt,
	}
}
