//go:build integration

package repositories

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/BradenHooton/roomgate/internal/database"
	"github.com/BradenHooton/roomgate/internal/models"
)

var testDB *database.DB

func TestMain(m *testing.M) {
	ctx := context.Background()

	container, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("roomgate"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start postgres container: %v\n", err)
		os.Exit(1)
	}

	code := func() int {
		defer func() { _ = container.Terminate(ctx) }()

		connStr, err := container.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to get connection string: %v\n", err)
			return 1
		}

		testDB, err = database.NewConnectionFromDSN(ctx, connStr, slog.Default())
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
			return 1
		}
		defer testDB.Close()

		if err := testDB.Migrate(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "failed to migrate: %v\n", err)
			return 1
		}

		return m.Run()
	}()

	os.Exit(code)
}

func truncateAll(t *testing.T) {
	t.Helper()
	_, err := testDB.Pool.Exec(context.Background(), `TRUNCATE verifications, administrators, landlords, students`)
	require.NoError(t, err)
}

func TestStudentRepository_EmailLookup(t *testing.T) {
	truncateAll(t)
	ctx := context.Background()
	repo := NewStudentRepository(testDB)

	created, err := repo.Create(ctx, &models.Student{
		FirstName: "Sam",
		LastName:  "Student",
		Password:  "legacy-plain",
		Contact:   models.Contact{Email: "Sam@Example.com"},
	})
	require.NoError(t, err)

	found, err := repo.GetByEmail(ctx, "sam@example.COM")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "legacy-plain", found.Password)

	exists, err := repo.ExistsByEmail(ctx, "SAM@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = repo.Create(ctx, &models.Student{Password: "x", Contact: models.Contact{Email: "sam@example.com"}})
	assert.ErrorIs(t, err, models.ErrDuplicateEmail)
}

func TestLandlordRepository_UpdateVerified(t *testing.T) {
	truncateAll(t)
	ctx := context.Background()
	repo := NewLandlordRepository(testDB)

	landlord, err := repo.Create(ctx, &models.Landlord{
		FirstName: "Lee",
		Password:  "$2a$10$abcdefghijklmnopqrstuv",
		Contact:   models.Contact{Email: "lee@example.com"},
	})
	require.NoError(t, err)
	assert.False(t, landlord.Verified)

	landlord.Verified = true
	updated, err := repo.Update(ctx, landlord)
	require.NoError(t, err)
	assert.True(t, updated.Verified)

	fetched, err := repo.GetByID(ctx, landlord.ID)
	require.NoError(t, err)
	assert.True(t, fetched.Verified)

	_, err = repo.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAdministratorRepository_Lifecycle(t *testing.T) {
	truncateAll(t)
	ctx := context.Background()
	repo := NewAdministratorRepository(testDB)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	applicant, err := repo.Create(ctx, &models.Administrator{
		Name:     "Ada",
		Surname:  "Applicant",
		Password: "hash",
		Contact:  models.Contact{Email: "ada@example.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.AdminInactive, applicant.RoleStatus)

	pending, err := repo.ListByStatus(ctx, models.AdminInactive)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, applicant.ID, pending[0].ID)

	applicant.RoleStatus = models.AdminActive
	approved, err := repo.Update(ctx, applicant)
	require.NoError(t, err)
	assert.Equal(t, models.AdminActive, approved.RoleStatus)

	pending, err = repo.ListByStatus(ctx, models.AdminInactive)
	require.NoError(t, err)
	assert.Empty(t, pending)

	applicant.RoleStatus = "RETIRED"
	_, err = repo.Update(ctx, applicant)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestAdministratorRepository_CreateFirstAdmitsOneWinner(t *testing.T) {
	truncateAll(t)
	ctx := context.Background()
	repo := NewAdministratorRepository(testDB)

	const contenders = 8
	var wg sync.WaitGroup
	results := make(chan error, contenders)

	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.CreateFirst(ctx, &models.Administrator{
				Name:       "Root",
				Password:   "hash",
				RoleStatus: models.AdminActive,
				SuperAdmin: true,
				Contact:    models.Contact{Email: fmt.Sprintf("root%d@example.com", i)},
			})
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	winners := 0
	for err := range results {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, models.ErrBootstrapClosed):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, winners)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestVerificationRepository_Update(t *testing.T) {
	truncateAll(t)
	ctx := context.Background()
	admins := NewAdministratorRepository(testDB)
	repo := NewVerificationRepository(testDB)

	admin, err := admins.Create(ctx, &models.Administrator{
		Name:       "Val",
		Password:   "hash",
		RoleStatus: models.AdminActive,
		Contact:    models.Contact{Email: "val@example.com"},
	})
	require.NoError(t, err)

	v, err := repo.Create(ctx, &models.Verification{AccommodationID: uuid.NewString()})
	require.NoError(t, err)
	assert.Equal(t, models.VerificationPending, v.Status)

	now := time.Now().UTC()
	v.AdministratorID = &admin.ID
	v.Status = models.VerificationApproved
	v.Notes = "photos match"
	v.VerificationDate = &now
	v.UpdatedAt = now

	updated, err := repo.Update(ctx, v)
	require.NoError(t, err)
	assert.Equal(t, models.VerificationApproved, updated.Status)
	require.NotNil(t, updated.AdministratorID)
	assert.Equal(t, admin.ID, *updated.AdministratorID)
	assert.Equal(t, "photos match", updated.Notes)

	unknown := uuid.NewString()
	v.AdministratorID = &unknown
	_, err = repo.Update(ctx, v)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}
