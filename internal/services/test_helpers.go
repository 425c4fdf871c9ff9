package services

import (
	"context"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"golang.org/x/crypto/bcrypt"

	"github.com/BradenHooton/roomgate/internal/models"
	pkgauth "github.com/BradenHooton/roomgate/pkg/auth"
)

// MockAdministratorRepository implements AdministratorRepository for testing
type MockAdministratorRepository struct {
	GetByIDFunc       func(ctx context.Context, id string) (*models.Administrator, error)
	GetByEmailFunc    func(ctx context.Context, email string) (*models.Administrator, error)
	ExistsByEmailFunc func(ctx context.Context, email string) (bool, error)
	CountFunc         func(ctx context.Context) (int64, error)
	ListByStatusFunc  func(ctx context.Context, status models.AdminRoleStatus) ([]*models.Administrator, error)
	CreateFunc        func(ctx context.Context, admin *models.Administrator) (*models.Administrator, error)
	CreateFirstFunc   func(ctx context.Context, admin *models.Administrator) (*models.Administrator, error)
	UpdateFunc        func(ctx context.Context, admin *models.Administrator) (*models.Administrator, error)
}

func (m *MockAdministratorRepository) GetByID(ctx context.Context, id string) (*models.Administrator, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockAdministratorRepository) GetByEmail(ctx context.Context, email string) (*models.Administrator, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, models.ErrNotFound
}

func (m *MockAdministratorRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.ExistsByEmailFunc != nil {
		return m.ExistsByEmailFunc(ctx, email)
	}
	return false, nil
}

func (m *MockAdministratorRepository) Count(ctx context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

func (m *MockAdministratorRepository) ListByStatus(ctx context.Context, status models.AdminRoleStatus) ([]*models.Administrator, error) {
	if m.ListByStatusFunc != nil {
		return m.ListByStatusFunc(ctx, status)
	}
	return []*models.Administrator{}, nil
}

func (m *MockAdministratorRepository) Create(ctx context.Context, admin *models.Administrator) (*models.Administrator, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, admin)
	}
	return admin, nil
}

func (m *MockAdministratorRepository) CreateFirst(ctx context.Context, admin *models.Administrator) (*models.Administrator, error) {
	if m.CreateFirstFunc != nil {
		return m.CreateFirstFunc(ctx, admin)
	}
	return admin, nil
}

func (m *MockAdministratorRepository) Update(ctx context.Context, admin *models.Administrator) (*models.Administrator, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, admin)
	}
	return admin, nil
}

// MockLandlordRepository implements LandlordRepository for testing
type MockLandlordRepository struct {
	GetByIDFunc func(ctx context.Context, id string) (*models.Landlord, error)
	UpdateFunc  func(ctx context.Context, landlord *models.Landlord) (*models.Landlord, error)
}

func (m *MockLandlordRepository) GetByID(ctx context.Context, id string) (*models.Landlord, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockLandlordRepository) Update(ctx context.Context, landlord *models.Landlord) (*models.Landlord, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, landlord)
	}
	return landlord, nil
}

// MockVerificationRepository implements VerificationRepository for testing
type MockVerificationRepository struct {
	GetByIDFunc func(ctx context.Context, id string) (*models.Verification, error)
	UpdateFunc  func(ctx context.Context, v *models.Verification) (*models.Verification, error)
}

func (m *MockVerificationRepository) GetByID(ctx context.Context, id string) (*models.Verification, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockVerificationRepository) Update(ctx context.Context, v *models.Verification) (*models.Verification, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, v)
	}
	return v, nil
}

// MockApplicationNotifier implements ApplicationNotifier for testing
type MockApplicationNotifier struct {
	NotifyApplicationDecisionFunc func(ctx context.Context, applicant *models.Administrator, approved bool) error
}

func (m *MockApplicationNotifier) NotifyApplicationDecision(ctx context.Context, applicant *models.Administrator, approved bool) error {
	if m.NotifyApplicationDecisionFunc != nil {
		return m.NotifyApplicationDecisionFunc(ctx, applicant, approved)
	}
	return nil
}

// MockSESClient implements SESClient for testing
type MockSESClient struct {
	SendEmailFunc func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

func (m *MockSESClient) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	if m.SendEmailFunc != nil {
		return m.SendEmailFunc(ctx, params, optFns...)
	}
	return &ses.SendEmailOutput{MessageId: aws.String("test-message-id")}, nil
}

// MapAccountLookup is an in-memory AccountLookup keyed by normalized email
type MapAccountLookup struct {
	role     models.Role
	accounts map[string]models.Account
	err      error
	calls    int
	mu       sync.Mutex
}

// NewMapAccountLookup creates a lookup for role holding accounts
func NewMapAccountLookup(role models.Role, accounts ...models.Account) *MapAccountLookup {
	m := &MapAccountLookup{role: role, accounts: make(map[string]models.Account)}
	for _, account := range accounts {
		m.accounts[models.NormalizeEmail(account.AccountEmail())] = account
	}
	return m
}

// Failing makes every lookup return err
func (m *MapAccountLookup) Failing(err error) *MapAccountLookup {
	m.err = err
	return m
}

func (m *MapAccountLookup) Role() models.Role {
	return m.role
}

func (m *MapAccountLookup) FindByEmail(ctx context.Context, email string) (models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	account, ok := m.accounts[models.NormalizeEmail(email)]
	if !ok {
		return nil, models.ErrNotFound
	}
	return account, nil
}

// Calls returns how many lookups were made
func (m *MapAccountLookup) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// TestClock is a manually advanced clock
type TestClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewTestClock() *TestClock {
	return &TestClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *TestClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *TestClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// NewTestVerifier returns a bcrypt verifier at the cheapest cost
func NewTestVerifier() *pkgauth.BcryptVerifier {
	return pkgauth.NewBcryptVerifier(bcrypt.MinCost)
}

// MustHash hashes password with the test verifier or panics
func MustHash(password string) string {
	hash, err := NewTestVerifier().Hash(password)
	if err != nil {
		panic(err)
	}
	return hash
}

// NewTestAdministrator creates an administrator with a hashed password
func NewTestAdministrator(id, email, password string, status models.AdminRoleStatus, superAdmin bool) *models.Administrator {
	now := time.Now()
	return &models.Administrator{
		ID:         id,
		Name:       "Test",
		Surname:    "Admin",
		Password:   MustHash(password),
		RoleStatus: status,
		SuperAdmin: superAdmin,
		Contact:    models.Contact{Email: email},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// NewTestLandlord creates a landlord whose password is stored as given
func NewTestLandlord(id, email, storedPassword string) *models.Landlord {
	now := time.Now()
	return &models.Landlord{
		ID:        id,
		FirstName: "Test",
		LastName:  "Landlord",
		Password:  storedPassword,
		Contact:   models.Contact{Email: email},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewTestStudent creates a student whose password is stored as given
func NewTestStudent(id, email, storedPassword string) *models.Student {
	now := time.Now()
	return &models.Student{
		ID:        id,
		FirstName: "Test",
		LastName:  "Student",
		Password:  storedPassword,
		Contact:   models.Contact{Email: email},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
