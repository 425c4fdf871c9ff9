package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/BradenHooton/roomgate/internal/models"
	"github.com/BradenHooton/roomgate/internal/services"
	pkghttp "github.com/BradenHooton/roomgate/pkg/http"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithURLParams attaches chi route parameters to a request
func WithURLParams(req *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	contentType := w.Header().Get("Content-Type")
	assert.Equal(t, "application/json", contentType, "Content-Type should be application/json")

	if target != nil {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks that response is a valid error response
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedError string) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode error response")
	assert.Equal(t, expectedError, resp.Error, "Error code mismatch")
	assert.NotEmpty(t, resp.Message, "Error message should not be empty")
}

// MockAuthService implements AuthServiceInterface for testing
type MockAuthService struct {
	LoginFunc       func(ctx context.Context, identifier, password, roleHint string) (*models.LoginOutcome, error)
	EmailExistsFunc func(ctx context.Context, email string) (bool, error)
}

func (m *MockAuthService) Login(ctx context.Context, identifier, password, roleHint string) (*models.LoginOutcome, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, identifier, password, roleHint)
	}
	return models.LoginFailed(services.MsgInvalidCredentials), nil
}

func (m *MockAuthService) EmailExists(ctx context.Context, email string) (bool, error) {
	if m.EmailExistsFunc != nil {
		return m.EmailExistsFunc(ctx, email)
	}
	return false, nil
}

// MockAdminService implements AdminServiceInterface for testing
type MockAdminService struct {
	CreateAdministratorFunc       func(ctx context.Context, input services.AdministratorInput, actingAdminID, actingPassword string) (*models.Administrator, error)
	SubmitApplicationFunc         func(ctx context.Context, input services.AdministratorInput) (*models.Administrator, error)
	ListPendingAdministratorsFunc func(ctx context.Context, email, password string) ([]*models.Administrator, error)
	ApproveAdministratorFunc      func(ctx context.Context, applicantID, email, password string) (*models.Administrator, error)
	RejectAdministratorFunc       func(ctx context.Context, applicantID, email, password string) (*models.Administrator, error)
	VerifyLandlordFunc            func(ctx context.Context, adminID, adminPassword, landlordID string, approved bool) (*models.Landlord, error)
	VerifyListingFunc             func(ctx context.Context, adminID, adminPassword, verificationID, status string, notes *string) (*models.Verification, error)
}

func (m *MockAdminService) CreateAdministrator(ctx context.Context, input services.AdministratorInput, actingAdminID, actingPassword string) (*models.Administrator, error) {
	if m.CreateAdministratorFunc != nil {
		return m.CreateAdministratorFunc(ctx, input, actingAdminID, actingPassword)
	}
	return nil, models.ErrForbidden
}

func (m *MockAdminService) SubmitApplication(ctx context.Context, input services.AdministratorInput) (*models.Administrator, error) {
	if m.SubmitApplicationFunc != nil {
		return m.SubmitApplicationFunc(ctx, input)
	}
	return nil, models.ErrDuplicateEmail
}

func (m *MockAdminService) ListPendingAdministrators(ctx context.Context, email, password string) ([]*models.Administrator, error) {
	if m.ListPendingAdministratorsFunc != nil {
		return m.ListPendingAdministratorsFunc(ctx, email, password)
	}
	return []*models.Administrator{}, nil
}

func (m *MockAdminService) ApproveAdministrator(ctx context.Context, applicantID, email, password string) (*models.Administrator, error) {
	if m.ApproveAdministratorFunc != nil {
		return m.ApproveAdministratorFunc(ctx, applicantID, email, password)
	}
	return nil, models.ErrForbidden
}

func (m *MockAdminService) RejectAdministrator(ctx context.Context, applicantID, email, password string) (*models.Administrator, error) {
	if m.RejectAdministratorFunc != nil {
		return m.RejectAdministratorFunc(ctx, applicantID, email, password)
	}
	return nil, models.ErrForbidden
}

func (m *MockAdminService) VerifyLandlord(ctx context.Context, adminID, adminPassword, landlordID string, approved bool) (*models.Landlord, error) {
	if m.VerifyLandlordFunc != nil {
		return m.VerifyLandlordFunc(ctx, adminID, adminPassword, landlordID, approved)
	}
	return nil, models.ErrForbidden
}

func (m *MockAdminService) VerifyListing(ctx context.Context, adminID, adminPassword, verificationID, status string, notes *string) (*models.Verification, error) {
	if m.VerifyListingFunc != nil {
		return m.VerifyListingFunc(ctx, adminID, adminPassword, verificationID, status, notes)
	}
	return nil, models.ErrForbidden
}
