package routes

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/BradenHooton/roomgate/internal/handlers"
	"github.com/BradenHooton/roomgate/internal/middleware"
	"github.com/BradenHooton/roomgate/internal/models"
)

func newTestRouter(authService *handlers.MockAuthService, adminService *handlers.MockAdminService, perMinute int) chi.Router {
	router := chi.NewRouter()
	RegisterRoutes(
		router,
		handlers.NewAuthHandler(authService, nil, slog.Default()),
		handlers.NewAdminHandler(adminService),
		middleware.RateLimitConfig{RequestsPerMinute: perMinute},
	)
	return router
}

func TestRegisterRoutes_Wiring(t *testing.T) {
	var approvedID, landlordID, verificationID string
	admin := &handlers.MockAdminService{
		ApproveAdministratorFunc: func(ctx context.Context, applicantID, email, password string) (*models.Administrator, error) {
			approvedID = applicantID
			return &models.Administrator{ID: applicantID}, nil
		},
		VerifyLandlordFunc: func(ctx context.Context, adminID, adminPassword, id string, approved bool) (*models.Landlord, error) {
			landlordID = id
			return &models.Landlord{ID: id}, nil
		},
		VerifyListingFunc: func(ctx context.Context, adminID, adminPassword, id, status string, notes *string) (*models.Verification, error) {
			verificationID = id
			return &models.Verification{ID: id}, nil
		},
	}
	router := newTestRouter(&handlers.MockAuthService{}, admin, 100)

	tests := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{http.MethodPost, "/auth/login", `{"email":"a@b.com","password":"pw"}`, http.StatusUnauthorized},
		{http.MethodGet, "/auth/email-exists?email=a@b.com", "", http.StatusOK},
		{http.MethodPost, "/admins/app-1/approve", `{"super_admin_email":"r@b.com","super_admin_password":"pw"}`, http.StatusOK},
		{http.MethodPost, "/admins/landlords/ll-1/verification", `{"admin_id":"a","admin_password":"pw","approved":false}`, http.StatusOK},
		{http.MethodPost, "/admins/verifications/ver-1/status", `{"admin_id":"a","admin_password":"pw","status":"PENDING"}`, http.StatusOK},
		{http.MethodGet, "/admins/app-1/approve", "", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}

	assert.Equal(t, "app-1", approvedID)
	assert.Equal(t, "ll-1", landlordID)
	assert.Equal(t, "ver-1", verificationID)
}

func TestRegisterRoutes_LoginIsFloodLimited(t *testing.T) {
	router := newTestRouter(&handlers.MockAuthService{}, &handlers.MockAdminService{}, 1)

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"a@b.com","password":"pw"}`))
		req.RemoteAddr = "198.51.100.1:5000"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusUnauthorized, send())
	assert.Equal(t, http.StatusTooManyRequests, send())
}
