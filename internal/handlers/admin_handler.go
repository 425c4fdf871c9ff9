package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/BradenHooton/roomgate/internal/models"
	"github.com/BradenHooton/roomgate/internal/services"
	pkghttp "github.com/BradenHooton/roomgate/pkg/http"
)

// AdminServiceInterface defines the administrator lifecycle operations exposed over HTTP
type AdminServiceInterface interface {
	CreateAdministrator(ctx context.Context, input services.AdministratorInput, actingAdminID, actingPassword string) (*models.Administrator, error)
	SubmitApplication(ctx context.Context, input services.AdministratorInput) (*models.Administrator, error)
	ListPendingAdministrators(ctx context.Context, superAdminEmail, superAdminPassword string) ([]*models.Administrator, error)
	ApproveAdministrator(ctx context.Context, applicantID, superAdminEmail, superAdminPassword string) (*models.Administrator, error)
	RejectAdministrator(ctx context.Context, applicantID, superAdminEmail, superAdminPassword string) (*models.Administrator, error)
	VerifyLandlord(ctx context.Context, adminID, adminPassword, landlordID string, approved bool) (*models.Landlord, error)
	VerifyListing(ctx context.Context, adminID, adminPassword, verificationID, status string, notes *string) (*models.Verification, error)
}

// AdminHandler handles administrator lifecycle requests
type AdminHandler struct {
	service AdminServiceInterface
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(service AdminServiceInterface) *AdminHandler {
	return &AdminHandler{service: service}
}

// AdministratorRequest holds the fields of a new administrator
type AdministratorRequest struct {
	Name                 string `json:"name" validate:"required,max=100"`
	Surname              string `json:"surname" validate:"required,max=100"`
	Email                string `json:"email" validate:"required,email,max=254"`
	Password             string `json:"password" validate:"required,max=72"`
	PhoneNumber          string `json:"phone_number,omitempty" validate:"omitempty,max=32"`
	AlternatePhoneNumber string `json:"alternate_phone_number,omitempty" validate:"omitempty,max=32"`
}

func (r AdministratorRequest) input() services.AdministratorInput {
	return services.AdministratorInput{
		Name:                 r.Name,
		Surname:              r.Surname,
		Email:                r.Email,
		Password:             r.Password,
		PhoneNumber:          r.PhoneNumber,
		AlternatePhoneNumber: r.AlternatePhoneNumber,
	}
}

// CreateAdministratorRequest adds the creating super-admin's credentials.
// Both are omitted when creating the first administrator.
type CreateAdministratorRequest struct {
	AdministratorRequest
	CreatorAdminID  string `json:"creator_admin_id,omitempty"`
	CreatorPassword string `json:"creator_password,omitempty"`
}

// SuperAdminCredentials re-authenticate a super-admin for a single call
type SuperAdminCredentials struct {
	SuperAdminEmail    string `json:"super_admin_email" validate:"required,email"`
	SuperAdminPassword string `json:"super_admin_password" validate:"required"`
}

// VerifyLandlordRequest carries an administrator's landlord verification decision
type VerifyLandlordRequest struct {
	AdminID       string `json:"admin_id" validate:"required"`
	AdminPassword string `json:"admin_password" validate:"required"`
	Approved      *bool  `json:"approved" validate:"required"`
}

// VerifyListingRequest carries an administrator's listing review
type VerifyListingRequest struct {
	AdminID       string  `json:"admin_id" validate:"required"`
	AdminPassword string  `json:"admin_password" validate:"required"`
	Status        string  `json:"status" validate:"required,verificationstatus"`
	Notes         *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// decodeAndValidate reads a JSON body into req and validates it, writing a 400 on failure
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return false
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return false
	}
	return true
}

// CreateAdministrator handles POST /admins
func (h *AdminHandler) CreateAdministrator(w http.ResponseWriter, r *http.Request) {
	var req CreateAdministratorRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	admin, err := h.service.CreateAdministrator(r.Context(), req.input(), req.CreatorAdminID, req.CreatorPassword)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, admin)
}

// SubmitApplication handles POST /admins/apply
func (h *AdminHandler) SubmitApplication(w http.ResponseWriter, r *http.Request) {
	var req AdministratorRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	admin, err := h.service.SubmitApplication(r.Context(), req.input())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, admin)
}

// ListPendingAdministrators handles POST /admins/applications
func (h *AdminHandler) ListPendingAdministrators(w http.ResponseWriter, r *http.Request) {
	var req SuperAdminCredentials
	if !decodeAndValidate(w, r, &req) {
		return
	}

	pending, err := h.service.ListPendingAdministrators(r.Context(), req.SuperAdminEmail, req.SuperAdminPassword)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, pending)
}

// ApproveAdministrator handles POST /admins/{applicantID}/approve
func (h *AdminHandler) ApproveAdministrator(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.service.ApproveAdministrator)
}

// RejectAdministrator handles POST /admins/{applicantID}/reject
func (h *AdminHandler) RejectAdministrator(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.service.RejectAdministrator)
}

func (h *AdminHandler) decide(w http.ResponseWriter, r *http.Request, decision func(ctx context.Context, applicantID, email, password string) (*models.Administrator, error)) {
	applicantID := chi.URLParam(r, "applicantID")
	if applicantID == "" {
		pkghttp.WriteBadRequest(w, "applicant ID is required")
		return
	}

	var req SuperAdminCredentials
	if !decodeAndValidate(w, r, &req) {
		return
	}

	admin, err := decision(r.Context(), applicantID, req.SuperAdminEmail, req.SuperAdminPassword)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, admin)
}

// VerifyLandlord handles POST /admins/landlords/{landlordID}/verification
func (h *AdminHandler) VerifyLandlord(w http.ResponseWriter, r *http.Request) {
	landlordID := chi.URLParam(r, "landlordID")
	if landlordID == "" {
		pkghttp.WriteBadRequest(w, "landlord ID is required")
		return
	}

	var req VerifyLandlordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	landlord, err := h.service.VerifyLandlord(r.Context(), req.AdminID, req.AdminPassword, landlordID, *req.Approved)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, landlord)
}

// VerifyListing handles POST /admins/verifications/{verificationID}/status
func (h *AdminHandler) VerifyListing(w http.ResponseWriter, r *http.Request) {
	verificationID := chi.URLParam(r, "verificationID")
	if verificationID == "" {
		pkghttp.WriteBadRequest(w, "verification ID is required")
		return
	}

	var req VerifyListingRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	verification, err := h.service.VerifyListing(r.Context(), req.AdminID, req.AdminPassword, verificationID, req.Status, req.Notes)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, verification)
}
