package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/bazario/internal/config"
	"github.com/example/bazario/internal/models"
	"github.com/example/bazario/internal/otp"
	"github.com/example/bazario/internal/utils"
)

// AuthHandler bundles dependencies for authentication endpoints.
type AuthHandler struct {
	db       *gorm.DB
	cfg      *config.Config
	registry *otp.Registry
	codes    otp.CodeService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config, registry *otp.Registry, codes otp.CodeService) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg, registry: registry, codes: codes}
}

type sendOTPRequest struct {
	Phone   string `json:"phone"`
	Purpose string `json:"purpose"`
}

func normalizePurpose(p string) string {
	if p == otp.PurposeSignup {
		return otp.PurposeSignup
	}
	return otp.PurposeLogin
}

// SendOTP validates the phone number and dispatches a verification
// code for the requested purpose.
func (h *AuthHandler) SendOTP(c *fiber.Ctx) error {
	var req sendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	// Clients may send either the bare 10-digit number or the
	// canonical prefixed form; validation runs on the national part.
	national := strings.TrimPrefix(utils.NormalizePhone(req.Phone), utils.CountryPrefix)

	purpose := normalizePurpose(req.Purpose)
	flow, err := h.registry.Begin(national, purpose)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "please enter a valid 10-digit mobile number")
	}

	if err := flow.RequestCode(h.codes); err != nil {
		return otpErrorToHTTP(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "OTP sent successfully",
		"data": fiber.Map{
			"phone":    flow.Phone,
			"cooldown": flow.CooldownRemaining(),
		},
	})
}

type resendOTPRequest struct {
	Phone string `json:"phone"`
}

// ResendOTP re-dispatches a code once the cooldown has elapsed.
func (h *AuthHandler) ResendOTP(c *fiber.Ctx) error {
	var req resendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	flow, ok := h.registry.Lookup(utils.NormalizePhone(req.Phone))
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "request a verification code first")
	}

	if err := flow.Resend(h.codes); err != nil {
		return otpErrorToHTTP(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "OTP sent successfully",
		"data": fiber.Map{
			"phone":    flow.Phone,
			"cooldown": flow.CooldownRemaining(),
		},
	})
}

type verifyOTPRequest struct {
	Phone        string            `json:"phone"`
	Code         string            `json:"code"`
	Purpose      string            `json:"purpose"`
	Registration *otp.Registration `json:"registration"`
}

// VerifyOTP checks the submitted code and completes the login or
// signup, returning a session token.
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req verifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	canonical := utils.NormalizePhone(req.Phone)
	flow, ok := h.registry.Lookup(canonical)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "request a verification code first")
	}

	result, err := flow.Verify(h.codes, req.Code, req.Registration)
	if err != nil {
		return otpErrorToHTTP(err)
	}
	h.registry.Finish(canonical)

	ownerID, err := uuid.Parse(result.OwnerID)
	if err != nil {
		return err
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, ownerID, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	status := fiber.StatusOK
	if result.Created {
		status = fiber.StatusCreated
	}

	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"token":   token,
		"data": fiber.Map{
			"id":         result.OwnerID,
			"store_name": result.StoreName,
			"owner_name": result.OwnerName,
			"phone":      result.Phone,
		},
		"email_verification_sent": result.Created,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates a store owner with email and password.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if !utils.ValidateEmail(req.Email) || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "please enter valid email and password")
	}

	var owner models.StoreOwner
	if err := h.db.Where("email = ?", req.Email).First(&owner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
		}
		return err
	}

	if !utils.CheckPassword(owner.PasswordHash, req.Password) {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, owner.ID, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"data": fiber.Map{
			"id":         owner.ID,
			"store_name": owner.StoreName,
			"owner_name": owner.OwnerName,
			"email":      owner.Email,
			"phone":      owner.Phone,
		},
	})
}

type checkPhoneRequest struct {
	Phone string `json:"phone"`
}

// CheckPhone reports whether a store is already registered for the
// phone number.
func (h *AuthHandler) CheckPhone(c *fiber.Ctx) error {
	var req checkPhoneRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	canonical := utils.NormalizePhone(req.Phone)

	var count int64
	if err := h.db.Model(&models.StoreOwner{}).Where("phone = ?", canonical).Count(&count).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"exists": count > 0},
	})
}

// Logout acknowledges a client-side token discard and drops any live
// verification flow for the supplied phone.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req checkPhoneRequest
	if err := c.BodyParser(&req); err == nil && req.Phone != "" {
		h.registry.Finish(utils.NormalizePhone(req.Phone))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logged out successfully",
	})
}

// otpErrorToHTTP maps OTP domain errors onto HTTP status codes.
func otpErrorToHTTP(err error) error {
	switch {
	case errors.Is(err, otp.ErrInvalidCodeFormat):
		return fiber.NewError(fiber.StatusBadRequest, "please enter a valid 4-digit OTP")
	case errors.Is(err, otp.ErrCooldownActive):
		return fiber.NewError(fiber.StatusTooManyRequests, "please wait before requesting another code")
	case errors.Is(err, otp.ErrFlowFinished):
		return fiber.NewError(fiber.StatusConflict, "verification already completed")
	case errors.Is(err, otp.ErrUnknownAccount):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, otp.ErrPhoneTaken):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, otp.ErrCodeNotFound),
		errors.Is(err, otp.ErrCodeExpired),
		errors.Is(err, otp.ErrCodeMismatch),
		errors.Is(err, otp.ErrTooManyAttempts),
		errors.Is(err, otp.ErrMissingSignupData):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return err
	}
}
