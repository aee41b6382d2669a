package otp

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"gorm.io/gorm"

	"github.com/example/bazario/internal/models"
	"github.com/example/bazario/internal/utils"
)

// codeTTL is how long an issued code stays valid. Independent from the
// resend cooldown: the verification row, not the flow, is the source
// of truth for code validity.
const codeTTL = 10 * time.Minute

const maxAttempts = 5

// Service errors surfaced to the client.
var (
	ErrUnknownAccount    = errors.New("no store registered for this phone number")
	ErrPhoneTaken        = errors.New("phone number is already registered")
	ErrCodeNotFound      = errors.New("verification code not found")
	ErrCodeExpired       = errors.New("verification code expired")
	ErrCodeMismatch      = errors.New("invalid OTP")
	ErrTooManyAttempts   = errors.New("too many attempts, request a new code")
	ErrMissingSignupData = errors.New("registration details are required")
)

// Registration is the signup form submitted together with the
// verification code.
type Registration struct {
	StoreName             string   `json:"store_name"`
	OwnerName             string   `json:"owner_name"`
	Email                 string   `json:"email"`
	Password              string   `json:"password"`
	Address               string   `json:"address"`
	BusinessType          string   `json:"business_type"`
	Category              string   `json:"category"`
	Description           string   `json:"description"`
	GSTNumber             string   `json:"gst_number"`
	PANNumber             string   `json:"pan_number"`
	ServiceTypes          []string `json:"service_types"`
	DeliveryRadius        float64  `json:"delivery_radius"`
	MinOrderAmount        float64  `json:"min_order_amount"`
	DeliveryFee           float64  `json:"delivery_fee"`
	EstimatedDeliveryTime int      `json:"estimated_delivery_time"`
	UPIID                 string   `json:"upi_id"`
	BankAccountNumber     string   `json:"bank_account_number"`
	BankName              string   `json:"bank_name"`
	IFSCCode              string   `json:"ifsc_code"`
	AccountHolderName     string   `json:"account_holder_name"`
	Latitude              float64  `json:"latitude"`
	Longitude             float64  `json:"longitude"`
}

// Sender dispatches a code to a phone number.
type Sender interface {
	SendOTP(phone, code string) error
}

// Service issues and checks verification codes against the database
// and implements CodeService for the flow state machine.
type Service struct {
	db  *gorm.DB
	sms Sender
}

// NewService constructs the code service.
func NewService(db *gorm.DB, sms Sender) *Service {
	return &Service{db: db, sms: sms}
}

// Send generates a fresh 4-digit code for the phone, records it, and
// dispatches it via SMS. Login requires an existing account; signup
// requires the phone to be free.
func (s *Service) Send(phone, purpose string) error {
	var owner models.StoreOwner
	err := s.db.Where("phone = ?", phone).First(&owner).Error
	switch purpose {
	case PurposeSignup:
		if err == nil {
			return ErrPhoneTaken
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	default:
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnknownAccount
		}
		if err != nil {
			return err
		}
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}

	verification := models.OTPVerification{
		Phone:     phone,
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(codeTTL),
	}
	if err := s.db.Create(&verification).Error; err != nil {
		return err
	}

	return s.sms.SendOTP(phone, code)
}

// Verify checks the submitted code against the latest unused
// verification row for the phone. On success the row is consumed and,
// for signup, the store owner account is created from the payload.
func (s *Service) Verify(phone, code, purpose string, payload *Registration) (*VerifyResult, error) {
	var verification models.OTPVerification
	err := s.db.Where("phone = ? AND purpose = ? AND verified = false", phone, purpose).
		Order("created_at desc").
		First(&verification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCodeNotFound
		}
		return nil, err
	}

	if verification.Attempts >= maxAttempts {
		return nil, ErrTooManyAttempts
	}
	if verification.ExpiresAt.Before(time.Now()) {
		return nil, ErrCodeExpired
	}

	if verification.Code != code {
		s.db.Model(&verification).Update("attempts", verification.Attempts+1)
		return nil, ErrCodeMismatch
	}

	now := time.Now()
	verification.Verified = true
	verification.UsedAt = &now
	if err := s.db.Save(&verification).Error; err != nil {
		return nil, err
	}

	if purpose == PurposeSignup {
		return s.completeSignup(phone, payload)
	}
	return s.completeLogin(phone)
}

func (s *Service) completeLogin(phone string) (*VerifyResult, error) {
	var owner models.StoreOwner
	if err := s.db.Where("phone = ?", phone).First(&owner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownAccount
		}
		return nil, err
	}

	if !owner.PhoneVerified {
		if err := s.db.Model(&owner).Update("phone_verified", true).Error; err != nil {
			return nil, err
		}
	}

	return &VerifyResult{
		OwnerID:   owner.ID.String(),
		StoreName: owner.StoreName,
		OwnerName: owner.OwnerName,
		Phone:     owner.Phone,
	}, nil
}

func (s *Service) completeSignup(phone string, payload *Registration) (*VerifyResult, error) {
	if payload == nil || payload.StoreName == "" || payload.OwnerName == "" {
		return nil, ErrMissingSignupData
	}

	owner := models.StoreOwner{
		StoreName:             payload.StoreName,
		OwnerName:             payload.OwnerName,
		Phone:                 phone,
		Email:                 payload.Email,
		PhoneVerified:         true,
		Address:               payload.Address,
		BusinessType:          payload.BusinessType,
		Category:              payload.Category,
		Description:           payload.Description,
		GSTNumber:             payload.GSTNumber,
		PANNumber:             payload.PANNumber,
		ServiceTypes:          payload.ServiceTypes,
		DeliveryRadius:        payload.DeliveryRadius,
		MinOrderAmount:        payload.MinOrderAmount,
		DeliveryFee:           payload.DeliveryFee,
		EstimatedDeliveryTime: payload.EstimatedDeliveryTime,
		UPIID:                 payload.UPIID,
		BankAccountNumber:     payload.BankAccountNumber,
		BankName:              payload.BankName,
		IFSCCode:              payload.IFSCCode,
		AccountHolderName:     payload.AccountHolderName,
		Latitude:              payload.Latitude,
		Longitude:             payload.Longitude,
	}

	if payload.Password != "" {
		hash, err := utils.HashPassword(payload.Password)
		if err != nil {
			return nil, err
		}
		owner.PasswordHash = hash
	}

	if err := s.db.Create(&owner).Error; err != nil {
		return nil, err
	}

	return &VerifyResult{
		OwnerID:   owner.ID.String(),
		StoreName: owner.StoreName,
		OwnerName: owner.OwnerName,
		Phone:     owner.Phone,
		Created:   true,
	}, nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", n.Int64()), nil
}
