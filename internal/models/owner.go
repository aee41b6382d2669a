package models

import (
	"time"

	"github.com/lib/pq"
)

// StoreOwner is the authenticated account behind a store. One owner,
// one store: the store fields live directly on the account record.
type StoreOwner struct {
	BaseModel
	StoreName     string `json:"store_name"`
	OwnerName     string `json:"owner_name"`
	Phone         string `gorm:"uniqueIndex" json:"phone"`
	Email         string `gorm:"index" json:"email"`
	PasswordHash  string `json:"-"`
	PhoneVerified bool   `json:"phone_verified"`

	Address      string `json:"address"`
	BusinessType string `json:"business_type"`
	Category     string `json:"category"`
	Description  string `json:"description"`
	GSTNumber    string `json:"gst_number"`
	PANNumber    string `json:"pan_number"`

	ServiceTypes          pq.StringArray `gorm:"type:text[]" json:"service_types"`
	StoreImages           pq.StringArray `gorm:"type:text[]" json:"store_images"`
	DeliveryRadius        float64        `json:"delivery_radius"`
	MinOrderAmount        float64        `json:"min_order_amount"`
	DeliveryFee           float64        `json:"delivery_fee"`
	EstimatedDeliveryTime int            `json:"estimated_delivery_time"`

	UPIID             string `json:"upi_id"`
	BankAccountNumber string `json:"bank_account_number"`
	BankName          string `json:"bank_name"`
	IFSCCode          string `json:"ifsc_code"`
	AccountHolderName string `json:"account_holder_name"`

	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// OTPVerification tracks one verification code sent to a phone number.
type OTPVerification struct {
	BaseModel
	Phone     string     `gorm:"index" json:"phone"`
	Code      string     `json:"code"`
	Purpose   string     `json:"purpose"`
	ExpiresAt time.Time  `json:"expires_at"`
	Attempts  int        `json:"attempts"`
	Verified  bool       `json:"verified"`
	UsedAt    *time.Time `json:"used_at"`
}
