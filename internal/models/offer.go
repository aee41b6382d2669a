package models

import "time"

// Offer is a promotional discount the store owner runs.
type Offer struct {
	BaseModel
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	OfferType         string     `json:"offer_type"` // percentage|flat|free_delivery|buy_one_get_one
	DiscountValue     float64    `json:"discount_value"`
	MinOrderAmount    float64    `json:"min_order_amount"`
	MaxDiscountAmount float64    `json:"max_discount_amount"`
	ValidFrom         time.Time  `json:"valid_from"`
	ValidUntil        *time.Time `json:"valid_until"`
	UsageLimit        int        `json:"usage_limit"`
	UsedCount         int        `json:"used_count"`
	IsActive          bool       `json:"is_active"`
}
