package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/bazario/internal/models"
)

var offerTypes = map[string]bool{
	"percentage":      true,
	"flat":            true,
	"free_delivery":   true,
	"buy_one_get_one": true,
}

// OfferHandler manages the store's promotional offers.
type OfferHandler struct {
	db *gorm.DB
}

// NewOfferHandler constructs OfferHandler.
func NewOfferHandler(db *gorm.DB) *OfferHandler {
	return &OfferHandler{db: db}
}

// ListOffers returns all offers, active first, newest first.
func (h *OfferHandler) ListOffers(c *fiber.Ctx) error {
	var offers []models.Offer
	query := h.db.Order("is_active DESC, created_at DESC")
	if c.Query("active") == "true" {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&offers).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": offers})
}

type offerRequest struct {
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	OfferType         string     `json:"offer_type"`
	DiscountValue     float64    `json:"discount_value"`
	MinOrderAmount    float64    `json:"min_order_amount"`
	MaxDiscountAmount float64    `json:"max_discount_amount"`
	ValidFrom         *time.Time `json:"valid_from"`
	ValidUntil        *time.Time `json:"valid_until"`
	UsageLimit        int        `json:"usage_limit"`
	IsActive          *bool      `json:"is_active"`
}

// CreateOffer adds a new offer.
func (h *OfferHandler) CreateOffer(c *fiber.Ctx) error {
	var req offerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Title == "" {
		return fiber.NewError(fiber.StatusBadRequest, "title is required")
	}
	if !offerTypes[req.OfferType] {
		return fiber.NewError(fiber.StatusBadRequest, "invalid offer type")
	}
	if (req.OfferType == "percentage" || req.OfferType == "flat") && req.DiscountValue <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "discount value must be positive")
	}

	offer := models.Offer{
		Title:             req.Title,
		Description:       req.Description,
		OfferType:         req.OfferType,
		DiscountValue:     req.DiscountValue,
		MinOrderAmount:    req.MinOrderAmount,
		MaxDiscountAmount: req.MaxDiscountAmount,
		ValidUntil:        req.ValidUntil,
		UsageLimit:        req.UsageLimit,
		IsActive:          true,
	}
	if req.ValidFrom != nil {
		offer.ValidFrom = *req.ValidFrom
	} else {
		offer.ValidFrom = time.Now()
	}
	if req.IsActive != nil {
		offer.IsActive = *req.IsActive
	}

	if err := h.db.Create(&offer).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": offer})
}

// UpdateOffer edits an existing offer.
func (h *OfferHandler) UpdateOffer(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var offer models.Offer
	if err := h.db.First(&offer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "offer not found")
		}
		return err
	}

	var req offerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	updates := map[string]interface{}{}
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.OfferType != "" {
		if !offerTypes[req.OfferType] {
			return fiber.NewError(fiber.StatusBadRequest, "invalid offer type")
		}
		updates["offer_type"] = req.OfferType
	}
	if req.DiscountValue > 0 {
		updates["discount_value"] = req.DiscountValue
	}
	if req.MinOrderAmount > 0 {
		updates["min_order_amount"] = req.MinOrderAmount
	}
	if req.MaxDiscountAmount > 0 {
		updates["max_discount_amount"] = req.MaxDiscountAmount
	}
	if req.ValidFrom != nil {
		updates["valid_from"] = *req.ValidFrom
	}
	if req.ValidUntil != nil {
		updates["valid_until"] = *req.ValidUntil
	}
	if req.UsageLimit > 0 {
		updates["usage_limit"] = req.UsageLimit
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := h.db.Model(&offer).Updates(updates).Error; err != nil {
			return err
		}
	}
	return c.JSON(fiber.Map{"success": true, "data": offer})
}

// ToggleOffer flips the active flag.
func (h *OfferHandler) ToggleOffer(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var offer models.Offer
	if err := h.db.First(&offer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "offer not found")
		}
		return err
	}

	if err := h.db.Model(&offer).Update("is_active", !offer.IsActive).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": offer})
}

// DeleteOffer removes an offer.
func (h *OfferHandler) DeleteOffer(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	result := h.db.Delete(&models.Offer{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "offer not found")
	}
	return c.JSON(fiber.Map{"success": true, "message": "offer deleted"})
}
