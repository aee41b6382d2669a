package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/example/bazario/internal/middleware"
	"github.com/example/bazario/internal/models"
)

// ProfileHandler manages the store profile endpoints.
type ProfileHandler struct {
	db *gorm.DB
}

// NewProfileHandler constructs ProfileHandler.
func NewProfileHandler(db *gorm.DB) *ProfileHandler {
	return &ProfileHandler{db: db}
}

// GetProfile returns the authenticated owner's store profile.
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	ownerID, ok := middleware.GetCurrentOwnerID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var owner models.StoreOwner
	if err := h.db.First(&owner, "id = ?", ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "store not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": owner})
}

type updateProfileRequest struct {
	StoreName             *string  `json:"store_name"`
	OwnerName             *string  `json:"owner_name"`
	Email                 *string  `json:"email"`
	Address               *string  `json:"address"`
	BusinessType          *string  `json:"business_type"`
	Category              *string  `json:"category"`
	Description           *string  `json:"description"`
	ServiceTypes          []string `json:"service_types"`
	StoreImages           []string `json:"store_images"`
	DeliveryRadius        *float64 `json:"delivery_radius"`
	MinOrderAmount        *float64 `json:"min_order_amount"`
	DeliveryFee           *float64 `json:"delivery_fee"`
	EstimatedDeliveryTime *int     `json:"estimated_delivery_time"`
	UPIID                 *string  `json:"upi_id"`
}

// UpdateProfile applies partial updates to the store profile. Omitted
// fields are left untouched.
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	ownerID, ok := middleware.GetCurrentOwnerID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	updates := map[string]interface{}{}
	setString := func(column string, v *string) {
		if v != nil {
			updates[column] = *v
		}
	}
	setString("store_name", req.StoreName)
	setString("owner_name", req.OwnerName)
	setString("email", req.Email)
	setString("address", req.Address)
	setString("business_type", req.BusinessType)
	setString("category", req.Category)
	setString("description", req.Description)
	setString("upi_id", req.UPIID)

	if req.ServiceTypes != nil {
		updates["service_types"] = pq.StringArray(req.ServiceTypes)
	}
	if req.StoreImages != nil {
		updates["store_images"] = pq.StringArray(req.StoreImages)
	}
	if req.DeliveryRadius != nil {
		updates["delivery_radius"] = *req.DeliveryRadius
	}
	if req.MinOrderAmount != nil {
		updates["min_order_amount"] = *req.MinOrderAmount
	}
	if req.DeliveryFee != nil {
		updates["delivery_fee"] = *req.DeliveryFee
	}
	if req.EstimatedDeliveryTime != nil {
		updates["estimated_delivery_time"] = *req.EstimatedDeliveryTime
	}

	if len(updates) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no fields to update")
	}

	if err := h.db.Model(&models.StoreOwner{}).Where("id = ?", ownerID).Updates(updates).Error; err != nil {
		return err
	}

	var owner models.StoreOwner
	if err := h.db.First(&owner, "id = ?", ownerID).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": owner, "message": "Profile updated"})
}
