package participation

import (
	partsvc "github.com/cdnmeta/paraguay.cuentaverificada-sub001/internal/application/participation"
	"github.com/cdnmeta/paraguay.cuentaverificada-sub001/internal/middleware"
	"github.com/cdnmeta/paraguay.cuentaverificada-sub001/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service         *partsvc.Service
	DefaultCurrency string
}

// Purchase POST /api/v1/participations/purchase
func (h *Handlers) Purchase(c *fiber.Ctx) error {
	actor := getActor(c)
	if actor == nil || actor.UserID == "" {
		return response.Unauthorized(c, "Unauthorized")
	}
	userID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var body struct {
		Units      int64   `json:"units"`
		UnitPrice  float64 `json:"unit_price"`
		CurrencyID string  `json:"currency_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "units and unit_price are required", 400, nil)
	}
	if body.Units <= 0 {
		return response.Error(c, "Units must be a positive number", 400, nil)
	}
	if body.UnitPrice <= 0 {
		return response.Error(c, "Unit price must be a positive number", 400, nil)
	}
	currency := body.CurrencyID
	if currency == "" {
		currency = h.DefaultCurrency
	}

	record, err := h.Service.Purchase(c.Context(), userID, body.Units, body.UnitPrice, currency)
	if err != nil {
		statusMap := map[string]int{
			partsvc.ErrNotEligible.Error():       403,
			partsvc.ErrPoolNotConfigured.Error(): 500,
			partsvc.ErrInsufficientUnits.Error(): 400,
			partsvc.ErrPoolConflict.Error():      409,
		}
		if code, ok := statusMap[err.Error()]; ok {
			return response.Error(c, err.Error(), code, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.SuccessCreated(c, "Participation purchased successfully", record, nil)
}

// Pool GET /api/v1/participations/pool
func (h *Handlers) Pool(c *fiber.Ctx) error {
	summary, err := h.Service.PoolSummary(c.Context())
	if err != nil {
		if err.Error() == partsvc.ErrPoolNotConfigured.Error() {
			return response.Error(c, err.Error(), 500, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Pool summary", summary, nil)
}

// MyHolding GET /api/v1/participations/my-holding
func (h *Handlers) MyHolding(c *fiber.Ctx) error {
	actor := getActor(c)
	if actor == nil || actor.UserID == "" {
		return response.Unauthorized(c, "Unauthorized")
	}
	userID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	holding, err := h.Service.HoldingForUser(c.Context(), userID)
	if err != nil {
		if err.Error() == partsvc.ErrHoldingNotFound.Error() {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Holding retrieved", holding, nil)
}

type actor struct {
	UserID string
	Role   string
}

func getActor(c *fiber.Ctx) *actor {
	u := middleware.GetUser(c)
	if u == nil {
		return nil
	}
	m, ok := u.(map[string]interface{})
	if !ok {
		return nil
	}
	userID, _ := m["user_id"].(string)
	role, _ := m["role"].(string)
	return &actor{UserID: userID, Role: role}
}
