package distribution

import (
	distsvc "github.com/cdnmeta/paraguay.cuentaverificada-sub001/internal/application/distribution"
	"github.com/cdnmeta/paraguay.cuentaverificada-sub001/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *distsvc.Service
}

// Run POST /api/v1/distributions/run — distributes one paid invoice's
// profit. Invoked by the payment-confirmation workflow.
func (h *Handlers) Run(c *fiber.Ctx) error {
	var body struct {
		InvoiceID string `json:"invoice_id"`
		FirstSale bool   `json:"first_sale"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "invoice_id is required", 400, nil)
	}
	if body.InvoiceID == "" {
		return response.Error(c, "invoice_id is required", 400, nil)
	}
	invoiceID, err := uuid.Parse(body.InvoiceID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for invoice_id", 400, nil)
	}

	shares, err := h.Service.Distribute(c.Context(), invoiceID, body.FirstSale)
	if err != nil {
		statusMap := map[string]int{
			distsvc.ErrInvoiceNotFound.Error():    404,
			distsvc.ErrInvoiceNotEligible.Error(): 400,
			distsvc.ErrAlreadyDistributed.Error(): 409,
			distsvc.ErrPoolConflict.Error():       409,
			distsvc.ErrConfigMissing.Error():      500,
			distsvc.ErrPoolNotConfigured.Error():  500,
			distsvc.ErrRoundingDrift.Error():      500,
		}
		if code, ok := statusMap[err.Error()]; ok {
			return response.Error(c, err.Error(), code, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.SuccessCreated(c, "Profit distributed successfully", shares, fiber.Map{
		"share_count": len(shares),
	})
}

// SharesForInvoice GET /api/v1/distributions/invoice/:invoice_id
func (h *Handlers) SharesForInvoice(c *fiber.Ctx) error {
	invoiceID, err := uuid.Parse(c.Params("invoice_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for invoice_id", 400, nil)
	}

	shares, err := h.Service.SharesForInvoice(c.Context(), invoiceID)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Distribution shares retrieved", shares, fiber.Map{
		"share_count": len(shares),
	})
}
