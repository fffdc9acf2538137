package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/camp-registration/internal/service"
)

// IngestHandler exposes the inbound email webhook.  The email forwarding
// system posts one JSON document per forwarded sale email; the handler
// translates pipeline errors into precise statuses so forwarding-side
// operators can diagnose rejections.
type IngestHandler struct {
	Svc *service.Ingestion
}

// NewIngestHandler constructs an IngestHandler.  The service must be
// non-nil.
func NewIngestHandler(svc *service.Ingestion) *IngestHandler {
	if svc == nil {
		panic("nil service passed to NewIngestHandler")
	}
	return &IngestHandler{Svc: svc}
}

// Ingest handles POST /v1/ingest.  The body carries
// {from, to, subject, body, rawEmailId?}.  First-time success returns 201
// with the created purchase and guardian ids; a duplicate delivery of the
// same raw email id returns 200 with the original ids and no new writes.
// Unauthorized senders get 401, parse failures 400, unresolvable camps
// 404 and persistence faults 500.
func (h *IngestHandler) Ingest(c echo.Context) error {
	var in service.InboundEmail
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if in.From == "" || in.Body == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "from and body are required"})
	}

	res, err := h.Svc.Ingest(c.Request().Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthorizedSender):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "sender not authorized"})
		case errors.Is(err, service.ErrParseFailure):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "email could not be parsed", "details": "Product and Buyer Email fields are required"})
		case errors.Is(err, service.ErrCampNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no matching camp"})
		case errors.Is(err, service.ErrCampAmbiguous):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "camp name matches multiple camps"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "ingestion failed"})
		}
	}

	if res.AlreadyProcessed {
		return c.JSON(http.StatusOK, echo.Map{
			"message":      "Record already processed",
			"purchase_ids": res.PurchaseIDs,
		})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"purchase_ids": res.PurchaseIDs,
		"guardian_id":  res.GuardianID,
	})
}
