package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/camp-registration/internal/service"
)

// ReminderHandler exposes the scheduler-invoked sweep endpoint.  The cron
// system authenticates with a signed job token (see middleware.JobAuth);
// the request carries no body.
type ReminderHandler struct {
	Svc *service.Reminder
}

// NewReminderHandler constructs a ReminderHandler.  The service must be
// non-nil.
func NewReminderHandler(svc *service.Reminder) *ReminderHandler {
	if svc == nil {
		panic("nil service passed to NewReminderHandler")
	}
	return &ReminderHandler{Svc: svc}
}

// Run handles POST /v1/reminders/run.  It executes one sweep and returns
// the per-purchase summary.  The sweep itself tolerates partial failure,
// so a 200 here only means the batch ran; individual send failures are
// reported in the results.
func (h *ReminderHandler) Run(c echo.Context) error {
	sum, err := h.Svc.Sweep(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   "reminder sweep failed",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":   true,
		"message":   "reminder sweep completed",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"results":   sum,
	})
}
