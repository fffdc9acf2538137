package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/camp-registration/internal/mail"
	"github.com/iliyamo/camp-registration/internal/model"
	"github.com/iliyamo/camp-registration/internal/repository"
)

// RegistrationHandler serves the guardian-facing registration routes
// reached through the token-bearing links in invitation and reminder
// emails.  Guardians never see internal errors: every failure on these
// routes degrades to the same generic invalid-link message so the token
// namespace cannot be probed.
type RegistrationHandler struct {
	Store  *repository.Store
	Sender mail.Sender
}

// NewRegistrationHandler constructs a RegistrationHandler.  All
// dependencies must be non-nil.
func NewRegistrationHandler(store *repository.Store, sender mail.Sender) *RegistrationHandler {
	if store == nil || sender == nil {
		panic("nil dependency passed to NewRegistrationHandler")
	}
	return &RegistrationHandler{Store: store, Sender: sender}
}

// linkInvalid is the single guardian-facing failure response.
func linkInvalid(c echo.Context) error {
	return c.JSON(http.StatusNotFound, echo.Map{"error": "link invalid or expired"})
}

// Lookup handles GET /v1/registrations/:token.  It resolves the token to
// the purchase it grants and returns the camp, product and amount details
// the registration page renders.  Unknown tokens and already completed
// purchases both answer with the generic invalid-link message.
func (h *RegistrationHandler) Lookup(c echo.Context) error {
	token := c.Param("token")
	if token == "" {
		return linkInvalid(c)
	}
	det, err := h.Store.Purchases.GetByToken(c.Request().Context(), token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return linkInvalid(c)
		}
		log.Printf("registration: lookup failed: %v", err)
		return linkInvalid(c)
	}
	if det.RegistrationState == model.StateCompleted {
		return linkInvalid(c)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": det})
}

// Submit handles POST /v1/registrations/:token.  The body carries the
// form answers as a JSON object.  Within one transaction the purchase
// advances to completed and the registration row is created; the state
// guard and the unique purchase index together reject replays, which also
// degrade to the generic invalid-link message.  The confirmation email is
// sent after commit, best effort.
func (h *RegistrationHandler) Submit(c echo.Context) error {
	token := c.Param("token")
	if token == "" {
		return linkInvalid(c)
	}
	var body struct {
		Answers map[string]any `json:"answers"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if len(body.Answers) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "answers is required"})
	}

	ctx := c.Request().Context()
	det, err := h.Store.Purchases.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return linkInvalid(c)
		}
		log.Printf("registration: lookup failed: %v", err)
		return linkInvalid(c)
	}

	tx, err := h.Store.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := h.Store.Purchases.CompleteTx(ctx, tx, det.ID); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return linkInvalid(c)
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to complete registration"})
	}
	if err := h.Store.Registrations.CreateTx(ctx, tx, det.ID, body.Answers); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return linkInvalid(c)
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save registration"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	msg := mail.NewConfirmation(uuid.NewString(), det.GuardianEmail, det.GuardianName, det.CampName)
	if err := h.Sender.Send(ctx, msg); err != nil {
		log.Printf("registration: confirmation email failed for purchase_id=%d: %v", det.ID, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"purchase_id": det.ID,
		"state":       "completed",
	})
}
