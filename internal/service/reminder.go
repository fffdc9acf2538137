package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/camp-registration/internal/config"
	"github.com/iliyamo/camp-registration/internal/mail"
	"github.com/iliyamo/camp-registration/internal/model"
)

// ReminderStore is the persistence surface the reminder sweep needs.
// repository.Store implements it; tests substitute an in-memory fake.
type ReminderStore interface {
	ListOpenPurchases(ctx context.Context) ([]model.ReminderCandidate, error)
	MarkReminded(ctx context.Context, purchaseID uint64, at time.Time) error
}

// Reminder runs the periodic sweep that nudges stalled registrations.
// Each eligible purchase is processed independently; one failed send
// never blocks the rest of the batch.
type Reminder struct {
	cfg    config.Config
	store  ReminderStore
	sender mail.Sender
	now    func() time.Time
}

// NewReminder constructs the reminder service.
func NewReminder(cfg config.Config, store ReminderStore, sender mail.Sender) *Reminder {
	if store == nil || sender == nil {
		panic("nil dependency passed to NewReminder")
	}
	return &Reminder{cfg: cfg, store: store, sender: sender, now: time.Now}
}

// SweepItem is the per-purchase outcome of one sweep.
type SweepItem struct {
	PurchaseID uint64 `json:"purchase_id"`
	Sent       bool   `json:"sent"`
	Error      string `json:"error,omitempty"`
}

// SweepSummary aggregates one sweep run.
type SweepSummary struct {
	Eligible int         `json:"eligible"`
	Sent     int         `json:"sent"`
	Failed   int         `json:"failed"`
	Items    []SweepItem `json:"items"`
}

// Sweep selects every purchase whose reminder is due and sends the
// reminder email carrying its registration link.  Counters and state
// advance only after the send is accepted, each in its own transaction,
// so a failed delivery leaves the purchase untouched and it is retried
// on the next sweep.
func (s *Reminder) Sweep(ctx context.Context) (*SweepSummary, error) {
	now := s.now().UTC()
	candidates, err := s.store.ListOpenPurchases(ctx)
	if err != nil {
		return nil, err
	}
	sum := &SweepSummary{Items: []SweepItem{}}
	for _, c := range candidates {
		if !s.eligible(c, now) {
			continue
		}
		sum.Eligible++
		item := SweepItem{PurchaseID: c.PurchaseID, Sent: true}
		link := mail.RegistrationLink(s.cfg.BaseURL, c.RegistrationToken)
		msg := mail.NewReminder(uuid.NewString(), c.GuardianEmail, c.GuardianName, c.CampName, link)
		if err := s.sender.Send(ctx, msg); err != nil {
			item.Sent = false
			item.Error = err.Error()
			sum.Failed++
			log.Printf("reminder: send failed for purchase_id=%d: %v", c.PurchaseID, err)
		} else if err := s.store.MarkReminded(ctx, c.PurchaseID, now); err != nil {
			item.Sent = false
			item.Error = err.Error()
			sum.Failed++
			log.Printf("reminder: state update failed for purchase_id=%d: %v", c.PurchaseID, err)
		} else {
			sum.Sent++
		}
		sum.Items = append(sum.Items, item)
	}
	return sum, nil
}

// eligible applies the cadence and cap policy to one candidate.  Per-camp
// overrides win over the configured defaults.  A purchase is due when its
// last reminder (or its creation, if never reminded) is at least the
// cadence in the past and the reminder count is below the cap.
func (s *Reminder) eligible(c model.ReminderCandidate, now time.Time) bool {
	if c.RegistrationState == model.StateCompleted {
		return false
	}
	maxReminders := s.cfg.MaxReminders
	if c.MaxReminders != nil {
		maxReminders = *c.MaxReminders
	}
	if c.ReminderCount >= maxReminders {
		return false
	}
	cadence := s.cfg.ReminderCadenceDays
	if c.ReminderCadenceDays != nil {
		cadence = *c.ReminderCadenceDays
	}
	last := c.PurchasedAt
	if c.LastRemindedAt != nil {
		last = *c.LastRemindedAt
	}
	return !last.After(now.Add(-time.Duration(cadence) * 24 * time.Hour))
}
