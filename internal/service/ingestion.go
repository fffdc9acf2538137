// Package service implements the ingestion and reminder pipelines on top
// of the repository layer.  Services depend on small store interfaces so
// the pipelines stay unit-testable without a database; the repository
// Store satisfies them in production.
package service

import (
	"context"
	"errors"
	"log"
	stdmail "net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/iliyamo/camp-registration/internal/config"
	"github.com/iliyamo/camp-registration/internal/mail"
	"github.com/iliyamo/camp-registration/internal/mailparse"
	"github.com/iliyamo/camp-registration/internal/model"
	"github.com/iliyamo/camp-registration/internal/repository"
	"github.com/iliyamo/camp-registration/internal/resolver"
	"github.com/iliyamo/camp-registration/internal/utils"
)

// Pipeline errors surfaced to the webhook handler.  Each maps to one HTTP
// status; anything else is an internal fault.
var (
	ErrUnauthorizedSender = errors.New("sender not authorized")
	ErrParseFailure       = errors.New("email could not be parsed")
	ErrCampNotFound       = errors.New("no matching camp")
	ErrCampAmbiguous      = errors.New("camp name matches multiple camps")
)

// InboundEmail is one webhook delivery of a forwarded sale email.
type InboundEmail struct {
	From       string `json:"from"`
	To         string `json:"to"`
	Subject    string `json:"subject"`
	Body       string `json:"body"`
	RawEmailID string `json:"rawEmailId"`
}

// IngestResult reports the outcome of one ingestion.  AlreadyProcessed is
// set on idempotent replays, in which case the ids refer to the rows
// created by the original delivery.
type IngestResult struct {
	AlreadyProcessed bool
	RawEmailID       string
	GuardianID       uint64
	PurchaseIDs      []uint64
}

// IngestionStore is the persistence surface the ingestion pipeline needs.
// repository.Store implements it; tests substitute an in-memory fake.
type IngestionStore interface {
	ListActiveCamps(ctx context.Context) ([]model.Camp, error)
	FindProcessed(ctx context.Context, rawEmailID string) (*model.IngestionLog, error)
	CreatePurchases(ctx context.Context, ins repository.IngestionInsert) (*repository.IngestionCreated, error)
	RecordFailure(ctx context.Context, rawEmailID, stage, message string) error
}

// Ingestion turns authenticated inbound email events into durable
// purchase records exactly once.
type Ingestion struct {
	cfg    config.Config
	store  IngestionStore
	sender mail.Sender
}

// NewIngestion constructs the ingestion service.
func NewIngestion(cfg config.Config, store IngestionStore, sender mail.Sender) *Ingestion {
	if store == nil || sender == nil {
		panic("nil dependency passed to NewIngestion")
	}
	return &Ingestion{cfg: cfg, store: store, sender: sender}
}

// Ingest runs the pipeline for one inbound email: authorize the sender,
// parse the body, resolve the camp, check idempotency and write guardian,
// purchases and audit row in one transaction.  A duplicate delivery of
// the same raw email id returns the original ids with AlreadyProcessed
// set instead of writing again.  The post-commit invitation email is best
// effort and never affects the result.
func (s *Ingestion) Ingest(ctx context.Context, in InboundEmail) (*IngestResult, error) {
	// Sender addresses compare case-insensitively; the authorized set is
	// lower-cased at config load time.
	if !s.cfg.AuthorizedSenders[normalizeAddress(in.From)] {
		// Nothing is persisted for unauthorized senders.
		return nil, ErrUnauthorizedSender
	}

	rawID := strings.TrimSpace(in.RawEmailID)
	if rawID == "" {
		rawID = utils.SyntheticEmailID(in.From, in.Subject, in.Body)
	}

	parsed, err := mailparse.Parse(in.Subject, in.Body, in.From)
	if err != nil {
		s.audit(ctx, rawID, "parse", err.Error())
		return nil, ErrParseFailure
	}

	camps, err := s.store.ListActiveCamps(ctx)
	if err != nil {
		return nil, err
	}
	camp, err := resolver.Resolve(parsed.CampName, camps)
	if err != nil {
		s.audit(ctx, rawID, "resolve", parsed.CampName+": "+err.Error())
		if errors.Is(err, resolver.ErrAmbiguous) {
			return nil, ErrCampAmbiguous
		}
		return nil, ErrCampNotFound
	}

	if prior, err := s.store.FindProcessed(ctx, rawID); err != nil {
		return nil, err
	} else if prior != nil {
		return replay(rawID, prior), nil
	}

	quantity := parsed.Quantity
	if quantity < 1 {
		quantity = 1
	}
	tokens := make([]string, 0, quantity)
	for i := 0; i < quantity; i++ {
		tok, err := utils.RandomToken(32)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}

	created, err := s.store.CreatePurchases(ctx, repository.IngestionInsert{
		RawEmailID:       rawID,
		GuardianEmail:    parsed.GuardianEmail,
		GuardianName:     parsed.GuardianName,
		CampID:           camp.ID,
		Quantity:         quantity,
		AmountCentsTotal: uint32(parsed.Amount*100 + 0.5),
		Currency:         s.cfg.DefaultCurrency,
		Tokens:           tokens,
	})
	if errors.Is(err, repository.ErrDuplicateEvent) {
		// A concurrent delivery won the race on the dedupe index; report
		// its rows instead of failing.
		if prior, lerr := s.store.FindProcessed(ctx, rawID); lerr == nil && prior != nil {
			return replay(rawID, prior), nil
		}
		return nil, err
	}
	if err != nil {
		s.audit(ctx, rawID, "persist", err.Error())
		return nil, err
	}

	links := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		links = append(links, mail.RegistrationLink(s.cfg.BaseURL, tok))
	}
	msg := mail.NewInvitation(uuid.NewString(), parsed.GuardianEmail, parsed.GuardianName, camp.Name, links)
	if err := s.sender.Send(ctx, msg); err != nil {
		// The purchase rows are already committed; the reminder sweep
		// will nudge the guardian if this invitation never arrives.
		log.Printf("ingest: invitation email failed for raw_email_id=%s: %v", rawID, err)
	}

	return &IngestResult{
		RawEmailID:  rawID,
		GuardianID:  created.GuardianID,
		PurchaseIDs: created.PurchaseIDs,
	}, nil
}

// audit appends a failure row to the ingestion log, best effort.
func (s *Ingestion) audit(ctx context.Context, rawID, stage, message string) {
	if err := s.store.RecordFailure(ctx, rawID, stage, message); err != nil {
		log.Printf("ingest: audit write failed for raw_email_id=%s stage=%s: %v", rawID, stage, err)
	}
}

// replay builds the idempotent result for a previously processed email.
func replay(rawID string, prior *model.IngestionLog) *IngestResult {
	res := &IngestResult{AlreadyProcessed: true, RawEmailID: rawID, PurchaseIDs: prior.PurchaseIDs}
	if prior.GuardianID != nil {
		res.GuardianID = *prior.GuardianID
	}
	return res
}

// normalizeAddress lowers and trims a sender address, unwrapping a
// display name ("Jane <jane@example.com>") when present.
func normalizeAddress(from string) string {
	s := strings.TrimSpace(from)
	if addr, err := stdmail.ParseAddress(s); err == nil {
		s = addr.Address
	}
	return strings.ToLower(s)
}
