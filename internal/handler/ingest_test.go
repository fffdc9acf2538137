package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/camp-registration/internal/config"
	"github.com/iliyamo/camp-registration/internal/mail"
	"github.com/iliyamo/camp-registration/internal/model"
	"github.com/iliyamo/camp-registration/internal/repository"
	"github.com/iliyamo/camp-registration/internal/service"
)

// webhookStore backs the ingestion service with in-memory state so the
// handler's status mapping can be exercised end to end.
type webhookStore struct {
	camps     []model.Camp
	processed map[string]*model.IngestionLog
	nextID    uint64
}

func newWebhookStore(camps ...model.Camp) *webhookStore {
	return &webhookStore{camps: camps, processed: map[string]*model.IngestionLog{}, nextID: 1}
}

func (s *webhookStore) ListActiveCamps(ctx context.Context) ([]model.Camp, error) {
	return s.camps, nil
}

func (s *webhookStore) FindProcessed(ctx context.Context, rawEmailID string) (*model.IngestionLog, error) {
	return s.processed[rawEmailID], nil
}

func (s *webhookStore) CreatePurchases(ctx context.Context, ins repository.IngestionInsert) (*repository.IngestionCreated, error) {
	guardianID := s.nextID
	s.nextID++
	ids := make([]uint64, 0, ins.Quantity)
	for i := 0; i < ins.Quantity; i++ {
		ids = append(ids, s.nextID)
		s.nextID++
	}
	s.processed[ins.RawEmailID] = &model.IngestionLog{
		RawEmailID:  ins.RawEmailID,
		Status:      model.IngestionSuccess,
		GuardianID:  &guardianID,
		PurchaseIDs: ids,
	}
	return &repository.IngestionCreated{GuardianID: guardianID, PurchaseIDs: ids}, nil
}

func (s *webhookStore) RecordFailure(ctx context.Context, rawEmailID, stage, message string) error {
	return nil
}

type noopSender struct{}

func (noopSender) Send(ctx context.Context, msg mail.Message) error { return nil }

func newIngestHandler(store service.IngestionStore) *IngestHandler {
	cfg := config.Config{
		BaseURL:           "https://camps.example.com",
		AuthorizedSenders: map[string]bool{"sales@shop.example.com": true},
		DefaultCurrency:   "USD",
	}
	return NewIngestHandler(service.NewIngestion(cfg, store, noopSender{}))
}

func postIngest(t *testing.T, h *IngestHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/ingest", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Ingest(e.NewContext(req, rec)))
	return rec
}

func saleBody(rawID string) string {
	payload := map[string]string{
		"from":       "sales@shop.example.com",
		"to":         "ingest@camps.example.com",
		"subject":    "Fwd: New sale",
		"body":       "Product: Summer Camp 2026\nBuyer Email: a@b.com\nBuyer Name: A B\nAmount: 500",
		"rawEmailId": rawID,
	}
	b, _ := json.Marshal(payload)
	return string(b)
}

func summerCamp() model.Camp {
	return model.Camp{ID: 1, Name: "Summer Camp 2026", Year: 2026, Status: model.CampStatusActive, CreatedAt: time.Now()}
}

func TestIngestEndpointCreates(t *testing.T) {
	h := newIngestHandler(newWebhookStore(summerCamp()))
	rec := postIngest(t, h, saleBody("msg-001"))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		PurchaseIDs []uint64 `json:"purchase_ids"`
		GuardianID  uint64   `json:"guardian_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotZero(t, resp.GuardianID)
	assert.Len(t, resp.PurchaseIDs, 1)
}

func TestIngestEndpointDuplicateReturns200(t *testing.T) {
	h := newIngestHandler(newWebhookStore(summerCamp()))
	first := postIngest(t, h, saleBody("msg-001"))
	require.Equal(t, http.StatusCreated, first.Code)

	second := postIngest(t, h, saleBody("msg-001"))
	assert.Equal(t, http.StatusOK, second.Code)

	var resp struct {
		Message     string   `json:"message"`
		PurchaseIDs []uint64 `json:"purchase_ids"`
	}
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &resp))
	assert.Equal(t, "Record already processed", resp.Message)
	assert.Len(t, resp.PurchaseIDs, 1)
}

func TestIngestEndpointStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{
			name: "unauthorized sender",
			body: `{"from":"stranger@evil.example.com","body":"Product: Summer Camp 2026\nBuyer Email: a@b.com"}`,
			want: http.StatusUnauthorized,
		},
		{
			name: "unparsable body",
			body: `{"from":"sales@shop.example.com","body":"no labels here"}`,
			want: http.StatusBadRequest,
		},
		{
			name: "unknown camp",
			body: `{"from":"sales@shop.example.com","body":"Product: Space Camp\nBuyer Email: a@b.com"}`,
			want: http.StatusNotFound,
		},
		{
			name: "missing from",
			body: `{"body":"Product: Summer Camp 2026\nBuyer Email: a@b.com"}`,
			want: http.StatusBadRequest,
		},
		{
			name: "missing body",
			body: `{"from":"sales@shop.example.com"}`,
			want: http.StatusBadRequest,
		},
		{
			name: "malformed json",
			body: `{"from":`,
			want: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newIngestHandler(newWebhookStore(summerCamp()))
			rec := postIngest(t, h, tt.body)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestIngestEndpointAmbiguousCampReturns404(t *testing.T) {
	store := newWebhookStore(
		summerCamp(),
		model.Camp{ID: 2, Name: "Summer Camp 2026", Year: 2026, Status: model.CampStatusActive, CreatedAt: time.Now()},
	)
	h := newIngestHandler(store)
	rec := postIngest(t, h, saleBody("msg-001"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
