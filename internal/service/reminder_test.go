package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"fmt"
	"strings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/camp-registration/internal/mail"
	"github.com/iliyamo/camp-registration/internal/model"
)

// fakeReminderStore is an in-memory ReminderStore.
type fakeReminderStore struct {
	candidates []model.ReminderCandidate
	marked     []uint64
	listErr    error
	markErr    error
}

func (f *fakeReminderStore) ListOpenPurchases(ctx context.Context) ([]model.ReminderCandidate, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.candidates, nil
}

func (f *fakeReminderStore) MarkReminded(ctx context.Context, purchaseID uint64, at time.Time) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.marked = append(f.marked, purchaseID)
	return nil
}

// frozen pins the sweep clock so cadence math is exact.
var frozen = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func newReminderAt(store ReminderStore, sender mail.Sender) *Reminder {
	r := NewReminder(testConfig(), store, sender)
	r.now = func() time.Time { return frozen }
	return r
}

func candidate(id uint64, state string, count int, last *time.Time, purchased time.Time) model.ReminderCandidate {
	return model.ReminderCandidate{
		PurchaseID:        id,
		RegistrationToken: fmt.Sprintf("tok-%d", id),
		RegistrationState: state,
		ReminderCount:     count,
		LastRemindedAt:    last,
		PurchasedAt:       purchased,
		GuardianEmail:     "a@b.com",
		GuardianName:      "A B",
		CampName:          "Summer Camp 2026",
	}
}

func daysAgo(n int) time.Time { return frozen.Add(-time.Duration(n) * 24 * time.Hour) }

func TestSweepSendsWhenCadenceElapsed(t *testing.T) {
	store := &fakeReminderStore{candidates: []model.ReminderCandidate{
		candidate(1, model.StateUninvited, 0, nil, daysAgo(7)),
	}}
	sender := &fakeSender{}
	sum, err := newReminderAt(store, sender).Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Eligible)
	assert.Equal(t, 1, sum.Sent)
	assert.Equal(t, 0, sum.Failed)
	assert.Equal(t, []uint64{1}, store.marked)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, mail.TemplateReminder, sender.sent[0].Template)
	assert.Contains(t, sender.sent[0].Text, "/register/tok-1")
}

func TestSweepSkipsFreshPurchase(t *testing.T) {
	store := &fakeReminderStore{candidates: []model.ReminderCandidate{
		candidate(1, model.StateUninvited, 0, nil, daysAgo(3)),
	}}
	sender := &fakeSender{}
	sum, err := newReminderAt(store, sender).Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Eligible)
	assert.Empty(t, sender.sent)
	assert.Empty(t, store.marked)
}

func TestSweepCadenceCountsFromLastReminder(t *testing.T) {
	// Purchased long ago but reminded two days ago: not due yet.
	last := daysAgo(2)
	store := &fakeReminderStore{candidates: []model.ReminderCandidate{
		candidate(1, model.StateInvited, 1, &last, daysAgo(30)),
	}}
	sum, err := newReminderAt(store, &fakeSender{}).Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Eligible)

	// Reminded a full cadence ago: due again.
	last = daysAgo(7)
	store.candidates[0].LastRemindedAt = &last
	sum, err = newReminderAt(store, &fakeSender{}).Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Sent)
}

func TestSweepRespectsReminderCap(t *testing.T) {
	last := daysAgo(30)
	store := &fakeReminderStore{candidates: []model.ReminderCandidate{
		candidate(1, model.StateInvited, 3, &last, daysAgo(90)),
	}}
	sender := &fakeSender{}
	sum, err := newReminderAt(store, sender).Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Eligible)
	assert.Empty(t, sender.sent)
}

func TestSweepSkipsCompleted(t *testing.T) {
	store := &fakeReminderStore{candidates: []model.ReminderCandidate{
		candidate(1, model.StateCompleted, 0, nil, daysAgo(30)),
	}}
	sum, err := newReminderAt(store, &fakeSender{}).Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Eligible)
}

func TestSweepPerCampOverridesWin(t *testing.T) {
	shortCadence := 2
	bigCap := 10

	// Default cadence is 7; the camp override of 2 makes day 3 due.
	c1 := candidate(1, model.StateUninvited, 0, nil, daysAgo(3))
	c1.ReminderCadenceDays = &shortCadence

	// Default cap is 3; the camp override of 10 keeps count 5 eligible.
	last := daysAgo(8)
	c2 := candidate(2, model.StateInvited, 5, &last, daysAgo(60))
	c2.MaxReminders = &bigCap

	store := &fakeReminderStore{candidates: []model.ReminderCandidate{c1, c2}}
	sum, err := newReminderAt(store, &fakeSender{}).Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Sent)
	assert.ElementsMatch(t, []uint64{1, 2}, store.marked)
}

func TestSweepOneFailureDoesNotAbortBatch(t *testing.T) {
	store := &fakeReminderStore{candidates: []model.ReminderCandidate{
		candidate(1, model.StateUninvited, 0, nil, daysAgo(10)),
		candidate(2, model.StateUninvited, 0, nil, daysAgo(10)),
		candidate(3, model.StateUninvited, 0, nil, daysAgo(10)),
	}}
	sender := &selectiveSender{failLink: "/register/tok-2"}
	sum, err := newReminderAt(store, sender).Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Eligible)
	assert.Equal(t, 2, sum.Sent)
	assert.Equal(t, 1, sum.Failed)

	// The failed purchase keeps its state and is retried next sweep.
	assert.ElementsMatch(t, []uint64{1, 3}, store.marked)

	require.Len(t, sum.Items, 3)
	for _, item := range sum.Items {
		if item.PurchaseID == 2 {
			assert.False(t, item.Sent)
			assert.NotEmpty(t, item.Error)
		} else {
			assert.True(t, item.Sent)
		}
	}
}

// selectiveSender fails the send whose body carries failLink.
type selectiveSender struct {
	failLink string
	sent     int
}

func (s *selectiveSender) Send(ctx context.Context, msg mail.Message) error {
	if s.failLink != "" && strings.Contains(msg.Text, s.failLink) {
		return errors.New("smtp 451 temporary failure")
	}
	s.sent++
	return nil
}

func TestSweepMarkFailureCountsAsFailed(t *testing.T) {
	store := &fakeReminderStore{
		candidates: []model.ReminderCandidate{candidate(1, model.StateUninvited, 0, nil, daysAgo(10))},
		markErr:    errors.New("db down"),
	}
	sum, err := newReminderAt(store, &fakeSender{}).Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Failed)
	assert.Equal(t, 0, sum.Sent)
}

func TestSweepListErrorPropagates(t *testing.T) {
	boom := errors.New("db down")
	store := &fakeReminderStore{listErr: boom}
	_, err := newReminderAt(store, &fakeSender{}).Sweep(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestSweepEmptyBatch(t *testing.T) {
	store := &fakeReminderStore{}
	sum, err := newReminderAt(store, &fakeSender{}).Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Eligible)
	assert.Empty(t, sum.Items)
}
