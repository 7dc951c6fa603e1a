package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	bookingRepo "driveline/database/repository/booking"
	"driveline/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLifecycleRepo struct {
	bookingRepo.BookingRepository
	activation []*models.Booking
	completion []*models.Booking
	findErr    error
	updateErr  error
	updated    []*models.Booking
}

func (s *stubLifecycleRepo) FindEligibleForActivation(time.Time) ([]*models.Booking, error) {
	return s.activation, s.findErr
}

func (s *stubLifecycleRepo) FindEligibleForCompletion(time.Time) ([]*models.Booking, error) {
	return s.completion, s.findErr
}

func (s *stubLifecycleRepo) UpdateStatus(b *models.Booking) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updated = append(s.updated, b)
	return nil
}

type recordingEvents struct {
	mu        sync.Mutex
	activated []string
	completed []string
}

func (r *recordingEvents) BookingActivated(_ context.Context, bookingID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.activated = append(r.activated, bookingID)
}

func (r *recordingEvents) BookingCompleted(_ context.Context, bookingID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed = append(r.completed, bookingID)
}

func lifecycleFixture(t *testing.T, status models.BookingStatus) *models.Booking {
	t.Helper()
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	b, err := models.NewBooking("cust1", "car1", start, start.Add(24*time.Hour), "Airport", "Downtown")
	require.NoError(t, err)
	b.Status = status
	b.PaymentStatus = models.PaymentPaid
	return b
}

func TestActivateDueBookings_transitionsAndFiresEvents(t *testing.T) {
	b1 := lifecycleFixture(t, models.BookingConfirmed)
	b2 := lifecycleFixture(t, models.BookingConfirmed)
	repo := &stubLifecycleRepo{activation: []*models.Booking{b1, b2}}
	events := &recordingEvents{}
	svc := &DefaultLifecycleService{Repo: repo, Events: events}

	count, err := svc.ActivateDueBookings(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, models.BookingActive, b1.Status)
	assert.Len(t, repo.updated, 2)
	assert.ElementsMatch(t, []string{b1.ID, b2.ID}, events.activated)
}

func TestActivateDueBookings_skipsIllegalTransition(t *testing.T) {
	// A booking that slipped into the candidate set in the wrong state is
	// skipped, not fatal.
	wrong := lifecycleFixture(t, models.BookingActive)
	ok := lifecycleFixture(t, models.BookingConfirmed)
	repo := &stubLifecycleRepo{activation: []*models.Booking{wrong, ok}}
	svc := &DefaultLifecycleService{Repo: repo}

	count, err := svc.ActivateDueBookings(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Len(t, repo.updated, 1)
	assert.Equal(t, ok.ID, repo.updated[0].ID)
}

func TestActivateDueBookings_persistFailureSuppressesEvent(t *testing.T) {
	b := lifecycleFixture(t, models.BookingConfirmed)
	repo := &stubLifecycleRepo{activation: []*models.Booking{b}, updateErr: errors.New("mongo down")}
	events := &recordingEvents{}
	svc := &DefaultLifecycleService{Repo: repo, Events: events}

	count, err := svc.ActivateDueBookings(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, events.activated)
}

func TestCompleteDueBookings_transitionsAndFiresEvents(t *testing.T) {
	b := lifecycleFixture(t, models.BookingActive)
	repo := &stubLifecycleRepo{completion: []*models.Booking{b}}
	events := &recordingEvents{}
	svc := &DefaultLifecycleService{Repo: repo, Events: events}

	count, err := svc.CompleteDueBookings(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, models.BookingCompleted, b.Status)
	assert.Equal(t, []string{b.ID}, events.completed)
}

func TestLifecycleScans_repoFailurePropagates(t *testing.T) {
	repo := &stubLifecycleRepo{findErr: errors.New("mongo down")}
	svc := &DefaultLifecycleService{Repo: repo}

	_, err := svc.ActivateDueBookings(context.Background(), time.Now())
	require.Error(t, err)
	_, err = svc.CompleteDueBookings(context.Background(), time.Now())
	require.Error(t, err)
}

func TestLifecycleScans_nilEventsIsSafe(t *testing.T) {
	b := lifecycleFixture(t, models.BookingConfirmed)
	repo := &stubLifecycleRepo{activation: []*models.Booking{b}}
	svc := &DefaultLifecycleService{Repo: repo}

	count, err := svc.ActivateDueBookings(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
