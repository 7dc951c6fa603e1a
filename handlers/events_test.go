package handlers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBookingEvents struct {
	calls []string
}

func (f *fakeBookingEvents) record(event, id string) { f.calls = append(f.calls, event+":"+id) }

func (f *fakeBookingEvents) BookingActivated(_ context.Context, bookingID string) {
	f.record("activated", bookingID)
}
func (f *fakeBookingEvents) BookingCompleted(_ context.Context, bookingID string) {
	f.record("completed", bookingID)
}
func (f *fakeBookingEvents) BookingCancelled(_ context.Context, bookingID string) {
	f.record("cancelled", bookingID)
}
func (f *fakeBookingEvents) ChauffeurAssigned(_ context.Context, bookingID, chauffeurID string) {
	f.record("assigned", bookingID+"/"+chauffeurID)
}
func (f *fakeBookingEvents) ChauffeurUnassigned(_ context.Context, bookingID, chauffeurID string) {
	f.record("unassigned", bookingID+"/"+chauffeurID)
}
func (f *fakeBookingEvents) PaymentVerified(_ context.Context, bookingID string) {
	f.record("payment", bookingID)
}

type fakeAccountEvents struct {
	calls  []string
	otpErr error
}

func (f *fakeAccountEvents) UserRegistered(_ context.Context, userID string) {
	f.calls = append(f.calls, "registered:"+userID)
}
func (f *fakeAccountEvents) UserLoggedIn(_ context.Context, userID, device string) {
	f.calls = append(f.calls, "login:"+userID)
}
func (f *fakeAccountEvents) FleetOwnerApproved(_ context.Context, ownerID string) {
	f.calls = append(f.calls, "approved:"+ownerID)
}
func (f *fakeAccountEvents) OTPGenerated(_ context.Context, userID, code string, expiresInMins int) error {
	f.calls = append(f.calls, "otp:"+userID)
	return f.otpErr
}

func postJSON(t *testing.T, handler gin.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	handler(c)
	return w
}

func TestBookingEventHandler_dispatchesByType(t *testing.T) {
	bookings := &fakeBookingEvents{}
	h := NewEventsHandler(bookings, &fakeAccountEvents{})

	w := postJSON(t, h.BookingEventHandler, `{"type":"booking.completed","bookingId":"b1"}`)
	assert.Equal(t, http.StatusAccepted, w.Code)

	w = postJSON(t, h.BookingEventHandler, `{"type":"booking.chauffeur_assigned","bookingId":"b1","chauffeurId":"ch1"}`)
	assert.Equal(t, http.StatusAccepted, w.Code)

	require.Equal(t, []string{"completed:b1", "assigned:b1/ch1"}, bookings.calls)
}

func TestBookingEventHandler_rejectsBadPayloads(t *testing.T) {
	bookings := &fakeBookingEvents{}
	h := NewEventsHandler(bookings, &fakeAccountEvents{})

	w := postJSON(t, h.BookingEventHandler, `{"type":"booking.completed"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, h.BookingEventHandler, `{"type":"booking.exploded","bookingId":"b1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Empty(t, bookings.calls)
}

func TestAccountEventHandler_otpFailureIsBadGateway(t *testing.T) {
	accounts := &fakeAccountEvents{otpErr: errors.New("delivery failed")}
	h := NewEventsHandler(&fakeBookingEvents{}, accounts)

	w := postJSON(t, h.AccountEventHandler, `{"type":"account.otp_generated","userId":"u1","code":"482913","expiresInMins":10}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, []string{"otp:u1"}, accounts.calls)
}

func TestAccountEventHandler_otpRequiresCode(t *testing.T) {
	accounts := &fakeAccountEvents{}
	h := NewEventsHandler(&fakeBookingEvents{}, accounts)

	w := postJSON(t, h.AccountEventHandler, `{"type":"account.otp_generated","userId":"u1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, accounts.calls)
}

func TestAccountEventHandler_acceptsLifecycleEvents(t *testing.T) {
	accounts := &fakeAccountEvents{}
	h := NewEventsHandler(&fakeBookingEvents{}, accounts)

	w := postJSON(t, h.AccountEventHandler, `{"type":"account.registered","userId":"u1"}`)
	assert.Equal(t, http.StatusAccepted, w.Code)

	w = postJSON(t, h.AccountEventHandler, `{"type":"account.logged_in","userId":"u1","device":"iPhone"}`)
	assert.Equal(t, http.StatusAccepted, w.Code)

	require.Equal(t, []string{"registered:u1", "login:u1"}, accounts.calls)
}
