package notification

import (
	"context"
	"testing"

	notificationRepo "driveline/database/repository/notification"
	"driveline/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmailSender struct {
	failTo map[string]string
	sent   []EmailMessage
}

func (f *fakeEmailSender) Send(_ context.Context, msg EmailMessage) (SendResult, error) {
	if reason, ok := f.failTo[msg.To]; ok {
		return SendResult{Success: false, Error: reason}, nil
	}
	f.sent = append(f.sent, msg)
	return SendResult{Success: true, MessageID: "email-msg-1"}, nil
}

func (f *fakeEmailSender) RenderTemplate(content models.NotificationContent) string {
	return "<html><body>" + content.Body + "</body></html>"
}

type fakeSMSSender struct {
	failTo map[string]string
	sent   []SMSMessage
}

func (f *fakeSMSSender) Send(_ context.Context, msg SMSMessage) (SendResult, error) {
	if reason, ok := f.failTo[msg.To]; ok {
		return SendResult{Success: false, Error: reason}, nil
	}
	f.sent = append(f.sent, msg)
	return SendResult{Success: true, MessageID: "sms-msg-1"}, nil
}

func newTestService(t *testing.T) (*DefaultNotificationService, *notificationRepo.MemoryNotificationRepo, *fakeEmailSender, *fakeSMSSender) {
	t.Helper()
	repo := notificationRepo.NewMemoryNotificationRepo()
	email := &fakeEmailSender{failTo: map[string]string{}}
	sms := &fakeSMSSender{failTo: map[string]string{}}
	svc, err := NewDefaultNotificationService(repo, email, sms)
	require.NoError(t, err)
	return svc, repo, email, sms
}

func buildTestNotification(t *testing.T, channel models.NotificationChannel, email, phone string) *models.Notification {
	t.Helper()
	recipient, err := models.NewRecipient("u1", "Alice", models.RoleCustomer, email, phone)
	require.NoError(t, err)
	content := models.NewNotificationContent(
		"Hello {{name}}",
		"Your {{carName}} awaits, {{name}}.",
		map[string]string{"name": "Alice", "carName": "Tesla Model 3"},
	)
	n, err := models.NewNotification(models.NotificationStatusUpdate, recipient, content, channel, "b1", "")
	require.NoError(t, err)
	return n
}

func TestNewDefaultNotificationService_rejectsNilCollaborators(t *testing.T) {
	repo := notificationRepo.NewMemoryNotificationRepo()
	_, err := NewDefaultNotificationService(nil, &fakeEmailSender{}, &fakeSMSSender{})
	require.Error(t, err)
	_, err = NewDefaultNotificationService(repo, nil, &fakeSMSSender{})
	require.Error(t, err)
	_, err = NewDefaultNotificationService(repo, &fakeEmailSender{}, nil)
	require.Error(t, err)
}

func TestDeliverNotification_successMarksSentAndPersists(t *testing.T) {
	svc, repo, email, _ := newTestService(t)
	n := buildTestNotification(t, models.ChannelEmail, "alice@example.com", "")
	require.NoError(t, repo.Save(n))

	require.NoError(t, svc.DeliverNotification(context.Background(), n))

	assert.Equal(t, models.NotificationSent, n.Status)
	assert.Equal(t, 1, n.AttemptCount)

	stored, err := repo.GetByID(n.ID)
	require.NoError(t, err)
	assert.Equal(t, models.NotificationSent, stored.Status)

	// The sender saw interpolated content, the stored template stays raw.
	require.Len(t, email.sent, 1)
	assert.Equal(t, "Hello Alice", email.sent[0].Subject)
	assert.Contains(t, email.sent[0].TextContent, "Tesla Model 3")
	assert.Contains(t, stored.Content.Body, "{{carName}}")
}

func TestDeliverNotification_emailFailureMarksFailedAndRecordsAttempt(t *testing.T) {
	svc, repo, email, _ := newTestService(t)
	email.failTo["alice@example.com"] = "mailbox full"

	n := buildTestNotification(t, models.ChannelEmail, "alice@example.com", "")
	require.NoError(t, repo.Save(n))

	err := svc.DeliverNotification(context.Background(), n)
	var emailErr *EmailDeliveryError
	require.ErrorAs(t, err, &emailErr)
	assert.Contains(t, emailErr.Error(), "mailbox full")

	stored, getErr := repo.GetByID(n.ID)
	require.NoError(t, getErr)
	assert.Equal(t, models.NotificationFailed, stored.Status)
	assert.Equal(t, 1, stored.AttemptCount)
	assert.Contains(t, stored.FailureReason, "mailbox full")
}

func TestDeliverNotification_bothChannelFailsWhenSMSFails(t *testing.T) {
	svc, repo, email, sms := newTestService(t)
	sms.failTo["+254700000001"] = "gateway unreachable"

	n := buildTestNotification(t, models.ChannelBoth, "alice@example.com", "+254700000001")
	require.NoError(t, repo.Save(n))

	err := svc.DeliverNotification(context.Background(), n)
	var smsErr *SMSDeliveryError
	require.ErrorAs(t, err, &smsErr)

	// Email went out before the SMS leg failed; the attempt still fails whole.
	assert.Len(t, email.sent, 1)
	stored, getErr := repo.GetByID(n.ID)
	require.NoError(t, getErr)
	assert.Equal(t, models.NotificationFailed, stored.Status)
}

func TestProcessPendingNotifications_attemptsAllBeforeThrowing(t *testing.T) {
	svc, repo, email, _ := newTestService(t)
	email.failTo["bad@example.com"] = "hard bounce"

	good1 := buildTestNotification(t, models.ChannelEmail, "alice@example.com", "")
	bad := buildTestNotification(t, models.ChannelEmail, "bad@example.com", "")
	good2 := buildTestNotification(t, models.ChannelEmail, "carol@example.com", "")
	for _, n := range []*models.Notification{good1, bad, good2} {
		require.NoError(t, repo.Save(n))
	}

	err := svc.ProcessPendingNotifications(context.Background())
	var batchErr *BatchProcessingError
	require.ErrorAs(t, err, &batchErr)
	assert.Equal(t, 2, batchErr.Succeeded)
	assert.Equal(t, 1, batchErr.Failed)
	require.Len(t, batchErr.Errors, 1)
	assert.Contains(t, batchErr.Errors[0], "hard bounce")

	// Every item was attempted despite the failure in the middle.
	assert.Len(t, email.sent, 2)
	storedBad, getErr := repo.GetByID(bad.ID)
	require.NoError(t, getErr)
	assert.Equal(t, models.NotificationFailed, storedBad.Status)
	assert.Equal(t, 1, storedBad.AttemptCount)
}

func TestProcessPendingNotifications_cleanBatchReturnsNil(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	n := buildTestNotification(t, models.ChannelEmail, "alice@example.com", "")
	require.NoError(t, repo.Save(n))

	require.NoError(t, svc.ProcessPendingNotifications(context.Background()))

	pending, err := repo.FindPending()
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestRetryFailedNotifications_resetsAndRedelivers(t *testing.T) {
	svc, repo, email, _ := newTestService(t)
	email.failTo["alice@example.com"] = "transient"

	n := buildTestNotification(t, models.ChannelEmail, "alice@example.com", "")
	require.NoError(t, repo.Save(n))
	require.Error(t, svc.DeliverNotification(context.Background(), n))

	// The transient condition clears; the retry wave drains the failure.
	delete(email.failTo, "alice@example.com")
	require.NoError(t, svc.RetryFailedNotifications(context.Background()))

	stored, err := repo.GetByID(n.ID)
	require.NoError(t, err)
	assert.Equal(t, models.NotificationSent, stored.Status)
	assert.Equal(t, 2, stored.AttemptCount)
	assert.Empty(t, stored.FailureReason)
}

func TestRetryFailedNotifications_exhaustedNotificationsAreLeftAlone(t *testing.T) {
	svc, repo, email, _ := newTestService(t)
	email.failTo["alice@example.com"] = "permanent"

	n := buildTestNotification(t, models.ChannelEmail, "alice@example.com", "")
	require.NoError(t, repo.Save(n))

	require.Error(t, svc.DeliverNotification(context.Background(), n))
	for i := 0; i < models.MaxDeliveryAttempts-1; i++ {
		err := svc.RetryFailedNotifications(context.Background())
		var batchErr *BatchProcessingError
		require.ErrorAs(t, err, &batchErr)
	}

	stored, err := repo.GetByID(n.ID)
	require.NoError(t, err)
	assert.Equal(t, models.NotificationFailed, stored.Status)
	assert.Equal(t, models.MaxDeliveryAttempts, stored.AttemptCount)

	// Budget consumed: nothing qualifies for another wave.
	retryable, err := repo.FindRetryable()
	require.NoError(t, err)
	assert.Empty(t, retryable)
	require.NoError(t, svc.RetryFailedNotifications(context.Background()))
}

func TestSendStatusUpdate_persistsAndDelivers(t *testing.T) {
	svc, repo, _, sms := newTestService(t)

	summary, err := svc.SendStatusUpdate(context.Background(), BookingStatusUpdateData{
		BookingID: "b1",
		NewStatus: "ACTIVE",
		CarName:   "Tesla Model 3",
		Customer:  ContactInfo{ID: "u1", Name: "Alice", Phone: "+254700000001"},
	})
	require.NoError(t, err)
	assert.Contains(t, summary, "1")

	require.Len(t, sms.sent, 1)
	assert.Contains(t, sms.sent[0].Message, "ACTIVE")

	stored, err := repo.FindByBookingID("b1")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, models.NotificationSent, stored[0].Status)
}

func TestSendStatusUpdate_contactlessCustomerSendsNothing(t *testing.T) {
	svc, repo, email, sms := newTestService(t)

	summary, err := svc.SendStatusUpdate(context.Background(), BookingStatusUpdateData{
		BookingID: "b1",
		NewStatus: "ACTIVE",
		Customer:  ContactInfo{ID: "u1", Name: "Alice"},
	})
	require.NoError(t, err)
	assert.Contains(t, summary, "nothing sent")
	assert.Empty(t, email.sent)
	assert.Empty(t, sms.sent)

	stored, err := repo.FindByBookingID("b1")
	require.NoError(t, err)
	assert.Empty(t, stored)
}
