package notification

import (
	"fmt"
	"strconv"
	"time"

	"driveline/models"
)

// The factory is pure construction logic: a typed payload goes in, zero, one
// or two PENDING notifications come out. A party without any contact
// information is skipped silently rather than failing the whole build, and
// the channel for each party is chosen by contact availability.

func channelFor(c ContactInfo) (models.NotificationChannel, bool) {
	switch {
	case c.Email != "" && c.Phone != "":
		return models.ChannelBoth, true
	case c.Email != "":
		return models.ChannelEmail, true
	case c.Phone != "":
		return models.ChannelSMS, true
	default:
		return "", false
	}
}

// buildForParty assembles one notification for one party, or nil when the
// party cannot be reached.
func buildForParty(
	kind models.NotificationType,
	party ContactInfo,
	role models.RecipientRole,
	vars map[string]string,
	bookingID, legID string,
) (*models.Notification, error) {
	channel, ok := channelFor(party)
	if !ok {
		return nil, nil
	}

	recipient, err := models.NewRecipient(party.ID, party.Name, role, party.Email, party.Phone)
	if err != nil {
		return nil, err
	}

	subject, body, err := templateFor(kind, role)
	if err != nil {
		return nil, err
	}

	partyVars := make(map[string]string, len(vars)+1)
	for k, v := range vars {
		partyVars[k] = v
	}
	partyVars["name"] = party.Name

	content := models.NewNotificationContent(subject, body, partyVars)
	return models.NewNotification(kind, recipient, content, channel, bookingID, legID)
}

// appendIfBuilt collects non-nil notifications and propagates build errors.
func appendIfBuilt(list []*models.Notification, n *models.Notification, err error) ([]*models.Notification, error) {
	if err != nil {
		return nil, err
	}
	if n != nil {
		list = append(list, n)
	}
	return list, nil
}

// BuildLegReminder produces the customer-side and chauffeur-side reminders
// for one booking leg.
func BuildLegReminder(data BookingLegReminderData) ([]*models.Notification, error) {
	kind := models.NotificationLegStartReminder
	if data.Kind == ReminderEnd {
		kind = models.NotificationLegEndReminder
	}

	vars := map[string]string{
		"bookingId":      data.BookingID,
		"carName":        data.CarName,
		"legDate":        data.LegDate.Format("Mon, 02 Jan 2006"),
		"startTime":      data.LegStartTime.Format("15:04"),
		"endTime":        data.LegEndTime.Format("15:04"),
		"pickupLocation": data.PickupLocation,
		"returnLocation": data.ReturnLocation,
	}

	var out []*models.Notification
	n, err := buildForParty(kind, data.Customer, models.RoleCustomer, vars, data.BookingID, data.LegID)
	if out, err = appendIfBuilt(out, n, err); err != nil {
		return nil, err
	}
	n, err = buildForParty(kind, data.Chauffeur, models.RoleChauffeur, vars, data.BookingID, data.LegID)
	if out, err = appendIfBuilt(out, n, err); err != nil {
		return nil, err
	}
	return out, nil
}

// BuildTripReminder produces trip-level reminders for the whole booking.
func BuildTripReminder(data TripReminderData) ([]*models.Notification, error) {
	kind := models.NotificationTripStartReminder
	if data.Kind == ReminderEnd {
		kind = models.NotificationTripEndReminder
	}

	vars := map[string]string{
		"bookingId":       data.BookingID,
		"carName":         data.CarName,
		"startDate":       data.StartDate.Format("Mon, 02 Jan 2006 15:04"),
		"endDate":         data.EndDate.Format("Mon, 02 Jan 2006 15:04"),
		"pickupLocation":  data.PickupLocation,
		"dropoffLocation": data.DropoffLocation,
	}

	var out []*models.Notification
	n, err := buildForParty(kind, data.Customer, models.RoleCustomer, vars, data.BookingID, "")
	if out, err = appendIfBuilt(out, n, err); err != nil {
		return nil, err
	}
	n, err = buildForParty(kind, data.Chauffeur, models.RoleChauffeur, vars, data.BookingID, "")
	if out, err = appendIfBuilt(out, n, err); err != nil {
		return nil, err
	}
	return out, nil
}

// BuildStatusUpdate produces the customer-facing lifecycle announcement.
func BuildStatusUpdate(data BookingStatusUpdateData) ([]*models.Notification, error) {
	vars := map[string]string{
		"bookingId": data.BookingID,
		"carName":   data.CarName,
		"newStatus": data.NewStatus,
	}
	var out []*models.Notification
	n, err := buildForParty(models.NotificationStatusUpdate, data.Customer, models.RoleCustomer, vars, data.BookingID, "")
	return appendIfBuilt(out, n, err)
}

// BuildFleetOwnerAlert produces the fleet-owner-facing activity alert.
func BuildFleetOwnerAlert(data FleetOwnerAlertData) ([]*models.Notification, error) {
	vars := map[string]string{
		"bookingId": data.BookingID,
		"carName":   data.CarName,
		"event":     data.Event,
	}
	var out []*models.Notification
	n, err := buildForParty(models.NotificationFleetOwnerAlert, data.Owner, models.RoleFleetOwner, vars, data.BookingID, "")
	return appendIfBuilt(out, n, err)
}

// BuildOTP produces the one-time password notification. The role is taken
// from the user's profile; OTP content does not vary by role.
func BuildOTP(data OTPData, role models.RecipientRole) ([]*models.Notification, error) {
	vars := map[string]string{
		"code":          data.Code,
		"expiresInMins": strconv.Itoa(data.ExpiresInMins),
	}
	var out []*models.Notification
	n, err := buildForParty(models.NotificationOTP, data.User, role, vars, "", "")
	return appendIfBuilt(out, n, err)
}

// BuildWelcome produces the registration greeting.
func BuildWelcome(data WelcomeData, role models.RecipientRole) ([]*models.Notification, error) {
	var out []*models.Notification
	n, err := buildForParty(models.NotificationWelcome, data.User, role, map[string]string{}, "", "")
	return appendIfBuilt(out, n, err)
}

// BuildLoginConfirmation produces the sign-in confirmation.
func BuildLoginConfirmation(data LoginConfirmationData, role models.RecipientRole) ([]*models.Notification, error) {
	vars := map[string]string{
		"device":   data.Device,
		"signedAt": data.SignedAt.Format(time.RFC1123),
	}
	var out []*models.Notification
	n, err := buildForParty(models.NotificationLoginConfirmation, data.User, role, vars, "", "")
	return appendIfBuilt(out, n, err)
}

// BuildPayoutResult produces the payout outcome notification for the fleet
// owner.
func BuildPayoutResult(data PayoutResultData) ([]*models.Notification, error) {
	outcome := "completed"
	outcomeDetail := "has been transferred to your account"
	if !data.Succeeded {
		outcome = "failed"
		outcomeDetail = fmt.Sprintf("could not be transferred: %s. Our team is looking into it", data.Reason)
	}
	vars := map[string]string{
		"bookingId":     data.BookingID,
		"amount":        fmt.Sprintf("%.2f %s", float64(data.Amount)/100, data.Currency),
		"outcome":       outcome,
		"outcomeDetail": outcomeDetail,
	}
	var out []*models.Notification
	n, err := buildForParty(models.NotificationPayoutResult, data.Owner, models.RoleFleetOwner, vars, data.BookingID, "")
	return appendIfBuilt(out, n, err)
}
