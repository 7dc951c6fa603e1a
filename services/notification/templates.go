package notification

import (
	"fmt"

	"driveline/models"
)

// templateFor resolves the fixed (kind, role) template pair. Dispatch is an
// exhaustive switch so an unmapped combination is a compile-visible gap with
// an explicit error, not a silent lookup miss. Templates carry no business
// logic; payload fields arrive solely as {{var}} substitutions.
func templateFor(kind models.NotificationType, role models.RecipientRole) (subject, body string, err error) {
	switch kind {
	case models.NotificationLegStartReminder:
		switch role {
		case models.RoleCustomer:
			return "Your rental day starts soon",
				"Hi {{name}}, your {{carName}} is ready for pickup at {{pickupLocation}} on {{legDate}} at {{startTime}}. Your chauffeur will meet you there.",
				nil
		case models.RoleChauffeur:
			return "Upcoming pickup assignment",
				"Hi {{name}}, you have a pickup with the {{carName}} at {{pickupLocation}} on {{legDate}} at {{startTime}} (booking {{bookingId}}).",
				nil
		}

	case models.NotificationLegEndReminder:
		switch role {
		case models.RoleCustomer:
			return "Your rental day ends soon",
				"Hi {{name}}, today's leg of your {{carName}} rental ends at {{endTime}}. Please be at {{returnLocation}} for the handover.",
				nil
		case models.RoleChauffeur:
			return "Upcoming return assignment",
				"Hi {{name}}, the {{carName}} is due back at {{returnLocation}} at {{endTime}} (booking {{bookingId}}).",
				nil
		}

	case models.NotificationTripStartReminder:
		switch role {
		case models.RoleCustomer:
			return "Your trip starts soon",
				"Hi {{name}}, your {{carName}} rental begins on {{startDate}} at {{pickupLocation}}. Have a great trip!",
				nil
		case models.RoleChauffeur:
			return "New trip starting soon",
				"Hi {{name}}, your assignment with the {{carName}} begins on {{startDate}} at {{pickupLocation}} (booking {{bookingId}}).",
				nil
		}

	case models.NotificationTripEndReminder:
		switch role {
		case models.RoleCustomer:
			return "Your trip ends soon",
				"Hi {{name}}, your {{carName}} rental ends on {{endDate}}. Please return the car at {{dropoffLocation}}.",
				nil
		case models.RoleChauffeur:
			return "Trip ending soon",
				"Hi {{name}}, the {{carName}} is due back on {{endDate}} at {{dropoffLocation}} (booking {{bookingId}}).",
				nil
		}

	case models.NotificationStatusUpdate:
		if role == models.RoleCustomer {
			return "Booking update",
				"Hi {{name}}, your booking {{bookingId}} for the {{carName}} is now {{newStatus}}.",
				nil
		}

	case models.NotificationFleetOwnerAlert:
		if role == models.RoleFleetOwner {
			return "Fleet activity: {{event}}",
				"Hi {{name}}, your {{carName}} has an update: {{event}} (booking {{bookingId}}).",
				nil
		}

	case models.NotificationOTP:
		// OTP text is the same for every role.
		return "Your verification code",
			"Hi {{name}}, your Driveline verification code is {{code}}. It expires in {{expiresInMins}} minutes.",
			nil

	case models.NotificationWelcome:
		switch role {
		case models.RoleCustomer:
			return "Welcome to Driveline",
				"Hi {{name}}, welcome aboard! Your account is ready. Book your first car whenever you like.",
				nil
		case models.RoleChauffeur:
			return "Welcome to the Driveline team",
				"Hi {{name}}, your chauffeur account is ready. You will be notified when assignments come in.",
				nil
		case models.RoleFleetOwner:
			return "Welcome to Driveline",
				"Hi {{name}}, your fleet owner account is ready. List your cars to start earning.",
				nil
		}

	case models.NotificationLoginConfirmation:
		// Login confirmations read the same for every role.
		return "New sign-in to your account",
			"Hi {{name}}, your account was signed in from {{device}} at {{signedAt}}. If this wasn't you, reset your password immediately.",
			nil

	case models.NotificationPayoutResult:
		if role == models.RoleFleetOwner {
			return "Payout {{outcome}}",
				"Hi {{name}}, your payout of {{amount}} for booking {{bookingId}} {{outcomeDetail}}.",
				nil
		}
	}

	return "", "", fmt.Errorf("no template for notification kind %s and role %s", kind, role)
}
