package orchestrator

import (
	"context"

	bookingRepo "driveline/database/repository/booking"
	directoryRepo "driveline/database/repository/directory"
	"driveline/models"
	"driveline/services/notification"
	"driveline/services/payout"
	"driveline/utils"

	"go.uber.org/zap"
)

// Fallback display values when a collaborator fetch fails mid-saga.
const (
	fallbackCustomerName  = "Customer"
	fallbackChauffeurName = "Chauffeur"
	fallbackOwnerName     = "Fleet Owner"
	fallbackCarName       = "your rental car"
)

// DefaultBookingOrchestrator implements BookingEvents.
type DefaultBookingOrchestrator struct {
	Bookings bookingRepo.BookingRepository
	Users    directoryRepo.UserDirectory
	Fleet    directoryRepo.FleetDirectory
	Notifier notification.NotificationService
	Payouts  payout.PayoutService
}

// loadBooking fetches the primary aggregate. A missing booking means the
// event is stale or the aggregate was deleted: log and drop, never retry.
func (o *DefaultBookingOrchestrator) loadBooking(event, bookingID string) *models.Booking {
	b, err := o.Bookings.FindByID(bookingID)
	if err != nil {
		utils.GetLogger().Warn("orchestrator: booking not found, dropping event",
			zap.String("event", event),
			zap.String("booking_id", bookingID),
			zap.Error(err),
		)
		return nil
	}
	return b
}

// gather fans out to customer and car lookups; each failure degrades to its
// fallback value.
func (o *DefaultBookingOrchestrator) gather(b *models.Booking) (customer notification.ContactInfo, carName, ownerID string) {
	var (
		customerFetch utils.Settled[*models.UserProfile]
		carFetch      utils.Settled[*models.CarInfo]
	)
	utils.SettleAll(
		utils.Settle(&customerFetch, func() (*models.UserProfile, error) { return o.Users.GetUserByID(b.CustomerID) }),
		utils.Settle(&carFetch, func() (*models.CarInfo, error) { return o.Fleet.GetCarByID(b.CarID) }),
	)

	logger := utils.GetLogger()
	if customerFetch.Err != nil {
		logger.Warn("orchestrator: customer fetch failed, using fallback",
			zap.String("booking_id", b.ID), zap.Error(customerFetch.Err))
	}
	if carFetch.Err != nil {
		logger.Warn("orchestrator: car fetch failed, using fallback",
			zap.String("booking_id", b.ID), zap.Error(carFetch.Err))
	}

	customer = contactInfo(customerFetch, fallbackCustomerName, b.CustomerID)
	carName = fallbackCarName
	if carFetch.Err == nil && carFetch.Value != nil {
		carName = carFetch.Value.DisplayName
		ownerID = carFetch.Value.OwnerID
	}
	return customer, carName, ownerID
}

// notifyStatus is the shared "announce a lifecycle change" step.
func (o *DefaultBookingOrchestrator) notifyStatus(ctx context.Context, b *models.Booking, customer notification.ContactInfo, carName, newStatus string) {
	_, err := o.Notifier.SendStatusUpdate(ctx, notification.BookingStatusUpdateData{
		BookingID: b.ID,
		NewStatus: newStatus,
		CarName:   carName,
		Customer:  customer,
	})
	if err != nil {
		utils.GetLogger().Warn("orchestrator: status update notification failed",
			zap.String("booking_id", b.ID), zap.String("status", newStatus), zap.Error(err))
	}
}

// notifyOwner alerts the fleet owner about activity on their car. The owner
// profile is fetched here because it is only known once the car fetch
// succeeded.
func (o *DefaultBookingOrchestrator) notifyOwner(ctx context.Context, b *models.Booking, carName, ownerID, event string) {
	if ownerID == "" {
		return
	}
	var ownerFetch utils.Settled[*models.UserProfile]
	utils.SettleAll(
		utils.Settle(&ownerFetch, func() (*models.UserProfile, error) { return o.Users.GetUserByID(ownerID) }),
	)
	owner := contactInfo(ownerFetch, fallbackOwnerName, ownerID)

	_, err := o.Notifier.SendFleetOwnerAlert(ctx, notification.FleetOwnerAlertData{
		BookingID: b.ID,
		CarName:   carName,
		Event:     event,
		Owner:     owner,
	})
	if err != nil {
		utils.GetLogger().Warn("orchestrator: fleet owner alert failed",
			zap.String("booking_id", b.ID), zap.String("event", event), zap.Error(err))
	}
}

// BookingActivated notifies the customer that their rental has started.
func (o *DefaultBookingOrchestrator) BookingActivated(ctx context.Context, bookingID string) {
	b := o.loadBooking("booking.activated", bookingID)
	if b == nil {
		return
	}
	customer, carName, ownerID := o.gather(b)

	utils.SettleAll(
		func() { o.notifyStatus(ctx, b, customer, carName, string(models.BookingActive)) },
		func() { o.notifyOwner(ctx, b, carName, ownerID, "rental started") },
	)
}

// BookingCompleted notifies both sides and initiates the owner payout. The
// three branches run concurrently; one branch's failure never suppresses the
// others.
func (o *DefaultBookingOrchestrator) BookingCompleted(ctx context.Context, bookingID string) {
	b := o.loadBooking("booking.completed", bookingID)
	if b == nil {
		return
	}
	customer, carName, ownerID := o.gather(b)

	utils.SettleAll(
		func() { o.notifyStatus(ctx, b, customer, carName, string(models.BookingCompleted)) },
		func() { o.notifyOwner(ctx, b, carName, ownerID, "rental completed") },
		func() {
			if ownerID == "" {
				// Money movement needs a replay once the fleet record is back.
				utils.GetLogger().Warn("orchestrator: payout initiation skipped, owner unknown",
					zap.String("booking_id", b.ID), zap.String("car_id", b.CarID))
				return
			}
			if o.Payouts == nil {
				return
			}
			if err := o.Payouts.InitiateTransfer(ctx, b.ID, ownerID, b.TotalPriceCents); err != nil {
				utils.GetLogger().Warn("orchestrator: payout initiation failed",
					zap.String("booking_id", b.ID), zap.Error(err))
			}
		},
	)
}

// BookingCancelled notifies the customer and the fleet owner.
func (o *DefaultBookingOrchestrator) BookingCancelled(ctx context.Context, bookingID string) {
	b := o.loadBooking("booking.cancelled", bookingID)
	if b == nil {
		return
	}
	customer, carName, ownerID := o.gather(b)

	utils.SettleAll(
		func() { o.notifyStatus(ctx, b, customer, carName, string(models.BookingCancelled)) },
		func() { o.notifyOwner(ctx, b, carName, ownerID, "rental cancelled") },
	)
}

// PaymentVerified confirms the booking was paid for.
func (o *DefaultBookingOrchestrator) PaymentVerified(ctx context.Context, bookingID string) {
	b := o.loadBooking("payment.verified", bookingID)
	if b == nil {
		return
	}
	customer, carName, _ := o.gather(b)
	o.notifyStatus(ctx, b, customer, carName, string(models.BookingConfirmed))
}

// ChauffeurAssigned briefs the chauffeur on their new trip and tells the
// customer a chauffeur is confirmed. Both branches run concurrently.
func (o *DefaultBookingOrchestrator) ChauffeurAssigned(ctx context.Context, bookingID, chauffeurID string) {
	b := o.loadBooking("chauffeur.assigned", bookingID)
	if b == nil {
		return
	}

	var (
		customerFetch  utils.Settled[*models.UserProfile]
		chauffeurFetch utils.Settled[*models.UserProfile]
		carFetch       utils.Settled[*models.CarInfo]
	)
	utils.SettleAll(
		utils.Settle(&customerFetch, func() (*models.UserProfile, error) { return o.Users.GetUserByID(b.CustomerID) }),
		utils.Settle(&chauffeurFetch, func() (*models.UserProfile, error) { return o.Users.GetUserByID(chauffeurID) }),
		utils.Settle(&carFetch, func() (*models.CarInfo, error) { return o.Fleet.GetCarByID(b.CarID) }),
	)

	carName := fallbackCarName
	if carFetch.Err == nil && carFetch.Value != nil {
		carName = carFetch.Value.DisplayName
	}

	utils.SettleAll(
		func() {
			_, err := o.Notifier.SendTripReminder(ctx, notification.TripReminderData{
				BookingID:       b.ID,
				Kind:            notification.ReminderStart,
				StartDate:       b.StartDate,
				EndDate:         b.EndDate,
				PickupLocation:  b.PickupLocation,
				DropoffLocation: b.DropoffLocation,
				CarName:         carName,
				Chauffeur:       contactInfo(chauffeurFetch, fallbackChauffeurName, chauffeurID),
			})
			if err != nil {
				utils.GetLogger().Warn("orchestrator: chauffeur briefing failed",
					zap.String("booking_id", b.ID), zap.Error(err))
			}
		},
		func() {
			o.notifyStatus(ctx, b, contactInfo(customerFetch, fallbackCustomerName, b.CustomerID), carName, "confirmed with a chauffeur")
		},
	)
}

// ChauffeurUnassigned tells the customer their chauffeur changed; a
// replacement assignment will trigger its own ChauffeurAssigned event.
func (o *DefaultBookingOrchestrator) ChauffeurUnassigned(ctx context.Context, bookingID, chauffeurID string) {
	b := o.loadBooking("chauffeur.unassigned", bookingID)
	if b == nil {
		return
	}
	customer, carName, _ := o.gather(b)
	o.notifyStatus(ctx, b, customer, carName, "awaiting a new chauffeur")
}

// contactInfo converts a settled profile fetch into a ContactInfo, degrading
// to the fallback name with no contact channels on failure so the factory
// skips that side.
func contactInfo(p utils.Settled[*models.UserProfile], fallbackName, id string) notification.ContactInfo {
	if p.Err != nil || p.Value == nil {
		return notification.ContactInfo{ID: id, Name: fallbackName}
	}
	return notification.ContactInfo{
		ID:    p.Value.ID,
		Name:  p.Value.Name,
		Email: p.Value.Email,
		Phone: p.Value.Phone,
	}
}
