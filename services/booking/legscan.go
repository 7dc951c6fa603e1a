package booking

import (
	"context"
	"time"

	bookingRepo "driveline/database/repository/booking"
	directoryRepo "driveline/database/repository/directory"
	"driveline/models"
	"driveline/services/notification"
	"driveline/utils"

	"go.uber.org/zap"
)

// Fallback display values used when a collaborator fetch fails. A missing
// name never blocks a reminder.
const (
	FallbackCustomerName  = "Customer"
	FallbackChauffeurName = "Chauffeur"
	FallbackCarName       = "your rental car"
)

// DefaultLegScanService is the production LegScanService.
type DefaultLegScanService struct {
	Repo     bookingRepo.BookingRepository
	Users    directoryRepo.UserDirectory
	Fleet    directoryRepo.FleetDirectory
	Notifier notification.NotificationService
	// Window is the reminder lookahead; [now, now+Window).
	Window time.Duration
}

func (s *DefaultLegScanService) window(now time.Time) bookingRepo.TimeWindow {
	return bookingRepo.TimeWindow{From: now, To: now.Add(s.Window)}
}

// eligible checks the booking-level preconditions shared by both reminder
// kinds: paid, chauffeur assigned, and the status required for the kind.
func eligible(b *models.Booking, wantStatus models.BookingStatus) bool {
	return b.Status == wantStatus &&
		b.PaymentStatus == models.PaymentPaid &&
		b.HasChauffeur()
}

// ProcessStartReminders scans [now, now+window) for legs starting and sends a
// start reminder for each eligible one. A failure for one leg is logged and
// does not abort the scan; the processed count is returned.
func (s *DefaultLegScanService) ProcessStartReminders(ctx context.Context, now time.Time) (int, error) {
	legs, err := s.Repo.FindLegsStartingInWindow(s.window(now))
	if err != nil {
		return 0, err
	}
	return s.remindLegs(ctx, legs, notification.ReminderStart, models.BookingConfirmed), nil
}

// ProcessEndReminders scans [now, now+window) for legs ending and sends an
// end reminder for each eligible one.
func (s *DefaultLegScanService) ProcessEndReminders(ctx context.Context, now time.Time) (int, error) {
	legs, err := s.Repo.FindLegsEndingInWindow(s.window(now))
	if err != nil {
		return 0, err
	}
	return s.remindLegs(ctx, legs, notification.ReminderEnd, models.BookingActive), nil
}

func (s *DefaultLegScanService) remindLegs(ctx context.Context, legs []bookingRepo.LegWithBooking, kind notification.ReminderKind, wantStatus models.BookingStatus) int {
	logger := utils.GetLogger()
	processed := 0

	for _, lwb := range legs {
		if !eligible(lwb.Booking, wantStatus) {
			continue
		}

		data := s.gatherLegData(lwb, kind)
		summary, err := s.Notifier.SendBookingLegReminder(ctx, data)
		if err != nil {
			logger.Warn("leg reminder failed",
				zap.String("booking_id", lwb.Booking.ID),
				zap.String("leg_id", lwb.Leg.ID),
				zap.String("kind", string(kind)),
				zap.Error(err),
			)
			continue
		}

		logger.Info("leg reminder processed",
			zap.String("booking_id", lwb.Booking.ID),
			zap.String("leg_id", lwb.Leg.ID),
			zap.String("kind", string(kind)),
			zap.String("summary", summary),
		)
		processed++
	}
	return processed
}

// gatherLegData fans out to the profile and fleet directories with the
// settle-all strategy: a failed fetch degrades to a fallback display value
// instead of aborting the reminder.
func (s *DefaultLegScanService) gatherLegData(lwb bookingRepo.LegWithBooking, kind notification.ReminderKind) notification.BookingLegReminderData {
	logger := utils.GetLogger()
	b := lwb.Booking

	var (
		customer  utils.Settled[*models.UserProfile]
		chauffeur utils.Settled[*models.UserProfile]
		car       utils.Settled[*models.CarInfo]
	)
	utils.SettleAll(
		utils.Settle(&customer, func() (*models.UserProfile, error) { return s.Users.GetUserByID(b.CustomerID) }),
		utils.Settle(&chauffeur, func() (*models.UserProfile, error) { return s.Users.GetUserByID(b.ChauffeurID) }),
		utils.Settle(&car, func() (*models.CarInfo, error) { return s.Fleet.GetCarByID(b.CarID) }),
	)

	for _, failure := range []struct {
		what string
		err  error
	}{
		{"customer", customer.Err},
		{"chauffeur", chauffeur.Err},
		{"car", car.Err},
	} {
		if failure.err != nil {
			logger.Warn("collaborator fetch failed, using fallback",
				zap.String("booking_id", b.ID),
				zap.String("collaborator", failure.what),
				zap.Error(failure.err),
			)
		}
	}

	return notification.BookingLegReminderData{
		BookingID:      b.ID,
		LegID:          lwb.Leg.ID,
		Kind:           kind,
		LegDate:        lwb.Leg.LegDate,
		LegStartTime:   lwb.Leg.LegStartTime,
		LegEndTime:     lwb.Leg.LegEndTime,
		PickupLocation: lwb.Leg.PickupLocation,
		ReturnLocation: lwb.Leg.ReturnLocation,
		CarName:        carName(car),
		Customer:       contactFromProfile(customer, FallbackCustomerName, b.CustomerID),
		Chauffeur:      contactFromProfile(chauffeur, FallbackChauffeurName, b.ChauffeurID),
	}
}

func carName(car utils.Settled[*models.CarInfo]) string {
	if car.Err != nil || car.Value == nil {
		return FallbackCarName
	}
	return car.Value.DisplayName
}

// contactFromProfile converts a settled profile fetch into a ContactInfo. A
// failed fetch keeps the fallback name with no contact channels, so the
// factory skips that side rather than erroring.
func contactFromProfile(p utils.Settled[*models.UserProfile], fallbackName, id string) notification.ContactInfo {
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
