package handlers

import (
	"net/http"

	"driveline/services/orchestrator"
	"driveline/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EventsHandler is the ingress for domain events posted by the other
// platform services. Events are acknowledged as soon as the orchestrator
// has run; per-branch delivery failures are logged inside the orchestrator
// and do not surface here, except for OTP where a dropped code locks the
// user out.
type EventsHandler struct {
	Bookings orchestrator.BookingEvents
	Accounts orchestrator.AccountEvents
}

// NewEventsHandler builds the event ingress handler.
func NewEventsHandler(bookings orchestrator.BookingEvents, accounts orchestrator.AccountEvents) *EventsHandler {
	return &EventsHandler{Bookings: bookings, Accounts: accounts}
}

type bookingEventRequest struct {
	Type        string `json:"type" binding:"required"`
	BookingID   string `json:"bookingId" binding:"required"`
	ChauffeurID string `json:"chauffeurId"`
}

// BookingEventHandler dispatches booking lifecycle events.
func (h *EventsHandler) BookingEventHandler(c *gin.Context) {
	var req bookingEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid event payload", err.Error())
		return
	}

	ctx := c.Request.Context()
	switch req.Type {
	case "booking.activated":
		h.Bookings.BookingActivated(ctx, req.BookingID)
	case "booking.completed":
		h.Bookings.BookingCompleted(ctx, req.BookingID)
	case "booking.cancelled":
		h.Bookings.BookingCancelled(ctx, req.BookingID)
	case "booking.payment_verified":
		h.Bookings.PaymentVerified(ctx, req.BookingID)
	case "booking.chauffeur_assigned":
		h.Bookings.ChauffeurAssigned(ctx, req.BookingID, req.ChauffeurID)
	case "booking.chauffeur_unassigned":
		h.Bookings.ChauffeurUnassigned(ctx, req.BookingID, req.ChauffeurID)
	default:
		utils.JSONError(c, http.StatusBadRequest, "unknown event type", req.Type)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"event": req.Type, "bookingId": req.BookingID})
}

type accountEventRequest struct {
	Type          string `json:"type" binding:"required"`
	UserID        string `json:"userId" binding:"required"`
	Device        string `json:"device"`
	Code          string `json:"code"`
	ExpiresInMins int    `json:"expiresInMins"`
}

// AccountEventHandler dispatches account events.
func (h *EventsHandler) AccountEventHandler(c *gin.Context) {
	var req accountEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid event payload", err.Error())
		return
	}

	ctx := c.Request.Context()
	switch req.Type {
	case "account.registered":
		h.Accounts.UserRegistered(ctx, req.UserID)
	case "account.logged_in":
		h.Accounts.UserLoggedIn(ctx, req.UserID, req.Device)
	case "account.fleet_owner_approved":
		h.Accounts.FleetOwnerApproved(ctx, req.UserID)
	case "account.otp_generated":
		if req.Code == "" {
			utils.JSONError(c, http.StatusBadRequest, "otp event requires a code", "")
			return
		}
		if err := h.Accounts.OTPGenerated(ctx, req.UserID, req.Code, req.ExpiresInMins); err != nil {
			utils.GetLogger().Error("otp delivery failed",
				zap.String("user_id", req.UserID), zap.Error(err))
			utils.JSONError(c, http.StatusBadGateway, "otp delivery failed", err.Error())
			return
		}
	default:
		utils.JSONError(c, http.StatusBadRequest, "unknown event type", req.Type)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"event": req.Type, "userId": req.UserID})
}
