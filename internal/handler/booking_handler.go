package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/hotelhub/reservation-service/internal/dto"
	"github.com/hotelhub/reservation-service/internal/models"
	"github.com/hotelhub/reservation-service/internal/pricing"
	"github.com/hotelhub/reservation-service/internal/service"
	"github.com/labstack/echo/v4"
)

type BookingHandler struct {
	svc service.ReservationService
}

func NewBookingHandler(svc service.ReservationService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

func (h *BookingHandler) RegisterRoutes(e *echo.Echo) {
	rooms := e.Group("/api/v1/rooms")
	rooms.GET("/:id/availability", h.CheckAvailability)
	rooms.GET("/:id/quote", h.PricingPreview)
	rooms.GET("/:id/bookings", h.ListRoomBookings)

	bookings := e.Group("/api/v1/bookings")
	bookings.POST("", h.CreateBooking)
	bookings.GET("/:id", h.GetBooking)
	bookings.POST("/:id/confirm", h.Transition(models.EventConfirm))
	bookings.POST("/:id/check-in", h.Transition(models.EventCheckIn))
	bookings.POST("/:id/check-out", h.Transition(models.EventCheckOut))
	bookings.POST("/:id/cancel", h.Transition(models.EventCancel))
	bookings.POST("/:id/no-show", h.Transition(models.EventNoShow))
	bookings.PUT("/:id/payment", h.RecordPayment)
	bookings.PUT("/:id/guest", h.UpdateGuestDetails)
}

func (h *BookingHandler) CheckAvailability(c echo.Context) error {
	roomID, err := parseRoomID(c)
	if err != nil {
		return err
	}
	checkIn, checkOut, err := parseStayRange(c)
	if err != nil {
		return err
	}

	available, err := h.svc.CheckAvailability(c.Request().Context(), roomID, checkIn, checkOut)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, dto.AvailabilityResponse{
		RoomID:    roomID,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Available: available,
	})
}

func (h *BookingHandler) PricingPreview(c echo.Context) error {
	roomID, err := parseRoomID(c)
	if err != nil {
		return err
	}
	checkIn, checkOut, err := parseStayRange(c)
	if err != nil {
		return err
	}

	var discount int64
	if d := c.QueryParam("discount_cents"); d != "" {
		discount, err = strconv.ParseInt(d, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid discount_cents")
		}
	}

	quote, err := h.svc.PricingPreview(c.Request().Context(), roomID, checkIn, checkOut, discount)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, quote)
}

func (h *BookingHandler) CreateBooking(c echo.Context) error {
	var req dto.CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.UserID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}
	if req.RoomID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "room_id is required")
	}

	booking, err := h.svc.CreateBooking(c.Request().Context(), service.CreateBookingInput{
		RoomID:        req.RoomID,
		UserID:        req.UserID,
		CheckIn:       req.CheckIn,
		CheckOut:      req.CheckOut,
		Adults:        req.Adults,
		Children:      req.Children,
		DiscountCents: req.DiscountCents,
		Guest:         req.Guest,
	})
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusCreated, dto.ToBookingResponse(booking))
}

// Transition builds the handler for one lifecycle event endpoint. All
// five share the same request shape and error mapping.
func (h *BookingHandler) Transition(event models.TransitionEvent) echo.HandlerFunc {
	return func(c echo.Context) error {
		bookingID, err := parseBookingID(c)
		if err != nil {
			return err
		}

		var req dto.TransitionRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
		}
		if req.ActorRole == "" {
			req.ActorRole = models.RoleGuest
		}

		booking, err := h.svc.TransitionBooking(c.Request().Context(), service.TransitionInput{
			BookingID: bookingID,
			Event:     event,
			Actor:     req.ActorRole,
			Reason:    req.Reason,
		})
		if err != nil {
			return serviceError(err)
		}

		return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
	}
}

func (h *BookingHandler) GetBooking(c echo.Context) error {
	bookingID, err := parseBookingID(c)
	if err != nil {
		return err
	}

	booking, err := h.svc.GetBooking(c.Request().Context(), bookingID)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) ListRoomBookings(c echo.Context) error {
	roomID, err := parseRoomID(c)
	if err != nil {
		return err
	}

	var status *models.BookingStatus
	if s := c.QueryParam("status"); s != "" {
		bs := models.BookingStatus(s)
		status = &bs
	}

	bookings, err := h.svc.ListRoomBookings(c.Request().Context(), roomID, status)
	if err != nil {
		return serviceError(err)
	}

	resp := make([]dto.BookingResponse, len(bookings))
	for i, b := range bookings {
		resp[i] = dto.ToBookingResponse(&b)
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) RecordPayment(c echo.Context) error {
	bookingID, err := parseBookingID(c)
	if err != nil {
		return err
	}

	var req dto.PaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.PaymentStatus == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "payment_status is required")
	}

	booking, err := h.svc.RecordPayment(c.Request().Context(), bookingID, req.PaymentStatus, req.PaidCents, req.RefundCents)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) UpdateGuestDetails(c echo.Context) error {
	bookingID, err := parseBookingID(c)
	if err != nil {
		return err
	}

	var req models.GuestDetails
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	booking, err := h.svc.UpdateGuestDetails(c.Request().Context(), bookingID, req)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

// --- helpers ---

func parseRoomID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid room id")
	}
	return uint(id), nil
}

func parseBookingID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}
	return id, nil
}

// parseStayRange reads check_in/check_out query params, accepting either
// a calendar date or a full RFC 3339 timestamp.
func parseStayRange(c echo.Context) (time.Time, time.Time, error) {
	checkIn, err := parseDate(c.QueryParam("check_in"))
	if err != nil {
		return time.Time{}, time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "invalid check_in")
	}
	checkOut, err := parseDate(c.QueryParam("check_out"))
	if err != nil {
		return time.Time{}, time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "invalid check_out")
	}
	return checkIn, checkOut, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// serviceError maps the core's typed errors onto HTTP status codes. The
// core itself never shapes responses.
func serviceError(err error) error {
	switch {
	case errors.Is(err, service.ErrRoomNotFound),
		errors.Is(err, service.ErrBookingNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrRoomUnavailable):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrPolicyDenied):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidDateRange),
		errors.Is(err, service.ErrCapacityExceeded),
		errors.Is(err, service.ErrInvalidGuestCount),
		errors.Is(err, pricing.ErrInvalidDiscount):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
