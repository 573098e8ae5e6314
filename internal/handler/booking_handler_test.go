package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hotelhub/reservation-service/internal/dto"
	"github.com/hotelhub/reservation-service/internal/models"
	"github.com/hotelhub/reservation-service/internal/pricing"
	"github.com/hotelhub/reservation-service/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock ReservationService ---

type mockReservationService struct {
	checkAvailabilityFn func(ctx context.Context, roomID uint, checkIn, checkOut time.Time) (bool, error)
	pricingPreviewFn    func(ctx context.Context, roomID uint, checkIn, checkOut time.Time, discountCents int64) (*pricing.Quote, error)
	createFn            func(ctx context.Context, in service.CreateBookingInput) (*models.Booking, error)
	transitionFn        func(ctx context.Context, in service.TransitionInput) (*models.Booking, error)
	getFn               func(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	listFn              func(ctx context.Context, roomID uint, status *models.BookingStatus) ([]models.Booking, error)
	recordPaymentFn     func(ctx context.Context, id uuid.UUID, paymentStatus string, paidCents, refundCents int64) (*models.Booking, error)
	updateGuestFn       func(ctx context.Context, id uuid.UUID, guest models.GuestDetails) (*models.Booking, error)
}

func (m *mockReservationService) CheckAvailability(ctx context.Context, roomID uint, checkIn, checkOut time.Time) (bool, error) {
	return m.checkAvailabilityFn(ctx, roomID, checkIn, checkOut)
}
func (m *mockReservationService) PricingPreview(ctx context.Context, roomID uint, checkIn, checkOut time.Time, discountCents int64) (*pricing.Quote, error) {
	return m.pricingPreviewFn(ctx, roomID, checkIn, checkOut, discountCents)
}
func (m *mockReservationService) CreateBooking(ctx context.Context, in service.CreateBookingInput) (*models.Booking, error) {
	return m.createFn(ctx, in)
}
func (m *mockReservationService) TransitionBooking(ctx context.Context, in service.TransitionInput) (*models.Booking, error) {
	return m.transitionFn(ctx, in)
}
func (m *mockReservationService) GetBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	return m.getFn(ctx, id)
}
func (m *mockReservationService) ListRoomBookings(ctx context.Context, roomID uint, status *models.BookingStatus) ([]models.Booking, error) {
	return m.listFn(ctx, roomID, status)
}
func (m *mockReservationService) RecordPayment(ctx context.Context, id uuid.UUID, paymentStatus string, paidCents, refundCents int64) (*models.Booking, error) {
	return m.recordPaymentFn(ctx, id, paymentStatus, paidCents, refundCents)
}
func (m *mockReservationService) UpdateGuestDetails(ctx context.Context, id uuid.UUID, guest models.GuestDetails) (*models.Booking, error) {
	return m.updateGuestFn(ctx, id, guest)
}

// --- Helpers ---

func sampleBooking() *models.Booking {
	return &models.Booking{
		ID:               uuid.MustParse("5f0c2e1a-9d45-4f2e-b8a3-1c7d6e5f4a3b"),
		RoomID:           1,
		UserID:           "user-1",
		CheckIn:          time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:         time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		Adults:           2,
		Nights:           3,
		RateCents:        10000,
		SubtotalCents:    30000,
		TaxCents:         5400,
		FinalAmountCents: 35400,
		Status:           models.StatusPending,
		PaymentStatus:    "unpaid",
		CreatedAt:        time.Now(),
	}
}

// --- Tests ---

func TestCreateBooking_Handler_Success(t *testing.T) {
	svc := &mockReservationService{
		createFn: func(ctx context.Context, in service.CreateBookingInput) (*models.Booking, error) {
			b := sampleBooking()
			b.UserID = in.UserID
			return b, nil
		},
	}

	e := echo.New()
	body := `{"room_id":1,"user_id":"user-1","check_in":"2024-03-01T00:00:00Z","check_out":"2024-03-04T00:00:00Z","adults":2}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewBookingHandler(svc)
	err := h.CreateBooking(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "user-1", resp.UserID)
	assert.Equal(t, models.StatusPending, resp.Status)
	assert.Equal(t, int64(35400), resp.FinalAmountCents)
}

func TestCreateBooking_Handler_Conflict(t *testing.T) {
	svc := &mockReservationService{
		createFn: func(ctx context.Context, in service.CreateBookingInput) (*models.Booking, error) {
			return nil, service.ErrRoomUnavailable
		},
	}

	e := echo.New()
	body := `{"room_id":1,"user_id":"user-1","check_in":"2024-03-01T00:00:00Z","check_out":"2024-03-04T00:00:00Z","adults":2}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewBookingHandler(svc)
	err := h.CreateBooking(c)

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusConflict, he.Code)
}

func TestCreateBooking_Handler_MissingUserID(t *testing.T) {
	e := echo.New()
	body := `{"room_id":1,"check_in":"2024-03-01T00:00:00Z","check_out":"2024-03-04T00:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewBookingHandler(&mockReservationService{})
	err := h.CreateBooking(c)

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestCheckAvailability_Handler(t *testing.T) {
	svc := &mockReservationService{
		checkAvailabilityFn: func(ctx context.Context, roomID uint, checkIn, checkOut time.Time) (bool, error) {
			return true, nil
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/rooms/1/availability?check_in=2024-03-01&check_out=2024-03-04", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewBookingHandler(svc)
	err := h.CheckAvailability(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.AvailabilityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Available)
	assert.Equal(t, uint(1), resp.RoomID)
}

func TestCheckAvailability_Handler_BadDates(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/rooms/1/availability?check_in=notadate&check_out=2024-03-04", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewBookingHandler(&mockReservationService{})
	err := h.CheckAvailability(c)

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestPricingPreview_Handler(t *testing.T) {
	svc := &mockReservationService{
		pricingPreviewFn: func(ctx context.Context, roomID uint, checkIn, checkOut time.Time, discountCents int64) (*pricing.Quote, error) {
			return &pricing.Quote{
				Nights:           3,
				RateCents:        10000,
				SubtotalCents:    30000,
				TaxCents:         5400,
				DiscountCents:    discountCents,
				FinalAmountCents: 35400 - discountCents,
			}, nil
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/rooms/1/quote?check_in=2024-03-01&check_out=2024-03-04&discount_cents=400", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewBookingHandler(svc)
	err := h.PricingPreview(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var quote pricing.Quote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &quote))
	assert.Equal(t, int64(35000), quote.FinalAmountCents)
}

func TestTransition_Handler_InvalidTransition(t *testing.T) {
	svc := &mockReservationService{
		transitionFn: func(ctx context.Context, in service.TransitionInput) (*models.Booking, error) {
			return nil, service.ErrInvalidTransition
		},
	}

	e := echo.New()
	body := `{"actor_role":"staff"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/5f0c2e1a-9d45-4f2e-b8a3-1c7d6e5f4a3b/check-out", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("5f0c2e1a-9d45-4f2e-b8a3-1c7d6e5f4a3b")

	h := NewBookingHandler(svc)
	err := h.Transition(models.EventCheckOut)(c)

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusConflict, he.Code)
}

func TestTransition_Handler_DefaultsToGuestActor(t *testing.T) {
	var gotActor models.ActorRole
	svc := &mockReservationService{
		transitionFn: func(ctx context.Context, in service.TransitionInput) (*models.Booking, error) {
			gotActor = in.Actor
			b := sampleBooking()
			b.Status = models.StatusCancelled
			return b, nil
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/5f0c2e1a-9d45-4f2e-b8a3-1c7d6e5f4a3b/cancel", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("5f0c2e1a-9d45-4f2e-b8a3-1c7d6e5f4a3b")

	h := NewBookingHandler(svc)
	err := h.Transition(models.EventCancel)(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.RoleGuest, gotActor)
}

func TestGetBooking_Handler_NotFound(t *testing.T) {
	svc := &mockReservationService{
		getFn: func(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
			return nil, service.ErrBookingNotFound
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/5f0c2e1a-9d45-4f2e-b8a3-1c7d6e5f4a3b", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("5f0c2e1a-9d45-4f2e-b8a3-1c7d6e5f4a3b")

	h := NewBookingHandler(svc)
	err := h.GetBooking(c)

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusNotFound, he.Code)
}

func TestGetBooking_Handler_InvalidID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/123", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("123")

	h := NewBookingHandler(&mockReservationService{})
	err := h.GetBooking(c)

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestListRoomBookings_Handler_FiltersByStatus(t *testing.T) {
	var gotStatus *models.BookingStatus
	svc := &mockReservationService{
		listFn: func(ctx context.Context, roomID uint, status *models.BookingStatus) ([]models.Booking, error) {
			gotStatus = status
			return []models.Booking{*sampleBooking()}, nil
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/rooms/1/bookings?status=confirmed", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewBookingHandler(svc)
	err := h.ListRoomBookings(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotStatus)
	assert.Equal(t, models.StatusConfirmed, *gotStatus)

	var resp []dto.BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp, 1)
}

func TestRecordPayment_Handler(t *testing.T) {
	svc := &mockReservationService{
		recordPaymentFn: func(ctx context.Context, id uuid.UUID, paymentStatus string, paidCents, refundCents int64) (*models.Booking, error) {
			b := sampleBooking()
			b.PaymentStatus = paymentStatus
			b.PaidCents = paidCents
			return b, nil
		},
	}

	e := echo.New()
	body := `{"payment_status":"paid","paid_cents":35400}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/bookings/5f0c2e1a-9d45-4f2e-b8a3-1c7d6e5f4a3b/payment", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("5f0c2e1a-9d45-4f2e-b8a3-1c7d6e5f4a3b")

	h := NewBookingHandler(svc)
	err := h.RecordPayment(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "paid", resp.PaymentStatus)
}
