package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"voltfind/internal/booking"
	"voltfind/internal/domain"
	"voltfind/internal/service"
)

const dateLayout = "2006-01-02"

// BookingHandler handles HTTP requests for booking sessions.
type BookingHandler struct {
	bookingService *service.BookingService
	maxAdvanceDays int
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingService *service.BookingService, maxAdvanceDays int) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		maxAdvanceDays: maxAdvanceDays,
	}
}

// CreateBookingRequest is the HTTP request body for opening a booking session.
type CreateBookingRequest struct {
	ChargerID string `json:"charger_id"`
}

// SelectDateRequest is the HTTP request body for choosing a date.
type SelectDateRequest struct {
	Date string `json:"date"` // YYYY-MM-DD
}

// SelectTimeRequest is the HTTP request body for choosing a time slot.
type SelectTimeRequest struct {
	Time string `json:"time"`
}

// SelectDurationRequest is the HTTP request body for choosing a duration.
type SelectDurationRequest struct {
	Minutes int `json:"minutes"`
}

// UpdatePaymentRequest is the HTTP request body for editing payment fields.
// Omitted fields are left unchanged.
type UpdatePaymentRequest struct {
	CardholderName *string `json:"cardholder_name"`
	CardNumber     *string `json:"card_number"`
	Expiry         *string `json:"expiry"`
	CVC            *string `json:"cvc"`
}

// ChargerInfoResponse is the charger summary shown during booking.
type ChargerInfoResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Address       string  `json:"address"`
	Speed         string  `json:"speed"`
	PricePerKWh   float64 `json:"price_per_kwh"`
	ConnectorType string  `json:"connector_type"`
}

// PaymentFieldsResponse echoes the payment fields without exposing the card.
type PaymentFieldsResponse struct {
	CardholderName string `json:"cardholder_name"`
	CardLast4      string `json:"card_last4,omitempty"`
	CardComplete   bool   `json:"card_complete"`
	Expiry         string `json:"expiry"`
	CVCProvided    bool   `json:"cvc_provided"`
}

// QuoteResponse is the cost summary.
type QuoteResponse struct {
	EnergyKWh      float64 `json:"energy_kwh"`
	ChargingCost   string  `json:"charging_cost"`
	ReservationFee string  `json:"reservation_fee"`
	Total          string  `json:"total"`
}

// ConfirmationResponse is returned once a booking is paid.
type ConfirmationResponse struct {
	Code        string `json:"code"`
	PaymentID   string `json:"payment_id"`
	Amount      string `json:"amount"`
	ConfirmedAt string `json:"confirmed_at"`
}

// BookingResponse is the HTTP response for a booking session.
type BookingResponse struct {
	ID                string                `json:"id"`
	Step              string                `json:"step"`
	Charger           ChargerInfoResponse   `json:"charger"`
	Date              string                `json:"date,omitempty"`
	Time              string                `json:"time,omitempty"`
	DurationMinutes   int                   `json:"duration_minutes"`
	Payment           PaymentFieldsResponse `json:"payment"`
	Processing        bool                  `json:"processing"`
	Complete          bool                  `json:"complete"`
	CanProceed        bool                  `json:"can_proceed"`
	PaymentReady      bool                  `json:"payment_ready"`
	PaymentAttempts   int                   `json:"payment_attempts"`
	RemainingAttempts int                   `json:"remaining_attempts"`
	LastPaymentError  string                `json:"last_payment_error,omitempty"`
	Quote             QuoteResponse         `json:"quote"`
	Confirmation      *ConfirmationResponse `json:"confirmation,omitempty"`
}

// PaymentDeclinedResponse is returned when a charge is declined.
type PaymentDeclinedResponse struct {
	Error   string          `json:"error"`
	Booking BookingResponse `json:"booking"`
}

// CatalogResponse lists the selectable slots and durations.
type CatalogResponse struct {
	TimeSlots      []domain.TimeSlot       `json:"time_slots"`
	Durations      []domain.DurationOption `json:"durations"`
	ReservationFee string                  `json:"reservation_fee"`
	MaxAdvanceDays int                     `json:"max_advance_days"`
}

// PaymentAttemptResponse is one entry of a session's payment history.
type PaymentAttemptResponse struct {
	ID        string `json:"id"`
	Amount    string `json:"amount"`
	Status    string `json:"status"`
	Attempt   int    `json:"attempt"`
	CreatedAt string `json:"created_at"`
}

// ReceiptResponse is the HTTP response for a booking receipt.
type ReceiptResponse struct {
	ID               string `json:"id"`
	ConfirmationCode string `json:"confirmation_code"`
	Total            string `json:"total"`
	Text             string `json:"text"`
}

func (h *BookingHandler) toResponse(session *domain.BookingSession) BookingResponse {
	view := h.bookingService.View(session)
	d := session.Draft

	resp := BookingResponse{
		ID:   session.ID,
		Step: string(session.Step),
		Charger: ChargerInfoResponse{
			ID:            session.Charger.ID,
			Name:          session.Charger.Name,
			Address:       session.Charger.Address,
			Speed:         session.Charger.Speed,
			PricePerKWh:   session.Charger.PricePerKWh,
			ConnectorType: session.Charger.ConnectorType,
		},
		Time:            d.Time,
		DurationMinutes: d.DurationMinutes,
		Payment: PaymentFieldsResponse{
			CardholderName: d.Payment.CardholderName,
			CardLast4:      cardLast4(d.Payment.CardNumber),
			CardComplete:   len(d.Payment.CardNumber) >= booking.CardNumberMaxLen,
			Expiry:         d.Payment.Expiry,
			CVCProvided:    len(d.Payment.CVC) >= booking.CVCMinLen,
		},
		Processing:        view.Processing,
		Complete:          d.Complete,
		CanProceed:        view.CanProceed,
		PaymentReady:      view.PaymentReady,
		PaymentAttempts:   d.PaymentAttempts,
		RemainingAttempts: view.RemainingAttempts,
		LastPaymentError:  d.LastPaymentError,
		Quote: QuoteResponse{
			EnergyKWh:      view.Quote.EnergyKWh,
			ChargingCost:   booking.FormatAmount(view.Quote.ChargingCost),
			ReservationFee: booking.FormatAmount(view.Quote.ReservationFee),
			Total:          booking.FormatAmount(view.Quote.Total),
		},
	}

	if d.Date != nil {
		resp.Date = d.Date.Format(dateLayout)
	}

	if c := session.Confirmation; c != nil {
		resp.Confirmation = &ConfirmationResponse{
			Code:        c.Code,
			PaymentID:   c.PaymentID,
			Amount:      booking.FormatAmount(c.Amount),
			ConfirmedAt: c.ConfirmedAt.Format(time.RFC3339),
		}
	}

	return resp
}

// Catalog handles GET /v1/bookings/catalog
func (h *BookingHandler) Catalog(c *gin.Context) {
	respondJSON(c, http.StatusOK, CatalogResponse{
		TimeSlots:      booking.TimeSlots(),
		Durations:      booking.Durations(),
		ReservationFee: booking.FormatAmount(booking.ReservationFee),
		MaxAdvanceDays: h.maxAdvanceDays,
	})
}

// Create handles POST /v1/bookings
func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.ChargerID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "charger_id is required"})
		return
	}

	session, err := h.bookingService.Open(c.Request.Context(), req.ChargerID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, h.toResponse(session))
}

// Get handles GET /v1/bookings/:id
func (h *BookingHandler) Get(c *gin.Context) {
	session, err := h.bookingService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, h.toResponse(session))
}

// SelectDate handles PUT /v1/bookings/:id/date
func (h *BookingHandler) SelectDate(c *gin.Context) {
	var req SelectDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "date must be formatted as YYYY-MM-DD"})
		return
	}

	h.respondSession(c, func() (*domain.BookingSession, error) {
		return h.bookingService.SelectDate(c.Request.Context(), c.Param("id"), date)
	})
}

// SelectTime handles PUT /v1/bookings/:id/time
func (h *BookingHandler) SelectTime(c *gin.Context) {
	var req SelectTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	h.respondSession(c, func() (*domain.BookingSession, error) {
		return h.bookingService.SelectTime(c.Request.Context(), c.Param("id"), req.Time)
	})
}

// SelectDuration handles PUT /v1/bookings/:id/duration
func (h *BookingHandler) SelectDuration(c *gin.Context) {
	var req SelectDurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	h.respondSession(c, func() (*domain.BookingSession, error) {
		return h.bookingService.SelectDuration(c.Request.Context(), c.Param("id"), req.Minutes)
	})
}

// Next handles POST /v1/bookings/:id/next
func (h *BookingHandler) Next(c *gin.Context) {
	h.respondSession(c, func() (*domain.BookingSession, error) {
		return h.bookingService.Next(c.Request.Context(), c.Param("id"))
	})
}

// Back handles POST /v1/bookings/:id/back
func (h *BookingHandler) Back(c *gin.Context) {
	h.respondSession(c, func() (*domain.BookingSession, error) {
		return h.bookingService.Back(c.Request.Context(), c.Param("id"))
	})
}

// UpdatePayment handles PUT /v1/bookings/:id/payment
func (h *BookingHandler) UpdatePayment(c *gin.Context) {
	var req UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	h.respondSession(c, func() (*domain.BookingSession, error) {
		return h.bookingService.UpdatePayment(c.Request.Context(), c.Param("id"), booking.PaymentUpdate{
			CardholderName: req.CardholderName,
			CardNumber:     req.CardNumber,
			Expiry:         req.Expiry,
			CVC:            req.CVC,
		})
	})
}

// Pay handles POST /v1/bookings/:id/pay
func (h *BookingHandler) Pay(c *gin.Context) {
	session, err := h.bookingService.SubmitPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrPaymentDeclined) && session != nil {
			respondJSON(c, http.StatusPaymentRequired, PaymentDeclinedResponse{
				Error:   err.Error(),
				Booking: h.toResponse(session),
			})
			return
		}
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, h.toResponse(session))
}

// Payments handles GET /v1/bookings/:id/payments
func (h *BookingHandler) Payments(c *gin.Context) {
	payments, err := h.bookingService.Payments(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]PaymentAttemptResponse, 0, len(payments))
	for _, p := range payments {
		response = append(response, PaymentAttemptResponse{
			ID:        p.ID,
			Amount:    booking.FormatAmount(p.Amount),
			Status:    string(p.Status),
			Attempt:   p.Attempt,
			CreatedAt: p.CreatedAt.Format(time.RFC3339),
		})
	}

	respondJSON(c, http.StatusOK, response)
}

// Receipt handles GET /v1/bookings/:id/receipt
func (h *BookingHandler) Receipt(c *gin.Context) {
	receipt, text, err := h.bookingService.Receipt(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if c.Query("format") == "text" {
		c.String(http.StatusOK, text)
		return
	}

	respondJSON(c, http.StatusOK, ReceiptResponse{
		ID:               receipt.ID,
		ConfirmationCode: receipt.ConfirmationCode,
		Total:            booking.FormatAmount(receipt.Total),
		Text:             text,
	})
}

// Close handles DELETE /v1/bookings/:id
func (h *BookingHandler) Close(c *gin.Context) {
	if err := h.bookingService.Close(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *BookingHandler) respondSession(c *gin.Context, op func() (*domain.BookingSession, error)) {
	session, err := op()
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, h.toResponse(session))
}

func cardLast4(card string) string {
	digits := strings.ReplaceAll(card, " ", "")
	if len(digits) < 4 {
		return ""
	}
	return digits[len(digits)-4:]
}
