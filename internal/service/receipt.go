package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"voltfind/internal/booking"
	"voltfind/internal/domain"
)

// ReceiptService handles receipt generation.
type ReceiptService struct {
	now func() time.Time
}

// NewReceiptService creates a new ReceiptService.
func NewReceiptService() *ReceiptService {
	return &ReceiptService{now: time.Now}
}

// GenerateReceipt builds the receipt for a confirmed session.
func (s *ReceiptService) GenerateReceipt(session *domain.BookingSession) (*domain.Receipt, error) {
	if session == nil || !session.Draft.Complete || session.Confirmation == nil {
		return nil, ErrBookingNotConfirmed
	}

	d := session.Draft
	quote := booking.QuoteFor(d.DurationMinutes, session.Charger.PricePerKWh)

	label := fmt.Sprintf("%d min", d.DurationMinutes)
	if opt, ok := booking.FindDuration(d.DurationMinutes); ok {
		label = opt.Label
	}

	var date time.Time
	if d.Date != nil {
		date = *d.Date
	}

	return &domain.Receipt{
		ID:               uuid.New().String(),
		SessionID:        session.ID,
		ConfirmationCode: session.Confirmation.Code,
		PaymentID:        session.Confirmation.PaymentID,
		ChargerName:      session.Charger.Name,
		ChargerAddress:   session.Charger.Address,
		ConnectorType:    session.Charger.ConnectorType,
		Date:             date,
		Time:             d.Time,
		DurationLabel:    label,
		EnergyKWh:        quote.EnergyKWh,
		ChargingCost:     quote.ChargingCost,
		ReservationFee:   quote.ReservationFee,
		Total:            session.Confirmation.Amount,
		CardLast4:        lastFour(d.Payment.CardNumber),
		CreatedAt:        s.now(),
	}, nil
}

// FormatReceipt formats the receipt as plain text.
func (s *ReceiptService) FormatReceipt(r *domain.Receipt) string {
	var b strings.Builder
	line := "=====================================\n"
	rule := "-------------------------------------\n"

	b.WriteString(line)
	b.WriteString("      CHARGING BOOKING RECEIPT\n")
	b.WriteString(line)
	fmt.Fprintf(&b, "Confirmation: %s\n", r.ConfirmationCode)
	fmt.Fprintf(&b, "Issued:       %s\n\n", r.CreatedAt.Format("Jan 02, 2006 3:04 PM"))

	b.WriteString("STATION\n")
	b.WriteString(rule)
	fmt.Fprintf(&b, "%s\n%s\n", r.ChargerName, r.ChargerAddress)
	fmt.Fprintf(&b, "Connector:   %s\n\n", r.ConnectorType)

	b.WriteString("SESSION\n")
	b.WriteString(rule)
	fmt.Fprintf(&b, "Date:        %s\n", r.Date.Format("Monday, January 2, 2006"))
	fmt.Fprintf(&b, "Time:        %s\n", r.Time)
	fmt.Fprintf(&b, "Duration:    %s\n", r.DurationLabel)
	fmt.Fprintf(&b, "Energy:      ~%.0f kWh\n\n", r.EnergyKWh)

	b.WriteString("CHARGES\n")
	b.WriteString(rule)
	fmt.Fprintf(&b, "Charging:         $%s\n", booking.FormatAmount(r.ChargingCost))
	fmt.Fprintf(&b, "Reservation fee:  $%s\n", booking.FormatAmount(r.ReservationFee))
	b.WriteString(rule)
	fmt.Fprintf(&b, "TOTAL:            $%s\n\n", booking.FormatAmount(r.Total))

	fmt.Fprintf(&b, "Paid with card ending %s\n", r.CardLast4)
	b.WriteString(line)
	return b.String()
}

func lastFour(card string) string {
	digits := strings.ReplaceAll(card, " ", "")
	if len(digits) < 4 {
		return digits
	}
	return digits[len(digits)-4:]
}
