package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voltfind/internal/domain"
)

var fixedNow = time.Date(2026, time.March, 10, 15, 30, 0, 0, time.UTC)

func testCharger() domain.ChargerInfo {
	return domain.ChargerInfo{
		ID:            "1",
		Name:          "Tesla Supercharger - Downtown",
		Address:       "123 Main Street, Downtown",
		Speed:         "250 kW",
		PricePerKWh:   0.35,
		ConnectorType: "Tesla",
	}
}

func newTestFlow(opts ...Option) *Flow {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return Attach(NewSession("session-1", testCharger(), fixedNow), opts...)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }

func validPayment() PaymentUpdate {
	return PaymentUpdate{
		CardholderName: strPtr("Ada Lovelace"),
		CardNumber:     strPtr("4242424242424242"),
		Expiry:         strPtr("1228"),
		CVC:            strPtr("123"),
	}
}

// flowAtPayment returns a flow on the payment step with valid card details.
func flowAtPayment(t *testing.T, opts ...Option) *Flow {
	t.Helper()
	f := newTestFlow(opts...)
	require.NoError(t, f.SelectDate(day(2026, time.March, 12)))
	require.NoError(t, f.SelectTime("14:00"))
	require.NoError(t, f.Next())
	require.NoError(t, f.UpdatePayment(validPayment()))
	return f
}

func TestNewSession_InitialState(t *testing.T) {
	s := NewSession("s", testCharger(), fixedNow)

	assert.Equal(t, domain.StepDateTime, s.Step)
	assert.Nil(t, s.Draft.Date)
	assert.Empty(t, s.Draft.Time)
	assert.Equal(t, 60, s.Draft.DurationMinutes)
	assert.Equal(t, domain.PaymentDetails{}, s.Draft.Payment)
	assert.False(t, s.Draft.Processing)
	assert.False(t, s.Draft.Complete)
	assert.Nil(t, s.Confirmation)
}

func TestSelectDate_Window(t *testing.T) {
	tests := []struct {
		name    string
		date    time.Time
		wantErr error
	}{
		{name: "yesterday", date: day(2026, time.March, 9), wantErr: ErrDateOutOfRange},
		{name: "today has already started", date: day(2026, time.March, 10), wantErr: ErrDateOutOfRange},
		{name: "tomorrow", date: day(2026, time.March, 11)},
		{name: "last day in window", date: day(2026, time.April, 9)},
		{name: "beyond window", date: day(2026, time.April, 10), wantErr: ErrDateOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestFlow()
			err := f.SelectDate(tt.date)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, f.Session().Draft.Date)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, f.Session().Draft.Date)
			assert.True(t, f.Session().Draft.Date.Equal(tt.date))
		})
	}
}

func TestSelectDate_RejectedKeepsPreviousDate(t *testing.T) {
	f := newTestFlow()
	require.NoError(t, f.SelectDate(day(2026, time.March, 11)))

	err := f.SelectDate(day(2026, time.May, 1))
	assert.ErrorIs(t, err, ErrDateOutOfRange)
	assert.True(t, f.Session().Draft.Date.Equal(day(2026, time.March, 11)))
}

func TestSelectDate_TruncatesToDay(t *testing.T) {
	f := newTestFlow()
	require.NoError(t, f.SelectDate(time.Date(2026, time.March, 11, 18, 45, 0, 0, time.UTC)))
	assert.True(t, f.Session().Draft.Date.Equal(day(2026, time.March, 11)))
}

func TestSelectDate_DifferentDayClearsTime(t *testing.T) {
	f := newTestFlow()
	require.NoError(t, f.SelectDate(day(2026, time.March, 11)))
	require.NoError(t, f.SelectTime("09:00"))

	require.NoError(t, f.SelectDate(day(2026, time.March, 11)))
	assert.Equal(t, "09:00", f.Session().Draft.Time, "same day keeps the time")

	require.NoError(t, f.SelectDate(day(2026, time.March, 12)))
	assert.Empty(t, f.Session().Draft.Time)
	assert.False(t, f.CanProceed())
}

func TestSelectTime(t *testing.T) {
	f := newTestFlow()

	assert.ErrorIs(t, f.SelectTime("09:00"), ErrDateRequired)

	require.NoError(t, f.SelectDate(day(2026, time.March, 11)))
	require.NoError(t, f.SelectTime("09:00"))

	for _, label := range []string{"10:00", "13:00", "17:00"} {
		assert.ErrorIs(t, f.SelectTime(label), ErrSlotUnavailable)
		assert.Equal(t, "09:00", f.Session().Draft.Time)
	}

	assert.ErrorIs(t, f.SelectTime("07:00"), ErrUnknownSlot)
	assert.Equal(t, "09:00", f.Session().Draft.Time)
}

func TestSelectDuration(t *testing.T) {
	f := newTestFlow()
	require.NoError(t, f.SelectDate(day(2026, time.March, 11)))

	assert.ErrorIs(t, f.SelectDuration(90), ErrTimeRequired)

	require.NoError(t, f.SelectTime("18:00"))
	require.NoError(t, f.SelectDuration(90))
	assert.Equal(t, 90, f.Session().Draft.DurationMinutes)

	assert.ErrorIs(t, f.SelectDuration(45), ErrInvalidDuration)
	assert.Equal(t, 90, f.Session().Draft.DurationMinutes)
}

func TestNext_RequiresDateAndTime(t *testing.T) {
	t.Run("nothing selected", func(t *testing.T) {
		f := newTestFlow()
		assert.ErrorIs(t, f.Next(), ErrSelectionIncomplete)
		assert.Equal(t, domain.StepDateTime, f.Step())
	})

	t.Run("date only", func(t *testing.T) {
		f := newTestFlow()
		require.NoError(t, f.SelectDate(day(2026, time.March, 11)))
		assert.ErrorIs(t, f.Next(), ErrSelectionIncomplete)
		assert.Equal(t, domain.StepDateTime, f.Step())
	})

	t.Run("time cleared by date change", func(t *testing.T) {
		f := newTestFlow()
		require.NoError(t, f.SelectDate(day(2026, time.March, 11)))
		require.NoError(t, f.SelectTime("11:00"))
		require.NoError(t, f.SelectDate(day(2026, time.March, 13)))
		assert.ErrorIs(t, f.Next(), ErrSelectionIncomplete)
	})

	t.Run("date and time", func(t *testing.T) {
		f := newTestFlow()
		require.NoError(t, f.SelectDate(day(2026, time.March, 11)))
		require.NoError(t, f.SelectTime("11:00"))
		require.NoError(t, f.Next())
		assert.Equal(t, domain.StepPayment, f.Step())
	})
}

func TestBack_RetainsFields(t *testing.T) {
	f := flowAtPayment(t)
	before := f.Session().Draft

	require.NoError(t, f.Back())
	assert.Equal(t, domain.StepDateTime, f.Step())
	assert.Equal(t, before, f.Session().Draft)

	assert.ErrorIs(t, f.Back(), ErrWrongStep)
}

func TestStepGating(t *testing.T) {
	f := flowAtPayment(t)

	assert.ErrorIs(t, f.SelectDate(day(2026, time.March, 11)), ErrWrongStep)
	assert.ErrorIs(t, f.SelectTime("09:00"), ErrWrongStep)
	assert.ErrorIs(t, f.SelectDuration(30), ErrWrongStep)
	assert.ErrorIs(t, f.Next(), ErrWrongStep)

	fresh := newTestFlow()
	assert.ErrorIs(t, fresh.UpdatePayment(validPayment()), ErrWrongStep)
	assert.ErrorIs(t, fresh.BeginPayment(), ErrWrongStep)
}

func TestUpdatePayment_FormatsFields(t *testing.T) {
	f := flowAtPayment(t)

	p := f.Session().Draft.Payment
	assert.Equal(t, "Ada Lovelace", p.CardholderName)
	assert.Equal(t, "4242 4242 4242 4242", p.CardNumber)
	assert.Equal(t, "12/28", p.Expiry)
	assert.Equal(t, "123", p.CVC)

	require.NoError(t, f.UpdatePayment(PaymentUpdate{CVC: strPtr("98765")}))
	assert.Equal(t, "9876", f.Session().Draft.Payment.CVC)
	assert.Equal(t, "Ada Lovelace", f.Session().Draft.Payment.CardholderName)
}

func TestPaymentReady(t *testing.T) {
	tests := []struct {
		name   string
		update PaymentUpdate
	}{
		{name: "short card", update: PaymentUpdate{CardNumber: strPtr("4242 4242 4242")}},
		{name: "short expiry", update: PaymentUpdate{Expiry: strPtr("12")}},
		{name: "short cvc", update: PaymentUpdate{CVC: strPtr("12")}},
		{name: "empty name", update: PaymentUpdate{CardholderName: strPtr("")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := flowAtPayment(t)
			require.True(t, f.PaymentReady())

			require.NoError(t, f.UpdatePayment(tt.update))
			assert.False(t, f.PaymentReady())
			assert.ErrorIs(t, f.BeginPayment(), ErrPaymentDetailsInvalid)
			assert.False(t, f.Session().Draft.Processing)
			assert.Zero(t, f.Session().Draft.PaymentAttempts)
		})
	}
}

func TestPayment_SuccessfulSubmission(t *testing.T) {
	f := flowAtPayment(t)

	require.NoError(t, f.BeginPayment())
	assert.True(t, f.Session().Draft.Processing)

	assert.ErrorIs(t, f.BeginPayment(), ErrPaymentInProgress)
	assert.ErrorIs(t, f.Back(), ErrPaymentInProgress)
	assert.ErrorIs(t, f.UpdatePayment(validPayment()), ErrPaymentInProgress)
	assert.Equal(t, 1, f.Session().Draft.PaymentAttempts)

	conf := domain.Confirmation{Code: "VF-ABCD1234", PaymentID: "pi_1", Amount: 20, ConfirmedAt: fixedNow}
	require.NoError(t, f.CompletePayment(conf))

	s := f.Session()
	assert.Equal(t, domain.StepConfirmation, s.Step)
	assert.False(t, s.Draft.Processing)
	assert.True(t, s.Draft.Complete)
	require.NotNil(t, s.Confirmation)
	assert.Equal(t, "VF-ABCD1234", s.Confirmation.Code)

	assert.ErrorIs(t, f.CompletePayment(conf), ErrPaymentNotStarted)
	assert.ErrorIs(t, f.BeginPayment(), ErrWrongStep)
}

func TestPayment_DeclineAndRetry(t *testing.T) {
	f := flowAtPayment(t)

	for i := 1; i <= DefaultMaxPaymentAttempts; i++ {
		require.NoError(t, f.BeginPayment())
		require.NoError(t, f.FailPayment("card declined"))
		assert.Equal(t, domain.StepPayment, f.Step())
		assert.Equal(t, "card declined", f.Session().Draft.LastPaymentError)
		assert.Equal(t, DefaultMaxPaymentAttempts-i, f.RemainingAttempts())
	}

	assert.ErrorIs(t, f.BeginPayment(), ErrPaymentAttemptsExceeded)
	assert.False(t, f.Session().Draft.Processing)
}

func TestPayment_FailWithoutBegin(t *testing.T) {
	f := flowAtPayment(t)
	assert.ErrorIs(t, f.FailPayment("x"), ErrPaymentNotStarted)
}

func TestReset_FromEveryStep(t *testing.T) {
	initial := NewSession("session-1", testCharger(), fixedNow)

	builders := map[string]func(t *testing.T) *Flow{
		"datetime": func(t *testing.T) *Flow {
			f := newTestFlow()
			require.NoError(t, f.SelectDate(day(2026, time.March, 11)))
			require.NoError(t, f.SelectTime("08:00"))
			require.NoError(t, f.SelectDuration(120))
			return f
		},
		"payment": func(t *testing.T) *Flow { return flowAtPayment(t) },
		"processing": func(t *testing.T) *Flow {
			f := flowAtPayment(t)
			require.NoError(t, f.BeginPayment())
			return f
		},
		"confirmation": func(t *testing.T) *Flow {
			f := flowAtPayment(t)
			require.NoError(t, f.BeginPayment())
			require.NoError(t, f.CompletePayment(domain.Confirmation{Code: "VF-00000000"}))
			return f
		},
	}

	for name, build := range builders {
		t.Run(name, func(t *testing.T) {
			f := build(t)
			f.Reset()

			s := f.Session()
			assert.Equal(t, domain.StepDateTime, s.Step)
			assert.Equal(t, initial.Draft, s.Draft)
			assert.Nil(t, s.Confirmation)
		})
	}
}

func TestFlow_Quote(t *testing.T) {
	f := newTestFlow()
	q := f.Quote()
	assert.Equal(t, "17.50", FormatAmount(q.ChargingCost))
	assert.Equal(t, "20.00", FormatAmount(q.Total))
}

func TestWithMaxAdvance(t *testing.T) {
	f := newTestFlow(WithMaxAdvance(7 * 24 * time.Hour))
	assert.ErrorIs(t, f.SelectDate(day(2026, time.March, 20)), ErrDateOutOfRange)
	assert.NoError(t, f.SelectDate(day(2026, time.March, 17)))
}

func TestPayment_StaleProcessing(t *testing.T) {
	now := fixedNow
	f := flowAtPayment(t,
		WithClock(func() time.Time { return now }),
		WithProcessingTimeout(10*time.Second),
	)

	require.NoError(t, f.BeginPayment())
	require.NotNil(t, f.Session().Draft.ProcessingSince)
	assert.True(t, f.Session().Draft.ProcessingSince.Equal(fixedNow))

	now = now.Add(9 * time.Second)
	assert.True(t, f.InFlight())
	assert.ErrorIs(t, f.Back(), ErrPaymentInProgress)
	assert.ErrorIs(t, f.BeginPayment(), ErrPaymentInProgress)

	now = now.Add(2 * time.Second)
	assert.False(t, f.InFlight())

	// A stale flag no longer blocks a new attempt.
	require.NoError(t, f.BeginPayment())
	assert.Equal(t, 2, f.Session().Draft.PaymentAttempts)
	assert.True(t, f.Session().Draft.ProcessingSince.Equal(now))

	now = now.Add(time.Minute)
	require.NoError(t, f.Back())
	assert.False(t, f.Session().Draft.Processing)
	assert.Nil(t, f.Session().Draft.ProcessingSince)
	assert.Equal(t, domain.StepDateTime, f.Step())
}

func TestPayment_NoTimeoutKeepsProcessing(t *testing.T) {
	now := fixedNow
	f := flowAtPayment(t, WithClock(func() time.Time { return now }))

	require.NoError(t, f.BeginPayment())
	now = now.Add(24 * time.Hour)
	assert.ErrorIs(t, f.Back(), ErrPaymentInProgress)
}
