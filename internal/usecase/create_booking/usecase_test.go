package create_booking

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/AutoBooker-Service/internal/domain"
	"github.com/m04kA/AutoBooker-Service/internal/events"
	bookingRepo "github.com/m04kA/AutoBooker-Service/internal/infra/storage/booking"
	"github.com/m04kA/AutoBooker-Service/internal/infra/storage/catalog"
	"github.com/m04kA/AutoBooker-Service/pkg/logger"
	"github.com/m04kA/AutoBooker-Service/pkg/simpletxmanager"
)

type fixedTime struct{ now time.Time }

func (f *fixedTime) Now() time.Time { return f.now }

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

type countingMetrics struct {
	mu       sync.Mutex
	byStatus map[string]int
}

func (m *countingMetrics) BookingCreated(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byStatus[status]++
}

type fixture struct {
	uc        *UseCase
	repo      *bookingRepo.MemoryRepository
	publisher *recordingPublisher
	metrics   *countingMetrics
	clock     *fixedTime
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		repo:      bookingRepo.NewMemoryRepository(),
		publisher: &recordingPublisher{},
		metrics:   &countingMetrics{byStatus: map[string]int{}},
		clock:     &fixedTime{now: time.Date(2029, 12, 31, 12, 0, 0, 0, time.UTC)},
	}
	f.uc = NewUseCase(
		f.repo,
		catalog.NewDefaultRepository(),
		simpletxmanager.NewTransactionManager(),
		f.publisher,
		f.metrics,
		Options{Location: time.UTC},
		logger.NewNop(),
	)
	f.uc.timeProvider = f.clock
	return f
}

func validRequest(date, hhmm string) *Request {
	return &Request{
		ServiceID: 1,
		Date:      date,
		Time:      hhmm,
		Customer: CustomerInput{
			FirstName: "A",
			LastName:  "B",
			Email:     "a@b.com",
			Phone:     "0600000000",
		},
	}
}

func TestExecute_EndToEnd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.uc.Execute(ctx, validRequest("2030-01-01", "10:00"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), b.ID)
	assert.Equal(t, domain.StatusConfirmed, b.Status)
	assert.Equal(t, 150, b.Pricing.FinalPrice)
	assert.Empty(t, b.Pricing.Discounts)
	assert.NoError(t, domain.ValidateConfirmationCode(b.ConfirmationCode))
	assert.Equal(t, "AB-001-2029-", b.ConfirmationCode[:12])
	assert.NotEmpty(t, b.Customer.ID)
	assert.Equal(t, f.clock.now, b.CreatedAt)
	assert.Equal(t, b.CreatedAt, b.UpdatedAt)

	_, err = f.uc.Execute(ctx, validRequest("2030-01-01", "10:00"))
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, events.TopicBookingCreated, f.publisher.events[0].Topic)
	assert.Equal(t, 1, f.metrics.byStatus["confirmed"])
}

func TestExecute_PastSlot(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), validRequest("2029-12-31", "11:00"))
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	// ровно "сейчас" тоже считается прошлым
	_, err = f.uc.Execute(context.Background(), validRequest("2029-12-31", "12:00"))
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	_, err = f.uc.Execute(context.Background(), validRequest("2029-12-31", "14:00"))
	assert.NoError(t, err)
}

func TestExecute_RebookAfterCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.uc.Execute(ctx, validRequest("2030-01-02", "09:00"))
	require.NoError(t, err)

	first.Status = domain.StatusCancelled
	_, err = f.repo.Update(ctx, first)
	require.NoError(t, err)

	second, err := f.uc.Execute(ctx, validRequest("2030-01-02", "09:00"))
	require.NoError(t, err)
	assert.NotEqual(t, first.ConfirmationCode, second.ConfirmationCode)
}

func TestExecute_MissingFields(t *testing.T) {
	f := newFixture(t)

	cases := map[string]func(r *Request){
		"service":   func(r *Request) { r.ServiceID = 0 },
		"date":      func(r *Request) { r.Date = "  " },
		"time":      func(r *Request) { r.Time = "" },
		"firstName": func(r *Request) { r.Customer.FirstName = " " },
		"lastName":  func(r *Request) { r.Customer.LastName = "" },
		"email":     func(r *Request) { r.Customer.Email = "" },
		"phone":     func(r *Request) { r.Customer.Phone = "\t" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := validRequest("2030-01-01", "10:00")
			mutate(req)
			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrMissingField)
		})
	}

	_, err := f.uc.Execute(context.Background(), nil)
	assert.ErrorIs(t, err, ErrMissingField)
	assert.Empty(t, f.publisher.events)
}

func TestExecute_InvalidInput(t *testing.T) {
	f := newFixture(t)

	for _, tc := range []struct{ date, time string }{
		{"01/01/2030", "10:00"},
		{"2030-02-30", "10:00"},
		{"2030-01-01", "10:30"},
		{"2030-01-01", "13:00"},
		{"2030-01-01", "ten"},
	} {
		_, err := f.uc.Execute(context.Background(), validRequest(tc.date, tc.time))
		assert.ErrorIs(t, err, ErrInvalidInput, "%s %s", tc.date, tc.time)
	}
}

func TestExecute_NotesLengthCountsCharacters(t *testing.T) {
	f := newFixture(t)

	req := validRequest("2030-01-01", "10:00")
	req.Customer.Notes = strings.Repeat("é", domain.MaxNotesLength)
	b, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, domain.MaxNotesLength, utf8.RuneCountInString(b.Customer.Notes))

	req = validRequest("2030-01-01", "11:00")
	req.Customer.Notes = strings.Repeat("é", domain.MaxNotesLength+1)
	_, err = f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_UnknownService(t *testing.T) {
	f := newFixture(t)

	req := validRequest("2030-01-01", "10:00")
	req.ServiceID = 99
	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrUnknownService)
}

func TestExecute_PricingAndStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := validRequest("2030-01-03", "09:00")
	req.Customer.IsFirstTime = true
	b, err := f.uc.Execute(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 128, b.Pricing.FinalPrice)
	assert.Equal(t, 22, b.Pricing.Savings)
	assert.Len(t, b.Pricing.Discounts, 1)

	req = validRequest("2030-01-03", "10:00")
	req.Customer.IsFirstTime = true
	req.Customer.IsReturning = true
	b, err = f.uc.Execute(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 115, b.Pricing.FinalPrice)
	assert.Len(t, b.Pricing.Discounts, 2)

	req = validRequest("2030-01-03", "11:00")
	req.ServiceID = 3
	b, err = f.uc.Execute(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPendingReview, b.Status)
	assert.Equal(t, 1, f.metrics.byStatus["pending_review"])
}

func TestExecute_NormalizesCustomer(t *testing.T) {
	f := newFixture(t)

	req := validRequest("2030-01-04", " 9:00 ")
	req.Customer.Email = "  Jean.Dupont@Example.COM "
	req.Customer.FirstName = "  Jean "
	req.Preferences = map[string]string{"language": "fr"}
	req.Source = domain.BookingSource{UserAgent: "curl/8.0", IP: "10.0.0.1"}

	b, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "jean.dupont@example.com", b.Customer.Email)
	assert.Equal(t, "Jean", b.Customer.FirstName)
	assert.Equal(t, "09:00", b.Time.String())
	assert.Equal(t, "fr", b.Customer.Preferences["language"])
	assert.Equal(t, "10.0.0.1", b.Source.IP)

	req.Preferences["language"] = "en"
	stored, err := f.repo.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, "fr", stored.Customer.Preferences["language"])
}

func TestExecute_UniqueCodes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	codes := make(map[string]bool)
	for day := 1; day <= 5; day++ {
		for _, label := range domain.DefaultSlotLabels {
			b, err := f.uc.Execute(ctx, validRequest(time.Date(2030, 2, day, 0, 0, 0, 0, time.UTC).Format(domain.DateFormat), label))
			require.NoError(t, err)
			assert.False(t, codes[b.ConfirmationCode], b.ConfirmationCode)
			codes[b.ConfirmationCode] = true
		}
	}
	assert.Len(t, codes, 5*len(domain.DefaultSlotLabels))
}

func TestExecute_ConcurrentSameSlot(t *testing.T) {
	f := newFixture(t)

	const workers = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.Execute(context.Background(), validRequest("2030-03-01", "15:00"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case assert.ErrorIs(t, err, ErrSlotUnavailable):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, conflicts)

	active, err := f.repo.GetActiveByDate(context.Background(), "2030-03-01")
	require.NoError(t, err)
	assert.Len(t, active, 1)
}
