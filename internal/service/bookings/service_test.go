package bookings

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/AutoBooker-Service/internal/domain"
	"github.com/m04kA/AutoBooker-Service/internal/events"
	bookingRepo "github.com/m04kA/AutoBooker-Service/internal/infra/storage/booking"
	"github.com/m04kA/AutoBooker-Service/internal/infra/storage/catalog"
	"github.com/m04kA/AutoBooker-Service/internal/service/bookings/models"
	"github.com/m04kA/AutoBooker-Service/pkg/logger"
	"github.com/m04kA/AutoBooker-Service/pkg/ptr"
	"github.com/m04kA/AutoBooker-Service/pkg/simpletxmanager"
	"github.com/m04kA/AutoBooker-Service/pkg/types"
)

type fixedTime struct{ now time.Time }

func (f *fixedTime) Now() time.Time { return f.now }

type recordingPublisher struct {
	mu     sync.Mutex
	topics []events.Topic
}

func (p *recordingPublisher) Publish(e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, e.Topic)
	return nil
}

var testNow = time.Date(2030, 1, 5, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *bookingRepo.MemoryRepository, *recordingPublisher) {
	t.Helper()

	repo := bookingRepo.NewMemoryRepository()
	pub := &recordingPublisher{}
	svc := NewService(repo, catalog.NewDefaultRepository(), simpletxmanager.NewTransactionManager(), pub,
		Options{Location: time.UTC}, logger.NewNop())
	svc.timeProvider = &fixedTime{now: testNow}
	return svc, repo, pub
}

func seedBooking(t *testing.T, repo *bookingRepo.MemoryRepository, id int64, date, hhmm string, status domain.BookingStatus, price int, email string) *domain.Booking {
	t.Helper()

	created := testNow.Add(-time.Duration(100-id) * time.Minute)
	b, err := repo.Create(context.Background(), &domain.Booking{
		ID:               id,
		ConfirmationCode: domain.NewConfirmationCode(id, 2030),
		Service:          domain.Service{ID: 1, Name: "Consultation Premium IA", Price: 150},
		Date:             date,
		Time:             types.TimeString(hhmm),
		Status:           status,
		Customer:         domain.Customer{FirstName: "A", LastName: "B", Email: email},
		Pricing:          domain.Pricing{OriginalPrice: 150, FinalPrice: price},
		CreatedAt:        created,
		UpdatedAt:        created,
	})
	require.NoError(t, err)
	return b
}

func TestList_FiltersPagesAndGlobalStats(t *testing.T) {
	svc, repo, _ := newTestService(t)

	seedBooking(t, repo, 1, "2030-02-01", "09:00", domain.StatusConfirmed, 150, "a@b.com")
	seedBooking(t, repo, 2, "2030-02-01", "10:00", domain.StatusPendingReview, 250, "c@d.com")
	seedBooking(t, repo, 3, "2030-02-01", "11:00", domain.StatusConfirmed, 128, "a@b.com")
	seedBooking(t, repo, 4, "2030-02-02", "11:00", domain.StatusCancelled, 300, "e@f.com")

	resp, err := svc.List(context.Background(), &models.ListBookingsRequest{Status: ptr.Ptr("confirmed")})
	require.NoError(t, err)

	require.Len(t, resp.Bookings, 2)
	assert.Equal(t, int64(3), resp.Bookings[0].ID)
	assert.Equal(t, int64(1), resp.Bookings[1].ID)
	assert.Equal(t, 2, resp.Pagination.Total)
	assert.Equal(t, domain.DefaultListLimit, resp.Pagination.Limit)
	assert.False(t, resp.Pagination.HasMore)

	// статистика по всему журналу, а не по странице
	assert.Equal(t, 4, resp.Stats.Total)
	assert.Equal(t, 2, resp.Stats.Confirmed)
	assert.Equal(t, 1, resp.Stats.PendingReview)
	assert.Equal(t, 1, resp.Stats.Cancelled)
	assert.Equal(t, 278, resp.Stats.TotalRevenue)
	assert.InDelta(t, 207.0, resp.Stats.AverageBookingValue, 0.001)

	resp, err = svc.List(context.Background(), &models.ListBookingsRequest{Limit: ptr.Ptr(1), Offset: ptr.Ptr(1)})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, int64(3), resp.Bookings[0].ID)
	assert.True(t, resp.Pagination.HasMore)

	resp, err = svc.List(context.Background(), &models.ListBookingsRequest{CustomerEmail: ptr.Ptr(" A@B.com ")})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Pagination.Total)
}

func TestList_InvalidInput(t *testing.T) {
	svc, _, _ := newTestService(t)

	for _, req := range []*models.ListBookingsRequest{
		{Limit: ptr.Ptr(0)},
		{Limit: ptr.Ptr(101)},
		{Offset: ptr.Ptr(-1)},
		{Status: ptr.Ptr("archived")},
		{Date: ptr.Ptr("tomorrow")},
	} {
		_, err := svc.List(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestGetByIDAndCode(t *testing.T) {
	svc, repo, _ := newTestService(t)
	b := seedBooking(t, repo, 1, "2030-02-01", "09:00", domain.StatusConfirmed, 150, "a@b.com")

	got, err := svc.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, b.ConfirmationCode, got.ConfirmationCode)

	got, err = svc.GetByCode(context.Background(), " "+b.ConfirmationCode+" ")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)

	_, err = svc.GetByID(context.Background(), 2)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetByCode(context.Background(), domain.NewConfirmationCode(2, 2030))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetByCode(context.Background(), "AB-K4F2-XYZ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdate_PartialFields(t *testing.T) {
	svc, repo, pub := newTestService(t)
	seedBooking(t, repo, 1, "2030-02-01", "09:00", domain.StatusPendingReview, 250, "a@b.com")

	resp, err := svc.Update(context.Background(), 1, &models.UpdateBookingRequest{
		Status: ptr.Ptr("confirmed"),
		Notes:  ptr.Ptr(" Parking "),
	})
	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, "Parking", resp.Customer.Notes)
	assert.Equal(t, "2030-02-01", resp.Date)
	assert.Equal(t, "09:00", resp.Time)
	assert.Equal(t, testNow, resp.UpdatedAt)
	assert.Equal(t, []events.Topic{events.TopicBookingUpdated}, pub.topics)
}

func TestUpdate_NotesLengthCountsCharacters(t *testing.T) {
	svc, repo, _ := newTestService(t)
	seedBooking(t, repo, 1, "2030-02-01", "09:00", domain.StatusConfirmed, 150, "a@b.com")

	notes := strings.Repeat("à", domain.MaxNotesLength)
	resp, err := svc.Update(context.Background(), 1, &models.UpdateBookingRequest{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, notes, resp.Customer.Notes)

	tooLong := notes + "ç"
	_, err = svc.Update(context.Background(), 1, &models.UpdateBookingRequest{Notes: &tooLong})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdate_RevalidatesSlot(t *testing.T) {
	svc, repo, _ := newTestService(t)
	seedBooking(t, repo, 1, "2030-02-01", "09:00", domain.StatusConfirmed, 150, "a@b.com")
	seedBooking(t, repo, 2, "2030-02-01", "10:00", domain.StatusConfirmed, 150, "c@d.com")

	_, err := svc.Update(context.Background(), 2, &models.UpdateBookingRequest{Time: ptr.Ptr("09:00")})
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	_, err = svc.Update(context.Background(), 2, &models.UpdateBookingRequest{Date: ptr.Ptr("2030-01-05"), Time: ptr.Ptr("11:00")})
	assert.ErrorIs(t, err, ErrSlotUnavailable, "past slot")

	_, err = svc.Update(context.Background(), 2, &models.UpdateBookingRequest{Time: ptr.Ptr("10:30")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	resp, err := svc.Update(context.Background(), 2, &models.UpdateBookingRequest{Date: ptr.Ptr("2030-02-03")})
	require.NoError(t, err)
	assert.Equal(t, "2030-02-03", resp.Date)

	// свой собственный слот не считается занятым
	_, err = svc.Update(context.Background(), 2, &models.UpdateBookingRequest{Time: ptr.Ptr("10:00")})
	assert.NoError(t, err)
}

func TestUpdate_CancelledIsTerminal(t *testing.T) {
	svc, repo, _ := newTestService(t)
	seedBooking(t, repo, 1, "2030-02-01", "09:00", domain.StatusCancelled, 150, "a@b.com")

	_, err := svc.Update(context.Background(), 1, &models.UpdateBookingRequest{Status: ptr.Ptr("confirmed")})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.Update(context.Background(), 1, &models.UpdateBookingRequest{Status: ptr.Ptr("done")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Update(context.Background(), 9, &models.UpdateBookingRequest{Notes: ptr.Ptr("x")})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Update(context.Background(), 1, &models.UpdateBookingRequest{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdate_ToCancelledPublishesBoth(t *testing.T) {
	svc, repo, pub := newTestService(t)
	seedBooking(t, repo, 1, "2030-02-01", "09:00", domain.StatusConfirmed, 150, "a@b.com")

	_, err := svc.Update(context.Background(), 1, &models.UpdateBookingRequest{Status: ptr.Ptr("cancelled")})
	require.NoError(t, err)
	assert.Equal(t, []events.Topic{events.TopicBookingUpdated, events.TopicBookingCancelled}, pub.topics)
}

func TestCancel_Idempotent(t *testing.T) {
	svc, repo, pub := newTestService(t)
	b := seedBooking(t, repo, 1, "2030-02-01", "09:00", domain.StatusConfirmed, 150, "a@b.com")

	resp, err := svc.Cancel(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
	assert.Equal(t, testNow, resp.UpdatedAt)
	assert.NotEqual(t, b.UpdatedAt, resp.UpdatedAt)

	svc.timeProvider = &fixedTime{now: testNow.Add(time.Hour)}
	again, err := svc.Cancel(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", again.Status)
	assert.Equal(t, resp.UpdatedAt, again.UpdatedAt)

	assert.Equal(t, []events.Topic{events.TopicBookingCancelled}, pub.topics)

	_, err = svc.Cancel(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)

	// слот освобожден
	taken, err := repo.HasActiveAt(context.Background(), "2030-02-01", "09:00", 0)
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestDashboardStats(t *testing.T) {
	svc, repo, _ := newTestService(t)

	seedBooking(t, repo, 1, "2030-01-04", "09:00", domain.StatusConfirmed, 150, "a@b.com")
	seedBooking(t, repo, 2, "2030-01-05", "14:00", domain.StatusPendingReview, 250, "c@d.com")
	seedBooking(t, repo, 3, "2030-01-06", "09:00", domain.StatusConfirmed, 128, "e@f.com")
	seedBooking(t, repo, 4, "2030-01-07", "09:00", domain.StatusCancelled, 150, "g@h.com")
	for id := int64(5); id <= 8; id++ {
		seedBooking(t, repo, id, "2030-01-08", []string{"09:00", "10:00", "11:00", "12:00"}[id-5], domain.StatusConfirmed, 150, "x@y.com")
	}

	resp, err := svc.DashboardStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 8, resp.Stats.Total)
	require.Len(t, resp.RecentBookings, domain.RecentBookingsLimit)
	assert.Equal(t, int64(8), resp.RecentBookings[0].ID)
	require.Len(t, resp.ServiceBreakdown, 1)
	assert.Equal(t, 8, resp.ServiceBreakdown[0].Bookings)
	assert.Equal(t, 150+128+4*150, resp.ServiceBreakdown[0].Revenue)
	// 2030-01-05 и позже, без отмененных
	assert.Equal(t, 6, resp.UpcomingBookings)
}

func TestListServices(t *testing.T) {
	svc, _, _ := newTestService(t)

	resp, err := svc.ListServices(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Services, 4)
	assert.Equal(t, "Consultation Premium IA", resp.Services[0].Name)
	assert.True(t, resp.Services[0].AutoConfirm)
	assert.False(t, resp.Services[3].AutoConfirm)
}
