package booking

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/AutoBooker-Service/internal/domain"
	"github.com/m04kA/AutoBooker-Service/pkg/dbmetrics"
	"github.com/m04kA/AutoBooker-Service/pkg/psqlbuilder"
	"github.com/m04kA/AutoBooker-Service/pkg/types"
)

const (
	tableBookings     = "bookings"
	activeSlotIndex   = "bookings_active_slot_uidx"
	pgUniqueViolation = "23505"
)

var bookingColumns = []string{
	"id",
	"confirmation_code",
	"service_id",
	"service_name",
	"service_price",
	"service_duration",
	"service_category",
	"booking_date",
	"start_time",
	"status",
	"customer_id",
	"customer_first_name",
	"customer_last_name",
	"customer_email",
	"customer_phone",
	"customer_company",
	"customer_returning",
	"customer_first_time",
	"customer_preferences",
	"notes",
	"original_price",
	"final_price",
	"savings",
	"discounts",
	"email_sent",
	"sms_sent",
	"calendar_synced",
	"payment_created",
	"payment_intent_id",
	"source_user_agent",
	"source_ip",
	"created_at",
	"updated_at",
}

// discountRow представление скидки в JSONB колонке discounts
type discountRow struct {
	Kind    string `json:"kind"`
	Percent int    `json:"percent"`
	Label   string `json:"label"`
}

// Repository репозиторий бронирований в PostgreSQL
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// NextID резервирует следующий ID из последовательности bookings_id_seq
func (r *Repository) NextID(ctx context.Context) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var id int64
	if err := executor.QueryRowContext(ctx, "SELECT nextval('bookings_id_seq')").Scan(&id); err != nil {
		return 0, fmt.Errorf("%w: NextID - nextval: %w", ErrExecQuery, err)
	}
	return id, nil
}

// Create сохраняет бронирование с заранее назначенными ID и кодом.
// Уникальный частичный индекс по (booking_date, start_time) защищает слот
// даже при конкурентных транзакциях. Исходная ошибка драйвера сохраняется в цепочке,
// чтобы txmanager мог распознать конфликт сериализации.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	if booking == nil || booking.ID <= 0 || booking.ConfirmationCode == "" {
		return nil, fmt.Errorf("%w: Create - id and confirmation code are required", ErrInvalidBooking)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	discounts, preferences, err := encodeJSONColumns(booking)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - encode json columns: %w", ErrBuildQuery, err)
	}

	query, args, err := psqlbuilder.Insert(tableBookings).
		Columns(bookingColumns...).
		Values(
			booking.ID,
			booking.ConfirmationCode,
			booking.Service.ID,
			booking.Service.Name,
			booking.Service.Price,
			booking.Service.Duration,
			string(booking.Service.Category),
			booking.Date,
			booking.Time,
			string(booking.Status),
			booking.Customer.ID,
			booking.Customer.FirstName,
			booking.Customer.LastName,
			booking.Customer.Email,
			booking.Customer.Phone,
			booking.Customer.Company,
			booking.Customer.IsReturning,
			booking.Customer.IsFirstTime,
			preferences,
			booking.Customer.Notes,
			booking.Pricing.OriginalPrice,
			booking.Pricing.FinalPrice,
			booking.Pricing.Savings,
			discounts,
			booking.Integrations.EmailSent,
			booking.Integrations.SMSSent,
			booking.Integrations.CalendarSynced,
			booking.Integrations.PaymentCreated,
			booking.Integrations.PaymentIntentID,
			booking.Source.UserAgent,
			booking.Source.IP,
			booking.CreatedAt,
			booking.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return booking.Clone(), nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id})
}

// GetByConfirmationCode получает бронирование по коду подтверждения
func (r *Repository) GetByConfirmationCode(ctx context.Context, code string) (*domain.Booking, error) {
	return r.getOne(ctx, "GetByConfirmationCode", squirrel.Eq{"confirmation_code": code})
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Sqlizer) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From(tableBookings).
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %w", ErrBuildQuery, op, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan booking: %w", ErrScanRow, op, err)
	}
	return booking, nil
}

// HasActiveAt проверяет, занят ли слот активным бронированием (кроме excludeID).
// Внутри транзакции найденная строка блокируется (FOR UPDATE).
func (r *Repository) HasActiveAt(ctx context.Context, date string, t types.TimeString, excludeID int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select("id").
		From(tableBookings).
		Where(squirrel.Eq{"booking_date": date, "start_time": t}).
		Where(squirrel.NotEq{"status": string(domain.StatusCancelled)}).
		Where(squirrel.NotEq{"id": excludeID}).
		Limit(1)

	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: HasActiveAt - build select query: %w", ErrBuildQuery, err)
	}

	var id int64
	err = executor.QueryRowContext(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: HasActiveAt - scan: %w", ErrScanRow, err)
	}
	return true, nil
}

// GetActiveByDate возвращает активные бронирования на дату, отсортированные по времени
func (r *Repository) GetActiveByDate(ctx context.Context, date string) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From(tableBookings).
		Where(squirrel.Eq{"booking_date": date}).
		Where(squirrel.NotEq{"status": string(domain.StatusCancelled)}).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByDate - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByDate - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// List возвращает страницу отфильтрованных бронирований (сначала новые) и их общее число
func (r *Repository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	countQuery, countArgs, err := applyFilter(psqlbuilder.Select("COUNT(*)").From(tableBookings), filter).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: List - build count query: %w", ErrBuildQuery, err)
	}

	var total int
	if err := executor.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%w: List - scan count: %w", ErrScanRow, err)
	}

	selectBuilder := applyFilter(psqlbuilder.Select(bookingColumns...).From(tableBookings), filter).
		OrderBy("created_at DESC", "id DESC")
	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		selectBuilder = selectBuilder.Offset(uint64(filter.Offset))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: List - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings, err := scanBookings(rows)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// Recent возвращает limit последних созданных бронирований
func (r *Repository) Recent(ctx context.Context, limit int) ([]*domain.Booking, error) {
	page, _, err := r.List(ctx, domain.BookingsFilter{Limit: limit})
	return page, err
}

// Stats считает агрегаты по всей таблице
func (r *Repository) Stats(ctx context.Context) (domain.BookingStats, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"COUNT(*)",
		countByStatus(domain.StatusConfirmed),
		countByStatus(domain.StatusPendingReview),
		countByStatus(domain.StatusCancelled),
		fmt.Sprintf("COALESCE(SUM(final_price) FILTER (WHERE status = '%s'), 0)", domain.StatusConfirmed),
		"COALESCE(AVG(final_price), 0)",
	).
		From(tableBookings).
		ToSql()
	if err != nil {
		return domain.BookingStats{}, fmt.Errorf("%w: Stats - build query: %w", ErrBuildQuery, err)
	}

	var stats domain.BookingStats
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&stats.Total,
		&stats.Confirmed,
		&stats.PendingReview,
		&stats.Cancelled,
		&stats.TotalRevenue,
		&stats.AverageBookingValue,
	)
	if err != nil {
		return domain.BookingStats{}, fmt.Errorf("%w: Stats - scan: %w", ErrScanRow, err)
	}
	return stats, nil
}

// ServiceStats считает количество и выручку по каждой услуге
func (r *Repository) ServiceStats(ctx context.Context) ([]domain.ServiceStats, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"service_id",
		"MAX(service_name)",
		"COUNT(*)",
		fmt.Sprintf("COALESCE(SUM(final_price) FILTER (WHERE status = '%s'), 0)", domain.StatusConfirmed),
	).
		From(tableBookings).
		GroupBy("service_id").
		OrderBy("service_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ServiceStats - build query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ServiceStats - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	out := make([]domain.ServiceStats, 0)
	for rows.Next() {
		var s domain.ServiceStats
		if err := rows.Scan(&s.ServiceID, &s.ServiceName, &s.Bookings, &s.Revenue); err != nil {
			return nil, fmt.Errorf("%w: ServiceStats - scan row: %w", ErrScanRow, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ServiceStats - rows error: %w", ErrScanRow, err)
	}
	return out, nil
}

// CountActiveFrom считает активные бронирования начиная с даты (включительно)
func (r *Repository) CountActiveFrom(ctx context.Context, date string) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From(tableBookings).
		Where(squirrel.GtOrEq{"booking_date": date}).
		Where(squirrel.NotEq{"status": string(domain.StatusCancelled)}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountActiveFrom - build query: %w", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountActiveFrom - scan: %w", ErrScanRow, err)
	}
	return count, nil
}

// Update перезаписывает изменяемые поля бронирования (статус, дата, время, заметки, updatedAt)
func (r *Repository) Update(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableBookings).
		Set("status", string(booking.Status)).
		Set("booking_date", booking.Date).
		Set("start_time", booking.Time).
		Set("notes", booking.Customer.Notes).
		Set("updated_at", booking.UpdatedAt).
		Where(squirrel.Eq{"id": booking.ID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return nil, ErrBookingNotFound
	}

	return r.GetByID(ctx, booking.ID)
}

// ApplyIntegrationOutcome записывает успешный побочный эффект во флаги интеграций
func (r *Repository) ApplyIntegrationOutcome(ctx context.Context, id int64, outcome domain.IntegrationOutcome) error {
	if !outcome.Success {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Update(tableBookings).Where(squirrel.Eq{"id": id})
	switch outcome.Channel {
	case domain.ChannelEmail:
		builder = builder.Set("email_sent", true)
	case domain.ChannelSMS:
		builder = builder.Set("sms_sent", true)
	case domain.ChannelCalendar:
		builder = builder.Set("calendar_synced", true)
	case domain.ChannelPayment:
		builder = builder.Set("payment_created", true)
		if outcome.Reference != "" {
			builder = builder.Set("payment_intent_id", outcome.Reference)
		}
	default:
		return nil
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ApplyIntegrationOutcome - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: ApplyIntegrationOutcome - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: ApplyIntegrationOutcome - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func applyFilter(builder squirrel.SelectBuilder, filter domain.BookingsFilter) squirrel.SelectBuilder {
	if filter.Status != nil {
		builder = builder.Where(squirrel.Eq{"status": string(*filter.Status)})
	}
	if filter.Date != nil {
		builder = builder.Where(squirrel.Eq{"booking_date": *filter.Date})
	}
	if filter.CustomerEmail != nil {
		builder = builder.Where(squirrel.Eq{"customer_email": *filter.CustomerEmail})
	}
	return builder
}

func countByStatus(status domain.BookingStatus) string {
	return fmt.Sprintf("COUNT(*) FILTER (WHERE status = '%s')", status)
}

func mapUniqueViolation(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != pgUniqueViolation {
		return nil
	}
	if pqErr.Constraint == activeSlotIndex {
		return ErrSlotNotAvailable
	}
	return fmt.Errorf("%w: %s", ErrDuplicateBooking, pqErr.Constraint)
}

func encodeJSONColumns(b *domain.Booking) (string, string, error) {
	rows := make([]discountRow, 0, len(b.Pricing.Discounts))
	for _, d := range b.Pricing.Discounts {
		rows = append(rows, discountRow{Kind: string(d.Kind), Percent: d.Percent, Label: d.Label})
	}
	discounts, err := json.Marshal(rows)
	if err != nil {
		return "", "", err
	}

	prefs := b.Customer.Preferences
	if prefs == nil {
		prefs = map[string]string{}
	}
	preferences, err := json.Marshal(prefs)
	if err != nil {
		return "", "", err
	}

	return string(discounts), string(preferences), nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		b           domain.Booking
		category    string
		status      string
		bookingDate time.Time
		preferences []byte
		discounts   []byte
	)

	err := row.Scan(
		&b.ID,
		&b.ConfirmationCode,
		&b.Service.ID,
		&b.Service.Name,
		&b.Service.Price,
		&b.Service.Duration,
		&category,
		&bookingDate,
		&b.Time,
		&status,
		&b.Customer.ID,
		&b.Customer.FirstName,
		&b.Customer.LastName,
		&b.Customer.Email,
		&b.Customer.Phone,
		&b.Customer.Company,
		&b.Customer.IsReturning,
		&b.Customer.IsFirstTime,
		&preferences,
		&b.Customer.Notes,
		&b.Pricing.OriginalPrice,
		&b.Pricing.FinalPrice,
		&b.Pricing.Savings,
		&discounts,
		&b.Integrations.EmailSent,
		&b.Integrations.SMSSent,
		&b.Integrations.CalendarSynced,
		&b.Integrations.PaymentCreated,
		&b.Integrations.PaymentIntentID,
		&b.Source.UserAgent,
		&b.Source.IP,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.Service.Category = domain.ServiceCategory(category)
	b.Status = domain.BookingStatus(status)
	b.Date = bookingDate.Format(domain.DateFormat)

	if len(preferences) > 0 {
		if err := json.Unmarshal(preferences, &b.Customer.Preferences); err != nil {
			return nil, fmt.Errorf("decode preferences: %w", err)
		}
	}

	if len(discounts) > 0 {
		var rows []discountRow
		if err := json.Unmarshal(discounts, &rows); err != nil {
			return nil, fmt.Errorf("decode discounts: %w", err)
		}
		b.Pricing.Discounts = make([]domain.Discount, 0, len(rows))
		for _, d := range rows {
			b.Pricing.Discounts = append(b.Pricing.Discounts, domain.Discount{
				Kind:    domain.DiscountKind(d.Kind),
				Percent: d.Percent,
				Label:   d.Label,
			})
		}
	}

	return &b, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %w", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}
