package postgres

import (
	"context"
	"database/sql"
	"time"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/logger"
	"equiprent-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

const bookingColumns = `id, equipment_id, renter_id, owner_id, start_date, end_date, duration_days,
	total_price, deposit_amount, status, payment_status, payment_reference,
	contract_url, renter_signed, owner_signed, created_on, updated_on`

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	now := time.Now().UTC().Format(time.RFC3339)
	b.CreatedOn = now
	b.UpdatedOn = now
	query := `INSERT INTO bookings (id, equipment_id, renter_id, owner_id, start_date, end_date, duration_days,
	          total_price, deposit_amount, status, payment_status, payment_reference, renter_signed, owner_signed, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	logger.DatabaseCall("CreateBooking", "INSERT INTO bookings", "booking_id", b.ID)
	result, err := r.db.ExecContext(ctx, query,
		b.ID, b.EquipmentID, b.RenterID, b.OwnerID, b.StartDate, b.EndDate, b.DurationDays,
		b.TotalPrice, b.DepositAmount, b.Status, b.PaymentStatus, b.PaymentReference,
		b.RenterSigned, b.OwnerSigned, b.CreatedOn, b.UpdatedOn)
	var affected int64
	if result != nil {
		affected, _ = result.RowsAffected()
	}
	logger.DatabaseResult("CreateBooking", affected, err, "booking_id", b.ID)
	return err
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	b, err := scanBooking(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	b.Status = domain.NormalizeBookingStatus(string(b.Status))
	return b, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	query := `UPDATE bookings SET status=$1, updated_on=$2 WHERE id=$3`
	_, err := r.db.ExecContext(ctx, query, status, time.Now().UTC().Format(time.RFC3339), id)
	return err
}

func (r *bookingRepository) UpdatePayment(ctx context.Context, id string, status domain.PaymentStatus, reference string) error {
	query := `UPDATE bookings SET payment_status=$1, payment_reference=$2, updated_on=$3 WHERE id=$4`
	_, err := r.db.ExecContext(ctx, query, status, reference, time.Now().UTC().Format(time.RFC3339), id)
	return err
}

func (r *bookingRepository) UpdateContract(ctx context.Context, id string, contractURL string, renterSigned, ownerSigned bool) error {
	query := `UPDATE bookings SET contract_url=$1, renter_signed=$2, owner_signed=$3, updated_on=$4 WHERE id=$5`
	_, err := r.db.ExecContext(ctx, query, contractURL, renterSigned, ownerSigned, time.Now().UTC().Format(time.RFC3339), id)
	return err
}

func (r *bookingRepository) FetchRowsForOwner(ctx context.Context, ownerID string) ([]domain.RawBookingRow, error) {
	// The counterparty for an owner listing is the renter.
	query := joinedRowsQuery("b.owner_id = $1", "b.renter_id")
	return r.fetchRows(ctx, query, ownerID)
}

func (r *bookingRepository) FetchRowsForRenter(ctx context.Context, renterID string) ([]domain.RawBookingRow, error) {
	// The counterparty for a renter listing is the owner.
	query := joinedRowsQuery("b.renter_id = $1", "b.owner_id")
	return r.fetchRows(ctx, query, renterID)
}

func joinedRowsQuery(where, counterpartyCol string) string {
	return `SELECT b.id, b.equipment_id, b.renter_id, b.owner_id, b.start_date, b.end_date, b.duration_days,
	        b.total_price, b.deposit_amount, b.status, b.payment_status, b.payment_reference,
	        b.contract_url, b.renter_signed, b.owner_signed, b.created_on, b.updated_on,
	        e.id, e.owner_id, e.title, e.description, e.category, e.subcategory,
	        e.daily_price, e.weekly_price, e.deposit_amount, e.city, e.country, e.address, e.status,
	        p.id, p.first_name, p.last_name, p.email, p.phone, p.address, p.city, p.country, p.id_number, p.role
	        FROM bookings b
	        LEFT JOIN equipment e ON e.id = b.equipment_id
	        LEFT JOIN profiles p ON p.id = ` + counterpartyCol + `
	        WHERE ` + where + `
	        ORDER BY b.created_on DESC`
}

func (r *bookingRepository) fetchRows(ctx context.Context, query string, arg string) ([]domain.RawBookingRow, error) {
	logger.DatabaseCall("FetchBookingRows", "SELECT bookings LEFT JOIN equipment, profiles", "party_id", arg)
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.RawBookingRow
	for rows.Next() {
		var (
			b           domain.Booking
			paymentRef  sql.NullString
			contractURL sql.NullString
			eqID        sql.NullString
			eqOwnerID   sql.NullString
			eqTitle     sql.NullString
			eqDesc      sql.NullString
			eqCategory  sql.NullString
			eqSubcat    sql.NullString
			eqDaily     sql.NullInt64
			eqWeekly    sql.NullInt64
			eqDeposit   sql.NullInt64
			eqCity      sql.NullString
			eqCountry   sql.NullString
			eqAddress   sql.NullString
			eqStatus    sql.NullString
			prID        sql.NullString
			prFirstName sql.NullString
			prLastName  sql.NullString
			prEmail     sql.NullString
			prPhone     sql.NullString
			prAddress   sql.NullString
			prCity      sql.NullString
			prCountry   sql.NullString
			prIDNumber  sql.NullString
			prRole      sql.NullString
		)
		err := rows.Scan(
			&b.ID, &b.EquipmentID, &b.RenterID, &b.OwnerID, &b.StartDate, &b.EndDate, &b.DurationDays,
			&b.TotalPrice, &b.DepositAmount, &b.Status, &b.PaymentStatus, &paymentRef,
			&contractURL, &b.RenterSigned, &b.OwnerSigned, &b.CreatedOn, &b.UpdatedOn,
			&eqID, &eqOwnerID, &eqTitle, &eqDesc, &eqCategory, &eqSubcat,
			&eqDaily, &eqWeekly, &eqDeposit, &eqCity, &eqCountry, &eqAddress, &eqStatus,
			&prID, &prFirstName, &prLastName, &prEmail, &prPhone, &prAddress, &prCity, &prCountry, &prIDNumber, &prRole,
		)
		if err != nil {
			return nil, err
		}
		b.PaymentReference = paymentRef.String
		if contractURL.Valid {
			b.ContractURL = &contractURL.String
		}

		row := domain.RawBookingRow{Booking: b}
		if eqID.Valid {
			row.Equipment = &domain.Equipment{
				ID:            eqID.String,
				OwnerID:       eqOwnerID.String,
				Title:         eqTitle.String,
				Description:   eqDesc.String,
				Category:      eqCategory.String,
				Subcategory:   eqSubcat.String,
				DailyPrice:    eqDaily.Int64,
				WeeklyPrice:   eqWeekly.Int64,
				DepositAmount: eqDeposit.Int64,
				City:          eqCity.String,
				Country:       eqCountry.String,
				Address:       eqAddress.String,
				Status:        domain.EquipmentStatus(eqStatus.String),
			}
		}
		if prID.Valid {
			row.Counterparty = &domain.Profile{
				ID:        prID.String,
				FirstName: prFirstName.String,
				LastName:  prLastName.String,
				Email:     prEmail.String,
				Phone:     prPhone.String,
				Address:   prAddress.String,
				City:      prCity.String,
				Country:   prCountry.String,
				IDNumber:  prIDNumber.String,
				Role:      domain.ProfileRole(prRole.String),
			}
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// ListPastEndDate and ListStalePending match on every legacy spelling of the
// status, not just the canonical token, so rows written before the status
// column was anglicized are still picked up by the scheduled jobs.
func (r *bookingRepository) ListPastEndDate(ctx context.Context, status domain.BookingStatus, endBefore string) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE status = ANY($1) AND end_date < $2`
	return r.listBookings(ctx, query, pq.Array(domain.StatusTokens(status)), endBefore)
}

func (r *bookingRepository) ListStalePending(ctx context.Context, createdBefore string) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE status = ANY($1) AND created_on < $2`
	return r.listBookings(ctx, query, pq.Array(domain.StatusTokens(domain.BookingStatusPending)), createdBefore)
}

func (r *bookingRepository) listBookings(ctx context.Context, query string, args ...interface{}) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		b.Status = domain.NormalizeBookingStatus(string(b.Status))
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	b := &domain.Booking{}
	var paymentRef, contractURL sql.NullString
	err := row.Scan(
		&b.ID, &b.EquipmentID, &b.RenterID, &b.OwnerID, &b.StartDate, &b.EndDate, &b.DurationDays,
		&b.TotalPrice, &b.DepositAmount, &b.Status, &b.PaymentStatus, &paymentRef,
		&contractURL, &b.RenterSigned, &b.OwnerSigned, &b.CreatedOn, &b.UpdatedOn)
	if err != nil {
		return nil, err
	}
	b.PaymentReference = paymentRef.String
	if contractURL.Valid {
		b.ContractURL = &contractURL.String
	}
	b.TotalAmount = b.TotalPrice
	return b, nil
}
