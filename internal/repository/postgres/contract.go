package postgres

import (
	"context"
	"database/sql"
	"time"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/repository"

	"github.com/google/uuid"
)

type contractRepository struct {
	db *sql.DB
}

func NewContractRepository(db *sql.DB) repository.ContractRepository {
	return &contractRepository{db: db}
}

func (r *contractRepository) Upsert(ctx context.Context, doc *domain.ContractDocument) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	now := time.Now().UTC().Format(time.RFC3339)
	doc.GeneratedOn = now
	doc.UpdatedOn = now
	query := `INSERT INTO contracts (id, booking_id, document_url, renter_signed, owner_signed,
	          renter_signature, owner_signature, generated_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          ON CONFLICT (booking_id) DO UPDATE SET
	          document_url = EXCLUDED.document_url,
	          renter_signed = EXCLUDED.renter_signed,
	          owner_signed = EXCLUDED.owner_signed,
	          renter_signature = EXCLUDED.renter_signature,
	          owner_signature = EXCLUDED.owner_signature,
	          generated_on = EXCLUDED.generated_on,
	          updated_on = EXCLUDED.updated_on`
	_, err := r.db.ExecContext(ctx, query,
		doc.ID, doc.BookingID, doc.DocumentURL, doc.RenterSigned, doc.OwnerSigned,
		doc.RenterSignature, doc.OwnerSignature, doc.GeneratedOn, doc.UpdatedOn)
	return err
}

func (r *contractRepository) GetByBookingID(ctx context.Context, bookingID string) (*domain.ContractDocument, error) {
	doc := &domain.ContractDocument{}
	query := `SELECT id, booking_id, document_url, renter_signed, owner_signed,
	          renter_signature, owner_signature, generated_on, updated_on
	          FROM contracts WHERE booking_id = $1`
	err := r.db.QueryRowContext(ctx, query, bookingID).Scan(
		&doc.ID, &doc.BookingID, &doc.DocumentURL, &doc.RenterSigned, &doc.OwnerSigned,
		&doc.RenterSignature, &doc.OwnerSignature, &doc.GeneratedOn, &doc.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *contractRepository) UpdateSignatures(ctx context.Context, doc *domain.ContractDocument) error {
	doc.UpdatedOn = time.Now().UTC().Format(time.RFC3339)
	query := `UPDATE contracts SET renter_signed=$1, owner_signed=$2, renter_signature=$3, owner_signature=$4, updated_on=$5
	          WHERE booking_id=$6`
	_, err := r.db.ExecContext(ctx, query,
		doc.RenterSigned, doc.OwnerSigned, doc.RenterSignature, doc.OwnerSignature, doc.UpdatedOn, doc.BookingID)
	return err
}
