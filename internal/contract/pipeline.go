package contract

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/logger"
	"equiprent-backend/internal/repository"
	"equiprent-backend/internal/service"
)

var (
	ErrBookingNotFound  = errors.New("booking not found")
	ErrContractNotFound = errors.New("no contract has been generated for this booking")
	ErrUnknownParty     = errors.New("unknown signatory party")
	ErrEmptySignature   = errors.New("signature image is empty")
)

// missingFieldPlaceholder is substituted for any document field that cannot
// be resolved. Generation prefers producing a document with visible gaps over
// producing none.
const missingFieldPlaceholder = "Not provided"

// Pipeline drives the rental agreement through its lifecycle: render the
// document, collect one signature per party, hand off downloads.
type Pipeline struct {
	bookingRepo   repository.BookingRepository
	contractRepo  repository.ContractRepository
	profileRepo   repository.ProfileRepository
	equipmentRepo repository.EquipmentRepository
	renderer      service.DocumentRenderer
	saver         service.FileSaver
	email         service.EmailService
}

func NewPipeline(
	bookingRepo repository.BookingRepository,
	contractRepo repository.ContractRepository,
	profileRepo repository.ProfileRepository,
	equipmentRepo repository.EquipmentRepository,
	renderer service.DocumentRenderer,
	saver service.FileSaver,
	email service.EmailService,
) *Pipeline {
	return &Pipeline{
		bookingRepo:   bookingRepo,
		contractRepo:  contractRepo,
		profileRepo:   profileRepo,
		equipmentRepo: equipmentRepo,
		renderer:      renderer,
		saver:         saver,
		email:         email,
	}
}

// Generate renders the agreement for a booking and stores its URL. It may be
// called again freely; each successful call overwrites the stored URL and
// resets both signature flags, since the regenerated document is a new legal
// text that neither party has agreed to yet.
func (p *Pipeline) Generate(ctx context.Context, bookingID string) (string, error) {
	booking, err := p.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrBookingNotFound
		}
		return "", fmt.Errorf("fetch booking: %w", err)
	}
	if booking == nil {
		return "", ErrBookingNotFound
	}

	fields := p.documentFields(ctx, booking)

	url, err := p.renderer.Render(ctx, bookingID, fields)
	if err != nil {
		return "", fmt.Errorf("render contract: %w", err)
	}

	doc := &domain.ContractDocument{
		BookingID:   bookingID,
		DocumentURL: url,
	}
	if err := p.contractRepo.Upsert(ctx, doc); err != nil {
		return "", fmt.Errorf("store contract: %w", err)
	}
	if err := p.bookingRepo.UpdateContract(ctx, bookingID, url, false, false); err != nil {
		return "", fmt.Errorf("update booking contract: %w", err)
	}

	logger.Info("Contract generated", "booking_id", bookingID, "document_url", url)
	p.notifyContractReady(ctx, booking, fields["equipment_title"], url)
	return url, nil
}

// notifyContractReady emails the renter that the agreement is ready to sign.
// Best effort; the document is already stored by the time this runs.
func (p *Pipeline) notifyContractReady(ctx context.Context, booking *domain.Booking, equipmentTitle, url string) {
	renter, err := p.profileRepo.GetByID(ctx, booking.RenterID)
	if err != nil || renter == nil || renter.Email == "" {
		return
	}
	if err := p.email.SendContractReadyNotification(ctx, renter.Email, equipmentTitle, url); err != nil {
		logger.Warn("Failed to send contract ready email", "booking_id", booking.ID, "error", err)
	}
}

// documentFields resolves everything the document body needs. Lookups that
// fail or come back empty yield the placeholder instead of aborting: a
// paid booking deserves a document even when a joined record is gone.
func (p *Pipeline) documentFields(ctx context.Context, booking *domain.Booking) map[string]string {
	fields := map[string]string{
		"booking_id":     booking.ID,
		"start_date":     orPlaceholder(booking.StartDate),
		"end_date":       orPlaceholder(booking.EndDate),
		"duration_days":  fmt.Sprintf("%d", booking.DurationDays),
		"total_price":    formatAmount(booking.TotalPrice),
		"deposit_amount": formatAmount(booking.DepositAmount),
	}

	equipment, err := p.equipmentRepo.GetByID(ctx, booking.EquipmentID)
	if err != nil || equipment == nil {
		logger.Warn("Contract generation missing equipment", "booking_id", booking.ID, "equipment_id", booking.EquipmentID)
		equipment = &domain.Equipment{}
	}
	fields["equipment_title"] = orPlaceholder(equipment.Title)
	fields["equipment_address"] = orPlaceholder(equipment.Address)
	fields["equipment_city"] = orPlaceholder(equipment.City)

	renter, err := p.profileRepo.GetByID(ctx, booking.RenterID)
	if err != nil || renter == nil {
		logger.Warn("Contract generation missing renter profile", "booking_id", booking.ID, "renter_id", booking.RenterID)
		renter = &domain.Profile{}
	}
	fields["renter_name"] = orPlaceholder(renter.FullName())
	fields["renter_phone"] = orPlaceholder(renter.Phone)
	fields["renter_address"] = orPlaceholder(renter.Address)
	fields["renter_id_number"] = orPlaceholder(renter.IDNumber)

	owner, err := p.profileRepo.GetByID(ctx, booking.OwnerID)
	if err != nil || owner == nil {
		logger.Warn("Contract generation missing owner profile", "booking_id", booking.ID, "owner_id", booking.OwnerID)
		owner = &domain.Profile{}
	}
	fields["owner_name"] = orPlaceholder(owner.FullName())
	fields["owner_phone"] = orPlaceholder(owner.Phone)
	fields["owner_address"] = orPlaceholder(owner.Address)
	fields["owner_id_number"] = orPlaceholder(owner.IDNumber)

	return fields
}

// Get returns the stored contract document for a booking.
func (p *Pipeline) Get(ctx context.Context, bookingID string) (*domain.ContractDocument, error) {
	doc, err := p.contractRepo.GetByBookingID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContractNotFound
		}
		return nil, fmt.Errorf("fetch contract: %w", err)
	}
	if doc == nil {
		return nil, ErrContractNotFound
	}
	return doc, nil
}

// Sign records one party's signature on the booking's contract and returns
// the updated document. Either party may sign first; the document is fully
// executed once both have.
func (p *Pipeline) Sign(ctx context.Context, bookingID, signatureImage string, party domain.SignatoryParty) (*domain.ContractDocument, error) {
	if signatureImage == "" {
		return nil, ErrEmptySignature
	}

	doc, err := p.contractRepo.GetByBookingID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContractNotFound
		}
		return nil, fmt.Errorf("fetch contract: %w", err)
	}
	if doc == nil {
		return nil, ErrContractNotFound
	}

	switch party {
	case domain.SignatoryRenter:
		doc.RenterSigned = true
		doc.RenterSignature = signatureImage
	case domain.SignatoryOwner:
		doc.OwnerSigned = true
		doc.OwnerSignature = signatureImage
	default:
		return nil, ErrUnknownParty
	}

	if err := p.contractRepo.UpdateSignatures(ctx, doc); err != nil {
		return nil, fmt.Errorf("store signature: %w", err)
	}
	if err := p.bookingRepo.UpdateContract(ctx, bookingID, doc.DocumentURL, doc.RenterSigned, doc.OwnerSigned); err != nil {
		return nil, fmt.Errorf("update booking contract: %w", err)
	}

	logger.Info("Contract signed", "booking_id", bookingID, "party", party, "fully_executed", doc.FullyExecuted())
	return doc, nil
}

// Download hands the stored document off to the save collaborator.
func (p *Pipeline) Download(ctx context.Context, documentURL, filename string) error {
	return p.saver.Download(ctx, documentURL, filename)
}

func orPlaceholder(v string) string {
	if v == "" {
		return missingFieldPlaceholder
	}
	return v
}

func formatAmount(cents int64) string {
	return fmt.Sprintf("%.2f", float64(cents)/100)
}
