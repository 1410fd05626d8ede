package contract

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"equiprent-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}
func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockBookingRepository) UpdatePayment(ctx context.Context, id string, status domain.PaymentStatus, reference string) error {
	args := m.Called(ctx, id, status, reference)
	return args.Error(0)
}
func (m *MockBookingRepository) UpdateContract(ctx context.Context, id string, contractURL string, renterSigned, ownerSigned bool) error {
	args := m.Called(ctx, id, contractURL, renterSigned, ownerSigned)
	return args.Error(0)
}
func (m *MockBookingRepository) FetchRowsForOwner(ctx context.Context, ownerID string) ([]domain.RawBookingRow, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RawBookingRow), args.Error(1)
}
func (m *MockBookingRepository) FetchRowsForRenter(ctx context.Context, renterID string) ([]domain.RawBookingRow, error) {
	args := m.Called(ctx, renterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RawBookingRow), args.Error(1)
}
func (m *MockBookingRepository) ListPastEndDate(ctx context.Context, status domain.BookingStatus, endBefore string) ([]domain.Booking, error) {
	args := m.Called(ctx, status, endBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepository) ListStalePending(ctx context.Context, createdBefore string) ([]domain.Booking, error) {
	args := m.Called(ctx, createdBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

type MockContractRepository struct {
	mock.Mock
}

func (m *MockContractRepository) Upsert(ctx context.Context, doc *domain.ContractDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}
func (m *MockContractRepository) GetByBookingID(ctx context.Context, bookingID string) (*domain.ContractDocument, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContractDocument), args.Error(1)
}
func (m *MockContractRepository) UpdateSignatures(ctx context.Context, doc *domain.ContractDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}
func (m *MockProfileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}
func (m *MockProfileRepository) Update(ctx context.Context, profile *domain.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

type MockEquipmentRepository struct {
	mock.Mock
}

func (m *MockEquipmentRepository) Create(ctx context.Context, equipment *domain.Equipment) error {
	args := m.Called(ctx, equipment)
	return args.Error(0)
}
func (m *MockEquipmentRepository) GetByID(ctx context.Context, id string) (*domain.Equipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Equipment), args.Error(1)
}
func (m *MockEquipmentRepository) Update(ctx context.Context, equipment *domain.Equipment) error {
	args := m.Called(ctx, equipment)
	return args.Error(0)
}
func (m *MockEquipmentRepository) ListByOwner(ctx context.Context, ownerID string, page, pageSize int32) ([]domain.Equipment, int32, error) {
	args := m.Called(ctx, ownerID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int32), args.Error(2)
	}
	return args.Get(0).([]domain.Equipment), args.Get(1).(int32), args.Error(2)
}
func (m *MockEquipmentRepository) ListAvailable(ctx context.Context, page, pageSize int32) ([]domain.Equipment, int32, error) {
	args := m.Called(ctx, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int32), args.Error(2)
	}
	return args.Get(0).([]domain.Equipment), args.Get(1).(int32), args.Error(2)
}
func (m *MockEquipmentRepository) CreateImage(ctx context.Context, image *domain.EquipmentImage) error {
	args := m.Called(ctx, image)
	return args.Error(0)
}
func (m *MockEquipmentRepository) GetImages(ctx context.Context, equipmentID string) ([]domain.EquipmentImage, error) {
	args := m.Called(ctx, equipmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EquipmentImage), args.Error(1)
}
func (m *MockEquipmentRepository) SetPrimaryImage(ctx context.Context, equipmentID, imageID string) error {
	args := m.Called(ctx, equipmentID, imageID)
	return args.Error(0)
}
func (m *MockEquipmentRepository) DeleteImage(ctx context.Context, imageID string) error {
	args := m.Called(ctx, imageID)
	return args.Error(0)
}

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(ctx context.Context, bookingID string, fields map[string]string) (string, error) {
	args := m.Called(ctx, bookingID, fields)
	return args.String(0), args.Error(1)
}

type MockSaver struct {
	mock.Mock
}

func (m *MockSaver) Download(ctx context.Context, url, filename string) error {
	args := m.Called(ctx, url, filename)
	return args.Error(0)
}

type MockEmail struct {
	mock.Mock
}

func (m *MockEmail) SendBookingRequestNotification(ctx context.Context, ownerEmail, renterName, equipmentTitle string) error {
	args := m.Called(ctx, ownerEmail, renterName, equipmentTitle)
	return args.Error(0)
}
func (m *MockEmail) SendBookingApprovalNotification(ctx context.Context, renterEmail, equipmentTitle string) error {
	args := m.Called(ctx, renterEmail, equipmentTitle)
	return args.Error(0)
}
func (m *MockEmail) SendBookingRejectionNotification(ctx context.Context, renterEmail, equipmentTitle string) error {
	args := m.Called(ctx, renterEmail, equipmentTitle)
	return args.Error(0)
}
func (m *MockEmail) SendBookingCancellationNotification(ctx context.Context, ownerEmail, renterName, equipmentTitle string) error {
	args := m.Called(ctx, ownerEmail, renterName, equipmentTitle)
	return args.Error(0)
}
func (m *MockEmail) SendContractReadyNotification(ctx context.Context, email, equipmentTitle, documentURL string) error {
	args := m.Called(ctx, email, equipmentTitle, documentURL)
	return args.Error(0)
}

func testBooking() *domain.Booking {
	return &domain.Booking{
		ID:            "bk-1",
		EquipmentID:   "eq-1",
		RenterID:      "renter-1",
		OwnerID:       "owner-1",
		StartDate:     "2024-03-01",
		EndDate:       "2024-03-10",
		DurationDays:  10,
		TotalPrice:    385000,
		DepositAmount: 150000,
	}
}

func TestPipeline_Generate(t *testing.T) {
	ctx := context.Background()

	renter := &domain.Profile{ID: "renter-1", FirstName: "Awa", LastName: "Diop", Email: "awa@example.com", Phone: "+221770000000", Address: "Rue 12", IDNumber: "SN123"}
	owner := &domain.Profile{ID: "owner-1", FirstName: "Moussa", LastName: "Fall", Phone: "+221770000001", Address: "Rue 1", IDNumber: "SN456"}
	equipment := &domain.Equipment{ID: "eq-1", Title: "Excavator", Address: "Zone industrielle", City: "Dakar"}

	t.Run("Renders, stores and returns the document URL", func(t *testing.T) {
		bookings := new(MockBookingRepository)
		contracts := new(MockContractRepository)
		profiles := new(MockProfileRepository)
		equipments := new(MockEquipmentRepository)
		renderer := new(MockRenderer)

		bookings.On("GetByID", ctx, "bk-1").Return(testBooking(), nil)
		equipments.On("GetByID", ctx, "eq-1").Return(equipment, nil)
		profiles.On("GetByID", ctx, "renter-1").Return(renter, nil)
		profiles.On("GetByID", ctx, "owner-1").Return(owner, nil)

		var captured map[string]string
		renderer.On("Render", ctx, "bk-1", mock.Anything).
			Run(func(args mock.Arguments) { captured = args.Get(2).(map[string]string) }).
			Return("https://docs.example.com/bk-1.pdf", nil)
		contracts.On("Upsert", ctx, mock.MatchedBy(func(doc *domain.ContractDocument) bool {
			return doc.BookingID == "bk-1" &&
				doc.DocumentURL == "https://docs.example.com/bk-1.pdf" &&
				!doc.RenterSigned && !doc.OwnerSigned
		})).Return(nil)
		bookings.On("UpdateContract", ctx, "bk-1", "https://docs.example.com/bk-1.pdf", false, false).Return(nil)
		email := new(MockEmail)
		email.On("SendContractReadyNotification", ctx, "awa@example.com", "Excavator", "https://docs.example.com/bk-1.pdf").Return(nil)

		p := NewPipeline(bookings, contracts, profiles, equipments, renderer, new(MockSaver), email)
		url, err := p.Generate(ctx, "bk-1")

		assert.NoError(t, err)
		assert.Equal(t, "https://docs.example.com/bk-1.pdf", url)
		assert.Equal(t, "Awa Diop", captured["renter_name"])
		assert.Equal(t, "Moussa Fall", captured["owner_name"])
		assert.Equal(t, "Excavator", captured["equipment_title"])
		assert.Equal(t, "3850.00", captured["total_price"])
		assert.Equal(t, "1500.00", captured["deposit_amount"])
		contracts.AssertExpectations(t)
		bookings.AssertExpectations(t)
		email.AssertExpectations(t)
	})

	t.Run("Missing joined records become placeholders, not failures", func(t *testing.T) {
		bookings := new(MockBookingRepository)
		contracts := new(MockContractRepository)
		profiles := new(MockProfileRepository)
		equipments := new(MockEquipmentRepository)
		renderer := new(MockRenderer)

		bookings.On("GetByID", ctx, "bk-1").Return(testBooking(), nil)
		equipments.On("GetByID", ctx, "eq-1").Return(nil, sql.ErrNoRows)
		profiles.On("GetByID", ctx, "renter-1").Return(nil, sql.ErrNoRows)
		profiles.On("GetByID", ctx, "owner-1").Return(owner, nil)

		var captured map[string]string
		renderer.On("Render", ctx, "bk-1", mock.Anything).
			Run(func(args mock.Arguments) { captured = args.Get(2).(map[string]string) }).
			Return("https://docs.example.com/bk-1.pdf", nil)
		contracts.On("Upsert", ctx, mock.Anything).Return(nil)
		bookings.On("UpdateContract", ctx, "bk-1", mock.Anything, false, false).Return(nil)
		email := new(MockEmail)

		p := NewPipeline(bookings, contracts, profiles, equipments, renderer, new(MockSaver), email)
		_, err := p.Generate(ctx, "bk-1")

		assert.NoError(t, err)
		assert.Equal(t, missingFieldPlaceholder, captured["equipment_title"])
		assert.Equal(t, missingFieldPlaceholder, captured["renter_name"])
		assert.Equal(t, "Moussa Fall", captured["owner_name"])
		// Unresolvable renter profile means nobody to email.
		email.AssertNotCalled(t, "SendContractReadyNotification", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Regeneration overwrites the URL and resets both signature flags", func(t *testing.T) {
		bookings := new(MockBookingRepository)
		contracts := new(MockContractRepository)
		profiles := new(MockProfileRepository)
		equipments := new(MockEquipmentRepository)
		renderer := new(MockRenderer)

		bookings.On("GetByID", ctx, "bk-1").Return(testBooking(), nil)
		equipments.On("GetByID", ctx, "eq-1").Return(equipment, nil)
		profiles.On("GetByID", ctx, "renter-1").Return(renter, nil)
		profiles.On("GetByID", ctx, "owner-1").Return(owner, nil)
		renderer.On("Render", ctx, "bk-1", mock.Anything).
			Return("https://docs.example.com/bk-1-v2.pdf", nil)
		contracts.On("Upsert", ctx, mock.MatchedBy(func(doc *domain.ContractDocument) bool {
			return doc.DocumentURL == "https://docs.example.com/bk-1-v2.pdf" &&
				!doc.RenterSigned && !doc.OwnerSigned
		})).Return(nil)
		bookings.On("UpdateContract", ctx, "bk-1", "https://docs.example.com/bk-1-v2.pdf", false, false).Return(nil)
		email := new(MockEmail)
		email.On("SendContractReadyNotification", ctx, "awa@example.com", "Excavator", "https://docs.example.com/bk-1-v2.pdf").Return(nil)

		p := NewPipeline(bookings, contracts, profiles, equipments, renderer, new(MockSaver), email)
		url, err := p.Generate(ctx, "bk-1")

		assert.NoError(t, err)
		assert.Equal(t, "https://docs.example.com/bk-1-v2.pdf", url)
		contracts.AssertExpectations(t)
	})

	t.Run("Email failure does not fail generation", func(t *testing.T) {
		bookings := new(MockBookingRepository)
		contracts := new(MockContractRepository)
		profiles := new(MockProfileRepository)
		equipments := new(MockEquipmentRepository)
		renderer := new(MockRenderer)

		bookings.On("GetByID", ctx, "bk-1").Return(testBooking(), nil)
		equipments.On("GetByID", ctx, "eq-1").Return(equipment, nil)
		profiles.On("GetByID", ctx, "renter-1").Return(renter, nil)
		profiles.On("GetByID", ctx, "owner-1").Return(owner, nil)
		renderer.On("Render", ctx, "bk-1", mock.Anything).Return("https://docs.example.com/bk-1.pdf", nil)
		contracts.On("Upsert", ctx, mock.Anything).Return(nil)
		bookings.On("UpdateContract", ctx, "bk-1", mock.Anything, false, false).Return(nil)
		email := new(MockEmail)
		email.On("SendContractReadyNotification", ctx, "awa@example.com", "Excavator", mock.Anything).Return(errors.New("sendgrid down"))

		p := NewPipeline(bookings, contracts, profiles, equipments, renderer, new(MockSaver), email)
		url, err := p.Generate(ctx, "bk-1")

		assert.NoError(t, err)
		assert.Equal(t, "https://docs.example.com/bk-1.pdf", url)
	})

	t.Run("Render failure stores nothing", func(t *testing.T) {
		bookings := new(MockBookingRepository)
		contracts := new(MockContractRepository)
		profiles := new(MockProfileRepository)
		equipments := new(MockEquipmentRepository)
		renderer := new(MockRenderer)

		bookings.On("GetByID", ctx, "bk-1").Return(testBooking(), nil)
		equipments.On("GetByID", ctx, "eq-1").Return(equipment, nil)
		profiles.On("GetByID", ctx, "renter-1").Return(renter, nil)
		profiles.On("GetByID", ctx, "owner-1").Return(owner, nil)
		renderer.On("Render", ctx, "bk-1", mock.Anything).Return("", errors.New("renderer down"))

		p := NewPipeline(bookings, contracts, profiles, equipments, renderer, new(MockSaver), new(MockEmail))
		_, err := p.Generate(ctx, "bk-1")

		assert.Error(t, err)
		contracts.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("Unknown booking", func(t *testing.T) {
		bookings := new(MockBookingRepository)
		bookings.On("GetByID", ctx, "missing").Return(nil, sql.ErrNoRows)

		p := NewPipeline(bookings, new(MockContractRepository), new(MockProfileRepository), new(MockEquipmentRepository), new(MockRenderer), new(MockSaver), new(MockEmail))
		_, err := p.Generate(ctx, "missing")

		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestPipeline_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("Stored document returned", func(t *testing.T) {
		contracts := new(MockContractRepository)
		contracts.On("GetByBookingID", ctx, "bk-1").Return(&domain.ContractDocument{BookingID: "bk-1", DocumentURL: "https://docs.example.com/bk-1.pdf"}, nil)
		p := NewPipeline(new(MockBookingRepository), contracts, new(MockProfileRepository), new(MockEquipmentRepository), new(MockRenderer), new(MockSaver), new(MockEmail))

		doc, err := p.Get(ctx, "bk-1")
		assert.NoError(t, err)
		assert.Equal(t, "https://docs.example.com/bk-1.pdf", doc.DocumentURL)
	})

	t.Run("No generated document yet", func(t *testing.T) {
		contracts := new(MockContractRepository)
		contracts.On("GetByBookingID", ctx, "bk-1").Return(nil, sql.ErrNoRows)
		p := NewPipeline(new(MockBookingRepository), contracts, new(MockProfileRepository), new(MockEquipmentRepository), new(MockRenderer), new(MockSaver), new(MockEmail))

		_, err := p.Get(ctx, "bk-1")
		assert.ErrorIs(t, err, ErrContractNotFound)
	})
}

func TestPipeline_Sign(t *testing.T) {
	ctx := context.Background()

	freshDoc := func() *domain.ContractDocument {
		return &domain.ContractDocument{
			ID:          "ct-1",
			BookingID:   "bk-1",
			DocumentURL: "https://docs.example.com/bk-1.pdf",
		}
	}

	newSigningPipeline := func(doc *domain.ContractDocument) (*Pipeline, *MockContractRepository, *MockBookingRepository) {
		contracts := new(MockContractRepository)
		bookings := new(MockBookingRepository)
		contracts.On("GetByBookingID", ctx, "bk-1").Return(doc, nil)
		contracts.On("UpdateSignatures", ctx, mock.Anything).Return(nil)
		bookings.On("UpdateContract", ctx, "bk-1", doc.DocumentURL, mock.Anything, mock.Anything).Return(nil)
		p := NewPipeline(bookings, contracts, new(MockProfileRepository), new(MockEquipmentRepository), new(MockRenderer), new(MockSaver), new(MockEmail))
		return p, contracts, bookings
	}

	t.Run("One signature is not fully executed", func(t *testing.T) {
		p, _, _ := newSigningPipeline(freshDoc())

		doc, err := p.Sign(ctx, "bk-1", "data:image/png;base64,aaa", domain.SignatoryRenter)
		assert.NoError(t, err)
		assert.True(t, doc.RenterSigned)
		assert.False(t, doc.OwnerSigned)
		assert.False(t, doc.FullyExecuted())
	})

	t.Run("Both signatures in either order fully execute", func(t *testing.T) {
		orders := [][]domain.SignatoryParty{
			{domain.SignatoryRenter, domain.SignatoryOwner},
			{domain.SignatoryOwner, domain.SignatoryRenter},
		}
		for _, order := range orders {
			p, _, _ := newSigningPipeline(freshDoc())

			first, err := p.Sign(ctx, "bk-1", "data:image/png;base64,aaa", order[0])
			assert.NoError(t, err)
			assert.False(t, first.FullyExecuted())

			second, err := p.Sign(ctx, "bk-1", "data:image/png;base64,bbb", order[1])
			assert.NoError(t, err)
			assert.True(t, second.FullyExecuted())
		}
	})

	t.Run("Unknown party rejected", func(t *testing.T) {
		p, contracts, _ := newSigningPipeline(freshDoc())

		_, err := p.Sign(ctx, "bk-1", "data:image/png;base64,aaa", domain.SignatoryParty("notary"))
		assert.ErrorIs(t, err, ErrUnknownParty)
		contracts.AssertNotCalled(t, "UpdateSignatures", mock.Anything, mock.Anything)
	})

	t.Run("Empty signature rejected", func(t *testing.T) {
		p, _, _ := newSigningPipeline(freshDoc())

		_, err := p.Sign(ctx, "bk-1", "", domain.SignatoryRenter)
		assert.ErrorIs(t, err, ErrEmptySignature)
	})

	t.Run("Signing before generation", func(t *testing.T) {
		contracts := new(MockContractRepository)
		contracts.On("GetByBookingID", ctx, "bk-1").Return(nil, sql.ErrNoRows)
		p := NewPipeline(new(MockBookingRepository), contracts, new(MockProfileRepository), new(MockEquipmentRepository), new(MockRenderer), new(MockSaver), new(MockEmail))

		_, err := p.Sign(ctx, "bk-1", "data:image/png;base64,aaa", domain.SignatoryRenter)
		assert.ErrorIs(t, err, ErrContractNotFound)
	})
}

func TestPipeline_Download(t *testing.T) {
	ctx := context.Background()
	saver := new(MockSaver)
	saver.On("Download", ctx, "https://docs.example.com/bk-1.pdf", "contract-bk-1.pdf").Return(nil)

	p := NewPipeline(new(MockBookingRepository), new(MockContractRepository), new(MockProfileRepository), new(MockEquipmentRepository), new(MockRenderer), saver, new(MockEmail))
	assert.NoError(t, p.Download(ctx, "https://docs.example.com/bk-1.pdf", "contract-bk-1.pdf"))
	saver.AssertExpectations(t)
}
