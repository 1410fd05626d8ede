package domain

type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "unpaid"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Booking is the canonical booking record. Dates are calendar dates in
// yyyy-mm-dd form, inclusive on both ends, so the rental duration in days is
// end - start + 1. A booking is created once by the renter-side workflow and
// only ever mutated through status changes; cancellation is a status, not a
// delete.
type Booking struct {
	ID           string `json:"id"`
	EquipmentID  string `json:"equipment_id"`
	RenterID     string `json:"renter_id"`
	OwnerID      string `json:"owner_id"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	DurationDays int32  `json:"duration_days"`
	TotalPrice   int64  `json:"total_price"`
	// TotalAmount mirrors TotalPrice. Rows written before the field was
	// renamed still carry total_amount, and older clients still read it.
	TotalAmount      int64         `json:"total_amount"`
	DepositAmount    int64         `json:"deposit_amount"`
	Status           BookingStatus `json:"status"`
	PaymentStatus    PaymentStatus `json:"payment_status"`
	PaymentReference string        `json:"payment_reference,omitempty"`
	ContractURL      *string       `json:"contract_url,omitempty"`
	RenterSigned     bool          `json:"renter_signed"`
	OwnerSigned      bool          `json:"owner_signed"`
	CreatedOn        string        `json:"created_on"`
	UpdatedOn        string        `json:"updated_on"`
}

// Perspective selects which counterparty profile gets attached to a booking
// view: the renter sees the owner, the owner sees the renter.
type Perspective string

const (
	PerspectiveOwner  Perspective = "owner"
	PerspectiveRenter Perspective = "renter"
)

// BookingView is a Booking plus the denormalized equipment snapshot and the
// counterparty profile for one perspective. The two views of the same booking
// are produced from independent query paths and must agree on every Booking
// field.
type BookingView struct {
	Booking
	Perspective  Perspective `json:"perspective"`
	Equipment    Equipment   `json:"equipment"`
	Counterparty Profile     `json:"counterparty"`
}

// RawBookingRow is one joined row as returned by the booking store. The
// equipment and counterparty sub-records come from outer joins and may be
// missing on rows whose referenced records were never backfilled.
type RawBookingRow struct {
	Booking      Booking
	Equipment    *Equipment
	Counterparty *Profile
}
