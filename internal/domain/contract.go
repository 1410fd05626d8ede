package domain

// SignatoryParty identifies which side of the rental agreement a signature
// belongs to.
type SignatoryParty string

const (
	SignatoryRenter SignatoryParty = "renter"
	SignatoryOwner  SignatoryParty = "owner"
)

// ContractDocument is the generated rental agreement for a booking, 1:1 with
// the booking it belongs to. The URL points at the rendered file; signatures
// are recorded per party as opaque raster images captured client-side.
type ContractDocument struct {
	ID              string `json:"id"`
	BookingID       string `json:"booking_id"`
	DocumentURL     string `json:"document_url"`
	RenterSigned    bool   `json:"renter_signed"`
	OwnerSigned     bool   `json:"owner_signed"`
	RenterSignature string `json:"renter_signature,omitempty"`
	OwnerSignature  string `json:"owner_signature,omitempty"`
	GeneratedOn     string `json:"generated_on"`
	UpdatedOn       string `json:"updated_on"`
}

// FullyExecuted reports whether both parties have signed. Signature order is
// not constrained.
func (c *ContractDocument) FullyExecuted() bool {
	return c.RenterSigned && c.OwnerSigned
}
