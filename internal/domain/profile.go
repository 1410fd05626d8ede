package domain

type ProfileRole string

const (
	ProfileRoleOwner  ProfileRole = "owner"
	ProfileRoleRenter ProfileRole = "renter"
)

type Profile struct {
	ID        string      `json:"id"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Email     string      `json:"email"`
	Phone     string      `json:"phone"`
	Address   string      `json:"address"`
	City      string      `json:"city"`
	Country   string      `json:"country"`
	IDNumber  string      `json:"id_number"`
	Role      ProfileRole `json:"role"`
	AvatarURL string      `json:"avatar_url,omitempty"`
	CreatedOn string      `json:"created_on"`
	UpdatedOn string      `json:"updated_on"`
}

// FullName joins the name parts for display and contract bodies.
func (p *Profile) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	default:
		return p.FirstName + " " + p.LastName
	}
}

// IsBookingComplete reports whether the profile carries everything the
// rental contract needs. The workflow's profile step blocks until this holds.
func (p *Profile) IsBookingComplete() bool {
	return p.FullName() != "" &&
		p.Phone != "" &&
		p.Address != "" &&
		p.City != "" &&
		p.Country != "" &&
		p.IDNumber != ""
}
