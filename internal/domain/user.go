package domain

// User is the authentication identity. Booking-facing data lives on the
// Profile keyed by the same id; the two are fetched separately because a
// Firebase-authenticated user may exist before any profile row does.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	FirebaseUID  string `json:"-"`
	CreatedOn    string `json:"created_on"`
	UpdatedOn    string `json:"updated_on"`
}
