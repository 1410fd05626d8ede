// config/security_config.go
package config

type SecurityLevel int

const (
	SecurityPublic  SecurityLevel = iota // No authentication
	SecurityRefresh                      // Refresh token required
	SecurityAccess                       // Access token required
)

// EndpointSecurityConfig maps routes to their required security level. Keys
// are "METHOD path-template" as registered on the router.
var EndpointSecurityConfig = map[string]SecurityLevel{
	// Auth - Public
	"POST /api/v1/auth/signup":   SecurityPublic,
	"POST /api/v1/auth/login":    SecurityPublic,
	"POST /api/v1/auth/firebase": SecurityPublic,

	// Auth - Refresh Protected
	"POST /api/v1/auth/refresh": SecurityRefresh,

	// Equipment - browsing is public, everything else access protected
	"GET /api/v1/equipment":      SecurityPublic,
	"GET /api/v1/equipment/{id}": SecurityPublic,

	"POST /api/v1/equipment":                              SecurityAccess,
	"PUT /api/v1/equipment/{id}":                          SecurityAccess,
	"GET /api/v1/equipment/mine":                          SecurityAccess,
	"PUT /api/v1/equipment/{id}/images/{imageId}/primary": SecurityAccess,

	// Profile - Access Protected
	"GET /api/v1/profile":              SecurityAccess,
	"PUT /api/v1/profile":              SecurityAccess,
	"GET /api/v1/profile/completeness": SecurityAccess,

	// Bookings - Access Protected
	"POST /api/v1/bookings":              SecurityAccess,
	"GET /api/v1/bookings/{id}":          SecurityAccess,
	"GET /api/v1/bookings/owner":         SecurityAccess,
	"GET /api/v1/bookings/renter":        SecurityAccess,
	"POST /api/v1/bookings/{id}/approve": SecurityAccess,
	"POST /api/v1/bookings/{id}/reject":  SecurityAccess,
	"POST /api/v1/bookings/{id}/cancel":  SecurityAccess,
	"POST /api/v1/bookings/{id}/payment": SecurityAccess,

	// Contracts - Access Protected
	"POST /api/v1/bookings/{id}/contract":          SecurityAccess,
	"GET /api/v1/bookings/{id}/contract":           SecurityAccess,
	"POST /api/v1/bookings/{id}/contract/sign":     SecurityAccess,
	"POST /api/v1/bookings/{id}/contract/download": SecurityAccess,

	// Notifications - Access Protected
	"GET /api/v1/notifications":            SecurityAccess,
	"POST /api/v1/notifications/{id}/read": SecurityAccess,
}

// GetSecurityLevel returns the security level for a given route
func GetSecurityLevel(route string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[route]; exists {
		return level
	}
	// Default to highest security for unknown endpoints
	return SecurityAccess
}
