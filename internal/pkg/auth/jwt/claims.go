package jwt

import "github.com/golang-jwt/jwt"

// Claims defines the identity token issued by this service.
// The user id travels in the standard "sub" claim.
type Claims struct {
	jwt.StandardClaims

	// Name is the display name shown to other users in notifications.
	Name string `json:"name,omitempty"`

	// Email is informational only.
	Email string `json:"email,omitempty"`
}
