/*
Package user contains the representation of an authenticated user.
*/
package user

// User is the identity returned by a credential validator.
type User struct {
	// ID is the stable identifier issued by the identity provider.
	ID string `json:"id"`

	// Name is the display name known to the identity provider, possibly empty.
	Name string `json:"name,omitempty"`

	// Email is informational only.
	Email string `json:"email,omitempty"`
}

// DisplayName returns Name, or fallback when the provider had none.
func (u User) DisplayName(fallback string) string {
	if u.Name != "" {
		return u.Name
	}
	return fallback
}
