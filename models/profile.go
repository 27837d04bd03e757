package models

// UserProfile is owned by the client and overwritten on every profile save.
type UserProfile struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	BloodGroup string `json:"bloodGroup,omitempty"`
}
