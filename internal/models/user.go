package models

// User is an account. The password hash is never serialized.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	IsAdmin      bool   `json:"is_admin"`
	PasswordHash string `json:"-"`
}
