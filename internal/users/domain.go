package users

import "strings"

// User is an account member row.
type User struct {
	UserID       int64
	AccountID    int64
	Email        string
	FirstName    string
	MiddleName   string
	LastName     string
	PasswordHash string
	// TokenTTLDays is the login token lifetime in days; zero falls back to
	// the service default.
	TokenTTLDays int
}

// FullName joins the non-empty name parts.
func (u User) FullName() string {
	parts := make([]string, 0, 3)
	for _, part := range []string{u.FirstName, u.MiddleName, u.LastName} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, " ")
}
