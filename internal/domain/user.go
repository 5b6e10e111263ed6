package domain

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is a staff member able to sign in to the course tracker.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// NormalizeEmail trims and lower-cases an address; emails are unique case-insensitively.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// VerifyPassword reports whether candidate matches the stored bcrypt hash.
func (u *User) VerifyPassword(candidate string) bool {
	if u == nil || u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(candidate)) == nil
}
