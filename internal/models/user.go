package models

import (
	"regexp"
	"strings"
	"time"
)

// UserRole represents the role of a user in the system
type UserRole string

const (
	RoleTraveler UserRole = "traveler"
	RoleVendor   UserRole = "vendor"
	RoleAdmin    UserRole = "admin"
)

// User represents an account in the system
type User struct {
	ID           int       `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Name         string    `json:"name" db:"name"`
	Role         UserRole  `json:"role" db:"role"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// UserCreateRequest represents the data needed to register a new user
type UserCreateRequest struct {
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Name     string   `json:"name"`
	Role     UserRole `json:"role"`
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Validate validates user registration data
func (req *UserCreateRequest) Validate() error {
	if err := validateEmail(req.Email); err != nil {
		return err
	}

	if len(req.Password) < 8 {
		return &ValidationError{Field: "password", Message: "password must be at least 8 characters"}
	}

	if strings.TrimSpace(req.Name) == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}

	if err := ValidateRole(req.Role); err != nil {
		return err
	}

	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return &ValidationError{Field: "email", Message: "email is required"}
	}

	if len(email) > 255 {
		return &ValidationError{Field: "email", Message: "email must be less than 255 characters"}
	}

	if !emailRegex.MatchString(email) {
		return &ValidationError{Field: "email", Message: "email format is invalid"}
	}

	return nil
}

// ValidateRole validates a user role
func ValidateRole(role UserRole) error {
	switch role {
	case RoleTraveler, RoleVendor, RoleAdmin:
		return nil
	default:
		return &ValidationError{Field: "role", Message: "role must be one of traveler, vendor, admin"}
	}
}

// IsAdmin returns true if the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsVendor returns true if the user holds the vendor role
func (u *User) IsVendor() bool {
	return u.Role == RoleVendor
}
