package domain

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by both register and login.
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func (r *RegisterRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Name = strings.TrimSpace(r.Name)
}

func (r *RegisterRequest) Validate() error {
	var v ValidationError
	if r.Email == "" {
		v.add("email", "email is required")
	} else if !emailRegex.MatchString(r.Email) {
		v.add("email", "invalid email format")
	}
	if r.Password == "" {
		v.add("password", "password is required")
	} else if len(r.Password) < 6 {
		v.add("password", "password must be at least 6 characters")
	}
	if r.Name == "" {
		v.add("name", "name is required")
	} else if utf8.RuneCountInString(r.Name) < 2 {
		v.add("name", "name must be at least 2 characters")
	}
	return v.orNil()
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r *LoginRequest) Validate() error {
	var v ValidationError
	if r.Email == "" {
		v.add("email", "email is required")
	} else if !emailRegex.MatchString(r.Email) {
		v.add("email", "invalid email format")
	}
	if r.Password == "" {
		v.add("password", "password is required")
	}
	return v.orNil()
}
