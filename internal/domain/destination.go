package domain

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

type DestinationType string

const (
	TypeBeach     DestinationType = "Beach"
	TypeMountain  DestinationType = "Mountain"
	TypeCity      DestinationType = "City"
	TypeCultural  DestinationType = "Cultural"
	TypeAdventure DestinationType = "Adventure"
)

func ParseDestinationType(s string) (DestinationType, bool) {
	switch DestinationType(s) {
	case TypeBeach, TypeMountain, TypeCity, TypeCultural, TypeAdventure:
		return DestinationType(s), true
	default:
		return "", false
	}
}

type Destination struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	CountryCode  string          `json:"countryCode"`
	Type         DestinationType `json:"type"`
	LastModified time.Time       `json:"lastModif"`
	UserID       int64           `json:"userId"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// IsOwnedBy reports whether the acting user owns this destination. Update
// and delete apply it identically; there is no administrator override.
func (d *Destination) IsOwnedBy(userID int64) bool {
	return d.UserID == userID
}

type CreateDestinationRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	CountryCode string `json:"countryCode"`
	Type        string `json:"type"`
}

// DestinationPatch is a partial update: nil fields retain their prior value.
type DestinationPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	CountryCode *string `json:"countryCode,omitempty"`
	Type        *string `json:"type,omitempty"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

type DestinationPage struct {
	Destinations []Destination `json:"destinations"`
	Pagination   Pagination    `json:"pagination"`
}

// ListFilters are exact-match filters applied to the destination listing.
type ListFilters struct {
	Type        *DestinationType
	CountryCode *string
}

var countryCodeRegex = regexp.MustCompile(`^[A-Z]{2}$`)

// IsValidCountryCode reports whether code is exactly 2 uppercase letters.
func IsValidCountryCode(code string) bool {
	return countryCodeRegex.MatchString(code)
}

const (
	nameMinLen        = 2
	nameMaxLen        = 100
	descriptionMinLen = 10
	descriptionMaxLen = 500
)

func (r *CreateDestinationRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
	r.CountryCode = strings.TrimSpace(r.CountryCode)
	r.Type = strings.TrimSpace(r.Type)
}

func (r *CreateDestinationRequest) Validate() error {
	var v ValidationError
	validateName(&v, r.Name)
	validateDescription(&v, r.Description)
	validateCountryCode(&v, r.CountryCode)
	validateType(&v, r.Type)
	return v.orNil()
}

// Normalize trims provided fields in place so the stored values match what
// was validated.
func (p *DestinationPatch) Normalize() {
	if p.Name != nil {
		*p.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		*p.Description = strings.TrimSpace(*p.Description)
	}
	if p.CountryCode != nil {
		*p.CountryCode = strings.TrimSpace(*p.CountryCode)
	}
	if p.Type != nil {
		*p.Type = strings.TrimSpace(*p.Type)
	}
}

func (p *DestinationPatch) Validate() error {
	var v ValidationError
	if p.Name != nil {
		validateName(&v, *p.Name)
	}
	if p.Description != nil {
		validateDescription(&v, *p.Description)
	}
	if p.CountryCode != nil {
		validateCountryCode(&v, *p.CountryCode)
	}
	if p.Type != nil {
		validateType(&v, *p.Type)
	}
	return v.orNil()
}

func validateName(v *ValidationError, name string) {
	// Length limits count characters, not bytes.
	if name == "" {
		v.add("name", "name is required")
	} else if n := utf8.RuneCountInString(name); n < nameMinLen || n > nameMaxLen {
		v.add("name", "name must be between 2 and 100 characters")
	}
}

func validateDescription(v *ValidationError, description string) {
	if description == "" {
		v.add("description", "description is required")
	} else if n := utf8.RuneCountInString(description); n < descriptionMinLen || n > descriptionMaxLen {
		v.add("description", "description must be between 10 and 500 characters")
	}
}

func validateCountryCode(v *ValidationError, code string) {
	if code == "" {
		v.add("countryCode", "country code is required")
	} else if !countryCodeRegex.MatchString(code) {
		v.add("countryCode", "country code must be exactly 2 uppercase letters")
	}
}

func validateType(v *ValidationError, t string) {
	if t == "" {
		v.add("type", "type is required")
		return
	}
	if _, ok := ParseDestinationType(t); !ok {
		v.add("type", "type must be one of: Beach, Mountain, City, Cultural, Adventure")
	}
}
