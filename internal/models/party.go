package models

import (
	"errors"
	"time"
)

type PartyLevel string

const (
	PartyLevelNational PartyLevel = "National"
	PartyLevelLocal    PartyLevel = "Local"
)

var ErrInvalidPartyLevel = errors.New("invalid party level")

func ParsePartyLevel(s string) (PartyLevel, error) {
	switch PartyLevel(s) {
	case PartyLevelNational:
		return PartyLevelNational, nil
	case PartyLevelLocal:
		return PartyLevelLocal, nil
	default:
		return "", ErrInvalidPartyLevel
	}
}

// Party has an independent lifecycle from elections
type Party struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Name      string     `gorm:"uniqueIndex;not null" json:"name"`
	Level     PartyLevel `gorm:"type:varchar(20);not null" json:"level"`
	LogoURL   string     `json:"logo_url,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// PartyForm is bound from multipart forms; the logo file travels separately
type PartyForm struct {
	Name  string `form:"name" json:"name"`
	Level string `form:"level" json:"level"`
}
