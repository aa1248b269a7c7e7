package models

import "time"

// Candidate belongs to exactly one election and one party
type Candidate struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"not null" json:"name"`
	PartyID    uint      `gorm:"not null;index" json:"party_id"`
	Party      *Party    `gorm:"foreignKey:PartyID" json:"party,omitempty"`
	ElectionID uint      `gorm:"not null;index" json:"election_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type CreateCandidateRequest struct {
	Name       string `json:"name" binding:"required,max=100"`
	PartyID    uint   `json:"party_id" binding:"required"`
	ElectionID uint   `json:"election_id" binding:"required"`
}
