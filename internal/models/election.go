package models

import "time"

/** --------------------ENTITIES-------------------- */
// Election holds metadata plus its candidate list ordered by registration.
// Rows are hard-deleted together with their candidates and votes.
type Election struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	Title           string      `gorm:"not null" json:"title"`
	Description     string      `json:"description"`
	ElectionLevel   string      `gorm:"not null" json:"election_level"`
	ElectionType    string      `gorm:"not null" json:"election_type"`
	State           string      `json:"state,omitempty"`
	City            string      `json:"city,omitempty"`
	StartDate       time.Time   `gorm:"not null;index" json:"start_date"`
	EndDate         time.Time   `gorm:"not null" json:"end_date"`
	ResultsDeclared bool        `gorm:"not null;default:false" json:"results_declared"`
	Candidates      []Candidate `gorm:"foreignKey:ElectionID" json:"candidates"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// IsOpenAt reports whether now falls inside [StartDate, EndDate].
func (e *Election) IsOpenAt(now time.Time) bool {
	return !now.Before(e.StartDate) && !now.After(e.EndDate)
}

// HasCandidate reports whether candidateID is on this election's list.
func (e *Election) HasCandidate(candidateID uint) bool {
	for _, c := range e.Candidates {
		if c.ID == candidateID {
			return true
		}
	}
	return false
}

/** -------------------- DTOs -------------------- */
type CreateElectionRequest struct {
	Title         string    `json:"title" binding:"required,max=200"`
	Description   string    `json:"description"`
	ElectionLevel string    `json:"election_level" binding:"required"`
	ElectionType  string    `json:"election_type" binding:"required"`
	State         string    `json:"state"`
	City          string    `json:"city"`
	StartDate     time.Time `json:"start_date" binding:"required"`
	EndDate       time.Time `json:"end_date" binding:"required"`
}

type UpdateElectionRequest struct {
	Title         *string    `json:"title,omitempty" binding:"omitempty,max=200"`
	Description   *string    `json:"description,omitempty"`
	ElectionLevel *string    `json:"election_level,omitempty"`
	ElectionType  *string    `json:"election_type,omitempty"`
	State         *string    `json:"state,omitempty"`
	City          *string    `json:"city,omitempty"`
	StartDate     *time.Time `json:"start_date,omitempty"`
	EndDate       *time.Time `json:"end_date,omitempty"`
}

// ElectionSummary is the election header embedded in results payloads
type ElectionSummary struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
}

func NewElectionSummary(e *Election) ElectionSummary {
	return ElectionSummary{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		StartDate:   e.StartDate,
		EndDate:     e.EndDate,
	}
}
