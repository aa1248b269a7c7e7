package models

import "time"

/** --------------------ENTITIES-------------------- */
// User represents a registered account. Deleting one removes the row;
// votes it already cast stay counted.
type User struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Name     string    `gorm:"not null" json:"name"`
	Email    string    `gorm:"uniqueIndex;not null" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Role     Role      `gorm:"type:varchar(20);not null;default:voter" json:"role"`
	State    string    `json:"state,omitempty"`
	City     string    `json:"city,omitempty"`
	Mobile   string    `json:"mobile,omitempty"`
	Aadhar   string    `json:"aadhar,omitempty"`
	Address  string    `json:"address,omitempty"`
	Image    string    `json:"image,omitempty"`
	DOB      time.Time `gorm:"column:dob;not null" json:"dob"`
	PartyID  *uint     `json:"party_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

/** -------------------- DTOs -------------------- */
// RegisterRequest is accepted as JSON or multipart form
type RegisterRequest struct {
	Name     string `json:"name" form:"name" binding:"required,max=100"`
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=6"`
	Role     string `json:"role" form:"role"`
	State    string `json:"state" form:"state"`
	City     string `json:"city" form:"city"`
	Mobile   string `json:"mobile" form:"mobile"`
	Aadhar   string `json:"aadhar" form:"aadhar"`
	Address  string `json:"address" form:"address"`
	// DOB is a calendar date (2006-01-02) or an RFC 3339 timestamp
	DOB string `json:"dob" form:"dob" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Name     *string `json:"name,omitempty" binding:"omitempty,max=100"`
	Email    *string `json:"email,omitempty" binding:"omitempty,email"`
	Password *string `json:"password,omitempty" binding:"omitempty,min=6"`
	PartyID  *uint   `json:"party_id,omitempty"`
}

// Response
type UserResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	State     string    `json:"state,omitempty"`
	City      string    `json:"city,omitempty"`
	Mobile    string    `json:"mobile,omitempty"`
	Address   string    `json:"address,omitempty"`
	Image     string    `json:"image,omitempty"`
	DOB       time.Time `json:"dob"`
	PartyID   *uint     `json:"party_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AdminUserResponse adds the age derived from the date of birth
type AdminUserResponse struct {
	UserResponse
	Age int `json:"age"`
}

// AuthResponse is returned by register and login
// swagger:model
type AuthResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
	Token string `json:"token"`
}

func NewUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		State:     u.State,
		City:      u.City,
		Mobile:    u.Mobile,
		Address:   u.Address,
		Image:     u.Image,
		DOB:       u.DOB,
		PartyID:   u.PartyID,
		CreatedAt: u.CreatedAt,
	}
}

// AgeAt returns the number of whole years between dob and now.
func AgeAt(dob, now time.Time) int {
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age
}
