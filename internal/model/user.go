package model

import "time"

type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "ACTIVE"
	AccountStatusInactive AccountStatus = "INACTIVE"
)

type User struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	Username     string        `gorm:"size:64;not null;uniqueIndex" json:"username"`
	Email        string        `gorm:"size:128;not null;uniqueIndex" json:"email"`
	PasswordHash string        `gorm:"size:255;not null" json:"-"`
	FirstName    string        `gorm:"size:64" json:"first_name"`
	LastName     string        `gorm:"size:64" json:"last_name"`
	Status       AccountStatus `gorm:"type:varchar(16);not null;default:'INACTIVE'" json:"status"`
	Bio          string        `gorm:"size:255" json:"bio"`
	Image        []byte        `json:"image,omitempty"`
	BirthDate    *time.Time    `gorm:"type:date" json:"birth_date,omitempty"`
	Age          int           `json:"age"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

func (u *User) IsActive() bool {
	return u.Status == AccountStatusActive
}
