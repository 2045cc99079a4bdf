package otp

import "time"

// Code is a pending email verification challenge. Only the bcrypt hash of the
// code is stored.
type Code struct {
	ID        int64     `gorm:"primaryKey"`
	Email     string    `gorm:"column:email;not null;index"`
	CodeHash  string    `gorm:"column:code_hash;not null"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null"`
	Attempts  int       `gorm:"column:attempts;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Code) TableName() string {
	return "otp_codes"
}
