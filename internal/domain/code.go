package domain

import "time"

// Code purposes. A registration code activates a pending account, a
// login code confirms a sign-in before tokens are issued.
const (
	PurposeRegistration = "registro"
	PurposeLogin        = "login"
)

type VerificationCode struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	User      User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Code      string    `gorm:"size:6;not null" json:"-"`
	Purpose   string    `gorm:"size:20;not null;default:login" json:"purpose"`
	Used      bool      `gorm:"not null;default:false" json:"used"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (VerificationCode) TableName() string { return "codigos_verificacion" }

// ValidAt reports whether the code can still be consumed: never used and
// not yet past its expiry.
func (c *VerificationCode) ValidAt(now time.Time) bool {
	return !c.Used && now.Before(c.ExpiresAt)
}
