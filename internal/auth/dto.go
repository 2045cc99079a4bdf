package auth

import (
	"strings"
	"time"

	"github.com/frahmantamala/gearguard/internal/core/common/validation"
	"github.com/frahmantamala/gearguard/internal/user"
)

const (
	otpLength         = 6
	minPasswordLength = 6
)

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d *LoginDTO) Validate() error {
	d.Email = normalizeEmail(d.Email)

	v := validation.NewValidator()
	v.Field("email", d.Email).Required()
	v.Field("password", d.Password).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type SendOTPDTO struct {
	Email string `json:"email"`
}

func (d *SendOTPDTO) Validate() error {
	d.Email = normalizeEmail(d.Email)

	v := validation.NewValidator()
	v.Field("email", d.Email).Required().Email()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type VerifyOTPDTO struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	OTP      string `json:"otp"`
}

func (d *VerifyOTPDTO) Validate() error {
	d.Email = normalizeEmail(d.Email)
	d.Name = strings.TrimSpace(d.Name)
	d.OTP = strings.TrimSpace(d.OTP)

	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(100)
	v.Field("email", d.Email).Required().Email()
	v.Field("password", d.Password).Required().MinLength(minPasswordLength)
	v.Field("otp", d.OTP).Required().Digits(otpLength)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// Session is returned by login and OTP verification. The token is also set
// as an httpOnly cookie.
type Session struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
	User      *user.User `json:"user"`
}

type OTPChallenge struct {
	Email             string    `json:"email"`
	ExpiresAt         time.Time `json:"expiresAt"`
	ResendAvailableAt time.Time `json:"resendAvailableAt"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
