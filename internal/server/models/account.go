// Package models holds the persisted entities of the referral service.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus tracks whether an administrator has confirmed the account's
// payment. The only transition is Pending → Verified.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "Pending"
	PaymentVerified PaymentStatus = "Verified"
)

// Account is a registered user.
type Account struct {
	ID            string
	Name          string
	Email         string
	PasswordHash  string
	ReferrerCode  string
	ReferralCode  string
	TransactionID string
	PaymentStatus PaymentStatus
	Wallet        decimal.Decimal
	Phone         string
	Address       string
	CreatedAt     time.Time
}

// IsVerified reports whether the payment has been confirmed.
func (a *Account) IsVerified() bool {
	return a.PaymentStatus == PaymentVerified
}

// Profile is the user-editable part of an Account.
type Profile struct {
	Name    string
	Phone   string
	Address string
}
