// Package accounts is the credential store: persistence of Account records
// with lookups by id, email and referral code, and an atomic wallet credit.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/referralhub/internal/server/models"
	"github.com/shopspring/decimal"
)

// Index and constraint names shared by every backend, used to tell which
// uniqueness rule a failed insert hit.
const (
	EmailConstraint        = "uq_accounts_email"
	ReferralCodeConstraint = "uq_accounts_referral_code"
)

type Repository interface {
	// Create stores a new account and fills in its ID. A clash on email or
	// referral code returns common.ErrDuplicateEmail or
	// common.ErrDuplicateReferralCode.
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	ReferralCodeExists(ctx context.Context, code string) (bool, error)
	// CreditWallet atomically adds amount to the wallet of the account owning
	// referralCode and returns the new balance, or common.ErrorNotFound.
	CreditWallet(ctx context.Context, referralCode string, amount decimal.Decimal) (decimal.Decimal, error)
	// ListReferrals returns accounts whose referrer code is referralCode,
	// oldest first.
	ListReferrals(ctx context.Context, referralCode string) ([]models.Account, error)
	// List returns every account, oldest first.
	List(ctx context.Context) ([]models.Account, error)
	UpdateProfile(ctx context.Context, email string, profile models.Profile) error
	SetPaymentStatus(ctx context.Context, id string, status models.PaymentStatus) error
	SetPasswordHash(ctx context.Context, id string, hash string) error
	Delete(ctx context.Context, id string) error
}
