// Package services contains the server-side business logic. AccountService
// is the referral engine: registration with referral attribution and wallet
// credit, credential checks, the referral summary, profile edits and the
// administrative mutations.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/referralhub/internal/common"
	"github.com/dmitrijs2005/referralhub/internal/logging"
	"github.com/dmitrijs2005/referralhub/internal/server/auth"
	"github.com/dmitrijs2005/referralhub/internal/server/config"
	"github.com/dmitrijs2005/referralhub/internal/server/metrics"
	"github.com/dmitrijs2005/referralhub/internal/server/models"
	"github.com/dmitrijs2005/referralhub/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/referralhub/internal/server/repositories/repomanager"
	"github.com/shopspring/decimal"
)

var now = time.Now

// Admin action labels.
const (
	ActionVerify = "verify"
	ActionReset  = "reset"
	ActionDelete = "delete"
)

// RegisterInput is the registration form.
type RegisterInput struct {
	Name            string `form:"name" validate:"required"`
	Email           string `form:"email" validate:"required,email"`
	Password        string `form:"password" validate:"required,maxbytes=72"`
	ConfirmPassword string `form:"confirmPassword" validate:"omitempty,eqfield=Password"`
	ReferrerCode    string `form:"referrer"`
	TransactionID   string `form:"txnId"`
}

// Draft is a validated registration waiting for its transaction id. It holds
// the password hash only.
type Draft struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
	ReferrerCode string `json:"referrer,omitempty"`
}

type ProfileInput struct {
	Name    string `form:"name"`
	Phone   string `form:"phone"`
	Address string `form:"address"`
}

type ReferralSummary struct {
	Referrals []models.Account
	Count     int
}

type Dashboard struct {
	Account *models.Account
	Summary *ReferralSummary
}

type AccountService struct {
	repomanager     repomanager.RepositoryManager
	hasher          auth.PasswordHasher
	codes           CodeSource
	logger          logging.Logger
	metrics         *metrics.Metrics
	credit          decimal.Decimal
	maxCodeAttempts int
	resetPassword   string
	dummyHash       string
}

// NewAccountService wires the service. m may be nil.
func NewAccountService(rm repomanager.RepositoryManager, hasher auth.PasswordHasher, cfg *config.Config, l logging.Logger, m *metrics.Metrics) *AccountService {
	attempts := cfg.MaxCodeAttempts
	if attempts < 1 {
		attempts = 1
	}

	// compared against when the email is unknown
	dummy, err := hasher.Hash("referralhub-dummy-password")
	if err != nil {
		l.Warn(context.Background(), "could not prepare dummy hash", "error", err)
	}

	return &AccountService{
		repomanager:     rm,
		hasher:          hasher,
		codes:           NewCodeGenerator(),
		logger:          l.With("module", "account_service"),
		metrics:         m,
		credit:          cfg.ReferralCredit,
		maxCodeAttempts: attempts,
		resetPassword:   cfg.DefaultResetPassword,
		dummyHash:       dummy,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register validates the input, stores a new account and credits the
// referrer when the referrer code matches an account.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.Account, error) {
	draft, err := s.Prepare(ctx, in)
	if err != nil {
		return nil, err
	}
	return s.Complete(ctx, draft, in.TransactionID)
}

// Prepare validates the input, rejects a taken email and hashes the password.
func (s *AccountService) Prepare(ctx context.Context, in RegisterInput) (*Draft, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.ReferrerCode = strings.TrimSpace(in.ReferrerCode)

	if err := validateStruct(in); err != nil {
		return nil, err
	}

	if err := s.ensureEmailFree(ctx, in.Email); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		s.logger.Error(ctx, "password hashing failed", "error", err)
		return nil, common.ErrorInternal
	}

	return &Draft{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		ReferrerCode: in.ReferrerCode,
	}, nil
}

func (s *AccountService) ensureEmailFree(ctx context.Context, email string) error {
	_, err := s.repomanager.Accounts().GetByEmail(ctx, email)
	switch {
	case err == nil:
		return common.ErrDuplicateEmail
	case errors.Is(err, common.ErrorNotFound):
		return nil
	default:
		s.logger.Error(ctx, "email lookup failed", "error", err)
		return common.ErrorInternal
	}
}

// Complete persists a prepared draft. A referral code that loses an insert
// race is re-rolled.
func (s *AccountService) Complete(ctx context.Context, draft *Draft, transactionID string) (*models.Account, error) {
	if draft == nil || draft.Email == "" || draft.PasswordHash == "" {
		return nil, fmt.Errorf("%w: empty registration draft", common.ErrValidation)
	}

	if err := s.ensureEmailFree(ctx, draft.Email); err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= s.maxCodeAttempts; attempt++ {
		account, credited, err := s.persist(ctx, draft, strings.TrimSpace(transactionID))
		if errors.Is(err, common.ErrDuplicateReferralCode) {
			s.logger.Debug(ctx, "referral code taken on insert, retrying", "attempt", attempt)
			continue
		}
		if err != nil {
			return nil, s.storeError(ctx, "error creating account", err)
		}

		s.metrics.Registration(draft.ReferrerCode != "")
		if draft.ReferrerCode != "" {
			s.metrics.ReferralCredit(credited)
		}
		s.logger.Info(ctx, "account registered", "account_id", account.ID, "referred", draft.ReferrerCode != "")
		return account, nil
	}

	return nil, common.ErrCodeSpaceExhausted
}

// persist creates the account and credits the referrer in one transaction.
func (s *AccountService) persist(ctx context.Context, draft *Draft, transactionID string) (*models.Account, bool, error) {
	var (
		created  *models.Account
		credited bool
	)

	err := s.repomanager.WithTx(ctx, func(ctx context.Context, repo accounts.Repository) error {
		code, err := s.nextReferralCode(ctx, repo, draft.ReferrerCode)
		if err != nil {
			return err
		}

		created, err = repo.Create(ctx, &models.Account{
			Name:          draft.Name,
			Email:         draft.Email,
			PasswordHash:  draft.PasswordHash,
			ReferrerCode:  draft.ReferrerCode,
			ReferralCode:  code,
			TransactionID: transactionID,
			PaymentStatus: models.PaymentPending,
			Wallet:        decimal.Zero,
			CreatedAt:     now().UTC(),
		})
		if err != nil {
			return err
		}

		if draft.ReferrerCode == "" {
			return nil
		}

		balance, err := repo.CreditWallet(ctx, draft.ReferrerCode, s.credit)
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "referrer code matched no account", "referrer", draft.ReferrerCode)
			return nil
		}
		if err != nil {
			return err
		}

		credited = true
		s.logger.Debug(ctx, "referrer credited", "referrer", draft.ReferrerCode, "wallet", balance.String())
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return created, credited, nil
}

// nextReferralCode draws codes until one is free. The referrer code of the
// same registration counts as taken.
func (s *AccountService) nextReferralCode(ctx context.Context, repo accounts.Repository, referrerCode string) (string, error) {
	for attempt := 1; attempt <= s.maxCodeAttempts; attempt++ {
		code, err := s.codes.Next()
		if err != nil {
			return "", err
		}
		if code == referrerCode {
			continue
		}

		taken, err := repo.ReferralCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
		s.logger.Debug(ctx, "referral code collision", "attempt", attempt)
	}
	return "", common.ErrCodeSpaceExhausted
}

// Authenticate checks credentials. Unknown email and wrong password both
// return common.ErrorUnauthorized.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*models.Account, error) {
	account, err := s.repomanager.Accounts().GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Compare(s.dummyHash, password)
			s.metrics.FailedLogin(metrics.LoginUser)
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "account lookup failed", "error", err)
		return nil, common.ErrorInternal
	}

	if !s.hasher.Compare(account.PasswordHash, password) {
		s.metrics.FailedLogin(metrics.LoginUser)
		return nil, common.ErrorUnauthorized
	}

	return account, nil
}

// Summary lists the accounts referred by account, oldest first.
func (s *AccountService) Summary(ctx context.Context, account *models.Account) (*ReferralSummary, error) {
	if account == nil || account.ReferralCode == "" {
		return &ReferralSummary{Referrals: []models.Account{}}, nil
	}

	referrals, err := s.repomanager.Accounts().ListReferrals(ctx, account.ReferralCode)
	if err != nil {
		return nil, s.storeError(ctx, "error listing referrals", err)
	}

	return &ReferralSummary{Referrals: referrals, Count: len(referrals)}, nil
}

func (s *AccountService) Dashboard(ctx context.Context, email string) (*Dashboard, error) {
	account, err := s.Profile(ctx, email)
	if err != nil {
		return nil, err
	}

	summary, err := s.Summary(ctx, account)
	if err != nil {
		return nil, err
	}

	return &Dashboard{Account: account, Summary: summary}, nil
}

func (s *AccountService) Profile(ctx context.Context, email string) (*models.Account, error) {
	account, err := s.repomanager.Accounts().GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, s.storeError(ctx, "error loading account", err)
	}
	return account, nil
}

// UpdateProfile overwrites name, phone and address. Email is never changed.
func (s *AccountService) UpdateProfile(ctx context.Context, email string, in ProfileInput) error {
	err := s.repomanager.Accounts().UpdateProfile(ctx, normalizeEmail(email), models.Profile{
		Name:    strings.TrimSpace(in.Name),
		Phone:   strings.TrimSpace(in.Phone),
		Address: strings.TrimSpace(in.Address),
	})
	if err != nil {
		return s.storeError(ctx, "error updating profile", err)
	}
	return nil
}

func (s *AccountService) ListAccounts(ctx context.Context) ([]models.Account, error) {
	list, err := s.repomanager.Accounts().List(ctx)
	if err != nil {
		return nil, s.storeError(ctx, "error listing accounts", err)
	}
	return list, nil
}

// VerifyPayment marks the payment verified. Verifying twice is a no-op.
func (s *AccountService) VerifyPayment(ctx context.Context, id string) error {
	if err := s.repomanager.Accounts().SetPaymentStatus(ctx, id, models.PaymentVerified); err != nil {
		return s.storeError(ctx, "error verifying payment", err)
	}
	s.adminAction(ctx, ActionVerify, id)
	return nil
}

// ResetPassword replaces the password with the configured default.
func (s *AccountService) ResetPassword(ctx context.Context, id string) error {
	hash, err := s.hasher.Hash(s.resetPassword)
	if err != nil {
		s.logger.Error(ctx, "password hashing failed", "error", err)
		return common.ErrorInternal
	}

	if err := s.repomanager.Accounts().SetPasswordHash(ctx, id, hash); err != nil {
		return s.storeError(ctx, "error resetting password", err)
	}
	s.adminAction(ctx, ActionReset, id)
	return nil
}

func (s *AccountService) DeleteAccount(ctx context.Context, id string) error {
	if err := s.repomanager.Accounts().Delete(ctx, id); err != nil {
		return s.storeError(ctx, "error deleting account", err)
	}
	s.adminAction(ctx, ActionDelete, id)
	return nil
}

func (s *AccountService) adminAction(ctx context.Context, action, id string) {
	s.metrics.AdminAction(action)
	s.logger.Info(ctx, "admin action", "action", action, "account_id", id)
}

// storeError passes sentinel errors through and collapses anything else to
// common.ErrorInternal after logging it.
func (s *AccountService) storeError(ctx context.Context, msg string, err error) error {
	for _, sentinel := range []error{
		common.ErrorNotFound,
		common.ErrDuplicateEmail,
		common.ErrDuplicateReferralCode,
		common.ErrCodeSpaceExhausted,
	} {
		if errors.Is(err, sentinel) {
			return fmt.Errorf("%s: %w", msg, err)
		}
	}
	s.logger.Error(ctx, msg, "error", err)
	return fmt.Errorf("%s: %w", msg, common.ErrorInternal)
}
