package accounts

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrijs2005/referralhub/internal/common"
	"github.com/dmitrijs2005/referralhub/internal/server/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MemoryRepository keeps accounts in process memory. Every method holds the
// mutex for its whole duration, so CreditWallet is atomic with respect to
// other callers.
type MemoryRepository struct {
	mu       sync.RWMutex
	accounts map[string]models.Account
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{accounts: make(map[string]models.Account)}
}

func (r *MemoryRepository) Create(_ context.Context, account *models.Account) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.accounts {
		if a.Email == account.Email {
			return nil, common.ErrDuplicateEmail
		}
		if a.ReferralCode == account.ReferralCode {
			return nil, common.ErrDuplicateReferralCode
		}
	}

	account.ID = uuid.NewString()
	r.accounts[account.ID] = *account
	return account, nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.accounts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &a, nil
}

func (r *MemoryRepository) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.accounts {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *MemoryRepository) ReferralCodeExists(_ context.Context, code string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.accounts {
		if a.ReferralCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryRepository) CreditWallet(_ context.Context, referralCode string, amount decimal.Decimal) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, a := range r.accounts {
		if a.ReferralCode == referralCode {
			a.Wallet = a.Wallet.Add(amount)
			r.accounts[id] = a
			return a.Wallet, nil
		}
	}
	return decimal.Zero, common.ErrorNotFound
}

func (r *MemoryRepository) sorted(keep func(models.Account) bool) []models.Account {
	result := make([]models.Account, 0)
	for _, a := range r.accounts {
		if keep(a) {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

func (r *MemoryRepository) ListReferrals(_ context.Context, referralCode string) ([]models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sorted(func(a models.Account) bool { return a.ReferrerCode == referralCode }), nil
}

func (r *MemoryRepository) List(_ context.Context) ([]models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sorted(func(models.Account) bool { return true }), nil
}

func (r *MemoryRepository) update(id string, fn func(a *models.Account)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[id]
	if !ok {
		return common.ErrorNotFound
	}
	fn(&a)
	r.accounts[id] = a
	return nil
}

func (r *MemoryRepository) UpdateProfile(ctx context.Context, email string, profile models.Profile) error {
	a, err := r.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	return r.update(a.ID, func(a *models.Account) {
		a.Name = profile.Name
		a.Phone = profile.Phone
		a.Address = profile.Address
	})
}

func (r *MemoryRepository) SetPaymentStatus(_ context.Context, id string, status models.PaymentStatus) error {
	return r.update(id, func(a *models.Account) { a.PaymentStatus = status })
}

func (r *MemoryRepository) SetPasswordHash(_ context.Context, id string, hash string) error {
	return r.update(id, func(a *models.Account) { a.PasswordHash = hash })
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.accounts, id)
	return nil
}
