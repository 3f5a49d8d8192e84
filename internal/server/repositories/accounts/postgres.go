package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/referralhub/internal/common"
	"github.com/dmitrijs2005/referralhub/internal/dbx"
	"github.com/dmitrijs2005/referralhub/internal/server/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const accountColumns = `id, name, email, password_hash, referrer_code, referral_code, txn_id, payment_status, wallet, phone, address, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*models.Account, error) {
	a := &models.Account{}
	var status string
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.ReferrerCode, &a.ReferralCode,
		&a.TransactionID, &status, &a.Wallet, &a.Phone, &a.Address, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	a.PaymentStatus = models.PaymentStatus(status)
	return a, nil
}

func mapWriteError(err error) error {
	if constraint, ok := dbx.UniqueViolation(err); ok {
		switch constraint {
		case EmailConstraint:
			return common.ErrDuplicateEmail
		case ReferralCodeConstraint:
			return common.ErrDuplicateReferralCode
		}
	}
	return fmt.Errorf("db error: %w", err)
}

func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {

	query :=
		`INSERT INTO accounts (name, email, password_hash, referrer_code, referral_code, txn_id, payment_status, wallet, phone, address, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		account.Name, account.Email, account.PasswordHash, account.ReferrerCode, account.ReferralCode,
		account.TransactionID, string(account.PaymentStatus), account.Wallet, account.Phone, account.Address,
		account.CreatedAt).Scan(&account.ID)

	if err != nil {
		return nil, mapWriteError(err)
	}

	return account, nil
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.Account, error) {
	a, err := scanAccount(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email)
}

func (r *PostgresRepository) ReferralCodeExists(ctx context.Context, code string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM accounts WHERE referral_code = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, code).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) CreditWallet(ctx context.Context, referralCode string, amount decimal.Decimal) (decimal.Decimal, error) {
	query :=
		`UPDATE accounts SET wallet = wallet + $1
		 WHERE referral_code = $2
		 RETURNING wallet
		 `

	var balance decimal.Decimal
	err := r.db.QueryRowContext(ctx, query, amount, referralCode).Scan(&balance)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, common.ErrorNotFound
		}
		return decimal.Zero, fmt.Errorf("db error: %w", err)
	}

	return balance, nil
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]models.Account, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) ListReferrals(ctx context.Context, referralCode string) ([]models.Account, error) {
	return r.list(ctx, `SELECT `+accountColumns+` FROM accounts WHERE referrer_code = $1 ORDER BY created_at, id`, referralCode)
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.Account, error) {
	return r.list(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY created_at, id`)
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, email string, profile models.Profile) error {
	return r.exec(ctx, `UPDATE accounts SET name = $1, phone = $2, address = $3 WHERE email = $4`,
		profile.Name, profile.Phone, profile.Address, email)
}

func (r *PostgresRepository) SetPaymentStatus(ctx context.Context, id string, status models.PaymentStatus) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrorNotFound
	}
	return r.exec(ctx, `UPDATE accounts SET payment_status = $1 WHERE id = $2`, string(status), id)
}

func (r *PostgresRepository) SetPasswordHash(ctx context.Context, id string, hash string) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrorNotFound
	}
	return r.exec(ctx, `UPDATE accounts SET password_hash = $1 WHERE id = $2`, hash, id)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrorNotFound
	}
	return r.exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
}
