package services

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

// Referral codes are six decimal digits without a leading zero.
const (
	minReferralCode = 100000
	maxReferralCode = 999999
)

// CodeSource yields candidate referral codes. Uniqueness is checked by the
// caller.
type CodeSource interface {
	Next() (string, error)
}

// CodeGenerator draws codes uniformly from [100000, 999999].
type CodeGenerator struct {
	rand io.Reader
}

func NewCodeGenerator() *CodeGenerator {
	return &CodeGenerator{rand: rand.Reader}
}

func (g *CodeGenerator) Next() (string, error) {
	n, err := rand.Int(g.rand, big.NewInt(maxReferralCode-minReferralCode+1))
	if err != nil {
		return "", fmt.Errorf("error reading random source: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+minReferralCode), nil
}
