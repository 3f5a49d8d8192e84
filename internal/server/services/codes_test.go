package services

import (
	"bytes"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeGenerator_Range(t *testing.T) {
	g := NewCodeGenerator()

	for i := 0; i < 500; i++ {
		code, err := g.Next()
		require.NoError(t, err)
		require.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, minReferralCode)
		assert.LessOrEqual(t, n, maxReferralCode)
	}
}

func TestCodeGenerator_LowerBound(t *testing.T) {
	g := &CodeGenerator{rand: bytes.NewReader(make([]byte, 64))}

	code, err := g.Next()
	require.NoError(t, err)
	assert.Equal(t, "100000", code)
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("entropy gone") }

func TestCodeGenerator_ReaderError(t *testing.T) {
	g := &CodeGenerator{rand: errReader{}}

	_, err := g.Next()
	assert.ErrorContains(t, err, "entropy gone")
}
