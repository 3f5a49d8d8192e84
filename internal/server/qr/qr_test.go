package qr

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	b, err := Encode("https://example.com/register?ref=123456")
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, Size, img.Bounds().Dx())
	assert.Equal(t, Size, img.Bounds().Dy())
}

func TestEncode_Empty(t *testing.T) {
	for _, text := range []string{"", "   ", "\n"} {
		_, err := Encode(text)
		assert.ErrorIs(t, err, ErrEmptyText, "%q", text)
	}
}

func TestReferralURL(t *testing.T) {
	assert.Equal(t, "http://localhost:3000/register?ref=123456", ReferralURL("http://localhost:3000/", "123456"))
	assert.Equal(t, "https://x.io/register?ref=a%26b", ReferralURL("https://x.io", "a&b"))
}
