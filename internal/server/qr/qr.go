// Package qr renders PNG QR codes.
package qr

import (
	"errors"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/referralhub/internal/common"
	qrcode "github.com/skip2/go-qrcode"
)

// Size is the edge length of generated images in pixels.
const Size = 256

var ErrEmptyText = errors.New("qr: empty text")

// Encode returns a PNG of text at medium error recovery.
func Encode(text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	return qrcode.Encode(text, qrcode.Medium, Size)
}

// ReferralURL is the share link that opens registration with code prefilled.
func ReferralURL(baseURL, code string) string {
	q := url.Values{}
	q.Set(common.ReferralQueryParam, code)
	return strings.TrimRight(baseURL, "/") + "/register?" + q.Encode()
}
