package web

import (
	"time"

	"github.com/dmitrijs2005/referralhub/internal/server/downloads"
	"github.com/dmitrijs2005/referralhub/internal/server/models"
	"github.com/dmitrijs2005/referralhub/internal/server/services"
)

const timeLayout = "2006-01-02 15:04:05"

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(timeLayout)
}

func statusClass(a *models.Account) string {
	if a.IsVerified() {
		return "verified"
	}
	return "pending"
}

type messageView struct {
	Title    string
	Detail   string
	Link     string
	LinkText string
}

type registerView struct {
	Name     string
	Email    string
	Referrer string
	Message  string
	Errors   map[string]string
}

type successView struct {
	Name         string
	ReferralCode string
}

type referralView struct {
	Name          string
	Email         string
	PaymentStatus string
}

type dashboardView struct {
	Name               string
	ReferralCode       string
	ShareURL           string
	PaymentStatus      string
	PaymentStatusClass string
	Wallet             string
	ReferralCount      int
	RegisteredAt       string
	Referrals          []referralView
}

func newDashboardView(d *services.Dashboard, shareURL string) dashboardView {
	a := d.Account
	v := dashboardView{
		Name:               a.Name,
		ReferralCode:       a.ReferralCode,
		ShareURL:           shareURL,
		PaymentStatus:      string(a.PaymentStatus),
		PaymentStatusClass: statusClass(a),
		Wallet:             a.Wallet.String(),
		ReferralCount:      d.Summary.Count,
		RegisteredAt:       formatTime(a.CreatedAt),
		Referrals:          make([]referralView, 0, len(d.Summary.Referrals)),
	}
	for _, r := range d.Summary.Referrals {
		v.Referrals = append(v.Referrals, referralView{
			Name:          r.Name,
			Email:         r.Email,
			PaymentStatus: string(r.PaymentStatus),
		})
	}
	return v
}

type profileView struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

type adminRow struct {
	ID            string
	Name          string
	Email         string
	Referrer      string
	ReferralCode  string
	TransactionID string
	PaymentStatus string
	Verified      bool
	Wallet        string
	RegisteredAt  string
}

type adminView struct {
	Rows []adminRow
}

func newAdminView(list []models.Account) adminView {
	rows := make([]adminRow, 0, len(list))
	for i := range list {
		a := &list[i]
		row := adminRow{
			ID:            a.ID,
			Name:          a.Name,
			Email:         a.Email,
			Referrer:      a.ReferrerCode,
			ReferralCode:  a.ReferralCode,
			TransactionID: a.TransactionID,
			PaymentStatus: string(a.PaymentStatus),
			Verified:      a.IsVerified(),
			Wallet:        a.Wallet.String(),
			RegisteredAt:  formatTime(a.CreatedAt),
		}
		if row.Referrer == "" {
			row.Referrer = "None"
		}
		if row.TransactionID == "" {
			row.TransactionID = "Not Provided"
		}
		rows = append(rows, row)
	}
	return adminView{Rows: rows}
}

type downloadsView struct {
	Files []downloads.File
}
