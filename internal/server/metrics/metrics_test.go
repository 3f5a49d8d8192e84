package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.ObserveRequest(http.MethodGet, "/dashboard", http.StatusOK, 20*time.Millisecond)
	m.Registration(true)
	m.Registration(true)
	m.Registration(false)
	m.ReferralCredit(true)
	m.ReferralCredit(false)
	m.FailedLogin(LoginAdmin)
	m.AdminAction("verify")

	out := scrape(t, m)

	assert.Contains(t, out, `http_requests_total{method="GET",path="/dashboard",status="200"} 1`)
	assert.Contains(t, out, `http_response_time_seconds_count{method="GET",path="/dashboard"} 1`)
	assert.Contains(t, out, `referralhub_registrations_total{referred="true"} 2`)
	assert.Contains(t, out, `referralhub_registrations_total{referred="false"} 1`)
	assert.Contains(t, out, `referralhub_referral_credits_total{result="credited"} 1`)
	assert.Contains(t, out, `referralhub_referral_credits_total{result="unmatched"} 1`)
	assert.Contains(t, out, `referralhub_failed_logins_total{kind="admin"} 1`)
	assert.Contains(t, out, `referralhub_admin_actions_total{action="verify"} 1`)
	assert.Contains(t, out, "go_goroutines")
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.AdminAction("delete")

	assert.NotContains(t, scrape(t, b), `referralhub_admin_actions_total{action="delete"}`)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
		m.Registration(false)
		m.ReferralCredit(true)
		m.FailedLogin(LoginUser)
		m.AdminAction("reset")
	})
}
