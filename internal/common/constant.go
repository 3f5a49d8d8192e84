package common

// SessionCookieName is the browser cookie that carries the signed session
// reference.
const SessionCookieName = "referralhub_session"

// ReferralQueryParam prefills the referrer field of the registration form.
const ReferralQueryParam = "ref"
