package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// User Activity Metrics
	NewUsersTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_new_users_total",
		Help: "Total number of new user registrations.",
	})
	LoginAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_login_attempts_total",
		Help: "Total number of login attempts (successful and failed).",
	}, []string{"status"}) // status: "success", "failed" or "unverified"

	// Verification Metrics
	EmailVerificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_email_verifications_total",
		Help: "Total number of email verification attempts.",
	}, []string{"status"}) // status: "success" or "invalid"
	VerificationEmailsSentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_verification_emails_sent_total",
		Help: "Total number of verification emails handed to the mailer.",
	}, []string{"status"})
	ExpiredTokensPurgedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_expired_verification_tokens_purged_total",
		Help: "Total number of expired verification tokens removed.",
	})
)
