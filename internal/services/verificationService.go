package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"

	"authprobe/internal/metrics"
	"authprobe/internal/models"
	"authprobe/internal/repositories"
	"authprobe/internal/utils"
)

type VerificationService interface {
	Issue(ctx context.Context, user *models.User) error
	Verify(ctx context.Context, token string) error
	Resend(ctx context.Context, email string) error
	PurgeExpired(ctx context.Context) (int64, error)
}

type verificationService struct {
	userRepo      repositories.UserRepository
	tokenRepo     repositories.VerificationRepository
	emailService  EmailService
	ttl           time.Duration
	publicBaseURL string
	now           func() time.Time
}

func NewVerificationService(userRepo repositories.UserRepository, tokenRepo repositories.VerificationRepository, emailService EmailService, ttl time.Duration, publicBaseURL string) VerificationService {
	return &verificationService{
		userRepo:      userRepo,
		tokenRepo:     tokenRepo,
		emailService:  emailService,
		ttl:           ttl,
		publicBaseURL: publicBaseURL,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Issue stores a fresh token for user and mails the verification link.
func (s *verificationService) Issue(ctx context.Context, user *models.User) error {
	token, err := utils.GenerateVerificationToken()
	if err != nil {
		return fmt.Errorf("failed to generate verification token: %w", err)
	}

	_, err = s.tokenRepo.Create(ctx, &models.VerificationToken{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: s.now().Add(s.ttl),
	})
	if err != nil {
		return err
	}

	link := fmt.Sprintf("%s/api/auth/verify-email/%s", s.publicBaseURL, token)
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Please verify your email by clicking the link below:</p><p><a href=\"%s\">Verify Email</a></p>",
		html.EscapeString(user.Username), link,
	)
	if err := s.emailService.SendEmail(user.Email, "Verify your email", body); err != nil {
		metrics.VerificationEmailsSentTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	metrics.VerificationEmailsSentTotal.WithLabelValues("success").Inc()

	log.Info().Str("user_id", user.ID.Hex()).Time("expires_at", s.now().Add(s.ttl)).Msg("Verification token issued")
	return nil
}

func (s *verificationService) Verify(ctx context.Context, token string) error {
	vt, err := s.tokenRepo.FindValid(ctx, token)
	if err != nil {
		return err
	}
	if vt == nil {
		metrics.EmailVerificationsTotal.WithLabelValues("invalid").Inc()
		return ErrInvalidVerificationToken
	}

	// MarkVerified is idempotent. The token stays unused until the user write succeeds.
	if err := s.userRepo.MarkVerified(ctx, vt.UserID, s.now()); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			log.Warn().Str("user_id", vt.UserID.Hex()).Msg("Verification token points at a missing user")
			metrics.EmailVerificationsTotal.WithLabelValues("invalid").Inc()
			return ErrInvalidVerificationToken
		}
		return err
	}

	if err := s.tokenRepo.MarkAsUsed(ctx, vt.ID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			metrics.EmailVerificationsTotal.WithLabelValues("invalid").Inc()
			return ErrInvalidVerificationToken
		}
		return err
	}

	metrics.EmailVerificationsTotal.WithLabelValues("success").Inc()
	log.Info().Str("user_id", vt.UserID.Hex()).Msg("Email verified")
	return nil
}

func (s *verificationService) Resend(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrUserNotFound
		}
		return err
	}
	if user.IsVerified {
		return ErrAlreadyVerified
	}

	if err := s.tokenRepo.InvalidateForUser(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to invalidate previous tokens: %w", err)
	}
	return s.Issue(ctx, user)
}

func (s *verificationService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.tokenRepo.DeleteExpired(ctx)
	if err != nil {
		return 0, err
	}
	metrics.ExpiredTokensPurgedTotal.Add(float64(n))
	return n, nil
}
