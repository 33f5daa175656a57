package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"authprobe/internal/metrics"
	"authprobe/internal/models"
	"authprobe/internal/repositories"
	"authprobe/internal/utils"
)

const passwordHashCost = 8

// UserService defines the interface for user-related business logic.
type UserService interface {
	RegisterUser(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	LoginUser(ctx context.Context, creds *models.Login) (*models.LoginResult, error)
	GetUserProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
}

type userService struct {
	userRepo     repositories.UserRepository
	verification VerificationService
	jwtSecret    []byte
	jwtTTL       time.Duration
}

func NewUserService(userRepo repositories.UserRepository, verification VerificationService, jwtSecret string, jwtTTL time.Duration) UserService {
	return &userService{
		userRepo:     userRepo,
		verification: verification,
		jwtSecret:    []byte(jwtSecret),
		jwtTTL:       jwtTTL,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *userService) RegisterUser(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	email := normalizeEmail(req.Email)
	log.Debug().Str("email", email).Msg("Attempting to register user")

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), passwordHashCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, ErrPasswordTooLong
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to hash password during registration")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	createdUser, err := s.userRepo.Create(ctx, &models.User{
		Username: strings.TrimSpace(req.Username),
		Email:    email,
		Password: string(hashedPassword),
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			log.Warn().Str("email", email).Msg("Email already exists during user insertion")
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}
	metrics.NewUsersTotal.Inc()

	// The account exists either way; a failed mail can be retried through resend.
	if err := s.verification.Issue(ctx, createdUser); err != nil {
		log.Error().Err(err).Str("user_id", createdUser.ID.Hex()).Msg("Could not issue verification email")
	}

	createdUser.Password = "" // Clear password before returning
	log.Info().Str("user_id", createdUser.ID.Hex()).Str("email", createdUser.Email).Msg("User registered successfully")
	return createdUser, nil
}

func (s *userService) LoginUser(ctx context.Context, creds *models.Login) (*models.LoginResult, error) {
	email := normalizeEmail(creds.Email)
	log.Debug().Str("email", email).Msg("Attempting user login")

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			log.Warn().Str("email", email).Msg("Invalid credentials during login attempt")
			metrics.LoginAttemptsTotal.WithLabelValues("failed").Inc()
			return nil, ErrInvalidCredentials
		}
		log.Error().Err(err).Str("email", email).Msg("Error finding user for login")
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)); err != nil {
		log.Warn().Str("email", email).Msg("Invalid credentials (password mismatch) during login attempt")
		metrics.LoginAttemptsTotal.WithLabelValues("failed").Inc()
		return nil, ErrInvalidCredentials
	}

	if !user.IsVerified {
		log.Warn().Str("user_id", user.ID.Hex()).Msg("Login refused, email not verified")
		metrics.LoginAttemptsTotal.WithLabelValues("unverified").Inc()
		return nil, ErrEmailNotVerified
	}

	token, err := utils.GenerateJWT(s.jwtSecret, user.ID, s.jwtTTL)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID.Hex()).Msg("Could not generate token for user")
		return nil, fmt.Errorf("could not generate token: %w", err)
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	log.Info().Str("user_id", user.ID.Hex()).Msg("User logged in successfully")

	user.Password = ""
	return &models.LoginResult{Token: token, User: user}, nil
}

func (s *userService) GetUserProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			log.Warn().Str("user_id", userID.Hex()).Msg("User not found for GetMyProfile")
			return nil, ErrUserNotFound
		}
		log.Error().Err(err).Str("user_id", userID.Hex()).Msg("Failed to fetch user profile")
		return nil, fmt.Errorf("failed to fetch user profile: %w", err)
	}

	user.Password = "" // Clear password before returning
	return user, nil
}
