package server

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"authprobe/internal/config"
	"authprobe/internal/database"
	"authprobe/internal/middlewares"
	"authprobe/internal/repositories"
	"authprobe/internal/services"
)

const purgeInterval = 10 * time.Minute

type Server struct {
	cfg                 *config.Config
	httpServer          *http.Server
	db                  database.Service
	userService         services.UserService
	verificationService services.VerificationService
	rateLimiter         *middlewares.RateLimiter
	stopBackground      context.CancelFunc
}

func NewServer(cfg *config.Config, db database.Service) (*Server, error) {
	userRepo := repositories.NewUserRepository(db)
	verificationRepo := repositories.NewVerificationRepository(db)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		return nil, err
	}
	if err := verificationRepo.EnsureIndexes(ctx); err != nil {
		return nil, err
	}

	verificationService := services.NewVerificationService(
		userRepo,
		verificationRepo,
		services.NewEmailService(cfg.SMTP),
		cfg.VerificationTTL,
		cfg.PublicBaseURL,
	)

	s := &Server{
		cfg:                 cfg,
		db:                  db,
		userService:         services.NewUserService(userRepo, verificationService, cfg.JWTSecret, cfg.JWTTTL),
		verificationService: verificationService,
		rateLimiter:         middlewares.NewRateLimiter(rate.Limit(3), 5),
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s, nil
}

func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.stopBackground = cancel
	go s.rateLimiter.CleanupVisitors(ctx)
	go s.purgeExpiredTokensPeriodically(ctx)

	log.Info().Int("port", s.cfg.Port).Str("env", s.cfg.Environment).Msg("Starting server")
	return s.httpServer.ListenAndServe()
}

func (s *Server) purgeExpiredTokensPeriodically(ctx context.Context) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purgeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			n, err := s.verificationService.PurgeExpired(purgeCtx)
			cancel()
			if err != nil {
				log.Error().Err(err).Msg("Error purging expired verification tokens")
				continue
			}
			if n > 0 {
				log.Info().Int64("deleted", n).Msg("Purged expired verification tokens")
			}
		}
	}
}

func (s *Server) GracefulShutdown(done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info().Msg("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if s.stopBackground != nil {
		s.stopBackground()
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown with error")
	}
	if err := s.db.Close(ctx); err != nil {
		log.Error().Err(err).Msg("Error disconnecting from MongoDB")
	}

	log.Info().Msg("Server exiting")
	done <- true
}
