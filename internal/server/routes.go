package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"authprobe/internal/handlers"
	"authprobe/internal/middlewares"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	r.Use(middlewares.Instrument)
	r.Use(middlewares.Cors(s.cfg.AllowedOrigins))
	r.Use(s.rateLimiter.Limit)

	ch := handlers.NewCommonHandler(s.db)
	r.HandleFunc("/", ch.HelloWorldHandler).Methods("GET")
	r.HandleFunc("/health", ch.HealthHandler).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	s.registerAuthRoutes(r)

	return r
}

func (s *Server) registerAuthRoutes(r *mux.Router) {
	ah := handlers.NewAuthHandler(s.userService, s.verificationService)
	uh := handlers.NewUserHandler(s.userService)
	auth := middlewares.Auth([]byte(s.cfg.JWTSecret))

	r.HandleFunc("/api/auth/register", ah.Register).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/auth/login", ah.Login).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/auth/verify-email/{token}", ah.VerifyEmail).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/auth/resend-verification", ah.ResendVerification).Methods("POST", "OPTIONS")
	r.Handle("/api/me", auth(http.HandlerFunc(uh.GetMyProfile))).Methods("GET", "OPTIONS")
}
