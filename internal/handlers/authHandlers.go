package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"authprobe/internal/models"
	"authprobe/internal/services"
	"authprobe/internal/utils"
	"authprobe/internal/validation"
)

type AuthHandler struct {
	userService         services.UserService
	verificationService services.VerificationService
	validator           *validation.Validator
}

func NewAuthHandler(userService services.UserService, verificationService services.VerificationService) *AuthHandler {
	return &AuthHandler{
		userService:         userService,
		verificationService: verificationService,
		validator:           validation.Global(),
	}
}

// decodeAndValidate writes the error response itself and reports whether the
// handler may continue.
func (a *AuthHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.Error().Err(err).Msgf("Invalid request body for %s", op)
		utils.SendJSONError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return false
	}

	if err := a.validator.Struct(dst); err != nil {
		var fe validation.FieldErrors
		if errors.As(err, &fe) {
			utils.SendValidationError(w, fe)
			return false
		}
		log.Error().Err(err).Msgf("Validator failed for %s", op)
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func (a *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !a.decodeAndValidate(w, r, &req, "Register") {
		return
	}

	user, err := a.userService.RegisterUser(r.Context(), &req)
	if err != nil {
		statusCode := http.StatusInternalServerError
		switch {
		case errors.Is(err, services.ErrEmailAlreadyExists):
			statusCode = http.StatusConflict
		case errors.Is(err, services.ErrPasswordTooLong):
			statusCode = http.StatusBadRequest
		}
		utils.SendJSONError(w, err.Error(), statusCode)
		return
	}

	utils.RespondSuccess(w, http.StatusCreated, "Registration successful, check your email to verify your account", user)
}

func (a *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds models.Login
	if !a.decodeAndValidate(w, r, &creds, "Login") {
		return
	}

	result, err := a.userService.LoginUser(r.Context(), &creds)
	if err != nil {
		statusCode := http.StatusInternalServerError
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			statusCode = http.StatusUnauthorized
		case errors.Is(err, services.ErrEmailNotVerified):
			statusCode = http.StatusForbidden
		}
		utils.SendJSONError(w, err.Error(), statusCode)
		return
	}

	utils.RespondSuccess(w, http.StatusOK, "", result)
}

func (a *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]
	if token == "" {
		utils.SendJSONError(w, "token required", http.StatusBadRequest)
		return
	}

	if err := a.verificationService.Verify(r.Context(), token); err != nil {
		if errors.Is(err, services.ErrInvalidVerificationToken) {
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Error().Err(err).Msg("Email verification failed")
		utils.SendJSONError(w, "failed to verify email", http.StatusInternalServerError)
		return
	}

	utils.RespondSuccess(w, http.StatusOK, "Email verified", nil)
}

func (a *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req models.ResendVerification
	if !a.decodeAndValidate(w, r, &req, "ResendVerification") {
		return
	}

	if err := a.verificationService.Resend(r.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound), errors.Is(err, services.ErrAlreadyVerified):
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		default:
			log.Error().Err(err).Msg("Resending verification email failed")
			utils.SendJSONError(w, "failed to resend verification email", http.StatusInternalServerError)
		}
		return
	}

	utils.RespondSuccess(w, http.StatusOK, "Verification email sent", nil)
}
