// Command validatorcheck confirms the validation library loads and rejects a
// malformed login payload while accepting a well-formed one.
package main

import (
	"errors"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"authprobe/internal/models"
	"authprobe/internal/validation"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	v, err := validation.New()
	if err != nil {
		log.Error().Err(err).Msg("Validator failed to initialize")
		return
	}
	log.Info().Msg("Validator loaded")

	samples := []struct {
		name  string
		login models.Login
	}{
		{"valid", models.Login{Email: "test@example.com", Password: "password123"}},
		{"invalid", models.Login{Email: "not-an-email"}},
	}

	for _, s := range samples {
		err := v.Struct(s.login)
		var fe validation.FieldErrors
		switch {
		case err == nil:
			log.Info().Str("sample", s.name).Msg("Payload accepted")
		case errors.As(err, &fe):
			ev := log.Info().Str("sample", s.name)
			for field, msg := range fe {
				ev = ev.Str(field, msg)
			}
			ev.Msg("Payload rejected")
		default:
			log.Error().Err(err).Str("sample", s.name).Msg("Validation error")
		}
	}
}
