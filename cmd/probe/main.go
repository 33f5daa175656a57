// Command probe verifies an e-mail token against a running API and then logs
// in with fixed credentials, printing the outcome of each step.
package main

import (
	"context"
	"net/http"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"authprobe/internal/config"
	"authprobe/internal/probe"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	cfg := config.LoadProbe()
	log.Info().Str("base_url", cfg.BaseURL).Msg("Starting verification probe")

	client := probe.NewClient(&http.Client{Timeout: cfg.Timeout}, cfg.BaseURL)
	runner := probe.NewRunner(client, log.Logger)

	res := runner.Run(context.Background(), cfg.Token, probe.Credentials{
		Email:    cfg.Email,
		Password: cfg.Password,
	})

	if res.Err != nil {
		log.Warn().Msg("Probe scenario failed")
		return
	}
	log.Info().Msg("Probe scenario passed")
}
