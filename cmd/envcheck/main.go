// Command envcheck reports whether the variables the backend needs are set.
package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"authprobe/internal/envcheck"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	envcheck.Report(log.Logger, envcheck.Run(nil))
}
