// Package envcheck inspects the process environment the backend depends on
// and reports presence and basic sanity of each variable, never its value.
package envcheck

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const MinJWTSecretLength = 32

type Status string

const (
	StatusOK      Status = "ok"
	StatusWarning Status = "warning"
	StatusMissing Status = "missing"
	StatusInvalid Status = "invalid"
)

// Result is the outcome for one variable.
type Result struct {
	Name   string
	Status Status
	Length int
	Detail string
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

type check struct {
	name     string
	validate func(value string) (Status, string)
}

var checks = []check{
	{name: "MONGO_URI", validate: checkMongoURI},
	{name: "JWT_SECRET", validate: checkJWTSecret},
	{name: "NODE_ENV", validate: checkNodeEnv},
}

// Run evaluates every known variable using lookup. A nil lookup reads the
// real environment.
func Run(lookup LookupFunc) []Result {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	results := make([]Result, 0, len(checks))
	for _, c := range checks {
		value, ok := lookup(c.name)
		if !ok || value == "" {
			results = append(results, Result{Name: c.name, Status: StatusMissing, Detail: "not set"})
			continue
		}
		status, detail := c.validate(value)
		results = append(results, Result{Name: c.name, Status: status, Length: len(value), Detail: detail})
	}
	return results
}

// Report writes one log line per result.
func Report(logger zerolog.Logger, results []Result) {
	for _, r := range results {
		var ev *zerolog.Event
		switch r.Status {
		case StatusOK:
			ev = logger.Info()
		case StatusWarning:
			ev = logger.Warn()
		default:
			ev = logger.Error()
		}
		ev = ev.Str("var", r.Name).Str("status", string(r.Status)).Int("length", r.Length)
		if r.Detail != "" {
			ev = ev.Str("detail", r.Detail)
		}
		ev.Msg("Environment check")
	}
}

func checkMongoURI(value string) (Status, string) {
	scheme, _, found := strings.Cut(value, "://")
	if !found || (scheme != "mongodb" && scheme != "mongodb+srv") {
		return StatusInvalid, "expected mongodb:// or mongodb+srv:// scheme"
	}

	opts := options.Client().ApplyURI(value)
	if err := opts.Validate(); err != nil {
		return StatusInvalid, fmt.Sprintf("not a valid connection string: %s", redact(err, value))
	}
	if len(opts.Hosts) == 0 {
		return StatusInvalid, "no hosts in connection string"
	}
	return StatusOK, fmt.Sprintf("scheme %s, %d host(s)", scheme, len(opts.Hosts))
}

func checkJWTSecret(value string) (Status, string) {
	claims := jwt.RegisteredClaims{
		Subject:   "envcheck",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(value))
	if err != nil {
		return StatusInvalid, fmt.Sprintf("cannot sign token: %v", err)
	}

	parsed, err := jwt.ParseWithClaims(signed, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(value), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return StatusInvalid, "signed token did not verify"
	}

	if len(value) < MinJWTSecretLength {
		return StatusWarning, fmt.Sprintf("shorter than %d bytes", MinJWTSecretLength)
	}
	return StatusOK, ""
}

func checkNodeEnv(value string) (Status, string) {
	switch value {
	case "development", "production", "test":
		return StatusOK, value
	default:
		return StatusWarning, fmt.Sprintf("unexpected value %q", value)
	}
}

// connstring errors can echo the URI, credentials included.
func redact(err error, uri string) string {
	return strings.ReplaceAll(err.Error(), uri, "<redacted>")
}
