// Package probe drives a verify-then-login smoke run against a live API and
// reports each step to the console.
package probe

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// State is the position of a run in the verify -> login sequence.
type State int

const (
	AwaitingVerification State = iota
	AwaitingLogin
	Done
)

func (s State) String() string {
	switch s {
	case AwaitingVerification:
		return "awaiting_verification"
	case AwaitingLogin:
		return "awaiting_login"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// ErrVerificationRejected is returned when the verify endpoint answers 2xx
// but reports success=false.
var ErrVerificationRejected = errors.New("verification rejected by server")

// Result summarizes a run. It is informational only: a failed run is not an
// error for the caller.
type Result struct {
	States       []State
	Verified     bool
	LoginAttempt bool
	LoggedIn     bool
	TokenPresent bool
	Err          error
}

// Runner executes the two dependent calls in order.
type Runner struct {
	client *Client
	logger zerolog.Logger
}

func NewRunner(client *Client, logger zerolog.Logger) *Runner {
	return &Runner{client: client, logger: logger}
}

// Run verifies token, then logs in with creds if verification passed.
// Every failure is logged and ends the run; nothing is retried.
func (r *Runner) Run(ctx context.Context, token string, creds Credentials) Result {
	res := Result{States: []State{AwaitingVerification}}

	vr, err := r.client.VerifyEmail(ctx, token)
	if err == nil && !vr.Success {
		err = ErrVerificationRejected
	}
	if err != nil {
		r.logFailure("Email verification failed", err, vr)
		res.Err = err
		res.States = append(res.States, Done)
		return res
	}
	res.Verified = true
	r.logger.Info().Bool("success", vr.Success).Msg("Email verification")

	res.States = append(res.States, AwaitingLogin)
	res.LoginAttempt = true

	lr, err := r.client.Login(ctx, creds)
	if err != nil {
		r.logFailure("Login failed", err, nil)
		res.Err = err
		res.States = append(res.States, Done)
		return res
	}
	res.LoggedIn = true
	res.TokenPresent = lr.Data.Token != ""
	r.logger.Info().Str("email", creds.Email).Bool("token_present", res.TokenPresent).Msg("Login success")

	res.States = append(res.States, Done)
	return res
}

func (r *Runner) logFailure(msg string, err error, vr *VerifyResponse) {
	ev := r.logger.Error()

	var respErr *ResponseError
	switch {
	case errors.As(err, &respErr):
		ev = ev.Int("status", respErr.StatusCode).Str("payload", respErr.Payload)
	case errors.Is(err, ErrVerificationRejected) && vr != nil:
		ev = ev.Bool("success", vr.Success).Str("message", vr.Message)
	default:
		ev = ev.Err(err)
	}
	ev.Msg(msg)
}
