// Command careerquiz looks up a footballer's club and international career
// with every mention of the player's name hidden.
package main

import (
	"errors"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/careerquiz/internal/app"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if err := newRootCmd(&options{}).Execute(); err != nil {
		log.Error().Err(err).Msg("careerquiz failed")
		os.Exit(exitCode(err))
	}
}

// exitCode maps lookup outcomes to the process exit status: 2 when the
// input names nothing usable, 1 for every other failure.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, app.ErrMissingQuery),
		errors.Is(err, app.ErrNotFound),
		errors.Is(err, app.ErrOutOfDomain):
		return 2
	default:
		return 1
	}
}
