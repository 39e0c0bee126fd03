// Command racetrack learns to drive a race track with Monte Carlo
// control, or evaluates a policy on it, and prints a summary of the
// run and a demonstration race.
package main

import (
	"os"

	"github.com/rs/zerolog/log"
)

func main() {
	if err := RootCommand().Execute(); err != nil {
		log.Error().Err(err).Msg("racetrack failed")
		os.Exit(1)
	}
}
