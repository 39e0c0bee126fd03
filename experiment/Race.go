package experiment

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/gomontecarlo/environment/racetrack"
	"github.com/samuelfneumann/gomontecarlo/montecarlo"
	ts "github.com/samuelfneumann/gomontecarlo/timestep"
)

// Race is a demonstration episode of a policy on a race track
type Race struct {
	// Path holds the state of the car at each step, starting with the
	// starting state
	Path []racetrack.State

	Steps    int
	Return   float64
	Finished bool

	track *racetrack.RaceTrack
}

// racer records the path of the car through a race
type racer struct {
	track *racetrack.RaceTrack
	race  *Race
	err   error
}

func (r *racer) Track(t ts.TimeStep) {
	state, err := r.track.StateOf(t.State)
	if err != nil {
		if r.err == nil {
			r.err = err
		}
		return
	}
	r.race.Path = append(r.race.Path, state)
	r.race.Steps = t.Number + 1
	r.race.Return += t.Reward
}

// RunRace drives the car around env from a starting state with the
// actions chosen by sel for at most maxSteps steps
func RunRace(env *racetrack.RaceTrack, sel montecarlo.Selector,
	seed uint64, maxSteps int) (*Race, error) {
	race := &Race{track: env}
	r := &racer{track: env, race: race}
	rng := rand.New(rand.NewSource(seed))

	_, err := montecarlo.RolloutActions(env, sel, rng,
		montecarlo.WithTrackers(r), montecarlo.WithStepLimit(maxSteps))
	switch {
	case errors.Is(err, montecarlo.ErrStepLimit):
	case err != nil:
		return nil, fmt.Errorf("runRace: %w", err)
	default:
		race.Finished = true
	}
	if r.err != nil {
		return nil, fmt.Errorf("runRace: %w", r.err)
	}

	return race, nil
}

// String draws the track with each cell the car was on marked
func (r *Race) String() string {
	width, height := r.track.Dims()
	visited := make(map[[2]int]bool)
	for _, s := range r.Path {
		visited[[2]int{s.Col, s.Row}] = true
	}

	var b strings.Builder
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			if visited[[2]int{col, row}] {
				b.WriteByte('*')
				continue
			}

			switch r.track.Cell(col, row) {
			case racetrack.Track:
				b.WriteByte('.')
			case racetrack.Start:
				b.WriteByte('S')
			case racetrack.Finish:
				b.WriteByte('F')
			default:
				b.WriteByte('#')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
