// Package racetrack implements the race track environment, a 2D grid
// race in which a car controls its speed by accelerating on each axis
// and must cross the finish line without leaving the track.
package racetrack

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/gomontecarlo/environment"
	"github.com/samuelfneumann/gomontecarlo/utils/intutils"
)

const (
	StepReward   float64 = -1.0
	FinishReward float64 = 0.0
)

var _ environment.Environment = (*RaceTrack)(nil)

type location struct {
	col, row int
}

// RaceTrack is a race track environment on a rectangular grid.
//
// The state space is every grid location crossed with every pair of
// speed components, so states on out-of-bounds cells exist but are
// never reached. Leaving the track resets the car to a random start
// cell with zero speed without ending the episode. Crossing a finish
// cell ends the episode.
type RaceTrack struct {
	grid          [][]Cell
	width, height int

	starts   []location
	finishes []location
	open     []location // track and start cells, for RandomState

	seed uint64
	rng  *rand.Rand
}

// New creates a new RaceTrack on grid, which is indexed as
// grid[row][col]. The seed determines the random start locations.
func New(grid [][]Cell, seed uint64) (*RaceTrack, error) {
	if err := checkGrid(grid); err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	r := &RaceTrack{
		width:  len(grid[0]),
		height: len(grid),
		seed:   seed,
		rng:    rand.New(rand.NewSource(seed)),
	}

	r.grid = make([][]Cell, r.height)
	for row := range grid {
		r.grid[row] = append([]Cell(nil), grid[row]...)
		for col, cell := range grid[row] {
			loc := location{col, row}
			switch cell {
			case Start:
				r.starts = append(r.starts, loc)
				r.open = append(r.open, loc)
			case Finish:
				r.finishes = append(r.finishes, loc)
			case Track:
				r.open = append(r.open, loc)
			}
		}
	}

	if len(r.starts) == 0 {
		return nil, fmt.Errorf("new: %w: no start cells", ErrInvalidGrid)
	}
	if len(r.finishes) == 0 {
		return nil, fmt.Errorf("new: %w: no finish cells", ErrInvalidGrid)
	}

	return r, nil
}

// Load creates a new RaceTrack from the CSV track file at path
func Load(path string, seed uint64) (*RaceTrack, error) {
	grid, err := LoadGrid(path)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	return New(grid, seed)
}

// NumStates returns the number of states in the environment
func (r *RaceTrack) NumStates() int {
	return r.width * r.height * MaxSpeed * MaxSpeed
}

// NumActions returns the number of actions in the environment
func (r *RaceTrack) NumActions() int {
	return numActions
}

// Dims returns the number of columns and rows of the track
func (r *RaceTrack) Dims() (width, height int) {
	return r.width, r.height
}

// Cell returns the cell type at (col, row). Locations outside the
// grid are OutOfBounds.
func (r *RaceTrack) Cell(col, row int) Cell {
	if col < 0 || col >= r.width || row < 0 || row >= r.height {
		return OutOfBounds
	}
	return r.grid[row][col]
}

// Starts returns the (col, row) locations of all start cells
func (r *RaceTrack) Starts() [][2]int {
	return toPairs(r.starts)
}

// Finishes returns the (col, row) locations of all finish cells
func (r *RaceTrack) Finishes() [][2]int {
	return toPairs(r.finishes)
}

// StartingState returns the state at a uniformly random start cell
// with zero speed
func (r *RaceTrack) StartingState() (int, error) {
	loc := r.starts[r.rng.Intn(len(r.starts))]
	return r.stateID(State{Col: loc.col, Row: loc.row}), nil
}

// RandomState returns a uniformly random state on a track or start
// cell with uniformly random speed components
func (r *RaceTrack) RandomState() (int, error) {
	loc := r.open[r.rng.Intn(len(r.open))]
	return r.stateID(State{
		Col:    loc.col,
		Row:    loc.row,
		HSpeed: r.rng.Intn(MaxSpeed),
		VSpeed: r.rng.Intn(MaxSpeed),
	}), nil
}

// PerformAction accelerates the car in state by action and moves it.
//
// Speeds are clamped to [0, MaxSpeed-1] after acceleration. If the
// path to the new location crosses a finish cell the episode ends with
// reward 0. Otherwise, if the new location is out of bounds the car is
// reset to a start cell with reward -1, and if not it moves to the new
// location with reward -1.
func (r *RaceTrack) PerformAction(state, action int) (float64, int, bool,
	error) {
	s, err := r.StateOf(state)
	if err != nil {
		return 0, 0, false, fmt.Errorf("performAction: %w", err)
	}
	a, err := ActionOf(action)
	if err != nil {
		return 0, 0, false, fmt.Errorf("performAction: %w", err)
	}

	hSpeed := intutils.Clip(s.HSpeed+a.HAccel, 0, MaxSpeed-1)
	vSpeed := intutils.Clip(s.VSpeed+a.VAccel, 0, MaxSpeed-1)
	from := location{s.Col, s.Row}

	if r.crossesFinish(from, hSpeed, vSpeed) {
		next, err := r.StartingState()
		return FinishReward, next, true, err
	}

	to := location{from.col + hSpeed, from.row - vSpeed}
	if r.Cell(to.col, to.row) == OutOfBounds {
		next, err := r.StartingState()
		return StepReward, next, false, err
	}

	next := r.stateID(State{
		Col:    to.col,
		Row:    to.row,
		HSpeed: hSpeed,
		VSpeed: vSpeed,
	})
	return StepReward, next, false, nil
}

// crossesFinish steps from one grid unit at a time towards the
// location reached with speed (h, v), moving horizontally whenever the
// remaining horizontal distance is at least the remaining vertical
// distance, and reports whether any intermediate location, including
// the final one, is a finish cell.
func (r *RaceTrack) crossesFinish(from location, h, v int) bool {
	at := from
	for h+v > 0 {
		if h >= v {
			at.col++
			h--
		} else {
			at.row--
			v--
		}

		if r.Cell(at.col, at.row) == Finish {
			return true
		}
	}
	return false
}

func (r *RaceTrack) String() string {
	str := "RaceTrack | Dims: (%d, %d)  |  Starts: %d  |  Finishes: %d  |  " +
		"States: %d  |  Seed: %d"

	return fmt.Sprintf(str, r.width, r.height, len(r.starts), len(r.finishes),
		r.NumStates(), r.seed)
}

func toPairs(locs []location) [][2]int {
	pairs := make([][2]int, len(locs))
	for i, loc := range locs {
		pairs[i] = [2]int{loc.col, loc.row}
	}
	return pairs
}
