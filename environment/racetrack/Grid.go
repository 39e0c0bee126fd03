package racetrack

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Cell is the type of a single grid cell of a race track
type Cell int

const (
	OutOfBounds Cell = iota
	Track
	Finish
	Start
)

// ErrInvalidGrid is returned when a race track grid cannot be used to
// construct a RaceTrack
var ErrInvalidGrid = errors.New("invalid grid")

func (c Cell) String() string {
	switch c {
	case OutOfBounds:
		return "OutOfBounds"
	case Track:
		return "Track"
	case Finish:
		return "Finish"
	case Start:
		return "Start"
	default:
		return fmt.Sprintf("Cell(%d)", int(c))
	}
}

func (c Cell) valid() bool {
	return c >= OutOfBounds && c <= Start
}

// ParseGrid reads a race track grid from comma separated values. Each
// record is one grid row and each field one cell, given as an integer
// in {0=out-of-bounds, 1=track, 2=finish, 3=start}. No header is
// expected and all rows must have the same number of cells.
func ParseGrid(r io.Reader) ([][]Cell, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parseGrid: %w: %v", ErrInvalidGrid, err)
	}

	grid := make([][]Cell, len(records))
	for row, record := range records {
		grid[row] = make([]Cell, len(record))
		for col, field := range record {
			value, err := strconv.Atoi(strings.TrimSpace(field))
			if err != nil {
				return nil, fmt.Errorf("parseGrid: %w: cell (%d, %d): %v",
					ErrInvalidGrid, col, row, err)
			}
			grid[row][col] = Cell(value)
		}
	}

	if err := checkGrid(grid); err != nil {
		return nil, fmt.Errorf("parseGrid: %w", err)
	}
	return grid, nil
}

// LoadGrid reads a race track grid from the CSV file at path
func LoadGrid(path string) ([][]Cell, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loadGrid: could not open track: %w", err)
	}
	defer file.Close()

	grid, err := ParseGrid(file)
	if err != nil {
		return nil, fmt.Errorf("loadGrid: %v: %w", path, err)
	}
	return grid, nil
}

// checkGrid ensures a grid is non-empty, rectangular, and only holds
// known cell types
func checkGrid(grid [][]Cell) error {
	if len(grid) == 0 || len(grid[0]) == 0 {
		return fmt.Errorf("%w: empty grid", ErrInvalidGrid)
	}

	width := len(grid[0])
	for row := range grid {
		if len(grid[row]) != width {
			return fmt.Errorf("%w: row %d has %d cells, want %d",
				ErrInvalidGrid, row, len(grid[row]), width)
		}
		for col, cell := range grid[row] {
			if !cell.valid() {
				return fmt.Errorf("%w: unknown cell type %d at (%d, %d)",
					ErrInvalidGrid, int(cell), col, row)
			}
		}
	}
	return nil
}
