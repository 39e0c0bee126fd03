// Package tracker implements Trackers, which track and save data
// generated by the episodes of an experiment
package tracker

import (
	"encoding/gob"
	"fmt"
	"os"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	ts "github.com/samuelfneumann/gomontecarlo/timestep"
)

// Tracker keeps track of experiment data and saves the data after the
// experiment has finished
type Tracker interface {
	Track(t ts.TimeStep)
	Save() error
}

// Data is a Tracker which records one value per episode
type Data interface {
	Tracker
	Data() []float64
}

// save encodes data with gob to filename
func save(filename string, data []float64) error {
	if filename == "" {
		return fmt.Errorf("save: no file to save to")
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("save: could not open save file: %w", err)
	}
	defer file.Close()

	en := gob.NewEncoder(file)
	if err = en.Encode(data); err != nil {
		return fmt.Errorf("save: could not encode data: %w", err)
	}
	return file.Close()
}

// LoadData loads and returns the data saved by a Tracker
func LoadData(filename string) ([]float64, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("loadData: could not open data file: %w", err)
	}
	defer file.Close()

	dec := gob.NewDecoder(file)
	var data []float64
	if err = dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("loadData: could not decode data: %w", err)
	}

	return data, nil
}

// Summary summarizes per-episode data
type Summary struct {
	Episodes int
	Mean     float64
	StdDev   float64
	Min      float64
	Max      float64
}

// Summarize returns the Summary of data. The Summary of no data is
// zero.
func Summarize(data []float64) Summary {
	if len(data) == 0 {
		return Summary{}
	}

	mean, std := stat.MeanStdDev(data, nil)
	if len(data) == 1 {
		std = 0
	}
	return Summary{
		Episodes: len(data),
		Mean:     mean,
		StdDev:   std,
		Min:      floats.Min(data),
		Max:      floats.Max(data),
	}
}

// Last returns the Summary of the last n values of data, or of all of
// data if there are fewer than n values
func Last(data []float64, n int) Summary {
	if n < len(data) {
		data = data[len(data)-n:]
	}
	return Summarize(data)
}
