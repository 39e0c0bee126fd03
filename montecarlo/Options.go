package montecarlo

import (
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/samuelfneumann/gomontecarlo/timestep"
	"github.com/samuelfneumann/gomontecarlo/utils/progressbar"
)

// Tracker receives every step of every episode generated by an
// algorithm
type Tracker interface {
	Track(t timestep.TimeStep)
}

// Option configures the ambient behaviour of a rollout or algorithm
type Option func(o *options)

type options struct {
	logger    zerolog.Logger
	trackers  []Tracker
	progress  io.Writer
	stepLimit int
	horizon   int
}

// WithLogger logs run progress to logger. Each finished episode is
// logged at debug level.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithTrackers sends every step of every episode to each tracker
func WithTrackers(trackers ...Tracker) Option {
	return func(o *options) {
		o.trackers = append(o.trackers, trackers...)
	}
}

// WithProgress displays a progress bar over the episode budget on w
func WithProgress(w io.Writer) Option {
	return func(o *options) {
		o.progress = w
	}
}

// WithStepLimit fails any episode that has not terminated after steps
// steps with ErrStepLimit.
//
// This is a debugging aid for environments suspected of not
// terminating. It is not part of any algorithm: a failed episode
// aborts the whole run.
func WithStepLimit(steps int) Option {
	return func(o *options) {
		if steps > 0 {
			o.stepLimit = steps
		}
	}
}

// WithHorizon ends any episode that has not terminated after steps
// steps. Its last step is reported as the end of the episode and its
// returns are summed over the steps taken. An episode ended by the
// horizon never reaches a step limit which is not less than steps.
func WithHorizon(steps int) Option {
	return func(o *options) {
		if steps > 0 {
			o.horizon = steps
		}
	}
}

func newOptions(opts []Option) options {
	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o *options) track(t timestep.TimeStep) {
	for _, tracker := range o.trackers {
		tracker.Track(t)
	}
}

// run reports the progress of an algorithm over its episode budget
type run struct {
	name      string
	episodes  int
	steps     int
	truncated int
	startTime time.Time

	logger zerolog.Logger
	bar    *progressbar.ManualProgressBar
	every  int
}

func (o *options) start(name string, episodes int) *run {
	r := &run{
		name:      name,
		episodes:  episodes,
		startTime: time.Now(),
		logger:    o.logger,
	}
	if o.progress != nil {
		r.bar = progressbar.NewManualProgressBar(o.progress, 50, episodes)
		r.every = episodes / 100
		if r.every == 0 {
			r.every = 1
		}
	}

	r.logger.Info().
		Str("algorithm", name).
		Int("episodes", episodes).
		Msg("starting run")
	return r
}

func (r *run) episode(i int, ep *Episode) {
	r.steps += ep.Steps
	if ep.Truncated {
		r.truncated++
	}
	r.logger.Debug().
		Str("algorithm", r.name).
		Int("episode", i).
		Int("steps", ep.Steps).
		Float64("return", ep.Return).
		Bool("truncated", ep.Truncated).
		Msg("episode complete")

	if r.bar != nil {
		r.bar.Increment()
		if (i+1)%r.every == 0 || i+1 == r.episodes {
			r.bar.Display()
		}
	}
}

func (r *run) finish() {
	if r.bar != nil {
		r.bar.Close()
	}
	r.logger.Info().
		Str("algorithm", r.name).
		Int("episodes", r.episodes).
		Int("steps", r.steps).
		Int("truncated", r.truncated).
		Dur("elapsed", time.Since(r.startTime)).
		Msg("run complete")
}

// abort ends a run which failed on episode i
func (r *run) abort(i int, err error) {
	if r.bar != nil {
		r.bar.Close()
	}
	r.logger.Warn().
		Err(err).
		Str("algorithm", r.name).
		Int("episode", i).
		Int("steps", r.steps).
		Dur("elapsed", time.Since(r.startTime)).
		Msg("run aborted")
}
