package experiment

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/samuelfneumann/gomontecarlo/environment/racetrack"
	"github.com/samuelfneumann/gomontecarlo/experiment/tracker"
	"github.com/samuelfneumann/gomontecarlo/montecarlo"
	ts "github.com/samuelfneumann/gomontecarlo/timestep"
)

const (
	trivial = "testdata/trivial.csv"
	turn    = "testdata/turn.csv"
)

func TestConfig(t *testing.T) {
	for _, algorithm := range Algorithms() {
		c := DefaultConfig(trivial)
		c.Algorithm = algorithm
		require.NoError(t, c.Validate(), algorithm)
	}
	require.Positive(t, DefaultConfig(trivial).ImproveEpisodes)

	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"no track", func(c *Config) { c.Track = "" }},
		{"unknown algorithm", func(c *Config) { c.Algorithm = "sarsa" }},
		{"no episodes", func(c *Config) { c.Episodes = 0 }},
		{"epsilon above one", func(c *Config) { c.Epsilon = 1.5 }},
		{"negative epsilon", func(c *Config) { c.Epsilon = -0.1 }},
		{"final epsilon above one", func(c *Config) { c.FinalEpsilon = 2 }},
		{"negative alpha", func(c *Config) { c.Alpha = -1 }},
		{"negative step limit", func(c *Config) { c.StepLimit = -1 }},
		{"negative demo steps", func(c *Config) { c.DemoSteps = -1 }},
		{"negative horizon", func(c *Config) { c.Horizon = -1 }},
		{"unbounded exploring starts", func(c *Config) {
			c.Algorithm = ExploringStarts
			c.Horizon = 0
		}},
		{"unbounded evaluation", func(c *Config) {
			c.Algorithm = EvaluateV
			c.Horizon = 0
		}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := DefaultConfig(trivial)
			test.modify(&c)
			require.ErrorIs(t, c.Validate(), ErrInvalidConfig)

			_, err := Run(c, zerolog.Nop(), nil)
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	t.Run("SaveAndLoad", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		c := DefaultConfig(trivial)
		c.Algorithm = EvaluateV
		c.ImproveEpisodes = 10
		require.NoError(t, c.Save(path))

		loaded, err := LoadConfig(path)
		require.NoError(t, err)
		require.Equal(t, c, loaded)

		_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
		require.Error(t, err)
	})
}

func TestRun(t *testing.T) {
	start := racetrack.State{}

	t.Run("OnPolicy", func(t *testing.T) {
		c := DefaultConfig(trivial)
		c.Episodes = 500
		c.DemoSteps = 200
		c.DataDir = filepath.Join(t.TempDir(), "data")

		var progress bytes.Buffer
		result, err := Run(c, zerolog.Nop(), &progress)
		require.NoError(t, err)
		require.NotZero(t, progress.Len())

		require.NotNil(t, result.Stochastic)
		require.NotNil(t, result.ActionValues)
		require.Nil(t, result.Deterministic)
		require.Nil(t, result.StateValues)

		require.Equal(t, 500, result.Returns.Episodes)
		require.Equal(t, 500, result.Lengths.Episodes)
		require.Equal(t, RecentEpisodes, result.Recent.Episodes)
		require.LessOrEqual(t, result.Returns.Max, 0.0)
		require.GreaterOrEqual(t, result.Lengths.Min, 1.0)

		returns, err := tracker.LoadData(filepath.Join(c.DataDir, ReturnsFile))
		require.NoError(t, err)
		require.Len(t, returns, 500)
		lengths, err := tracker.LoadData(filepath.Join(c.DataDir, LengthsFile))
		require.NoError(t, err)
		require.Len(t, lengths, 500)

		require.NotNil(t, result.Race)
		require.True(t, result.Race.Finished)
		require.Equal(t, start, result.Race.Path[0])
		require.Len(t, result.Race.Path, result.Race.Steps)
		require.Equal(t, "*F\n", result.Race.String())
	})

	t.Run("Evaluate", func(t *testing.T) {
		for _, algorithm := range []Algorithm{EvaluateQ, EvaluateV} {
			t.Run(string(algorithm), func(t *testing.T) {
				c := DefaultConfig(trivial)
				c.Algorithm = algorithm
				c.Episodes = 100
				c.Epsilon = 0.5
				c.ImproveEpisodes = 500

				result, err := Run(c, zerolog.Nop(), nil)
				require.NoError(t, err)
				require.NotNil(t, result.Deterministic)
				require.True(t, result.Race.Finished)
				require.Equal(t, 1, result.Race.Steps)

				if algorithm == EvaluateQ {
					require.NotNil(t, result.ActionValues)
					require.Nil(t, result.StateValues)
				} else {
					require.NotNil(t, result.StateValues)
					require.Nil(t, result.ActionValues)
				}
			})
		}
	})

	t.Run("StepLimit", func(t *testing.T) {
		c := DefaultConfig(trivial)
		c.Algorithm = ExploringStarts
		c.Episodes = 50
		c.StepLimit = 500

		_, err := Run(c, zerolog.Nop(), nil)
		require.ErrorIs(t, err, montecarlo.ErrStepLimit)
	})

	t.Run("Horizon", func(t *testing.T) {
		for _, improve := range []int{0, 100} {
			c := DefaultConfig(turn)
			c.Algorithm = EvaluateV
			c.Episodes = 50
			c.Horizon = 300
			c.ImproveEpisodes = improve
			c.DemoSteps = 50

			result, err := Run(c, zerolog.Nop(), nil)
			require.NoError(t, err)
			require.NotNil(t, result.StateValues)
			require.Equal(t, 50, result.Lengths.Episodes)
			require.LessOrEqual(t, result.Lengths.Max, 300.0)
			require.GreaterOrEqual(t, result.Returns.Min, -300.0)
		}
	})

	t.Run("MissingTrack", func(t *testing.T) {
		_, err := Run(DefaultConfig("testdata/missing.csv"), zerolog.Nop(), nil)
		require.Error(t, err)
	})
}

func TestRunRace(t *testing.T) {
	env, err := racetrack.Load(trivial, 1)
	require.NoError(t, err)

	right, err := racetrack.ActionID(racetrack.Action{HAccel: 1})
	require.NoError(t, err)
	still, err := racetrack.ActionID(racetrack.Action{})
	require.NoError(t, err)

	t.Run("Finished", func(t *testing.T) {
		pi := make([]int, env.NumStates())
		for s := range pi {
			pi[s] = right
		}
		race, err := RunRace(env, montecarlo.Fixed(pi), 1, 10)
		require.NoError(t, err)
		require.True(t, race.Finished)
		require.Equal(t, 1, race.Steps)
		require.Equal(t, racetrack.FinishReward, race.Return)
	})

	t.Run("Unfinished", func(t *testing.T) {
		pi := make([]int, env.NumStates())
		for s := range pi {
			pi[s] = still
		}
		race, err := RunRace(env, montecarlo.Fixed(pi), 1, 10)
		require.NoError(t, err)
		require.False(t, race.Finished)
		require.Equal(t, 10, race.Steps)
		require.Equal(t, 10*racetrack.StepReward, race.Return)
	})

	t.Run("UnknownState", func(t *testing.T) {
		r := &racer{track: env, race: &Race{track: env}}
		r.Track(ts.New(ts.First, env.NumStates(), still, -1, 0, 0))
		require.Error(t, r.err)
		require.Empty(t, r.race.Path)
		require.Equal(t, "SF\n", r.race.String())
	})
}
