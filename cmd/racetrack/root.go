package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/samuelfneumann/gomontecarlo/experiment"
)

const defaultTrack = "tracks/classic.csv"

var (
	flags = experiment.DefaultConfig(defaultTrack)

	configPath string
	savePath   string
	logLevel   string
	noProgress bool
)

// RootCommand returns the racetrack command
func RootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "racetrack",
		Short: "Monte Carlo control and prediction on a race track",
		Long: "racetrack runs a first-visit Monte Carlo algorithm on a race " +
			"track read from a CSV file of cell types (0 out of bounds, " +
			"1 track, 2 finish, 3 start). Flags override the values of " +
			"the JSON config file given with --config.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logLevel)
		},
		RunE: run,
	}
	AddFlags(cmd)

	return cmd
}

// AddFlags adds the flags configuring a run to cmd
func AddFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configPath, "config", "", "JSON config file to start from")
	f.StringVar(&savePath, "save-config", "", "Path to save the final config to")
	f.StringVar(&logLevel, "log-level", zerolog.InfoLevel.String(), "Log level")
	f.BoolVar(&noProgress, "no-progress", false, "Do not draw a progress bar")

	f.StringVar(&flags.Track, "track", flags.Track, "CSV track file")
	f.StringVar((*string)(&flags.Algorithm), "algorithm",
		string(flags.Algorithm), fmt.Sprintf("Algorithm to run, one of %v",
			experiment.Algorithms()))
	f.IntVar(&flags.Episodes, "episodes", flags.Episodes,
		"Number of episodes or iterations")
	f.Float64Var(&flags.Epsilon, "epsilon", flags.Epsilon,
		"Exploration rate of on-policy control")
	f.Float64Var(&flags.FinalEpsilon, "final-epsilon", flags.FinalEpsilon,
		"Exploration rate on the final episode, negative for constant")
	f.Float64Var(&flags.Alpha, "alpha", flags.Alpha,
		"Step size of on-policy control, 0 for sample averages")
	f.BoolVar(&flags.ExploringStarts, "exploring-starts",
		flags.ExploringStarts, "Take a random first action in on-policy control")
	f.Uint64Var(&flags.Seed, "seed", flags.Seed, "Random seed")
	f.IntVar(&flags.Horizon, "horizon", flags.Horizon,
		"End episodes after this many steps, 0 to run until the finish line")
	f.IntVar(&flags.StepLimit, "step-limit", flags.StepLimit,
		"Fail episodes longer than this many steps, 0 for no limit")
	f.IntVar(&flags.ImproveEpisodes, "improve-episodes", flags.ImproveEpisodes,
		"Episodes of on-policy control used to find the evaluated policy")
	f.IntVar(&flags.DemoSteps, "demo-steps", flags.DemoSteps,
		"Maximum length of the demonstration race, 0 for none")
	f.StringVar(&flags.DataDir, "data-dir", flags.DataDir,
		"Directory to save per-episode returns and lengths to")
}

// Config returns the configuration given by the config file, if any,
// overridden by each flag that was set
func Config(fs *pflag.FlagSet) (experiment.Config, error) {
	if configPath == "" {
		return flags, nil
	}

	c, err := experiment.LoadConfig(configPath)
	if err != nil {
		return experiment.Config{}, err
	}

	overrides := map[string]func(){
		"track":            func() { c.Track = flags.Track },
		"algorithm":        func() { c.Algorithm = flags.Algorithm },
		"episodes":         func() { c.Episodes = flags.Episodes },
		"epsilon":          func() { c.Epsilon = flags.Epsilon },
		"final-epsilon":    func() { c.FinalEpsilon = flags.FinalEpsilon },
		"alpha":            func() { c.Alpha = flags.Alpha },
		"exploring-starts": func() { c.ExploringStarts = flags.ExploringStarts },
		"seed":             func() { c.Seed = flags.Seed },
		"horizon":          func() { c.Horizon = flags.Horizon },
		"step-limit":       func() { c.StepLimit = flags.StepLimit },
		"improve-episodes": func() { c.ImproveEpisodes = flags.ImproveEpisodes },
		"demo-steps":       func() { c.DemoSteps = flags.DemoSteps },
		"data-dir":         func() { c.DataDir = flags.DataDir },
	}
	fs.Visit(func(f *pflag.Flag) {
		if override, ok := overrides[f.Name]; ok {
			override()
		}
	})

	return c, nil
}

func setupLogging(level string) error {
	l, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("setupLogging: %w", err)
	}
	zerolog.SetGlobalLevel(l)
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
	})
	return nil
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := Config(cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if savePath != "" {
		if err := cfg.Save(savePath); err != nil {
			return err
		}
		log.Info().Str("path", savePath).Msg("saved config")
	}

	var progress io.Writer
	if !noProgress {
		progress = cmd.ErrOrStderr()
	}

	result, err := experiment.Run(cfg, log.Logger, progress)
	if err != nil {
		return err
	}

	Summarize(cmd.OutOrStdout(), result)
	return nil
}
