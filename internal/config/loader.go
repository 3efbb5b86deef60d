package config

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ErrHelpRequested is returned when the user requests help via --help.
var ErrHelpRequested = errors.New("help requested")

// Loader handles loading configuration from files and command-line
// arguments. Flags override config-file values.
type Loader struct{}

// NewLoader creates a new configuration Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses command-line arguments and an optional YAML/JSON config file
// into a Config.
func (Loader) Load(args []string) (*Config, error) {
	cmd := newFlagCommand()
	if err := cmd.Flags().Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			displayHelp(cmd)
			return nil, ErrHelpRequested
		}
		return nil, err
	}

	flagSet := cmd.Flags()
	if wantsHelp, err := flagSet.GetBool("help"); err == nil && wantsHelp {
		displayHelp(cmd)
		return nil, ErrHelpRequested
	}

	configPath, _ := flagSet.GetString("config")
	if len(args) == 0 && configPath == "" {
		displayHelp(cmd)
		return nil, ErrHelpRequested
	}

	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}
	if err := v.BindPFlags(flagSet); err != nil {
		return nil, err
	}

	cfg := &Config{ConfigFile: configPath}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newFlagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "stressor",
		Short:         "Run a command repeatedly under a CI time and iteration budget",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.SetOut(os.Stdout)
	configureFlags(cmd.Flags())
	return cmd
}

func configureFlags(flags *pflag.FlagSet) {
	// What to run
	flags.String("command", "", "Shell command executed on every iteration")
	flags.String("name", "", "Display name for the run (defaults to the command)")

	// Budget flags
	flags.Bool("full_stress", false, "Use the computed time budget instead of the 1s smoke budget")
	flags.Int("test_count", 0, "Explicit number of tests sharing the build budget")
	flags.String("discover", "", "Package directory whose _test.go files are counted instead of test_count")
	flags.Float64("percentage", 1, "Fraction of both time ceilings to use, in (0, 1]")
	flags.Duration("build_time_limit", 10*time.Minute, "Total CI job budget shared across all tests")
	flags.Duration("output_time_limit", 10*time.Second, "Per-test output ceiling to avoid CI watchdog kills")
	flags.Int("confidence", 10_000, "Iteration count considered statistically sufficient")

	// Execution flags
	flags.Bool("async", false, "Run iterations in concurrent batches")
	flags.Int("batch", 1, "Concurrent batch size for --async")
	flags.IntP("rate", "r", 0, "Iterations per second limit (0 means unlimited)")

	// Output flags
	flags.Bool("json_output", false, "Emit JSON formatted output")
	flags.Duration("heartbeat", time.Second, "Progress heartbeat interval (0 disables)")
	flags.String("config", "", "Path to configuration file (JSON or YAML)")

	flags.Bool("help", false, "Show usage information")
}

func displayHelp(cmd *cobra.Command) {
	_ = cmd.Usage()
	cmd.Flags().PrintDefaults()
}
