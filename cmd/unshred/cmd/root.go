// Package cmd implements the unshred command line interface.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"unshred/pkg/config"
)

const (
	// DefaultConfigFile is read from the working directory when --config is not given
	DefaultConfigFile = "unshred.yaml"

	// EnvPrefix is the prefix for environment variable overrides
	EnvPrefix = "UNSHRED"
)

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCommand builds the full command tree. Every call returns fresh
// commands so tests can run them independently.
func NewRootCommand() *cobra.Command {
	app := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "unshred",
		Short: "Reassemble images cut into shuffled vertical strips",
		Long: `unshred restores an image that was cut into equal-width vertical strips
which were then shuffled.

It detects the strip width when it is not given, measures how well the right
edge of every strip matches the left edge of every other strip, chains each
strip to its best match and finds the strip that nothing precedes.

Examples:
  unshred reconstruct shredded.png -o restored.png
  unshred reconstruct shredded.jpg --strip-width 32
  unshred detect-width shredded.png
  unshred shred photo.png -o shredded.png --strip-width 16 --seed 7`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&app.cfgFile, "config", "", "config file (default ./"+DefaultConfigFile+" if present)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output (equivalent to --log-level=debug)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (text, json)")

	rootCmd.AddCommand(
		newReconstructCommand(app),
		newDetectWidthCommand(app),
		newShredCommand(app),
		newInitConfigCommand(),
	)

	return rootCmd
}

// app carries the state shared by all subcommands of one invocation
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
}

// setting maps a configuration key to the flag that can override it
type setting struct {
	key   string
	flag  string
	apply func(v *viper.Viper, key string, cfg *config.Config)
}

var settings = []setting{
	{"processing.numCores", "cores", func(v *viper.Viper, k string, c *config.Config) { c.Processing.NumCores = v.GetInt(k) }},
	{"processing.stripWidth", "strip-width", func(v *viper.Viper, k string, c *config.Config) { c.Processing.StripWidth = v.GetInt(k) }},
	{"processing.metric", "metric", func(v *viper.Viper, k string, c *config.Config) { c.Processing.Metric = v.GetString(k) }},
	{"processing.scorer", "scorer", func(v *viper.Viper, k string, c *config.Config) { c.Processing.Scorer = v.GetString(k) }},
	{"processing.selfPairs", "self-pairs", func(v *viper.Viper, k string, c *config.Config) {
		c.Processing.SelfPairs = v.GetString(k)
	}},
	{"output.jpegQuality", "quality", func(v *viper.Viper, k string, c *config.Config) { c.Output.JPEGQuality = v.GetInt(k) }},
	{"output.saveIntermediaryResults", "save-intermediary", func(v *viper.Viper, k string, c *config.Config) {
		c.Output.SaveIntermediaryResults = v.GetBool(k)
	}},
	{"output.intermediaryDir", "intermediary-dir", func(v *viper.Viper, k string, c *config.Config) {
		c.Output.IntermediaryDir = v.GetString(k)
	}},
	{"logging.level", "log-level", func(v *viper.Viper, k string, c *config.Config) { c.Logging.Level = v.GetString(k) }},
	{"logging.format", "log-format", func(v *viper.Viper, k string, c *config.Config) { c.Logging.Format = v.GetString(k) }},
}

// setup loads the YAML configuration, applies environment and flag
// overrides and installs the logger.
func (a *app) setup(cmd *cobra.Command) error {
	path := a.cfgFile
	if path == "" {
		path = DefaultConfigFile
	} else if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return err
	}

	a.v.SetEnvPrefix(EnvPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	for _, s := range settings {
		if f := cmd.Flags().Lookup(s.flag); f != nil {
			if err := a.v.BindPFlag(s.key, f); err != nil {
				return fmt.Errorf("failed to bind flag --%s: %w", s.flag, err)
			}
		}
		if a.isSet(cmd.Flags(), s) {
			s.apply(a.v, s.key, cfg)
		}
	}

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Logging.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	slog.SetDefault(newLogger(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format))
	a.cfg = cfg
	return nil
}

// isSet reports whether a setting was given on the command line or in the
// environment. Unchanged flag defaults never override the config file.
func (a *app) isSet(flags *pflag.FlagSet, s setting) bool {
	if f := flags.Lookup(s.flag); f != nil && f.Changed {
		return true
	}
	_, ok := os.LookupEnv(EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(s.key, ".", "_")))
	return ok
}

func newLogger(w io.Writer, level, format string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
