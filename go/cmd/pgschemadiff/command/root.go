package command

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aidanmorri810/pgschemadiff/go/report"
)

// Config holds the settings shared by all subcommands, populated from
// flags and the optional config file.
type Config struct {
	LogLevel  string `mapstructure:"log-level"`
	LogFormat string `mapstructure:"log-format"`

	CaseSensitive         bool `mapstructure:"case-sensitive"`
	NormalizeTypes        bool `mapstructure:"normalize-types"`
	IgnoreWhitespace      bool `mapstructure:"ignore-whitespace"`
	IgnoreConstraintNames bool `mapstructure:"ignore-constraint-names"`

	Format report.Format `mapstructure:"format"`
}

// ExitError carries a process exit code through cobra's error return.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit code %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

var (
	configFile string
	config     Config
	logger     *slog.Logger

	rootCmd = &cobra.Command{
		Use:   "pgschemadiff",
		Short: "Compare PostgreSQL schemas from DDL files or live databases",
		Long: "pgschemadiff parses CREATE TABLE and CREATE TYPE statements, or reads\n" +
			"definitions from a running PostgreSQL instance, and reports the semantic\n" +
			"differences between two schemas.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config-file", "", "config file (default: pgschemadiff.yaml in the working directory)")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("log-format", "text", "log output format (text, json)")
	pf.Bool("case-sensitive", false, "compare table and column names case-sensitively")
	pf.Bool("normalize-types", true, "normalize type names before comparing (int4 matches integer)")
	pf.Bool("ignore-whitespace", true, "ignore whitespace differences in expressions")
	pf.Bool("ignore-constraint-names", false, "match constraints by definition only, ignoring names")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func initConfig(cmd *cobra.Command) error {
	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("pgschemadiff")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix("PGSCHEMADIFF")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	if err := v.Unmarshal(&config, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(decodeReportFormat))); err != nil {
		return fmt.Errorf("applying config: %w", err)
	}

	var err error
	logger, err = newLogger(config.LogLevel, config.LogFormat)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	return nil
}

// decodeReportFormat validates report format names as they are decoded
// into Config, so a bad value in the config file fails up front.
func decodeReportFormat(from, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(report.FormatText) || from.Kind() != reflect.String {
		return data, nil
	}
	return report.ParseFormat(data.(string))
}

func newLogger(level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	case "text":
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q (want text or json)", format)
	}
}
