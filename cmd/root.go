/*
	Copyright 2023 Markus Papenbrock
*/

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	otlpruntime "go.opentelemetry.io/contrib/instrumentation/runtime"

	"github.com/mpapenbr/crashviz/log"
	"github.com/mpapenbr/crashviz/pkg/config"
	"github.com/mpapenbr/crashviz/pkg/report"
	"github.com/mpapenbr/crashviz/version"
)

const envPrefix = "CRASHVIZ"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:          "crashviz",
	Short:        "Charts and map for smart helmet crash records",
	Long:         "Renders charts, a dashboard and a crash location map from helmet crash records",
	Version:      version.FullVersion,
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), cmd.OutOrStdout())
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.crashviz.yml)")

	rootCmd.Flags().StringVarP(&config.Input, "input", "i",
		"crashes.csv",
		"CSV file with the crash records")
	rootCmd.Flags().StringVarP(&config.OutputDir, "output-dir", "o",
		".",
		"Directory receiving the charts and the map")
	rootCmd.Flags().StringVar(&config.MapTemplate, "map-template",
		"",
		"Page template for the crash map (default: embedded Leaflet page)")
	rootCmd.Flags().StringVar(&config.Manifest, "manifest",
		"",
		"Write a YAML run manifest to this file")
	rootCmd.Flags().StringVar(&config.Workbook, "xlsx",
		"",
		"Export records and statistics to this XLSX file")

	rootCmd.PersistentFlags().StringVar(&config.LogLevel,
		"log-level",
		"info",
		"controls the log level (debug, info, warn, error, fatal)")
	rootCmd.PersistentFlags().StringVar(&config.LogFormat,
		"log-format",
		"text",
		"controls the log output format (json, text)")
	rootCmd.PersistentFlags().StringVar(&config.LogFilter,
		"log-filter",
		"",
		"zapfilter rules selecting log output, e.g. '*:chart info+:*'")
	rootCmd.PersistentFlags().BoolVar(&config.EnableTelemetry,
		"enable-telemetry",
		false,
		"enables telemetry")
	rootCmd.PersistentFlags().StringVar(&config.TelemetryEndpoint,
		"telemetry-endpoint",
		"",
		"Endpoint (host:port) that receives open telemetry data, stderr if empty")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".crashviz" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".crashviz")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	bindFlags(rootCmd, viper.GetViper())
	for _, cmd := range rootCmd.Commands() {
		bindFlags(cmd, viper.GetViper())
	}
}

// Bind each cobra flag to its associated viper configuration
// (config file and environment variable)
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// Environment variables can't have dashes in them, so bind them to their
		// equivalent keys with underscores, e.g. --output-dir to CRASHVIZ_OUTPUT_DIR
		if strings.Contains(f.Name, "-") {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			if err := v.BindEnv(f.Name,
				fmt.Sprintf("%s_%s", envPrefix, envVarSuffix)); err != nil {
				fmt.Fprintf(os.Stderr, "Could not bind env var %s: %v", f.Name, err)
			}
		}
		// Apply the viper config value to the flag when the flag is not set and viper
		// has a value
		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
				fmt.Fprintf(os.Stderr, "Could set flag value for %s: %v", f.Name, err)
			}
		}
	})
}

func run(ctx context.Context, out io.Writer) error {
	cfg := config.FromFlags()
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, err := setupLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	log.ResetDefault(logger)
	//nolint:errcheck // sync on stderr fails on some platforms
	defer logger.Sync()

	log.Debug("Config:",
		log.String("input", cfg.Input),
		log.String("outputDir", cfg.OutputDir),
		log.String("mapTemplate", cfg.MapTemplate),
		log.String("version", version.FullVersion),
		log.Bool("release", version.IsRelease()),
	)

	if cfg.EnableTelemetry {
		log.Info("Enabling telemetry")
		if telemetry, err := config.SetupTelemetry(ctx); err == nil {
			defer telemetry.Shutdown()
		} else {
			log.Warn("Could not setup telemetry", log.ErrorField(err))
		}
		err = otlpruntime.Start(otlpruntime.WithMinimumReadMemStatsInterval(time.Second))
		if err != nil {
			log.Warn("Could not start runtime metrics", log.ErrorField(err))
		}
	}

	ctx = log.AddToContext(ctx, logger)
	_, err = report.New(cfg, report.WithOutput(out)).Run(ctx)
	if report.KindOf(err) == report.KindNoData {
		// nothing to visualize is a regular outcome
		log.Debug("no data", log.ErrorField(err))
		return nil
	}
	return err
}

func setupLogger(cfg *config.Config, w io.Writer) (*log.Logger, error) {
	filter, err := log.FilterOption(cfg.LogFilter)
	if err != nil {
		return nil, fmt.Errorf("%w: log-filter: %w", config.ErrInvalidConfig, err)
	}
	switch cfg.LogFormat {
	case "json":
		return log.New(
			w,
			parseLogLevel(cfg.LogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1),
			filter), nil
	default:
		return log.DevLogger(
			w,
			parseLogLevel(cfg.LogLevel, log.DebugLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1),
			filter), nil
	}
}

func parseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}
