package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
)

// this holds the resolved configuration values from CLI
//
//nolint:lll // readablity
var (
	Input             string // path to the crash CSV file
	OutputDir         string // directory receiving the generated artifacts
	MapTemplate       string // optional page template replacing the embedded one
	Manifest          string // optional path of the YAML run manifest
	Workbook          string // optional path of the XLSX export
	LogLevel          string // sets the log level (zap log level values)
	LogFormat         string // text vs json
	LogFilter         string // zapfilter rules, e.g. "*:chart info+:*"
	EnableTelemetry   bool   // enable telemetry
	TelemetryEndpoint string // endpoint for telemetry, empty writes to stderr
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the configuration values which are used by the application
type Config struct {
	Input             string `validate:"required"`
	OutputDir         string `validate:"required"`
	MapTemplate       string
	Manifest          string
	Workbook          string `validate:"omitempty,endswith=.xlsx"`
	LogLevel          string `validate:"omitempty,oneof=debug info warn error dpanic panic fatal"`
	LogFormat         string `validate:"oneof=text json"`
	LogFilter         string
	EnableTelemetry   bool
	TelemetryEndpoint string `validate:"omitempty,hostname_port"`
}

// FromFlags collects the values resolved by the CLI.
func FromFlags() *Config {
	return &Config{
		Input:             Input,
		OutputDir:         OutputDir,
		MapTemplate:       MapTemplate,
		Manifest:          Manifest,
		Workbook:          Workbook,
		LogLevel:          strings.ToLower(LogLevel),
		LogFormat:         LogFormat,
		LogFilter:         LogFilter,
		EnableTelemetry:   EnableTelemetry,
		TelemetryEndpoint: TelemetryEndpoint,
	}
}

// Validate checks the configuration. All violations are reported at once.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, ", "))
}

// OutputPath returns name located in the output directory.
func (c *Config) OutputPath(name string) string {
	return filepath.Join(c.OutputDir, name)
}
