// Package config loads and validates tracer configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Exporter names accepted by TSUISEKI_EXPORTER.
const (
	ExporterOTLP    = "otlp"
	ExporterConsole = "console"
	ExporterNone    = "none"
)

// Config holds all tracer configuration. Immutable after Load.
type Config struct {
	// Redaction settings. Hidden attributes are omitted entirely, never
	// set to an empty value.
	HideInputs         bool // omit raw input payloads and input messages
	HideOutputs        bool // omit raw output payloads and output messages
	HideInputMessages  bool // omit only the structured input message list
	HideOutputMessages bool // omit only the structured output message list

	// MaxAttributeLength is the truncation threshold in characters for
	// string attribute values. Zero disables truncation.
	MaxAttributeLength int

	// Exporter selects the span delivery path: "otlp" (batched HTTP),
	// "console" (synchronous stdout), or "none".
	Exporter string

	// OTEL settings, used when Exporter is "otlp".
	OTELEndpoint string
	OTELInsecure bool
	ServiceName  string

	LogLevel string
}

// Load reads configuration from environment variables with sensible defaults.
// A set but malformed value is a configuration error, not a cue to fall back
// to the default.
func Load() (Config, error) {
	cfg := Config{
		Exporter:     envStr("TSUISEKI_EXPORTER", ExporterOTLP),
		OTELEndpoint: envStr("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServiceName:  envStr("OTEL_SERVICE_NAME", "tsuiseki"),
		LogLevel:     envStr("TSUISEKI_LOG_LEVEL", "info"),
	}

	var err error
	if cfg.HideInputs, err = envBool("TSUISEKI_HIDE_INPUTS", false); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if cfg.HideOutputs, err = envBool("TSUISEKI_HIDE_OUTPUTS", false); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if cfg.HideInputMessages, err = envBool("TSUISEKI_HIDE_INPUT_MESSAGES", false); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if cfg.HideOutputMessages, err = envBool("TSUISEKI_HIDE_OUTPUT_MESSAGES", false); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if cfg.MaxAttributeLength, err = envInt("TSUISEKI_MAX_ATTRIBUTE_LENGTH", 4096); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if cfg.OTELInsecure, err = envBool("TSUISEKI_OTEL_INSECURE", false); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable. Configuration errors are
// programming errors and are reported loudly at construction time.
func (c Config) Validate() error {
	if c.MaxAttributeLength < 0 {
		return fmt.Errorf("config: TSUISEKI_MAX_ATTRIBUTE_LENGTH must not be negative")
	}
	switch c.Exporter {
	case ExporterOTLP, ExporterConsole, ExporterNone:
	default:
		return fmt.Errorf("config: unknown exporter %q (want %q, %q, or %q)",
			c.Exporter, ExporterOTLP, ExporterConsole, ExporterNone)
	}
	return nil
}

func envStr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not a valid integer", key, v)
	}
	return n, nil
}

func envBool(key string, defaultVal bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s=%q is not a valid boolean", key, v)
	}
	return b, nil
}
