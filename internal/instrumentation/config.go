package instrumentation

import (
	"fmt"
	"os"
)

// Exporter types for metrics.
const (
	ExporterPrometheus = "prometheus"
	ExporterStdout     = "stdout"
	ExporterNone       = "none"
)

// Config holds the instrumentation configuration.
type Config struct {
	// ServiceName identifies the process in exported metrics.
	ServiceName string

	// ServiceVersion is the build version attached to the resource.
	ServiceVersion string

	// Enabled disables all metric recording when false.
	Enabled bool

	// MetricsExporter selects the exporter: prometheus, stdout or none.
	MetricsExporter string

	// DetailedLabels attaches high-cardinality attributes such as the
	// account name. Keep disabled for long-running deployments.
	DetailedLabels bool
}

// DefaultConfig returns a Config populated from the environment.
func DefaultConfig() Config {
	return Config{
		ServiceName:     getEnvOrDefault("OTEL_SERVICE_NAME", "gspace"),
		ServiceVersion:  "unknown",
		Enabled:         getEnvBoolOrDefault("GSPACE_METRICS_ENABLED", true),
		MetricsExporter: getEnvOrDefault("GSPACE_METRICS_EXPORTER", ExporterPrometheus),
		DetailedLabels:  getEnvBoolOrDefault("GSPACE_METRICS_DETAILED_LABELS", false),
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch c.MetricsExporter {
	case ExporterPrometheus, ExporterStdout, ExporterNone:
		return nil
	default:
		return fmt.Errorf("unsupported metrics exporter: %s", c.MetricsExporter)
	}
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBoolOrDefault(key string, fallback bool) bool {
	switch os.Getenv(key) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return fallback
	}
}
