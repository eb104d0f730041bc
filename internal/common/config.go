package common

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/NightNord/odis2vcp/constants"
)

// ExtractionConfig is the immutable per-run configuration. It is passed by value
// into the controller; nothing mutates it after a run starts.
type ExtractionConfig struct {
	InputPath    string
	OutputSuffix string
	RawMode      bool
	ReportPath   string // optional XLSX summary, empty disables
}

// Validate mirrors the presentation layer's run-enabled condition: input path and
// suffix must both be non-empty.
func (c ExtractionConfig) Validate() error {
	if strings.TrimSpace(c.InputPath) == "" {
		return NewAppError("CONFIG_ERROR", "input path is required", ErrInvalidInput)
	}
	if strings.TrimSpace(c.OutputSuffix) == "" {
		return NewAppError("CONFIG_ERROR", "output suffix is required", ErrInvalidInput)
	}
	return nil
}

// OutputPath derives the output file name from the input path: the suffix is
// inserted between the base name and the original extension, in the input's
// directory. "/data/sample.odis2" + "_extracted" -> "/data/sample_extracted.odis2".
func (c ExtractionConfig) OutputPath() string {
	dir := filepath.Dir(c.InputPath)
	ext := filepath.Ext(c.InputPath)
	stem := strings.TrimSuffix(filepath.Base(c.InputPath), ext)
	return filepath.Join(dir, stem+c.OutputSuffix+ext)
}

// Config holds process-level configuration
type Config struct {
	Scan ScanConfig
	Log  LogConfig
}

// ScanConfig holds directory scan and watch-mode configuration
type ScanConfig struct {
	AllowedExts map[string]struct{}
	SkipHidden  bool
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
	JSON  bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Scan: ScanConfig{
			AllowedExts: parseExtList(getEnv("ODIS2VCP_EXTENSIONS", "")),
			SkipHidden:  getEnvAsBool("ODIS2VCP_SKIP_HIDDEN", true),
		},
		Log: LogConfig{
			Level: getEnv("ODIS2VCP_LOG_LEVEL", "info"),
			JSON:  getEnvAsBool("ODIS2VCP_LOG_JSON", false),
		},
	}
}

func parseExtList(raw string) map[string]struct{} {
	if strings.TrimSpace(raw) == "" {
		return constants.AllowedExtensions
	}
	exts := map[string]struct{}{}
	for _, e := range strings.Split(raw, ",") {
		e = constants.NormalizeExt(strings.TrimSpace(e))
		if e != "" {
			exts[e] = struct{}{}
		}
	}
	return exts
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
