package config

import (
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"gotyche/domain/core"
	"gotyche/domain/encoding"
	"gotyche/internal/aggregate"
	"gotyche/internal/errors"
	"gotyche/internal/generators"
	"gotyche/internal/nist"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Data     DataConfig
	Encoding EncodingConfig
	Battery  BatteryConfig
	Runtime  RuntimeConfig
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Port           string
	RequestTimeout time.Duration
	MaxUploadBytes int64
}

// DataConfig describes the default input file
type DataConfig struct {
	File        string
	Sheet       string
	DateColumn  string
	DropColumns []string
	Reverse     bool
	RelDiff     bool
}

// EncodingConfig holds the raw encoding settings
type EncodingConfig struct {
	Method           string
	PartitionMode    string
	StartYear        int
	EndYear          int
	YearsPerBlock    float64
	StreamSize       int
	ScaleBasisPoints bool
	FloatWidth       int
}

// BatteryConfig holds test and aggregation thresholds
type BatteryConfig struct {
	Condition  float64
	PassBar    float64
	BlockSize  int
	MatrixSize int
	RankMethod string
}

// RuntimeConfig holds process-level settings
type RuntimeConfig struct {
	LogLevel string
	Workers  int
	Seed     uint64
}

// LoadDotEnv loads variables from .env files if present. Variables already
// set in the environment win.
func LoadDotEnv(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
		}
	}
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:   *loadServerConfig(),
		Data:     *loadDataConfig(),
		Encoding: *loadEncodingConfig(),
		Battery:  *loadBatteryConfig(),
		Runtime:  *loadRuntimeConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:           getEnvOrDefault("PORT", "8080"),
		RequestTimeout: getEnvDurationOrDefault("REQUEST_TIMEOUT", 2*time.Minute),
		MaxUploadBytes: int64(getEnvIntOrDefault("MAX_UPLOAD_MB", 32)) << 20,
	}
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		File:        getEnvOrDefault("DATA_FILE", ""),
		Sheet:       getEnvOrDefault("DATA_SHEET", ""),
		DateColumn:  getEnvOrDefault("DATA_DATE_COLUMN", "Date"),
		DropColumns: getEnvListOrDefault("DATA_DROP_COLUMNS", nil),
		Reverse:     getEnvBoolOrDefault("DATA_REVERSE", false),
		RelDiff:     getEnvBoolOrDefault("DATA_RDIFF", false),
	}
}

func loadEncodingConfig() *EncodingConfig {
	defaults := encoding.DefaultParams()
	return &EncodingConfig{
		Method:           getEnvOrDefault("ENCODING_METHOD", string(defaults.Method)),
		PartitionMode:    getEnvOrDefault("PARTITION_MODE", string(defaults.Mode)),
		StartYear:        getEnvIntOrDefault("START_YEAR", defaults.Span.Start),
		EndYear:          getEnvIntOrDefault("END_YEAR", defaults.Span.End),
		YearsPerBlock:    getEnvFloatOrDefault("YEARS_PER_BLOCK", defaults.YearsPerBlock),
		StreamSize:       getEnvIntOrDefault("STREAM_SIZE", 0),
		ScaleBasisPoints: getEnvBoolOrDefault("SCALE_BASIS_POINTS", defaults.ScaleBasisPoints),
		FloatWidth:       getEnvIntOrDefault("FLOAT_WIDTH", defaults.FloatWidth),
	}
}

func loadBatteryConfig() *BatteryConfig {
	return &BatteryConfig{
		Condition:  getEnvFloatOrDefault("CONDITION", nist.DefaultCondition),
		PassBar:    getEnvFloatOrDefault("PASS_BAR", aggregate.DefaultPassBar),
		BlockSize:  getEnvIntOrDefault("BLOCK_SIZE", nist.DefaultBlockSize),
		MatrixSize: getEnvIntOrDefault("MATRIX_SIZE", nist.DefaultMatrixSize),
		RankMethod: getEnvOrDefault("RANK_METHOD", string(nist.RankGF2)),
	}
}

func loadRuntimeConfig() *RuntimeConfig {
	return &RuntimeConfig{
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
		Workers:  getEnvIntOrDefault("WORKERS", runtime.NumCPU()),
		Seed:     uint64(getEnvIntOrDefault("SEED", 42)),
	}
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	if config.Runtime.Workers < 1 {
		return errors.ConfigInvalid("WORKERS must be at least 1")
	}
	if _, err := config.EncodingParams(); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	if err := config.NistConfig().Validate(); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	if err := config.AggregateConfig().Validate(); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	return nil
}

// EncodingParams resolves the encoding section into validated parameters
func (c *Config) EncodingParams() (encoding.Params, error) {
	method, err := encoding.ParseMethod(c.Encoding.Method)
	if err != nil {
		return encoding.Params{}, err
	}
	mode, err := encoding.ParsePartitionMode(c.Encoding.PartitionMode)
	if err != nil {
		return encoding.Params{}, err
	}
	params := encoding.Params{
		Method:           method,
		Mode:             mode,
		Span:             core.YearSpan{Start: c.Encoding.StartYear, End: c.Encoding.EndYear},
		YearsPerBlock:    c.Encoding.YearsPerBlock,
		StreamSize:       c.Encoding.StreamSize,
		ScaleBasisPoints: c.Encoding.ScaleBasisPoints,
		FloatWidth:       c.Encoding.FloatWidth,
	}
	return params, params.Validate()
}

// NistConfig returns the battery parameters
func (c *Config) NistConfig() nist.Config {
	method, err := nist.ParseRankMethod(c.Battery.RankMethod)
	if err != nil {
		// Validate reports the unknown name
		method = nist.RankMethod(strings.ToLower(c.Battery.RankMethod))
	}
	return nist.Config{
		Condition:  c.Battery.Condition,
		BlockSize:  c.Battery.BlockSize,
		MatrixSize: c.Battery.MatrixSize,
		RankMethod: method,
	}
}

// AggregateConfig returns the aggregation thresholds
func (c *Config) AggregateConfig() aggregate.Config {
	return aggregate.Config{Condition: c.Battery.Condition, PassBar: c.Battery.PassBar}
}

// GeneratorConfig sizes the comparison fixtures to the encoding span
func (c *Config) GeneratorConfig() generators.Config {
	cfg := generators.DefaultConfig(core.YearSpan{Start: c.Encoding.StartYear, End: c.Encoding.EndYear})
	cfg.Seed = c.Runtime.Seed
	return cfg
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
