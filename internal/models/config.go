package models

import (
	"errors"
	"fmt"
	"math"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type CloudStorageConfig struct {
	Provider   string `mapstructure:"provider"`
	Region     string `mapstructure:"region"`
	BucketName string `mapstructure:"bucket_name"`
}

type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// ConnString returns a libpq style connection string for pgx.
func (d DatabaseConfig) ConnString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

type Config struct {
	Seed        int64         `mapstructure:"seed"`
	RandomSeed  bool          `mapstructure:"random_seed"`
	ArrivalRate float64       `mapstructure:"arrival_rate"` // flights per hour
	ServiceRate float64       `mapstructure:"service_rate"` // landings per runway per hour
	Runways     int           `mapstructure:"runways"`
	Horizon     time.Duration `mapstructure:"horizon"`

	Quiet     bool   `mapstructure:"quiet"`
	PlotsDir  string `mapstructure:"plots_dir"`
	NoPlots   bool   `mapstructure:"no_plots"`
	ShowPlots bool   `mapstructure:"show_plots"`

	OutputFormat      string             `mapstructure:"output_format"`
	OutputPath        string             `mapstructure:"output_path"`
	OutputFolder      string             `mapstructure:"output_folder"`
	OutputDestination string             `mapstructure:"output_destination"`
	CloudStorage      CloudStorageConfig `mapstructure:"cloud_storage"`
	KafkaEnabled      bool               `mapstructure:"kafka_enabled"`
	KafkaBrokerList   []string           `mapstructure:"kafka_broker_list"`
	SessionTimeoutMs  int                `mapstructure:"session_timeout_ms"`
	Database          DatabaseConfig     `mapstructure:"database"`
}

// DefaultConfig returns the runway scenario the simulator was first built for:
// 10 arrivals/hour, 12 landings/hour per runway, two runways, ten hours.
func DefaultConfig() *Config {
	return &Config{
		Seed:              42,
		ArrivalRate:       10,
		ServiceRate:       12,
		Runways:           2,
		Horizon:           10 * time.Hour,
		PlotsDir:          ".",
		OutputDestination: OutputDestinationLocal,
	}
}

// LoadConfig initializes and reads the configuration using Viper. Flags bound
// by the caller take part in the lookup, so a missing config file is not an
// error unless one was asked for explicitly.
func LoadConfig(cfgFile string) (*Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".runwaysim")
	}

	viper.SetEnvPrefix("runwaysim")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return decodeConfig()
}

func decodeConfig() (*Config, error) {
	config := DefaultConfig()
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			hoursToDurationHookFunc(),
			config.DecodeHook,
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	})
	if err := viper.Unmarshal(config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	if config.RandomSeed {
		config.Seed = time.Now().UnixNano()
	}

	return config, nil
}

// hoursToDurationHookFunc reads a bare number given for a duration field as
// hours, so "horizon: 10" and "--horizon 10" mean ten hours rather than ten
// nanoseconds.
func hoursToDurationHookFunc() mapstructure.DecodeHookFuncType {
	durationType := reflect.TypeOf(time.Duration(0))
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if t != durationType {
			return data, nil
		}
		switch v := data.(type) {
		case int:
			return time.Duration(v) * time.Hour, nil
		case int64:
			return time.Duration(v) * time.Hour, nil
		case float64:
			return time.Duration(v * float64(time.Hour)), nil
		case string:
			if hours, err := strconv.ParseFloat(v, 64); err == nil {
				return time.Duration(hours * float64(time.Hour)), nil
			}
		}
		return data, nil
	}
}

// Validate checks the queue parameters. Stability (rho < 1) is
// not checked here; only the theoretical evaluator needs it.
func (cfg *Config) Validate() error {
	switch {
	case !(cfg.ArrivalRate > 0) || math.IsInf(cfg.ArrivalRate, 0):
		return fmt.Errorf("%w: arrival rate must be greater than 0, got %v", ErrInvalidConfiguration, cfg.ArrivalRate)
	case !(cfg.ServiceRate > 0) || math.IsInf(cfg.ServiceRate, 0):
		return fmt.Errorf("%w: service rate must be greater than 0, got %v", ErrInvalidConfiguration, cfg.ServiceRate)
	case cfg.Runways < 1:
		return fmt.Errorf("%w: runways must be at least 1, got %d", ErrInvalidConfiguration, cfg.Runways)
	case cfg.Horizon <= 0:
		return fmt.Errorf("%w: horizon must be greater than 0, got %s", ErrInvalidConfiguration, cfg.Horizon)
	}
	return nil
}

func (cfg *Config) ArrivalRatePerMinute() float64 {
	return cfg.ArrivalRate / MinutesPerHour
}

func (cfg *Config) ServiceRatePerMinute() float64 {
	return cfg.ServiceRate / MinutesPerHour
}

func (cfg *Config) HorizonMinutes() float64 {
	return cfg.Horizon.Minutes()
}

func (cfg *Config) HorizonHours() float64 {
	return cfg.Horizon.Hours()
}

// Utilization is the offered load per runway, lambda / (c * mu).
func (cfg *Config) Utilization() float64 {
	return cfg.ArrivalRate / (float64(cfg.Runways) * cfg.ServiceRate)
}
