package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
	Sim    SimConfig    `yaml:"sim" mapstructure:"sim"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the relational sink.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// OutputConfig configures the flat-file sink.
type OutputConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// SimConfig configures the generation run. Dates are YYYY-MM-DD.
type SimConfig struct {
	Seed      uint64 `yaml:"seed" mapstructure:"seed"`
	Leads     int    `yaml:"leads" mapstructure:"leads"`
	DataStart string `yaml:"data_start" mapstructure:"data_start"`
	TestStart string `yaml:"test_start" mapstructure:"test_start"`
	DataEnd   string `yaml:"data_end" mapstructure:"data_end"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CRMSIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "database_file/abxplore.db")
	v.SetDefault("output.dir", "raw_data")
	v.SetDefault("sim.seed", 42)
	v.SetDefault("sim.leads", 10000)
	v.SetDefault("sim.data_start", "2024-01-01")
	v.SetDefault("sim.test_start", "2024-06-01")
	v.SetDefault("sim.data_end", "2024-12-31")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Dates parses the configured simulation dates in order: data start, test
// start, data end.
func (c SimConfig) Dates() (dataStart, testStart, dataEnd time.Time, err error) {
	for _, d := range []struct {
		name string
		raw  string
		dst  *time.Time
	}{
		{"data_start", c.DataStart, &dataStart},
		{"test_start", c.TestStart, &testStart},
		{"data_end", c.DataEnd, &dataEnd},
	} {
		*d.dst, err = time.ParseInLocation("2006-01-02", d.raw, time.UTC)
		if err != nil {
			return dataStart, testStart, dataEnd, eris.Wrapf(err, "config: parse sim.%s", d.name)
		}
	}
	if !dataStart.Before(dataEnd) {
		return dataStart, testStart, dataEnd, eris.Errorf("config: sim.data_start %s must precede sim.data_end %s", c.DataStart, c.DataEnd)
	}
	if testStart.Before(dataStart) || testStart.After(dataEnd) {
		return dataStart, testStart, dataEnd, eris.Errorf("config: sim.test_start %s must fall inside the data range", c.TestStart)
	}
	return dataStart, testStart, dataEnd, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
