package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/winerecon/internal/metric"
	"github.com/sells-group/winerecon/internal/reconcile"
	"github.com/sells-group/winerecon/internal/report"
)

// Config holds the full application configuration.
type Config struct {
	Sources  SourcesConfig  `yaml:"sources" mapstructure:"sources"`
	Pipeline PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`
	Quality  QualityConfig  `yaml:"quality" mapstructure:"quality"`
	Report   ReportConfig   `yaml:"report" mapstructure:"report"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// SourcesConfig locates the three source tables and how to decode them.
type SourcesConfig struct {
	Inventory string `yaml:"inventory" mapstructure:"inventory"`
	Web       string `yaml:"web" mapstructure:"web"`
	Links     string `yaml:"links" mapstructure:"links"`
	Delimiter string `yaml:"delimiter" mapstructure:"delimiter"`
	Encoding  string `yaml:"encoding" mapstructure:"encoding"`
}

// PipelineConfig configures join semantics and outlier classification.
// PremiumThreshold drives the reporting path; OutlierThreshold drives the
// audit path.
type PipelineConfig struct {
	JoinKind         string  `yaml:"join_kind" mapstructure:"join_kind"`
	PremiumThreshold float64 `yaml:"premium_threshold" mapstructure:"premium_threshold"`
	OutlierThreshold float64 `yaml:"outlier_threshold" mapstructure:"outlier_threshold"`
	OutlierPreview   int     `yaml:"outlier_preview" mapstructure:"outlier_preview"`
	StdDev           string  `yaml:"stddev" mapstructure:"stddev"`
}

// QualityConfig holds the expectations of the hard data-quality gate.
type QualityConfig struct {
	ExpectedRows     int     `yaml:"expected_rows" mapstructure:"expected_rows"`
	ExpectedRevenue  float64 `yaml:"expected_revenue" mapstructure:"expected_revenue"`
	RevenueTolerance float64 `yaml:"revenue_tolerance" mapstructure:"revenue_tolerance"`
}

// ReportConfig configures the report artifacts.
type ReportConfig struct {
	OutputDir string   `yaml:"output_dir" mapstructure:"output_dir"`
	Formats   []string `yaml:"formats" mapstructure:"formats"`
}

// StoreConfig configures the run-history backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
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
	v.SetEnvPrefix("WINERECON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("sources.inventory", "Fichier_erp.csv")
	v.SetDefault("sources.web", "Fichier_web.csv")
	v.SetDefault("sources.links", "fichier_liaison.csv")
	v.SetDefault("sources.delimiter", ";")
	v.SetDefault("sources.encoding", "latin1")
	v.SetDefault("pipeline.join_kind", "inner")
	v.SetDefault("pipeline.premium_threshold", 2.0)
	v.SetDefault("pipeline.outlier_threshold", 3.0)
	v.SetDefault("pipeline.outlier_preview", 5)
	v.SetDefault("pipeline.stddev", "sample")
	v.SetDefault("quality.expected_rows", 714)
	v.SetDefault("quality.expected_revenue", 70568.60)
	v.SetDefault("quality.revenue_tolerance", 0.01)
	v.SetDefault("report.output_dir", "reports")
	v.SetDefault("report.formats", []string{"xlsx", "csv"})
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "winerecon.db")
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

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	if _, err := reconcile.ParseJoinKind(c.Pipeline.JoinKind); err != nil {
		return eris.Wrap(err, "config: pipeline.join_kind")
	}
	if _, err := metric.ParseStdDevMode(c.Pipeline.StdDev); err != nil {
		return eris.Wrap(err, "config: pipeline.stddev")
	}
	if c.Pipeline.PremiumThreshold <= 0 || c.Pipeline.OutlierThreshold <= 0 {
		return eris.New("config: pipeline thresholds must be positive")
	}
	if c.Pipeline.OutlierPreview < 0 {
		return eris.New("config: pipeline.outlier_preview must not be negative")
	}
	if c.Quality.ExpectedRows < 0 {
		return eris.New("config: quality.expected_rows must not be negative")
	}
	if c.Quality.RevenueTolerance < 0 {
		return eris.New("config: quality.revenue_tolerance must not be negative")
	}
	if len([]rune(c.Sources.Delimiter)) != 1 {
		return eris.Errorf("config: sources.delimiter %q must be a single character", c.Sources.Delimiter)
	}
	for _, f := range c.Report.Formats {
		if err := report.CheckFormat(f); err != nil {
			return eris.Wrap(err, "config: report format")
		}
	}
	switch c.Store.Driver {
	case "sqlite", "postgres", "none":
	default:
		return eris.Errorf("config: store.driver %q (valid: sqlite, postgres, none)", c.Store.Driver)
	}
	return nil
}

// DelimiterRune returns the configured source delimiter as a rune.
func (s SourcesConfig) DelimiterRune() rune {
	r := []rune(s.Delimiter)
	if len(r) == 0 {
		return ';'
	}
	return r[0]
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
