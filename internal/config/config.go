// Package config loads service configuration from config.yaml and
// CLAIMFORM_ environment variables.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-claimform/pkg/document"
	"github.com/goliatone/go-claimform/pkg/site"
)

// EnvPrefix namespaces environment overrides, e.g. CLAIMFORM_SERVER_PORT.
const EnvPrefix = "CLAIMFORM"

// Config holds the full application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
	Campaign  CampaignConfig  `yaml:"campaign" mapstructure:"campaign"`
	Session   SessionConfig   `yaml:"session" mapstructure:"session"`
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
	Export    ExportConfig    `yaml:"export" mapstructure:"export"`
	Theme     ThemeConfig     `yaml:"theme" mapstructure:"theme"`
	CORS      CORSConfig      `yaml:"cors" mapstructure:"cors"`
	Site      SiteConfig      `yaml:"site" mapstructure:"site"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port            int           `yaml:"port" mapstructure:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
	SecureCookies   bool          `yaml:"secure_cookies" mapstructure:"secure_cookies"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// CampaignConfig names the campaign and the jurisdiction it accepts.
type CampaignConfig struct {
	Name                 string `yaml:"name" mapstructure:"name"`
	AcceptedJurisdiction string `yaml:"accepted_jurisdiction" mapstructure:"accepted_jurisdiction"`
}

// SessionConfig controls the in-memory session store.
type SessionConfig struct {
	TTL             time.Duration `yaml:"ttl" mapstructure:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" mapstructure:"cleanup_interval"`
	CookieName      string        `yaml:"cookie_name" mapstructure:"cookie_name"`
}

// RateLimitConfig limits mutating requests per client IP.
type RateLimitConfig struct {
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int           `yaml:"burst" mapstructure:"burst"`
	IdleTTL           time.Duration `yaml:"idle_ttl" mapstructure:"idle_ttl"`
}

// ExportConfig selects the default document format and PDF page settings.
type ExportConfig struct {
	DefaultFormat string             `yaml:"default_format" mapstructure:"default_format"`
	PDF           document.PDFConfig `yaml:"pdf" mapstructure:"pdf"`
}

// ThemeConfig picks the site theme.
type ThemeConfig struct {
	Name    string `yaml:"name" mapstructure:"name"`
	Variant string `yaml:"variant" mapstructure:"variant"`
}

// CORSConfig lists origins allowed to call the JSON API.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// SiteConfig points at an optional content file replacing the bundled copy.
type SiteConfig struct {
	ContentFile string         `yaml:"content_file" mapstructure:"content_file"`
	CTA         site.CTAPolicy `yaml:"cta" mapstructure:"cta"`
}

// Load reads configuration from ./config.yaml (optional) and environment.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom reads the given config file, or searches the working directory
// when path is empty.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
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

func setDefaults(v *viper.Viper) {
	pdf := document.DefaultPDFConfig()
	cta := site.DefaultCTAPolicy()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.secure_cookies", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("campaign.name", "HealthEquity-Agreement")
	v.SetDefault("campaign.accepted_jurisdiction", "CA")
	v.SetDefault("session.ttl", 30*time.Minute)
	v.SetDefault("session.cleanup_interval", 5*time.Minute)
	v.SetDefault("session.cookie_name", "claim_session")
	v.SetDefault("rate_limit.requests_per_second", 5.0)
	v.SetDefault("rate_limit.burst", 10)
	v.SetDefault("rate_limit.idle_ttl", 10*time.Minute)
	v.SetDefault("export.default_format", document.FormatPDF)
	v.SetDefault("export.pdf.page_size", pdf.PageSize)
	v.SetDefault("export.pdf.orientation", pdf.Orientation)
	v.SetDefault("export.pdf.unit", pdf.Unit)
	v.SetDefault("export.pdf.margin", pdf.Margin)
	v.SetDefault("export.pdf.image_quality", pdf.ImageQuality)
	v.SetDefault("export.pdf.font_family", pdf.FontFamily)
	v.SetDefault("export.pdf.font_size", pdf.FontSize)
	v.SetDefault("export.pdf.line_height", pdf.LineHeight)
	v.SetDefault("export.pdf.signature_height", pdf.SignatureHeight)
	v.SetDefault("theme.name", site.DefaultThemeName)
	v.SetDefault("theme.variant", "")
	v.SetDefault("cors.allowed_origins", []string{})
	v.SetDefault("site.content_file", "")
	v.SetDefault("site.cta.hide_while_hero_visible", cta.HideWhileHeroVisible)
	v.SetDefault("site.cta.raise_near_footer", cta.RaiseNearFooter)
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return eris.Errorf("config: server.port %d out of range", c.Server.Port)
	}
	if c.Session.TTL <= 0 {
		return eris.New("config: session.ttl must be positive")
	}
	if strings.TrimSpace(c.Campaign.Name) == "" {
		return eris.New("config: campaign.name is required")
	}
	if c.RateLimit.RequestsPerSecond < 0 || c.RateLimit.Burst < 0 {
		return eris.New("config: rate_limit values must not be negative")
	}
	switch c.Export.DefaultFormat {
	case document.FormatPDF, document.FormatHTML:
	default:
		return eris.Errorf("config: unknown export.default_format %q", c.Export.DefaultFormat)
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	logger, err := NewLogger(cfg)
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(logger)
	return nil
}

// NewLogger builds a logger without installing it globally.
func NewLogger(cfg LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, eris.Wrap(err, "config: build logger")
	}
	return logger, nil
}
