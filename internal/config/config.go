// Package config loads the backtest job configuration from a YAML file
// with environment-variable overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/quantyard/covercall/internal/strike"
)

// Config is the full job description for a covercall run.
type Config struct {
	Symbols  []string `mapstructure:"symbols"`
	Start    string   `mapstructure:"start"` // YYYY-MM-DD; empty means one year ago
	End      string   `mapstructure:"end"`   // YYYY-MM-DD; empty means today

	Shares           int     `mapstructure:"shares"`
	MoneynessPercent float64 `mapstructure:"moneyness_percent"`
	StrikeRule       string  `mapstructure:"strike_rule"` // e.g. "OTM:5", "{PRICE}*1.05"; overrides moneyness_percent
	CycleDays        int     `mapstructure:"cycle_days"`
	Volatility       float64 `mapstructure:"volatility"`     // 0: estimate from history
	RiskFreeRate     float64 `mapstructure:"risk_free_rate"` // 0: engine default

	Provider    ProviderConfig `mapstructure:"provider"`
	ReportDir   string         `mapstructure:"report_dir"`
	Concurrency int            `mapstructure:"concurrency"`
	Verbosity   int            `mapstructure:"verbosity"` // 0=errors,1=info,2=debug,3=trace
}

// ProviderConfig selects and configures the market data source.
type ProviderConfig struct {
	Type     string        `mapstructure:"type"` // "rest", "local", "synthetic"
	BaseURL  string        `mapstructure:"base_url"`
	APIKey   string        `mapstructure:"api_key"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
	DataDir  string        `mapstructure:"data_dir"`
	Seed     int64         `mapstructure:"seed"`
}

// Load reads the config file at path, applies defaults and environment
// overrides (COVERCALL_PROVIDER_API_KEY and friends), and validates the
// result.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("covercall")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only surfaces keys viper already knows about, so keys
	// without defaults need explicit bindings to be overridable from the
	// environment.
	for _, key := range []string{"provider.api_key", "provider.data_dir", "strike_rule"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("shares", 100)
	v.SetDefault("moneyness_percent", 5.0)
	v.SetDefault("cycle_days", 30)
	v.SetDefault("provider.type", "synthetic")
	v.SetDefault("provider.base_url", "https://api.polygon.io")
	v.SetDefault("provider.cache_ttl", 15*time.Minute)
	v.SetDefault("provider.seed", 1)
	v.SetDefault("report_dir", "./out")
	v.SetDefault("concurrency", 4)
	v.SetDefault("verbosity", 1)
}

func (c *Config) validate() error {
	if len(c.Symbols) == 0 {
		return fmt.Errorf("config: at least one symbol is required")
	}
	if c.CycleDays <= 0 {
		return fmt.Errorf("config: cycle_days must be positive")
	}
	if c.StrikeRule != "" {
		// Resolve against a probe price so parse errors surface at load
		// time instead of mid-backtest.
		if _, err := strike.ResolveRule(c.StrikeRule, 100); err != nil {
			return fmt.Errorf("config: bad strike_rule: %w", err)
		}
	}
	switch c.Provider.Type {
	case "rest":
		if c.Provider.APIKey == "" {
			return fmt.Errorf("config: provider.api_key is required for the rest provider")
		}
	case "local":
		if c.Provider.DataDir == "" {
			return fmt.Errorf("config: provider.data_dir is required for the local provider")
		}
	case "synthetic":
	default:
		return fmt.Errorf("config: unknown provider type %q", c.Provider.Type)
	}
	return nil
}

// Range resolves the configured date window. Empty bounds default to the
// trailing year, matching how ad-hoc runs are usually launched.
func (c *Config) Range() (time.Time, time.Time, error) {
	now := time.Now().UTC().Truncate(24 * time.Hour)
	from := now.AddDate(-1, 0, 0)
	to := now

	var err error
	if c.Start != "" {
		if from, err = time.Parse("2006-01-02", c.Start); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("config: bad start date %q: %w", c.Start, err)
		}
	}
	if c.End != "" {
		if to, err = time.Parse("2006-01-02", c.End); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("config: bad end date %q: %w", c.End, err)
		}
	}
	if from.After(to) {
		from, to = to, from
	}
	return from, to, nil
}
