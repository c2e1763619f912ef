// Package config provides Viper-based configuration loading for the game service.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/cory-johannsen/emberfall/internal/game/combat"
	"github.com/cory-johannsen/emberfall/internal/game/element"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// HTTPConfig holds the HTTP listener settings.
type HTTPConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	// ShutdownTimeout bounds graceful shutdown of in-flight requests.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns the "host:port" listen address.
func (h HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// JitterConfig is a uniform random offset lo + u*span.
type JitterConfig struct {
	Lo   float64 `mapstructure:"lo"`
	Span float64 `mapstructure:"span"`
}

// CombatConfig holds every tunable combat number.
type CombatConfig struct {
	CritChance       float64            `mapstructure:"crit_chance"`
	CritMultiplier   float64            `mapstructure:"crit_multiplier"`
	FleeChance       float64            `mapstructure:"flee_chance"`
	AttackJitter     JitterConfig       `mapstructure:"attack_jitter"`
	AbilityJitter    JitterConfig       `mapstructure:"ability_jitter"`
	StatusChance     map[string]float64 `mapstructure:"status_chance"`
	HealRatio        float64            `mapstructure:"heal_ratio"`
	DrainRatio       float64            `mapstructure:"drain_ratio"`
	DrainJitter      JitterConfig       `mapstructure:"drain_jitter"`
	DrainLeech       float64            `mapstructure:"drain_leech"`
	MultiAttackRatio float64            `mapstructure:"multi_attack_ratio"`
	MultiAttackHits  int                `mapstructure:"multi_attack_hits"`
	MultiJitter      JitterConfig       `mapstructure:"multi_jitter"`
	// LowHealth is the player health fraction enemies treat as low.
	LowHealth float64 `mapstructure:"low_health"`
}

// Rules converts c into resolver rules. Status chances are keyed by element name.
//
// Postcondition: Returns validated rules or a non-nil error.
func (c CombatConfig) Rules() (combat.Rules, error) {
	r := combat.DefaultRules()
	r.CritChance = c.CritChance
	r.CritMultiplier = c.CritMultiplier
	r.FleeChance = c.FleeChance
	r.AttackJitter = combat.Jitter(c.AttackJitter)
	r.AbilityJitter = combat.Jitter(c.AbilityJitter)
	r.HealRatio = c.HealRatio
	r.DrainRatio = c.DrainRatio
	r.DrainJitter = combat.Jitter(c.DrainJitter)
	r.DrainLeech = c.DrainLeech
	r.MultiAttackRatio = c.MultiAttackRatio
	r.MultiAttackHits = c.MultiAttackHits
	r.MultiJitter = combat.Jitter(c.MultiJitter)
	for name, p := range c.StatusChance {
		e, err := element.Parse(name)
		if err != nil || e == element.None {
			return combat.Rules{}, fmt.Errorf("combat.status_chance: unknown element %q", name)
		}
		r.EnemyStatusChance[e] = p
	}
	if err := r.Validate(); err != nil {
		return combat.Rules{}, err
	}
	return r, nil
}

// PacingConfig holds the delays between enemy actions.
type PacingConfig struct {
	Step   time.Duration `mapstructure:"step"`
	SubHit time.Duration `mapstructure:"sub_hit"`
}

// ContentConfig selects and configures the narrative content provider.
type ContentConfig struct {
	// Dir holds the YAML content tree (classes, abilities, effects, bestiary,
	// personalities, social, world) and Lua scripts.
	Dir string `mapstructure:"dir"`
	// Provider is "local" or "anthropic".
	Provider               string        `mapstructure:"provider"`
	Model                  string        `mapstructure:"model"`
	APIKey                 string        `mapstructure:"api_key"`
	BaseURL                string        `mapstructure:"base_url"`
	MaxTokens              int64         `mapstructure:"max_tokens"`
	Timeout                time.Duration `mapstructure:"timeout"`
	ScriptInstructionLimit int           `mapstructure:"script_instruction_limit"`
}

// StorageConfig selects where saves are written.
type StorageConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver     string `mapstructure:"driver"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

// GameConfig holds session-wide settings.
type GameConfig struct {
	// Seed fixes the random source when non-zero.
	Seed uint64 `mapstructure:"seed"`
	// TravelEncounterChance is the chance moving to a location starts a fight.
	TravelEncounterChance float64 `mapstructure:"travel_encounter_chance"`
}

// Config is the top-level application configuration.
type Config struct {
	HTTP     HTTPConfig     `mapstructure:"http"`
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Combat   CombatConfig   `mapstructure:"combat"`
	Pacing   PacingConfig   `mapstructure:"pacing"`
	Content  ContentConfig  `mapstructure:"content"`
	Game     GameConfig     `mapstructure:"game"`
}

// Validate checks all configuration invariants. Database settings are only
// checked when the postgres storage driver is selected.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string
	for _, err := range []error{
		validateHTTP(c.HTTP),
		validateStorage(c.Storage),
		validateLogging(c.Logging),
		validateCombat(c.Combat),
		validatePacing(c.Pacing),
		validateContent(c.Content),
		validateGame(c.Game),
	} {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	if c.Storage.Driver == "postgres" {
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func joinErrs(errs []string) error {
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateHTTP(h HTTPConfig) error {
	var errs []string
	if h.Port < 1 || h.Port > 65535 {
		errs = append(errs, fmt.Sprintf("http.port must be 1-65535, got %d", h.Port))
	}
	if h.ShutdownTimeout < 0 {
		errs = append(errs, "http.shutdown_timeout must not be negative")
	}
	return joinErrs(errs)
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	return joinErrs(errs)
}

func validateStorage(s StorageConfig) error {
	switch s.Driver {
	case "sqlite":
		if s.SQLitePath == "" {
			return fmt.Errorf("storage.sqlite_path must not be empty")
		}
	case "postgres":
	default:
		return fmt.Errorf("storage.driver must be one of [sqlite, postgres], got %q", s.Driver)
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateCombat(c CombatConfig) error {
	var errs []string
	if _, err := c.Rules(); err != nil {
		errs = append(errs, err.Error())
	}
	if c.LowHealth <= 0 || c.LowHealth > 1 {
		errs = append(errs, fmt.Sprintf("combat.low_health must be in (0,1], got %v", c.LowHealth))
	}
	return joinErrs(errs)
}

func validatePacing(p PacingConfig) error {
	if p.Step < 0 || p.SubHit < 0 {
		return fmt.Errorf("pacing delays must not be negative")
	}
	return nil
}

func validateContent(c ContentConfig) error {
	var errs []string
	switch c.Provider {
	case "local":
	case "anthropic":
		if c.APIKey == "" {
			errs = append(errs, "content.api_key must be set for the anthropic provider")
		}
		if c.Model == "" {
			errs = append(errs, "content.model must be set for the anthropic provider")
		}
	default:
		errs = append(errs, fmt.Sprintf("content.provider must be one of [local, anthropic], got %q", c.Provider))
	}
	if c.Timeout < 0 {
		errs = append(errs, "content.timeout must not be negative")
	}
	if c.ScriptInstructionLimit < 0 {
		errs = append(errs, "content.script_instruction_limit must not be negative")
	}
	return joinErrs(errs)
}

func validateGame(g GameConfig) error {
	if g.TravelEncounterChance < 0 || g.TravelEncounterChance > 1 {
		return fmt.Errorf("game.travel_encounter_chance must be in [0,1], got %v", g.TravelEncounterChance)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment
// variable overrides, and validates the result. An empty path uses defaults
// and the environment only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with EMBER_ prefix
	v.SetEnvPrefix("EMBER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SetDefaults registers the default for every key. Defaults match the stock
// combat rules so an empty configuration plays the standard game.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.shutdown_timeout", "10s")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "ember")
	v.SetDefault("database.password", "ember")
	v.SetDefault("database.name", "ember")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.sqlite_path", "emberfall.db")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	r := combat.DefaultRules()
	v.SetDefault("combat.crit_chance", r.CritChance)
	v.SetDefault("combat.crit_multiplier", r.CritMultiplier)
	v.SetDefault("combat.flee_chance", r.FleeChance)
	v.SetDefault("combat.attack_jitter", map[string]any{"lo": r.AttackJitter.Lo, "span": r.AttackJitter.Span})
	v.SetDefault("combat.ability_jitter", map[string]any{"lo": r.AbilityJitter.Lo, "span": r.AbilityJitter.Span})
	statuses := map[string]any{}
	for e, p := range r.EnemyStatusChance {
		statuses[e.String()] = p
	}
	v.SetDefault("combat.status_chance", statuses)
	v.SetDefault("combat.heal_ratio", r.HealRatio)
	v.SetDefault("combat.drain_ratio", r.DrainRatio)
	v.SetDefault("combat.drain_jitter", map[string]any{"lo": r.DrainJitter.Lo, "span": r.DrainJitter.Span})
	v.SetDefault("combat.drain_leech", r.DrainLeech)
	v.SetDefault("combat.multi_attack_ratio", r.MultiAttackRatio)
	v.SetDefault("combat.multi_attack_hits", r.MultiAttackHits)
	v.SetDefault("combat.multi_jitter", map[string]any{"lo": r.MultiJitter.Lo, "span": r.MultiJitter.Span})
	v.SetDefault("combat.low_health", 0.3)

	v.SetDefault("pacing.step", "1s")
	v.SetDefault("pacing.sub_hit", "500ms")

	v.SetDefault("content.dir", "content")
	v.SetDefault("content.provider", "local")
	v.SetDefault("content.model", "claude-sonnet-4-5")
	v.SetDefault("content.max_tokens", 1024)
	v.SetDefault("content.timeout", "20s")
	v.SetDefault("content.script_instruction_limit", 100000)

	v.SetDefault("game.seed", 0)
	v.SetDefault("game.travel_encounter_chance", 0.35)
}
