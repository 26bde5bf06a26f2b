// Package config provides Viper-based configuration loading for the battle engine.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// File receives log output when set; empty logs to stderr.
	File string `mapstructure:"file"`
}

// ContentConfig locates the reference data and scripted content documents.
type ContentConfig struct {
	// RefDataFile is the YAML document holding the abbreviated-code tables.
	RefDataFile string `mapstructure:"refdata_file"`
	// ContentDir is the directory of YAML documents defining skills, equipment,
	// battlers, scenes and the level-up table.
	ContentDir string `mapstructure:"content_dir"`
}

// ScriptingConfig holds Lua enemy AI settings.
type ScriptingConfig struct {
	// AIScriptDir is the directory of Lua AI scripts; empty disables scripted AI.
	AIScriptDir string `mapstructure:"ai_script_dir"`
	// InstructionLimit caps Lua opcodes per hook call; 0 uses the scripting default.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// GameConfig holds tick and presentation timing settings.
type GameConfig struct {
	// TickInterval is the wall-clock period between state machine updates.
	TickInterval time.Duration `mapstructure:"tick_interval"`
	// FadeDuration is the length of a fade in or fade out.
	FadeDuration time.Duration `mapstructure:"fade_duration"`
	// SkillNameDuration is how long a skill name stays on screen.
	SkillNameDuration time.Duration `mapstructure:"skill_name_duration"`
	// AnimationDuration is the length of a skill animation.
	AnimationDuration time.Duration `mapstructure:"animation_duration"`
	// DamageDisplayDuration is how long a damage number stays on screen.
	DamageDisplayDuration time.Duration `mapstructure:"damage_display_duration"`
	// OutcomeDuration is how long the victory text stays on screen.
	OutcomeDuration time.Duration `mapstructure:"outcome_duration"`
	// MonologueLineInterval is the auto-advance interval between monologue lines.
	MonologueLineInterval time.Duration `mapstructure:"monologue_line_interval"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Content   ContentConfig   `mapstructure:"content"`
	Scripting ScriptingConfig `mapstructure:"scripting"`
	Game      GameConfig      `mapstructure:"game"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateContent(c.Content); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateScripting(c.Scripting); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateGame(c.Game); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
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

func validateContent(c ContentConfig) error {
	var errs []string
	if c.RefDataFile == "" {
		errs = append(errs, "content.refdata_file must not be empty")
	}
	if c.ContentDir == "" {
		errs = append(errs, "content.content_dir must not be empty")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateScripting(s ScriptingConfig) error {
	if s.InstructionLimit < 0 {
		return fmt.Errorf("scripting.instruction_limit must be >= 0, got %d", s.InstructionLimit)
	}
	return nil
}

func validateGame(g GameConfig) error {
	var errs []string
	if g.TickInterval <= 0 {
		errs = append(errs, fmt.Sprintf("game.tick_interval must be > 0, got %s", g.TickInterval))
	}
	durations := []struct {
		name  string
		value time.Duration
	}{
		{"game.fade_duration", g.FadeDuration},
		{"game.skill_name_duration", g.SkillNameDuration},
		{"game.animation_duration", g.AnimationDuration},
		{"game.damage_display_duration", g.DamageDisplayDuration},
		{"game.outcome_duration", g.OutcomeDuration},
		{"game.monologue_line_interval", g.MonologueLineInterval},
	}
	for _, d := range durations {
		if d.value < 0 {
			errs = append(errs, fmt.Sprintf("%s must not be negative", d.name))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with SKIRMISH_ prefix
	v.SetEnvPrefix("SKIRMISH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
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

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file", "")

	v.SetDefault("content.refdata_file", "content/refdata.yaml")
	v.SetDefault("content.content_dir", "content/game")

	v.SetDefault("scripting.ai_script_dir", "")
	v.SetDefault("scripting.instruction_limit", 0)

	v.SetDefault("game.tick_interval", "33ms")
	v.SetDefault("game.fade_duration", "500ms")
	v.SetDefault("game.skill_name_duration", "800ms")
	v.SetDefault("game.animation_duration", "600ms")
	v.SetDefault("game.damage_display_duration", "1s")
	v.SetDefault("game.outcome_duration", "2s")
	v.SetDefault("game.monologue_line_interval", "3s")
}
