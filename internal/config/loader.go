package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config carries the generator and server settings.
type Config struct {
	// OutputDir is where generated version packages are written.
	OutputDir string
	// ChangelogPath is where the generated changelog is written; empty
	// disables it.
	ChangelogPath string
	// ReportPath is where the version matrix workbook is written; empty
	// disables it.
	ReportPath string
	// LogMode selects the logger encoder ("dev" or "prod").
	LogMode string
	// ListenAddr is the bind address of the versioned HTTP boundary.
	ListenAddr string
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		OutputDir:     "gen",
		ChangelogPath: "gen/CHANGELOG.md",
		LogMode:       "dev",
		ListenAddr:    ":8080",
	}
}

// Load reads config.yaml from configPath, falling back to defaults plus
// VERGE_-prefixed environment overrides when no file is present.
func Load(configPath string) (Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.SetEnvPrefix("VERGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.BindEnv("generate.output_dir")
	v.BindEnv("generate.changelog_path")
	v.BindEnv("generate.report_path")
	v.BindEnv("log.mode")
	v.BindEnv("server.listen_addr")

	// A missing config file is fine; defaults and env vars cover it.
	_ = v.ReadInConfig()

	if v.IsSet("generate.output_dir") {
		cfg.OutputDir = v.GetString("generate.output_dir")
	}
	if v.IsSet("generate.changelog_path") {
		cfg.ChangelogPath = v.GetString("generate.changelog_path")
	}
	if v.IsSet("generate.report_path") {
		cfg.ReportPath = v.GetString("generate.report_path")
	}
	if v.IsSet("log.mode") {
		cfg.LogMode = v.GetString("log.mode")
	}
	if v.IsSet("server.listen_addr") {
		cfg.ListenAddr = v.GetString("server.listen_addr")
	}

	return cfg, nil
}
