package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/JaimeStill/nanohunter/internal/analysis"
	"github.com/JaimeStill/nanohunter/internal/history"
)

const (
	EnvHistoryKey                = "NANOHUNTER_HISTORY_KEY"
	EnvAnalysisSecondaryLanguage = "NANOHUNTER_ANALYSIS_SECONDARY_LANGUAGE"
)

var historyKeyPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// HistoryConfig holds the ledger's persistence key.
type HistoryConfig struct {
	Key string `toml:"key"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *HistoryConfig) Finalize() error {
	if c.Key == "" {
		c.Key = history.DefaultKey
	}
	if v := os.Getenv(EnvHistoryKey); v != "" {
		c.Key = v
	}
	if !historyKeyPattern.MatchString(c.Key) {
		return fmt.Errorf("invalid key %q", c.Key)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *HistoryConfig) Merge(overlay *HistoryConfig) {
	if overlay.Key != "" {
		c.Key = overlay.Key
	}
}

// AnalysisConfig holds prompt generation settings.
type AnalysisConfig struct {
	SecondaryLanguage string `toml:"secondary_language"`
}

// Finalize applies defaults and environment variable overrides.
func (c *AnalysisConfig) Finalize() error {
	if c.SecondaryLanguage == "" {
		c.SecondaryLanguage = analysis.DefaultSecondaryLanguage
	}
	if v := os.Getenv(EnvAnalysisSecondaryLanguage); v != "" {
		c.SecondaryLanguage = v
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *AnalysisConfig) Merge(overlay *AnalysisConfig) {
	if overlay.SecondaryLanguage != "" {
		c.SecondaryLanguage = overlay.SecondaryLanguage
	}
}
