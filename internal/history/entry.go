// Package history keeps a bounded, newest-first record of completed
// analyses and persists it through a key-value store.
package history

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/nanohunter/internal/options"
)

// Outputs is the text produced by one analysis.
type Outputs struct {
	Analysis        string `json:"analysis"`
	PromptPrimary   string `json:"prompt_primary"`
	PromptSecondary string `json:"prompt_secondary"`
}

// Entry records one completed analysis. The source image is never part of it.
type Entry struct {
	ID          string              `json:"id"`
	CreatedAt   time.Time           `json:"created_at"`
	SourceName  string              `json:"source_name"`
	Outputs     Outputs             `json:"outputs"`
	AspectRatio options.AspectRatio `json:"aspect_ratio"`
	SubjectMode options.SubjectMode `json:"subject_mode"`
}

// NewEntry stamps a new entry with a time-ordered ID and the current time.
func NewEntry(
	sourceName string,
	outputs Outputs,
	ratio options.AspectRatio,
	mode options.SubjectMode,
) Entry {
	return Entry{
		ID:          uuid.Must(uuid.NewV7()).String(),
		CreatedAt:   time.Now().UTC(),
		SourceName:  sourceName,
		Outputs:     outputs,
		AspectRatio: ratio,
		SubjectMode: mode,
	}
}

// Restore returns e unchanged so a caller can rehydrate its working state
// (aspect ratio, subject mode, outputs). It never touches the ledger and
// cannot bring back the source image.
func Restore(e Entry) Entry {
	return e
}

// withDefaults fills fields that entries written by older clients may lack.
func (e Entry) withDefaults() Entry {
	if e.SubjectMode == "" {
		e.SubjectMode = options.DefaultMode
	}
	if e.AspectRatio == "" {
		e.AspectRatio = options.DefaultRatio
	}
	return e
}

// Prompt returns the primary or secondary prompt text.
func (e Entry) Prompt(lang string) (string, error) {
	switch lang {
	case "", "primary":
		return e.Outputs.PromptPrimary, nil
	case "secondary":
		return e.Outputs.PromptSecondary, nil
	default:
		return "", ErrInvalidLanguage
	}
}
