// Package analysis turns an uploaded image and the user's choices into
// generated prompts. It normalizes the images, composes the instruction,
// calls the vision model, and records the result in history.
package analysis

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/nanohunter/internal/history"
	"github.com/JaimeStill/nanohunter/internal/options"
	"github.com/JaimeStill/nanohunter/internal/vision"
	"github.com/JaimeStill/nanohunter/pkg/formatting"
	"github.com/JaimeStill/nanohunter/pkg/imaging"
)

// DefaultSecondaryLanguage is the language of the secondary prompt.
const DefaultSecondaryLanguage = "Turkish"

// Normalizer prepares raw uploads for the vision model.
type Normalizer interface {
	Normalize(ctx context.Context, raw []byte) (*imaging.Payload, error)
}

// Recorder stores completed analyses.
type Recorder interface {
	Append(ctx context.Context, e history.Entry) ([]history.Entry, error)
}

// Command carries one analysis request. Reference is optional and only
// used in HUMAN mode when the face is not being preserved.
type Command struct {
	Image          []byte
	ImageName      string
	Reference      []byte
	Preservation   options.Preservation
	AspectRatio    options.AspectRatio
	SubjectMode    options.SubjectMode
	UserPrompt     string
	NegativePrompt string
}

// UsesReference reports whether the reference image takes part in the request.
func (c Command) UsesReference() bool {
	return c.SubjectMode != options.ModeObject &&
		!c.Preservation.Enabled(options.KeyFace) &&
		len(c.Reference) > 0
}

// System defines the public contract for analysis operations.
type System interface {
	Handler(maxUploadSize int64) *Handler
	Generate(ctx context.Context, cmd Command) (*history.Entry, error)
	Normalize(ctx context.Context, raw []byte) (*imaging.Payload, error)
}

type reply struct {
	Analysis        string `json:"analysis"`
	PromptPrimary   string `json:"prompt_primary"`
	PromptSecondary string `json:"prompt_secondary"`
}

type service struct {
	normalizer        Normalizer
	vision            vision.Client
	history           Recorder
	secondaryLanguage string
	logger            *slog.Logger
}

// New creates the analysis system.
func New(
	normalizer Normalizer,
	client vision.Client,
	recorder Recorder,
	secondaryLanguage string,
	logger *slog.Logger,
) System {
	if secondaryLanguage == "" {
		secondaryLanguage = DefaultSecondaryLanguage
	}
	return &service{
		normalizer:        normalizer,
		vision:            client,
		history:           recorder,
		secondaryLanguage: secondaryLanguage,
		logger:            logger.With("system", "analysis"),
	}
}

func (s *service) Handler(maxUploadSize int64) *Handler {
	return NewHandler(s, s.logger, maxUploadSize)
}

func (s *service) Normalize(ctx context.Context, raw []byte) (*imaging.Payload, error) {
	if len(raw) == 0 {
		return nil, ErrNoImage
	}
	return s.normalizer.Normalize(ctx, raw)
}

// Generate runs one analysis. Nothing is recorded unless the model
// returns a usable reply.
func (s *service) Generate(ctx context.Context, cmd Command) (*history.Entry, error) {
	if len(cmd.Image) == 0 {
		return nil, ErrNoImage
	}
	if cmd.Preservation == nil {
		cmd.Preservation = options.Defaults()
	}
	if cmd.SubjectMode == "" {
		cmd.SubjectMode = options.DefaultMode
	}
	if cmd.AspectRatio == "" {
		cmd.AspectRatio = options.DefaultRatio
	}

	images, err := s.prepare(ctx, cmd)
	if err != nil {
		return nil, err
	}

	instruction, err := Compose(Instruction{
		Mode:              cmd.SubjectMode,
		Preservation:      cmd.Preservation,
		HasReference:      cmd.UsesReference(),
		AspectRatio:       cmd.AspectRatio,
		UserPrompt:        cmd.UserPrompt,
		NegativePrompt:    cmd.NegativePrompt,
		SecondaryLanguage: s.secondaryLanguage,
	})
	if err != nil {
		return nil, err
	}

	text, err := s.vision.Describe(ctx, vision.Request{Instruction: instruction, Images: images})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	parsed, err := formatting.Parse[reply](text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	if parsed.PromptPrimary == "" {
		return nil, fmt.Errorf("%w: reply has no prompt_primary", ErrGeneration)
	}

	entry := history.NewEntry(
		cmd.ImageName,
		history.Outputs{
			Analysis:        parsed.Analysis,
			PromptPrimary:   parsed.PromptPrimary,
			PromptSecondary: parsed.PromptSecondary,
		},
		cmd.AspectRatio,
		cmd.SubjectMode,
	)

	if _, err := s.history.Append(ctx, entry); err != nil {
		s.logger.ErrorContext(ctx, "analysis not recorded in history", "id", entry.ID, "error", err)
	}

	s.logger.InfoContext(ctx, "analysis complete",
		"id", entry.ID,
		"mode", cmd.SubjectMode,
		"ratio", cmd.AspectRatio,
		"images", len(images),
	)

	return &entry, nil
}

// prepare normalizes the style image and, when it applies, the reference
// image concurrently. The style image is always first.
func (s *service) prepare(ctx context.Context, cmd Command) ([]*imaging.Payload, error) {
	var style, reference *imaging.Payload

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := s.normalizer.Normalize(gctx, cmd.Image)
		if err != nil {
			return fmt.Errorf("style image: %w", err)
		}
		style = p
		return nil
	})

	if cmd.UsesReference() {
		g.Go(func() error {
			p, err := s.normalizer.Normalize(gctx, cmd.Reference)
			if err != nil {
				return fmt.Errorf("reference image: %w", err)
			}
			reference = p
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	images := []*imaging.Payload{style}
	if reference != nil {
		images = append(images, reference)
	}
	return images, nil
}
