// Package bridge exposes the four caller-facing operations: encode, decode,
// query and generate.
package bridge

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leapbridge/internal/codec"
	"github.com/leapstack-labs/leapbridge/internal/gateway"
	"github.com/leapstack-labs/leapbridge/internal/generation"
	"github.com/leapstack-labs/leapbridge/pkg/core"
)

// Querier runs a statement against a store.
type Querier interface {
	RunQuery(ctx context.Context, uri, statement string) (core.ResultSet, error)
}

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt, model string) (string, error)
}

// Settings are the fixed per-process defaults of the service.
type Settings struct {
	StoreURI       string
	Statement      string
	GenerationHost string
	Model          string
}

// Service binds the codec, gateway and generation bridge to fixed settings.
// It keeps no mutable state between calls.
type Service struct {
	codec     *codec.Codec
	querier   Querier
	generator Generator
	settings  Settings
	logger    *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithQuerier replaces the store gateway.
func WithQuerier(q Querier) Option {
	return func(s *Service) { s.querier = q }
}

// WithGenerator replaces the generation bridge.
func WithGenerator(g Generator) Option {
	return func(s *Service) { s.generator = g }
}

// WithCodec replaces the codec.
func WithCodec(c *codec.Codec) Option {
	return func(s *Service) { s.codec = c }
}

// WithLogger sets the logger passed to the default gateway.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// New creates a Service. Components not supplied through options are built
// from settings.
func New(settings Settings, opts ...Option) (*Service, error) {
	s := &Service{
		settings: settings,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.codec == nil {
		s.codec = codec.New()
	}
	if s.querier == nil {
		s.querier = gateway.New(gateway.WithLogger(s.logger))
	}
	if s.generator == nil {
		g, err := generation.New(settings.GenerationHost, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create generation bridge: %w", err)
		}
		s.generator = g
	}
	return s, nil
}

// Settings returns the service settings.
func (s *Service) Settings() Settings {
	return s.settings
}

// Encode obfuscates text.
func (s *Service) Encode(text string) string {
	return s.codec.Encode(text)
}

// Decode reverses Encode.
func (s *Service) Decode(token string) (string, error) {
	return s.codec.Decode(token)
}

// Query runs the configured statement against the configured store.
func (s *Service) Query(ctx context.Context) (core.ResultSet, error) {
	return s.querier.RunQuery(ctx, s.settings.StoreURI, s.settings.Statement)
}

// Generate answers prompt with the configured model.
func (s *Service) Generate(ctx context.Context, prompt string) (string, error) {
	return s.GenerateWith(ctx, prompt, s.settings.Model)
}

// GenerateWith answers prompt with model, falling back to the configured
// model when model is empty.
func (s *Service) GenerateWith(ctx context.Context, prompt, model string) (string, error) {
	if model == "" {
		model = s.settings.Model
	}
	return s.generator.Generate(ctx, prompt, model)
}
