// Package gateway runs a statement against a relational store and returns
// every row as a schema-less structured value.
package gateway

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leapbridge/pkg/adapter"
	"github.com/leapstack-labs/leapbridge/pkg/core"
	"github.com/leapstack-labs/leapbridge/pkg/projector"
)

// Stage names reported in errors.
const (
	StageConnect = "connect"
	StageExecute = "execute"
	StageDecode  = "decode"
)

// Opener returns a connected adapter for uri. The caller closes it.
type Opener func(ctx context.Context, uri string, logger *slog.Logger) (adapter.Adapter, error)

// Gateway executes statements with one store connection per call.
// It holds no per-call state and is safe for concurrent use.
type Gateway struct {
	open   Opener
	logger *slog.Logger
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithOpener replaces the adapter registry lookup.
func WithOpener(open Opener) Option {
	return func(g *Gateway) { g.open = open }
}

// WithLogger sets the logger handed to store adapters.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) { g.logger = logger }
}

// New creates a Gateway that opens stores through the adapter registry.
func New(opts ...Option) *Gateway {
	g := &Gateway{
		open:   adapter.Open,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// RunQuery connects to the store at uri, executes statement and projects
// every row in store order.
//
// A single connection attempt is made and the connection is released on
// every return path. Any failure returns a nil ResultSet and an *Error
// classified as ErrConnection, ErrQueryExecution or ErrRowDecode; rows
// decoded before a mid-stream failure are discarded.
func (g *Gateway) RunQuery(ctx context.Context, uri, statement string) (core.ResultSet, error) {
	store, err := g.open(ctx, uri, g.logger)
	if err != nil {
		return nil, newError(ErrConnection, StageConnect, err)
	}
	defer func() { _ = store.Close() }()

	rows, err := store.Query(ctx, statement)
	if err != nil {
		return nil, newError(ErrQueryExecution, StageExecute, err)
	}
	defer func() { _ = rows.Close() }()

	decoder, err := adapter.NewRowDecoder(rows.Rows)
	if err != nil {
		return nil, newError(ErrQueryExecution, StageExecute, err)
	}

	result := make(core.ResultSet, 0)
	for rows.Next() {
		row, err := decoder.Decode()
		if err != nil {
			return nil, newError(ErrRowDecode, StageDecode, fmt.Errorf("row %d: %w", len(result)+1, err))
		}
		result = append(result, projector.Project(row))
	}
	if err := rows.Err(); err != nil {
		return nil, newError(ErrRowDecode, StageDecode, fmt.Errorf("after row %d: %w", len(result), err))
	}

	return result, nil
}
