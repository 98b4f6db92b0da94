package ingest

import (
	"context"
	"io"
)

// Result holds the outcome of an ingest operation.
type Result struct {
	SessionsReceived int   `json:"sessions_received"`
	SessionsInserted int   `json:"sessions_inserted"`
	SessionsSkipped  int   `json:"sessions_skipped"`
	SetsReceived     int   `json:"sets_received"`
	SetsInserted     int64 `json:"sets_inserted"`

	Message string `json:"message,omitempty"`
}

// Provider turns an external training-log export into logged sessions.
type Provider interface {
	// Name identifies the source in import logs.
	Name() string
	Ingest(ctx context.Context, r io.Reader) (*Result, error)
}
