// Package store persists generated datasets into a relational sink. Each
// save replaces the four tables wholesale; the generator is the source of
// truth and the store never merges.
package store

import (
	"context"

	"github.com/abxplore/crmsim/internal/model"
)

// Table names for the four record streams.
const (
	TableLeads         = "leads"
	TableContactEvents = "contact_events"
	TableFunnelStages  = "funnel_stages"
	TableOutcomes      = "outcomes"
)

// Store defines the relational persistence interface for the pipeline.
type Store interface {
	// SaveDataset drops and recreates the four stream tables, then bulk
	// inserts every record.
	SaveDataset(ctx context.Context, ds *model.Dataset) error

	Close() error
}
