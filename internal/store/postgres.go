package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/abxplore/crmsim/internal/db"
	"github.com/abxplore/crmsim/internal/model"
	"github.com/abxplore/crmsim/internal/retry"
)

// PostgresStore implements Store using pgxpool, loading each stream via the
// COPY protocol.
type PostgresStore struct {
	pool db.Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 4
	pgxCfg.MinConns = 1
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}

	// The database may still be starting when the generator runs, so the
	// initial ping is retried with backoff.
	pingCfg := retry.DefaultConfig()
	pingCfg.OnRetry = retry.Logger("postgres ping")
	if err := retry.Do(ctx, pingCfg, pool.Ping); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresSchema = `
DROP TABLE IF EXISTS leads;
CREATE TABLE leads (
	lead_id        TEXT PRIMARY KEY,
	company_name   TEXT NOT NULL,
	contact_email  TEXT NOT NULL,
	contact_phone  TEXT,
	industry       TEXT NOT NULL,
	region         TEXT NOT NULL,
	source_channel TEXT NOT NULL,
	company_size   TEXT NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL,
	annual_revenue DOUBLE PRECISION NOT NULL,
	"group"        TEXT NOT NULL,
	assigned_at    DATE NOT NULL
);

DROP TABLE IF EXISTS contact_events;
CREATE TABLE contact_events (
	event_id      TEXT PRIMARY KEY,
	lead_id       TEXT NOT NULL,
	event_date    DATE NOT NULL,
	contact_type  TEXT NOT NULL,
	response_type TEXT
);

DROP TABLE IF EXISTS funnel_stages;
CREATE TABLE funnel_stages (
	stage_id    TEXT PRIMARY KEY,
	lead_id     TEXT NOT NULL,
	stage_name  TEXT NOT NULL,
	stage_date  DATE NOT NULL,
	stage_order INTEGER NOT NULL
);

DROP TABLE IF EXISTS outcomes;
CREATE TABLE outcomes (
	outcome_id    TEXT PRIMARY KEY,
	lead_id       TEXT NOT NULL,
	converted     BOOLEAN NOT NULL,
	revenue       DOUBLE PRECISION NOT NULL,
	outcome_date  DATE NOT NULL,
	days_to_close INTEGER NOT NULL
);

CREATE INDEX idx_contact_events_lead_id ON contact_events(lead_id);
CREATE INDEX idx_funnel_stages_lead_id ON funnel_stages(lead_id);
CREATE INDEX idx_outcomes_lead_id ON outcomes(lead_id);
`

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// SaveDataset replaces the four stream tables and bulk loads every record
// via COPY.
func (s *PostgresStore) SaveDataset(ctx context.Context, ds *model.Dataset) error {
	if _, err := s.pool.Exec(ctx, postgresSchema); err != nil {
		return eris.Wrap(err, "postgres: create tables")
	}

	leadRows := make([][]any, len(ds.Leads))
	for i, l := range ds.Leads {
		leadRows[i] = []any{
			l.ID, l.CompanyName, l.ContactEmail, pgNullIfEmpty(l.ContactPhone),
			l.Industry, l.Region, l.SourceChannel, string(l.CompanySize),
			l.CreatedAt, l.AnnualRevenue, string(l.Group), l.AssignedAt,
		}
	}
	if _, err := db.CopyFrom(ctx, s.pool, TableLeads, []string{
		"lead_id", "company_name", "contact_email", "contact_phone", "industry", "region",
		"source_channel", "company_size", "created_at", "annual_revenue", "group", "assigned_at",
	}, leadRows); err != nil {
		return err
	}

	eventRows := make([][]any, len(ds.ContactEvents))
	for i, e := range ds.ContactEvents {
		eventRows[i] = []any{e.ID, e.LeadID, e.EventDate, e.ContactType, pgNullIfEmpty(e.ResponseType)}
	}
	if _, err := db.CopyFrom(ctx, s.pool, TableContactEvents, []string{
		"event_id", "lead_id", "event_date", "contact_type", "response_type",
	}, eventRows); err != nil {
		return err
	}

	stageRows := make([][]any, len(ds.FunnelStages))
	for i, st := range ds.FunnelStages {
		stageRows[i] = []any{st.ID, st.LeadID, st.StageName, st.StageDate, st.StageOrder}
	}
	if _, err := db.CopyFrom(ctx, s.pool, TableFunnelStages, []string{
		"stage_id", "lead_id", "stage_name", "stage_date", "stage_order",
	}, stageRows); err != nil {
		return err
	}

	outcomeRows := make([][]any, len(ds.Outcomes))
	for i, o := range ds.Outcomes {
		outcomeRows[i] = []any{o.ID, o.LeadID, o.Converted, o.Revenue, o.OutcomeDate, o.DaysToClose}
	}
	if _, err := db.CopyFrom(ctx, s.pool, TableOutcomes, []string{
		"outcome_id", "lead_id", "converted", "revenue", "outcome_date", "days_to_close",
	}, outcomeRows); err != nil {
		return err
	}

	return nil
}

func pgNullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
