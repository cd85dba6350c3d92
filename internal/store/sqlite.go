package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/abxplore/crmsim/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL
// mode. Parent directories are created if needed.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dsn); dsn != ":memory:" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, eris.Wrapf(err, "sqlite: mkdir %s", dir)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteSchema = `
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
	created_at     TEXT NOT NULL,
	annual_revenue REAL NOT NULL,
	"group"        TEXT NOT NULL,
	assigned_at    TEXT NOT NULL
);

DROP TABLE IF EXISTS contact_events;
CREATE TABLE contact_events (
	event_id      TEXT PRIMARY KEY,
	lead_id       TEXT NOT NULL,
	event_date    TEXT NOT NULL,
	contact_type  TEXT NOT NULL,
	response_type TEXT
);

DROP TABLE IF EXISTS funnel_stages;
CREATE TABLE funnel_stages (
	stage_id    TEXT PRIMARY KEY,
	lead_id     TEXT NOT NULL,
	stage_name  TEXT NOT NULL,
	stage_date  TEXT NOT NULL,
	stage_order INTEGER NOT NULL
);

DROP TABLE IF EXISTS outcomes;
CREATE TABLE outcomes (
	outcome_id    TEXT PRIMARY KEY,
	lead_id       TEXT NOT NULL,
	converted     INTEGER NOT NULL,
	revenue       REAL NOT NULL,
	outcome_date  TEXT NOT NULL,
	days_to_close INTEGER NOT NULL
);

CREATE INDEX idx_contact_events_lead_id ON contact_events(lead_id);
CREATE INDEX idx_funnel_stages_lead_id ON funnel_stages(lead_id);
CREATE INDEX idx_outcomes_lead_id ON outcomes(lead_id);
`

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveDataset replaces the four stream tables and inserts every record in a
// single transaction.
func (s *SQLiteStore) SaveDataset(ctx context.Context, ds *model.Dataset) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, sqliteSchema); err != nil {
		return eris.Wrap(err, "sqlite: create tables")
	}

	if err := s.insertLeads(ctx, tx, ds.Leads); err != nil {
		return err
	}
	if err := s.insertContactEvents(ctx, tx, ds.ContactEvents); err != nil {
		return err
	}
	if err := s.insertFunnelStages(ctx, tx, ds.FunnelStages); err != nil {
		return err
	}
	if err := s.insertOutcomes(ctx, tx, ds.Outcomes); err != nil {
		return err
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit")
}

func (s *SQLiteStore) insertLeads(ctx context.Context, tx *sql.Tx, leads []model.Lead) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO leads (lead_id, company_name, contact_email, contact_phone, industry, region,
		 source_channel, company_size, created_at, annual_revenue, "group", assigned_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare leads insert")
	}
	defer stmt.Close()

	for _, l := range leads {
		_, err := stmt.ExecContext(ctx,
			l.ID, l.CompanyName, l.ContactEmail, nullIfEmpty(l.ContactPhone),
			l.Industry, l.Region, l.SourceChannel, string(l.CompanySize),
			l.CreatedAt.Format(model.TimestampLayout), l.AnnualRevenue,
			string(l.Group), l.AssignedAt.Format(model.DateLayout),
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: insert lead %s", l.ID)
		}
	}
	return nil
}

func (s *SQLiteStore) insertContactEvents(ctx context.Context, tx *sql.Tx, events []model.ContactEvent) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO contact_events (event_id, lead_id, event_date, contact_type, response_type)
		 VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare contact_events insert")
	}
	defer stmt.Close()

	for _, e := range events {
		_, err := stmt.ExecContext(ctx,
			e.ID, e.LeadID, e.EventDate.Format(model.DateLayout),
			e.ContactType, nullIfEmpty(e.ResponseType),
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: insert contact event %s", e.ID)
		}
	}
	return nil
}

func (s *SQLiteStore) insertFunnelStages(ctx context.Context, tx *sql.Tx, stages []model.FunnelStage) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO funnel_stages (stage_id, lead_id, stage_name, stage_date, stage_order)
		 VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare funnel_stages insert")
	}
	defer stmt.Close()

	for _, st := range stages {
		_, err := stmt.ExecContext(ctx,
			st.ID, st.LeadID, st.StageName, st.StageDate.Format(model.DateLayout), st.StageOrder,
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: insert funnel stage %s", st.ID)
		}
	}
	return nil
}

func (s *SQLiteStore) insertOutcomes(ctx context.Context, tx *sql.Tx, outcomes []model.Outcome) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO outcomes (outcome_id, lead_id, converted, revenue, outcome_date, days_to_close)
		 VALUES (?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare outcomes insert")
	}
	defer stmt.Close()

	for _, o := range outcomes {
		_, err := stmt.ExecContext(ctx,
			o.ID, o.LeadID, boolToInt(o.Converted), o.Revenue,
			o.OutcomeDate.Format(model.DateLayout), o.DaysToClose,
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: insert outcome %s", o.ID)
		}
	}
	return nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
