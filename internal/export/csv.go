// Package export writes the generated record streams to flat delimited
// files, one per entity type, with a header row of field names.
package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/abxplore/crmsim/internal/model"
)

// File names of the four streams inside the output directory.
const (
	LeadsFile         = "leads.csv"
	ContactEventsFile = "contact_events.csv"
	FunnelStagesFile  = "funnel_stages.csv"
	OutcomesFile      = "outcomes.csv"
)

var (
	leadColumns = []string{
		"lead_id", "company_name", "contact_email", "contact_phone", "industry", "region",
		"source_channel", "company_size", "created_at", "annual_revenue", "group", "assigned_at",
	}
	contactEventColumns = []string{"event_id", "lead_id", "event_date", "contact_type", "response_type"}
	funnelStageColumns  = []string{"stage_id", "lead_id", "stage_name", "stage_date", "stage_order"}
	outcomeColumns      = []string{"outcome_id", "lead_id", "converted", "revenue", "outcome_date", "days_to_close"}
)

// WriteCSV writes all four streams into dir, creating it if needed.
func WriteCSV(dir string, ds *model.Dataset) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "export: mkdir %s", dir)
	}

	if err := writeFile(filepath.Join(dir, LeadsFile), leadColumns, len(ds.Leads), func(i int) []string {
		return buildLeadRow(ds.Leads[i])
	}); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(dir, ContactEventsFile), contactEventColumns, len(ds.ContactEvents), func(i int) []string {
		return buildContactEventRow(ds.ContactEvents[i])
	}); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(dir, FunnelStagesFile), funnelStageColumns, len(ds.FunnelStages), func(i int) []string {
		return buildFunnelStageRow(ds.FunnelStages[i])
	}); err != nil {
		return err
	}
	return writeFile(filepath.Join(dir, OutcomesFile), outcomeColumns, len(ds.Outcomes), func(i int) []string {
		return buildOutcomeRow(ds.Outcomes[i])
	})
}

// writeFile writes one CSV with a header and n rows produced by rowAt.
func writeFile(path string, columns []string, n int, rowAt func(int) []string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return eris.Wrapf(err, "export: write header %s", path)
	}
	for i := 0; i < n; i++ {
		if err := w.Write(rowAt(i)); err != nil {
			return eris.Wrapf(err, "export: write row %s", path)
		}
	}
	w.Flush()
	return eris.Wrapf(w.Error(), "export: flush %s", path)
}

func buildLeadRow(l model.Lead) []string {
	return []string{
		l.ID,
		l.CompanyName,
		l.ContactEmail,
		l.ContactPhone,
		l.Industry,
		l.Region,
		l.SourceChannel,
		string(l.CompanySize),
		l.CreatedAt.Format(model.TimestampLayout),
		formatMoney(l.AnnualRevenue),
		string(l.Group),
		l.AssignedAt.Format(model.DateLayout),
	}
}

func buildContactEventRow(e model.ContactEvent) []string {
	return []string{
		e.ID,
		e.LeadID,
		e.EventDate.Format(model.DateLayout),
		e.ContactType,
		e.ResponseType,
	}
}

func buildFunnelStageRow(st model.FunnelStage) []string {
	return []string{
		st.ID,
		st.LeadID,
		st.StageName,
		st.StageDate.Format(model.DateLayout),
		strconv.Itoa(st.StageOrder),
	}
}

func buildOutcomeRow(o model.Outcome) []string {
	converted := "0"
	if o.Converted {
		converted = "1"
	}
	return []string{
		o.ID,
		o.LeadID,
		converted,
		formatMoney(o.Revenue),
		o.OutcomeDate.Format(model.DateLayout),
		strconv.Itoa(o.DaysToClose),
	}
}

// formatMoney renders a dollar amount with two decimal places.
func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
