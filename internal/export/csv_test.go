package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abxplore/crmsim/internal/model"
)

func sampleDataset() *model.Dataset {
	created := time.Date(2024, 3, 10, 14, 30, 0, 0, time.UTC)
	return &model.Dataset{
		Leads: []model.Lead{
			{
				ID:            "lead-1",
				CompanyName:   "Acme Logistics",
				ContactEmail:  "ops@acme.example",
				ContactPhone:  "555-0100",
				Industry:      "Logistics",
				Region:        "North America",
				SourceChannel: "Webinar",
				CompanySize:   model.SizeMedium,
				CreatedAt:     created,
				AnnualRevenue: 1234567.891,
				Group:         model.GroupTest,
				AssignedAt:    time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
			},
			{
				ID:          "lead-2",
				CompanyName: "Borealis Mining",
				CompanySize: model.SizeSmall,
				CreatedAt:   created,
				Group:       model.GroupControl,
				AssignedAt:  time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
			},
		},
		ContactEvents: []model.ContactEvent{
			{
				ID:           "evt-1",
				LeadID:       "lead-1",
				EventDate:    time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC),
				ContactType:  "Email",
				ResponseType: "Interested",
			},
		},
		FunnelStages: []model.FunnelStage{
			{
				ID:         "stage-1",
				LeadID:     "lead-1",
				StageName:  model.StageQualified,
				StageDate:  time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
				StageOrder: 3,
			},
		},
		Outcomes: []model.Outcome{
			{
				ID:          "out-1",
				LeadID:      "lead-1",
				Converted:   true,
				Revenue:     48000,
				OutcomeDate: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
				DaysToClose: 53,
			},
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteCSV_AllFilesWritten(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteCSV(dir, sampleDataset()))

	for _, name := range []string{LeadsFile, ContactEventsFile, FunnelStagesFile, OutcomesFile} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestWriteCSV_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "raw_data")
	require.NoError(t, WriteCSV(dir, sampleDataset()))
	_, err := os.Stat(filepath.Join(dir, LeadsFile))
	assert.NoError(t, err)
}

func TestWriteCSV_LeadRows(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteCSV(dir, sampleDataset()))

	rows := readCSV(t, filepath.Join(dir, LeadsFile))
	require.Len(t, rows, 3)
	assert.Equal(t, leadColumns, rows[0])
	assert.Equal(t, []string{
		"lead-1", "Acme Logistics", "ops@acme.example", "555-0100", "Logistics",
		"North America", "Webinar", "Medium", "2024-03-10 14:30:00", "1234567.89",
		"test", "2024-03-10",
	}, rows[1])

	// Unknown phone stays an empty field.
	assert.Equal(t, "", rows[2][3])
}

func TestWriteCSV_ContactEventRows(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteCSV(dir, sampleDataset()))

	rows := readCSV(t, filepath.Join(dir, ContactEventsFile))
	require.Len(t, rows, 2)
	assert.Equal(t, contactEventColumns, rows[0])
	assert.Equal(t, []string{"evt-1", "lead-1", "2024-03-12", "Email", "Interested"}, rows[1])
}

func TestWriteCSV_FunnelStageRows(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteCSV(dir, sampleDataset()))

	rows := readCSV(t, filepath.Join(dir, FunnelStagesFile))
	require.Len(t, rows, 2)
	assert.Equal(t, funnelStageColumns, rows[0])
	assert.Equal(t, []string{"stage-1", "lead-1", "Qualified", "2024-03-20", "3"}, rows[1])
}

func TestWriteCSV_OutcomeRows(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteCSV(dir, sampleDataset()))

	rows := readCSV(t, filepath.Join(dir, OutcomesFile))
	require.Len(t, rows, 2)
	assert.Equal(t, outcomeColumns, rows[0])
	assert.Equal(t, []string{"out-1", "lead-1", "1", "48000.00", "2024-05-02", "53"}, rows[1])
}

func TestWriteCSV_EmptyStreamsStillProduceHeaders(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteCSV(dir, &model.Dataset{}))

	rows := readCSV(t, filepath.Join(dir, OutcomesFile))
	require.Len(t, rows, 1)
	assert.Equal(t, outcomeColumns, rows[0])
}
