package gen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abxplore/crmsim/internal/model"
)

func runPipeline(t *testing.T, seed uint64, leads int) *model.Dataset {
	t.Helper()
	pl, err := New(Params{
		Seed:      seed,
		Leads:     leads,
		DataStart: testDataStart,
		DataEnd:   testDataEnd,
		TestStart: testCutover,
		AsOf:      testAsOf,
	})
	require.NoError(t, err)
	ds, err := pl.Run()
	require.NoError(t, err)
	return ds
}

func TestPipeline_Reproducible(t *testing.T) {
	a := runPipeline(t, 42, 3000)
	b := runPipeline(t, 42, 3000)
	assert.Equal(t, a.Leads, b.Leads)
	assert.Equal(t, a.ContactEvents, b.ContactEvents)
	assert.Equal(t, a.FunnelStages, b.FunnelStages)
	assert.Equal(t, a.Outcomes, b.Outcomes)
}

func TestPipeline_SeedChangesOutput(t *testing.T) {
	a := runPipeline(t, 42, 1000)
	b := runPipeline(t, 43, 1000)
	assert.NotEqual(t, a.Leads, b.Leads)
}

func TestPipeline_TestGroupConvertsBetter(t *testing.T) {
	ds := runPipeline(t, 42, 10000)

	group := map[string]model.Group{}
	inTestPeriod := map[string]bool{}
	for _, l := range ds.Leads {
		group[l.ID] = l.Group
		inTestPeriod[l.ID] = !l.CreatedAt.Before(testCutover)
	}

	leadCounts := map[model.Group]int{}
	for _, l := range ds.Leads {
		if inTestPeriod[l.ID] {
			leadCounts[l.Group]++
		}
	}

	// Fault injection flips a small fraction of converted flags; the uplift
	// has to survive that noise for a baseline cohort this size.
	convCounts := map[model.Group]int{}
	for _, o := range ds.Outcomes {
		if o.Converted && inTestPeriod[o.LeadID] {
			convCounts[group[o.LeadID]]++
		}
	}

	require.Greater(t, leadCounts[model.GroupControl], 0)
	require.Greater(t, leadCounts[model.GroupTest], 0)
	ctrl := float64(convCounts[model.GroupControl]) / float64(leadCounts[model.GroupControl])
	test := float64(convCounts[model.GroupTest]) / float64(leadCounts[model.GroupTest])
	assert.Greater(t, test, ctrl, "test conversion %.4f vs control %.4f", test, ctrl)
}

func TestPipeline_ReferentialIntegrity(t *testing.T) {
	ds := runPipeline(t, 42, 3000)

	ids := map[string]bool{}
	for _, l := range ds.Leads {
		ids[l.ID] = true
	}
	for _, e := range ds.ContactEvents {
		assert.True(t, ids[e.LeadID])
	}
	for _, st := range ds.FunnelStages {
		assert.True(t, ids[st.LeadID])
	}
	for _, o := range ds.Outcomes {
		assert.True(t, ids[o.LeadID])
	}
}

func TestPipeline_StreamsNonEmpty(t *testing.T) {
	ds := runPipeline(t, 42, 3000)
	assert.Len(t, ds.Leads, 3000)
	assert.NotEmpty(t, ds.ContactEvents)
	assert.NotEmpty(t, ds.FunnelStages)
	assert.NotEmpty(t, ds.Outcomes)
}

func TestPipeline_CorruptionPresent(t *testing.T) {
	ds := runPipeline(t, 42, 5000)

	var placeholders, dupEmails int
	for _, l := range ds.Leads {
		switch l.CompanyName {
		case "Test Company", "Delete Me", "Sample Corp":
			placeholders++
		}
		if l.ContactEmail == duplicateEmail {
			dupEmails++
		}
	}
	assert.Greater(t, placeholders, 0)
	assert.Greater(t, dupEmails, 0)

	var badOrders int
	for _, st := range ds.FunnelStages {
		if st.StageOrder < 1 || st.StageOrder > len(model.StageNames) {
			badOrders++
		}
	}
	assert.Greater(t, badOrders, 0)
}

func TestPipeline_RejectsBadParams(t *testing.T) {
	base := Params{
		Seed:      42,
		Leads:     100,
		DataStart: testDataStart,
		DataEnd:   testDataEnd,
		TestStart: testCutover,
		AsOf:      testAsOf,
	}

	p := base
	p.Leads = 0
	_, err := New(p)
	assert.Error(t, err)

	p = base
	p.DataStart, p.DataEnd = p.DataEnd, p.DataStart
	_, err = New(p)
	assert.Error(t, err)

	p = base
	p.TestStart = p.DataStart.AddDate(-1, 0, 0)
	_, err = New(p)
	assert.Error(t, err)

	p = base
	p.AsOf = time.Time{}
	_, err = New(p)
	assert.Error(t, err)
}
