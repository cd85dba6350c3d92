package gen

import (
	"time"

	"github.com/rotisserie/eris"

	"github.com/abxplore/crmsim/internal/model"
	"github.com/abxplore/crmsim/internal/sample"
)

var groupArms = []model.Group{model.GroupControl, model.GroupTest}

// AssignGroups labels every lead with its treatment arm. Leads created
// before testStart form the historical baseline and are unconditionally
// control; leads created on/after testStart are split 50/50. Assignment uses
// a source sub-seeded from the run seed so the split is stable regardless of
// how many draws earlier stages consumed.
//
// The result is a re-partition of the input: same leads, same order, no
// duplicates.
func AssignGroups(leads []model.Lead, testStart time.Time, seed uint64) ([]model.Lead, error) {
	src := sample.New(seed)

	out := make([]model.Lead, len(leads))
	seen := make(map[string]bool, len(leads))

	for i, lead := range leads {
		if seen[lead.ID] {
			return nil, eris.Errorf("group: duplicate lead id %s", lead.ID)
		}
		seen[lead.ID] = true

		if lead.CreatedAt.Before(testStart) {
			lead.Group = model.GroupControl
		} else {
			lead.Group = sample.Weighted(src, groupArms, []float64{0.5, 0.5})
		}
		lead.AssignedAt = dateOnly(lead.CreatedAt)
		out[i] = lead
	}

	return out, nil
}

// dateOnly truncates a timestamp to midnight UTC.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
