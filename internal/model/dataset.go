package model

import "time"

// Dataset is the in-memory result bundle handed to the persistence
// collaborators. Each slice is fully generated and immutable once the
// pipeline returns it.
type Dataset struct {
	Leads         []Lead         `json:"leads"`
	ContactEvents []ContactEvent `json:"contact_events"`
	FunnelStages  []FunnelStage  `json:"funnel_stages"`
	Outcomes      []Outcome      `json:"outcomes"`
}

// GroupCounts summarizes the A/B split for the console narration.
type GroupCounts struct {
	Baseline      int // leads created before the test start (all control)
	TestPeriod    int // leads created on/after the test start
	PeriodControl int // test-period leads assigned control
	PeriodTest    int // test-period leads assigned test
}

// CountGroups tallies the lead population against the test start date.
func (d *Dataset) CountGroups(testStart time.Time) GroupCounts {
	var c GroupCounts
	for _, l := range d.Leads {
		if l.CreatedAt.Before(testStart) {
			c.Baseline++
			continue
		}
		c.TestPeriod++
		if l.Group == GroupTest {
			c.PeriodTest++
		} else {
			c.PeriodControl++
		}
	}
	return c
}
