package gen

import (
	"time"

	"github.com/abxplore/crmsim/internal/model"
	"github.com/abxplore/crmsim/internal/sample"
)

const (
	baseDealSize = 25000.0
	minDealSize  = 5000.0

	// Deal size multiplier is drawn around this mean; the test arm closes
	// larger deals on average.
	revenueMeanTest    = 1.3
	revenueMeanControl = 1.0
	revenueSigma       = 0.2

	// Fraction of funnel entrants that never closed but still get a formal
	// lost outcome. The rest stay open, keeping outcome coverage under 100%.
	lostOutcomeRate = 0.40
)

// dealSizeMultiplier scales won revenue by company size.
var dealSizeMultiplier = map[model.CompanySize]float64{
	model.SizeSmall:      1.0,
	model.SizeMedium:     1.5,
	model.SizeLarge:      2.5,
	model.SizeEnterprise: 4.0,
}

// OutcomeGenerator derives deal outcomes from funnel terminal state.
type OutcomeGenerator struct {
	src  *sample.Source
	asOf time.Time
}

func NewOutcomeGenerator(src *sample.Source, asOf time.Time) *OutcomeGenerator {
	return &OutcomeGenerator{src: src, asOf: asOf}
}

// Generate emits exactly one converted outcome per Closed Won lead, and a
// formal lost outcome for a fixed fraction of funnel entrants that never
// closed. Leads in neither path produce no record.
func (g *OutcomeGenerator) Generate(leads []model.Lead, stages []model.FunnelStage) []model.Outcome {
	closedWonDate := make(map[string]time.Time)
	entered := make(map[string]bool)
	for _, st := range stages {
		entered[st.LeadID] = true
		if st.StageName == model.StageClosedWon {
			closedWonDate[st.LeadID] = st.StageDate
		}
	}

	var outcomes []model.Outcome

	// Won path: every Closed Won lead converts.
	for _, lead := range leads {
		wonAt, ok := closedWonDate[lead.ID]
		if !ok {
			continue
		}

		days := int(wonAt.Sub(lead.CreatedAt).Hours() / 24)
		if days < 1 {
			days = 1
		}

		mean := revenueMeanControl
		if lead.Group == model.GroupTest {
			mean = revenueMeanTest
		}
		revenue := baseDealSize * dealSizeMultiplier[lead.CompanySize] * g.src.Normal(mean, revenueSigma)
		if revenue < minDealSize {
			revenue = minDealSize
		}

		outcomes = append(outcomes, model.Outcome{
			ID:          g.src.UUID(),
			LeadID:      lead.ID,
			Converted:   true,
			Revenue:     revenue,
			OutcomeDate: wonAt,
			DaysToClose: days,
		})
	}

	// Lost path: funnel entrants that never closed.
	for _, lead := range leads {
		if !entered[lead.ID] {
			continue
		}
		if _, won := closedWonDate[lead.ID]; won {
			continue
		}
		if !g.src.Bernoulli(lostOutcomeRate) {
			continue
		}

		daysWorked := g.src.IntBetween(30, 120)
		outcomeAt := lead.CreatedAt.AddDate(0, 0, daysWorked)
		if outcomeAt.After(g.asOf) {
			continue // still in progress, no formal closure
		}

		outcomes = append(outcomes, model.Outcome{
			ID:          g.src.UUID(),
			LeadID:      lead.ID,
			Converted:   false,
			Revenue:     0,
			OutcomeDate: dateOnly(outcomeAt),
			DaysToClose: daysWorked,
		})
	}

	return outcomes
}
