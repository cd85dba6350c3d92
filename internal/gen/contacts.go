package gen

import (
	"time"

	"github.com/abxplore/crmsim/internal/model"
	"github.com/abxplore/crmsim/internal/sample"
)

// Group-dependent outreach rates. The test arm's new onboarding process
// contacts more leads, touches them more often, and lifts response rates.
const (
	contactRateTest    = 0.90
	contactRateControl = 0.85

	meanContactsTest    = 4.5
	meanContactsControl = 4.0

	responseBoostTest    = 1.4
	responseBoostControl = 1.0
)

// First touches skew heavily towards email.
var (
	firstTouchTypes   = []string{"Email", "Phone Call"}
	firstTouchWeights = []float64{0.7, 0.3}
)

// Base response probability per channel, before the group boost.
var responseBaseProb = map[string]float64{
	"Email":            0.25,
	"Phone Call":       0.35,
	"LinkedIn Message": 0.15,
	"Demo Request":     0.65,
}

// Split of positive responses into specific categories.
var positiveResponseWeights = []float64{0.5, 0.3, 0.2}

// ContactGenerator simulates sales outreach against the lead population.
type ContactGenerator struct {
	src  *sample.Source
	asOf time.Time
}

func NewContactGenerator(src *sample.Source, asOf time.Time) *ContactGenerator {
	return &ContactGenerator{src: src, asOf: asOf}
}

// Generate draws contact events for every contacted lead and returns them
// together with the set of contacted lead ids, which the funnel stage
// generator consumes as its entry gate.
//
// Event timing widens with the touch index: the first touch lands within 2
// days of creation, the second within a week, later ones within a month.
// Touches dated after the generation clock are dropped, not rescheduled.
func (g *ContactGenerator) Generate(leads []model.Lead) ([]model.ContactEvent, map[string]bool) {
	var events []model.ContactEvent
	contacted := make(map[string]bool)

	for _, lead := range leads {
		contactRate, meanContacts, boost := contactRateControl, meanContactsControl, responseBoostControl
		if lead.Group == model.GroupTest {
			contactRate, meanContacts, boost = contactRateTest, meanContactsTest, responseBoostTest
		}

		if !g.src.Bernoulli(contactRate) {
			continue
		}
		contacted[lead.ID] = true

		n := g.src.Poisson(meanContacts)
		if n < 1 {
			n = 1
		}

		for touch := 0; touch < n; touch++ {
			var offset int
			switch {
			case touch == 0:
				offset = g.src.IntBetween(0, 2)
			case touch == 1:
				offset = g.src.IntBetween(1, 7)
			default:
				offset = g.src.IntBetween(7, 30)
			}

			eventAt := lead.CreatedAt.AddDate(0, 0, offset)
			if eventAt.After(g.asOf) {
				continue // the lead simply has fewer recorded touches
			}

			var contactType string
			if touch == 0 {
				contactType = sample.Weighted(g.src, firstTouchTypes, firstTouchWeights)
			} else {
				contactType = sample.Uniform(g.src, model.ContactTypes)
			}

			base, ok := responseBaseProb[contactType]
			if !ok {
				base = 0.2
			}

			response := model.ResponseNone
			if g.src.Bernoulli(base * boost) {
				response = sample.Weighted(g.src, model.PositiveResponses, positiveResponseWeights)
			}

			events = append(events, model.ContactEvent{
				ID:           g.src.UUID(),
				LeadID:       lead.ID,
				EventDate:    dateOnly(eventAt),
				ContactType:  contactType,
				ResponseType: response,
			})
		}
	}

	return events, contacted
}
