package gen

import (
	"time"

	"github.com/abxplore/crmsim/internal/model"
	"github.com/abxplore/crmsim/internal/sample"
)

// Group-dependent funnel gates. Entry is the fraction of contacted leads that
// show up in the pipeline at all; the Closed Won rate is the terminal
// conversion gate.
const (
	funnelEntryRateTest    = 0.70
	funnelEntryRateControl = 0.65

	closedWonRateTest    = 0.60
	closedWonRateControl = 0.54
)

// funnelState is the position of a lead in the sales funnel. States advance
// strictly in declaration order; the walk halts at the first failed gate or
// future-dated stage, so every lead's emitted stages form a contiguous
// prefix of the funnel.
type funnelState int

const (
	stateNew funnelState = iota
	stateContacted
	stateQualified
	stateDemo
	stateProposal
	stateClosedWon
)

// name returns the CRM stage label for a state.
func (s funnelState) name() string {
	return model.StageNames[s]
}

// order is the 1-based CRM stage order, with "New" at 1.
func (s funnelState) order() int {
	return int(s) + 1
}

// stageDelayMean is the mean of the exponential delay (in days) incurred
// entering each state. Later stages take longer.
var stageDelayMean = map[funnelState]float64{
	stateContacted: 2,
	stateQualified: 7,
	stateDemo:      14,
	stateProposal:  21,
	stateClosedWon: 35,
}

// passProb is the Bernoulli gate for advancing into a state. Contacted
// always succeeds because funnel entry already implies contact; Closed Won
// carries the group treatment effect.
func passProb(s funnelState, group model.Group) float64 {
	switch s {
	case stateContacted:
		return 1.0
	case stateQualified:
		return 0.90
	case stateDemo:
		return 0.80
	case stateProposal:
		return 0.75
	case stateClosedWon:
		if group == model.GroupTest {
			return closedWonRateTest
		}
		return closedWonRateControl
	default:
		return 0
	}
}

// FunnelGenerator walks contacted leads through the staged sales funnel.
type FunnelGenerator struct {
	src  *sample.Source
	asOf time.Time
}

func NewFunnelGenerator(src *sample.Source, asOf time.Time) *FunnelGenerator {
	return &FunnelGenerator{src: src, asOf: asOf}
}

// Generate emits stage records for every contacted lead that passes the
// funnel entry gate. No record is emitted for the implicit "New" stage.
func (g *FunnelGenerator) Generate(leads []model.Lead, contacted map[string]bool) []model.FunnelStage {
	var stages []model.FunnelStage

	for _, lead := range leads {
		if !contacted[lead.ID] {
			continue
		}

		entryRate := funnelEntryRateControl
		if lead.Group == model.GroupTest {
			entryRate = funnelEntryRateTest
		}
		if !g.src.Bernoulli(entryRate) {
			continue
		}

		stages = append(stages, g.walk(lead)...)
	}

	return stages
}

// walk advances one lead through the funnel state machine, accumulating
// exponential inter-stage delays onto a running clock that starts at lead
// creation. The first failed gate or future-dated stage ends the walk.
func (g *FunnelGenerator) walk(lead model.Lead) []model.FunnelStage {
	var out []model.FunnelStage

	current := lead.CreatedAt
	for state := stateNew; state < stateClosedWon; {
		next := state + 1

		if !g.src.Bernoulli(passProb(next, lead.Group)) {
			break
		}

		delay := g.src.Exponential(stageDelayMean[next])
		current = current.Add(time.Duration(delay * float64(24*time.Hour)))
		if current.After(g.asOf) {
			break
		}

		out = append(out, model.FunnelStage{
			ID:         g.src.UUID(),
			LeadID:     lead.ID,
			StageName:  next.name(),
			StageDate:  dateOnly(current),
			StageOrder: next.order(),
		})
		state = next
	}

	return out
}
