// Package gen implements the seven-stage CRM dataset synthesis pipeline:
// lead generation, group assignment, contact events, funnel stages, deal
// outcomes, and fault injection. All stages share one seeded randomness
// source and run strictly sequentially, so a given seed, lead count and
// generation clock always reproduce the same dataset.
package gen

import (
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/abxplore/crmsim/internal/model"
	"github.com/abxplore/crmsim/internal/sample"
)

// Params are the externally tunable inputs of a generation run.
type Params struct {
	Seed      uint64
	Leads     int
	DataStart time.Time // leads created from here...
	DataEnd   time.Time // ...up to here
	TestStart time.Time // A/B cutover: earlier leads are baseline control
	AsOf      time.Time // generation clock; nothing is dated after this
}

// Pipeline owns the shared randomness source and runs the stages in order.
type Pipeline struct {
	params Params
	src    *sample.Source
}

// New validates params and seeds the pipeline.
func New(p Params) (*Pipeline, error) {
	if p.Leads <= 0 {
		return nil, eris.Errorf("pipeline: lead count must be positive (got %d)", p.Leads)
	}
	if !p.DataStart.Before(p.DataEnd) {
		return nil, eris.Errorf("pipeline: data start %s must precede data end %s", p.DataStart, p.DataEnd)
	}
	if p.TestStart.Before(p.DataStart) || p.TestStart.After(p.DataEnd) {
		return nil, eris.Errorf("pipeline: test start %s must fall inside the data range", p.TestStart)
	}
	if p.AsOf.IsZero() {
		return nil, eris.New("pipeline: as-of clock is required")
	}

	return &Pipeline{params: p, src: sample.New(p.Seed)}, nil
}

// Run executes all stages and returns the corrupted result bundle. The
// pipeline is pure in-memory generation; persistence is the caller's job.
func (pl *Pipeline) Run() (*model.Dataset, error) {
	p := pl.params
	log := zap.L().With(zap.Uint64("seed", p.Seed), zap.Int("leads", p.Leads))
	log.Info("pipeline: generating CRM dataset",
		zap.Time("test_start", p.TestStart),
		zap.Time("as_of", p.AsOf),
	)

	leads := NewLeadGenerator(p.Leads, p.DataStart, p.DataEnd, p.Seed, pl.src).Generate()
	log.Info("pipeline: leads generated", zap.Int("count", len(leads)))

	leads, err := AssignGroups(leads, p.TestStart, p.Seed)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: assign groups")
	}

	events, contacted := NewContactGenerator(pl.src, p.AsOf).Generate(leads)
	log.Info("pipeline: contact events generated",
		zap.Int("events", len(events)),
		zap.Int("contacted_leads", len(contacted)),
	)

	stages := NewFunnelGenerator(pl.src, p.AsOf).Generate(leads, contacted)
	log.Info("pipeline: funnel stages generated", zap.Int("count", len(stages)))

	outcomes := NewOutcomeGenerator(pl.src, p.AsOf).Generate(leads, stages)
	log.Info("pipeline: outcomes generated", zap.Int("count", len(outcomes)))

	// Fault injection is the last mutator; each stream is corrupted on its
	// own copy, one pass per entity.
	inj := NewFaultInjector(pl.src)
	ds := &model.Dataset{
		Leads:         inj.CorruptLeads(leads),
		ContactEvents: inj.CorruptContacts(events),
		FunnelStages:  inj.CorruptFunnel(stages),
		Outcomes:      inj.CorruptOutcomes(outcomes),
	}
	log.Info("pipeline: fault injection complete")

	return ds, nil
}
