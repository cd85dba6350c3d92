package gen

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/abxplore/crmsim/internal/model"
	"github.com/abxplore/crmsim/internal/sample"
)

// Fault injection constants. Each rule samples its own row subset
// independently, so a record can be hit by several rules; overlap is part of
// the simulated messiness. Identifier fields are never touched.
var (
	placeholderNames = []string{"Test Company", "Delete Me", "Sample Corp"}

	revenueOutliers = []float64{-1000000, 999999999, 50000000}

	invalidStageOrders = []int{-1, 0, 99}

	// Common free-text drift seen when reps type stage names by hand.
	stageNameDrift = map[string]string{
		model.StageQualified: "qualified",
		model.StageDemo:      "demo",
		model.StageProposal:  "quote sent",
		model.StageClosedWon: "won",
	}

	// Fixed future timestamps injected to simulate fat-fingered dates.
	futureCreatedAt = time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	futureEventDate = time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
)

const duplicateEmail = "duplicate@example.com"

// FaultInjector corrupts a controlled fraction of each record stream to
// mimic real-world CRM data-quality defects. It operates on private copies;
// the generated streams stay pristine in the caller until replaced.
type FaultInjector struct {
	src *sample.Source
}

func NewFaultInjector(src *sample.Source) *FaultInjector {
	return &FaultInjector{src: src}
}

// CorruptLeads applies the lead-stream corruption rules: placeholder company
// names (2%), extreme revenue outliers (1%), future creation dates (0.5%),
// phone extensions on 10% of known phones, and duplicated contact emails (3%).
func (f *FaultInjector) CorruptLeads(leads []model.Lead) []model.Lead {
	out := append([]model.Lead(nil), leads...)

	for _, i := range f.pick(len(out), 0.02) {
		out[i].CompanyName = sample.Uniform(f.src, placeholderNames)
	}
	for _, i := range f.pick(len(out), 0.01) {
		out[i].AnnualRevenue = sample.Uniform(f.src, revenueOutliers)
	}
	for _, i := range f.pick(len(out), 0.005) {
		out[i].CreatedAt = futureCreatedAt
	}

	var withPhone []int
	for i := range out {
		if out[i].ContactPhone != "" {
			withPhone = append(withPhone, i)
		}
	}
	for _, i := range f.pickFrom(withPhone, 0.10) {
		out[i].ContactPhone += " x123"
	}

	for _, i := range f.pick(len(out), 0.03) {
		out[i].ContactEmail = duplicateEmail
	}

	return out
}

// CorruptContacts applies the contact-stream rules: missing response types
// (5%), lowercased contact types (8%), and future event dates (1%).
func (f *FaultInjector) CorruptContacts(events []model.ContactEvent) []model.ContactEvent {
	out := append([]model.ContactEvent(nil), events...)

	for _, i := range f.pick(len(out), 0.05) {
		out[i].ResponseType = ""
	}
	for _, i := range f.pick(len(out), 0.08) {
		out[i].ContactType = strings.ToLower(out[i].ContactType)
	}
	for _, i := range f.pick(len(out), 0.01) {
		out[i].EventDate = futureEventDate
	}

	return out
}

// CorruptFunnel applies the funnel-stream rules: out-of-range stage orders
// (2%) and drifted stage names (5%).
func (f *FaultInjector) CorruptFunnel(stages []model.FunnelStage) []model.FunnelStage {
	out := append([]model.FunnelStage(nil), stages...)

	for _, i := range f.pick(len(out), 0.02) {
		out[i].StageOrder = sample.Uniform(f.src, invalidStageOrders)
	}
	for _, i := range f.pick(len(out), 0.05) {
		if drifted, ok := stageNameDrift[out[i].StageName]; ok {
			out[i].StageName = drifted
		}
	}

	return out
}

// CorruptOutcomes applies the outcome-stream rules: sign-flipped revenue
// (1%), negative days-to-close (2%), and flipped converted flags (1%) that
// break the converted/revenue relationship on purpose.
func (f *FaultInjector) CorruptOutcomes(outcomes []model.Outcome) []model.Outcome {
	out := append([]model.Outcome(nil), outcomes...)

	for _, i := range f.pick(len(out), 0.01) {
		out[i].Revenue = -math.Abs(out[i].Revenue)
	}
	for _, i := range f.pick(len(out), 0.02) {
		out[i].DaysToClose = -abs(out[i].DaysToClose)
	}
	for _, i := range f.pick(len(out), 0.01) {
		out[i].Converted = !out[i].Converted
	}

	return out
}

// pick samples round(frac*n) distinct indices from [0, n).
func (f *FaultInjector) pick(n int, frac float64) []int {
	if frac < 0 || frac > 1 {
		panic(fmt.Sprintf("quality: sample fraction %v out of [0,1]", frac))
	}
	k := int(math.Round(frac * float64(n)))
	if k == 0 {
		return nil
	}
	return f.src.Perm(n)[:k]
}

// pickFrom samples round(frac*len(idx)) distinct values from idx.
func (f *FaultInjector) pickFrom(idx []int, frac float64) []int {
	picked := f.pick(len(idx), frac)
	out := make([]int, len(picked))
	for i, p := range picked {
		out[i] = idx[p]
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
