package gen

import (
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/abxplore/crmsim/internal/model"
	"github.com/abxplore/crmsim/internal/sample"
)

// Company size weights and the revenue multiplier applied to the log-normal
// base draw. Small shops dominate the top of the funnel.
var (
	sizeWeights = []float64{0.4, 0.3, 0.2, 0.1}

	leadSizeMultiplier = map[model.CompanySize]float64{
		model.SizeSmall:      0.4,
		model.SizeMedium:     0.7,
		model.SizeLarge:      1.0,
		model.SizeEnterprise: 2.2,
	}
)

const (
	// Fraction of weekend-dated leads pulled back onto a weekday, matching
	// weekday-heavy CRM entry.
	weekdayBias = 0.85

	// Fraction of leads created without a phone number.
	phoneMissingRate = 0.15

	// Log-space parameters of the annual revenue distribution.
	revenueLogMean  = 15
	revenueLogSigma = 1.2
)

// LeadGenerator creates the base prospect population.
type LeadGenerator struct {
	count     int
	dataStart time.Time
	dataEnd   time.Time
	src       *sample.Source
	faker     *gofakeit.Faker
}

// NewLeadGenerator configures a generator for count leads created uniformly
// across [dataStart, dataEnd). The faker gets its own stream from the same
// seed so identity fields are reproducible alongside the numeric draws.
func NewLeadGenerator(count int, dataStart, dataEnd time.Time, seed uint64, src *sample.Source) *LeadGenerator {
	return &LeadGenerator{
		count:     count,
		dataStart: dataStart,
		dataEnd:   dataEnd,
		src:       src,
		faker:     gofakeit.New(seed),
	}
}

// Generate produces the lead population. Group fields are left unset; the
// group assigner fills them in.
func (g *LeadGenerator) Generate() []model.Lead {
	leads := make([]model.Lead, 0, g.count)

	for i := 0; i < g.count; i++ {
		createdAt := g.src.TimeBetween(g.dataStart, g.dataEnd)

		// Weekend entries are mostly pulled back 1-2 days onto a weekday.
		if wd := createdAt.Weekday(); wd == time.Saturday || wd == time.Sunday {
			if g.src.Bernoulli(weekdayBias) {
				createdAt = createdAt.AddDate(0, 0, -g.src.IntBetween(1, 2))
			}
		}

		size := sample.Weighted(g.src, model.CompanySizes, sizeWeights)
		revenue := g.src.LogNormal(revenueLogMean, revenueLogSigma) * leadSizeMultiplier[size]

		lead := model.Lead{
			ID:            g.src.UUID(),
			CompanyName:   g.faker.Company(),
			ContactEmail:  g.faker.Email(),
			Industry:      sample.Uniform(g.src, model.Industries),
			Region:        sample.Uniform(g.src, model.Regions),
			SourceChannel: sample.Uniform(g.src, model.Channels),
			CompanySize:   size,
			CreatedAt:     createdAt,
			AnnualRevenue: revenue,
		}
		if !g.src.Bernoulli(phoneMissingRate) {
			lead.ContactPhone = g.faker.Phone()
		}

		leads = append(leads, lead)
	}

	return leads
}
