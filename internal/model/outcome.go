package model

import "time"

// Outcome is the terminal disposition of a lead that entered the funnel.
// Converted outcomes always carry revenue; lost outcomes carry zero. Leads
// abandoned without formal closure have no outcome record at all.
type Outcome struct {
	ID          string    `json:"outcome_id"`
	LeadID      string    `json:"lead_id"`
	Converted   bool      `json:"converted"`
	Revenue     float64   `json:"revenue"`
	OutcomeDate time.Time `json:"outcome_date"`
	DaysToClose int       `json:"days_to_close"`
}
