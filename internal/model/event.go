package model

import "time"

// Contact channel vocabulary. The first outreach is biased towards email and
// phone; later touches draw from the full set.
var ContactTypes = []string{"Email", "Phone Call", "LinkedIn Message", "Demo Request"}

// Response vocabulary. "No Response" is the failure case of the per-event
// response draw; the rest are positive outcomes.
var (
	ResponseTypes = []string{"Responded", "No Response", "Interested", "Not Interested", "Callback Requested"}

	PositiveResponses = []string{"Responded", "Interested", "Callback Requested"}
)

const ResponseNone = "No Response"

// ContactEvent is a single sales touch against a lead. Zero or more exist
// per lead; only contacted leads have any.
type ContactEvent struct {
	ID           string    `json:"event_id"`
	LeadID       string    `json:"lead_id"`
	EventDate    time.Time `json:"event_date"`
	ContactType  string    `json:"contact_type"`
	ResponseType string    `json:"response_type,omitempty"` // emptied by fault injection
}
