package model

import "time"

// Group identifies the treatment arm a lead belongs to.
type Group string

const (
	GroupControl Group = "control"
	GroupTest    Group = "test"
)

// CompanySize is the ordinal firmographic size bucket.
type CompanySize string

const (
	SizeSmall      CompanySize = "Small"
	SizeMedium     CompanySize = "Medium"
	SizeLarge      CompanySize = "Large"
	SizeEnterprise CompanySize = "Enterprise"
)

// CompanySizes lists the size buckets in ascending order.
var CompanySizes = []CompanySize{SizeSmall, SizeMedium, SizeLarge, SizeEnterprise}

// Category vocabularies for lead attributes. These mirror the CRM picklists
// of the simulated tenant and are shared by the generator and the fault
// injector (which drifts casing/naming against them).
var (
	Regions = []string{"North America", "Europe", "Asia Pacific", "Latin America"}

	Channels = []string{"Website", "Google Ads", "LinkedIn", "Referral", "Cold Email", "Trade Show", "Webinar"}

	Industries = []string{"Healthcare", "Finance", "Technology", "Manufacturing", "Retail", "Education"}
)

// Lead is a prospect record entering the CRM pipeline. Group and AssignedAt
// are zero until the group assigner runs.
type Lead struct {
	ID            string      `json:"lead_id"`
	CompanyName   string      `json:"company_name"`
	ContactEmail  string      `json:"contact_email"`
	ContactPhone  string      `json:"contact_phone,omitempty"` // empty = unknown
	Industry      string      `json:"industry"`
	Region        string      `json:"region"`
	SourceChannel string      `json:"source_channel"`
	CompanySize   CompanySize `json:"company_size"`
	CreatedAt     time.Time   `json:"created_at"`
	AnnualRevenue float64     `json:"annual_revenue"`
	Group         Group       `json:"group,omitempty"`
	AssignedAt    time.Time   `json:"assigned_at,omitzero"`
}
