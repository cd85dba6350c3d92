package model

import "time"

// Stage names in funnel order. "New" occupies order 1 and is implicit (no
// record is emitted for it); "Closed Lost" is part of the CRM vocabulary but
// the generator never emits it, losses surface in the outcomes stream.
const (
	StageNew        = "New"
	StageContacted  = "Contacted"
	StageQualified  = "Qualified"
	StageDemo       = "Demo Scheduled"
	StageProposal   = "Proposal Sent"
	StageClosedWon  = "Closed Won"
	StageClosedLost = "Closed Lost"
)

// StageNames lists the full ordered stage vocabulary.
var StageNames = []string{
	StageNew, StageContacted, StageQualified, StageDemo, StageProposal, StageClosedWon, StageClosedLost,
}

// FunnelStage records that a lead reached a stage on a date. StageOrder is
// 1-based with "New" at 1, so the first emitted record ("Contacted") is 2.
type FunnelStage struct {
	ID         string    `json:"stage_id"`
	LeadID     string    `json:"lead_id"`
	StageName  string    `json:"stage_name"`
	StageDate  time.Time `json:"stage_date"`
	StageOrder int       `json:"stage_order"`
}
