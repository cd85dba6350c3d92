package model

// Wire formats shared by the relational and CSV sinks. Creation is kept at
// second precision; everything downstream is date-only, matching how the
// simulated CRM exports its data.
const (
	TimestampLayout = "2006-01-02 15:04:05"
	DateLayout      = "2006-01-02"
)
