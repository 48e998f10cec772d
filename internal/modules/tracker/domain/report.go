package domain

import "time"

const ReportSchemaVersion = 1

// Report is the one-way export of a session's records.
type Report struct {
	SessionID   string
	Label       string
	GeneratedAt time.Time
	Records     []Record
	Summary     Summary
}
