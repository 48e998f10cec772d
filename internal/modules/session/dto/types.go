package dto

import "time"

type StartInput struct {
	Label string
}

type StartOutput struct {
	SessionID string
	Label     string
	Backend   string
	StartedAt time.Time
}

type EndInput struct {
	SessionID    string
	ExportReport bool
}

type EndOutput struct {
	SessionID  string
	EndedAt    time.Time
	Records    int
	ReportPath string
}

type SessionOutput struct {
	SessionID string
	Label     string
	Backend   string
	StartedAt time.Time
	EndedAt   time.Time
	Active    bool
}
