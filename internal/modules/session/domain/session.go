package domain

import (
	"fmt"
	"strings"
	"time"
)

// Session scopes one record store. It starts empty and its records are gone
// once it ends.
type Session struct {
	ID        string
	Label     string
	Backend   string
	StartedAt time.Time
	EndedAt   time.Time
}

func (s Session) Active() bool {
	return s.EndedAt.IsZero()
}

func (s Session) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("session id is required")
	}
	if strings.TrimSpace(s.Backend) == "" {
		return fmt.Errorf("session backend is required")
	}
	if s.StartedAt.IsZero() {
		return fmt.Errorf("session start time is required")
	}
	return nil
}
