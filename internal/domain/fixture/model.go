package fixture

import (
	"fmt"
	"time"
)

// Status tracks a cricket match through its lifecycle.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusLive      Status = "live"
	StatusFinished  Status = "finished"
	StatusAbandoned Status = "abandoned"
)

// Fixture is one real-world cricket match that fantasy teams,
// predictions and auto-match queues attach to.
type Fixture struct {
	ID            string
	HomeTeam      string
	AwayTeam      string
	Venue         string
	StartsAt      time.Time
	LockAt        time.Time
	SelectionOpen bool
	Status        Status
}

func (f Fixture) Validate() error {
	if f.ID == "" {
		return fmt.Errorf("fixture id is required")
	}
	if f.HomeTeam == "" || f.AwayTeam == "" {
		return fmt.Errorf("fixture teams are required")
	}
	if f.HomeTeam == f.AwayTeam {
		return fmt.Errorf("fixture teams must differ")
	}
	if f.LockAt.IsZero() {
		return fmt.Errorf("fixture lock time is required")
	}

	return nil
}

// LockedAt reports whether squad and prediction edits are rejected at
// the given instant.
func (f Fixture) LockedAt(now time.Time) bool {
	return !now.Before(f.LockAt)
}
