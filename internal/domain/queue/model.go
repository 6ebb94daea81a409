package queue

import (
	"fmt"
	"time"
)

// Status tracks a queue entry through the matching state machine.
// An entry only ever moves waiting -> matched or waiting -> expired;
// an explicit leave deletes it while still waiting.
type Status string

const (
	StatusWaiting Status = "waiting"
	StatusMatched Status = "matched"
	StatusExpired Status = "expired"
)

// Entry is one user's pending request to be auto-matched into a
// competitive team for a fixture. Unique per (UserID, FixtureID).
type Entry struct {
	ID            string
	UserID        string
	FixtureID     string
	FantasyTeamID string
	// Seq is a per-fixture monotonic insert sequence. It breaks
	// JoinedAt ties so FIFO ordering and queue positions stay total
	// and stable.
	Seq            int64
	JoinedAt       time.Time
	Status         Status
	AssignedTeamID string
}

func (e Entry) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("queue entry id is required")
	}
	if e.UserID == "" {
		return fmt.Errorf("user id is required")
	}
	if e.FixtureID == "" {
		return fmt.Errorf("fixture id is required")
	}
	if e.FantasyTeamID == "" {
		return fmt.Errorf("fantasy team id is required")
	}
	if e.JoinedAt.IsZero() {
		return fmt.Errorf("joined at is required")
	}

	return nil
}

// Before reports FIFO order between two entries.
func (e Entry) Before(other Entry) bool {
	if !e.JoinedAt.Equal(other.JoinedAt) {
		return e.JoinedAt.Before(other.JoinedAt)
	}
	return e.Seq < other.Seq
}
