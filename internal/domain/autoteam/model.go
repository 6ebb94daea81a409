package autoteam

import (
	"fmt"
	"time"
)

// Status tracks an auto-matched team after formation.
type Status string

const (
	StatusForming   Status = "forming"
	StatusLocked    Status = "locked"
	StatusCompleted Status = "completed"
)

// Member is one user's seat in an auto-matched team. Points holds the
// member's contributed fantasy points once a scoring run has executed.
type Member struct {
	UserID        string
	FantasyTeamID string
	Points        int
}

// Team is a small competitive team formed from the auto-match queue.
// The member list is immutable after creation; teams are never created
// with fewer than two members.
type Team struct {
	ID          string
	FixtureID   string
	Name        string
	Members     []Member
	TotalPoints int
	Rank        int
	Status      Status
	CreatedAt   time.Time
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.FixtureID == "" {
		return fmt.Errorf("fixture id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	if len(t.Members) < 2 {
		return fmt.Errorf("team needs at least 2 members, got %d", len(t.Members))
	}
	seen := make(map[string]struct{}, len(t.Members))
	for _, m := range t.Members {
		if m.UserID == "" || m.FantasyTeamID == "" {
			return fmt.Errorf("team member user id and fantasy team id are required")
		}
		if _, ok := seen[m.UserID]; ok {
			return fmt.Errorf("duplicate member user id: %s", m.UserID)
		}
		seen[m.UserID] = struct{}{}
	}

	return nil
}

// MemberUserIDs returns the member user ids in seat order.
func (t Team) MemberUserIDs() []string {
	out := make([]string, 0, len(t.Members))
	for _, m := range t.Members {
		out = append(out, m.UserID)
	}
	return out
}
