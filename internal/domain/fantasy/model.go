package fantasy

import (
	"fmt"
	"time"

	"github.com/crickarena/crickarena/internal/domain/player"
)

// TeamPick represents one selected player in a user's fantasy team.
type TeamPick struct {
	PlayerID      string
	TeamCode      string
	Role          player.Role
	Credits       int64
	IsCaptain     bool
	IsViceCaptain bool
}

// Team contains one user's 11-player squad for one fixture.
type Team struct {
	ID           string
	UserID       string
	FixtureID    string
	Name         string
	Picks        []TeamPick
	TotalCredits int64
	IsLocked     bool
	Points       int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (t Team) ValidateBasic() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.UserID == "" {
		return fmt.Errorf("user id is required")
	}
	if t.FixtureID == "" {
		return fmt.Errorf("fixture id is required")
	}
	if len(t.Picks) == 0 {
		return fmt.Errorf("team picks are required")
	}

	return nil
}

// CaptainID returns the pick flagged as captain, empty when none is set.
func (t Team) CaptainID() string {
	for _, pick := range t.Picks {
		if pick.IsCaptain {
			return pick.PlayerID
		}
	}
	return ""
}

// ViceCaptainID returns the pick flagged as vice-captain, empty when none is set.
func (t Team) ViceCaptainID() string {
	for _, pick := range t.Picks {
		if pick.IsViceCaptain {
			return pick.PlayerID
		}
	}
	return ""
}
