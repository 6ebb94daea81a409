package player

import "fmt"

// Role represents cricket role categories used in fantasy rules.
type Role string

const (
	RoleBatsman      Role = "BAT"
	RoleBowler       Role = "BWL"
	RoleAllRounder   Role = "AR"
	RoleWicketKeeper Role = "WK"
)

var AllRoles = map[Role]struct{}{
	RoleBatsman:      {},
	RoleBowler:       {},
	RoleAllRounder:   {},
	RoleWicketKeeper: {},
}

// Credits are stored in tenths of a point, so the 7.0-11.0 selectable
// range becomes 70-110 and the 100.0 squad cap becomes 1000.
const (
	MinCredits int64 = 70
	MaxCredits int64 = 110
)

// Player is a selectable athlete in the fantasy player pool.
type Player struct {
	ID       string
	Name     string
	TeamCode string
	Role     Role
	Credits  int64
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}
	if p.TeamCode == "" {
		return fmt.Errorf("player team code is required")
	}
	if _, ok := AllRoles[p.Role]; !ok {
		return fmt.Errorf("invalid player role: %s", p.Role)
	}
	if p.Credits < MinCredits || p.Credits > MaxCredits {
		return fmt.Errorf("player credits out of range: %d", p.Credits)
	}

	return nil
}
