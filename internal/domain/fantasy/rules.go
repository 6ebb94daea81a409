package fantasy

import (
	"errors"
	"fmt"

	"github.com/crickarena/crickarena/internal/domain/player"
)

var (
	ErrInvalidSquadSize   = errors.New("invalid squad size")
	ErrDuplicatePlayer    = errors.New("duplicate player in squad")
	ErrCreditsExceeded    = errors.New("credit cap exceeded")
	ErrRoleViolation      = errors.New("role count out of bounds")
	ErrTeamCapExceeded    = errors.New("max players from same team exceeded")
	ErrUnknownPlayerRole  = errors.New("unknown player role")
	ErrLeadershipRequired = errors.New("captain and vice-captain are required")
	ErrLeadershipInvalid  = errors.New("invalid captain or vice-captain")
)

// RoleBound holds the per-role min/max counts a squad must satisfy.
type RoleBound struct {
	Min int
	Max int
}

// Rules stores squad validation parameters.
type Rules struct {
	SquadSize         int
	CreditCap         int64
	MaxPlayersPerTeam int
	RoleBounds        map[player.Role]RoleBound
}

func DefaultRules() Rules {
	return Rules{
		SquadSize:         11,
		CreditCap:         1000,
		MaxPlayersPerTeam: 7,
		RoleBounds: map[player.Role]RoleBound{
			player.RoleWicketKeeper: {Min: 1, Max: 4},
			player.RoleBatsman:      {Min: 3, Max: 6},
			player.RoleAllRounder:   {Min: 1, Max: 4},
			player.RoleBowler:       {Min: 3, Max: 6},
		},
	}
}

// ValidatePicks checks squad composition in a fixed order: cardinality,
// credit cap, per-role bounds, per-team cap. It returns the total credit
// spend when all checks pass.
func ValidatePicks(picks []TeamPick, rules Rules) (int64, error) {
	if len(picks) != rules.SquadSize {
		return 0, fmt.Errorf("%w: expected %d, got %d", ErrInvalidSquadSize, rules.SquadSize, len(picks))
	}

	playerSet := make(map[string]struct{}, len(picks))
	roleCounter := make(map[player.Role]int)
	teamCounter := make(map[string]int)
	var totalCredits int64

	for _, pick := range picks {
		if pick.PlayerID == "" {
			return 0, fmt.Errorf("%w: player id is required", ErrInvalidSquadSize)
		}
		if _, exists := playerSet[pick.PlayerID]; exists {
			return 0, fmt.Errorf("%w: %s", ErrDuplicatePlayer, pick.PlayerID)
		}
		playerSet[pick.PlayerID] = struct{}{}

		if _, ok := player.AllRoles[pick.Role]; !ok {
			return 0, fmt.Errorf("%w: %s", ErrUnknownPlayerRole, pick.Role)
		}
		if pick.TeamCode == "" {
			return 0, fmt.Errorf("team code is required for player %s", pick.PlayerID)
		}

		roleCounter[pick.Role]++
		teamCounter[pick.TeamCode]++
		totalCredits += pick.Credits
	}

	if totalCredits > rules.CreditCap {
		return 0, fmt.Errorf("%w: cap=%d used=%d", ErrCreditsExceeded, rules.CreditCap, totalCredits)
	}

	for role, bound := range rules.RoleBounds {
		count := roleCounter[role]
		if count < bound.Min {
			return 0, fmt.Errorf("%w: role=%s min=%d current=%d", ErrRoleViolation, role, bound.Min, count)
		}
		if count > bound.Max {
			return 0, fmt.Errorf("%w: role=%s max=%d current=%d", ErrRoleViolation, role, bound.Max, count)
		}
	}

	for teamCode, count := range teamCounter {
		if count > rules.MaxPlayersPerTeam {
			return 0, fmt.Errorf("%w: team=%s max=%d current=%d", ErrTeamCapExceeded, teamCode, rules.MaxPlayersPerTeam, count)
		}
	}

	return totalCredits, nil
}

// ValidateLeadership enforces exactly one captain and one distinct
// vice-captain, both drawn from the picks.
func ValidateLeadership(picks []TeamPick) error {
	captains := 0
	vices := 0
	captainID := ""
	viceID := ""

	for _, pick := range picks {
		if pick.IsCaptain {
			captains++
			captainID = pick.PlayerID
		}
		if pick.IsViceCaptain {
			vices++
			viceID = pick.PlayerID
		}
	}

	if captains == 0 || vices == 0 {
		return fmt.Errorf("%w: captains=%d vice_captains=%d", ErrLeadershipRequired, captains, vices)
	}
	if captains > 1 || vices > 1 {
		return fmt.Errorf("%w: captains=%d vice_captains=%d", ErrLeadershipInvalid, captains, vices)
	}
	if captainID == viceID {
		return fmt.Errorf("%w: captain and vice-captain must differ", ErrLeadershipInvalid)
	}

	return nil
}
